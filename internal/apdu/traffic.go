package apdu

// Traffic diagnostics report sent periodically by mesh nodes.

// Traffic diagnostics field names.
const (
	FieldAccessCycles             = "access_cycles"
	FieldClusterChannel           = "cluster_channel"
	FieldChannelReliability       = "channel_reliability"
	FieldRxAmount                 = "rx_amount"
	FieldTxAmount                 = "tx_amount"
	FieldAlohaRxRatio             = "aloha_rx_ratio"
	FieldReservedRxSuccessRatio   = "reserved_rx_success_ratio"
	FieldDataRxRatio              = "data_rx_ratio"
	FieldRxDuplicateRatio         = "rx_duplicate_ratio"
	FieldCCASuccessRatio          = "cca_success_ratio"
	FieldBroadcastRatio           = "broadcast_ratio"
	FieldFailedUnicastRatio       = "failed_unicast_ratio"
	FieldMaxReservedSlotUsage     = "max_reserved_slot_usage"
	FieldAverageReservedSlotUsage = "average_reserved_slot_usage"
	FieldMaxAlohaSlotUsage        = "max_aloha_slot_usage"

	// Since 4.0 access_cycles also carries cluster membership counts.
	FieldClusterMembers         = "cluster_members"
	FieldClusterHeadnodeMembers = "cluster_headnode_members"
)

// TrafficDiagnosticsSize is the payload length of every supported version.
const TrafficDiagnosticsSize = 18

var trafficDiagnosticsLayout = MustNewLayout(
	U16(FieldAccessCycles),
	U8(FieldClusterChannel),
	U8(FieldChannelReliability),
	U16(FieldRxAmount),
	U16(FieldTxAmount),
	U8(FieldAlohaRxRatio),
	U8(FieldReservedRxSuccessRatio),
	U8(FieldDataRxRatio),
	U8(FieldRxDuplicateRatio),
	U8(FieldCCASuccessRatio),
	U8(FieldBroadcastRatio),
	U8(FieldFailedUnicastRatio),
	U8(FieldMaxReservedSlotUsage),
	U8(FieldAverageReservedSlotUsage),
	U8(FieldMaxAlohaSlotUsage),
)

// TrafficDiagnosticsTable resolves traffic diagnostics layouts: 3.x decodes
// the primitive fields only, 4.0 and later add the cluster membership split.
var TrafficDiagnosticsTable = MustNewTable("traffic_diagnostics",
	&Schema{
		Name:   "traffic_diagnostics/3.x",
		Range:  Between(V(3, 0), V(4, 0)),
		Layout: trafficDiagnosticsLayout,
	},
	&Schema{
		Name:   "traffic_diagnostics/4.0+",
		Range:  Since(V(4, 0)),
		Layout: trafficDiagnosticsLayout,
		Derivations: []Derivation{
			SplitBytes(FieldAccessCycles, FieldClusterMembers, FieldClusterHeadnodeMembers),
		},
	},
)

// TrafficDiagnostics is the typed view of a decoded traffic diagnostics
// report. ClusterMembers and ClusterHeadnodeMembers are nil before 4.0.
type TrafficDiagnostics struct {
	Version                  Version `json:"-"`
	AccessCycles             uint16  `json:"access_cycles"`
	ClusterChannel           uint8   `json:"cluster_channel"`
	ChannelReliability       uint8   `json:"channel_reliability"`
	RxAmount                 uint16  `json:"rx_amount"`
	TxAmount                 uint16  `json:"tx_amount"`
	AlohaRxRatio             uint8   `json:"aloha_rx_ratio"`
	ReservedRxSuccessRatio   uint8   `json:"reserved_rx_success_ratio"`
	DataRxRatio              uint8   `json:"data_rx_ratio"`
	RxDuplicateRatio         uint8   `json:"rx_duplicate_ratio"`
	CCASuccessRatio          uint8   `json:"cca_success_ratio"`
	BroadcastRatio           uint8   `json:"broadcast_ratio"`
	FailedUnicastRatio       uint8   `json:"failed_unicast_ratio"`
	MaxReservedSlotUsage     uint8   `json:"max_reserved_slot_usage"`
	AverageReservedSlotUsage uint8   `json:"average_reserved_slot_usage"`
	MaxAlohaSlotUsage        uint8   `json:"max_aloha_slot_usage"`
	ClusterMembers           *uint8  `json:"cluster_members,omitempty"`
	ClusterHeadnodeMembers   *uint8  `json:"cluster_headnode_members,omitempty"`
}

// DecodeTrafficDiagnostics decodes payload under version into the typed view.
func DecodeTrafficDiagnostics(version string, payload []byte, opts ...Option) (TrafficDiagnostics, error) {
	rec, err := Decode(TrafficDiagnosticsTable, version, payload, opts...)
	if err != nil {
		return TrafficDiagnostics{}, err
	}
	return NewTrafficDiagnostics(rec)
}

// NewTrafficDiagnostics converts a record decoded from TrafficDiagnosticsTable.
func NewTrafficDiagnostics(rec *Record) (TrafficDiagnostics, error) {
	var missing string
	get := func(name string) uint64 {
		v, ok := rec.Get(name)
		if !ok && missing == "" {
			missing = name
		}
		return v
	}
	td := TrafficDiagnostics{
		Version:                  rec.Version(),
		AccessCycles:             uint16(get(FieldAccessCycles)),
		ClusterChannel:           uint8(get(FieldClusterChannel)),
		ChannelReliability:       uint8(get(FieldChannelReliability)),
		RxAmount:                 uint16(get(FieldRxAmount)),
		TxAmount:                 uint16(get(FieldTxAmount)),
		AlohaRxRatio:             uint8(get(FieldAlohaRxRatio)),
		ReservedRxSuccessRatio:   uint8(get(FieldReservedRxSuccessRatio)),
		DataRxRatio:              uint8(get(FieldDataRxRatio)),
		RxDuplicateRatio:         uint8(get(FieldRxDuplicateRatio)),
		CCASuccessRatio:          uint8(get(FieldCCASuccessRatio)),
		BroadcastRatio:           uint8(get(FieldBroadcastRatio)),
		FailedUnicastRatio:       uint8(get(FieldFailedUnicastRatio)),
		MaxReservedSlotUsage:     uint8(get(FieldMaxReservedSlotUsage)),
		AverageReservedSlotUsage: uint8(get(FieldAverageReservedSlotUsage)),
		MaxAlohaSlotUsage:        uint8(get(FieldMaxAlohaSlotUsage)),
	}
	if missing != "" {
		return TrafficDiagnostics{}, errMalformed(missing, -1, "not present in record")
	}
	if v, ok := rec.Get(FieldClusterMembers); ok {
		n := uint8(v)
		td.ClusterMembers = &n
	}
	if v, ok := rec.Get(FieldClusterHeadnodeMembers); ok {
		n := uint8(v)
		td.ClusterHeadnodeMembers = &n
	}
	return td, nil
}
