package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tturner/meshdiag/internal/apdu"
	"github.com/tturner/meshdiag/internal/errors"
	"github.com/tturner/meshdiag/internal/pcap"
)

type EmitOptions struct {
	Common   CommonOptions
	Version  string
	Base     string   // hex payload to start from; zeros when empty
	Set      []string // name=value assignments
	PcapPath string
	Port     int
	Count    int
}

// RunEmit encodes a traffic diagnostics payload and prints it as hex,
// optionally writing it to a capture file as well.
func RunEmit(opts EmitOptions) error {
	cfg, logger, err := setup(opts.Common)
	if err != nil {
		return err
	}
	defer logger.Close()

	port := opts.Port
	if port == 0 && len(cfg.Capture.UDPPorts) > 0 {
		port = cfg.Capture.UDPPorts[0]
	}
	if opts.PcapPath != "" {
		if err := checkPort(port); err != nil {
			return err
		}
	}

	version := firstNonEmpty(opts.Version, cfg.Decoder.DefaultVersion)
	schema, _, err := apdu.TrafficDiagnosticsTable.ResolveString(version)
	if err != nil {
		return errors.WrapDecodeError(err, version)
	}

	values := make(map[string]uint64, schema.Layout.Len())
	for _, name := range schema.Layout.Names() {
		values[name] = 0
	}
	if opts.Base != "" {
		base, err := decodeHex(opts.Base)
		if err != nil {
			return errors.WrapInputError(err, "--base")
		}
		rec, err := apdu.Decode(apdu.TrafficDiagnosticsTable, version, base)
		if err != nil {
			return errors.WrapDecodeError(err, version)
		}
		for _, spec := range schema.Layout.Fields() {
			values[spec.Name] = rec.MustGet(spec.Name)
		}
	}

	for _, assignment := range opts.Set {
		name, value, err := parseAssignment(assignment)
		if err != nil {
			return err
		}
		if _, ok := schema.Layout.Field(name); !ok {
			for _, derived := range schema.DerivedNames() {
				if derived == name {
					return fmt.Errorf("field %s is derived and cannot be set; set its source field instead", name)
				}
			}
			return fmt.Errorf("unknown field %s for %s", name, schema.Name)
		}
		values[name] = value
	}

	payload, err := apdu.Encode(schema.Layout, values)
	if err != nil {
		return err
	}
	logger.Verbose("Encoded %d bytes for %s", len(payload), schema.Name)
	fmt.Fprintln(opts.Common.stdout(), formatHex(payload))

	if opts.PcapPath != "" {
		count := opts.Count
		if count <= 0 {
			count = 1
		}
		payloads := make([]pcap.Payload, count)
		for i := range payloads {
			payloads[i] = pcap.Payload{Data: payload}
		}
		if err := pcap.WritePayloads(opts.PcapPath, port, payloads); err != nil {
			return err
		}
		logger.Info("Wrote %d packets to %s (UDP port %d)", count, opts.PcapPath, port)
	}
	return nil
}

// parseAssignment parses name=value; value may be decimal, 0x hex, 0o octal
// or 0b binary.
func parseAssignment(s string) (string, uint64, error) {
	name, raw, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", 0, fmt.Errorf("invalid assignment %q (expected name=value)", s)
	}
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 0, 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid value for %s: %w", name, err)
	}
	return name, value, nil
}
