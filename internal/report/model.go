package report

import (
	"encoding/hex"
	"strings"

	"github.com/tturner/meshdiag/internal/apdu"
	"github.com/tturner/meshdiag/internal/metrics"
)

// DecodedPayload is the outcome of decoding one payload.
type DecodedPayload struct {
	Source    string       `json:"source"`
	Timestamp string       `json:"timestamp,omitempty"`
	Version   string       `json:"version"`
	Schema    string       `json:"schema,omitempty"`
	Size      int          `json:"size"`
	Hex       string       `json:"hex"`
	Fields    *apdu.Record `json:"fields,omitempty"`
	ErrorKind string       `json:"error_kind,omitempty"`
	Error     string       `json:"error,omitempty"`
}

// NewDecodedPayload builds the report entry for one decode call.
func NewDecodedPayload(source, version string, data []byte, rec *apdu.Record, err error) DecodedPayload {
	p := DecodedPayload{
		Source:  source,
		Version: version,
		Size:    len(data),
		Hex:     strings.ToUpper(hex.EncodeToString(data)),
		Fields:  rec,
	}
	if rec != nil && rec.Schema() != nil {
		p.Schema = rec.Schema().Name
	}
	if err != nil {
		p.ErrorKind = apdu.Kind(err)
		p.Error = err.Error()
	}
	return p
}

// CaptureReport is the JSON document produced for a capture decode run.
type CaptureReport struct {
	GeneratedAt     string           `json:"generated_at"`
	MeshdiagVersion string           `json:"meshdiag_version"`
	Input           string           `json:"input"`
	Version         string           `json:"protocol_version"`
	Summary         *metrics.Summary `json:"summary"`
	Payloads        []DecodedPayload `json:"payloads"`
}
