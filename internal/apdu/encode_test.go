package apdu

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeScenario(t *testing.T) {
	got, err := Encode(trafficDiagnosticsLayout, scenarioValues())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if want := mustHex(t, scenarioHex); !bytes.Equal(got, want) {
		t.Errorf("Encode() = % X, want % X", got, want)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	values := []map[string]uint64{
		scenarioValues(),
		func() map[string]uint64 {
			m := scenarioValues()
			m[FieldAccessCycles] = 0xFFFF
			m[FieldRxAmount] = 0xABCD
			m[FieldTxAmount] = 0
			return m
		}(),
	}
	for _, version := range []string{"3.2", "4.0"} {
		for i, want := range values {
			payload, err := Encode(trafficDiagnosticsLayout, want)
			if err != nil {
				t.Fatalf("case %d: Encode: %v", i, err)
			}
			rec, err := Decode(TrafficDiagnosticsTable, version, payload)
			if err != nil {
				t.Fatalf("case %d %s: Decode: %v", i, version, err)
			}
			for name, v := range want {
				if got := rec.MustGet(name); got != v {
					t.Errorf("case %d %s: %s = %d, want %d", i, version, name, got, v)
				}
			}
			again, err := EncodeRecord(rec)
			if err != nil {
				t.Fatalf("EncodeRecord: %v", err)
			}
			if !bytes.Equal(again, payload) {
				t.Errorf("EncodeRecord() = % X, want % X", again, payload)
			}
		}
	}
}

func TestEncodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]uint64)
	}{
		{"missing field", func(m map[string]uint64) { delete(m, FieldTxAmount) }},
		{"unknown field", func(m map[string]uint64) { m["bogus"] = 1 }},
		{"uint8 overflow", func(m map[string]uint64) { m[FieldClusterChannel] = 256 }},
		{"uint16 overflow", func(m map[string]uint64) { m[FieldRxAmount] = 0x10000 }},
		{"derived field", func(m map[string]uint64) { m[FieldClusterMembers] = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := scenarioValues()
			tt.mutate(values)
			if _, err := Encode(trafficDiagnosticsLayout, values); !errors.Is(err, ErrMalformedField) {
				t.Errorf("err = %v, want ErrMalformedField", err)
			}
		})
	}
}

func TestEncodeSigned(t *testing.T) {
	layout := MustNewLayout(I8("t"), I16("o"))
	neg := int64(-2)
	got, err := Encode(layout, map[string]uint64{"t": uint64(neg), "o": 0x7FFF})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if want := []byte{0xFE, 0xFF, 0x7F}; !bytes.Equal(got, want) {
		t.Errorf("Encode() = % X, want % X", got, want)
	}
	if _, err := Encode(layout, map[string]uint64{"t": 200, "o": 0}); !errors.Is(err, ErrMalformedField) {
		t.Errorf("int8 overflow: err = %v, want ErrMalformedField", err)
	}
}
