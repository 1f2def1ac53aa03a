package apdu

import (
	"errors"
	"strings"
	"testing"
)

func TestNewLayout(t *testing.T) {
	l, err := NewLayout(U16("a"), U8("b"), U32("c"), I64("d"))
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	if l.Size() != 15 {
		t.Errorf("Size() = %d, want 15", l.Size())
	}
	for name, want := range map[string]int{"a": 0, "b": 2, "c": 3, "d": 7, "missing": -1} {
		if got := l.Offset(name); got != want {
			t.Errorf("Offset(%s) = %d, want %d", name, got, want)
		}
	}
	if spec, _ := l.Field("d"); spec.TypeName() != "int64" {
		t.Errorf("TypeName() = %s, want int64", spec.TypeName())
	}
}

func TestNewLayoutErrors(t *testing.T) {
	tests := []struct {
		name  string
		specs []FieldSpec
	}{
		{"empty", nil},
		{"unnamed", []FieldSpec{{Width: 1}}},
		{"duplicate", []FieldSpec{U8("a"), U16("a")}},
		{"width 3", []FieldSpec{{Name: "a", Width: 3}}},
		{"width 0", []FieldSpec{{Name: "a"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewLayout(tt.specs...); !errors.Is(err, ErrMalformedField) {
				t.Errorf("err = %v, want ErrMalformedField", err)
			}
		})
	}
}

func TestTrafficDiagnosticsLayoutSize(t *testing.T) {
	for _, s := range TrafficDiagnosticsTable.Schemas() {
		if s.Layout.Size() != TrafficDiagnosticsSize {
			t.Errorf("%s: Size() = %d, want %d", s.Name, s.Layout.Size(), TrafficDiagnosticsSize)
		}
		if s.Layout.Len() != 15 {
			t.Errorf("%s: Len() = %d, want 15", s.Name, s.Layout.Len())
		}
	}
}

func TestNewTableRejectsOverlap(t *testing.T) {
	layout := MustNewLayout(U8("a"))
	_, err := NewTable("t",
		&Schema{Name: "old", Range: Since(V(3, 0)), Layout: layout},
		&Schema{Name: "new", Range: Since(V(4, 0)), Layout: layout},
	)
	if err == nil || !strings.Contains(err.Error(), "overlaps") {
		t.Fatalf("err = %v, want overlap error", err)
	}
}

func TestNewTableValidatesDerivations(t *testing.T) {
	layout := MustNewLayout(U16("a"), U8("b"))
	tests := []struct {
		name string
		der  Derivation
		want string
	}{
		{"unknown input", SplitBytes("x", "lo", "hi"), "unknown field"},
		{"overwrites primitive", SplitBytes("a", "b", "hi"), "overwrite"},
		{"duplicate output", SplitBytes("a", "lo", "lo"), "produced twice"},
		{"no compute", Derivation{Name: "nil", Inputs: []string{"a"}, Outputs: []string{"c"}}, "no compute"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable("t", &Schema{
				Name:        "s",
				Range:       Since(V(1, 0)),
				Layout:      layout,
				Derivations: []Derivation{tt.der},
			})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestNewTableRejectsEmptyRange(t *testing.T) {
	_, err := NewTable("t", &Schema{Name: "s", Range: Between(V(4, 0), V(4, 0)), Layout: MustNewLayout(U8("a"))})
	if err == nil {
		t.Fatal("expected error for empty range")
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		version string
		want    string
	}{
		{"3.0", "traffic_diagnostics/3.x"},
		{"3.9", "traffic_diagnostics/3.x"},
		{"4.0", "traffic_diagnostics/4.0+"},
		{"4.0.0.1", "traffic_diagnostics/4.0+"},
		{"5.2", "traffic_diagnostics/4.0+"},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			s, _, err := TrafficDiagnosticsTable.ResolveString(tt.version)
			if err != nil {
				t.Fatalf("ResolveString: %v", err)
			}
			if s.Name != tt.want {
				t.Errorf("schema = %s, want %s", s.Name, tt.want)
			}
		})
	}

	if _, err := TrafficDiagnosticsTable.Resolve(V(2, 9)); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("2.9: err = %v, want ErrUnsupportedVersion", err)
	}
}

func TestSchemaDerivedNames(t *testing.T) {
	schemas := TrafficDiagnosticsTable.Schemas()
	if got := schemas[0].DerivedNames(); len(got) != 0 {
		t.Errorf("3.x derived = %v, want none", got)
	}
	got := schemas[1].DerivedNames()
	if len(got) != 2 || got[0] != FieldClusterMembers || got[1] != FieldClusterHeadnodeMembers {
		t.Errorf("4.0+ derived = %v", got)
	}
}

func TestSchemaCopiesDoNotAffectDecoding(t *testing.T) {
	payload := make([]byte, TrafficDiagnosticsSize)
	payload[0], payload[1] = 0x02, 0x03

	rec, err := Decode(TrafficDiagnosticsTable, "4.0", payload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	fromRecord := rec.Schema()
	fromRecord.Derivations[0].Outputs[0] = "renamed"
	fromRecord.Derivations = nil
	fromRecord.Range = Since(V(9, 0))

	resolved, err := TrafficDiagnosticsTable.Resolve(V(4, 0))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	resolved.Layout = MustNewLayout(U8("only"))
	TrafficDiagnosticsTable.Schemas()[1].Derivations = nil

	if got := rec.Schema().Derivations; len(got) != 1 || got[0].Outputs[0] != FieldClusterMembers {
		t.Errorf("record schema derivations = %+v", got)
	}
	later, err := Decode(TrafficDiagnosticsTable, "4.1", payload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if later.Len() != 17 || later.MustGet(FieldClusterMembers) != 2 || later.MustGet(FieldClusterHeadnodeMembers) != 3 {
		t.Errorf("later decode has %d fields: %v", later.Len(), later.Map())
	}
}

func TestNewTableCopiesSchemas(t *testing.T) {
	s := &Schema{Name: "x", Range: Since(V(1, 0)), Layout: MustNewLayout(U16("v"))}
	table := MustNewTable("x", s)
	s.Derivations = []Derivation{SplitBytes("v", "lo", "hi")}

	rec, err := Decode(table, "1.0", []byte{1, 2})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if rec.Has("lo") {
		t.Error("changing a registered schema altered the table")
	}
}
