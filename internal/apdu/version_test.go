package apdu

import (
	"errors"
	"testing"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in   string
		want Version
	}{
		{"3", V(3, 0)},
		{"3.2", V(3, 2)},
		{"4.0", V(4, 0)},
		{" 4.1 ", V(4, 1)},
		{"v4.1", V(4, 1)},
		{"5.1.0.12", V(5, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVersion(tt.in)
			if err != nil {
				t.Fatalf("ParseVersion: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseVersion(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseVersionInvalid(t *testing.T) {
	for _, in := range []string{"", " ", "x", "4.", ".4", "4.-1", "4..0"} {
		if _, err := ParseVersion(in); !errors.Is(err, ErrUnsupportedVersion) {
			t.Errorf("ParseVersion(%q) err = %v, want ErrUnsupportedVersion", in, err)
		}
	}
}

func TestVersionRangeContains(t *testing.T) {
	v3 := Between(V(3, 0), V(4, 0))
	v4 := Since(V(4, 0))

	tests := []struct {
		v   Version
		in3 bool
		in4 bool
	}{
		{V(2, 99), false, false},
		{V(3, 0), true, false},
		{V(3, 99), true, false},
		{V(4, 0), false, true},
		{V(4, 1), false, true},
		{V(42, 0), false, true},
	}
	for _, tt := range tests {
		if got := v3.Contains(tt.v); got != tt.in3 {
			t.Errorf("3.x Contains(%s) = %v, want %v", tt.v, got, tt.in3)
		}
		if got := v4.Contains(tt.v); got != tt.in4 {
			t.Errorf("4.0+ Contains(%s) = %v, want %v", tt.v, got, tt.in4)
		}
	}
}

func TestVersionRangeOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b VersionRange
		want bool
	}{
		{"adjacent", Between(V(3, 0), V(4, 0)), Since(V(4, 0)), false},
		{"nested", Between(V(3, 0), V(5, 0)), Between(V(4, 0), V(4, 5)), true},
		{"two unbounded", Since(V(3, 0)), Since(V(4, 0)), true},
		{"disjoint", Between(V(1, 0), V(2, 0)), Between(V(3, 0), V(4, 0)), false},
		{"unbounded after", Between(V(1, 0), V(2, 0)), Since(V(2, 0)), false},
		{"unbounded covers", Since(V(1, 0)), Between(V(3, 0), V(4, 0)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("reverse Overlaps = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVersionRangeString(t *testing.T) {
	if got := Between(V(3, 0), V(4, 0)).String(); got != "3.x" {
		t.Errorf("got %q, want 3.x", got)
	}
	if got := Since(V(4, 0)).String(); got != "4.0+" {
		t.Errorf("got %q, want 4.0+", got)
	}
	if got := Between(V(4, 0), V(4, 5)).String(); got != "[4.0, 4.5)" {
		t.Errorf("got %q", got)
	}
}
