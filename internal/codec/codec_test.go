package codec

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestUint(t *testing.T) {
	tests := []struct {
		name  string
		order binary.ByteOrder
		src   []byte
		width int
		want  uint64
	}{
		{"uint8", binary.LittleEndian, []byte{0xFF}, 1, 0xFF},
		{"little endian uint16", binary.LittleEndian, []byte{0x02, 0x03}, 2, 0x0302},
		{"big endian uint16", binary.BigEndian, []byte{0x02, 0x03}, 2, 0x0203},
		{"little endian uint32", binary.LittleEndian, []byte{0x04, 0x03, 0x02, 0x01}, 4, 0x01020304},
		{"little endian uint64", binary.LittleEndian, []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}, 8, 0x0102030405060708},
		{"ignores extra bytes", binary.LittleEndian, []byte{0x10, 0x00, 0xAA}, 2, 0x10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Uint(tt.order, tt.src, tt.width)
			if err != nil {
				t.Fatalf("Uint() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Uint() = 0x%X, want 0x%X", got, tt.want)
			}
		})
	}
}

func TestUintErrors(t *testing.T) {
	if _, err := Uint(binary.LittleEndian, []byte{1, 2, 3}, 3); !errors.Is(err, ErrWidth) {
		t.Errorf("width 3: got %v, want ErrWidth", err)
	}
	if _, err := Uint(binary.LittleEndian, []byte{1}, 2); err == nil {
		t.Error("expected error for short source")
	}
}

func TestInt(t *testing.T) {
	tests := []struct {
		name  string
		src   []byte
		width int
		want  int64
	}{
		{"int8 negative", []byte{0xFF}, 1, -1},
		{"int8 positive", []byte{0x7F}, 1, 127},
		{"int16 negative", []byte{0x00, 0x80}, 2, -32768},
		{"int32 negative", []byte{0xFE, 0xFF, 0xFF, 0xFF}, 4, -2},
		{"int64", []byte{0x01, 0, 0, 0, 0, 0, 0, 0}, 8, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Int(binary.LittleEndian, tt.src, tt.width)
			if err != nil {
				t.Fatalf("Int() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Int() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFits(t *testing.T) {
	if !FitsUint(0xFF, 1) || FitsUint(0x100, 1) {
		t.Error("FitsUint width 1 boundary wrong")
	}
	if !FitsUint(0xFFFF, 2) || FitsUint(0x10000, 2) {
		t.Error("FitsUint width 2 boundary wrong")
	}
	if !FitsUint(^uint64(0), 8) {
		t.Error("FitsUint width 8 must accept max uint64")
	}
	if !FitsInt(-128, 1) || FitsInt(-129, 1) || FitsInt(128, 1) {
		t.Error("FitsInt width 1 boundary wrong")
	}
}

func TestAppendUint(t *testing.T) {
	tests := []struct {
		name  string
		dst   []byte
		width int
		value uint64
		want  []byte
	}{
		{"uint8", nil, 1, 0x7F, []byte{0x7F}},
		{"uint16 to existing", []byte{0xAA}, 2, 0x0102, []byte{0xAA, 0x02, 0x01}},
		{"uint32", nil, 4, 0xAABBCCDD, []byte{0xDD, 0xCC, 0xBB, 0xAA}},
		{"uint64", nil, 8, 1, []byte{0x01, 0, 0, 0, 0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AppendUint(binary.LittleEndian, tt.dst, tt.width, tt.value)
			if err != nil {
				t.Fatalf("AppendUint() error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("AppendUint() len = %d, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("AppendUint() = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}

	if _, err := AppendUint(binary.LittleEndian, nil, 3, 1); !errors.Is(err, ErrWidth) {
		t.Errorf("width 3: got %v, want ErrWidth", err)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, width := range []int{1, 2, 4, 8} {
		buf, err := AppendUint(binary.LittleEndian, nil, width, 0x7A)
		if err != nil {
			t.Fatalf("width %d: %v", width, err)
		}
		got, err := Uint(binary.LittleEndian, buf, width)
		if err != nil {
			t.Fatalf("width %d: %v", width, err)
		}
		if got != 0x7A {
			t.Errorf("width %d round trip = 0x%X, want 0x7A", width, got)
		}
	}
}
