package codec

// Fixed-width integer helpers shared by the APDU decoder and encoder.

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrWidth is returned for integer widths other than 1, 2, 4 or 8 bytes.
var ErrWidth = errors.New("unsupported integer width")

// ValidWidth reports whether width is a supported integer width in bytes.
func ValidWidth(width int) bool {
	switch width {
	case 1, 2, 4, 8:
		return true
	default:
		return false
	}
}

// Uint reads an unsigned integer of the given width from the start of src.
func Uint(order binary.ByteOrder, src []byte, width int) (uint64, error) {
	if !ValidWidth(width) {
		return 0, fmt.Errorf("%w: %d", ErrWidth, width)
	}
	if len(src) < width {
		return 0, fmt.Errorf("need %d bytes, have %d", width, len(src))
	}
	switch width {
	case 1:
		return uint64(src[0]), nil
	case 2:
		return uint64(order.Uint16(src)), nil
	case 4:
		return uint64(order.Uint32(src)), nil
	default:
		return order.Uint64(src), nil
	}
}

// Int reads a two's-complement signed integer of the given width from src
// and sign-extends it to 64 bits.
func Int(order binary.ByteOrder, src []byte, width int) (int64, error) {
	u, err := Uint(order, src, width)
	if err != nil {
		return 0, err
	}
	switch width {
	case 1:
		return int64(int8(u)), nil
	case 2:
		return int64(int16(u)), nil
	case 4:
		return int64(int32(u)), nil
	default:
		return int64(u), nil
	}
}

// FitsUint reports whether v is representable in width bytes unsigned.
func FitsUint(v uint64, width int) bool {
	if width >= 8 {
		return true
	}
	return v>>(uint(width)*8) == 0
}

// FitsInt reports whether v is representable in width bytes signed.
func FitsInt(v int64, width int) bool {
	if width >= 8 {
		return true
	}
	bits := uint(width) * 8
	lo := -(int64(1) << (bits - 1))
	hi := int64(1)<<(bits-1) - 1
	return v >= lo && v <= hi
}

// AppendUint appends the low width bytes of value to dst.
func AppendUint(order binary.ByteOrder, dst []byte, width int, value uint64) ([]byte, error) {
	switch width {
	case 1:
		return append(dst, byte(value)), nil
	case 2:
		return AppendUint16(order, dst, uint16(value)), nil
	case 4:
		return AppendUint32(order, dst, uint32(value)), nil
	case 8:
		return AppendUint64(order, dst, value), nil
	default:
		return dst, fmt.Errorf("%w: %d", ErrWidth, width)
	}
}

// AppendUint16 appends a uint16 to dst using the provided byte order.
func AppendUint16(order binary.ByteOrder, dst []byte, value uint16) []byte {
	var buf [2]byte
	order.PutUint16(buf[:], value)
	return append(dst, buf[:]...)
}

// AppendUint32 appends a uint32 to dst using the provided byte order.
func AppendUint32(order binary.ByteOrder, dst []byte, value uint32) []byte {
	var buf [4]byte
	order.PutUint32(buf[:], value)
	return append(dst, buf[:]...)
}

// AppendUint64 appends a uint64 to dst using the provided byte order.
func AppendUint64(order binary.ByteOrder, dst []byte, value uint64) []byte {
	var buf [8]byte
	order.PutUint64(buf[:], value)
	return append(dst, buf[:]...)
}
