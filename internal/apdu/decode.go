package apdu

import (
	"encoding/binary"
	"errors"

	"github.com/tturner/meshdiag/internal/codec"
)

// byteOrder is the wire convention for every field of every payload.
var byteOrder = binary.LittleEndian

type options struct {
	allowTrailing bool
}

// Option adjusts decoder behaviour.
type Option func(*options)

// WithAllowTrailingBytes tolerates payloads longer than the layout, for
// firmware known to pad. Extra bytes are ignored.
func WithAllowTrailingBytes(allow bool) Option {
	return func(o *options) {
		o.allowTrailing = allow
	}
}

// Decoder decodes payloads of one message kind. It holds no mutable state and
// may be shared between goroutines.
type Decoder struct {
	table *Table
	opts  options
}

// NewDecoder returns a decoder for table.
func NewDecoder(table *Table, opts ...Option) *Decoder {
	d := &Decoder{table: table}
	for _, opt := range opts {
		opt(&d.opts)
	}
	return d
}

// Table returns the decoder's schema table.
func (d *Decoder) Table() *Table {
	return d.table
}

// Decode resolves version, decodes payload and applies derivations.
func (d *Decoder) Decode(version string, payload []byte) (*Record, error) {
	v, err := ParseVersion(version)
	if err != nil {
		return nil, err
	}
	rec, err := d.DecodeVersion(v, payload)
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			de.Version = version
		}
		return nil, err
	}
	return rec, nil
}

// DecodeVersion is Decode with an already parsed version.
func (d *Decoder) DecodeVersion(v Version, payload []byte) (*Record, error) {
	schema, err := d.table.resolve(v)
	if err != nil {
		return nil, err
	}
	rec, err := decodePrimitives(schema, v, payload, d.opts.allowTrailing)
	if err != nil {
		return nil, err
	}
	for _, der := range schema.Derivations {
		if err := der.apply(rec); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// Decode is a one-shot convenience around NewDecoder(table, opts...).Decode.
func Decode(table *Table, version string, payload []byte, opts ...Option) (*Record, error) {
	return NewDecoder(table, opts...).Decode(version, payload)
}

func decodePrimitives(schema *Schema, v Version, payload []byte, allowTrailing bool) (*Record, error) {
	layout := schema.Layout
	size := layout.Size()
	switch {
	case len(payload) < size:
		return nil, errTruncated(v.String(), len(payload), size)
	case len(payload) > size && !allowTrailing:
		return nil, errTrailing(v.String(), len(payload), size)
	}

	rec := newRecord(schema, v, schema.FieldCount())
	for i, spec := range layout.fields {
		offset := layout.offsets[i]
		value, err := readField(spec, payload[offset:offset+spec.Width])
		if err != nil {
			return nil, errMalformed(spec.Name, offset, "%v", err)
		}
		rec.appendPrimitive(spec.Name, value)
	}
	return rec, nil
}

// readField reads one field. Signed values are sign-extended and kept as
// their 64-bit two's-complement pattern.
func readField(spec FieldSpec, src []byte) (uint64, error) {
	if spec.Signed {
		n, err := codec.Int(byteOrder, src, spec.Width)
		return uint64(n), err
	}
	return codec.Uint(byteOrder, src, spec.Width)
}
