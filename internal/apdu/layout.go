package apdu

import (
	"fmt"

	"github.com/tturner/meshdiag/internal/codec"
)

// FieldSpec describes one positional field of a payload.
type FieldSpec struct {
	Name   string
	Width  int // bytes: 1, 2, 4 or 8
	Signed bool
}

// U8, U16, U32 and U64 declare unsigned fields.
func U8(name string) FieldSpec  { return FieldSpec{Name: name, Width: 1} }
func U16(name string) FieldSpec { return FieldSpec{Name: name, Width: 2} }
func U32(name string) FieldSpec { return FieldSpec{Name: name, Width: 4} }
func U64(name string) FieldSpec { return FieldSpec{Name: name, Width: 8} }

// I8, I16, I32 and I64 declare signed (two's-complement) fields.
func I8(name string) FieldSpec  { return FieldSpec{Name: name, Width: 1, Signed: true} }
func I16(name string) FieldSpec { return FieldSpec{Name: name, Width: 2, Signed: true} }
func I32(name string) FieldSpec { return FieldSpec{Name: name, Width: 4, Signed: true} }
func I64(name string) FieldSpec { return FieldSpec{Name: name, Width: 8, Signed: true} }

// TypeName returns the wire type label, e.g. "uint16" or "int8".
func (f FieldSpec) TypeName() string {
	prefix := "uint"
	if f.Signed {
		prefix = "int"
	}
	return fmt.Sprintf("%s%d", prefix, f.Width*8)
}

// Layout is an immutable, strictly packed sequence of fields. Field i starts
// at the sum of the widths of fields 0..i-1.
type Layout struct {
	fields  []FieldSpec
	offsets []int
	index   map[string]int
	size    int
}

// NewLayout validates specs and returns the layout they describe.
func NewLayout(specs ...FieldSpec) (*Layout, error) {
	if len(specs) == 0 {
		return nil, errMalformed("", -1, "layout has no fields")
	}
	l := &Layout{
		fields:  make([]FieldSpec, len(specs)),
		offsets: make([]int, len(specs)),
		index:   make(map[string]int, len(specs)),
	}
	offset := 0
	for i, spec := range specs {
		if spec.Name == "" {
			return nil, errMalformed("", offset, "field %d has no name", i)
		}
		if _, dup := l.index[spec.Name]; dup {
			return nil, errMalformed(spec.Name, offset, "duplicate field name")
		}
		if !codec.ValidWidth(spec.Width) {
			return nil, errMalformed(spec.Name, offset, "unsupported width %d", spec.Width)
		}
		l.fields[i] = spec
		l.offsets[i] = offset
		l.index[spec.Name] = i
		offset += spec.Width
	}
	l.size = offset
	return l, nil
}

// MustNewLayout is like NewLayout but panics on error.
func MustNewLayout(specs ...FieldSpec) *Layout {
	l, err := NewLayout(specs...)
	if err != nil {
		panic(err)
	}
	return l
}

// Size returns the exact payload length the layout describes.
func (l *Layout) Size() int {
	return l.size
}

// Len returns the number of fields.
func (l *Layout) Len() int {
	return len(l.fields)
}

// Fields returns a copy of the field specs in wire order.
func (l *Layout) Fields() []FieldSpec {
	out := make([]FieldSpec, len(l.fields))
	copy(out, l.fields)
	return out
}

// Names returns the field names in wire order.
func (l *Layout) Names() []string {
	out := make([]string, len(l.fields))
	for i, f := range l.fields {
		out[i] = f.Name
	}
	return out
}

// Field returns the spec of the named field.
func (l *Layout) Field(name string) (FieldSpec, bool) {
	i, ok := l.index[name]
	if !ok {
		return FieldSpec{}, false
	}
	return l.fields[i], true
}

// Offset returns the byte offset of the named field, or -1.
func (l *Layout) Offset(name string) int {
	i, ok := l.index[name]
	if !ok {
		return -1
	}
	return l.offsets[i]
}
