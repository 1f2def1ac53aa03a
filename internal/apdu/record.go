package apdu

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Field is one named value of a decoded record.
type Field struct {
	Name    string `json:"name"`
	Value   uint64 `json:"value"`
	Derived bool   `json:"derived,omitempty"`
}

// Record is the ordered result of one decode call. Primitive fields come
// first in layout order, derived fields follow in derivation order. A Record
// returned by the decoder is never modified afterwards.
type Record struct {
	schema  *Schema
	version Version
	fields  []Field
	index   map[string]int
}

func newRecord(schema *Schema, version Version, capacity int) *Record {
	return &Record{
		schema:  schema,
		version: version,
		fields:  make([]Field, 0, capacity),
		index:   make(map[string]int, capacity),
	}
}

func (r *Record) appendPrimitive(name string, value uint64) {
	r.index[name] = len(r.fields)
	r.fields = append(r.fields, Field{Name: name, Value: value})
}

func (r *Record) setDerived(name string, value uint64) error {
	if i, ok := r.index[name]; ok {
		if !r.fields[i].Derived {
			return errMalformed(name, -1, "derived field would overwrite a decoded field")
		}
		r.fields[i].Value = value
		return nil
	}
	r.index[name] = len(r.fields)
	r.fields = append(r.fields, Field{Name: name, Value: value, Derived: true})
	return nil
}

func (r *Record) clone() *Record {
	c := &Record{
		schema:  r.schema,
		version: r.version,
		fields:  make([]Field, len(r.fields)),
		index:   make(map[string]int, len(r.index)),
	}
	copy(c.fields, r.fields)
	for k, v := range r.index {
		c.index[k] = v
	}
	return c
}

// Derive returns a copy of r with ds applied. Existing derived values are
// recomputed from their inputs, so deriving twice yields the same record.
func (r *Record) Derive(ds ...Derivation) (*Record, error) {
	c := r.clone()
	for _, d := range ds {
		if err := d.apply(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Schema returns a copy of the schema the record was decoded with, or nil.
func (r *Record) Schema() *Schema {
	if r.schema == nil {
		return nil
	}
	return r.schema.clone()
}

// Version returns the protocol version the record was decoded under.
func (r *Record) Version() Version {
	return r.version
}

// Len returns the number of fields, derived ones included.
func (r *Record) Len() int {
	return len(r.fields)
}

// Has reports whether the record contains name.
func (r *Record) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Get returns the raw value of name.
func (r *Record) Get(name string) (uint64, bool) {
	i, ok := r.index[name]
	if !ok {
		return 0, false
	}
	return r.fields[i].Value, true
}

// MustGet returns the value of name or panics.
func (r *Record) MustGet(name string) uint64 {
	v, ok := r.Get(name)
	if !ok {
		panic("apdu: field not found: " + name)
	}
	return v
}

// Int returns name as a signed value. Signed fields are stored as their
// sign-extended bit pattern, so the conversion recovers the decoded number.
func (r *Record) Int(name string) (int64, bool) {
	v, ok := r.Get(name)
	return int64(v), ok
}

// Names returns field names in record order.
func (r *Record) Names() []string {
	out := make([]string, len(r.fields))
	for i, f := range r.fields {
		out[i] = f.Name
	}
	return out
}

// Fields returns a copy of all fields in record order.
func (r *Record) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Map returns the fields as an unordered map.
func (r *Record) Map() map[string]uint64 {
	out := make(map[string]uint64, len(r.fields))
	for _, f := range r.fields {
		out[f.Name] = f.Value
	}
	return out
}

// MarshalJSON encodes the record as a JSON object whose keys keep record
// order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if r.signed(f.Name) {
			buf.WriteString(strconv.FormatInt(int64(f.Value), 10))
		} else {
			buf.WriteString(strconv.FormatUint(f.Value, 10))
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Record) signed(name string) bool {
	if r.schema == nil {
		return false
	}
	spec, ok := r.schema.Layout.Field(name)
	return ok && spec.Signed
}
