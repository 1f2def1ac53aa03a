package apdu

import "fmt"

// Schema binds a layout and its derivations to a version range. Tables keep
// private copies; the schemas they hand out are copies too, so changing one
// never affects decoding.
type Schema struct {
	Name        string
	Range       VersionRange
	Layout      *Layout
	Derivations []Derivation
}

// DerivedNames returns the names of every field the schema's derivations add.
func (s *Schema) DerivedNames() []string {
	var out []string
	for _, d := range s.Derivations {
		out = append(out, d.Outputs...)
	}
	return out
}

// FieldCount is the number of fields a record decoded with s contains.
func (s *Schema) FieldCount() int {
	return s.Layout.Len() + len(s.DerivedNames())
}

func (s *Schema) clone() *Schema {
	c := *s
	if s.Derivations != nil {
		c.Derivations = make([]Derivation, len(s.Derivations))
		for i, d := range s.Derivations {
			d.Inputs = append([]string(nil), d.Inputs...)
			d.Outputs = append([]string(nil), d.Outputs...)
			c.Derivations[i] = d
		}
	}
	return &c
}

func (s *Schema) validate() error {
	if s.Layout == nil {
		return fmt.Errorf("schema %s: no layout", s.Name)
	}
	if !s.Range.Unbounded() && s.Range.To.Compare(s.Range.From) <= 0 {
		return fmt.Errorf("schema %s: empty version range %s", s.Name, s.Range)
	}
	derived := make(map[string]bool)
	for _, d := range s.Derivations {
		if d.Compute == nil {
			return fmt.Errorf("schema %s: derivation %q has no compute function", s.Name, d.Name)
		}
		for _, in := range d.Inputs {
			if _, ok := s.Layout.Field(in); !ok && !derived[in] {
				return fmt.Errorf("schema %s: derivation %q reads unknown field %q", s.Name, d.Name, in)
			}
		}
		for _, out := range d.Outputs {
			if _, ok := s.Layout.Field(out); ok {
				return fmt.Errorf("schema %s: derivation %q would overwrite decoded field %q", s.Name, d.Name, out)
			}
			if derived[out] {
				return fmt.Errorf("schema %s: derived field %q produced twice", s.Name, out)
			}
			derived[out] = true
		}
	}
	return nil
}

// Table is the immutable set of schemas for one message kind. Resolution is a
// pure function of the version; ranges may not overlap.
type Table struct {
	name    string
	schemas []*Schema
}

// NewTable validates schemas and rejects overlapping version ranges.
func NewTable(name string, schemas ...*Schema) (*Table, error) {
	if len(schemas) == 0 {
		return nil, fmt.Errorf("table %s: no schemas", name)
	}
	for i, s := range schemas {
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("table %s: %w", name, err)
		}
		for _, prev := range schemas[:i] {
			if s.Range.Overlaps(prev.Range) {
				return nil, fmt.Errorf("table %s: schema %s range %s overlaps %s range %s",
					name, s.Name, s.Range, prev.Name, prev.Range)
			}
		}
	}
	t := &Table{name: name, schemas: make([]*Schema, len(schemas))}
	for i, s := range schemas {
		t.schemas[i] = s.clone()
	}
	return t, nil
}

// MustNewTable is like NewTable but panics on error.
func MustNewTable(name string, schemas ...*Schema) *Table {
	t, err := NewTable(name, schemas...)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the message kind the table decodes.
func (t *Table) Name() string {
	return t.name
}

// Schemas returns copies of the registered schemas in registration order.
func (t *Table) Schemas() []*Schema {
	out := make([]*Schema, len(t.schemas))
	for i, s := range t.schemas {
		out[i] = s.clone()
	}
	return out
}

// Resolve returns a copy of the schema whose range contains v.
func (t *Table) Resolve(v Version) (*Schema, error) {
	s, err := t.resolve(v)
	if err != nil {
		return nil, err
	}
	return s.clone(), nil
}

// resolve returns the table's own schema for v.
func (t *Table) resolve(v Version) (*Schema, error) {
	for _, s := range t.schemas {
		if s.Range.Contains(v) {
			return s, nil
		}
	}
	return nil, errUnsupportedVersion(v.String(), fmt.Sprintf("no %s layout registered", t.name))
}

// ResolveString parses version and resolves it.
func (t *Table) ResolveString(version string) (*Schema, Version, error) {
	v, err := ParseVersion(version)
	if err != nil {
		return nil, Version{}, err
	}
	s, err := t.Resolve(v)
	if err != nil {
		return nil, v, err
	}
	return s, v, nil
}
