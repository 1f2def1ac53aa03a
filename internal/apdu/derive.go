package apdu

// Derivation computes extra named fields from already-decoded fields. Compute
// receives the values of Inputs in order and must return one value per
// Outputs entry. It sees nothing but those inputs.
type Derivation struct {
	Name    string
	Inputs  []string
	Outputs []string
	Compute func(inputs []uint64) []uint64
}

// SplitBytes derives low = v & 0xFF and high = v >> 8 from a 16-bit field.
func SplitBytes(src, low, high string) Derivation {
	return Derivation{
		Name:    "split " + src,
		Inputs:  []string{src},
		Outputs: []string{low, high},
		Compute: func(in []uint64) []uint64 {
			v := in[0]
			return []uint64{v & 0xFF, v >> 8}
		},
	}
}

// apply evaluates d against rec, inserting or overwriting its outputs.
// Overwriting keeps repeated application from accumulating fields.
func (d Derivation) apply(rec *Record) error {
	in := make([]uint64, len(d.Inputs))
	for i, name := range d.Inputs {
		v, ok := rec.Get(name)
		if !ok {
			return errMalformed(name, -1, "derivation %q input missing", d.Name)
		}
		in[i] = v
	}
	out := d.Compute(in)
	if len(out) != len(d.Outputs) {
		return errMalformed("", -1, "derivation %q returned %d values for %d outputs", d.Name, len(out), len(d.Outputs))
	}
	for i, name := range d.Outputs {
		if err := rec.setDerived(name, out[i]); err != nil {
			return err
		}
	}
	return nil
}
