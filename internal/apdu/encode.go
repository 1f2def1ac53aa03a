package apdu

import (
	"sort"
	"strings"

	"github.com/tturner/meshdiag/internal/codec"
)

// Encode packs values into a payload described by layout. Every layout field
// must be present; unknown names are rejected. Signed values are given as
// their two's-complement bit pattern, e.g. uint64(int64(-1)).
func Encode(layout *Layout, values map[string]uint64) ([]byte, error) {
	var unknown []string
	for name := range values {
		if _, ok := layout.Field(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, errMalformed(unknown[0], -1, "not part of layout (unknown: %s)", strings.Join(unknown, ", "))
	}

	buf := make([]byte, 0, layout.Size())
	for i, spec := range layout.fields {
		offset := layout.offsets[i]
		v, ok := values[spec.Name]
		if !ok {
			return nil, errMalformed(spec.Name, offset, "missing value")
		}
		if spec.Signed {
			if !codec.FitsInt(int64(v), spec.Width) {
				return nil, errMalformed(spec.Name, offset, "value %d does not fit %s", int64(v), spec.TypeName())
			}
		} else if !codec.FitsUint(v, spec.Width) {
			return nil, errMalformed(spec.Name, offset, "value %d does not fit %s", v, spec.TypeName())
		}
		var err error
		buf, err = codec.AppendUint(byteOrder, buf, spec.Width, v)
		if err != nil {
			return nil, errMalformed(spec.Name, offset, "%v", err)
		}
	}
	return buf, nil
}

// EncodeRecord re-encodes the primitive fields of rec.
func EncodeRecord(rec *Record) ([]byte, error) {
	values := make(map[string]uint64, rec.Len())
	for _, f := range rec.fields {
		if !f.Derived {
			values[f.Name] = f.Value
		}
	}
	return Encode(rec.schema.Layout, values)
}
