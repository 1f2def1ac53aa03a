package apdu

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a protocol (firmware stack) revision. Only major and minor
// participate in layout resolution; build components of strings such as
// "5.1.0.12" are accepted and ignored.
type Version struct {
	Major int
	Minor int
}

// V is shorthand for Version{Major: major, Minor: minor}.
func V(major, minor int) Version {
	return Version{Major: major, Minor: minor}
}

// ParseVersion parses "4", "4.0", "3.2" or "5.1.0.12". A leading "v" is
// tolerated.
func ParseVersion(s string) (Version, error) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "v"), "V")
	if raw == "" {
		return Version{}, errUnsupportedVersion(s, "empty version")
	}
	parts := strings.Split(raw, ".")
	nums := make([]int, 0, 2)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, errUnsupportedVersion(s, fmt.Sprintf("invalid version component %q", p))
		}
		if i < 2 {
			nums = append(nums, n)
		}
	}
	v := Version{Major: nums[0]}
	if len(nums) > 1 {
		v.Minor = nums[1]
	}
	return v, nil
}

// MustParseVersion is like ParseVersion but panics on error. Intended for
// static tables.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Compare returns -1, 0 or 1 when v is lower, equal or higher than o.
func (v Version) Compare(o Version) int {
	switch {
	case v.Major < o.Major:
		return -1
	case v.Major > o.Major:
		return 1
	case v.Minor < o.Minor:
		return -1
	case v.Minor > o.Minor:
		return 1
	default:
		return 0
	}
}

// IsZero reports whether v is the zero Version.
func (v Version) IsZero() bool {
	return v == Version{}
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// VersionRange is the half-open interval [From, To). A zero To means the
// range is unbounded above.
type VersionRange struct {
	From Version
	To   Version
}

// Since returns the unbounded range starting at from.
func Since(from Version) VersionRange {
	return VersionRange{From: from}
}

// Between returns the range [from, to).
func Between(from, to Version) VersionRange {
	return VersionRange{From: from, To: to}
}

// Unbounded reports whether r has no upper limit.
func (r VersionRange) Unbounded() bool {
	return r.To.IsZero()
}

// Contains reports whether v falls inside r.
func (r VersionRange) Contains(v Version) bool {
	if v.Compare(r.From) < 0 {
		return false
	}
	return r.Unbounded() || v.Compare(r.To) < 0
}

// Overlaps reports whether r and o share at least one version.
func (r VersionRange) Overlaps(o VersionRange) bool {
	// [a,b) and [c,d) overlap when a < d and c < b
	aBeforeD := o.Unbounded() || r.From.Compare(o.To) < 0
	cBeforeB := r.Unbounded() || o.From.Compare(r.To) < 0
	return aBeforeD && cBeforeB
}

func (r VersionRange) String() string {
	if r.Unbounded() {
		return r.From.String() + "+"
	}
	if r.To.Minor == 0 && r.From.Minor == 0 && r.To.Major == r.From.Major+1 {
		return fmt.Sprintf("%d.x", r.From.Major)
	}
	return fmt.Sprintf("[%s, %s)", r.From, r.To)
}
