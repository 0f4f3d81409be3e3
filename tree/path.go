package tree

import "strings"

// Path identifies one property in a nested tree. Segments are property
// names, or decimal indices for array elements. The dotted string form
// is used in serialized mutation records.
type Path []string

// ParsePath splits a dotted path string into segments.
func ParsePath(s string) Path {
	if s == "" {
		return nil
	}
	return Path(strings.Split(s, "."))
}

// String returns the dotted form of the path.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// Child returns a new path extended by one segment. The receiver is not
// modified and no backing array is shared.
func (p Path) Child(seg string) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = seg
	return out
}

// Key returns the final segment, the property name the path addresses.
func (p Path) Key() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Strings converts a slice of paths to their dotted forms.
func Strings(paths []Path) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = p.String()
	}
	return out
}
