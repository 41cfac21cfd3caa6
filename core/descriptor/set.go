package descriptor

import (
	"sort"
	"strings"
)

// Set is a set of descriptor kinds.
type Set map[Kind]struct{}

// NewSet returns a set holding the given kinds.
func NewSet(kinds ...Kind) Set {
	s := make(Set, len(kinds))
	for _, k := range kinds {
		s[k] = struct{}{}
	}

	return s
}

// KindsOf returns the set of kinds of the given descriptors.
func KindsOf(descriptors []Descriptor) Set {
	s := make(Set, len(descriptors))
	for _, d := range descriptors {
		if d != nil {
			s[d.Kind()] = struct{}{}
		}
	}

	return s
}

// Has reports whether k is in the set.
func (s Set) Has(k Kind) bool {
	_, ok := s[k]
	return ok
}

// Without returns a copy of the set with k removed.
func (s Set) Without(k Kind) Set {
	out := make(Set, len(s))
	for kind := range s {
		if kind != k {
			out[kind] = struct{}{}
		}
	}

	return out
}

// Equal reports whether both sets hold the same kinds.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}

	for k := range s {
		if !other.Has(k) {
			return false
		}
	}

	return true
}

// Intersects reports whether the sets share at least one kind.
func (s Set) Intersects(other Set) bool {
	for k := range s {
		if other.Has(k) {
			return true
		}
	}

	return false
}

// Sorted returns the kinds in lexical order.
func (s Set) Sorted() []Kind {
	kinds := make([]Kind, 0, len(s))
	for k := range s {
		kinds = append(kinds, k)
	}

	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	return kinds
}

func (s Set) String() string {
	names := make([]string, 0, len(s))
	for _, k := range s.Sorted() {
		names = append(names, string(k))
	}

	return "[" + strings.Join(names, ", ") + "]"
}
