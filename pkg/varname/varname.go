// Package varname keeps REDCap variable names unique by numeric suffixing.
package varname

import "strconv"

// Set is a set of variable names that are already taken. The zero value
// is not usable, use NewSet.
type Set struct {
	names map[string]struct{}
}

// NewSet creates a Set seeded with names.
func NewSet(names ...string) *Set {
	res := &Set{names: make(map[string]struct{}, len(names))}
	for _, v := range names {
		res.names[v] = struct{}{}
	}
	return res
}

// Has reports whether name is taken.
func (s *Set) Has(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Add marks name as taken.
func (s *Set) Add(name string) {
	s.names[name] = struct{}{}
}

// Len returns the number of taken names.
func (s *Set) Len() int {
	return len(s.names)
}

// Claim returns a unique version of candidate and marks it as taken, so
// the next call within the same batch cannot receive it again.
func (s *Set) Claim(candidate string) string {
	res := Uniquify(candidate, s)
	s.Add(res)
	return res
}

// Uniquify returns candidate when it is not in existing, otherwise the first
// of candidate_1, candidate_2, ... that is free. It does not change
// existing.
func Uniquify(candidate string, existing *Set) string {
	if existing == nil || !existing.Has(candidate) {
		return candidate
	}
	for i := 1; ; i++ {
		res := candidate + "_" + strconv.Itoa(i)
		if !existing.Has(res) {
			return res
		}
	}
}
