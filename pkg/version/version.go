// Package version parses and orders question version strings of the form
// "<major>" or "<major>.<minor>".
package version

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var pattern = regexp.MustCompile(`^(\d+)(?:\.(\d+))?$`)

// Version is a parsed version string. Unparseable strings give a Version
// with Valid false and Major 0.
type Version struct {
	Major    int
	Minor    int
	HasMinor bool
	Valid    bool
}

// Parse reads "3" or "3.2". Surrounding spaces are ignored.
func Parse(s string) Version {
	m := pattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Version{}
	}
	major, err := strconv.Atoi(m[1])
	if err != nil {
		return Version{}
	}
	res := Version{Major: major, Valid: true}
	if m[2] != "" {
		minor, err := strconv.Atoi(m[2])
		if err != nil {
			return Version{}
		}
		res.Minor = minor
		res.HasMinor = true
	}
	return res
}

// String renders the version, "0" for invalid ones.
func (v Version) String() string {
	res := strconv.Itoa(v.Major)
	if v.HasMinor {
		res += "." + strconv.Itoa(v.Minor)
	}
	return res
}

// Compare orders versions by major, then a missing minor before any minor,
// then by minor. Invalid versions sort as major 0.
func Compare(a, b Version) int {
	if c := cmp.Compare(a.Major, b.Major); c != 0 {
		return c
	}
	if a.HasMinor != b.HasMinor {
		if a.HasMinor {
			return 1
		}
		return -1
	}
	return cmp.Compare(a.Minor, b.Minor)
}

// CompareStrings parses and compares two version strings.
func CompareStrings(a, b string) int {
	return Compare(Parse(a), Parse(b))
}

// Next computes the version that an edit of a question at version current
// receives, given the versions currently stored for the same question.
//
// The major is the current major plus one (1 when current cannot be
// parsed). The minor is one more than the highest minor among siblings
// "<major>.<n>", or 0 when there are none.
func Next(current string, siblings []string) string {
	major := 1
	if v := Parse(current); v.Valid {
		major = v.Major + 1
	}

	maxMinor := -1
	for _, s := range siblings {
		v := Parse(s)
		if !v.Valid || v.Major != major || !v.HasMinor {
			continue
		}
		maxMinor = max(maxMinor, v.Minor)
	}
	return Version{Major: major, Minor: maxMinor + 1, HasMinor: true}.String()
}

// SortDesc sorts version strings from newest to oldest.
func SortDesc(vs []string) {
	slices.SortStableFunc(vs, func(a, b string) int {
		return CompareStrings(b, a)
	})
}
