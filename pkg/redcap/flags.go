package redcap

import "strings"

// ParseBool reads REDCap yes/no cells. "y", "yes", "true" and "1" are true
// regardless of case and surrounding spaces, anything else is false.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "true", "1":
		return true
	default:
		return false
	}
}

// FormatBool renders a flag the way exports write it.
func FormatBool(b bool) string {
	if b {
		return "y"
	}
	return "n"
}
