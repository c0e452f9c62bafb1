// Package gnforms keeps the version of the application. Both values are
// set at build time with -ldflags.
package gnforms

var (
	// Version of GNforms.
	Version = "v0.1.0"

	// Build timestamp.
	Build = "n/a"
)
