// Package flags provides shared flag accessors for CLI commands.
// This package exists to avoid import cycles between the root command
// and noun subpackages (alias, library, backup).
package flags

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// Quiet reports whether non-error output is suppressed.
func Quiet() bool {
	return quiet
}

// SetQuiet sets the quiet flag value.
// This is used by the root command after parsing and by tests.
func SetQuiet(q bool) {
	quiet = q
}
