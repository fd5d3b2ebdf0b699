package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether w is a terminal. Anything with an Fd method counts,
// which covers *os.File.
func IsTTY(w any) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// Interactive reports whether both stdin and stdout are terminals, so
// prompts and the fuzzy picker can be shown.
func Interactive() bool {
	return IsTTY(os.Stdin) && IsTTY(os.Stdout)
}

// SupportsColor reports whether ANSI colors should be written to w. NO_COLOR
// (https://no-color.org) and TERM=dumb turn color off.
func SupportsColor(w io.Writer) bool {
	return colorAllowed(os.LookupEnv) && IsTTY(w)
}

func colorAllowed(lookup func(string) (string, bool)) bool {
	if _, ok := lookup("NO_COLOR"); ok {
		return false
	}
	if t, _ := lookup("TERM"); t == "dumb" {
		return false
	}
	return true
}
