// Package editor launches the user's preferred text editor and round-trips
// alias maps through it as YAML.
package editor

import (
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/thoreinstein/tnalias/internal/errors"
)

// fallbacks are tried in order when neither $EDITOR nor $VISUAL is set.
var fallbacks = []string{"nano", "vi"}

// Launcher runs an editor attached to the given streams.
type Launcher struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	getenv   func(string) string
	lookPath func(string) (string, error)
}

// Terminal returns a Launcher attached to the process's own terminal.
func Terminal() *Launcher {
	return &Launcher{
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		getenv:   os.Getenv,
		lookPath: exec.LookPath,
	}
}

// Open edits path in the user's editor on the current terminal.
func Open(path string) error {
	return Terminal().Edit(path)
}

// Edit opens path and blocks until the editor exits.
func (l *Launcher) Edit(path string) error {
	argv := l.Command()
	cmd := exec.Command(argv[0], append(argv[1:], path)...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = l.Stdin, l.Stdout, l.Stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", argv[0])
	}
	return nil
}

// Command resolves the editor argv. $EDITOR wins over $VISUAL and either may
// carry flags, as in EDITOR="code --wait". Without both, the first installed
// fallback is used; vi is assumed present when nothing else is found.
func (l *Launcher) Command() []string {
	for _, key := range []string{"EDITOR", "VISUAL"} {
		if argv := strings.Fields(l.getenv(key)); len(argv) > 0 {
			return argv
		}
	}
	for _, name := range fallbacks {
		if _, err := l.lookPath(name); err == nil {
			return []string{name}
		}
	}
	return []string{fallbacks[len(fallbacks)-1]}
}
