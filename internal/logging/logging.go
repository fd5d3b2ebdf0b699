package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/thoreinstein/tnalias/internal/errors"
)

// Format specifies the output format for log messages.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned for a --log-format value other than text or
// json.
var ErrUnknownFormat = errors.New("unknown log format")

// ParseFormat validates a --log-format value. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", errors.Wrapf(ErrUnknownFormat, "%q", s)
	}
}

// LevelTrace is below Debug and enables per-entry sync and decode detail.
const LevelTrace = slog.Level(-8)

// LevelFromVerbosity maps the count of -v flags to a log level.
// Zero (or less) logs warnings and errors only.
func LevelFromVerbosity(v int) slog.Level {
	switch {
	case v <= 0:
		return slog.LevelWarn
	case v == 1:
		return slog.LevelInfo
	case v == 2:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}

// VerbosityFromEnv maps a TNALIAS_DEBUG value to a -v count: "1" or "true"
// means debug, "2" means trace. Anything else is zero.
func VerbosityFromEnv(val string) int {
	switch val {
	case "1", "true":
		return 2
	case "2":
		return 3
	default:
		return 0
	}
}

// Options describes the logger built from the global CLI flags.
type Options struct {
	// Verbosity is the count of -v flags.
	Verbosity int

	// Quiet limits output to errors. It cannot be combined with Verbosity.
	Quiet bool

	// DebugEnv is the value of TNALIAS_DEBUG. It applies when Verbosity is
	// zero.
	DebugEnv string

	Format Format

	// Output receives the primary log stream. Defaults to os.Stderr.
	Output io.Writer

	// File, when set, also receives every record as JSON.
	File io.Writer
}

// Level resolves the minimum level for o.
func (o Options) Level() slog.Level {
	if o.Quiet {
		return slog.LevelError
	}
	v := o.Verbosity
	if v == 0 {
		v = VerbosityFromEnv(o.DebugEnv)
	}
	return LevelFromVerbosity(v)
}

// New builds the logger described by o.
func New(o Options) *slog.Logger {
	output := o.Output
	if output == nil {
		output = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: o.Level()}

	var primary slog.Handler
	if o.Format == FormatJSON {
		primary = slog.NewJSONHandler(output, opts)
	} else {
		primary = NewHandler(output, opts)
	}

	if o.File == nil {
		return slog.New(primary)
	}
	return slog.New(Tee(primary, slog.NewJSONHandler(o.File, opts)))
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger stored in ctx, or a discard logger when
// none is present so callers never need a nil check.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && logger != nil {
			return logger
		}
	}
	return NewDiscard()
}

// NewDiscard creates a logger that discards all output. Core packages use it
// until a logger is injected.
func NewDiscard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// testWriter adapts testing.T to io.Writer for use with slog handlers.
type testWriter struct {
	t *testing.T
}

func (w *testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	msg := string(p)
	if len(msg) > 0 && msg[len(msg)-1] == '\n' {
		msg = msg[:len(msg)-1]
	}
	w.t.Log(msg)
	return len(p), nil
}

// ForTest creates a debug-level logger that writes to the test's log
// output, shown only for failing tests or with -v.
func ForTest(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(NewHandler(&testWriter{t: t}, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
