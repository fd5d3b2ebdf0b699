package validator

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize/english"
	"github.com/fatih/color"

	"github.com/thoreinstein/tnalias/internal/errors"
)

// Reporter writes a Result as text grouped by alias.
type Reporter struct {
	out      io.Writer
	warnings bool
}

// ReporterOption configures a Reporter.
type ReporterOption func(*Reporter)

// WithWarnings controls whether warnings are printed. They are by default.
func WithWarnings(show bool) ReporterOption {
	return func(r *Reporter) {
		r.warnings = show
	}
}

// NewReporter creates a Reporter writing to out.
func NewReporter(out io.Writer, opts ...ReporterOption) *Reporter {
	r := &Reporter{out: out, warnings: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Report writes result. Nothing is written when there is nothing to show.
//
//	1 error and 2 warnings in 2 aliases:
//	  scan
//	    ✗ alias has no commands
//	  ll
//	    ⚠ command repeated ("ls")
func (r *Reporter) Report(result *Result) error {
	nErr := result.Count(SeverityError)
	nWarn := 0
	if r.warnings {
		nWarn = result.Count(SeverityWarning)
	}
	if nErr+nWarn == 0 {
		return nil
	}

	var sb strings.Builder
	var shown []string
	for _, name := range result.Aliases() {
		var lines []string
		for _, i := range result.For(name) {
			if i.Severity == SeverityWarning && !r.warnings {
				continue
			}
			lines = append(lines, "    "+issueLine(i))
		}
		if len(lines) == 0 {
			continue
		}
		shown = append(shown, name)

		label := name
		if label == "" {
			label = "(empty name)"
		}
		sb.WriteString("  " + color.New(color.Bold).Sprint(label) + "\n")
		for _, l := range lines {
			sb.WriteString(l + "\n")
		}
	}

	var counts []string
	if nErr > 0 {
		counts = append(counts, color.RedString(english.Plural(nErr, "error", "")))
	}
	if nWarn > 0 {
		counts = append(counts, color.YellowString(english.Plural(nWarn, "warning", "")))
	}
	header := fmt.Sprintf("%s in %s:\n", strings.Join(counts, " and "), english.Plural(len(shown), "alias", ""))

	_, err := io.WriteString(r.out, header+sb.String())
	return errors.Wrap(err, "writing validation report")
}

func issueLine(i Issue) string {
	icon := color.RedString("✗")
	if i.Severity == SeverityWarning {
		icon = color.YellowString("⚠")
	}
	line := icon + " " + i.Message
	if i.Command != "" {
		line += color.New(color.FgHiBlack).Sprintf(" (%q)", i.Command)
	}
	return line
}
