package validator

import (
	"fmt"
	"strings"

	"github.com/thoreinstein/tnalias/internal/errors"
)

// ErrInvalidAliases is returned by [Result.Err] when a result has errors.
var ErrInvalidAliases = errors.New("invalid aliases")

// Severity represents the impact of a validation issue.
type Severity int

const (
	// SeverityError blocks the write.
	SeverityError Severity = iota
	// SeverityWarning is reported but does not block the write.
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Issue is one problem with one alias.
type Issue struct {
	Severity Severity `json:"severity"`

	// Alias is the alias name. It is empty for the empty-name error.
	Alias string `json:"alias"`

	Message string `json:"message"`

	// Command is the fragment or command text the issue points at, if any.
	Command string `json:"command,omitempty"`
}

// Error implements the error interface, e.g.
// `alias "scan": command repeated ("netstat")`.
func (i Issue) Error() string {
	s := fmt.Sprintf("alias %q: %s", i.Alias, i.Message)
	if i.Command != "" {
		s += fmt.Sprintf(" (%q)", i.Command)
	}
	return s
}

// Result aggregates validation issues in the order they were found.
type Result struct {
	Issues []Issue `json:"issues"`
}

// Add records an issue.
func (r *Result) Add(sev Severity, alias, message, command string) {
	r.Issues = append(r.Issues, Issue{
		Severity: sev,
		Alias:    alias,
		Message:  message,
		Command:  command,
	})
}

// Count returns the number of issues with severity sev.
func (r *Result) Count(sev Severity) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, i := range r.Issues {
		if i.Severity == sev {
			n++
		}
	}
	return n
}

// HasErrors reports whether any issue blocks the write.
func (r *Result) HasErrors() bool { return r.Count(SeverityError) > 0 }

// HasWarnings reports whether any warning was recorded.
func (r *Result) HasWarnings() bool { return r.Count(SeverityWarning) > 0 }

// Errors returns the issues with SeverityError.
func (r *Result) Errors() []Issue { return r.filter(SeverityError) }

// Warnings returns the issues with SeverityWarning.
func (r *Result) Warnings() []Issue { return r.filter(SeverityWarning) }

func (r *Result) filter(sev Severity) []Issue {
	if r == nil {
		return nil
	}
	var res []Issue
	for _, i := range r.Issues {
		if i.Severity == sev {
			res = append(res, i)
		}
	}
	return res
}

// Aliases returns the names that have issues, in first-seen order.
func (r *Result) Aliases() []string {
	if r == nil {
		return nil
	}
	seen := make(map[string]bool)
	var names []string
	for _, i := range r.Issues {
		if !seen[i.Alias] {
			seen[i.Alias] = true
			names = append(names, i.Alias)
		}
	}
	return names
}

// For returns the issues recorded against name.
func (r *Result) For(name string) []Issue {
	if r == nil {
		return nil
	}
	var res []Issue
	for _, i := range r.Issues {
		if i.Alias == name {
			res = append(res, i)
		}
	}
	return res
}

// Err returns nil when there are no errors. Otherwise it returns
// ErrInvalidAliases with every error attached as a detail.
func (r *Result) Err() error {
	errs := r.Errors()
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(errs))
	for _, i := range errs {
		msgs = append(msgs, i.Error())
	}
	return errors.WithDetail(errors.Wrapf(ErrInvalidAliases, "%d error(s)", len(errs)), strings.Join(msgs, "\n"))
}
