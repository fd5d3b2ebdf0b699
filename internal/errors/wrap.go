package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// The helpers below forward to github.com/cockroachdb/errors so packages
// need a single errors import alongside the sentinels above.

// New creates an error with a stack trace.
func New(msg string) error { return crdb.New(msg) }

// Newf creates a formatted error with a stack trace.
func Newf(format string, args ...any) error { return crdb.Newf(format, args...) }

// Wrap annotates err with msg. Wrap(nil, ...) returns nil.
func Wrap(err error, msg string) error { return crdb.Wrap(err, msg) }

// Wrapf annotates err with a formatted message. Wrapf(nil, ...) returns nil.
func Wrapf(err error, format string, args ...any) error { return crdb.Wrapf(err, format, args...) }

// WithDetail attaches a user-facing detail to err.
func WithDetail(err error, detail string) error { return crdb.WithDetail(err, detail) }

// WithDetailf attaches a formatted detail to err.
func WithDetailf(err error, format string, args ...any) error {
	return crdb.WithDetailf(err, format, args...)
}

// WithHint attaches a hint to err.
func WithHint(err error, hint string) error { return crdb.WithHint(err, hint) }

// GetAllHints returns every hint attached to err.
func GetAllHints(err error) []string { return crdb.GetAllHints(err) }

// Mark makes err match reference under Is while keeping err's message.
func Mark(err error, reference error) error { return crdb.Mark(err, reference) }

// Is reports whether any error in err's chain matches reference.
func Is(err, reference error) bool { return crdb.Is(err, reference) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return crdb.As(err, target) }

// Unwrap returns the next error in err's chain.
func Unwrap(err error) error { return crdb.Unwrap(err) }

// GetAllDetails returns every detail attached to err.
func GetAllDetails(err error) []string { return crdb.GetAllDetails(err) }
