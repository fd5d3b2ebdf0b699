package errors

import (
	"context"
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Exit codes for CLI applications.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitUser indicates a user-related error (invalid input, configuration, etc.).
	ExitUser = 1

	// ExitSystem indicates a system-related error (I/O, network, permissions, etc.).
	ExitSystem = 2
)

// Sentinel errors for common failure conditions.
var (
	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = crdb.New("resource not found")

	// ErrInvalidConfig indicates configuration validation failed.
	ErrInvalidConfig = crdb.New("invalid configuration")

	// ErrUnsupportedPlatform indicates no settings path is known for the host OS.
	ErrUnsupportedPlatform = crdb.New("unsupported platform")

	// ErrSettingsMissingOrCorrupt indicates the settings document is absent or
	// cannot be parsed. Readers treat it as an empty document.
	ErrSettingsMissingOrCorrupt = crdb.New("settings missing or corrupt")

	// ErrSettingsRead indicates the settings document exists but could not be read.
	ErrSettingsRead = crdb.New("settings read failure")

	// ErrSettingsWrite indicates the settings document could not be persisted.
	ErrSettingsWrite = crdb.New("settings write failure")

	// ErrInvalidEncoding indicates a share string is not base64 of a JSON
	// object of strings.
	ErrInvalidEncoding = crdb.New("invalid encoding")

	// ErrUnrecognizedLibraryFormat indicates no decoding strategy produced an
	// alias map from a library file.
	ErrUnrecognizedLibraryFormat = crdb.New("unrecognized library format")

	// ErrNetwork indicates a catalog request failed in transport or returned
	// a non-success status.
	ErrNetwork = crdb.New("network error")

	// ErrCacheWrite indicates a normalized library entry could not be stored.
	ErrCacheWrite = crdb.New("library cache write failure")
)

// ExitError wraps an error with an exit code and optional suggestion for CLI applications.
// It implements the error interface and supports unwrapping via errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewExitError wraps err with an exit code and no suggestion. A nil err is
// allowed; the process then exits with code silently.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
}

// NewUserError reports a mistake the user can fix: bad input, a missing
// alias, a refused confirmation. It exits with ExitUser.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{Err: err, Code: ExitUser, Suggestion: suggestion}
}

// NewSystemError reports an environment failure such as an unwritable
// settings file or an unreachable catalog. It exits with ExitSystem.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{Err: err, Code: ExitSystem, Suggestion: suggestion}
}

// NewConfigError is a user error pointing at the doctor command.
func NewConfigError(err error) *ExitError {
	return NewUserError(err, "Run: tnalias doctor")
}

// Error returns the error message from the underlying error.
// If the underlying error is nil, it returns a generic message with the exit code.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// Kind returns the name of the first taxonomy sentinel err matches, or
// "unknown". It is used to label failures in reports and logs.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case Is(err, ErrNetwork):
		return "network"
	case Is(err, ErrUnrecognizedLibraryFormat):
		return "unrecognized_format"
	case Is(err, ErrInvalidEncoding):
		return "invalid_encoding"
	case Is(err, ErrCacheWrite):
		return "cache_write"
	case Is(err, ErrSettingsWrite):
		return "settings_write"
	case Is(err, ErrSettingsRead):
		return "settings_read"
	case Is(err, ErrSettingsMissingOrCorrupt):
		return "settings_corrupt"
	case Is(err, ErrUnsupportedPlatform):
		return "unsupported_platform"
	case Is(err, context.Canceled), Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "unknown"
	}
}
