// Package errors provides error handling conventions for tnalias.
//
// It defines the sentinel errors shared by the core packages, re-exports the
// github.com/cockroachdb/errors helpers so callers need a single import, and
// provides an ExitError type for CLI exit code handling.
//
// # Sentinel Errors
//
// Every failure the core reports can be classified with [errors.Is]:
//
//	if errors.Is(err, errors.ErrInvalidEncoding) {
//	    // the share string was malformed; nothing was written
//	}
//
// Recoverable conditions ([ErrSettingsMissingOrCorrupt],
// [ErrUnrecognizedLibraryFormat], [ErrNetwork]) are handled inside the core
// at file granularity. Fatal ones ([ErrUnsupportedPlatform], [ErrSettingsRead],
// [ErrSettingsWrite]) reach the caller.
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, configuration, etc.)
//   - ExitSystem (2): System-related error (I/O, network, permissions, etc.)
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion:
//
//	err := errors.NewUserError(errors.ErrInvalidEncoding, "Copy the whole share string")
//	var exitErr *errors.ExitError
//	if errors.As(err, &exitErr) {
//	    os.Exit(exitErr.Code)
//	}
package errors
