package config

import (
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/thoreinstein/tnalias/internal/errors"
)

// MaxWorkers caps catalog.workers.
const MaxWorkers = 32

// Validation errors for configuration fields.
var (
	// ErrUnsupportedVersion indicates a version this build does not read.
	ErrUnsupportedVersion = errors.New("unsupported config version")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidURL indicates catalog.url is not an http(s) URL.
	ErrInvalidURL = errors.New("invalid catalog url")

	// ErrOutOfRange indicates a numeric value outside its allowed range.
	ErrOutOfRange = errors.New("value out of range")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version != 1 {
		errs = append(errs, errors.Wrapf(ErrUnsupportedVersion, "%d", cfg.Version))
	}

	if err := validatePath(cfg.SettingsPath); err != nil {
		errs = append(errs, &FieldError{Field: KeySettingsPath, Value: cfg.SettingsPath, Err: err})
	}
	if err := validatePath(cfg.LibraryDir); err != nil {
		errs = append(errs, &FieldError{Field: KeyLibraryDir, Value: cfg.LibraryDir, Err: err})
	}

	if err := validateURL(cfg.Catalog.URL); err != nil {
		errs = append(errs, &FieldError{Field: KeyCatalogURL, Value: cfg.Catalog.URL, Err: err})
	}

	if cfg.Catalog.Workers < 1 || cfg.Catalog.Workers > MaxWorkers {
		errs = append(errs, &FieldError{Field: KeyCatalogWorkers, Value: strconv.Itoa(cfg.Catalog.Workers), Err: ErrOutOfRange})
	}
	if cfg.Catalog.Timeout < 0 {
		errs = append(errs, &FieldError{Field: KeyCatalogTimeout, Value: cfg.Catalog.Timeout.String(), Err: ErrOutOfRange})
	}
	if cfg.Catalog.RateLimit < 0 {
		errs = append(errs, &FieldError{Field: KeyCatalogRateLimit, Value: strconv.FormatFloat(cfg.Catalog.RateLimit, 'g', -1, 64), Err: ErrOutOfRange})
	}
	if cfg.Backup.Enabled && cfg.Backup.Retention < 1 {
		errs = append(errs, &FieldError{Field: KeyBackupRetention, Value: strconv.Itoa(cfg.Backup.Retention), Err: ErrOutOfRange})
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	// Empty paths are valid (they mean "use default")
	if path == "" {
		return nil
	}

	// Check for null bytes which are never valid in paths
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	// Clean the path and check it's not empty after cleaning
	cleaned := filepath.Clean(path)
	if cleaned == "" || cleaned == "." {
		return ErrInvalidPath
	}

	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidURL
	}
	return nil
}

// FieldError represents an error for a specific configuration field.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Value
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
