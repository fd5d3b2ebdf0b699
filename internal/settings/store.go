package settings

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/thoreinstein/tnalias/internal/alias"
	"github.com/thoreinstein/tnalias/internal/errors"
	"github.com/thoreinstein/tnalias/internal/logging"
	"github.com/thoreinstein/tnalias/internal/paths"
	"github.com/thoreinstein/tnalias/pkg/fileutil"
)

// FileMode is the permission of a settings file created by tnalias.
const FileMode = 0o644

// MaxDocumentSize caps the settings file. The game writes a few kilobytes;
// anything near this size is not a settings document.
const MaxDocumentSize = 16 << 20

// Store reads and writes one settings file.
type Store struct {
	path        string
	fs          afero.Fs
	logger      *slog.Logger
	beforeWrite func(path string) error
}

// Option configures a Store.
type Option func(*Store)

// WithFs sets the filesystem. Defaults to the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(s *Store) {
		s.fs = fs
	}
}

// WithLogger sets the logger. Defaults to a discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithBeforeWrite registers fn to run before an existing settings file is
// replaced. An error from fn aborts the write.
func WithBeforeWrite(fn func(path string) error) Option {
	return func(s *Store) {
		s.beforeWrite = fn
	}
}

// NewStore returns a Store for the settings file at path.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		fs:     afero.NewOsFs(),
		logger: logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the settings file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the settings document. A missing or unparsable file yields an
// empty document and a warning. A file over MaxDocumentSize and other read
// failures are returned marked errors.ErrSettingsRead.
func (s *Store) Load() (*Document, error) {
	data, err := fileutil.ReadFileMax(s.fs, s.path, MaxDocumentSize)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("settings file not found, starting empty",
				"path", s.path, "kind", errors.Kind(errors.ErrSettingsMissingOrCorrupt))
			return NewDocument(), nil
		}
		msg := "reading settings"
		if errors.Is(err, fileutil.ErrFileTooLarge) {
			msg = fmt.Sprintf("settings file is larger than %d MiB", MaxDocumentSize>>20)
		}
		return nil, errors.WithDetailf(
			errors.Mark(errors.Wrap(err, msg), errors.ErrSettingsRead),
			"path: %s", s.path)
	}

	doc, err := ParseDocument(data)
	if err != nil {
		s.logger.Warn("settings file is not a JSON object, starting empty",
			"path", s.path, "kind", errors.Kind(err), "error", err)
		return NewDocument(), nil
	}

	s.logger.Debug("settings loaded", "path", s.path, "members", doc.Len())
	return doc, nil
}

// Aliases returns the alias map currently stored in the settings file. A
// malformed cmd_alias member is an error marked
// errors.ErrSettingsMissingOrCorrupt: callers that edit the map in place must
// not save over aliases they could not read.
func (s *Store) Aliases() (*alias.Map, error) {
	doc, err := s.Load()
	if err != nil {
		return nil, err
	}
	return doc.Aliases()
}

// MergeAndSave replaces the settings file's alias map with m and leaves every
// other member untouched. The file is replaced atomically. Failures are
// marked errors.ErrSettingsWrite and carry the underlying I/O error.
func (s *Store) MergeAndSave(m *alias.Map) error {
	doc, err := s.Load()
	if err != nil {
		return err
	}
	doc.SetAliases(m)
	return s.Save(doc)
}

// Save writes doc to the settings file atomically, creating the parent
// directory when needed.
func (s *Store) Save(doc *Document) error {
	data, err := doc.Bytes()
	if err != nil {
		return s.writeError(err, "encoding settings")
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), paths.DefaultDirPerm); err != nil {
		return s.writeError(err, "creating settings directory")
	}

	if s.beforeWrite != nil {
		exists, err := afero.Exists(s.fs, s.path)
		if err != nil {
			return s.writeError(err, "checking settings file")
		}
		if exists {
			if err := s.beforeWrite(s.path); err != nil {
				return s.writeError(err, "preparing settings write")
			}
		}
	}

	mode := os.FileMode(FileMode)
	if info, err := s.fs.Stat(s.path); err == nil {
		mode = info.Mode().Perm()
	}

	if err := fileutil.AtomicWriteFile(s.fs, s.path, data, mode); err != nil {
		return s.writeError(err, "writing settings")
	}

	s.logger.Info("settings saved", "path", s.path, "bytes", len(data))
	return nil
}

func (s *Store) writeError(err error, msg string) error {
	return errors.WithDetailf(
		errors.Mark(errors.Wrap(err, msg), errors.ErrSettingsWrite),
		"path: %s", s.path)
}
