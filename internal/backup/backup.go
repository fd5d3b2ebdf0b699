package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/thoreinstein/tnalias/internal/errors"
	"github.com/thoreinstein/tnalias/internal/logging"
	"github.com/thoreinstein/tnalias/internal/paths"
	"github.com/thoreinstein/tnalias/pkg/fileutil"
)

// idLayout formats backup IDs.
const idLayout = "20060102T150405"

// Manager handles backup creation, restoration, and management.
type Manager struct {
	fs             afero.Fs
	rootDir        string
	retentionCount int
	toolVersion    string
	logger         *slog.Logger
	now            func() time.Time

	mu     sync.Mutex
	backed map[string]bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithBackupDir sets the root backup directory.
func WithBackupDir(dir string) Option {
	return func(m *Manager) {
		m.rootDir = dir
	}
}

// WithRetentionCount sets the number of backups kept by BeforeWrite.
func WithRetentionCount(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.retentionCount = n
		}
	}
}

// WithFs sets the filesystem. Defaults to the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(m *Manager) {
		m.fs = fs
	}
}

// WithToolVersion records version in new manifests.
func WithToolVersion(version string) Option {
	return func(m *Manager) {
		m.toolVersion = version
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a new backup Manager with the given options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		fs:             afero.NewOsFs(),
		rootDir:        paths.BackupDir(),
		retentionCount: DefaultRetentionCount,
		toolVersion:    "dev",
		logger:         logging.NewDiscard(),
		now:            time.Now,
		backed:         make(map[string]bool),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dir returns the root backup directory.
func (m *Manager) Dir() string {
	return m.rootDir
}

// Backup copies the given files into a new backup. Missing files are
// skipped; if none exist no backup is created and ErrNoBackupsFound is
// returned.
func (m *Manager) Backup(reason string, files ...string) (*BackupManifest, error) {
	if len(files) == 0 {
		return nil, errors.New("at least one path is required")
	}

	backupID, err := m.newID()
	if err != nil {
		return nil, err
	}
	backupPath := filepath.Join(m.rootDir, backupID)

	var backed []BackupFile
	for _, p := range files {
		info, err := m.fs.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrapf(err, "stat %s", p)
		}
		if info.IsDir() {
			return nil, errors.Newf("%s is a directory", p)
		}

		if err := m.fs.MkdirAll(backupPath, paths.DefaultDirPerm); err != nil {
			return nil, errors.Wrap(err, "creating backup directory")
		}

		bf, err := m.backupFile(p, backupPath)
		if err != nil {
			_ = m.fs.RemoveAll(backupPath)
			return nil, errors.Wrapf(err, "backing up file %s", p)
		}
		backed = append(backed, *bf)
	}

	if len(backed) == 0 {
		return nil, errors.WithDetail(ErrNoBackupsFound, "none of the files exist")
	}

	manifest := &BackupManifest{
		Version:     ManifestVersion,
		CreatedAt:   m.now().UTC(),
		Reason:      reason,
		Files:       backed,
		ToolVersion: m.toolVersion,
		ID:          backupID,
	}

	if err := fileutil.AtomicWriteJSON(m.fs, filepath.Join(backupPath, manifestFile), manifest); err != nil {
		_ = m.fs.RemoveAll(backupPath)
		return nil, errors.Wrap(err, "writing manifest")
	}

	m.logger.Info("backup created", "id", backupID, "files", len(backed), "reason", reason)
	return manifest, nil
}

// BeforeWrite backs up path the first time it is about to be overwritten
// through this Manager, then prunes to the retention count. It matches the
// settings.WithBeforeWrite hook.
func (m *Manager) BeforeWrite(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backed[path] {
		return nil
	}

	if _, err := m.Backup("before write", path); err != nil {
		if errors.Is(err, ErrNoBackupsFound) {
			return nil
		}
		return errors.Wrapf(err, "creating backup of %s", path)
	}
	m.backed[path] = true

	if _, err := m.Prune(m.retentionCount); err != nil {
		m.logger.Warn("pruning backups", "error", err)
	}
	return nil
}

// newID returns a timestamp ID that no existing backup uses.
func (m *Manager) newID() (string, error) {
	base := m.now().Format(idLayout)
	id := base
	for i := 2; ; i++ {
		exists, err := afero.Exists(m.fs, filepath.Join(m.rootDir, id))
		if err != nil {
			return "", errors.Wrap(err, "checking backup directory")
		}
		if !exists {
			return id, nil
		}
		id = fmt.Sprintf("%s-%02d", base, i)
	}
}

// backupFile copies a single file to the backup directory.
func (m *Manager) backupFile(src, backupPath string) (*BackupFile, error) {
	info, err := m.fs.Stat(src)
	if err != nil {
		return nil, errors.Wrap(err, "stat source file")
	}

	data, err := afero.ReadFile(m.fs, src)
	if err != nil {
		return nil, errors.Wrap(err, "reading source file")
	}

	relPath := generateRelPath(src)
	dst := filepath.Join(backupPath, relPath)
	if err := m.fs.MkdirAll(filepath.Dir(dst), paths.DefaultDirPerm); err != nil {
		return nil, errors.Wrap(err, "creating parent directory")
	}
	if err := afero.WriteFile(m.fs, dst, data, 0o600); err != nil {
		return nil, errors.Wrap(err, "writing backup copy")
	}

	return &BackupFile{
		OriginalPath: src,
		RelPath:      relPath,
		SHA256Hash:   hashBytes(data),
		Size:         info.Size(),
		Mode:         info.Mode().Perm(),
	}, nil
}

// Restore restores files from a backup to their original locations. The
// current files are backed up first so a restore can itself be undone.
// Every backed up file is verified before any file is replaced.
func (m *Manager) Restore(backupID string) (*BackupManifest, error) {
	if backupID == "" {
		return nil, errors.New("backup ID is required")
	}

	manifest, err := m.Get(backupID)
	if err != nil {
		return nil, err
	}

	backupPath := filepath.Join(m.rootDir, backupID)
	contents := make([][]byte, len(manifest.Files))
	originals := make([]string, 0, len(manifest.Files))
	for i, bf := range manifest.Files {
		data, err := afero.ReadFile(m.fs, filepath.Join(backupPath, bf.RelPath))
		if err != nil {
			return nil, errors.Wrapf(err, "reading backup file %s", bf.RelPath)
		}
		if hashBytes(data) != bf.SHA256Hash {
			return nil, errors.Wrapf(ErrBackupCorrupted, "file %s hash mismatch", bf.RelPath)
		}
		contents[i] = data
		originals = append(originals, bf.OriginalPath)
	}

	if _, err := m.Backup("before restore of "+backupID, originals...); err != nil && !errors.Is(err, ErrNoBackupsFound) {
		return nil, errors.Wrap(err, "backing up current files")
	}

	for i, bf := range manifest.Files {
		if err := m.fs.MkdirAll(filepath.Dir(bf.OriginalPath), paths.DefaultDirPerm); err != nil {
			return nil, errors.Wrapf(err, "creating directory for %s", bf.OriginalPath)
		}
		mode := bf.Mode
		if mode == 0 {
			mode = 0o644
		}
		if err := fileutil.AtomicWriteFile(m.fs, bf.OriginalPath, contents[i], mode); err != nil {
			return nil, errors.Wrapf(err, "restoring %s", bf.OriginalPath)
		}
	}

	m.logger.Info("backup restored", "id", backupID, "files", len(manifest.Files))
	return manifest, nil
}

// List returns all available backups, newest first.
func (m *Manager) List() ([]BackupManifest, error) {
	entries, err := afero.ReadDir(m.fs, m.rootDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoBackupsFound
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	manifests := make([]BackupManifest, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest, err := m.Get(entry.Name())
		if err != nil {
			m.logger.Debug("skipping invalid backup", "id", entry.Name(), "error", err)
			continue
		}
		manifests = append(manifests, *manifest)
	}

	if len(manifests) == 0 {
		return nil, ErrNoBackupsFound
	}

	slices.SortFunc(manifests, func(a, b BackupManifest) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})

	return manifests, nil
}

// Latest returns the newest backup.
func (m *Manager) Latest() (*BackupManifest, error) {
	manifests, err := m.List()
	if err != nil {
		return nil, err
	}
	return &manifests[0], nil
}

// Prune removes backups beyond the newest keep and returns how many were
// removed.
func (m *Manager) Prune(keep int) (int, error) {
	if keep < 0 {
		return 0, errors.New("keep must be non-negative")
	}

	manifests, err := m.List()
	if err != nil {
		if errors.Is(err, ErrNoBackupsFound) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	for i := keep; i < len(manifests); i++ {
		if err := m.fs.RemoveAll(filepath.Join(m.rootDir, manifests[i].ID)); err != nil {
			return removed, errors.Wrapf(err, "removing backup %s", manifests[i].ID)
		}
		removed++
	}

	if removed > 0 {
		m.logger.Debug("backups pruned", "removed", removed, "kept", keep)
	}
	return removed, nil
}

// Get returns the manifest for a specific backup.
func (m *Manager) Get(backupID string) (*BackupManifest, error) {
	if backupID == "" {
		return nil, errors.New("backup ID is required")
	}
	if strings.ContainsAny(backupID, `/\`) || backupID == "." || backupID == ".." {
		return nil, errors.Newf("invalid backup ID %q", backupID)
	}

	data, err := fileutil.ReadFileWithLimit(m.fs, filepath.Join(m.rootDir, backupID, manifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNoBackupsFound, "backup %s not found", backupID)
		}
		return nil, errors.Wrap(err, "reading manifest")
	}

	var manifest BackupManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrap(err, "parsing manifest")
	}
	if manifest.Version != ManifestVersion {
		return nil, errors.Newf("backup %s has unsupported manifest version %d", backupID, manifest.Version)
	}

	manifest.ID = backupID
	return &manifest, nil
}

func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// generateRelPath creates a relative path for storage in the backup directory.
// The absolute path is kept so two files with the same name never collide;
// the volume colon on Windows is dropped.
func generateRelPath(absPath string) string {
	clean := filepath.Clean(absPath)
	clean = strings.ReplaceAll(clean, ":", "")
	return strings.TrimLeft(clean, `/\`)
}
