package library

import (
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/thoreinstein/tnalias/internal/alias"
	"github.com/thoreinstein/tnalias/internal/errors"
	"github.com/thoreinstein/tnalias/internal/logging"
	"github.com/thoreinstein/tnalias/pkg/fileutil"
)

// Extension is the file extension of canonical cache entries.
const Extension = ".json"

// Sentinel errors for cache operations.
var (
	// ErrEntryNotFound indicates no cache entry matches the requested name.
	ErrEntryNotFound = errors.New("library entry not found")

	// ErrUnsafePath indicates a relative path escapes the cache directory.
	ErrUnsafePath = errors.New("unsafe library path")
)

// Entry describes one file in the library cache.
type Entry struct {
	// Name is the slash-separated path relative to the cache directory.
	Name string `json:"name"`

	// Path is the file's location on disk.
	Path string `json:"path"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`

	// ModTime is the last time the entry was replaced.
	ModTime time.Time `json:"mod_time"`

	// Aliases is the number of aliases the entry decodes to.
	Aliases int `json:"aliases"`

	// Strategy is the decoding that matched. Canonical entries report
	// StrategyDirect; anything else is a legacy file.
	Strategy Strategy `json:"-"`

	// Err is set when the file does not decode.
	Err error `json:"-"`
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithCacheFs sets the filesystem. Defaults to the OS filesystem.
func WithCacheFs(fsys afero.Fs) CacheOption {
	return func(c *Cache) {
		c.fs = fsys
	}
}

// WithCacheLogger sets the logger.
func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Cache is the local directory of normalized library entries.
type Cache struct {
	fs     afero.Fs
	dir    string
	logger *slog.Logger
}

// NewCache returns a Cache rooted at dir.
func NewCache(dir string, opts ...CacheOption) *Cache {
	c := &Cache{
		fs:     afero.NewOsFs(),
		dir:    dir,
		logger: logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// EntryName maps a catalog-relative path to its cache entry name: the
// cleaned slash path with its extension replaced by .json.
func EntryName(rel string) (string, error) {
	rel = strings.ReplaceAll(rel, "\\", "/")
	clean := path.Clean("/" + rel)[1:]
	if clean == "" || clean == "." || strings.HasPrefix(rel, "/") || slices.Contains(strings.Split(rel, "/"), "..") {
		return "", errors.WithDetailf(ErrUnsafePath, "%q", rel)
	}
	return strings.TrimSuffix(clean, path.Ext(clean)) + Extension, nil
}

// Write stores m as the canonical entry for the catalog-relative path rel and
// returns the entry name. The previous entry, if any, is replaced atomically.
// Failures are marked errors.ErrCacheWrite.
func (c *Cache) Write(rel string, m *alias.Map) (string, error) {
	name, err := EntryName(rel)
	if err != nil {
		return "", errors.Mark(err, errors.ErrCacheWrite)
	}

	target := filepath.Join(c.dir, filepath.FromSlash(name))
	if err := c.fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", errors.Mark(errors.Wrap(err, "creating library directory"), errors.ErrCacheWrite)
	}

	if err := fileutil.AtomicWriteFile(c.fs, target, Canonical(m), 0o644); err != nil {
		return "", errors.Mark(errors.Wrapf(err, "writing %s", name), errors.ErrCacheWrite)
	}

	c.logger.Debug("library entry written", "name", name, "aliases", m.Len())
	return name, nil
}

// List returns every entry in the cache sorted by name. Files that do not
// decode are included with Err set. A missing cache directory yields an
// empty list.
func (c *Cache) List() ([]Entry, error) {
	if ok, err := afero.DirExists(c.fs, c.dir); err != nil {
		return nil, errors.Wrap(err, "checking library directory")
	} else if !ok {
		return []Entry{}, nil
	}

	entries := []Entry{}
	err := afero.Walk(c.fs, c.dir, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || strings.HasPrefix(info.Name(), ".") {
			return nil
		}

		rel, err := filepath.Rel(c.dir, p)
		if err != nil {
			return err
		}

		entry := Entry{
			Name:    filepath.ToSlash(rel),
			Path:    p,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}

		m, strategy, err := c.read(p, entry.Name)
		if err != nil {
			entry.Err = err
		} else {
			entry.Aliases = m.Len()
			entry.Strategy = strategy
		}

		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "listing library directory")
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.Name, b.Name)
	})

	return entries, nil
}

// Load returns the alias map stored under name. The .json extension may be
// omitted. Legacy files in any supported encoding are normalized on read.
func (c *Cache) Load(name string) (*alias.Map, error) {
	p, resolved, err := c.resolve(name)
	if err != nil {
		return nil, err
	}
	m, _, err := c.read(p, resolved)
	return m, err
}

// Remove deletes the entry stored under name.
func (c *Cache) Remove(name string) error {
	p, _, err := c.resolve(name)
	if err != nil {
		return err
	}
	return errors.Wrapf(c.fs.Remove(p), "removing %s", name)
}

func (c *Cache) resolve(name string) (string, string, error) {
	clean := strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(name)), "/")
	if clean == "" || clean == "." {
		return "", "", errors.WithDetailf(ErrEntryNotFound, "%q", name)
	}

	candidates := []string{clean}
	if path.Ext(clean) == "" {
		candidates = append(candidates, clean+Extension)
	}

	for _, cand := range candidates {
		p := filepath.Join(c.dir, filepath.FromSlash(cand))
		if ok, _ := afero.Exists(c.fs, p); ok {
			return p, cand, nil
		}
	}

	return "", "", errors.WithDetailf(ErrEntryNotFound, "no library entry named %q in %s", name, c.dir)
}

func (c *Cache) read(p, name string) (*alias.Map, Strategy, error) {
	data, err := fileutil.ReadFileWithLimit(c.fs, p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, StrategyNone, errors.WithDetailf(ErrEntryNotFound, "%q", name)
		}
		return nil, StrategyNone, errors.Wrapf(err, "reading %s", name)
	}

	m, strategy, err := NormalizeWithStrategy(data, name)
	if err != nil {
		return nil, StrategyNone, err
	}
	if strategy != StrategyDirect {
		c.logger.Debug("legacy library file", "name", name, "strategy", strategy.String())
	}
	return m, strategy, nil
}
