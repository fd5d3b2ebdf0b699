package cli

import (
	"context"
	"log/slog"
	"net/http"
	"runtime"
	"sync"

	"github.com/spf13/afero"

	"github.com/thoreinstein/tnalias/internal/alias"
	"github.com/thoreinstein/tnalias/internal/backup"
	"github.com/thoreinstein/tnalias/internal/catalog"
	"github.com/thoreinstein/tnalias/internal/config"
	"github.com/thoreinstein/tnalias/internal/errors"
	"github.com/thoreinstein/tnalias/internal/library"
	"github.com/thoreinstein/tnalias/internal/paths"
	"github.com/thoreinstein/tnalias/internal/settings"
)

// App carries the resolved configuration for one invocation.
type App struct {
	// Config is the loaded tool configuration.
	Config *config.Config

	// Fs is the filesystem every component reads and writes through.
	Fs afero.Fs

	// Logger is shared by every component.
	Logger *slog.Logger

	// Version is recorded in backup manifests and the catalog user agent.
	Version string

	// HTTPClient overrides the catalog HTTP client when set.
	HTTPClient *http.Client

	settingsFlag string
	backupDir    string
	goos         string

	backupsOnce sync.Once
	backups     *backup.Manager
}

// Option configures an App.
type Option func(*App)

// WithSettingsPath sets the --settings override.
func WithSettingsPath(p string) Option {
	return func(a *App) {
		a.settingsFlag = p
	}
}

// WithBackupDir sets where settings backups are stored. Defaults to the
// XDG data directory.
func WithBackupDir(dir string) Option {
	return func(a *App) {
		a.backupDir = dir
	}
}

// WithFs sets the filesystem. Defaults to the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(a *App) {
		a.Fs = fs
	}
}

// WithLogger sets the logger. Defaults to a discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.Logger = logger
		}
	}
}

// WithVersion sets the tool version.
func WithVersion(v string) Option {
	return func(a *App) {
		a.Version = v
	}
}

// WithHTTPClient sets the catalog HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(a *App) {
		a.HTTPClient = hc
	}
}

// NewApp creates an App over cfg. A nil cfg means defaults.
func NewApp(cfg *config.Config, opts ...Option) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	a := &App{
		Config:  cfg,
		Fs:      afero.NewOsFs(),
		Logger:  slog.New(slog.DiscardHandler),
		Version: "dev",
		goos:    runtime.GOOS,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SettingsPath resolves the settings document location: the --settings flag,
// then settings_path from the config, then the platform default.
func (a *App) SettingsPath() (string, error) {
	switch {
	case a.settingsFlag != "":
		return a.settingsFlag, nil
	case a.Config.SettingsPath != "":
		return a.Config.SettingsPath, nil
	}
	p, err := paths.SettingsPath(a.goos)
	if err != nil {
		return "", errors.Wrap(err, "locating settings file")
	}
	return p, nil
}

// SettingsOverride returns the configured settings path, if any.
func (a *App) SettingsOverride() string {
	if a.settingsFlag != "" {
		return a.settingsFlag
	}
	return a.Config.SettingsPath
}

// LibraryDir returns the library cache directory.
func (a *App) LibraryDir() string {
	if a.Config.LibraryDir != "" {
		return a.Config.LibraryDir
	}
	return paths.LibraryDir()
}

// Backups returns the backup manager shared by every store from this App.
func (a *App) Backups() *backup.Manager {
	a.backupsOnce.Do(func() {
		opts := []backup.Option{
			backup.WithFs(a.Fs),
			backup.WithRetentionCount(a.Config.Backup.Retention),
			backup.WithToolVersion(a.Version),
			backup.WithLogger(a.Logger),
		}
		if a.backupDir != "" {
			opts = append(opts, backup.WithBackupDir(a.backupDir))
		}
		a.backups = backup.NewManager(opts...)
	})
	return a.backups
}

// Store returns the settings store. When backups are enabled the existing
// document is copied before the first overwrite.
func (a *App) Store() (*settings.Store, error) {
	p, err := a.SettingsPath()
	if err != nil {
		return nil, err
	}
	opts := []settings.Option{
		settings.WithFs(a.Fs),
		settings.WithLogger(a.Logger),
	}
	if a.Config.Backup.Enabled {
		opts = append(opts, settings.WithBeforeWrite(a.Backups().BeforeWrite))
	}
	return settings.NewStore(p, opts...), nil
}

// LoadAliases returns the settings store and the aliases it holds. Errors
// carry exit codes: a missing location or malformed cmd_alias is a user
// error, a read failure a system error.
func (a *App) LoadAliases() (*settings.Store, *alias.Map, error) {
	store, err := a.Store()
	if err != nil {
		return nil, nil, errors.NewUserError(err,
			"pass --settings or run: tnalias config set settings_path <path>")
	}
	m, err := store.Aliases()
	if err != nil {
		if errors.Is(err, errors.ErrSettingsMissingOrCorrupt) {
			return nil, nil, errors.NewUserError(err, "fix cmd_alias in "+store.Path()+" or run: tnalias doctor")
		}
		return nil, nil, errors.NewSystemError(err, "check permissions on "+store.Path())
	}
	return store, m, nil
}

// LoadAliasesForReplace is LoadAliases for commands that overwrite the whole
// alias map. A malformed cmd_alias reads as empty, with a warning, since the
// replacement discards it anyway.
func (a *App) LoadAliasesForReplace() (*settings.Store, *alias.Map, error) {
	store, m, err := a.LoadAliases()
	if err == nil || !errors.Is(err, errors.ErrSettingsMissingOrCorrupt) {
		return store, m, err
	}
	store, serr := a.Store()
	if serr != nil {
		return nil, nil, errors.NewUserError(serr,
			"pass --settings or run: tnalias config set settings_path <path>")
	}
	a.Logger.Warn("replacing malformed alias map", "path", store.Path(), "error", err)
	return store, alias.New(), nil
}

// Cache returns the library cache.
func (a *App) Cache() *library.Cache {
	return library.NewCache(a.LibraryDir(),
		library.WithCacheFs(a.Fs),
		library.WithCacheLogger(a.Logger),
	)
}

// Client returns a catalog client configured from the catalog section.
func (a *App) Client() *catalog.Client {
	c := a.Config.Catalog
	opts := []catalog.ClientOption{
		catalog.WithUserAgent("tnalias/" + a.Version),
		catalog.WithClientLogger(a.Logger),
	}
	if a.HTTPClient != nil {
		opts = append(opts, catalog.WithHTTPClient(a.HTTPClient))
	}
	if c.Token != "" {
		opts = append(opts, catalog.WithToken(c.Token))
	}
	if c.RateLimit > 0 {
		opts = append(opts, catalog.WithRateLimit(c.RateLimit, max(1, c.Workers)))
	}
	return catalog.NewClient(opts...)
}

// Syncer returns a catalog syncer writing into Cache. Extra options are
// applied after the configured ones.
func (a *App) Syncer(extra ...catalog.Option) *catalog.Syncer {
	c := a.Config.Catalog
	opts := []catalog.Option{
		catalog.WithPrefix(c.Prefix),
		catalog.WithWorkers(c.Workers),
		catalog.WithTimeout(c.Timeout),
		catalog.WithLogger(a.Logger),
	}
	opts = append(opts, extra...)
	return catalog.NewSyncer(a.Client(), a.Cache(), opts...)
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying a.
func NewContext(ctx context.Context, a *App) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// FromContext returns the App stored in ctx, or an App over default
// configuration when none is stored.
func FromContext(ctx context.Context) *App {
	if ctx != nil {
		if a, ok := ctx.Value(ctxKey{}).(*App); ok {
			return a
		}
	}
	return NewApp(nil)
}
