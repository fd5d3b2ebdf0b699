package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/thoreinstein/tnalias/internal/errors"
	"github.com/thoreinstein/tnalias/internal/paths"
	"github.com/thoreinstein/tnalias/pkg/fileutil"
)

// EnvPrefix prefixes environment overrides, e.g. TNALIAS_CATALOG_WORKERS.
const EnvPrefix = "TNALIAS"

// ConfigDirEnv overrides the directory searched for config.yaml.
const ConfigDirEnv = "TNALIAS_CONFIG_DIR"

// FileName is the config file name.
const FileName = "config.yaml"

// Configuration keys.
const (
	KeyVersion          = "version"
	KeySettingsPath     = "settings_path"
	KeyLibraryDir       = "library_dir"
	KeyCatalogURL       = "catalog.url"
	KeyCatalogPrefix    = "catalog.prefix"
	KeyCatalogWorkers   = "catalog.workers"
	KeyCatalogTimeout   = "catalog.timeout"
	KeyCatalogRateLimit = "catalog.rate_limit"
	KeyCatalogToken     = "catalog.token"
	KeyBackupEnabled    = "backup.enabled"
	KeyBackupRetention  = "backup.retention"
)

// Defaults for values not set in the file or environment.
const (
	DefaultCatalogURL       = "https://api.github.com/repos/iiEpic/tower-networking-alias-manager/git/trees/97891c53c3e21eb61614c1b1043b96de53765b8b?recursive=1"
	DefaultCatalogPrefix    = "library/"
	DefaultCatalogWorkers   = 4
	DefaultCatalogTimeout   = 2 * time.Minute
	DefaultCatalogRateLimit = 10.0
	DefaultBackupRetention  = 10
)

// Config represents the top-level configuration structure.
type Config struct {
	Version int `mapstructure:"version" yaml:"version"`

	// SettingsPath overrides the platform settings location.
	SettingsPath string `mapstructure:"settings_path" yaml:"settings_path,omitempty"`

	// LibraryDir overrides the library cache directory.
	LibraryDir string `mapstructure:"library_dir" yaml:"library_dir,omitempty"`

	Catalog CatalogConfig `mapstructure:"catalog" yaml:"catalog"`
	Backup  BackupConfig  `mapstructure:"backup" yaml:"backup"`
}

// CatalogConfig configures library sync.
type CatalogConfig struct {
	URL       string        `mapstructure:"url" yaml:"url"`
	Prefix    string        `mapstructure:"prefix" yaml:"prefix"`
	Workers   int           `mapstructure:"workers" yaml:"workers"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit" yaml:"rate_limit"`
	Token     string        `mapstructure:"token" yaml:"token,omitempty"`
}

// MarshalYAML writes the timeout as a duration string such as "2m0s".
func (c CatalogConfig) MarshalYAML() (any, error) {
	return struct {
		URL       string  `yaml:"url"`
		Prefix    string  `yaml:"prefix"`
		Workers   int     `yaml:"workers"`
		Timeout   string  `yaml:"timeout"`
		RateLimit float64 `yaml:"rate_limit"`
		Token     string  `yaml:"token,omitempty"`
	}{c.URL, c.Prefix, c.Workers, c.Timeout.String(), c.RateLimit, c.Token}, nil
}

// BackupConfig configures settings backups.
type BackupConfig struct {
	Enabled   bool `mapstructure:"enabled" yaml:"enabled"`
	Retention int  `mapstructure:"retention" yaml:"retention"`
}

// Keys returns every configuration key in display order.
func Keys() []string {
	return []string{
		KeyVersion,
		KeySettingsPath,
		KeyLibraryDir,
		KeyCatalogURL,
		KeyCatalogPrefix,
		KeyCatalogWorkers,
		KeyCatalogTimeout,
		KeyCatalogRateLimit,
		KeyCatalogToken,
		KeyBackupEnabled,
		KeyBackupRetention,
	}
}

// ValidKey reports whether key is a known configuration key.
func ValidKey(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// Dir returns the directory holding config.yaml.
func Dir() string {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir
	}
	return paths.ConfigDir()
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(Dir(), FileName)
}

// Init resets Viper and registers search paths, environment binding and
// defaults. Call this once at application startup before accessing config
// values.
func Init() {
	viper.Reset()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(Dir())

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	d := Default()
	viper.SetDefault(KeyVersion, d.Version)
	viper.SetDefault(KeySettingsPath, d.SettingsPath)
	viper.SetDefault(KeyLibraryDir, d.LibraryDir)
	viper.SetDefault(KeyCatalogURL, d.Catalog.URL)
	viper.SetDefault(KeyCatalogPrefix, d.Catalog.Prefix)
	viper.SetDefault(KeyCatalogWorkers, d.Catalog.Workers)
	viper.SetDefault(KeyCatalogTimeout, d.Catalog.Timeout)
	viper.SetDefault(KeyCatalogRateLimit, d.Catalog.RateLimit)
	viper.SetDefault(KeyCatalogToken, d.Catalog.Token)
	viper.SetDefault(KeyBackupEnabled, d.Backup.Enabled)
	viper.SetDefault(KeyBackupRetention, d.Backup.Retention)
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Version: 1,
		Catalog: CatalogConfig{
			URL:       DefaultCatalogURL,
			Prefix:    DefaultCatalogPrefix,
			Workers:   DefaultCatalogWorkers,
			Timeout:   DefaultCatalogTimeout,
			RateLimit: DefaultCatalogRateLimit,
		},
		Backup: BackupConfig{
			Enabled:   true,
			Retention: DefaultBackupRetention,
		},
	}
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case path != "" && (errors.As(err, &notFound) || isNotExist(err)):
			return nil, errors.Wrapf(errors.ErrNotFound, "config file not found at %s", path)
		case errors.As(err, &notFound):
			// Implicit load falls back to defaults.
		default:
			return nil, errors.Mark(errors.Wrap(err, "reading config file"), errors.ErrInvalidConfig)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "unmarshaling config"), errors.ErrInvalidConfig)
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Mark(errors.Wrap(errs[0], "validating config"), errors.ErrInvalidConfig)
	}

	return &cfg, nil
}

// Current unmarshals the values Viper holds now, without reading any file.
func Current() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "unmarshaling config"), errors.ErrInvalidConfig)
	}
	return &cfg, nil
}

// Save writes cfg as YAML to path, creating the directory when needed.
func Save(fs afero.Fs, path string, cfg *Config) error {
	if err := fs.MkdirAll(filepath.Dir(path), paths.DefaultDirPerm); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	return errors.Wrap(fileutil.AtomicWriteYAML(fs, path, cfg), "writing config")
}

func isNotExist(err error) bool {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if os.IsNotExist(e) {
			return true
		}
	}
	return false
}
