package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/tnalias/internal/cli"
	"github.com/thoreinstein/tnalias/internal/config"
	"github.com/thoreinstein/tnalias/internal/editor"
	"github.com/thoreinstein/tnalias/internal/errors"
	"github.com/thoreinstein/tnalias/internal/logging"
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage tnalias configuration",
	Long: `Manage tnalias configuration stored in config.yaml in the tnalias config
directory. Environment variables prefixed with TNALIAS_ override the file,
e.g. TNALIAS_CATALOG_WORKERS=8.

Without a subcommand, lists all configuration values.

Keys:
  settings_path       game settings file (default: platform location)
  library_dir         library cache directory
  catalog.url         catalog listing URL
  catalog.prefix      catalog path prefix of library entries
  catalog.workers     concurrent downloads during sync
  catalog.timeout     limit for a whole sync, e.g. 2m
  catalog.rate_limit  catalog requests per second, 0 for no limit
  catalog.token       bearer token for catalog requests
  backup.enabled      back up the settings file before changing it
  backup.retention    number of backups to keep`,
	Example: `  # List all configuration
  tnalias config

  # Get a specific value
  tnalias config get catalog.workers

  # Set a value
  tnalias config set settings_path ~/games/tni/settings.json

See Also: tnalias doctor`,
	RunE: runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long:  `Get a single configuration value by key. Nested keys use dot notation.`,
	Example: `  # Get the catalog URL
  tnalias config get catalog.url

See Also: tnalias config set, tnalias config list`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file.

The value is checked before the file is written; an invalid value leaves the
file unchanged.`,
	Example: `  # Use more parallel downloads
  tnalias config set catalog.workers 8

  # Stop taking backups
  tnalias config set backup.enabled false

See Also: tnalias config get, tnalias config list`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration",
	Long:  `List all configuration values in YAML format. The catalog token is masked.`,
	Example: `  # List all configuration
  tnalias config list

See Also: tnalias config get, tnalias config set`,
	Args: cobra.NoArgs,
	RunE: runConfigList,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), configPath())
		return nil
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open configuration in $EDITOR",
	Long: `Open the configuration file in your default editor.

Uses $VISUAL or $EDITOR, falling back to nano, vim or vi. If no config file
exists yet, one holding the defaults is created first.`,
	Example: `  # Open config in default editor
  tnalias config edit

  # Open with specific editor
  EDITOR=nano tnalias config edit

See Also: tnalias config list`,
	Args: cobra.NoArgs,
	RunE: runConfigEdit,
}

// configPath returns the config file tnalias reads and writes.
func configPath() string {
	if configFlag != "" {
		return configFlag
	}
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return config.DefaultPath()
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	if !config.ValidKey(key) {
		return errors.NewUserError(errors.Newf("unknown config key %q", key), "valid keys: "+strings.Join(config.Keys(), ", "))
	}

	value := viper.GetString(key)
	if key == config.KeyCatalogToken {
		value = maskToken(value)
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	if !config.ValidKey(key) {
		return errors.NewUserError(errors.Newf("unknown config key %q", key), "valid keys: "+strings.Join(config.Keys(), ", "))
	}

	app := cli.FromContext(cmd.Context())
	path := configPath()

	cfg, err := readConfigFile(app, path)
	if err != nil {
		return err
	}

	// A private instance keeps environment overrides out of the file.
	v := viper.New()
	if err := v.MergeConfigMap(configMap(cfg)); err != nil {
		return errors.Wrap(err, "preparing config")
	}
	v.Set(key, value)

	updated := config.Default()
	if err := v.Unmarshal(updated); err != nil {
		return errors.NewUserError(errors.Wrapf(err, "invalid value for %s", key), "check the value's type")
	}
	if errs := config.Validate(updated); len(errs) > 0 {
		return errors.NewUserError(errs[0], "the config file was not changed")
	}

	if err := config.Save(app.Fs, path, updated); err != nil {
		return errors.NewSystemError(err, "check permissions on "+path)
	}

	shown := value
	if key == config.KeyCatalogToken {
		shown = maskToken(value)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, shown)
	return nil
}

// readConfigFile returns the values stored in the config file at path, with
// defaults for anything missing.
func readConfigFile(app *cli.App, path string) (*config.Config, error) {
	cfg := config.Default()
	data, err := afero.ReadFile(app.Fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.NewSystemError(errors.Wrap(err, "reading config file"), "check permissions on "+path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError(errors.Wrapf(err, "parsing %s", path))
	}
	return cfg, nil
}

// configMap converts cfg to the nested map form Viper merges.
func configMap(cfg *config.Config) map[string]any {
	return map[string]any{
		"version":       cfg.Version,
		"settings_path": cfg.SettingsPath,
		"library_dir":   cfg.LibraryDir,
		"catalog": map[string]any{
			"url":        cfg.Catalog.URL,
			"prefix":     cfg.Catalog.Prefix,
			"workers":    cfg.Catalog.Workers,
			"timeout":    cfg.Catalog.Timeout.String(),
			"rate_limit": cfg.Catalog.RateLimit,
			"token":      cfg.Catalog.Token,
		},
		"backup": map[string]any{
			"enabled":   cfg.Backup.Enabled,
			"retention": cfg.Backup.Retention,
		},
	}
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	cfg := *cli.FromContext(cmd.Context()).Config
	cfg.Catalog.Token = maskToken(cfg.Catalog.Token)

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	_, err = cmd.OutOrStdout().Write(data)
	return errors.Wrap(err, "writing config")
}

func maskToken(token string) string {
	if token == "" {
		return ""
	}
	return logging.MaskValue(token)
}

func runConfigEdit(cmd *cobra.Command, _ []string) error {
	app := cli.FromContext(cmd.Context())
	path := configPath()

	exists, err := afero.Exists(app.Fs, path)
	if err != nil {
		return errors.Wrap(err, "checking config file")
	}
	if !exists {
		if err := config.Save(app.Fs, path, config.Default()); err != nil {
			return errors.NewSystemError(err, "check permissions on "+path)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	}

	if err := editor.Open(path); err != nil {
		return errors.NewSystemError(err, "set $EDITOR to an installed editor")
	}

	if _, err := readConfigFile(app, path); err != nil {
		return err
	}
	return nil
}
