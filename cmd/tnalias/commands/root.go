// Package commands implements the CLI commands for tnalias.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/tnalias/cmd"
	"github.com/thoreinstein/tnalias/cmd/tnalias/commands/alias"
	"github.com/thoreinstein/tnalias/cmd/tnalias/commands/backup"
	"github.com/thoreinstein/tnalias/cmd/tnalias/commands/flags"
	"github.com/thoreinstein/tnalias/cmd/tnalias/commands/library"
	"github.com/thoreinstein/tnalias/internal/cli"
	"github.com/thoreinstein/tnalias/internal/config"
	"github.com/thoreinstein/tnalias/internal/errors"
	"github.com/thoreinstein/tnalias/internal/logging"
)

// debugEnv raises verbosity when -v is not given: 1 or true for debug, 2 for
// trace.
const debugEnv = "TNALIAS_DEBUG"

// settingsFlag holds the value of the --settings flag.
var settingsFlag string

// configFlag holds the value of the --config flag.
var configFlag string

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// loadedConfig and configLoadErr hold the outcome of config loading.
var (
	loadedConfig  *config.Config
	configLoadErr error
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&settingsFlag, "settings", "",
		"path to the game's settings.json (default: platform location)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "",
		"path to the tnalias config file")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("tnalias version {{.Version}}\n")

	// Errors are printed by Execute.
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(alias.Cmd)
	rootCmd.AddCommand(library.Cmd)
	rootCmd.AddCommand(backup.Cmd)
}

func initConfig() {
	config.Init()
	loadedConfig, configLoadErr = config.Load(configFlag)
}

var rootCmd = &cobra.Command{
	Use:   "tnalias",
	Short: "Manage Tower Networking Inc command aliases",
	Long: `tnalias manages the command aliases stored in Tower Networking Inc's
settings file.

It shows and edits the alias set, shares it as a portable base64 string,
pulls curated alias sets from a remote catalog into a local library, and
imports library entries into the game's settings.

Other settings in the file are never touched, and a backup of the file is
taken before the first change in each run.`,
	Example: `  # Show current aliases
  tnalias alias list

  # Share your aliases
  tnalias alias export

  # Download the community library and import an entry
  tnalias library sync
  tnalias library import

  # Check system health
  tnalias doctor

  See Also: tnalias doctor, tnalias config`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return setupApp(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("cannot use --quiet and --verbose together"), "pass only one of -q and -v")
	}
	flags.SetQuiet(quiet)

	format, err := logging.ParseFormat(logFormat)
	if err != nil {
		return errors.NewUserError(err, "use --log-format text or json")
	}

	opts := logging.Options{
		Verbosity: verbosity,
		Quiet:     quiet,
		DebugEnv:  os.Getenv(debugEnv),
		Format:    format,
		Output:    cmd.ErrOrStderr(),
	}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(errors.Wrap(err, "opening log file"), "check the --log-file path")
		}
		opts.File = f
	}

	logger := logging.New(opts)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// setupApp stores the assembled App on the command context. Commands that
// diagnose or repair the configuration run on defaults when it fails to load.
func setupApp(cmd *cobra.Command) error {
	cfg := loadedConfig
	if configLoadErr != nil {
		if !toleratesBrokenConfig(cmd) {
			return errors.NewConfigError(configLoadErr)
		}
		cfg = config.Default()
	}
	if cfg == nil {
		cfg = config.Default()
	}

	app := cli.NewApp(cfg,
		cli.WithSettingsPath(settingsFlag),
		cli.WithLogger(logging.FromContext(cmd.Context())),
		cli.WithVersion(cmd.Root().Version),
	)
	cmd.SetContext(cli.NewContext(cmd.Context(), app))
	return nil
}

func toleratesBrokenConfig(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "help", "version", "doctor":
		return true
	}
	for c := cmd; c != nil; c = c.Parent() {
		if c == configCmd {
			return true
		}
	}
	return false
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return errors.ExitSuccess
	}
	return printError(rootCmd.ErrOrStderr(), err)
}

// printError writes err with its details and suggestion and returns the exit
// code it carries.
func printError(w io.Writer, err error) int {
	code := errors.ExitSystem
	var suggestion string

	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Code
		suggestion = exitErr.Suggestion
		if exitErr.Err == nil {
			return code
		}
	}

	red := color.New(color.FgRed, color.Bold).SprintFunc()
	fmt.Fprintf(w, "%s %v\n", red("Error:"), err)
	for _, d := range errors.GetAllDetails(err) {
		fmt.Fprintf(w, "  %s\n", d)
	}
	for _, h := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "  hint: %s\n", h)
	}
	if suggestion != "" {
		fmt.Fprintf(w, "  %s\n", suggestion)
	}
	return code
}

// printStatus writes a status line unless --quiet is set.
func printStatus(cmd *cobra.Command, format string, args ...any) {
	if flags.Quiet() {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
}
