package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/tnalias/cmd/tnalias/commands/flags"
	"github.com/thoreinstein/tnalias/internal/cli"
	"github.com/thoreinstein/tnalias/internal/config"
	"github.com/thoreinstein/tnalias/internal/doctor"
	"github.com/thoreinstein/tnalias/internal/errors"
)

var (
	doctorJSON bool
	doctorAll  bool
	doctorFix  bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorAll, "all", false,
		"show every check, including passed ones")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false,
		"repair fixable problems such as world-writable files")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration issues",
	Long: `Run diagnostic checks on the settings file, the library, and the tnalias
configuration.

Checks that the platform is supported, that the settings file parses and its
cmd_alias entry is valid, that library entries decode, that the config file
is valid, and that the files tnalias writes have sane permissions.

Output modes:
  (default)   Show errors and warnings
  --all       Show all checks including passed ones
  --quiet     No output, exit code only
  --json      Machine-readable JSON output

Exit codes:
  0 - All checks passed (no errors or warnings)
  1 - Warnings present, no errors
  2 - Errors present`,
	Example: `  # Check everything
  tnalias doctor

  # Fix permission problems
  tnalias doctor --fix

  See Also: tnalias config`,
	Args:    cobra.NoArgs,
	PreRunE: validateDoctorFlags,
	RunE:    runDoctor,
}

// validateDoctorFlags ensures output flags are mutually exclusive.
func validateDoctorFlags(_ *cobra.Command, _ []string) error {
	count := 0
	for _, set := range []bool{doctorJSON, doctorAll, flags.Quiet()} {
		if set {
			count++
		}
	}
	if count > 1 {
		return errors.NewUserError(errors.New("flags --json, --quiet, and --all are mutually exclusive"), "pass only one of them")
	}
	return nil
}

// doctorOutput is the JSON output for doctor.
type doctorOutput struct {
	*doctor.DoctorReport
	Fixes []doctor.FixResult `json:"fixes,omitempty"`
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	app := cli.FromContext(cmd.Context())
	runner := newDoctorRunner(app, configPathForDoctor())

	var report *doctor.DoctorReport
	var fixes []doctor.FixResult
	if doctorFix {
		report, fixes = runner.Repair()
	} else {
		report = runner.Run()
	}

	w := cmd.OutOrStdout()
	switch {
	case flags.Quiet():
	case doctorJSON:
		if err := cli.WriteJSON(w, doctorOutput{DoctorReport: report, Fixes: fixes}); err != nil {
			return err
		}
	default:
		writeFixes(w, fixes)
		writeDoctorReport(w, report, doctorAll)
	}

	switch report.Worst() {
	case doctor.SeverityError:
		return errors.NewExitError(nil, errors.ExitSystem)
	case doctor.SeverityWarning:
		return errors.NewExitError(nil, errors.ExitUser)
	}
	return nil
}

func configPathForDoctor() string {
	if configFlag != "" {
		return configFlag
	}
	return config.DefaultPath()
}

// newDoctorRunner registers every check against app's locations.
func newDoctorRunner(app *cli.App, configPath string) *doctor.Runner {
	runner := doctor.NewRunner(doctor.NewPlatformCheck(app.SettingsOverride()))

	targets := []doctor.PathTarget{
		{Role: "library cache", Path: app.LibraryDir(), Kind: doctor.KindDirectory},
		{Role: "backup directory", Path: app.Backups().Dir(), Kind: doctor.KindDirectory},
		{Role: "config file", Path: configPath, Kind: doctor.KindFile},
	}

	// An unsupported platform without an override is reported by the
	// platform check; there is no settings file to look at.
	if settingsPath, err := app.SettingsPath(); err == nil {
		runner.AddCheck(doctor.NewSettingsCheck(app.Fs, settingsPath))
		targets = append([]doctor.PathTarget{
			{Role: "settings file", Path: settingsPath, Kind: doctor.KindFile},
		}, targets...)
	}

	runner.AddCheck(doctor.NewLibraryCheck(app.Fs, app.LibraryDir()))
	runner.AddCheck(doctor.NewConfigCheck(app.Fs, configPath))
	runner.AddCheck(doctor.NewPathPermissionCheck(app.Fs, targets...))
	return runner
}

func writeFixes(w io.Writer, fixes []doctor.FixResult) {
	for _, f := range fixes {
		if f.Fixed {
			fmt.Fprintf(w, "%s fixed %s: %s\n", color.GreenString("✓"), f.Path, f.Description)
			continue
		}
		fmt.Fprintf(w, "%s could not fix %s: %s\n", color.RedString("✗"), f.Path, f.Description)
	}
	if len(fixes) > 0 {
		fmt.Fprintln(w)
	}
}

func writeDoctorReport(w io.Writer, report *doctor.DoctorReport, showAll bool) {
	hasOutput := false
	for _, result := range report.Results {
		problem := result.Status.IsProblem()
		if !showAll && !problem {
			continue
		}

		hasOutput = true
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)

		if issues, ok := result.Details["issues"].([]string); ok && problem {
			for _, issue := range issues {
				fmt.Fprintf(w, "    - %s\n", issue)
			}
		}
		if result.FixHint != "" && problem {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
	}

	if hasOutput {
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return color.GreenString("✓")
	case doctor.SeverityInfo:
		return color.CyanString("ℹ")
	case doctor.SeverityWarning:
		return color.YellowString("⚠")
	case doctor.SeverityError:
		return color.RedString("✗")
	default:
		return "?"
	}
}
