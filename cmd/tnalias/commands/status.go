package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/tnalias/internal/backup"
	"github.com/thoreinstein/tnalias/internal/cli"
	"github.com/thoreinstein/tnalias/internal/errors"
)

var statusJSON bool

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show an overview of aliases, library and backups",
	Long: `Show where tnalias reads and writes, how many aliases the game has, how
many library entries are downloaded, and when the last backup was taken.

Problems are reported in place; run 'tnalias doctor' for details.`,
	Example: `  # Overview
  tnalias status

  # JSON output for scripting
  tnalias status --json`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

// statusReport is the collected overview.
type statusReport struct {
	SettingsPath  string     `json:"settings_path"`
	SettingsFound bool       `json:"settings_found"`
	Aliases       int        `json:"aliases"`
	LibraryDir    string     `json:"library_dir"`
	Entries       int        `json:"library_entries"`
	Unreadable    int        `json:"library_unreadable"`
	LastSync      *time.Time `json:"last_sync,omitempty"`
	BackupDir     string     `json:"backup_dir"`
	Backups       int        `json:"backups"`
	LastBackup    *time.Time `json:"last_backup,omitempty"`
	Problems      []string   `json:"problems,omitempty"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	report := collectStatus(cli.FromContext(cmd.Context()))
	w := cmd.OutOrStdout()
	if statusJSON {
		return cli.WriteJSON(w, report)
	}
	writeStatus(w, report, time.Now())
	return nil
}

// collectStatus never fails; anything that cannot be read becomes a problem
// line.
func collectStatus(app *cli.App) *statusReport {
	r := &statusReport{LibraryDir: app.LibraryDir()}

	if p, err := app.SettingsPath(); err != nil {
		r.Problems = append(r.Problems, err.Error())
	} else {
		r.SettingsPath = p
		r.SettingsFound, _ = afero.Exists(app.Fs, p)
		if r.SettingsFound {
			if _, m, err := app.LoadAliases(); err != nil {
				r.Problems = append(r.Problems, err.Error())
			} else {
				r.Aliases = m.Len()
			}
		}
	}

	if entries, err := app.Cache().List(); err != nil {
		r.Problems = append(r.Problems, err.Error())
	} else {
		for _, e := range entries {
			if e.Err != nil {
				r.Unreadable++
				continue
			}
			r.Entries++
			if r.LastSync == nil || e.ModTime.After(*r.LastSync) {
				t := e.ModTime
				r.LastSync = &t
			}
		}
	}

	mgr := app.Backups()
	r.BackupDir = mgr.Dir()
	manifests, err := mgr.List()
	switch {
	case errors.Is(err, backup.ErrNoBackupsFound):
	case err != nil:
		r.Problems = append(r.Problems, err.Error())
	default:
		r.Backups = len(manifests)
		r.LastBackup = &manifests[0].CreatedAt
	}

	return r
}

func writeStatus(w io.Writer, r *statusReport, now time.Time) {
	settings := "not found"
	if r.SettingsFound {
		settings = cli.Count(r.Aliases, "alias")
	}

	library := cli.Count(r.Entries, "entry")
	if r.Unreadable > 0 {
		library += fmt.Sprintf(", %d unreadable", r.Unreadable)
	}
	if r.LastSync != nil {
		library += ", synced " + cli.Ago(*r.LastSync, now)
	}

	backups := cli.Count(r.Backups, "backup")
	if r.LastBackup != nil {
		backups += ", last " + cli.Ago(*r.LastBackup, now)
	}

	rows := [][]string{
		{"settings", r.SettingsPath, settings},
		{"library", r.LibraryDir, library},
		{"backups", r.BackupDir, backups},
	}
	fmt.Fprintln(w, cli.RenderTable([]string{"", "PATH", "STATE"}, rows, nil))

	if len(r.Problems) > 0 {
		fmt.Fprintln(w)
		for _, p := range r.Problems {
			fmt.Fprintf(w, "⚠ %s\n", p)
		}
		fmt.Fprintln(w, "\nRun 'tnalias doctor' for details.")
	}
}
