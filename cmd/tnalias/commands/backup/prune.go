package backup

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/tnalias/internal/cli"
	"github.com/thoreinstein/tnalias/internal/errors"
)

var pruneKeep int

func init() {
	pruneCmd.Flags().IntVar(&pruneKeep, "keep", -1,
		"Number of backups to retain (default: backup.retention from config)")
	Cmd.AddCommand(pruneCmd)
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old backups",
	Long: `Remove old backups beyond the retention count.

By default, keeps backup.retention backups and removes older ones. Use the
--keep flag to specify a different retention count.`,
	Example: `  # Keep the configured number of backups
  tnalias backup prune

  # Keep only the 3 most recent backups
  tnalias backup prune --keep 3

  # Remove all backups
  tnalias backup prune --keep 0

  See Also:
    tnalias backup list   - List available backups
    tnalias backup create - Create a new backup`,
	Args: cobra.NoArgs,
	RunE: runPrune,
}

func runPrune(cmd *cobra.Command, _ []string) error {
	app := cli.FromContext(cmd.Context())
	keep := pruneKeep
	if !cmd.Flags().Changed("keep") {
		keep = app.Config.Backup.Retention
	}
	if keep < 0 {
		return errors.NewUserError(errors.New("--keep must be non-negative"), "pass --keep 0 or more")
	}

	mgr := app.Backups()
	removed, err := mgr.Prune(keep)
	if err != nil {
		return errors.NewSystemError(errors.Wrap(err, "pruning backups"), "check permissions on "+mgr.Dir())
	}

	if removed == 0 {
		printStatus(cmd, "No backups to prune")
		return nil
	}
	printStatus(cmd, "✓ Removed %s", cli.Count(removed, "old backup"))
	return nil
}
