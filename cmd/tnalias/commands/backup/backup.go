// Package backup provides CLI commands for managing settings file backups.
package backup

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/tnalias/cmd/tnalias/commands/flags"
	"github.com/thoreinstein/tnalias/internal/backup"
	"github.com/thoreinstein/tnalias/internal/cli"
)

// Cmd is the root backup command.
var Cmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage settings file backups",
	Long: `Manage backups of the game's settings file.

Before tnalias first changes the settings file in a run, it copies the file
into the backup directory with a manifest and checksum. This command group
lists, restores, creates and prunes those backups.

Backups are stored under the tnalias data directory and the newest
backup.retention of them are kept.`,
	Example: `  # List backups
  tnalias backup list

  # Restore the most recent backup
  tnalias backup restore

  # Restore a specific backup
  tnalias backup restore 20260123T100712

  # Remove old backups, keeping the 3 most recent
  tnalias backup prune --keep 3

  See Also:
    tnalias backup list    - List available backups
    tnalias backup restore - Restore from a backup
    tnalias backup create  - Manually create a backup
    tnalias backup prune   - Remove old backups`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// manager returns the backup manager for the current invocation.
func manager(cmd *cobra.Command) *backup.Manager {
	return cli.FromContext(cmd.Context()).Backups()
}

// printStatus writes a status line unless --quiet is set.
func printStatus(cmd *cobra.Command, format string, args ...any) {
	if flags.Quiet() {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
}
