package backup

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/tnalias/internal/backup"
	"github.com/thoreinstein/tnalias/internal/cli/prompt"
	"github.com/thoreinstein/tnalias/internal/errors"
)

var restoreYes bool

func init() {
	restoreCmd.Flags().BoolVarP(&restoreYes, "yes", "y", false, "Restore without asking for confirmation")
	Cmd.AddCommand(restoreCmd)
}

var restoreCmd = &cobra.Command{
	Use:   "restore [backup-id]",
	Short: "Restore from a backup",
	Long: `Restore the settings file from a backup.

If no backup ID is provided, restores from the most recent backup. Every
file is checked against its recorded checksum first; a corrupted backup
restores nothing. The current settings file is backed up before it is
overwritten, so a restore can itself be undone.`,
	Example: `  # Restore from the most recent backup
  tnalias backup restore

  # Restore from a specific backup
  tnalias backup restore 20260123T100712

  See Also:
    tnalias backup list   - List available backups
    tnalias backup create - Create a new backup`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRestore,
}

func runRestore(cmd *cobra.Command, args []string) error {
	mgr := manager(cmd)

	var (
		manifest *backup.BackupManifest
		err      error
	)
	if len(args) > 0 {
		manifest, err = mgr.Get(args[0])
	} else {
		manifest, err = mgr.Latest()
	}
	if err != nil {
		if errors.Is(err, backup.ErrNoBackupsFound) {
			return errors.NewUserError(err, "run: tnalias backup list")
		}
		return errors.NewUserError(errors.Wrap(err, "reading backup"), "run: tnalias backup list")
	}

	if len(args) == 0 {
		printStatus(cmd, "Using most recent backup: %s", manifest.ID)
	}
	for _, f := range manifest.Files {
		printStatus(cmd, "  %s", f.OriginalPath)
	}

	if !restoreYes {
		ok, err := prompt.NewSelectorWithIO(cmd.InOrStdin(), cmd.OutOrStdout()).
			Confirm("Overwrite these files with backup " + manifest.ID + "?")
		if err != nil {
			return errors.Wrap(err, "reading confirmation")
		}
		if !ok {
			printStatus(cmd, "Aborted; nothing was restored")
			return nil
		}
	}

	if _, err := mgr.Restore(manifest.ID); err != nil {
		if errors.Is(err, backup.ErrBackupCorrupted) {
			return errors.NewUserError(err, "pick another backup from: tnalias backup list")
		}
		return errors.NewSystemError(errors.Wrap(err, "restoring backup"), "check permissions on the settings directory")
	}

	printStatus(cmd, "✓ Restored backup %s", manifest.ID)
	return nil
}
