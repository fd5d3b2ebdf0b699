package backup

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/tnalias/internal/backup"
	"github.com/thoreinstein/tnalias/internal/cli"
	"github.com/thoreinstein/tnalias/internal/errors"
)

func init() {
	Cmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a manual backup",
	Long: `Create a backup of the settings file now.

Backups are created automatically before tnalias changes the settings file.
This command creates an additional one, for example before editing the file
by hand.`,
	Example: `  # Back up the settings file
  tnalias backup create

  See Also:
    tnalias backup list    - List available backups
    tnalias backup restore - Restore from a backup`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, _ []string) error {
	app := cli.FromContext(cmd.Context())
	settingsPath, err := app.SettingsPath()
	if err != nil {
		return errors.NewUserError(err, "pass --settings or run: tnalias config set settings_path <path>")
	}

	mgr := app.Backups()
	manifest, err := mgr.Backup("manual", settingsPath)
	if err != nil {
		if errors.Is(err, backup.ErrNoBackupsFound) {
			return errors.NewUserError(errors.Wrapf(err, "nothing to back up at %s", settingsPath),
				"start the game once so it creates its settings file")
		}
		return errors.NewSystemError(errors.Wrap(err, "creating backup"), "check permissions on "+mgr.Dir())
	}

	printStatus(cmd, "✓ Created backup %s (%s)", manifest.ID, cli.Count(len(manifest.Files), "file"))
	return nil
}
