package alias

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/tnalias/internal/alias"
	"github.com/thoreinstein/tnalias/internal/errors"
)

func init() {
	Cmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:     "remove <name>...",
	Aliases: []string{"rm"},
	Short:   "Delete aliases",
	Long: `Delete one or more aliases.

If any name does not exist nothing is deleted.`,
	Example: `  # Delete one alias
  tnalias alias remove scan

  # Delete several
  tnalias alias rm scan ll

  See Also:
    tnalias alias set - Add an alias`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	store, m, err := loadAliases(cmd)
	if err != nil {
		return err
	}

	var missing []string
	for _, name := range args {
		if !m.Delete(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return errors.NewUserError(
			errors.Wrapf(alias.ErrNotFound, "%s", strings.Join(missing, ", ")),
			"run: tnalias alias list")
	}

	if err := newApplier(cmd, store, true).Save(m); err != nil {
		return err
	}
	printStatus(cmd, "✓ Removed %s", strings.Join(args, ", "))
	return nil
}
