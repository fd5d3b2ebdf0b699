package alias

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/tnalias/internal/editor"
	"github.com/thoreinstein/tnalias/internal/errors"
)

var editYes bool

func init() {
	editCmd.Flags().BoolVarP(&editYes, "yes", "y", false, "Apply without asking for confirmation")
	Cmd.AddCommand(editCmd)
}

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit all aliases in your editor",
	Long: `Open the alias set as YAML in $VISUAL or $EDITOR.

Each alias is one key. Its value is either a string of commands separated by
';' or a list of commands. After the editor exits the file is checked and the
change is shown before anything is written. Deleting an alias from the file
deletes it from the game.`,
	Example: `  # Edit with the default editor
  tnalias alias edit

  # Edit with VS Code
  EDITOR="code --wait" tnalias alias edit

  See Also:
    tnalias alias set - Change one alias`,
	Args: cobra.NoArgs,
	RunE: runEdit,
}

// editAliases is replaced in tests.
var editAliases = editor.EditAliases

func runEdit(cmd *cobra.Command, _ []string) error {
	store, current, err := loadAliases(cmd)
	if err != nil {
		return err
	}

	next, err := editAliases(current)
	if err != nil {
		if errors.Is(err, editor.ErrInvalidDocument) {
			return errors.NewUserError(err, "run 'tnalias alias edit' again and fix the reported line")
		}
		return errors.NewSystemError(err, "set $EDITOR to an installed editor")
	}

	_, _, err = newApplier(cmd, store, editYes).Apply(current, next)
	return err
}
