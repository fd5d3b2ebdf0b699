package alias

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/tnalias/internal/alias"
	"github.com/thoreinstein/tnalias/internal/errors"
)

func init() {
	Cmd.AddCommand(setCmd)
}

var setCmd = &cobra.Command{
	Use:     "set <name> <command>...",
	Aliases: []string{"add"},
	Short:   "Add or replace an alias",
	Long: `Add an alias, or replace the commands of an existing one.

Each remaining argument is one command. An argument may also contain several
commands separated by ';'. Empty commands are dropped. A replaced alias keeps
its position in the list.`,
	Example: `  # One command
  tnalias alias set ll "ls -l"

  # Several commands
  tnalias alias set scan "nmap 10.0.0.0/24" "netstat"
  tnalias alias set scan "nmap 10.0.0.0/24;netstat"

  See Also:
    tnalias alias remove - Delete an alias
    tnalias alias edit   - Edit all aliases in $EDITOR`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSet,
}

func runSet(cmd *cobra.Command, args []string) error {
	store, m, err := loadAliases(cmd)
	if err != nil {
		return err
	}

	name := args[0]
	commands := alias.JoinCommands(args[1:]...)
	if commands == "" {
		return errors.NewUserError(errors.Newf("alias %q has no commands", name), "pass at least one non-empty command")
	}

	_, existed := m.Get(name)
	m.Set(name, commands)

	if err := newApplier(cmd, store, true).Save(m); err != nil {
		return err
	}

	verb := "Added"
	if existed {
		verb = "Updated"
	}
	printStatus(cmd, "✓ %s alias %s = %s", verb, name, commands)
	return nil
}
