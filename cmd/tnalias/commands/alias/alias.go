// Package alias provides CLI commands for viewing and changing the aliases
// in the game's settings file.
package alias

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/tnalias/cmd/tnalias/commands/flags"
	"github.com/thoreinstein/tnalias/internal/alias"
	"github.com/thoreinstein/tnalias/internal/cli"
	"github.com/thoreinstein/tnalias/internal/cli/prompt"
	"github.com/thoreinstein/tnalias/internal/settings"
)

// Cmd is the root alias command.
var Cmd = &cobra.Command{
	Use:     "alias",
	Aliases: []string{"aliases"},
	Short:   "View and change command aliases",
	Long: `View and change the command aliases stored in the game's settings file.

An alias maps a name to one or more commands separated by ';'. Only the
cmd_alias entry of the settings file is changed; every other setting is kept
as it is.`,
	Example: `  # List aliases
  tnalias alias list

  # Add an alias that runs two commands
  tnalias alias set scan "nmap 10.0.0.0/24" "netstat"

  # Share aliases with a friend
  tnalias alias export

  # Import a share string
  tnalias alias import BASE64STRING

  See Also:
    tnalias library - Curated alias sets`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// loadAliases returns the store and the aliases it currently holds.
func loadAliases(cmd *cobra.Command) (*settings.Store, *alias.Map, error) {
	return cli.FromContext(cmd.Context()).LoadAliases()
}

// newApplier builds an Applier writing status to the command's output and
// reading confirmation from its input.
func newApplier(cmd *cobra.Command, store *settings.Store, assumeYes bool) *cli.Applier {
	return &cli.Applier{
		Store:     store,
		Out:       cmd.OutOrStdout(),
		Prompt:    prompt.NewSelectorWithIO(cmd.InOrStdin(), cmd.OutOrStdout()),
		AssumeYes: assumeYes,
		Quiet:     flags.Quiet(),
	}
}

// aliasTable renders m with one command per line.
func aliasTable(m *alias.Map) string {
	rows := make([][]string, 0, m.Len())
	for _, p := range m.Pairs() {
		rows = append(rows, []string{p.Name, strings.Join(alias.SplitCommands(p.Commands), "\n")})
	}
	return cli.RenderTable([]string{"NAME", "COMMANDS"}, rows, nil)
}

// printStatus writes a status line unless --quiet is set.
func printStatus(cmd *cobra.Command, format string, args ...any) {
	if flags.Quiet() {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
}
