package alias

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/tnalias/internal/cli"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List aliases",
	Long:    `List every alias in the settings file, in the order the game stores them.`,
	Example: `  # List aliases
  tnalias alias list

  # Output as JSON
  tnalias alias list --json

  See Also:
    tnalias alias show   - Show one alias
    tnalias alias search - Filter aliases`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	_, m, err := loadAliases(cmd)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if listJSON {
		return cli.WriteJSON(w, m)
	}

	if m.Len() == 0 {
		fmt.Fprintln(w, "No aliases defined")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Add one with: tnalias alias set <name> <command>...")
		return nil
	}

	fmt.Fprintln(w, aliasTable(m))
	printStatus(cmd, "\n%s", cli.Count(m.Len(), "alias"))
	return nil
}
