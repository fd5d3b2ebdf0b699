package alias

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/tnalias/internal/cli"
)

var searchJSON bool

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find aliases by name or command",
	Long: `Find aliases whose name or commands contain the query.

Matching ignores case.`,
	Example: `  # Aliases that use nmap
  tnalias alias search nmap

  See Also:
    tnalias alias list - List all aliases`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	_, m, err := loadAliases(cmd)
	if err != nil {
		return err
	}

	found := m.Filter(args[0])
	w := cmd.OutOrStdout()
	if searchJSON {
		return cli.WriteJSON(w, found)
	}

	if found.Len() == 0 {
		fmt.Fprintf(w, "No aliases match %q\n", args[0])
		return nil
	}
	fmt.Fprintln(w, aliasTable(found))
	printStatus(cmd, "\n%s of %d", cli.Count(found.Len(), "match"), m.Len())
	return nil
}
