package library

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/tnalias/internal/cli"
	"github.com/thoreinstein/tnalias/internal/library"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List downloaded library entries",
	Long: `List the entries in the local library with their alias count, size and
age. Entries that no longer decode are flagged.`,
	Example: `  # List entries
  tnalias library list

  # Output as JSON
  tnalias library list --json

  See Also:
    tnalias library show   - Show one entry
    tnalias library import - Import an entry`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// entryOutput is one entry in JSON output.
type entryOutput struct {
	library.Entry
	Encoding string `json:"encoding,omitempty"`
	Error    string `json:"error,omitempty"`
}

// now is replaced in tests.
var now = time.Now

func runList(cmd *cobra.Command, _ []string) error {
	cache, entries, err := listEntries(cmd)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if listJSON {
		out := make([]entryOutput, 0, len(entries))
		for _, e := range entries {
			o := entryOutput{Entry: e}
			if e.Err != nil {
				o.Error = e.Err.Error()
			} else {
				o.Encoding = e.Strategy.String()
			}
			out = append(out, o)
		}
		return cli.WriteJSON(w, out)
	}

	if len(entries) == 0 {
		fmt.Fprintf(w, "Library at %s is empty\n", cache.Dir())
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Download the catalog with: tnalias library sync")
		return nil
	}

	t := now()
	broken := 0
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		count := strconv.Itoa(e.Aliases)
		if e.Err != nil {
			count = "unreadable"
			broken++
		}
		rows = append(rows, []string{e.Name, count, cli.Bytes(e.Size), cli.Ago(e.ModTime, t)})
	}
	fmt.Fprintln(w, cli.RenderTable(
		[]string{"NAME", "ALIASES", "SIZE", "UPDATED"},
		rows,
		[]cli.Alignment{cli.AlignLeft, cli.AlignRight, cli.AlignRight, cli.AlignLeft},
	))

	printStatus(cmd, "\n%s in %s", cli.Count(len(entries), "entry"), cache.Dir())
	if broken > 0 {
		printStatus(cmd, "%s could not be read; run 'tnalias library sync' to replace them",
			cli.Count(broken, "entry"))
	}
	return nil
}
