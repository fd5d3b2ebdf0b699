package alias

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/tnalias/internal/alias"
	"github.com/thoreinstein/tnalias/internal/cli"
	"github.com/thoreinstein/tnalias/internal/codec"
	"github.com/thoreinstein/tnalias/internal/errors"
)

var showJSON bool

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show aliases as text",
	Long: `Show the alias set as an indented JSON object, the same view the game's
alias window offers.

With a name, show that alias's commands one per line.`,
	Example: `  # Show all aliases
  tnalias alias show

  # Show one alias
  tnalias alias show scan

  See Also:
    tnalias alias list - Table view`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

// showOutput is the JSON output for a single alias.
type showOutput struct {
	Name     string   `json:"name"`
	Value    string   `json:"value"`
	Commands []string `json:"commands"`
}

func runShow(cmd *cobra.Command, args []string) error {
	_, m, err := loadAliases(cmd)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(args) == 0 {
		if showJSON {
			return cli.WriteJSON(w, m)
		}
		_, err := w.Write(codec.PlainText(m))
		return errors.Wrap(err, "writing aliases")
	}

	name := args[0]
	value, ok := m.Get(name)
	if !ok {
		return errors.NewUserError(errors.Wrapf(alias.ErrNotFound, "%q", name), "run: tnalias alias list")
	}

	commands := alias.SplitCommands(value)
	if showJSON {
		return cli.WriteJSON(w, showOutput{Name: name, Value: value, Commands: commands})
	}
	for _, c := range commands {
		fmt.Fprintln(w, c)
	}
	return nil
}
