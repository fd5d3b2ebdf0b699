package library

import (
	"github.com/spf13/cobra"

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
	Use:   "show <name>",
	Short: "Show the aliases of a library entry",
	Long:  `Show the aliases stored in a library entry. The .json extension may be omitted.`,
	Example: `  # Show an entry
  tnalias library show networking/basics

  See Also:
    tnalias library import - Import an entry`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	cache := cli.FromContext(cmd.Context()).Cache()
	m, err := loadEntry(cache, args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if showJSON {
		return cli.WriteJSON(w, m)
	}
	_, err = w.Write(codec.PlainText(m))
	return errors.Wrap(err, "writing aliases")
}
