package alias

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/tnalias/internal/alias"
	"github.com/thoreinstein/tnalias/internal/cli"
	"github.com/thoreinstein/tnalias/internal/codec"
	"github.com/thoreinstein/tnalias/internal/errors"
)

var (
	importYes   bool
	importMerge bool
)

func init() {
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "Apply without asking for confirmation")
	importCmd.Flags().BoolVar(&importMerge, "merge", false,
		"Keep existing aliases and add or replace the imported ones")
	Cmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import [share-string|-]",
	Short: "Import aliases from a share string",
	Long: `Import aliases from a share string produced by the game or by
'tnalias alias export'.

The imported set replaces the current aliases, as the game does. Use --merge
to keep aliases that the share string does not name. The change is shown
before anything is written. A string that does not decode changes nothing.

With '-' or no argument, the share string is read from stdin. Line breaks
and surrounding spaces are ignored, so wrapped strings paste fine.`,
	Example: `  # Import a share string
  tnalias alias import eyJsbCI6ImxzIn0=

  # Read from a file
  tnalias alias import --yes - < aliases.txt

  # Add to the current aliases instead of replacing them
  tnalias alias import --merge eyJsbCI6ImxzIn0=

  See Also:
    tnalias alias export   - Produce a share string
    tnalias library import - Import a library entry`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	fromStdin := len(args) == 0 || args[0] == "-"
	if fromStdin && !importYes {
		return errors.NewUserError(errors.New("confirmation needs stdin"),
			"pass the share string as an argument, or add --yes when piping it")
	}

	var text string
	if fromStdin {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return errors.Wrap(err, "reading share string from stdin")
		}
		text = string(data)
	} else {
		text = args[0]
	}
	if strings.TrimSpace(text) == "" {
		return errors.NewUserError(errors.New("share string is empty"), "paste the string the game's share button copied")
	}

	incoming, err := codec.Decode(text)
	if err != nil {
		return errors.NewUserError(err, "copy the whole share string and try again")
	}

	app := cli.FromContext(cmd.Context())
	load := app.LoadAliasesForReplace
	if importMerge {
		load = app.LoadAliases
	}
	store, current, err := load()
	if err != nil {
		return err
	}

	next := incoming
	if importMerge {
		next = alias.Merge(current, incoming)
	}

	_, _, err = newApplier(cmd, store, importYes).Apply(current, next)
	return err
}
