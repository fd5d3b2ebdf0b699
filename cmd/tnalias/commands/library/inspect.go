package library

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/tnalias/internal/alias"
	"github.com/thoreinstein/tnalias/internal/cli"
	"github.com/thoreinstein/tnalias/internal/codec"
	"github.com/thoreinstein/tnalias/internal/errors"
	"github.com/thoreinstein/tnalias/internal/library"
	"github.com/thoreinstein/tnalias/pkg/fileutil"
)

var inspectJSON bool

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Report how a file decodes",
	Long: `Decode any file the way library entries are decoded and report which
encoding matched:

  direct   a JSON object of alias names to commands
  wrapped  a JSON object whose "plaintext" member holds the aliases
  base64   a share string
  blob     a JSON object whose base64 "content" member holds any of the above

Useful for checking a file before adding it to the catalog.`,
	Example: `  # Check a file
  tnalias library inspect my-aliases.txt

  See Also:
    tnalias alias import - Import a share string`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

// inspectOutput is the JSON output for inspect.
type inspectOutput struct {
	File     string     `json:"file"`
	Encoding string     `json:"encoding"`
	Aliases  *alias.Map `json:"aliases"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	file := args[0]
	app := cli.FromContext(cmd.Context())

	raw, err := fileutil.ReadFileWithLimit(app.Fs, file)
	if err != nil {
		return errors.NewUserError(errors.Wrapf(err, "reading %s", file), "check the file path")
	}

	m, strategy, err := library.NormalizeWithStrategy(raw, file)
	if err != nil {
		return errors.NewUserError(err, "the file must hold aliases in one of the encodings listed in 'tnalias library inspect --help'")
	}

	w := cmd.OutOrStdout()
	if inspectJSON {
		return cli.WriteJSON(w, inspectOutput{File: file, Encoding: strategy.String(), Aliases: m})
	}

	fmt.Fprintf(w, "File:     %s\n", file)
	fmt.Fprintf(w, "Encoding: %s\n", strategy)
	fmt.Fprintf(w, "Aliases:  %d\n\n", m.Len())
	_, err = w.Write(codec.PlainText(m))
	return errors.Wrap(err, "writing aliases")
}
