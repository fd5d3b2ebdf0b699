package alias

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/tnalias/internal/cli"
	"github.com/thoreinstein/tnalias/internal/codec"
	"github.com/thoreinstein/tnalias/internal/errors"
	"github.com/thoreinstein/tnalias/pkg/fileutil"
)

var (
	exportFormat string
	exportOutput string
)

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", string(codec.FormatShare),
		"Output format: "+formatList())
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "",
		"Write to a file instead of stdout")
	Cmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export aliases as a share string or file",
	Long: `Export the alias set.

The default share format is the base64 string the game's share button
produces; paste it into the game or pass it to 'tnalias alias import'. The
json, yaml and toml formats are meant for reading and version control.`,
	Example: `  # Share string
  tnalias alias export

  # YAML file
  tnalias alias export --format yaml -o aliases.yaml

  See Also:
    tnalias alias import - Import a share string`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func formatList() string {
	names := make([]string, 0, len(codec.Formats()))
	for _, f := range codec.Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

func runExport(cmd *cobra.Command, _ []string) error {
	f, err := codec.ParseFormat(exportFormat)
	if err != nil {
		return errors.NewUserError(err, "use --format "+formatList())
	}

	_, m, err := loadAliases(cmd)
	if err != nil {
		return err
	}

	data, err := codec.Marshal(m, f)
	if err != nil {
		return errors.Wrapf(err, "encoding aliases as %s", f)
	}

	if exportOutput == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return errors.Wrap(err, "writing aliases")
	}

	app := cli.FromContext(cmd.Context())
	if err := fileutil.AtomicWriteFile(app.Fs, exportOutput, data, 0o644); err != nil {
		return errors.NewSystemError(errors.Wrapf(err, "writing %s", exportOutput), "check that the directory exists and is writable")
	}
	printStatus(cmd, "✓ Exported %s to %s", cli.Count(m.Len(), "alias"), exportOutput)
	if f == codec.FormatShare && m.Len() == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: the alias set is empty")
	}
	return nil
}
