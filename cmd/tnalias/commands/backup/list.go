package backup

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/tnalias/internal/backup"
	"github.com/thoreinstein/tnalias/internal/cli"
	"github.com/thoreinstein/tnalias/internal/errors"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List available backups",
	Long:    `List all settings backups, most recent first.`,
	Example: `  # List all backups
  tnalias backup list

  # Output as JSON
  tnalias backup list --json

  See Also:
    tnalias backup restore - Restore from a backup
    tnalias backup create  - Create a new backup`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// infoOutput represents a single backup in JSON output.
type infoOutput struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Reason      string    `json:"reason"`
	FileCount   int       `json:"file_count"`
	Size        int64     `json:"size"`
	ToolVersion string    `json:"tnalias_version"`
}

// now is replaced in tests.
var now = time.Now

func runList(cmd *cobra.Command, _ []string) error {
	mgr := manager(cmd)
	manifests, err := mgr.List()
	if err != nil && !errors.Is(err, backup.ErrNoBackupsFound) {
		return errors.NewSystemError(errors.Wrap(err, "listing backups"), "check permissions on "+mgr.Dir())
	}

	w := cmd.OutOrStdout()
	if listJSON {
		output := make([]infoOutput, len(manifests))
		for i, m := range manifests {
			output[i] = infoOutput{
				ID:          m.ID,
				CreatedAt:   m.CreatedAt,
				Reason:      m.Reason,
				FileCount:   len(m.Files),
				Size:        m.Size(),
				ToolVersion: m.ToolVersion,
			}
		}
		return cli.WriteJSON(w, output)
	}

	if len(manifests) == 0 {
		fmt.Fprintln(w, "No backups available")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Backups are created automatically before tnalias changes the settings file.")
		fmt.Fprintln(w, "You can also create a backup manually with: tnalias backup create")
		return nil
	}

	t := now()
	rows := make([][]string, 0, len(manifests))
	for _, m := range manifests {
		rows = append(rows, []string{
			m.ID,
			m.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			cli.Ago(m.CreatedAt, t),
			strconv.Itoa(len(m.Files)),
			cli.Bytes(m.Size()),
			m.Reason,
		})
	}
	fmt.Fprintln(w, cli.RenderTable(
		[]string{"ID", "CREATED", "AGE", "FILES", "SIZE", "REASON"},
		rows,
		[]cli.Alignment{cli.AlignLeft, cli.AlignLeft, cli.AlignLeft, cli.AlignRight, cli.AlignRight},
	))
	printStatus(cmd, "\n%s in %s", cli.Count(len(manifests), "backup"), mgr.Dir())
	return nil
}
