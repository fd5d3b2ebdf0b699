package commands

import (
	"fmt"
	"runtime"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/tnalias/cmd"
	"github.com/thoreinstein/tnalias/internal/paths"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version, commit, and build date of tnalias, and the platforms whose settings location it knows.`,
	Args:  cobra.NoArgs,
	Run: func(c *cobra.Command, _ []string) {
		w := c.OutOrStdout()
		fmt.Fprintf(w, "tnalias version %s\n", cmd.Version)
		fmt.Fprintf(w, "  commit:    %s\n", cmd.Commit)
		fmt.Fprintf(w, "  built:     %s\n", cmd.Date)
		fmt.Fprintf(w, "  go:        %s\n", runtime.Version())
		fmt.Fprintln(w, "  platforms:")

		tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
		for _, goos := range paths.SupportedOSes() {
			status := "supported"
			if goos == runtime.GOOS {
				status += " (current)"
			}
			fmt.Fprintf(tw, "    %s:\t%s\n", goos, status)
		}
		tw.Flush()
	},
}
