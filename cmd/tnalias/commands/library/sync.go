package library

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/tnalias/cmd/tnalias/commands/flags"
	"github.com/thoreinstein/tnalias/internal/catalog"
	"github.com/thoreinstein/tnalias/internal/cli"
	"github.com/thoreinstein/tnalias/internal/errors"
	"github.com/thoreinstein/tnalias/internal/logging"
)

var (
	syncURL     string
	syncWorkers int
	syncTimeout time.Duration
	syncJSON    bool
)

func init() {
	syncCmd.Flags().StringVar(&syncURL, "url", "", "Catalog URL (default: catalog.url from config)")
	syncCmd.Flags().IntVar(&syncWorkers, "workers", 0, "Concurrent downloads (default: catalog.workers from config)")
	syncCmd.Flags().DurationVar(&syncTimeout, "timeout", 0, "Limit for the whole sync (default: catalog.timeout from config)")
	syncCmd.Flags().BoolVar(&syncJSON, "json", false, "Output the sync report as JSON")
	Cmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Download the catalog into the library",
	Long: `Download every entry of the remote catalog into the local library.

Each entry is decoded, whatever encoding the catalog stores it in, and saved
as a plain JSON object. An entry that fails to download or decode is
reported and the rest continue. Press Ctrl-C to stop; entries not yet
started are reported as skipped.`,
	Example: `  # Sync with defaults
  tnalias library sync

  # More parallel downloads, shorter limit
  tnalias library sync --workers 8 --timeout 30s

  # Machine-readable report
  tnalias library sync --json

  See Also:
    tnalias library list - Show downloaded entries`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, _ []string) error {
	if syncWorkers < 0 {
		return errors.NewUserError(errors.New("--workers must be positive"), "pass --workers 1 or more")
	}
	if syncTimeout < 0 {
		return errors.NewUserError(errors.New("--timeout must be positive"), "pass a duration such as --timeout 1m")
	}

	app := cli.FromContext(cmd.Context())
	catalogURL := syncURL
	if catalogURL == "" {
		catalogURL = app.Config.Catalog.URL
	}

	var opts []catalog.Option
	if syncWorkers > 0 {
		opts = append(opts, catalog.WithWorkers(syncWorkers))
	}
	if syncTimeout > 0 {
		opts = append(opts, catalog.WithTimeout(syncTimeout))
	}
	progress := cmd.ErrOrStderr()
	showProgress := !syncJSON && !flags.Quiet() && logging.IsTTY(progress)
	if showProgress {
		opts = append(opts, catalog.WithProgress(progressPrinter(progress)))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger := logging.FromContext(ctx)
	logger.Info("syncing library", "url", logging.MaskURL(catalogURL), "dir", app.LibraryDir())

	report, err := app.Syncer(opts...).Pull(ctx, catalogURL)
	if showProgress {
		fmt.Fprint(progress, "\r\033[K")
	}
	if err != nil {
		return syncError(err)
	}

	w := cmd.OutOrStdout()
	if syncJSON {
		if err := cli.WriteJSON(w, report); err != nil {
			return err
		}
	} else if !flags.Quiet() || !report.OK() {
		writeReport(w, report)
	}

	if !report.OK() {
		return errors.NewSystemError(
			errors.Newf("library sync incomplete: %s", report.Summary()),
			"run 'tnalias library sync' again; entries already synced are kept")
	}
	return nil
}

func syncError(err error) error {
	switch {
	case errors.Is(err, catalog.ErrSyncInProgress):
		return errors.NewUserError(err, "wait for the other sync to finish")
	case errors.Is(err, errors.ErrNetwork):
		return errors.NewSystemError(err, "check your connection and catalog.url")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return errors.NewSystemError(err, "increase --timeout or catalog.timeout")
	default:
		return errors.NewSystemError(err, "run with -v for details")
	}
}

// progressPrinter redraws a single status line on w.
func progressPrinter(w io.Writer) func(catalog.Event) {
	return func(ev catalog.Event) {
		if ev.Type == catalog.EventListed {
			fmt.Fprintf(w, "\r\033[KFound %s", cli.Count(ev.Total, "entry"))
			return
		}
		fmt.Fprintf(w, "\r\033[K[%d/%d] %s", ev.Completed, ev.Total, cli.Truncate(ev.Path, 60))
	}
}

// writeReport prints failures as a table followed by the summary.
func writeReport(w io.Writer, r *catalog.Report) {
	if len(r.Failed) > 0 {
		rows := make([][]string, 0, len(r.Failed))
		for _, f := range r.Failed {
			rows = append(rows, []string{f.Path, f.Kind, cli.Truncate(f.Reason, 70)})
		}
		fmt.Fprintln(w, cli.RenderTable([]string{"PATH", "KIND", "REASON"}, rows, nil))
		fmt.Fprintln(w)
	}

	mark := color.GreenString("✓")
	if !r.OK() {
		mark = color.YellowString("!")
	}
	fmt.Fprintf(w, "%s Synced %s in %s: %s\n",
		mark, cli.Count(r.Listed, "entry"), r.Duration().Round(time.Millisecond), r.Summary())
}
