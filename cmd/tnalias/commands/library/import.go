package library

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/tnalias/cmd/tnalias/commands/flags"
	"github.com/thoreinstein/tnalias/internal/alias"
	"github.com/thoreinstein/tnalias/internal/cli"
	"github.com/thoreinstein/tnalias/internal/cli/prompt"
	"github.com/thoreinstein/tnalias/internal/codec"
	"github.com/thoreinstein/tnalias/internal/errors"
	"github.com/thoreinstein/tnalias/internal/library"
	"github.com/thoreinstein/tnalias/internal/logging"
)

var (
	importYes   bool
	importMerge bool
	importPlain bool
)

func init() {
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "Apply without asking for confirmation")
	importCmd.Flags().BoolVar(&importMerge, "merge", false,
		"Keep existing aliases and add or replace the entry's aliases")
	importCmd.Flags().BoolVar(&importPlain, "plain", false,
		"Use a numbered list instead of the interactive finder")
	Cmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import [name]",
	Short: "Import a library entry into the game",
	Long: `Import the aliases of a library entry into the game's settings file.

Without a name, pick the entry interactively. On a terminal a fuzzy finder
with a preview pane opens; elsewhere, or with --plain, a numbered list is
shown.

The entry replaces the current aliases, as the game does. Use --merge to keep
aliases the entry does not name. The change is shown before anything is
written.`,
	Example: `  # Pick an entry
  tnalias library import

  # Import a known entry without asking
  tnalias library import networking/basics --yes

  # Add an entry's aliases to your own
  tnalias library import networking/basics --merge

  See Also:
    tnalias library list - List entries
    tnalias alias import - Import a share string`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

// Replaced in tests.
var (
	fuzzySelect = prompt.FuzzySelectEntry
	interactive = logging.Interactive
)

func runImport(cmd *cobra.Command, args []string) error {
	app := cli.FromContext(cmd.Context())
	selector := prompt.NewSelectorWithIO(cmd.InOrStdin(), cmd.OutOrStdout())

	var (
		name     string
		incoming *alias.Map
		err      error
	)
	if len(args) == 1 {
		name = args[0]
		incoming, err = loadEntry(app.Cache(), name)
	} else {
		name, incoming, err = pickEntry(cmd, selector)
	}
	if err != nil {
		return err
	}

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

	printStatus(cmd, "Importing %s (%s)", name, cli.Count(incoming.Len(), "alias"))
	_, _, err = (&cli.Applier{
		Store:     store,
		Out:       cmd.OutOrStdout(),
		Prompt:    selector,
		AssumeYes: importYes,
		Quiet:     flags.Quiet(),
	}).Apply(current, next)
	return err
}

// pickEntry lets the user choose a readable cache entry.
func pickEntry(cmd *cobra.Command, selector *prompt.Selector) (string, *alias.Map, error) {
	cache, entries, err := listEntries(cmd)
	if err != nil {
		return "", nil, err
	}

	readable := make([]library.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Err == nil {
			readable = append(readable, e)
		}
	}
	if len(readable) == 0 {
		return "", nil, errors.NewUserError(prompt.ErrNoEntries, "run: tnalias library sync")
	}

	var picked *library.Entry
	if !importPlain && interactive() {
		picked, err = fuzzySelect(readable, func(e library.Entry) string {
			m, err := cache.Load(e.Name)
			if err != nil {
				return err.Error()
			}
			return string(codec.PlainText(m))
		})
	} else {
		picked, err = selector.SelectEntry(readable)
	}
	if err != nil {
		if errors.Is(err, prompt.ErrSelectionCancelled) {
			return "", nil, errors.NewUserError(err, "")
		}
		return "", nil, errors.NewUserError(err, "run 'tnalias library list' and pass the entry name")
	}

	m, err := loadEntry(cache, picked.Name)
	return picked.Name, m, err
}
