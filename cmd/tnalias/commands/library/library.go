// Package library provides CLI commands for the local library of curated
// alias sets.
package library

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/tnalias/cmd/tnalias/commands/flags"
	"github.com/thoreinstein/tnalias/internal/alias"
	"github.com/thoreinstein/tnalias/internal/cli"
	"github.com/thoreinstein/tnalias/internal/errors"
	"github.com/thoreinstein/tnalias/internal/library"
)

// Cmd is the root library command.
var Cmd = &cobra.Command{
	Use:     "library",
	Aliases: []string{"lib"},
	Short:   "Browse and import curated alias sets",
	Long: `Browse and import curated alias sets.

'tnalias library sync' downloads the community catalog into a local library.
Entries can then be listed, shown and imported into the game without network
access.`,
	Example: `  # Download the catalog
  tnalias library sync

  # List downloaded entries
  tnalias library list

  # Pick an entry and import it
  tnalias library import

  See Also:
    tnalias alias - Change aliases directly`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// loadEntry returns the aliases stored under name in the library cache.
func loadEntry(cache *library.Cache, name string) (*alias.Map, error) {
	m, err := cache.Load(name)
	if err == nil {
		return m, nil
	}
	switch {
	case errors.Is(err, library.ErrEntryNotFound), errors.Is(err, library.ErrUnsafePath):
		return nil, errors.NewUserError(err, "run: tnalias library list")
	case errors.Is(err, errors.ErrUnrecognizedLibraryFormat):
		return nil, errors.NewUserError(err, "run 'tnalias library sync' to replace the file")
	default:
		return nil, errors.NewSystemError(err, "check permissions on "+cache.Dir())
	}
}

// listEntries returns the cache entries, failing when there are none.
func listEntries(cmd *cobra.Command) (*library.Cache, []library.Entry, error) {
	cache := cli.FromContext(cmd.Context()).Cache()
	entries, err := cache.List()
	if err != nil {
		return nil, nil, errors.NewSystemError(err, "check permissions on "+cache.Dir())
	}
	return cache, entries, nil
}

// printStatus writes a status line unless --quiet is set.
func printStatus(cmd *cobra.Command, format string, args ...any) {
	if flags.Quiet() {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
}
