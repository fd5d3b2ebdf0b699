package prompt

import (
	"fmt"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/tnalias/internal/errors"
	"github.com/thoreinstein/tnalias/internal/library"
)

// PreviewFunc renders the preview pane for an entry.
type PreviewFunc func(e library.Entry) string

// findFunc matches the fuzzyfinder.Find signature.
type findFunc func(slice any, itemFunc func(int) string, opts ...fuzzyfinder.Option) (int, error)

// FuzzySelectEntry opens a full-screen fuzzy finder over entries with a
// preview pane. Aborting the finder returns ErrSelectionCancelled.
func FuzzySelectEntry(entries []library.Entry, preview PreviewFunc) (*library.Entry, error) {
	return fuzzySelect(fuzzyfinder.Find, entries, preview)
}

func fuzzySelect(find findFunc, entries []library.Entry, preview PreviewFunc) (*library.Entry, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	opts := []fuzzyfinder.Option{fuzzyfinder.WithPromptString("library> ")}
	if preview != nil {
		opts = append(opts, fuzzyfinder.WithPreviewWindow(func(i, _, h int) string {
			if i < 0 || i >= len(entries) {
				return ""
			}
			return TruncateLines(preview(entries[i]), h)
		}))
	}

	idx, err := find(entries, func(i int) string {
		return EntryLabel(entries[i])
	}, opts...)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, ErrSelectionCancelled
		}
		return nil, errors.Wrap(err, "library picker failed")
	}

	return &entries[idx], nil
}

// EntryLabel is the one-line description of an entry shown in pickers.
func EntryLabel(e library.Entry) string {
	if e.Err != nil {
		return e.Name + " (unreadable)"
	}
	return fmt.Sprintf("%s (%d aliases)", e.Name, e.Aliases)
}

// TruncateLines keeps at most n lines of s for a preview pane of height n.
func TruncateLines(s string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n-1], "\n") + "\n…"
}
