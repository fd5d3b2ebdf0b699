// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/thoreinstein/tnalias/internal/errors"
	"github.com/thoreinstein/tnalias/internal/library"
)

// Sentinel errors for prompts.
var (
	ErrNoEntries          = errors.New("no library entries to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Selector handles interactive prompts over a reader and writer.
type Selector struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewSelector creates a new Selector using stdin and stdout.
func NewSelector() *Selector {
	return NewSelectorWithIO(os.Stdin, os.Stdout)
}

// NewSelectorWithIO creates a Selector with custom reader and writer for testing.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{
		reader: bufio.NewReader(r),
		writer: w,
	}
}

// SelectEntry prompts the user to choose a library entry by number.
//
// Returns:
//   - ErrNoEntries if the list is empty
//   - The entry if only one exists (auto-selects without prompting)
//   - The selected entry based on user input
//   - ErrInvalidSelection if the selection is out of range
//   - ErrSelectionCancelled if input is EOF (e.g., Ctrl+D)
func (s *Selector) SelectEntry(entries []library.Entry) (*library.Entry, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	if len(entries) == 1 {
		return &entries[0], nil
	}

	fmt.Fprintln(s.writer, "Library entries:")
	for i, e := range entries {
		fmt.Fprintf(s.writer, "  [%d] %s (%d aliases)\n", i+1, e.Name, e.Aliases)
	}
	fmt.Fprintf(s.writer, "Select [1]: ")

	input, err := s.readLine()
	if err != nil {
		return nil, err
	}

	if input == "" {
		return &entries[0], nil
	}

	selection, err := strconv.Atoi(input)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidSelection, "%q is not a number", input)
	}

	if selection < 1 || selection > len(entries) {
		return nil, errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", selection, len(entries))
	}

	return &entries[selection-1], nil
}

// Confirm asks a yes/no question. An empty answer means yes; EOF means no.
func (s *Selector) Confirm(question string) (bool, error) {
	fmt.Fprintf(s.writer, "%s [Y/n]: ", question)

	input, err := s.readLine()
	if err != nil {
		if errors.Is(err, ErrSelectionCancelled) {
			fmt.Fprintln(s.writer)
			return false, nil
		}
		return false, err
	}

	switch strings.ToLower(input) {
	case "", "y", "ye", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (s *Selector) readLine() (string, error) {
	input, err := s.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && input == "" {
			return "", ErrSelectionCancelled
		}
		if !errors.Is(err, io.EOF) {
			return "", errors.Wrap(err, "reading input")
		}
	}
	return strings.TrimSpace(input), nil
}

// Confirm asks question on stdin/stdout.
func Confirm(question string) (bool, error) {
	return NewSelector().Confirm(question)
}
