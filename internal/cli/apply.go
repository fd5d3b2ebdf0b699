package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/thoreinstein/tnalias/internal/alias"
	"github.com/thoreinstein/tnalias/internal/errors"
	"github.com/thoreinstein/tnalias/internal/settings"
	"github.com/thoreinstein/tnalias/internal/validator"
)

// ErrValidation indicates an alias set failed validation and was not written.
var ErrValidation = errors.New("aliases failed validation")

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// Applier validates, previews and writes an alias set to the settings file.
type Applier struct {
	// Store is the settings document being changed.
	Store *settings.Store

	// Out receives validation reports, the change preview and status lines.
	Out io.Writer

	// Prompt confirms a change. Not used when AssumeYes is set.
	Prompt Confirmer

	// AssumeYes skips confirmation.
	AssumeYes bool

	// Quiet suppresses warnings and the preview when no question is asked.
	Quiet bool
}

// Save validates next and writes it. Errors block the write; warnings are
// reported unless Quiet is set.
func (a *Applier) Save(next *alias.Map) error {
	result := alias.Validate(next)
	if result.HasErrors() || (result.HasWarnings() && !a.Quiet) {
		if err := validator.NewReporter(a.Out, validator.WithWarnings(!a.Quiet)).Report(result); err != nil {
			return err
		}
	}
	if err := result.Err(); err != nil {
		return errors.NewUserError(errors.Mark(err, ErrValidation), "fix the reported problems and try again")
	}

	if err := a.Store.MergeAndSave(next); err != nil {
		return errors.NewSystemError(err, "check that "+a.Store.Path()+" is writable")
	}
	return nil
}

// Apply shows how next differs from current, asks for confirmation unless
// AssumeYes is set, and saves next. It reports whether anything was written.
func (a *Applier) Apply(current, next *alias.Map) (alias.Change, bool, error) {
	change := alias.Diff(current, next)
	if change.Empty() {
		a.status("No changes; aliases are already up to date")
		return change, false, nil
	}

	if !a.Quiet || !a.AssumeYes {
		a.preview(next, change)
	}

	if !a.AssumeYes {
		ok, err := a.Prompt.Confirm("Apply these changes?")
		if err != nil {
			return change, false, errors.Wrap(err, "reading confirmation")
		}
		if !ok {
			a.status("Aborted; nothing was written")
			return change, false, nil
		}
	}

	if err := a.Save(next); err != nil {
		return change, false, err
	}
	a.status("%s Updated %s (%s)", color.GreenString("✓"), a.Store.Path(), change)
	return change, true, nil
}

func (a *Applier) preview(next *alias.Map, change alias.Change) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	for _, name := range change.Added {
		v, _ := next.Get(name)
		fmt.Fprintf(a.Out, "  %s %s = %s\n", green("+"), name, v)
	}
	for _, name := range change.Changed {
		v, _ := next.Get(name)
		fmt.Fprintf(a.Out, "  %s %s = %s\n", yellow("~"), name, v)
	}
	for _, name := range change.Removed {
		fmt.Fprintf(a.Out, "  %s %s\n", red("-"), name)
	}
	fmt.Fprintf(a.Out, "\n%s\n", change)
}

func (a *Applier) status(format string, args ...any) {
	if a.Quiet {
		return
	}
	fmt.Fprintf(a.Out, format+"\n", args...)
}
