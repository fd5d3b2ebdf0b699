package doctor

import (
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/thoreinstein/tnalias/internal/errors"
)

// Fixer is implemented by checks that can repair what they found. CanFix and
// Fix are only meaningful after Run.
type Fixer interface {
	CanFix() bool
	Fix() []FixResult
}

// FixResult is the outcome of one repair attempt.
type FixResult struct {
	Path        string `json:"path"`
	Fixed       bool   `json:"fixed"`
	Description string `json:"description"`
	Error       error  `json:"-"`
}

// writeByOthers is the group and world write bits that Fix removes. Owner
// bits are left alone so a private 0600 settings file stays private.
const writeByOthers os.FileMode = 0o022

// PermissionFixer removes group and world write access from the paths a
// PathPermissionCheck flagged.
type PermissionFixer struct {
	fs     afero.Fs
	issues []pathIssue
}

func (f *PermissionFixer) setIssues(issues []pathIssue) {
	f.issues = issues
}

// fixable returns the issues a chmod can resolve.
func (f *PermissionFixer) fixable() []pathIssue {
	var out []pathIssue
	for _, issue := range f.issues {
		if issue.Fixable {
			out = append(out, issue)
		}
	}
	return out
}

// CountFixable returns how many flagged paths Fix would touch.
func (f *PermissionFixer) CountFixable() int {
	return len(f.fixable())
}

func (f *PermissionFixer) CanFix() bool {
	return f.CountFixable() > 0
}

// Fix chmods every fixable path. One failure does not stop the others.
func (f *PermissionFixer) Fix() []FixResult {
	issues := f.fixable()
	results := make([]FixResult, 0, len(issues))
	for _, issue := range issues {
		results = append(results, f.tighten(issue.Path))
	}
	return results
}

func (f *PermissionFixer) tighten(path string) FixResult {
	info, err := f.fs.Stat(path)
	if err != nil {
		return FixResult{
			Path:        path,
			Description: fmt.Sprintf("cannot stat: %v", err),
			Error:       errors.Wrapf(err, "stat %s", path),
		}
	}

	perm := info.Mode().Perm() &^ writeByOthers
	if err := f.fs.Chmod(path, perm); err != nil {
		return FixResult{
			Path:        path,
			Description: fmt.Sprintf("failed to chmod %04o: %v", perm, err),
			Error:       errors.Wrapf(err, "chmod %04o %s", perm, path),
		}
	}
	return FixResult{Path: path, Fixed: true, Description: fmt.Sprintf("chmod %04o", perm)}
}
