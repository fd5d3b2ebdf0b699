package doctor

import (
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/thoreinstein/tnalias/internal/alias"
	"github.com/thoreinstein/tnalias/internal/errors"
	"github.com/thoreinstein/tnalias/internal/settings"
	"github.com/thoreinstein/tnalias/pkg/fileutil"
)

// SettingsCheck inspects the game's settings document: presence, JSON
// syntax, the shape of the alias member and the aliases themselves.
type SettingsCheck struct {
	fs   afero.Fs
	path string
}

var _ Check = (*SettingsCheck)(nil)

// NewSettingsCheck creates a check for the settings document at path.
func NewSettingsCheck(fs afero.Fs, path string) *SettingsCheck {
	return &SettingsCheck{fs: fs, path: path}
}

// Name returns the unique identifier for this check.
func (c *SettingsCheck) Name() string {
	return "settings-file"
}

// Category returns the grouping for this check.
func (c *SettingsCheck) Category() string {
	return "settings"
}

// Run executes the settings diagnostic check.
func (c *SettingsCheck) Run() *CheckResult {
	result := newResult(c, map[string]any{"path": c.path})

	data, err := fileutil.ReadFileMax(c.fs, c.path, settings.MaxDocumentSize)
	if err != nil {
		if os.IsNotExist(err) {
			return result.set(SeverityWarning, "settings file not found",
				"launch the game once so it creates its settings, or pass --settings")
		}
		if errors.Is(err, fileutil.ErrFileTooLarge) {
			return result.set(SeverityError,
				fmt.Sprintf("settings file is larger than %d MiB", settings.MaxDocumentSize>>20),
				"restore a previous copy with 'tnalias backup restore'")
		}
		return result.set(SeverityError, fmt.Sprintf("cannot read settings file: %v", err),
			"check the file's permissions")
	}
	result.Details["size"] = len(data)

	doc, err := settings.ParseDocument(data)
	if err != nil {
		result.Details["error"] = err.Error()
		return result.set(SeverityError,
			"settings file is not a JSON object; the next write would start from an empty document",
			"restore a previous copy with 'tnalias backup restore'")
	}
	result.Details["keys"] = doc.Len()

	if !doc.HasAliases() {
		return result.set(SeverityInfo, "settings file has no aliases yet", "")
	}

	m, err := doc.Aliases()
	if err != nil {
		result.Details["error"] = err.Error()
		return result.set(SeverityError, fmt.Sprintf("%s is not an object of strings", settings.AliasKey),
			"replace the aliases with 'tnalias alias import' or restore a backup")
	}
	result.Details["aliases"] = m.Len()

	v := alias.Validate(m)
	if len(v.Issues) == 0 {
		return result.set(SeverityPass, fmt.Sprintf("%d alias(es) defined", m.Len()), "")
	}

	problems := make([]string, 0, len(v.Issues))
	for _, issue := range v.Issues {
		problems = append(problems, issue.Error())
	}
	result.Details["issues"] = problems

	status := SeverityWarning
	if v.HasErrors() {
		status = SeverityError
	}
	return result.set(status, fmt.Sprintf("%d alias(es), %d issue(s)", m.Len(), len(v.Issues)),
		"review the aliases with 'tnalias alias edit'")
}
