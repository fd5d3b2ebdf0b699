package doctor

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/tnalias/internal/config"
)

// ConfigCheck validates the tool's own configuration file.
type ConfigCheck struct {
	fs   afero.Fs
	path string
}

var _ Check = (*ConfigCheck)(nil)

// NewConfigCheck creates a check for the config file at path.
func NewConfigCheck(fs afero.Fs, path string) *ConfigCheck {
	return &ConfigCheck{fs: fs, path: path}
}

// Name returns the unique identifier for this check.
func (c *ConfigCheck) Name() string {
	return "tool-config"
}

// Category returns the grouping for this check.
func (c *ConfigCheck) Category() string {
	return "config"
}

// Run parses the config file over the defaults and validates the result.
func (c *ConfigCheck) Run() *CheckResult {
	result := newResult(c, map[string]any{"path": c.path})

	data, err := afero.ReadFile(c.fs, c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return result.set(SeverityInfo, "no config file; using defaults", "")
		}
		return result.set(SeverityError, fmt.Sprintf("cannot read config file: %v", err), "")
	}

	cfg := config.Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		result.Details["error"] = err.Error()
		return result.set(SeverityError, "config file is not valid YAML",
			"fix the syntax or recreate it with 'tnalias config set'")
	}

	if errs := config.Validate(cfg); len(errs) > 0 {
		problems := make([]string, 0, len(errs))
		for _, e := range errs {
			problems = append(problems, e.Error())
		}
		result.Details["issues"] = problems
		return result.set(SeverityError, fmt.Sprintf("%d invalid setting(s)", len(errs)),
			"correct the values with 'tnalias config set <key> <value>'")
	}

	return result.set(SeverityPass, "config file is valid", "")
}
