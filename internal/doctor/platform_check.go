package doctor

import (
	"runtime"
	"strings"

	"github.com/thoreinstein/tnalias/internal/paths"
)

// PlatformCheck verifies that the operating system has a known settings
// location.
type PlatformCheck struct {
	goos     string
	override string
}

// Ensure PlatformCheck implements Check interface.
var _ Check = (*PlatformCheck)(nil)

// NewPlatformCheck creates a platform check for the running OS. A non-empty
// override is the settings path configured by the user, which makes an
// unsupported OS usable.
func NewPlatformCheck(override string) *PlatformCheck {
	return &PlatformCheck{goos: runtime.GOOS, override: override}
}

// Name returns the unique identifier for this check.
func (c *PlatformCheck) Name() string {
	return "platform-support"
}

// Category returns the grouping for this check.
func (c *PlatformCheck) Category() string {
	return "platform"
}

// Run executes the platform check and returns its result.
func (c *PlatformCheck) Run() *CheckResult {
	result := newResult(c, map[string]any{
		"os":        c.goos,
		"supported": strings.Join(paths.SupportedOSes(), ", "),
	})

	if !paths.SupportedOS(c.goos) {
		if c.override == "" {
			return result.set(SeverityError, "unsupported platform "+c.goos,
				"set settings_path with 'tnalias config set settings_path <file>' or pass --settings")
		}
		result.Details["settings_path"] = c.override
		return result.set(SeverityInfo, "unsupported platform "+c.goos+"; using configured settings path", "")
	}

	path, err := paths.SettingsPath(c.goos)
	if err != nil {
		return result.set(SeverityError, "cannot resolve settings location: "+err.Error(), "set HOME or pass --settings")
	}
	result.Details["settings_path"] = path
	return result.set(SeverityPass, c.goos+" is supported", "")
}
