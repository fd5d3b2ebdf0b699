package doctor

import (
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/thoreinstein/tnalias/internal/library"
)

// LibraryCheck inspects the library cache directory and reports entries
// that no longer decode.
type LibraryCheck struct {
	fs  afero.Fs
	dir string
}

var _ Check = (*LibraryCheck)(nil)

// NewLibraryCheck creates a check for the library cache at dir.
func NewLibraryCheck(fs afero.Fs, dir string) *LibraryCheck {
	return &LibraryCheck{fs: fs, dir: dir}
}

// Name returns the unique identifier for this check.
func (c *LibraryCheck) Name() string {
	return "library-cache"
}

// Category returns the grouping for this check.
func (c *LibraryCheck) Category() string {
	return "library"
}

// Run executes the library cache diagnostic check.
func (c *LibraryCheck) Run() *CheckResult {
	result := newResult(c, map[string]any{"path": c.dir})
	const syncHint = "run 'tnalias library sync'"

	info, err := c.fs.Stat(c.dir)
	switch {
	case os.IsNotExist(err):
		return result.set(SeverityInfo, "library cache is empty", syncHint)
	case err != nil:
		return result.set(SeverityError, fmt.Sprintf("cannot stat library cache: %v", err), "")
	case !info.IsDir():
		return result.set(SeverityError, "library cache path is not a directory",
			"remove the file or set library_dir to another location")
	}

	entries, err := library.NewCache(c.dir, library.WithCacheFs(c.fs)).List()
	if err != nil {
		return result.set(SeverityError, fmt.Sprintf("cannot list library cache: %v", err), "")
	}
	result.Details["entries"] = len(entries)
	if len(entries) == 0 {
		return result.set(SeverityInfo, "library cache is empty", syncHint)
	}

	var broken, legacy []string
	for _, e := range entries {
		switch {
		case e.Err != nil:
			broken = append(broken, e.Name)
		case e.Strategy != library.StrategyDirect:
			legacy = append(legacy, e.Name)
		}
	}

	if len(broken) > 0 {
		result.Details["broken"] = broken
		return result.set(SeverityWarning,
			fmt.Sprintf("%d of %d entries do not decode", len(broken), len(entries)),
			syncHint+" to refresh the cache")
	}

	msg := fmt.Sprintf("%d entries", len(entries))
	if len(legacy) > 0 {
		result.Details["legacy"] = legacy
		msg += fmt.Sprintf(", %d in a legacy encoding", len(legacy))
	}
	return result.set(SeverityPass, msg, "")
}
