package doctor

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/afero"
)

// Target kinds for PathPermissionCheck.
const (
	KindFile      = "file"
	KindDirectory = "directory"
)

// PathTarget names one path the tool reads or writes.
type PathTarget struct {
	// Role describes what the path holds (e.g., "settings", "library").
	Role string

	// Path is the file or directory location.
	Path string

	// Kind is KindFile or KindDirectory.
	Kind string
}

// PathPermissionCheck validates that the tool's files and directories are
// usable and not world-writable.
type PathPermissionCheck struct {
	PermissionFixer

	fs      afero.Fs
	targets []PathTarget
	goos    string
}

var (
	_ Check = (*PathPermissionCheck)(nil)
	_ Fixer = (*PathPermissionCheck)(nil)
)

// NewPathPermissionCheck creates a permission check over targets.
func NewPathPermissionCheck(fs afero.Fs, targets ...PathTarget) *PathPermissionCheck {
	return &PathPermissionCheck{
		PermissionFixer: PermissionFixer{fs: fs},
		fs:              fs,
		targets:         targets,
		goos:            runtime.GOOS,
	}
}

// Name returns the unique identifier for this check.
func (c *PathPermissionCheck) Name() string {
	return "path-permissions"
}

// Category returns the grouping for this check.
func (c *PathPermissionCheck) Category() string {
	return "filesystem"
}

// Run executes the path and permission diagnostic check. Missing paths are
// not issues; the tool creates them on first write.
func (c *PathPermissionCheck) Run() *CheckResult {
	var issues []pathIssue
	var checked int

	for _, t := range c.targets {
		if t.Path == "" {
			continue
		}
		checked++
		switch t.Kind {
		case KindDirectory:
			issues = append(issues, c.checkDirectory(t.Path, t.Role)...)
		default:
			issues = append(issues, c.checkFile(t.Path, t.Role)...)
		}
	}

	c.setIssues(issues)
	return c.buildResult(issues, checked)
}

// pathIssue represents a single path or permission problem.
type pathIssue struct {
	Path        string
	Role        string
	Type        string // "file" or "directory"
	Problem     string
	Severity    Severity
	Permissions string
	Fixable     bool
	FixHint     string
}

func (c *PathPermissionCheck) checkFile(path, role string) []pathIssue {
	info, err := c.fs.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return []pathIssue{{
			Path:     path,
			Role:     role,
			Type:     KindFile,
			Problem:  fmt.Sprintf("cannot stat file: %v", err),
			Severity: SeverityError,
		}}
	}

	if info.IsDir() {
		return []pathIssue{{
			Path:     path,
			Role:     role,
			Type:     KindFile,
			Problem:  "expected file but found directory",
			Severity: SeverityError,
		}}
	}

	f, err := c.fs.Open(path)
	if err != nil {
		return []pathIssue{{
			Path:        path,
			Role:        role,
			Type:        KindFile,
			Problem:     "file is not readable",
			Severity:    SeverityError,
			Permissions: formatPermissions(info.Mode()),
			FixHint:     "chmod go-w " + path,
		}}
	}
	f.Close()

	if c.goos == "windows" {
		return nil
	}
	return c.checkFilePermissions(path, role, info.Mode())
}

func (c *PathPermissionCheck) checkDirectory(path, role string) []pathIssue {
	var issues []pathIssue

	info, err := c.fs.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return []pathIssue{{
			Path:     path,
			Role:     role,
			Type:     KindDirectory,
			Problem:  fmt.Sprintf("cannot stat directory: %v", err),
			Severity: SeverityError,
		}}
	}

	if !info.IsDir() {
		return []pathIssue{{
			Path:     path,
			Role:     role,
			Type:     KindDirectory,
			Problem:  "expected directory but found file",
			Severity: SeverityError,
		}}
	}

	if !c.isDirectoryWritable(path) {
		issues = append(issues, pathIssue{
			Path:        path,
			Role:        role,
			Type:        KindDirectory,
			Problem:     "directory is not writable",
			Severity:    SeverityWarning,
			Permissions: formatPermissions(info.Mode()),
			FixHint:     "chmod u+w " + path,
		})
	}

	if c.goos != "windows" {
		issues = append(issues, c.checkDirectoryPermissions(path, role, info.Mode())...)
	}

	return issues
}

func (c *PathPermissionCheck) checkFilePermissions(path, role string, mode os.FileMode) []pathIssue {
	if mode.Perm()&0o002 == 0 {
		return nil
	}
	return []pathIssue{{
		Path:        path,
		Role:        role,
		Type:        KindFile,
		Problem:     "file is world-writable",
		Severity:    SeverityWarning,
		Permissions: formatPermissions(mode),
		Fixable:     true,
		FixHint:     "chmod go-w " + path,
	}}
}

func (c *PathPermissionCheck) checkDirectoryPermissions(path, role string, mode os.FileMode) []pathIssue {
	if mode.Perm()&0o002 == 0 {
		return nil
	}
	return []pathIssue{{
		Path:        path,
		Role:        role,
		Type:        KindDirectory,
		Problem:     "directory is world-writable",
		Severity:    SeverityWarning,
		Permissions: formatPermissions(mode),
		Fixable:     true,
		FixHint:     "chmod go-w " + path,
	}}
}

// isDirectoryWritable tests writability by creating and removing a temp file.
func (c *PathPermissionCheck) isDirectoryWritable(path string) bool {
	f, err := afero.TempFile(c.fs, path, ".tnalias-doctor-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	_ = c.fs.Remove(name)
	return true
}

func (c *PathPermissionCheck) buildResult(issues []pathIssue, checked int) *CheckResult {
	result := newResult(c, map[string]any{"checked_paths": checked})
	if len(issues) == 0 {
		return result.set(SeverityPass, fmt.Sprintf("all %d paths have valid permissions", checked), "")
	}

	status := SeverityWarning
	lines := make([]string, 0, len(issues))
	paths := make([]map[string]any, 0, len(issues))
	var hints []string
	for _, issue := range issues {
		status = max(status, issue.Severity)
		result.Fixable = result.Fixable || issue.Fixable

		line := fmt.Sprintf("%s %s: %s", issue.Role, issue.Path, issue.Problem)
		m := map[string]any{
			"path":     issue.Path,
			"role":     issue.Role,
			"type":     issue.Type,
			"problem":  issue.Problem,
			"severity": issue.Severity.String(),
		}
		if issue.Permissions != "" {
			line += " (" + issue.Permissions + ")"
			m["permissions"] = issue.Permissions
		}
		if issue.FixHint != "" {
			hints = append(hints, issue.FixHint)
		}
		lines = append(lines, line)
		paths = append(paths, m)
	}

	result.Details["issue_count"] = len(issues)
	result.Details["issues"] = lines
	result.Details["paths"] = paths
	return result.set(status,
		fmt.Sprintf("found %d permission issue(s) across %d paths", len(issues), checked),
		strings.Join(hints, "; "))
}

// formatPermissions returns the permission bits in octal (e.g., "0644").
func formatPermissions(mode os.FileMode) string {
	return fmt.Sprintf("%04o", mode.Perm())
}
