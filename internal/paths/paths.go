package paths

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"

	"github.com/thoreinstein/tnalias/internal/errors"
)

// AppName is the directory name used under the XDG roots.
const AppName = "tnalias"

// OS identifiers recognized by SettingsPathFor. They match runtime.GOOS.
const (
	OSWindows = "windows"
	OSDarwin  = "darwin"
	OSLinux   = "linux"
)

// settingsRelPath locates the game's settings file below the application-data root.
var settingsRelPath = filepath.Join("godot", "app_userdata", "Tower Networking Inc", "settings.json")

// appDataRoots maps OS identifiers to their application-data root,
// relative to the user's home directory.
var appDataRoots = map[string]string{
	OSWindows: filepath.Join("AppData", "Roaming"),
	OSDarwin:  filepath.Join("Library", "Application Support"),
	OSLinux:   filepath.Join(".local", "share"),
}

// ErrHomeDirNotFound indicates the user's home directory could not be determined.
var ErrHomeDirNotFound = errors.New("home directory not found")

// DefaultDirPerm is the default permission for newly created directories.
const DefaultDirPerm = 0o755

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", errors.WithDetail(ErrHomeDirNotFound, "$HOME is not set")
	}
	return home, nil
}

// SupportedOS reports whether goos has a known settings location.
func SupportedOS(goos string) bool {
	_, ok := appDataRoots[goos]
	return ok
}

// SupportedOSes returns the recognized OS identifiers.
func SupportedOSes() []string {
	return []string{OSWindows, OSDarwin, OSLinux}
}

// SettingsPathFor returns the settings document location for goos with the
// given home directory. It does not check that the file exists.
func SettingsPathFor(goos, home string) (string, error) {
	root, ok := appDataRoots[goos]
	if !ok {
		return "", errors.WithDetailf(errors.ErrUnsupportedPlatform, "no settings location known for %q", goos)
	}
	return filepath.Join(home, root, settingsRelPath), nil
}

// SettingsPath returns the settings document location for goos using the
// current user's home directory.
func SettingsPath(goos string) (string, error) {
	if !SupportedOS(goos) {
		return SettingsPathFor(goos, "")
	}
	home, err := ResolveHome()
	if err != nil {
		return "", err
	}
	return SettingsPathFor(goos, home)
}

// DefaultSettingsPath returns the settings document location for the host OS.
func DefaultSettingsPath() (string, error) {
	return SettingsPath(runtime.GOOS)
}

// ConfigDir returns the directory holding tnalias's config file.
// Returns: <ConfigHome>/tnalias/
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// LibraryDir returns the local library cache directory.
// Returns: <DataHome>/tnalias/library/
func LibraryDir() string {
	return filepath.Join(xdg.DataHome, AppName, "library")
}

// BackupDir returns the root directory for settings backups.
// Returns: <DataHome>/tnalias/backups/
func BackupDir() string {
	return filepath.Join(xdg.DataHome, AppName, "backups")
}
