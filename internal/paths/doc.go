// Package paths provides cross-platform path resolution for tnalias.
//
// It answers two questions: where the game keeps its settings document, and
// where tnalias keeps its own files.
//
// # Settings Document
//
// Tower Networking Inc is a Godot game. Godot stores per-user data under the
// platform's application-data root:
//
//	| OS      | Application-data root                 |
//	|---------|---------------------------------------|
//	| windows | ~/AppData/Roaming                     |
//	| darwin  | ~/Library/Application Support         |
//	| linux   | ~/.local/share                        |
//
// followed by godot/app_userdata/Tower Networking Inc/settings.json.
// [SettingsPathFor] is a pure function of the OS identifier and home
// directory; [SettingsPath] resolves the home directory for you. Any other
// OS identifier fails with [errors.ErrUnsupportedPlatform].
//
// # Tool Directories
//
// tnalias's own files follow the XDG Base Directory Specification via
// github.com/adrg/xdg:
//
//	paths.ConfigDir()  // <ConfigHome>/tnalias/
//	paths.LibraryDir() // <DataHome>/tnalias/library/
//	paths.BackupDir()  // <DataHome>/tnalias/backups/
package paths
