// Package backup keeps copies of the game's settings file so a bad import
// can be undone.
//
// Each backup is a timestamped directory holding the copied files and a
// manifest with their SHA256 hashes:
//
//	$XDG_DATA_HOME/tnalias/backups/
//	└── 20260123T100712/
//	    ├── manifest.json
//	    └── home/u/.local/share/godot/.../settings.json
//
// # Creating Backups
//
// The settings store calls [Manager.BeforeWrite] before it replaces the
// settings file:
//
//	mgr := backup.NewManager(backup.WithRetentionCount(10))
//	store := settings.NewStore(path, settings.WithBeforeWrite(mgr.BeforeWrite))
//
// BeforeWrite backs a file up once per Manager, so a command that writes
// twice produces one backup, and prunes old backups beyond the retention
// count. [Manager.Backup] creates a backup unconditionally.
//
// # Restoring Backups
//
// [Manager.Restore] verifies every file against the manifest hash, backs up
// the current files, then writes the backed up content back atomically.
// A hash mismatch returns [ErrBackupCorrupted] and nothing is written.
//
// # Listing and Pruning
//
// [Manager.List] returns manifests newest first, or [ErrNoBackupsFound]
// when there are none. [Manager.Prune] keeps the newest n backups.
package backup
