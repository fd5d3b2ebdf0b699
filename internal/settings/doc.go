// Package settings reads and writes the game's settings document.
//
// The document is an arbitrary JSON object owned by the game. Only the
// cmd_alias member belongs to tnalias; every other member is kept as raw
// JSON in its original position and written back unchanged.
//
// A missing or unparsable file loads as an empty document, since the game
// may not have written its settings yet. Any other read failure, and every
// write failure, is returned to the caller.
//
//	store := settings.NewStore(path, settings.WithLogger(logger))
//	if err := store.MergeAndSave(aliases); err != nil {
//		return err
//	}
package settings
