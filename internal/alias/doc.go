// Package alias defines the alias map: an ordered mapping from alias name to
// a semicolon-joined command sequence, as stored under the cmd_alias key of
// the game's settings document.
//
// A [Map] keeps insertion order so a document read from disk is written back
// in the order the game wrote it. Names are non-empty and case-sensitive.
// Values are opaque strings; [SplitCommands] and [JoinCommands] convert
// between the stored form and individual command fragments.
//
// A semicolon is both the command separator and a legal character inside a
// command. The stored form never escapes it, so a command that contains a
// literal semicolon splits into two fragments.
package alias
