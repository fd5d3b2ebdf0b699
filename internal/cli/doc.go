// Package cli assembles the core packages for the tnalias command line.
//
// An App is built once per invocation from the loaded configuration and the
// global flags. Commands take it from the command context and ask it for the
// settings store, library cache, catalog syncer or backup manager, each
// wired with the same filesystem and logger.
package cli
