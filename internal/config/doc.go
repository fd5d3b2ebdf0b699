// Package config provides configuration management for the tnalias CLI.
//
// The tool's own settings live in $XDG_CONFIG_HOME/tnalias/config.yaml
// (override the directory with TNALIAS_CONFIG_DIR). Every key can also be
// set from the environment with the TNALIAS_ prefix, dots replaced by
// underscores:
//
//	version: 1
//	settings_path: ""        # default: the game's platform location
//	library_dir: ""          # default: $XDG_DATA_HOME/tnalias/library
//	catalog:
//	  url: https://api.github.com/repos/.../git/trees/...?recursive=1
//	  prefix: library/
//	  workers: 4
//	  timeout: 2m0s
//	  rate_limit: 10
//	backup:
//	  enabled: true
//	  retention: 10
//
//	TNALIAS_CATALOG_WORKERS=8 tnalias library sync
//
// # Loading Configuration
//
// Call [Init] once, then [Load] with an explicit path or "" to search the
// default directory. A missing default file is not an error. Loaded values
// are checked with [Validate]; the first problem is returned marked
// errors.ErrInvalidConfig.
package config
