// Package config loads the homestead client configuration.
//
// # Resolution
//
// Load reads the TOML file at the given path, or ~/.config/homestead/config.toml
// when the path is empty. A missing file is not an error: Defaults are used so
// the client runs without any setup. Fields that are present but blank also
// fall back to their defaults.
//
// # Fields
//
//	api_url         = "http://127.0.0.1:8080"                   # profile server
//	cache_dir       = "~/.local/share/homestead/pending"        # write-ahead cache
//	log_file        = "~/.local/share/homestead/homestead.log"
//	prefs_path      = "~/.config/homestead/prefs.toml"
//	catalog_path    = ""                                        # optional catalog override
//	expiry_interval = "1s"
//	task_cooldown   = "10m"
//	request_timeout = "5s"
//
// Paths get tilde expansion and are made absolute. Durations use Go duration
// syntax and must be positive.
//
// # Errors
//
// Load fails on unreadable files, invalid TOML and malformed durations. It
// never fails because a file is absent.
package config
