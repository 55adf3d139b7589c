// Package config handles configuration loading, validation, and live reload
// for the keyscope daemon.
//
// Configuration is a single TOML file. The default location follows the XDG
// base directory spec:
//
//	$XDG_CONFIG_HOME/keyscope/config.toml
//	~/.config/keyscope/config.toml
//
// The KEYSCOPE_CONFIG environment variable overrides the path entirely.
//
// # File Format
//
//	[daemon]
//	log_level = "info"
//	socket = "/run/user/1000/keyscope.sock"
//	ui = false
//
//	[engine]
//	idle_timeout_ms = 1500
//	initial_scope = "global"
//
//	[source]
//	type = "terminal"
//
//	[[binding]]
//	pattern = "ctrl+k d"
//	scope = "global"
//	action = "emit:docs"
//
// # Live Reload
//
// Watcher monitors the configuration file with fsnotify and invokes a
// reload callback after changes settle. Editors that replace files by
// rename are handled by watching the parent directory.
package config
