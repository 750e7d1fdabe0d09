// Package config holds the editing options and the startup configuration
// of the engine.
//
// Options mirrors the subset of Vim options the motion, search and operator
// code consults, and implements ":set" argument parsing. Config adds the
// startup-only sections read from vimcore.toml or vimcore.yaml and from
// VIMCORE_ environment variables:
//
//	[options]
//	tabstop = 4
//	ignorecase = true
//
//	[commands]
//	Greet = "echo 'hello'"
//
//	[registers]
//	a = "text"
//
//	[log]
//	level = "debug"
package config
