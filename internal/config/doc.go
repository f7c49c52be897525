// Package config loads initdot's optional Lua defaults file.
//
// The file is plain Lua run in a sandboxed gopher-lua VM. It must assign a
// global "initdot" table; every key is optional:
//
//	initdot = {
//	  dotfiles    = { ".bashrc", ".zshrc" },
//	  dir_bin     = "/opt/abin",
//	  dir_dot     = nil,           -- defaults to $HOME
//	  updates     = platform.is_macos and { "ALL" } or { "path", "apsearch" },
//	  force       = false,
//	  make_backup = true,          -- or "yes" / "no"
//	  verb        = 1,
//	}
//
// A read-only "platform" table (see package platform) is available while the
// file runs. Values found in the file become defaults for planner.Options;
// explicit command line flags still win.
//
// # Location
//
// The file is read from $INITDOT_CONFIG when set, otherwise from
// $HOME/.config/initdot/initdot.lua. A missing default file is not an error;
// a missing file named through $INITDOT_CONFIG or --config is.
//
// # Sandbox
//
// The os, io and debug libraries are removed, as are require, dofile,
// loadfile, load and loadstring. The string, table and math libraries remain.
// Execution honours the context passed to Load, so a runaway loop is cut off
// by cancellation.
package config
