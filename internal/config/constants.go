package config

// Lua schema field names and globals
const (
	luaGlobalInitdot = "initdot"
	luaFieldDotfiles = "dotfiles"
	luaFieldDirBin   = "dir_bin"
	luaFieldDirDot   = "dir_dot"
	luaFieldUpdates  = "updates"
	luaFieldForce    = "force"
	luaFieldBackup   = "make_backup"
	luaFieldVerb     = "verb"
)

const (
	// EnvConfig names the environment variable that overrides the defaults
	// file location.
	EnvConfig = "INITDOT_CONFIG"

	// MaxConfigSize bounds the defaults file read into the Lua VM.
	MaxConfigSize = 1 << 20
)
