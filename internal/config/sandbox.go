package config

import (
	lua "github.com/yuin/gopher-lua"
)

// removedGlobals could run commands, touch the filesystem, load further code
// or, for debug, reach the others again.
var removedGlobals = []string{
	"os", "io", "debug",
	"require", "dofile", "loadfile", "load", "loadstring",
}

// sandboxLuaVM strips removedGlobals from L. string, table and math are kept,
// along with the basic functions (type, tostring, pairs, ...).
func sandboxLuaVM(L *lua.LState) {
	for _, name := range removedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
}

// newSandboxedVM creates a Lua state with sandboxLuaVM applied.
func newSandboxedVM() *lua.LState {
	L := lua.NewState()
	sandboxLuaVM(L)
	return L
}
