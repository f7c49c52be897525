package platform

import (
	lua "github.com/yuin/gopher-lua"
)

// InjectPlatformTable sets a read-only global "platform" table describing
// info, so a defaults file can write e.g.
//
//	initdot = { updates = platform.is_macos and { "ALL" } or { "path", "apsearch" } }
func InjectPlatformTable(L *lua.LState, info *Info) {
	t := L.NewTable()

	L.SetField(t, "os", lua.LString(info.OS))
	L.SetField(t, "arch", lua.LString(info.Arch))
	L.SetField(t, "is_macos", lua.LBool(info.IsMacOS()))
	L.SetField(t, "is_linux", lua.LBool(info.IsLinux()))

	if info.Platform != "" {
		L.SetField(t, "distro", lua.LString(info.Platform))
		L.SetField(t, "version", lua.LString(info.Version))
	}
	if info.Family != "" {
		L.SetField(t, "family", lua.LString(info.Family))
	}

	// when(cond, value) returns value if cond holds, nil otherwise
	L.SetField(t, "when", L.NewFunction(func(L *lua.LState) int {
		if L.CheckBool(1) {
			L.Push(L.Get(2))
		} else {
			L.Push(lua.LNil)
		}
		return 1
	}))

	L.SetGlobal("platform", readOnly(L, t))
}

// readOnly wraps table in an empty proxy whose metatable forwards reads and
// rejects writes.
func readOnly(L *lua.LState, table *lua.LTable) *lua.LTable {
	mt := L.NewTable()
	L.SetField(mt, "__index", table)
	L.SetField(mt, "__newindex", L.NewFunction(func(L *lua.LState) int {
		L.RaiseError("platform table is read-only and cannot be modified")
		return 0
	}))
	L.SetField(mt, "__metatable", lua.LString("protected"))

	proxy := L.NewTable()
	L.SetMetatable(proxy, mt)
	return proxy
}
