package platform

import (
	lua "github.com/yuin/gopher-lua"
)

// InjectPlatformTable exposes info to Lua argument files as the global
// platform table. Writes to the table raise a Lua error.
//
// Fields: os, arch, arch_raw, name ("<os>-<arch>") and the is_* flags.
// Functions:
//
//	platform.when(cond, value [, otherwise])
//	platform.select{ ["linux-amd64"] = a, linux = b, default = c }
//
// select picks the most specific key present: name, then os, then default.
func InjectPlatformTable(L *lua.LState, info *Info) error {
	fields := L.NewTable()

	for key, value := range map[string]lua.LValue{
		"os":       lua.LString(info.OS),
		"arch":     lua.LString(info.Arch),
		"arch_raw": lua.LString(info.ArchRaw),
		"name":     lua.LString(info.String()),
		"is_linux": lua.LBool(info.IsLinux()),
		"is_macos": lua.LBool(info.IsMacOS()),
		"is_amd64": lua.LBool(info.IsAMD64()),
		"is_arm64": lua.LBool(info.IsARM64()),
	} {
		fields.RawSetString(key, value)
	}

	fields.RawSetString("when", L.NewFunction(luaWhen))
	fields.RawSetString("select", L.NewFunction(func(L *lua.LState) int {
		choices := L.CheckTable(1)
		for _, key := range []string{info.String(), info.OS, "default"} {
			if v := choices.RawGetString(key); v != lua.LNil {
				L.Push(v)
				return 1
			}
		}
		L.Push(lua.LNil)
		return 1
	}))

	L.SetGlobal("platform", readOnlyProxy(L, fields))
	return nil
}

func luaWhen(L *lua.LState) int {
	if L.CheckBool(1) {
		L.Push(L.Get(2))
	} else {
		L.Push(L.Get(3))
	}
	return 1
}

// readOnlyProxy returns an empty table whose metatable reads through to
// fields and rejects assignment.
func readOnlyProxy(L *lua.LState, fields *lua.LTable) *lua.LTable {
	meta := L.NewTable()
	meta.RawSetString("__index", fields)
	meta.RawSetString("__newindex", L.NewFunction(func(L *lua.LState) int {
		L.RaiseError("platform table is read-only")
		return 0
	}))
	meta.RawSetString("__metatable", lua.LString("locked"))

	proxy := L.NewTable()
	L.SetMetatable(proxy, meta)
	return proxy
}
