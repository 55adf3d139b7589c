package script

import (
	lua "github.com/yuin/gopher-lua"
)

// openSafeLibraries opens only safe Lua standard libraries.
// io, os, debug, and package stay closed: binding snippets have no
// business touching the filesystem, and without the package library
// there is no require to escape through.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// installSandbox removes base-library functions that could load
// arbitrary code.
func installSandbox(L *lua.LState) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// registerHostModule exposes the keyscope table to scripts.
func registerHostModule(L *lua.LState, host Host) {
	if host == nil {
		return
	}

	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"log": func(L *lua.LState) int {
			host.Log(L.CheckString(1))
			return 0
		},
		"scope": func(L *lua.LState) int {
			L.Push(lua.LString(host.ActiveScope()))
			return 1
		},
		"set_scope": func(L *lua.LState) int {
			host.SetScope(L.CheckString(1))
			return 0
		},
		"emit": func(L *lua.LState) int {
			host.Emit(L.CheckString(1))
			return 0
		},
	})
	L.SetGlobal("keyscope", mod)
}
