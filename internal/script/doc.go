// Package script embeds a sandboxed Lua interpreter for binding actions.
//
// A binding action of the form "lua:file.lua" runs the script file on
// the engine; "lua:file.lua:fn" additionally calls the named global
// function after the file loads. The file is read again on every
// invocation, so edits take effect without a reload. Scripts see a
// restricted standard library plus a keyscope module table:
//
//	keyscope.log(msg)        -- write to the daemon log
//	keyscope.scope()         -- name of the active scope
//	keyscope.set_scope(name) -- switch the active scope
//	keyscope.emit(text)      -- publish a user event
//
// gopher-lua's LState is not goroutine-safe, so all execution is
// serialized through a single goroutine owning the state. Run, RunFile,
// and their async forms may be called from any goroutine.
package script
