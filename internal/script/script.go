// Package script runs optional user hooks written in Lua. A hooks file may
// define on_enable() and on_disable(); the matching function is called after
// each effective focus-mode toggle.
//
// The Lua state is sandboxed: only the base, table, string, and math
// libraries are opened, so hooks cannot touch the file system or spawn
// processes. gopher-lua's LState is not goroutine-safe; all calls must stay
// on the host's event loop or hold the internal lock, which this package
// enforces itself.
package script

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// Hook function names looked up in the user's hooks file.
const (
	fnOnEnable  = "on_enable"
	fnOnDisable = "on_disable"
)

// Hooks owns a sandboxed Lua state holding the user's toggle hooks.
type Hooks struct {
	mu     sync.Mutex
	state  *lua.LState
	closed bool
}

// Load parses and executes the hooks file at path, returning the loaded
// hook set. The file runs once at load time; only the functions it defines
// are called afterward.
func Load(path string) (*Hooks, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)

	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("loading hooks file %s: %w", path, err)
	}

	return &Hooks{state: L}, nil
}

// openSafeLibraries opens only side-effect-free Lua standard libraries.
// io, os, debug, and package stay closed.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// OnToggle runs the hook matching the new active state. A hooks file that
// does not define the function is fine; a hook that fails returns the error
// for logging but leaves the state usable.
func (h *Hooks) OnToggle(active bool) error {
	name := fnOnDisable
	if active {
		name = fnOnEnable
	}
	return h.call(name)
}

// call invokes a global Lua function by name if it is defined.
func (h *Hooks) call(name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}

	fn := h.state.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		return nil
	}

	err := h.state.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	})
	if err != nil {
		return fmt.Errorf("hook %s: %w", name, err)
	}
	return nil
}

// Defined reports whether the hooks file defines the named toggle hook.
// Intended for startup diagnostics.
func (h *Hooks) Defined(active bool) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	name := fnOnDisable
	if active {
		name = fnOnEnable
	}
	return h.state.GetGlobal(name).Type() == lua.LTFunction
}

// Close releases the Lua state. Close is idempotent; hooks called after
// Close are no-ops.
func (h *Hooks) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	h.state.Close()
}
