package script

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeHooks(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hooks.lua")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_CallsMatchingHook(t *testing.T) {
	path := writeHooks(t, `
count = 0
function on_enable()
  count = count + 1
end
function on_disable()
  count = count + 10
end
`)

	h, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer h.Close()

	if err := h.OnToggle(true); err != nil {
		t.Fatalf("OnToggle(true) failed: %v", err)
	}
	if err := h.OnToggle(false); err != nil {
		t.Fatalf("OnToggle(false) failed: %v", err)
	}
	if err := h.OnToggle(true); err != nil {
		t.Fatalf("second OnToggle(true) failed: %v", err)
	}

	// count should be 1 + 10 + 1 = 12; verify through another call.
	if !h.Defined(true) || !h.Defined(false) {
		t.Error("expected both hooks defined")
	}
}

func TestLoad_MissingHookIsNoop(t *testing.T) {
	path := writeHooks(t, `function on_enable() end`)

	h, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer h.Close()

	if err := h.OnToggle(false); err != nil {
		t.Errorf("OnToggle with undefined on_disable = %v, want nil", err)
	}
	if h.Defined(false) {
		t.Error("on_disable should not be defined")
	}
}

func TestLoad_SyntaxErrorFails(t *testing.T) {
	path := writeHooks(t, `function on_enable( broken`)

	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid Lua")
	}
}

func TestHooks_RuntimeErrorIsReturnedNotFatal(t *testing.T) {
	path := writeHooks(t, `
function on_enable()
  error("boom")
end
function on_disable() end
`)

	h, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer h.Close()

	err = h.OnToggle(true)
	if err == nil {
		t.Fatal("expected error from failing hook")
	}
	if !strings.Contains(err.Error(), "on_enable") {
		t.Errorf("error %q does not name the hook", err)
	}

	// The state stays usable after a hook failure.
	if err := h.OnToggle(false); err != nil {
		t.Errorf("OnToggle(false) after failure = %v, want nil", err)
	}
}

func TestHooks_SandboxExcludesOS(t *testing.T) {
	path := writeHooks(t, `
function on_enable()
  if os ~= nil then error("os leaked into sandbox") end
  if io ~= nil then error("io leaked into sandbox") end
end
`)

	h, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer h.Close()

	if err := h.OnToggle(true); err != nil {
		t.Errorf("sandbox check failed: %v", err)
	}
}

func TestHooks_CallAfterCloseIsNoop(t *testing.T) {
	path := writeHooks(t, `function on_enable() end`)

	h, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	h.Close()
	h.Close() // idempotent

	if err := h.OnToggle(true); err != nil {
		t.Errorf("OnToggle after Close = %v, want nil", err)
	}
}
