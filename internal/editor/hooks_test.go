package editor

import "testing"

func TestHooks_FireInRegistrationOrder(t *testing.T) {
	h := NewHooks()

	var got []int
	h.On(EventCursorMoved, func() { got = append(got, 1) })
	h.On(EventCursorMoved, func() { got = append(got, 2) })
	h.On(EventInsertEnter, func() { got = append(got, 99) })

	h.Fire(EventCursorMoved)

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("handlers fired = %v, want [1 2]", got)
	}
}

func TestHooks_Unsubscribe(t *testing.T) {
	h := NewHooks()

	var calls int
	sub := h.On(EventFocusLost, func() { calls++ })
	h.Fire(EventFocusLost)
	sub.Unsubscribe()
	h.Fire(EventFocusLost)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestHooks_FireWithNoHandlers(t *testing.T) {
	h := NewHooks()
	h.Fire(EventExiting) // must not panic
}

func TestMemory_ViewLifecycle(t *testing.T) {
	env := NewMemory(nil, nil)

	a := env.OpenView()
	b := env.OpenView()

	if got := len(env.Views()); got != 2 {
		t.Fatalf("Views() returned %d views, want 2", got)
	}

	if err := env.SetView(a, "number", false); err != nil {
		t.Fatalf("SetView failed: %v", err)
	}

	env.CloseView(a)
	if err := env.SetView(a, "number", true); err != ErrViewNotFound {
		t.Errorf("SetView on closed view = %v, want ErrViewNotFound", err)
	}
	if err := env.SetView(b, "number", true); err != nil {
		t.Errorf("SetView on live view failed: %v", err)
	}
}

func TestMemory_RejectedOption(t *testing.T) {
	env := NewMemory(nil, nil)
	v := env.OpenView()
	env.RejectOption("signcolumn")

	if err := env.SetView(v, "signcolumn", "no"); err != ErrOptionNotSupported {
		t.Errorf("SetView = %v, want ErrOptionNotSupported", err)
	}
}

func TestMemory_GlobalOptions(t *testing.T) {
	env := NewMemory(nil, nil)
	env.SeedGlobals(map[string]any{"laststatus": 2})

	v, err := env.Global("laststatus")
	if err != nil {
		t.Fatalf("Global failed: %v", err)
	}
	if v != 2 {
		t.Errorf("Global(laststatus) = %v, want 2", v)
	}

	if _, err := env.Global("nonexistent"); err != ErrUnknownOption {
		t.Errorf("Global(nonexistent) = %v, want ErrUnknownOption", err)
	}
}
