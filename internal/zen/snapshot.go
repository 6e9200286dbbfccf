// Package zen implements the focus-mode toggler: it snapshots a fixed set
// of configuration fields, applies the zen target configuration, and
// restores the exact snapshot on the next toggle.
package zen

import (
	"fmt"

	"github.com/dshills/zenmode/internal/editor"
	"github.com/dshills/zenmode/internal/options"
)

// Snapshot holds the captured values of the zen field set at toggle-on
// time. Exactly one live snapshot exists per toggler; it is consumed and
// discarded at toggle-off.
type Snapshot struct {
	// Global holds captured values of global-scoped fields.
	Global map[string]any

	// View holds captured values of view-scoped fields, applied to every
	// open view on restore.
	View map[string]any
}

// capture reads the current value of every registered field from the
// environment. Fields the environment cannot report are skipped: they stay
// unmanaged for the cycle, neither driven to the target nor restored.
func capture(opts editor.Options, reg *options.Registry) *Snapshot {
	snap := &Snapshot{
		Global: make(map[string]any),
		View:   make(map[string]any),
	}

	for _, name := range reg.Names() {
		value, err := opts.Global(name)
		if err != nil {
			continue
		}
		if reg.Get(name).Scope.HasScope(options.ScopeView) {
			snap.View[name] = value
		} else {
			snap.Global[name] = value
		}
	}
	return snap
}

// ApplyError records one field application that failed. Failures are
// collected, never propagated; one view's failure must not abort the rest
// of the batch.
type ApplyError struct {
	// View is the target view; the zero value indicates global scope.
	View editor.ViewID

	// Field is the option name that failed to apply.
	Field string

	// Err is the underlying environment error.
	Err error
}

// Error implements the error interface.
func (e ApplyError) Error() string {
	if e.View == (editor.ViewID{}) {
		return fmt.Sprintf("apply %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("apply %s to view %s: %v", e.Field, e.View, e.Err)
}

// Unwrap returns the underlying error.
func (e ApplyError) Unwrap() error { return e.Err }

// applyAll writes global values at global scope and view values at global
// scope plus to every open view, collecting per-item failures without
// short-circuiting.
func applyAll(opts editor.Options, views editor.Views, global, view map[string]any) []ApplyError {
	var failures []ApplyError

	for name, value := range global {
		if err := opts.SetGlobal(name, value); err != nil {
			failures = append(failures, ApplyError{Field: name, Err: err})
		}
	}

	// View-scoped fields also set the global default so views opened
	// later inherit it.
	for name, value := range view {
		if err := opts.SetGlobal(name, value); err != nil {
			failures = append(failures, ApplyError{Field: name, Err: err})
		}
	}

	for _, id := range views.Views() {
		for name, value := range view {
			if err := opts.SetView(id, name, value); err != nil {
				failures = append(failures, ApplyError{View: id, Field: name, Err: err})
			}
		}
	}

	return failures
}
