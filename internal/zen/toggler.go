package zen

import (
	"sync"

	"github.com/dshills/zenmode/internal/editor"
	"github.com/dshills/zenmode/internal/options"
	"github.com/dshills/zenmode/internal/schedule"
)

// togglerState guards Toggle re-entrancy for the duration of one tick.
type togglerState uint8

const (
	// stateIdle accepts the next toggle.
	stateIdle togglerState = iota

	// stateBusy drops toggles until the next tick releases it.
	stateBusy
)

// Config configures a Toggler.
type Config struct {
	// Options is the host's option surface. Required.
	Options editor.Options

	// Views enumerates open views. Required.
	Views editor.Views

	// Timer arms the busy-release tick. Required.
	Timer editor.Timer

	// Registry is the zen field set. Required.
	Registry *options.Registry

	// Scheduler receives the post-toggle redraw request. Required.
	Scheduler *schedule.Coalescer

	// Flags persists the active flag. Required.
	Flags *FlagStore

	// OnToggle, if set, runs after each effective toggle with the new
	// active state (user hooks).
	OnToggle func(active bool)
}

// Toggler flips focus mode on and off. Toggling on captures the current
// field values and applies the target configuration; toggling off restores
// the captured snapshot exactly, making a double toggle the identity on the
// field set.
type Toggler struct {
	mu sync.Mutex

	opts     editor.Options
	views    editor.Views
	timer    editor.Timer
	registry *options.Registry
	sched    *schedule.Coalescer
	flags    *FlagStore
	onToggle func(bool)

	state  togglerState
	active bool
	saved  *Snapshot

	// Stats counters.
	toggles  uint64
	dropped  uint64
	failures uint64
}

// New creates a toggler in the inactive, idle state.
func New(cfg Config) *Toggler {
	return &Toggler{
		opts:     cfg.Options,
		views:    cfg.Views,
		timer:    cfg.Timer,
		registry: cfg.Registry,
		sched:    cfg.Scheduler,
		flags:    cfg.Flags,
		onToggle: cfg.OnToggle,
	}
}

// Active reports whether focus mode is on.
func (t *Toggler) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.active
}

// Toggle flips focus mode. A toggle arriving while a previous one is still
// within its tick is dropped, so at most one effective flip happens per
// tick. The redraw is requested through the scheduler, never issued
// synchronously.
func (t *Toggler) Toggle() {
	t.mu.Lock()
	if t.state == stateBusy {
		t.dropped++
		t.mu.Unlock()
		return
	}
	t.state = stateBusy
	t.active = !t.active
	t.toggles++
	active := t.active
	t.mu.Unlock()

	// Release busy on the next tick, defining the minimum interval
	// between effective toggles.
	t.timer.AfterFunc(0, func() {
		t.mu.Lock()
		t.state = stateIdle
		t.mu.Unlock()
	})

	var failures []ApplyError
	if active {
		snap := capture(t.opts, t.registry)
		t.mu.Lock()
		t.saved = snap
		t.mu.Unlock()
		global, view := t.targetsFor(snap)
		failures = applyAll(t.opts, t.views, global, view)
	} else {
		t.mu.Lock()
		snap := t.saved
		t.saved = nil
		t.mu.Unlock()
		if snap != nil {
			failures = applyAll(t.opts, t.views, snap.Global, snap.View)
		}
	}

	t.mu.Lock()
	t.failures += uint64(len(failures))
	t.mu.Unlock()

	t.flags.Save(active)
	t.sched.Schedule(schedule.KindTabline)

	if t.onToggle != nil {
		t.onToggle(active)
	}
}

// Reapply re-applies the current target configuration while active. Wired
// to options-file hot reload so changed targets take effect without a
// toggle cycle; the saved snapshot is untouched, so toggling off still
// restores the pre-toggle state exactly.
func (t *Toggler) Reapply() {
	t.mu.Lock()
	snap := t.saved
	active := t.active
	t.mu.Unlock()
	if !active || snap == nil {
		return
	}

	global, view := t.targetsFor(snap)
	failures := applyAll(t.opts, t.views, global, view)

	t.mu.Lock()
	t.failures += uint64(len(failures))
	t.mu.Unlock()

	t.sched.Schedule(schedule.KindTabline)
}

// ApplyToView applies the view-scoped subset of the target configuration
// to one view. Wired to the view-creation hook so views opened while focus
// mode is active pick up the target configuration; the writes are
// idempotent, so this bypasses the redraw debounce safely.
func (t *Toggler) ApplyToView(view editor.ViewID) {
	t.mu.Lock()
	snap := t.saved
	active := t.active
	t.mu.Unlock()
	if !active || snap == nil {
		return
	}

	_, targets := t.targetsFor(snap)
	failed := 0
	for name, value := range targets {
		if err := t.opts.SetView(view, name, value); err != nil {
			failed++
		}
	}

	if failed > 0 {
		t.mu.Lock()
		t.failures += uint64(failed)
		t.mu.Unlock()
	}
}

// targetsFor returns the global- and view-scoped target values restricted
// to the fields the snapshot captured. A field the environment could not
// report is unmanaged for the cycle: driving it to the target with nothing
// to restore would leave it stuck there after toggle-off.
func (t *Toggler) targetsFor(snap *Snapshot) (global, view map[string]any) {
	global = make(map[string]any)
	for _, name := range t.registry.ScopedNames(options.ScopeGlobal) {
		if _, ok := snap.Global[name]; ok {
			global[name] = t.registry.Get(name).Target
		}
	}
	view = make(map[string]any)
	for _, name := range t.registry.ScopedNames(options.ScopeView) {
		if _, ok := snap.View[name]; ok {
			view[name] = t.registry.Get(name).Target
		}
	}
	return global, view
}

// Stats returns toggle statistics.
func (t *Toggler) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	return Stats{
		Active:        t.active,
		Toggles:       t.toggles,
		Dropped:       t.dropped,
		ApplyFailures: t.failures,
	}
}

// Stats holds toggle statistics.
type Stats struct {
	Active        bool
	Toggles       uint64
	Dropped       uint64
	ApplyFailures uint64
}
