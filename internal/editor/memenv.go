package editor

import (
	"maps"
	"sync"
	"time"
)

// SystemClock reads the real time.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// SystemTimer arms real one-shot timers via time.AfterFunc.
type SystemTimer struct{}

// AfterFunc arms a one-shot timer.
func (SystemTimer) AfterFunc(d time.Duration, fn func()) func() bool {
	t := time.AfterFunc(d, fn)
	return t.Stop
}

// ManualClock is a hand-advanced time source for tests.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock creates a clock starting at a fixed instant.
func NewManualClock() *ManualClock {
	return &ManualClock{now: time.Unix(1000, 0)}
}

// Now returns the clock's current instant.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// ManualTimer collects armed one-shot timers for manual firing in tests.
type ManualTimer struct {
	mu   sync.Mutex
	fns  []func()
	arms int
}

// NewManualTimer creates an empty manual timer.
func NewManualTimer() *ManualTimer {
	return &ManualTimer{}
}

// AfterFunc records fn for a later Tick.
func (m *ManualTimer) AfterFunc(_ time.Duration, fn func()) func() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.arms++
	m.fns = append(m.fns, fn)
	return func() bool { return true }
}

// Tick runs every armed callback, simulating one loop tick elapsing.
func (m *ManualTimer) Tick() {
	m.mu.Lock()
	fns := m.fns
	m.fns = nil
	m.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Armed returns how many timers have been armed in total.
func (m *ManualTimer) Armed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.arms
}

// memView is one open view's per-view option state.
type memView struct {
	options map[string]any
}

// Memory is an in-memory Environment. Tests and the bootstrap use it as a
// stand-in host; the demo binary replaces it with the tcell-backed host.
type Memory struct {
	mu sync.Mutex

	global map[string]any
	views  map[ViewID]*memView
	order  []ViewID

	// unsupported lists option names a view rejects.
	unsupported map[string]bool

	clock Clock
	timer Timer

	searchPattern string
	searchActive  bool
	searchCurrent int
	searchTotal   int

	recordRegister string
}

// NewMemory creates an in-memory environment using the given clock and
// timer. Nil arguments default to the system implementations.
func NewMemory(clock Clock, timer Timer) *Memory {
	if clock == nil {
		clock = SystemClock{}
	}
	if timer == nil {
		timer = SystemTimer{}
	}
	return &Memory{
		global:      make(map[string]any),
		views:       make(map[ViewID]*memView),
		unsupported: make(map[string]bool),
		clock:       clock,
		timer:       timer,
	}
}

// Global returns the global value of an option.
func (m *Memory) Global(name string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.global[name]
	if !ok {
		return nil, ErrUnknownOption
	}
	return v, nil
}

// SetGlobal sets an option at global scope.
func (m *Memory) SetGlobal(name string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.global[name] = value
	return nil
}

// SetView sets an option on one view. A closed view returns
// ErrViewNotFound; an option marked unsupported returns
// ErrOptionNotSupported. Neither affects other views.
func (m *Memory) SetView(view ViewID, name string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.views[view]
	if !ok {
		return ErrViewNotFound
	}
	if m.unsupported[name] {
		return ErrOptionNotSupported
	}
	w.options[name] = value
	return nil
}

// ViewOption reads a per-view option value, falling back to global.
func (m *Memory) ViewOption(view ViewID, name string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.views[view]
	if !ok {
		return nil, ErrViewNotFound
	}
	if v, ok := w.options[name]; ok {
		return v, nil
	}
	if v, ok := m.global[name]; ok {
		return v, nil
	}
	return nil, ErrUnknownOption
}

// Views returns the open views in creation order.
func (m *Memory) Views() []ViewID {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]ViewID, len(m.order))
	copy(out, m.order)
	return out
}

// OpenView opens a new view and returns its identity.
func (m *Memory) OpenView() ViewID {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := NewViewID()
	m.views[id] = &memView{options: make(map[string]any)}
	m.order = append(m.order, id)
	return id
}

// CloseView closes a view. Subsequent SetView calls for it fail.
func (m *Memory) CloseView(view ViewID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.views, view)
	for i, id := range m.order {
		if id == view {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// RejectOption marks an option name as unsupported by views.
func (m *Memory) RejectOption(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.unsupported[name] = true
}

// SeedGlobals installs a set of global option values.
func (m *Memory) SeedGlobals(values map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	maps.Copy(m.global, values)
}

// Now returns the current time from the configured clock.
func (m *Memory) Now() time.Time {
	return m.clock.Now()
}

// AfterFunc arms a one-shot timer on the configured timer.
func (m *Memory) AfterFunc(d time.Duration, fn func()) func() bool {
	return m.timer.AfterFunc(d, fn)
}

// SetSearch installs the simulated search state.
func (m *Memory) SetSearch(pattern string, current, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.searchPattern = pattern
	m.searchActive = pattern != ""
	m.searchCurrent = current
	m.searchTotal = total
}

// ClearSearch deactivates the simulated search.
func (m *Memory) ClearSearch() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.searchActive = false
	m.searchPattern = ""
	m.searchCurrent = 0
	m.searchTotal = 0
}

// ActiveSearch returns the current pattern and whether a search is active.
func (m *Memory) ActiveSearch() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.searchPattern, m.searchActive
}

// SearchCount returns the simulated match position and total.
func (m *Memory) SearchCount(_ time.Duration) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.searchCurrent, m.searchTotal, nil
}

// SetRecordingRegister installs the simulated recording register.
func (m *Memory) SetRecordingRegister(register string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.recordRegister = register
}

// RecordingRegister returns the register being recorded into.
func (m *Memory) RecordingRegister() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.recordRegister
}
