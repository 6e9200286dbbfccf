// Package schedule coalesces repeated redraw requests into one batched
// redraw per debounce window.
//
// Schedule marks a redraw kind pending and arms a one-shot timer if none is
// armed. When the timer fires, the pending set is taken and cleared before
// the batched redraw is issued, so requests arriving during the redraw arm a
// fresh timer. At most one timer is alive at any time.
package schedule

import (
	"sync"
	"time"
)

// Kind identifies what needs to be redrawn.
type Kind uint8

const (
	// KindStatus requests a status line redraw.
	KindStatus Kind = 1 << iota

	// KindTabline requests a tab line redraw.
	KindTabline

	// KindFull requests a full screen redraw. It subsumes the partial
	// kinds: a batch containing KindFull issues only a full redraw.
	KindFull
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindStatus:
		return "status"
	case KindTabline:
		return "tabline"
	case KindFull:
		return "full"
	default:
		return "unknown"
	}
}

// Set is a set of redraw kinds accumulated between timer firings.
type Set uint8

// Has reports whether the set contains kind.
func (s Set) Has(kind Kind) bool {
	return s&Set(kind) != 0
}

// IsEmpty reports whether no kinds are pending.
func (s Set) IsEmpty() bool {
	return s == 0
}

// with returns the set with kind added.
func (s Set) with(kind Kind) Set {
	return s | Set(kind)
}

// StopFunc stops a pending timer. It reports whether the timer was stopped
// before firing.
type StopFunc = func() bool

// TimerFunc arms a one-shot timer that runs fn after d. The host guarantees
// fn runs on the event loop, never concurrently with other callbacks.
type TimerFunc func(d time.Duration, fn func()) StopFunc

// DefaultDelay is the debounce window for batched redraws.
const DefaultDelay = 16 * time.Millisecond

// Config configures a Coalescer.
type Config struct {
	// Delay is the debounce window. Values <= 0 use DefaultDelay.
	Delay time.Duration

	// Timer arms one-shot timers. Defaults to time.AfterFunc.
	Timer TimerFunc

	// Redraw receives the batched redraw set. Required.
	Redraw func(Set)
}

// Coalescer merges redraw requests arriving within one debounce window into
// a single batched redraw.
type Coalescer struct {
	mu sync.Mutex

	delay  time.Duration
	timer  TimerFunc
	redraw func(Set)

	pending Set
	armed   bool
	stop    StopFunc
	closed  bool

	// Stats counters.
	scheduled uint64
	fired     uint64
}

// New creates a coalescer. The Redraw callback must be non-nil.
func New(cfg Config) *Coalescer {
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.Timer == nil {
		cfg.Timer = func(d time.Duration, fn func()) StopFunc {
			t := time.AfterFunc(d, fn)
			return t.Stop
		}
	}
	return &Coalescer{
		delay:  cfg.Delay,
		timer:  cfg.Timer,
		redraw: cfg.Redraw,
	}
}

// Schedule marks kind pending. If no timer is armed, a one-shot timer for
// the debounce window is armed; otherwise the call only records the kind.
// Schedule after Close is a no-op.
func (c *Coalescer) Schedule(kind Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.pending = c.pending.with(kind)
	c.scheduled++

	if c.armed {
		return
	}
	c.armed = true
	c.stop = c.timer(c.delay, c.fire)
}

// fire is the timer callback. It takes and clears the pending set before
// issuing the batched redraw, so concurrent Schedule calls queue against a
// new timer rather than the one that just fired.
func (c *Coalescer) fire() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	batch := c.pending
	c.pending = 0
	c.armed = false
	c.stop = nil
	c.fired++
	redraw := c.redraw
	c.mu.Unlock()

	if batch.IsEmpty() || redraw == nil {
		return
	}
	if batch.Has(KindFull) {
		batch = Set(KindFull)
	}
	redraw(batch)
}

// Close stops any outstanding timer and drops pending kinds. The timer
// callback never issues a redraw after Close. Close is idempotent.
func (c *Coalescer) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.pending = 0
	if c.armed && c.stop != nil {
		c.stop()
	}
	c.armed = false
	c.stop = nil
}

// Pending returns the currently pending set. Intended for tests and stats.
func (c *Coalescer) Pending() Set {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.pending
}

// Stats returns scheduling statistics.
func (c *Coalescer) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Scheduled: c.scheduled,
		Fired:     c.fired,
		Coalesced: c.scheduled - c.fired,
	}
}

// Stats holds scheduling statistics.
type Stats struct {
	Scheduled uint64
	Fired     uint64
	Coalesced uint64
}
