// Package editor defines the host environment surface the performance
// subsystem consumes: option access, view enumeration, time, one-shot
// timers, and inbound event hooks.
//
// The host guarantees a single event loop: every hook callback and every
// timer callback runs on that loop, never concurrently with another.
package editor

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Environment errors.
var (
	// ErrViewNotFound indicates the view no longer exists.
	ErrViewNotFound = errors.New("view not found")

	// ErrUnknownOption indicates the option name is not recognized.
	ErrUnknownOption = errors.New("unknown option")

	// ErrOptionNotSupported indicates the view rejects the option.
	ErrOptionNotSupported = errors.New("option not supported by view")
)

// ViewID identifies an open view (window/split) in the host.
type ViewID uuid.UUID

// NewViewID returns a fresh view identity.
func NewViewID() ViewID {
	return ViewID(uuid.New())
}

// String returns the canonical string form of the view ID.
func (v ViewID) String() string {
	return uuid.UUID(v).String()
}

// Options reads and writes named configuration fields in the host.
// Global reads the effective global value; SetView scopes a write to one
// view, which may reject an option it does not support.
type Options interface {
	Global(name string) (any, error)
	SetGlobal(name string, value any) error
	SetView(view ViewID, name string, value any) error
}

// Views enumerates the currently open views.
type Views interface {
	Views() []ViewID
}

// Clock supplies the current high-resolution time.
type Clock interface {
	Now() time.Time
}

// Timer arms one-shot timers on the host event loop. The returned stop
// function cancels the timer and reports whether it fired first.
type Timer interface {
	AfterFunc(d time.Duration, fn func()) (stop func() bool)
}

// SearchState exposes the host's search facility for statusline info.
type SearchState interface {
	// ActiveSearch returns the current search pattern and whether a
	// search is active.
	ActiveSearch() (pattern string, active bool)

	// SearchCount computes the current match index and total match
	// count within the given time budget.
	SearchCount(budget time.Duration) (current, total int, err error)
}

// Recorder exposes the host's macro recording state.
type Recorder interface {
	// RecordingRegister returns the register being recorded into, or
	// the empty string when no recording is in progress.
	RecordingRegister() string
}

// Environment is the full collaborator surface supplied by the host.
type Environment interface {
	Options
	Views
	Clock
	Timer
	SearchState
	Recorder
}
