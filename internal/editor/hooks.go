package editor

import "sync"

// Event identifies an inbound host event.
type Event uint8

const (
	// EventCursorMoved fires when the cursor moves.
	EventCursorMoved Event = iota

	// EventInsertEnter fires when insert mode is entered.
	EventInsertEnter

	// EventInsertLeave fires when insert mode is left.
	EventInsertLeave

	// EventRecordingEnter fires when macro recording starts.
	EventRecordingEnter

	// EventRecordingLeave fires when macro recording stops.
	EventRecordingLeave

	// EventViewCreated fires when a new view is opened.
	EventViewCreated

	// EventViewEntered fires when a view gains the cursor.
	EventViewEntered

	// EventFocusLost fires when the host loses focus.
	EventFocusLost

	// EventSearchChanged fires when the search pattern changes.
	EventSearchChanged

	// EventSearchCleared fires when the search is explicitly cleared.
	EventSearchCleared

	// EventExiting fires once when the host session is tearing down.
	EventExiting
)

// String returns the event name.
func (e Event) String() string {
	switch e {
	case EventCursorMoved:
		return "cursor-moved"
	case EventInsertEnter:
		return "insert-enter"
	case EventInsertLeave:
		return "insert-leave"
	case EventRecordingEnter:
		return "recording-enter"
	case EventRecordingLeave:
		return "recording-leave"
	case EventViewCreated:
		return "view-created"
	case EventViewEntered:
		return "view-entered"
	case EventFocusLost:
		return "focus-lost"
	case EventSearchChanged:
		return "search-changed"
	case EventSearchCleared:
		return "search-cleared"
	case EventExiting:
		return "exiting"
	default:
		return "unknown"
	}
}

// Handler is a zero-argument event callback.
type Handler func()

// Subscription represents an active hook registration.
type Subscription struct {
	id    uint64
	event Event
	hooks *Hooks
}

// Unsubscribe removes this registration.
func (s *Subscription) Unsubscribe() {
	if s.hooks != nil {
		s.hooks.unsubscribe(s.event, s.id)
	}
}

// Hooks is the inbound event registry. The host fires events on its single
// loop; handlers for one event run in registration order.
type Hooks struct {
	mu       sync.Mutex
	handlers map[Event]map[uint64]Handler
	order    map[Event][]uint64
	nextID   uint64
}

// NewHooks creates an empty hook registry.
func NewHooks() *Hooks {
	return &Hooks{
		handlers: make(map[Event]map[uint64]Handler),
		order:    make(map[Event][]uint64),
	}
}

// On registers fn for event and returns a subscription handle.
func (h *Hooks) On(event Event, fn Handler) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	if h.handlers[event] == nil {
		h.handlers[event] = make(map[uint64]Handler)
	}
	h.handlers[event][id] = fn
	h.order[event] = append(h.order[event], id)

	return &Subscription{id: id, event: event, hooks: h}
}

// Fire invokes every handler registered for event, in registration order.
func (h *Hooks) Fire(event Event) {
	h.mu.Lock()
	ids := h.order[event]
	fns := make([]Handler, 0, len(ids))
	for _, id := range ids {
		if fn, ok := h.handlers[event][id]; ok {
			fns = append(fns, fn)
		}
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// unsubscribe removes one registration.
func (h *Hooks) unsubscribe(event Event, id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if m, ok := h.handlers[event]; ok {
		delete(m, id)
	}
	ids := h.order[event]
	for i, v := range ids {
		if v == id {
			h.order[event] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
}
