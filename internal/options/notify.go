package options

import "sync"

// Change describes one target override applied by a reload.
type Change struct {
	// Name is the setting name.
	Name string

	// OldValue is the previous target value.
	OldValue any

	// NewValue is the new target value.
	NewValue any
}

// Observer is called when target configuration changes.
type Observer func(Change)

// NotifySubscription represents an active observer registration.
type NotifySubscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes this registration.
func (s *NotifySubscription) Unsubscribe() {
	if s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

// Notifier delivers target-configuration change events synchronously, in
// subscription order.
type Notifier struct {
	mu        sync.Mutex
	observers map[uint64]Observer
	order     []uint64
	nextID    uint64
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{observers: make(map[uint64]Observer)}
}

// Subscribe registers an observer for all changes.
func (n *Notifier) Subscribe(fn Observer) *NotifySubscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := n.nextID
	n.observers[id] = fn
	n.order = append(n.order, id)
	return &NotifySubscription{id: id, notifier: n}
}

// Notify delivers a change to every observer.
func (n *Notifier) Notify(change Change) {
	n.mu.Lock()
	fns := make([]Observer, 0, len(n.order))
	for _, id := range n.order {
		if fn, ok := n.observers[id]; ok {
			fns = append(fns, fn)
		}
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(change)
	}
}

// unsubscribe removes one registration.
func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	delete(n.observers, id)
	for i, v := range n.order {
		if v == id {
			n.order = append(n.order[:i], n.order[i+1:]...)
			break
		}
	}
}
