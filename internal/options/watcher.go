package options

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads zen target overrides when the options file changes on
// disk. Reload diffs the registry's targets and notifies observers of each
// changed setting.
//
// The watch is placed on the file's directory because editors typically
// replace the file on save rather than writing it in place.
type Watcher struct {
	mu sync.Mutex

	path     string
	registry *Registry
	notifier *Notifier

	fsw    *fsnotify.Watcher
	done   chan struct{}
	wg     sync.WaitGroup
	closed bool
}

// NewWatcher creates a watcher for the options file at path.
func NewWatcher(path string, reg *Registry, notifier *Notifier) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		_ = fsw.Close()
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		registry: reg,
		notifier: notifier,
		fsw:      fsw,
		done:     make(chan struct{}),
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// loop consumes fsnotify events until Close.
func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.matches(ev) {
				continue
			}
			w.reload()
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			// Watch errors are transient; the next event retries.
		}
	}
}

// matches reports whether the event concerns the options file.
func (w *Watcher) matches(ev fsnotify.Event) bool {
	if ev.Name != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

// reload re-reads the options file and notifies observers of changed
// targets. A reload failure leaves the previous targets standing.
func (w *Watcher) reload() {
	before := w.registry.Targets()
	if err := Load(w.path, w.registry); err != nil {
		return
	}
	after := w.registry.Targets()

	for name, newValue := range after {
		if oldValue := before[name]; oldValue != newValue {
			w.notifier.Notify(Change{
				Name:     name,
				OldValue: oldValue,
				NewValue: newValue,
			})
		}
	}
}

// Close stops the watcher. Close is idempotent.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.done)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}
