package zen

import (
	"os"
	"path/filepath"
	"sync"
)

// FlagStore persists the focus-mode active flag as a single byte: "1" for
// active, "0" or a missing/empty file for inactive. Writes are
// write-through: the in-memory value updates immediately and the durable
// write happens in the background, its failure unobserved. A failed write
// only means the state does not survive restart.
type FlagStore struct {
	mu sync.Mutex

	path   string
	cached bool
	loaded bool

	// wmu serializes background writes so rapid saves cannot interleave.
	wmu sync.Mutex
	wg  sync.WaitGroup
}

// NewFlagStore creates a flag store backed by the file at path.
func NewFlagStore(path string) *FlagStore {
	return &FlagStore{path: path}
}

// Load returns the persisted flag. The first call reads the file
// synchronously (startup only); later calls return the in-memory value.
// A missing, unreadable, or garbled file reads as inactive.
func (s *FlagStore) Load() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return s.cached
	}
	s.loaded = true

	data, err := os.ReadFile(s.path)
	if err != nil {
		s.cached = false
		return false
	}
	s.cached = len(data) > 0 && data[0] == '1'
	return s.cached
}

// Save records the flag in memory immediately and enqueues the durable
// write in the background. Callers never wait on or observe the write.
func (s *FlagStore) Save(active bool) {
	s.mu.Lock()
	s.cached = active
	s.loaded = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.wmu.Lock()
		defer s.wmu.Unlock()

		// Read the value current at write time, not at Save time: a
		// delayed earlier write must not land a stale byte over a
		// later Save.
		s.mu.Lock()
		current := s.cached
		s.mu.Unlock()

		data := []byte("0")
		if current {
			data = []byte("1")
		}
		if dir := filepath.Dir(s.path); dir != "" {
			_ = os.MkdirAll(dir, 0o755)
		}
		_ = os.WriteFile(s.path, data, 0o644)
	}()
}

// Flush waits for in-flight background writes. Called on session teardown
// so the final state reaches disk before the process exits.
func (s *FlagStore) Flush() {
	s.wg.Wait()
}
