package statusinfo

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dshills/zenmode/internal/editor"
)

// countingSearch tracks how often SearchCount runs.
type countingSearch struct {
	mu      sync.Mutex
	pattern string
	active  bool
	current int
	total   int
	err     error
	calls   int
}

func (s *countingSearch) ActiveSearch() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pattern, s.active
}

func (s *countingSearch) SearchCount(time.Duration) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.current, s.total, s.err
}

func (s *countingSearch) set(pattern string, current, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pattern = pattern
	s.active = pattern != ""
	s.current = current
	s.total = total
}

func (s *countingSearch) countCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestProvider(search editor.SearchState, clk *editor.ManualClock) *Provider {
	return New(Config{
		Search: search,
		TTL:    500 * time.Millisecond,
		Now:    clk.Now,
	})
}

func TestProvider_SearchInfoFormat(t *testing.T) {
	search := &countingSearch{}
	search.set("needle", 3, 12)
	p := newTestProvider(search, editor.NewManualClock())

	if got := p.SearchInfo(); got != " 3/12" {
		t.Errorf("SearchInfo = %q, want \" 3/12\"", got)
	}
}

func TestProvider_NoActiveSearch(t *testing.T) {
	search := &countingSearch{}
	p := newTestProvider(search, editor.NewManualClock())

	if got := p.SearchInfo(); got != "" {
		t.Errorf("SearchInfo = %q, want empty", got)
	}
	if search.countCalls() != 0 {
		t.Error("SearchCount must not run without an active search")
	}
}

func TestProvider_NoMatches(t *testing.T) {
	search := &countingSearch{}
	search.set("needle", 0, 0)
	p := newTestProvider(search, editor.NewManualClock())

	if got := p.SearchInfo(); got != "" {
		t.Errorf("SearchInfo = %q, want empty for zero matches", got)
	}
}

func TestProvider_CountErrorIsEmpty(t *testing.T) {
	search := &countingSearch{err: errors.New("budget exceeded")}
	search.set("needle", 0, 0)
	p := newTestProvider(search, editor.NewManualClock())

	if got := p.SearchInfo(); got != "" {
		t.Errorf("SearchInfo = %q, want empty on count error", got)
	}
}

func TestProvider_MemoizesWithinTTL(t *testing.T) {
	search := &countingSearch{}
	search.set("needle", 1, 4)
	clk := editor.NewManualClock()
	p := newTestProvider(search, clk)

	for i := 0; i < 10; i++ {
		p.SearchInfo()
	}
	if got := search.countCalls(); got != 1 {
		t.Errorf("SearchCount ran %d times within TTL, want 1", got)
	}

	clk.Advance(600 * time.Millisecond)
	p.SearchInfo()
	if got := search.countCalls(); got != 2 {
		t.Errorf("SearchCount ran %d times after TTL, want 2", got)
	}
}

func TestProvider_PatternChangeRecomputes(t *testing.T) {
	search := &countingSearch{}
	search.set("first", 1, 2)
	p := newTestProvider(search, editor.NewManualClock())

	if got := p.SearchInfo(); got != " 1/2" {
		t.Fatalf("SearchInfo = %q, want \" 1/2\"", got)
	}

	search.set("second", 2, 9)
	if got := p.SearchInfo(); got != " 2/9" {
		t.Errorf("SearchInfo = %q, want \" 2/9\" for new pattern", got)
	}
}

func TestProvider_InvalidateSearch(t *testing.T) {
	search := &countingSearch{}
	search.set("needle", 1, 4)
	p := newTestProvider(search, editor.NewManualClock())

	p.SearchInfo()
	p.InvalidateSearch()
	p.SearchInfo()

	if got := search.countCalls(); got != 2 {
		t.Errorf("SearchCount ran %d times, want 2 after invalidation", got)
	}
}

func TestProvider_MacroInfo(t *testing.T) {
	p := newTestProvider(&countingSearch{}, editor.NewManualClock())

	if got := p.MacroInfo(); got != "" {
		t.Errorf("MacroInfo = %q, want empty when not recording", got)
	}

	p.RecordingStarted("q")
	if got := p.MacroInfo(); got != "recording @q" {
		t.Errorf("MacroInfo = %q, want \"recording @q\"", got)
	}

	p.RecordingStopped()
	if got := p.MacroInfo(); got != "" {
		t.Errorf("MacroInfo = %q, want empty after stop", got)
	}
}
