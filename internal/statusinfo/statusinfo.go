// Package statusinfo computes the small derived strings the statusline
// renders: the search match counter and the macro recording indicator.
//
// The search counter is memoized in an expiring cache with a short TTL so
// repeated render ticks within the window reuse the computed string. The
// recording indicator is plain state flipped by recording events.
package statusinfo

import (
	"fmt"
	"sync"
	"time"

	"github.com/dshills/zenmode/internal/cache"
	"github.com/dshills/zenmode/internal/editor"
)

// searchKey memoizes one search-count result per (active, pattern) pair.
type searchKey struct {
	active  bool
	pattern string
}

// Default tuning for the search counter.
const (
	// DefaultTTL is how long a computed counter stays fresh.
	DefaultTTL = 500 * time.Millisecond

	// DefaultBudget bounds how long one count computation may take so
	// rendering is never blocked noticeably.
	DefaultBudget = 20 * time.Millisecond

	// DefaultMaxEntries bounds the memo cache.
	DefaultMaxEntries = 16
)

// Config configures a Provider.
type Config struct {
	// Search is the host's search facility. Required.
	Search editor.SearchState

	// TTL overrides DefaultTTL when > 0.
	TTL time.Duration

	// Budget overrides DefaultBudget when > 0.
	Budget time.Duration

	// Now supplies time to the memo cache. Defaults to time.Now.
	Now func() time.Time
}

// Provider computes statusline info strings.
type Provider struct {
	mu sync.Mutex

	search editor.SearchState
	memo   *cache.Cache[searchKey, string]
	budget time.Duration

	recording bool
	register  string
}

// New creates a provider.
func New(cfg Config) *Provider {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	budget := cfg.Budget
	if budget <= 0 {
		budget = DefaultBudget
	}
	return &Provider{
		search: cfg.Search,
		memo: cache.New[searchKey, string](cache.Config{
			MaxSize: DefaultMaxEntries,
			TTL:     ttl,
			Now:     cfg.Now,
		}),
		budget: budget,
	}
}

// SearchInfo returns a short counter like " 3/12" for the active search,
// or the empty string when no search is active or it has no matches.
// Results are memoized per (active, pattern) for the cache TTL.
func (p *Provider) SearchInfo() string {
	pattern, active := p.search.ActiveSearch()
	if !active {
		return ""
	}

	key := searchKey{active: active, pattern: pattern}
	if s, ok := p.memo.Get(key); ok {
		return s
	}

	current, total, err := p.search.SearchCount(p.budget)
	if err != nil || total == 0 {
		// Cache the empty result too; a failed count within the TTL
		// window would otherwise recompute on every render tick.
		p.memo.Set(key, "")
		return ""
	}

	s := fmt.Sprintf(" %d/%d", current, total)
	p.memo.Set(key, s)
	return s
}

// MacroInfo returns the recording indicator, e.g. "recording @q", or the
// empty string when no macro is being recorded.
func (p *Provider) MacroInfo() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.recording {
		return ""
	}
	if p.register == "" {
		return "recording"
	}
	return "recording @" + p.register
}

// RecordingStarted marks a macro recording into register as in progress.
// Wired to the recording-enter event.
func (p *Provider) RecordingStarted(register string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.recording = true
	p.register = register
}

// RecordingStopped clears the recording indicator. Wired to the
// recording-leave event.
func (p *Provider) RecordingStopped() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.recording = false
	p.register = ""
}

// InvalidateSearch empties the memo cache. Wired to the search-cleared
// event.
func (p *Provider) InvalidateSearch() {
	p.memo.Clear()
}

// GC sweeps expired memo entries. Wired to low-frequency triggers.
func (p *Provider) GC() {
	p.memo.GC()
}

// CacheStats returns the memo cache statistics.
func (p *Provider) CacheStats() cache.Stats {
	return p.memo.Stats()
}
