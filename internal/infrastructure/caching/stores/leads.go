// Package stores provides concrete cache store implementations
package stores

import (
	"sync"
	"time"

	"github.com/leadrelay/leadrelay-go/internal/domain/entities"
)

// LeadCacheEntry holds the memoized result of one paginated fetch: the
// accumulated leads (bounded by the fetch cap) and the advisory flag set when
// the upstream still had more.
type LeadCacheEntry struct {
	Leads     []entities.Lead
	HasMore   bool
	FetchedAt time.Time
}

// LeadStore memoizes fetched leads per form id for the lifetime of the
// process. A cache hit is served as-is and re-filtered locally when the date
// window changes, trading staleness for responsiveness.
type LeadStore struct {
	entries map[string]*LeadCacheEntry
	clock   func() time.Time
	mu      sync.RWMutex
}

// NewLeadStore creates a lead cache. A nil clock defaults to time.Now.
func NewLeadStore(clock func() time.Time) *LeadStore {
	if clock == nil {
		clock = time.Now
	}
	return &LeadStore{
		entries: make(map[string]*LeadCacheEntry),
		clock:   clock,
	}
}

// Get retrieves the cached entry for a form id.
func (ls *LeadStore) Get(formID string) (*LeadCacheEntry, bool) {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	entry, exists := ls.entries[formID]
	return entry, exists
}

// Set stores a fetch result for a form id, replacing any prior entry.
func (ls *LeadStore) Set(formID string, leads []entities.Lead, hasMore bool) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.entries[formID] = &LeadCacheEntry{
		Leads:     leads,
		HasMore:   hasMore,
		FetchedAt: ls.clock().UTC(),
	}
}

// Invalidate drops the entry for a form id.
func (ls *LeadStore) Invalidate(formID string) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	delete(ls.entries, formID)
}

// Len reports the number of cached forms.
func (ls *LeadStore) Len() int {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	return len(ls.entries)
}
