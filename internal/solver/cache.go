package solver

import (
	"anvil-optimiser/internal/anvil"
	"anvil-optimiser/internal/models"
	"context"
	"fmt"
	"sync"
)

// CacheEntry is what the solver knows about one multiset of items. Exactly one of the
// following holds:
//   - Result is the cheapest way to reduce the state to a single item
//   - Unsolvable is set, no sequence of merges reduces the state to one item
//   - LowerBound, no completion cheaper than it exists (learned while pruning)
type CacheEntry struct {
	Result     *models.SearchResult
	Unsolvable bool
	LowerBound float64
}

// Cache interface for the per-solve memo table
type Cache interface {
	// Get returns nil, nil on a miss
	Get(ctx context.Context, stateKey string) (*CacheEntry, error)

	Set(ctx context.Context, stateKey string, entry *CacheEntry) error

	// Clear removes all entries from the cache
	Clear(ctx context.Context) error
}

// MemoryCache implements Cache using in-memory sync.Map
type MemoryCache struct {
	cache *sync.Map
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		cache: &sync.Map{},
	}
}

func (m *MemoryCache) Get(ctx context.Context, stateKey string) (*CacheEntry, error) {
	if val, ok := m.cache.Load(stateKey); ok {
		return val.(*CacheEntry), nil
	}
	return nil, nil // Cache miss
}

func (m *MemoryCache) Set(ctx context.Context, stateKey string, entry *CacheEntry) error {
	m.cache.Store(stateKey, entry)
	return nil
}

func (m *MemoryCache) Clear(ctx context.Context) error {
	m.cache = &sync.Map{}
	return nil
}

// Len counts the stored states.
func (m *MemoryCache) Len() int {
	n := 0
	m.cache.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// RequestKey identifies a whole solve request: the starting state and every setting that
// changes the outcome. Stored solutions and response caches are keyed by it.
func RequestKey(request models.SolveRequest) string {
	return fmt.Sprintf("solve|%s|%s", request.Settings.WithDefaults().Signature(), anvil.EncodeState(request.Items))
}
