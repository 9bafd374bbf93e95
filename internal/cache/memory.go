package cache

import (
	"anvil-optimiser/internal/solver"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore is a SolutionStore whose entries expire after a fixed time. The API keeps
// recent responses here so repeated requests skip both the solver and the database.
type MemoryStore struct {
	items *gocache.Cache
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{items: gocache.New(ttl, 2*ttl)}
}

func (c *MemoryStore) Store(key string, solution *solver.Solution) error {
	c.items.SetDefault(key, solution)
	return nil
}

func (c *MemoryStore) Get(key string) (*solver.Solution, error) {
	value, ok := c.items.Get(key)
	if !ok {
		return nil, nil
	}
	return value.(*solver.Solution), nil
}

func (c *MemoryStore) Keys() ([]string, error) {
	items := c.items.Items()
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	return keys, nil
}

func (c *MemoryStore) Purge() error {
	c.items.Flush()
	return nil
}
