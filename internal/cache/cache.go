package cache

import "anvil-optimiser/internal/solver"

// SolutionStore keeps finished solutions keyed by solver.RequestKey.
type SolutionStore interface {
	Store(key string, solution *solver.Solution) error
	// Get returns nil, nil when nothing is stored for the key
	Get(key string) (*solver.Solution, error)
	Keys() ([]string, error)
	Purge() error
}
