package solver

import (
	"anvil-optimiser/internal/anvil"
	"anvil-optimiser/internal/models"
	"context"
	"math"

	"github.com/rs/zerolog/log"
)

// RuleTable is what the solver needs from the rule table: lookups for merging and request
// validation at the boundary.
type RuleTable interface {
	anvil.RuleLookup
	Validate(request models.SolveRequest) error
}

type Stats struct {
	StatesExpanded  int64 `json:"states_expanded"`
	MergesAttempted int64 `json:"merges_attempted"`
	MergesAccepted  int64 `json:"merges_accepted"`
	Pruned          int64 `json:"pruned"`
	CacheHits       int64 `json:"cache_hits"`
	CacheMisses     int64 `json:"cache_misses"`
}

// Solution is the outcome of a solve. Result is nil when the items cannot be combined into one.
type Solution struct {
	Result *models.SearchResult `json:"result"`
	Stats  Stats                `json:"stats"`
}

type searcher struct {
	ctx      context.Context
	settings models.Settings
	table    anvil.RuleLookup
	cache    Cache
	stats    Stats
}

// Solve finds the cheapest order of merges that combines items into a single item, in the unit
// selected by settings.Mode. cache may be nil, otherwise it is cleared before use since entries
// depend on the settings.
func Solve(ctx context.Context, items []models.Item, settings models.Settings, table RuleTable, cache Cache) (*Solution, error) {
	settings = settings.WithDefaults()

	err := table.Validate(models.SolveRequest{Items: items, Settings: settings})
	if err != nil {
		return nil, err
	}

	if cache == nil {
		cache = NewMemoryCache()
	} else if err := cache.Clear(ctx); err != nil {
		return nil, err
	}

	log.Debug().Msgf("Solving %d items (bedrock: %t, mode: %s)", len(items), settings.UseBedrock, settings.Mode)

	s := &searcher{
		ctx:      ctx,
		settings: settings,
		table:    table,
		cache:    cache,
	}

	start := append([]models.Item{}, items...)
	result, err := s.search(start, math.Inf(1))
	if err != nil {
		return nil, err
	}

	if s.stats.CacheHits+s.stats.CacheMisses > 0 {
		hitRate := float64(s.stats.CacheHits) / float64(s.stats.CacheHits+s.stats.CacheMisses) * 100
		log.Debug().Msgf("State cache: %d hits, %d misses (%.1f%% hit rate)", s.stats.CacheHits, s.stats.CacheMisses, hitRate)
	}
	if result == nil {
		log.Debug().Msg("No merge order combines all items")
	} else {
		log.Debug().Msgf("Best plan: %d steps, %d levels, %.1f xp", len(result.Steps), result.CostLvl, result.CostXp)
	}

	return &Solution{Result: result, Stats: s.stats}, nil
}

func (s *searcher) cost(result *models.MergeResult) float64 {
	if s.settings.Mode == models.ModeExperience {
		return result.CostXp
	}
	return float64(result.CostLvl)
}

// search returns the cheapest completion of items costing strictly less than budget, or nil.
// Any non-nil result is the true optimum for the state, which is what makes it safe to cache
// regardless of the budget it was found under.
func (s *searcher) search(items []models.Item, budget float64) (*models.SearchResult, error) {
	if err := s.ctx.Err(); err != nil {
		return nil, err
	}

	if len(items) == 1 {
		if budget <= 0 {
			return nil, nil
		}
		return &models.SearchResult{Merged: items[0], Steps: []models.MergeStep{}}, nil
	}

	key := anvil.EncodeState(items)
	cached, err := s.cache.Get(s.ctx, key)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		switch {
		case cached.Unsolvable:
			s.stats.CacheHits++
			return nil, nil
		case cached.Result != nil:
			s.stats.CacheHits++
			if cached.Result.Cost(s.settings.Mode) < budget {
				return cached.Result, nil
			}
			return nil, nil
		case budget <= cached.LowerBound:
			s.stats.CacheHits++
			return nil, nil
		}
	}
	s.stats.CacheMisses++
	s.stats.StatesExpanded++

	bound := budget
	var best *models.SearchResult

	// merge is asymmetric so both (i, j) and (j, i) are tried
	for i := 0; i < len(items); i++ {
		for j := 0; j < len(items); j++ {
			if i == j {
				continue
			}

			s.stats.MergesAttempted++
			merged, err := anvil.Merge(items[i], items[j], s.settings, s.table)
			if err != nil {
				return nil, err
			}
			if merged == nil {
				continue
			}
			s.stats.MergesAccepted++

			stepCost := s.cost(merged)
			if stepCost >= bound {
				s.stats.Pruned++
				continue
			}

			rest, err := s.search(successor(items, i, j, merged.Merged), bound-stepCost)
			if err != nil {
				return nil, err
			}
			if rest == nil {
				continue
			}

			steps := make([]models.MergeStep, 0, len(rest.Steps)+1)
			steps = append(steps, models.MergeStep{
				Left:    items[i],
				Right:   items[j],
				Merged:  merged.Merged,
				CostLvl: merged.CostLvl,
				CostXp:  merged.CostXp,
			})
			steps = append(steps, rest.Steps...)

			best = &models.SearchResult{
				Merged:  rest.Merged,
				CostLvl: merged.CostLvl + rest.CostLvl,
				CostXp:  merged.CostXp + rest.CostXp,
				Steps:   steps,
			}
			bound = best.Cost(s.settings.Mode)
		}
	}

	var entry *CacheEntry
	switch {
	case best != nil:
		entry = &CacheEntry{Result: best}
	case math.IsInf(budget, 1):
		entry = &CacheEntry{Unsolvable: true}
	default:
		lowerBound := budget
		if cached != nil && cached.LowerBound > lowerBound {
			lowerBound = cached.LowerBound
		}
		entry = &CacheEntry{LowerBound: lowerBound}
	}
	if err := s.cache.Set(s.ctx, key, entry); err != nil {
		return nil, err
	}

	return best, nil
}

// successor returns a new multiset without positions i and j, plus merged.
func successor(items []models.Item, i int, j int, merged models.Item) []models.Item {
	next := make([]models.Item, 0, len(items)-1)
	for k := 0; k < len(items); k++ {
		if k != i && k != j {
			next = append(next, items[k])
		}
	}
	return append(next, merged)
}
