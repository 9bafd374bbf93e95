package solver

import (
	"anvil-optimiser/internal/anvil"
	"anvil-optimiser/internal/models"
)

// BruteForce walks every merge order without memoisation or pruning. It is exponential and
// only meant for cross-checking Solve on a handful of items.
func BruteForce(items []models.Item, settings models.Settings, table anvil.RuleLookup) (*models.SearchResult, error) {
	settings = settings.WithDefaults()

	if len(items) == 1 {
		return &models.SearchResult{Merged: items[0], Steps: []models.MergeStep{}}, nil
	}

	var best *models.SearchResult
	for i := range items {
		for j := range items {
			if i == j {
				continue
			}

			merged, err := anvil.Merge(items[i], items[j], settings, table)
			if err != nil {
				return nil, err
			}
			if merged == nil {
				continue
			}

			rest, err := BruteForce(successor(items, i, j, merged.Merged), settings, table)
			if err != nil {
				return nil, err
			}
			if rest == nil {
				continue
			}

			candidate := &models.SearchResult{
				Merged:  rest.Merged,
				CostLvl: merged.CostLvl + rest.CostLvl,
				CostXp:  merged.CostXp + rest.CostXp,
				Steps: append([]models.MergeStep{{
					Left:    items[i],
					Right:   items[j],
					Merged:  merged.Merged,
					CostLvl: merged.CostLvl,
					CostXp:  merged.CostXp,
				}}, rest.Steps...),
			}
			if best == nil || candidate.Cost(settings.Mode) < best.Cost(settings.Mode) {
				best = candidate
			}
		}
	}

	return best, nil
}
