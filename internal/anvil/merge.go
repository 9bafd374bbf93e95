package anvil

import (
	"anvil-optimiser/internal/models"
	"anvil-optimiser/internal/rules"
)

// RuleLookup is the part of the rule table the merge evaluator needs.
type RuleLookup interface {
	Lookup(id models.EnchantmentID, edition rules.Edition) (*rules.Entry, error)
}

// Merge combines right into left the way an anvil does. A nil result with a nil error means
// the merge is not possible or not worth doing: a book on the left with a non-book on the
// right, no enchantment of right changed anything, or the cost is too expensive. Errors are
// only returned for enchantments the rule table does not know.
func Merge(left models.Item, right models.Item, settings models.Settings, table RuleLookup) (*models.MergeResult, error) {
	if left.IsBook() && !right.IsBook() {
		return nil, nil
	}

	edition := rules.EditionFor(settings)
	fromBook := right.IsBook()

	resultType := left.Type
	resultEnchantments := left.CloneEnchantments()
	resultPenaltyCount := 1 + max(left.PenaltyCount, right.PenaltyCount)
	cost := left.PenaltyCount + right.PenaltyCount
	success := false

	for _, r := range right.Enchantments {
		entry, err := table.Lookup(r.ID, edition)
		if err != nil {
			return nil, err
		}
		w := entry.Weight(fromBook)

		if idx := indexOf(resultEnchantments, r.ID); idx >= 0 {
			l := &resultEnchantments[idx]
			switch {
			case l.Level > r.Level:
				// nothing to gain
			case l.Level == r.Level:
				if !settings.AllowOverMaxLevel && l.Level >= entry.MaxLevel {
					continue
				}
				l.Level++
				if settings.UseBedrock {
					cost += w
				} else {
					cost += w * l.Level
				}
				success = true
			default:
				previous := l.Level
				l.Level = r.Level
				if settings.UseBedrock {
					cost += w * (r.Level - previous)
				} else {
					cost += w * r.Level
				}
				success = true
			}
			continue
		}

		if !entry.AppliesTo(resultType) {
			continue
		}

		if !settings.AllowIncompatible {
			conflict, err := hasConflict(resultEnchantments, r.ID, edition, table)
			if err != nil {
				return nil, err
			}
			if conflict {
				// java still charges a level for every rejected enchantment
				if !settings.UseBedrock {
					cost++
				}
				continue
			}
		}

		resultEnchantments = append(resultEnchantments, r)
		cost += w * r.Level
		success = true
	}

	if !settings.AllowTooExpensive && cost > TooExpensiveLevel {
		success = false
	}
	if !success {
		return nil, nil
	}

	return &models.MergeResult{
		Merged: models.Item{
			Type:         resultType,
			Enchantments: resultEnchantments,
			PenaltyCount: resultPenaltyCount,
		},
		CostLvl: cost,
		CostXp:  LevelsToXp(cost),
	}, nil
}

func indexOf(enchantments []models.Enchantment, id models.EnchantmentID) int {
	for i := 0; i < len(enchantments); i++ {
		if enchantments[i].ID == id {
			return i
		}
	}
	return -1
}

// hasConflict reports whether any enchantment already on the result lists id as incompatible.
// Only the existing enchantments' lists are consulted.
func hasConflict(enchantments []models.Enchantment, id models.EnchantmentID, edition rules.Edition, table RuleLookup) (bool, error) {
	for _, e := range enchantments {
		entry, err := table.Lookup(e.ID, edition)
		if err != nil {
			return false, err
		}
		if entry.ConflictsWith(id) {
			return true, nil
		}
	}
	return false, nil
}
