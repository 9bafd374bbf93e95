package rules

import (
	"anvil-optimiser/internal/models"
	"fmt"
)

// Validate checks a solve request against the edition its settings select, so that the
// solver never meets an id it cannot look up.
func (t *Table) Validate(request models.SolveRequest) error {
	edition := EditionFor(request.Settings)
	et, err := t.edition(edition)
	if err != nil {
		return err
	}

	if _, err := models.ParseMode(string(request.Settings.Mode)); err != nil {
		return &ConfigurationError{Edition: edition, Field: "mode", Reason: err.Error()}
	}

	if len(request.Items) == 0 {
		return &ConfigurationError{Edition: edition, Field: "items", Reason: "at least one item is required"}
	}

	for i, item := range request.Items {
		field := fmt.Sprintf("items[%d]", i)

		if !t.HasItemType(item.Type, edition) {
			return &ConfigurationError{
				Edition:    edition,
				ID:         string(item.Type),
				Field:      field + ".type",
				Reason:     "unknown item type",
				Suggestion: suggest(string(item.Type), itemTypeNames(et)),
			}
		}

		if item.PenaltyCount < 0 {
			return &ConfigurationError{Edition: edition, Field: field + ".penalty_count", Reason: "must not be negative"}
		}

		seen := make(map[models.EnchantmentID]bool, len(item.Enchantments))
		for j, enchantment := range item.Enchantments {
			enchantmentField := fmt.Sprintf("%s.enchantments[%d]", field, j)

			if _, err := t.Lookup(enchantment.ID, edition); err != nil {
				if cfgErr, ok := err.(*ConfigurationError); ok {
					cfgErr.Field = enchantmentField
				}
				return err
			}
			if enchantment.Level < 1 {
				return &ConfigurationError{
					Edition: edition,
					ID:      string(enchantment.ID),
					Field:   enchantmentField + ".level",
					Reason:  "level must be at least 1",
				}
			}
			if seen[enchantment.ID] {
				return &ConfigurationError{
					Edition: edition,
					ID:      string(enchantment.ID),
					Field:   enchantmentField,
					Reason:  "duplicate enchantment on the same item",
				}
			}
			seen[enchantment.ID] = true
		}
	}

	return nil
}
