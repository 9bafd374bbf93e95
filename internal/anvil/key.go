package anvil

import (
	"anvil-optimiser/internal/models"
	"sort"
	"strconv"
	"strings"
)

// EncodeItem renders an item independent of the order of its enchantments. Ids are quoted, so
// the rendering is exact for any identifier.
func EncodeItem(item models.Item) string {
	enchantments := item.CloneEnchantments()
	sort.Slice(enchantments, func(i, j int) bool {
		if enchantments[i].ID != enchantments[j].ID {
			return enchantments[i].ID < enchantments[j].ID
		}
		return enchantments[i].Level < enchantments[j].Level
	})

	var b strings.Builder
	b.WriteString(strconv.Quote(string(item.Type)))
	b.WriteByte('[')
	for i, e := range enchantments {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(string(e.ID)))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(e.Level))
	}
	b.WriteByte(']')
	b.WriteString(strconv.Itoa(item.PenaltyCount))

	return b.String()
}

// EncodeState returns the memoisation key of a multiset of items. Permutations of the items,
// or of the enchantments inside an item, produce the same key.
func EncodeState(items []models.Item) string {
	keys := make([]string, len(items))
	for i, item := range items {
		keys[i] = EncodeItem(item)
	}
	sort.Strings(keys)

	return strings.Join(keys, "|")
}
