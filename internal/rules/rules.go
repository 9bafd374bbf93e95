package rules

import (
	"anvil-optimiser/internal/models"
	"fmt"
	"sort"
)

type Edition string

const (
	Java    Edition = "java"
	Bedrock Edition = "bedrock"
)

var Editions = []Edition{Java, Bedrock}

func EditionFor(settings models.Settings) Edition {
	if settings.UseBedrock {
		return Bedrock
	}
	return Java
}

func ParseEdition(s string) (Edition, error) {
	switch Edition(s) {
	case Java, Bedrock:
		return Edition(s), nil
	}
	return "", fmt.Errorf("unknown edition %q", s)
}

// Entry holds the static anvil properties of one enchantment in one edition.
// Entries are shared by every caller of Lookup and must not be modified.
type Entry struct {
	ID                       models.EnchantmentID
	MaxLevel                 int
	WeightFromItem           int
	WeightFromBook           int
	CompatibleItems          map[models.ItemType]bool
	IncompatibleEnchantments map[models.EnchantmentID]bool
}

// Weight returns the cost multiplier for the enchantment depending on whether it comes from a
// book or from a regular item.
func (e *Entry) Weight(fromBook bool) int {
	if fromBook {
		return e.WeightFromBook
	}
	return e.WeightFromItem
}

func (e *Entry) AppliesTo(itemType models.ItemType) bool {
	return e.CompatibleItems[itemType]
}

func (e *Entry) ConflictsWith(id models.EnchantmentID) bool {
	return e.IncompatibleEnchantments[id]
}

type editionTable struct {
	itemTypes map[models.ItemType]bool
	entries   map[models.EnchantmentID]*Entry
}

// Table is the rule table for every loaded edition. It is populated once through
// LoadEdition and only read afterwards, so concurrent lookups are safe.
type Table struct {
	editions map[Edition]*editionTable
}

func NewTable() *Table {
	return &Table{editions: make(map[Edition]*editionTable)}
}

func (t *Table) edition(edition Edition) (*editionTable, error) {
	et, ok := t.editions[edition]
	if !ok {
		return nil, &ConfigurationError{Edition: edition, Reason: "rule table not loaded"}
	}
	return et, nil
}

func (t *Table) Lookup(id models.EnchantmentID, edition Edition) (*Entry, error) {
	et, err := t.edition(edition)
	if err != nil {
		return nil, err
	}

	entry, ok := et.entries[id]
	if !ok {
		return nil, &ConfigurationError{
			Edition:    edition,
			ID:         string(id),
			Reason:     "unknown enchantment",
			Suggestion: suggest(string(id), enchantmentNames(et)),
		}
	}

	return entry, nil
}

func (t *Table) HasItemType(itemType models.ItemType, edition Edition) bool {
	et, ok := t.editions[edition]
	if !ok {
		return false
	}
	return itemType == models.BookType || et.itemTypes[itemType]
}

// Enchantments returns the ids known to the edition, sorted.
func (t *Table) Enchantments(edition Edition) []models.EnchantmentID {
	et, ok := t.editions[edition]
	if !ok {
		return nil
	}

	ids := make([]models.EnchantmentID, 0, len(et.entries))
	for id := range et.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

// ItemTypes returns the non-book item types known to the edition, sorted.
func (t *Table) ItemTypes(edition Edition) []models.ItemType {
	et, ok := t.editions[edition]
	if !ok {
		return nil
	}

	types := make([]models.ItemType, 0, len(et.itemTypes))
	for itemType := range et.itemTypes {
		types = append(types, itemType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	return types
}

func enchantmentNames(et *editionTable) []string {
	names := make([]string, 0, len(et.entries))
	for id := range et.entries {
		names = append(names, string(id))
	}
	return names
}

func itemTypeNames(et *editionTable) []string {
	names := make([]string, 0, len(et.itemTypes)+1)
	for itemType := range et.itemTypes {
		names = append(names, string(itemType))
	}
	return append(names, string(models.BookType))
}
