package rules

import (
	"anvil-optimiser/internal/models"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

//go:embed data/java.json data/bedrock.json
var defaultData embed.FS

func fileName(edition Edition) string {
	return fmt.Sprintf("%s.json", edition)
}

// Default returns a table with the embedded data for both editions.
func Default() (*Table, error) {
	t := NewTable()
	for _, edition := range Editions {
		raw, err := defaultData.ReadFile("data/" + fileName(edition))
		if err != nil {
			return nil, err
		}
		if err := t.LoadEdition(edition, raw); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// LoadDir reads java.json and bedrock.json from dir.
func LoadDir(dir string) (*Table, error) {
	t := NewTable()
	for _, edition := range Editions {
		path := filepath.Join(dir, fileName(edition))
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read rule table %s: %w", path, err)
		}
		if err := t.LoadEdition(edition, raw); err != nil {
			return nil, err
		}
		log.Debug().Msgf("Loaded %s rule table from %s", edition, path)
	}

	return t, nil
}

// Load returns the embedded tables when dir is empty, otherwise the tables in dir.
func Load(dir string) (*Table, error) {
	if dir == "" {
		return Default()
	}
	return LoadDir(dir)
}

// LoadEdition parses a rule table dump of the form
//
//	{"item": ["diamond_sword", ...], "data": {"sharpness": {"maxLevel": 5, ...}, ...}}
//
// and replaces any table previously loaded for the edition. Every entry must be complete.
func (t *Table) LoadEdition(edition Edition, raw []byte) error {
	if !gjson.ValidBytes(raw) {
		return &ConfigurationError{Edition: edition, Reason: "rule table is not valid JSON"}
	}
	doc := gjson.ParseBytes(raw)

	items := doc.Get("item")
	if !items.IsArray() {
		return &ConfigurationError{Edition: edition, Field: "item", Reason: "expected an array of item types"}
	}
	data := doc.Get("data")
	if !data.IsObject() {
		return &ConfigurationError{Edition: edition, Field: "data", Reason: "expected an object of enchantments"}
	}

	et := &editionTable{
		itemTypes: make(map[models.ItemType]bool),
		entries:   make(map[models.EnchantmentID]*Entry),
	}
	for _, it := range items.Array() {
		if it.Type != gjson.String || it.String() == "" {
			return &ConfigurationError{Edition: edition, Field: "item", Reason: "item types must be non-empty strings"}
		}
		et.itemTypes[models.ItemType(it.String())] = true
	}

	var parseErr error
	data.ForEach(func(key, value gjson.Result) bool {
		entry, err := parseEntry(edition, key.String(), value)
		if err != nil {
			parseErr = err
			return false
		}
		et.entries[entry.ID] = entry
		return true
	})
	if parseErr != nil {
		return parseErr
	}

	for id, entry := range et.entries {
		for other := range entry.IncompatibleEnchantments {
			if _, ok := et.entries[other]; !ok {
				return &ConfigurationError{
					Edition: edition,
					ID:      string(id),
					Field:   "incompatibleEnchantments",
					Reason:  fmt.Sprintf("references unknown enchantment %q", other),
				}
			}
		}
	}

	t.editions[edition] = et
	log.Debug().Msgf("Rule table %s: %d enchantments, %d item types", edition, len(et.entries), len(et.itemTypes))

	return nil
}

func parseEntry(edition Edition, id string, value gjson.Result) (*Entry, error) {
	if id == "" {
		return nil, &ConfigurationError{Edition: edition, Reason: "empty enchantment id"}
	}
	if !value.IsObject() {
		return nil, &ConfigurationError{Edition: edition, ID: id, Reason: "entry must be an object"}
	}

	positiveInt := func(field string) (int, error) {
		v := value.Get(field)
		if !v.Exists() {
			return 0, &ConfigurationError{Edition: edition, ID: id, Field: field, Reason: "missing"}
		}
		if v.Type != gjson.Number || v.Int() < 1 || float64(v.Int()) != v.Float() {
			return 0, &ConfigurationError{Edition: edition, ID: id, Field: field, Reason: "must be a positive integer"}
		}
		return int(v.Int()), nil
	}
	stringSet := func(field string) ([]string, error) {
		v := value.Get(field)
		if !v.Exists() {
			return nil, &ConfigurationError{Edition: edition, ID: id, Field: field, Reason: "missing"}
		}
		if !v.IsArray() {
			return nil, &ConfigurationError{Edition: edition, ID: id, Field: field, Reason: "must be an array"}
		}
		values := make([]string, 0)
		for _, s := range v.Array() {
			if s.Type != gjson.String {
				return nil, &ConfigurationError{Edition: edition, ID: id, Field: field, Reason: "must only contain strings"}
			}
			values = append(values, s.String())
		}
		return values, nil
	}

	maxLevel, err := positiveInt("maxLevel")
	if err != nil {
		return nil, err
	}
	weightFromItem, err := positiveInt("weightFromItem")
	if err != nil {
		return nil, err
	}
	weightFromBook, err := positiveInt("weightFromBook")
	if err != nil {
		return nil, err
	}
	compatible, err := stringSet("compatibleItems")
	if err != nil {
		return nil, err
	}
	incompatible, err := stringSet("incompatibleEnchantments")
	if err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:                       models.EnchantmentID(id),
		MaxLevel:                 maxLevel,
		WeightFromItem:           weightFromItem,
		WeightFromBook:           weightFromBook,
		CompatibleItems:          make(map[models.ItemType]bool, len(compatible)),
		IncompatibleEnchantments: make(map[models.EnchantmentID]bool, len(incompatible)),
	}
	for _, c := range compatible {
		entry.CompatibleItems[models.ItemType(c)] = true
	}
	for _, c := range incompatible {
		entry.IncompatibleEnchantments[models.EnchantmentID(c)] = true
	}

	return entry, nil
}
