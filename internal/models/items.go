package models

// BookType is the item type of an enchanted book. Books only ever merge with other books
// when they are on the left side of a merge.
const BookType ItemType = "enchanted_book"

// ItemType identifies the kind of equipment an item is, e.g. "diamond_sword".
type ItemType string

// EnchantmentID identifies an enchantment in the rule table, e.g. "sharpness".
type EnchantmentID string

type Enchantment struct {
	ID    EnchantmentID `json:"id" yaml:"id"`
	Level int           `json:"level" yaml:"level"`
}

// Item is treated as an immutable value. Anything producing a new item from an existing one
// must copy the enchantment slice first, see CloneEnchantments.
type Item struct {
	Type         ItemType      `json:"type" yaml:"type"`
	Enchantments []Enchantment `json:"enchantments" yaml:"enchantments"`
	PenaltyCount int           `json:"penalty_count" yaml:"penalty_count"`
}

func NewItem(itemType ItemType, enchantments ...Enchantment) Item {
	return Item{
		Type:         itemType,
		Enchantments: append([]Enchantment{}, enchantments...),
	}
}

func NewBook(enchantments ...Enchantment) Item {
	return NewItem(BookType, enchantments...)
}

func (item Item) IsBook() bool {
	return item.Type == BookType
}

// GetEnchantment returns the index of the enchantment with the given id, or -1.
func (item Item) GetEnchantment(id EnchantmentID) int {
	for i := 0; i < len(item.Enchantments); i++ {
		if item.Enchantments[i].ID == id {
			return i
		}
	}
	return -1
}

func (item Item) CloneEnchantments() []Enchantment {
	return append(make([]Enchantment, 0, len(item.Enchantments)), item.Enchantments...)
}
