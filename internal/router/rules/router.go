package rules_router

import (
	"anvil-optimiser/internal/models"
	"anvil-optimiser/internal/rules"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
)

type EnchantmentInfo struct {
	ID                       models.EnchantmentID   `json:"id"`
	MaxLevel                 int                    `json:"max_level"`
	WeightFromItem           int                    `json:"weight_from_item"`
	WeightFromBook           int                    `json:"weight_from_book"`
	CompatibleItems          []models.ItemType      `json:"compatible_items"`
	IncompatibleEnchantments []models.EnchantmentID `json:"incompatible_enchantments"`
}

type EditionInfo struct {
	Edition      rules.Edition     `json:"edition"`
	ItemTypes    []models.ItemType `json:"item_types"`
	Enchantments []EnchantmentInfo `json:"enchantments"`
}

func enchantmentInfo(entry *rules.Entry) EnchantmentInfo {
	info := EnchantmentInfo{
		ID:                       entry.ID,
		MaxLevel:                 entry.MaxLevel,
		WeightFromItem:           entry.WeightFromItem,
		WeightFromBook:           entry.WeightFromBook,
		CompatibleItems:          make([]models.ItemType, 0, len(entry.CompatibleItems)),
		IncompatibleEnchantments: make([]models.EnchantmentID, 0, len(entry.IncompatibleEnchantments)),
	}
	for itemType := range entry.CompatibleItems {
		info.CompatibleItems = append(info.CompatibleItems, itemType)
	}
	for id := range entry.IncompatibleEnchantments {
		info.IncompatibleEnchantments = append(info.IncompatibleEnchantments, id)
	}
	sort.Slice(info.CompatibleItems, func(i, j int) bool { return info.CompatibleItems[i] < info.CompatibleItems[j] })
	sort.Slice(info.IncompatibleEnchantments, func(i, j int) bool {
		return info.IncompatibleEnchantments[i] < info.IncompatibleEnchantments[j]
	})

	return info
}

func Bind(e *echo.Group, table *rules.Table) *echo.Group {
	e.GET("/:edition", func(c echo.Context) error {
		edition, err := rules.ParseEdition(c.Param("edition"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}

		info := EditionInfo{
			Edition:      edition,
			ItemTypes:    table.ItemTypes(edition),
			Enchantments: []EnchantmentInfo{},
		}
		for _, id := range table.Enchantments(edition) {
			entry, err := table.Lookup(id, edition)
			if err != nil {
				return c.String(http.StatusInternalServerError, err.Error())
			}
			info.Enchantments = append(info.Enchantments, enchantmentInfo(entry))
		}

		return c.JSON(http.StatusOK, info)
	})

	return e
}
