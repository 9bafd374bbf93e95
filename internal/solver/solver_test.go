package solver

import (
	"anvil-optimiser/internal/anvil"
	"anvil-optimiser/internal/models"
	"anvil-optimiser/internal/rules"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultTable(t testing.TB) *rules.Table {
	t.Helper()
	table, err := rules.Default()
	require.NoError(t, err)
	return table
}

func ench(id string, level int) models.Enchantment {
	return models.Enchantment{ID: models.EnchantmentID(id), Level: level}
}

func sword(enchantments ...models.Enchantment) models.Item {
	return models.NewItem("diamond_sword", enchantments...)
}

func book(enchantments ...models.Enchantment) models.Item {
	return models.NewBook(enchantments...)
}

// checkPlan verifies that the steps replay into the reported result.
func checkPlan(t *testing.T, items []models.Item, settings models.Settings, table *rules.Table, result *models.SearchResult) {
	t.Helper()

	pool := map[string]int{}
	for _, item := range items {
		pool[anvil.EncodeItem(item)]++
	}

	lvl, xp := 0, 0.0
	for _, step := range result.Steps {
		for _, used := range []models.Item{step.Left, step.Right} {
			k := anvil.EncodeItem(used)
			require.Greater(t, pool[k], 0, "step uses an item that is not available")
			pool[k]--
		}

		merged, err := anvil.Merge(step.Left, step.Right, settings, table)
		require.NoError(t, err)
		require.NotNil(t, merged)
		assert.Equal(t, anvil.EncodeItem(merged.Merged), anvil.EncodeItem(step.Merged))
		assert.Equal(t, merged.CostLvl, step.CostLvl)
		assert.Equal(t, 1+max(step.Left.PenaltyCount, step.Right.PenaltyCount), step.Merged.PenaltyCount)

		pool[anvil.EncodeItem(step.Merged)]++
		lvl += step.CostLvl
		xp += step.CostXp
	}

	assert.Len(t, result.Steps, len(items)-1)
	assert.Equal(t, lvl, result.CostLvl)
	assert.Equal(t, xp, result.CostXp)
	if len(result.Steps) > 0 {
		assert.Equal(t, result.Steps[len(result.Steps)-1].Merged, result.Merged)
	}
}

func TestSolve_SingleItem(t *testing.T) {
	table := defaultTable(t)
	items := []models.Item{sword(ench("sharpness", 1))}

	solution, err := Solve(context.Background(), items, models.Settings{}, table, nil)
	require.NoError(t, err)
	require.NotNil(t, solution.Result)

	assert.Equal(t, items[0], solution.Result.Merged)
	assert.Equal(t, 0, solution.Result.CostLvl)
	assert.Equal(t, 0.0, solution.Result.CostXp)
	assert.Empty(t, solution.Result.Steps)
}

func TestSolve_TwoItems(t *testing.T) {
	table := defaultTable(t)
	items := []models.Item{sword(ench("sharpness", 1)), sword(ench("sharpness", 1))}

	solution, err := Solve(context.Background(), items, models.Settings{}, table, nil)
	require.NoError(t, err)
	require.NotNil(t, solution.Result)

	assert.Equal(t, 2, solution.Result.CostLvl)
	assert.Equal(t, []models.Enchantment{ench("sharpness", 2)}, solution.Result.Merged.Enchantments)
	assert.Len(t, solution.Result.Steps, 1)
}

func TestSolve_PrefersCheaperOrder(t *testing.T) {
	table := defaultTable(t)
	items := []models.Item{sword(), book(ench("sharpness", 1)), book(ench("unbreaking", 1))}
	settings := models.Settings{Mode: models.ModeLevels}

	solution, err := Solve(context.Background(), items, settings, table, nil)
	require.NoError(t, err)
	require.NotNil(t, solution.Result)

	// applying both books to the sword one after the other costs 1 + (1 + 1); combining the
	// books first costs 1 + (1 + 2)
	assert.Equal(t, 3, solution.Result.CostLvl)
	assert.Equal(t, models.ItemType("diamond_sword"), solution.Result.Merged.Type)
	assert.ElementsMatch(t, []models.Enchantment{ench("sharpness", 1), ench("unbreaking", 1)}, solution.Result.Merged.Enchantments)
	checkPlan(t, items, settings, table, solution.Result)
}

func TestSolve_Unsolvable(t *testing.T) {
	table := defaultTable(t)

	tests := []struct {
		name  string
		items []models.Item
	}{
		{"different item types", []models.Item{sword(ench("sharpness", 1)), models.NewItem("bow", ench("power", 1))}},
		{"book that does not apply", []models.Item{sword(), book(ench("power", 1))}},
		{"only conflicts", []models.Item{sword(ench("sharpness", 1)), book(ench("smite", 1))}},
		{"two books and a bow", []models.Item{models.NewItem("bow"), book(ench("sharpness", 1)), book(ench("smite", 1))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			solution, err := Solve(context.Background(), tt.items, models.Settings{}, table, nil)
			require.NoError(t, err)
			assert.Nil(t, solution.Result)
		})
	}
}

func TestSolve_InvalidInput(t *testing.T) {
	table := defaultTable(t)

	_, err := Solve(context.Background(), nil, models.Settings{}, table, nil)
	var cfgErr *rules.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))

	_, err = Solve(context.Background(), []models.Item{sword(), book(ench("sharpnes", 1))}, models.Settings{}, table, nil)
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "sharpness", cfgErr.Suggestion)
}

func TestSolve_MatchesBruteForce(t *testing.T) {
	table := defaultTable(t)

	inputs := map[string][]models.Item{
		"sword and three books": {
			sword(ench("sharpness", 2)),
			book(ench("sharpness", 2)),
			book(ench("unbreaking", 3)),
			book(ench("looting", 3), ench("mending", 1)),
		},
		"conflicting books": {
			sword(ench("smite", 3)),
			book(ench("sharpness", 4), ench("fire_aspect", 2)),
			book(ench("knockback", 2)),
			book(ench("sharpness", 4)),
		},
		"penalised items": {
			{Type: "diamond_pickaxe", Enchantments: []models.Enchantment{ench("efficiency", 4)}, PenaltyCount: 2},
			{Type: "diamond_pickaxe", Enchantments: []models.Enchantment{ench("efficiency", 4), ench("fortune", 3)}, PenaltyCount: 1},
			book(ench("silk_touch", 1)),
			book(ench("unbreaking", 3), ench("mending", 1)),
		},
		"armor": {
			models.NewItem("diamond_boots", ench("protection", 3)),
			book(ench("feather_falling", 4)),
			book(ench("depth_strider", 3), ench("frost_walker", 2)),
		},
		"expensive": {
			models.NewItem("diamond_chestplate", ench("thorns", 2)),
			models.NewItem("diamond_chestplate", ench("thorns", 2), ench("protection", 4)),
			book(ench("thorns", 3)),
			book(ench("curse_of_binding", 1), ench("unbreaking", 3)),
		},
	}

	variants := map[string]models.Settings{
		"java lvl":         {Mode: models.ModeLevels},
		"java xp":          {Mode: models.ModeExperience},
		"bedrock lvl":      {Mode: models.ModeLevels, UseBedrock: true},
		"bedrock xp":       {Mode: models.ModeExperience, UseBedrock: true},
		"permissive":       {Mode: models.ModeLevels, AllowIncompatible: true, AllowOverMaxLevel: true, AllowTooExpensive: true},
		"permissive xp":    {Mode: models.ModeExperience, AllowTooExpensive: true},
		"incompatible lvl": {Mode: models.ModeLevels, AllowIncompatible: true},
	}

	for inputName, items := range inputs {
		for variantName, settings := range variants {
			t.Run(fmt.Sprintf("%s/%s", inputName, variantName), func(t *testing.T) {
				solution, err := Solve(context.Background(), items, settings, table, nil)
				require.NoError(t, err)

				expected, err := BruteForce(items, settings, table)
				require.NoError(t, err)

				if expected == nil {
					assert.Nil(t, solution.Result)
					return
				}
				require.NotNil(t, solution.Result)
				assert.Equal(t, expected.Cost(settings.Mode), solution.Result.Cost(settings.Mode))
				checkPlan(t, items, settings, table, solution.Result)
			})
		}
	}
}

func TestSolve_Deterministic(t *testing.T) {
	table := defaultTable(t)
	items := []models.Item{
		sword(ench("sharpness", 3)),
		book(ench("sharpness", 3)),
		book(ench("unbreaking", 2)),
		book(ench("unbreaking", 2), ench("looting", 1)),
		book(ench("mending", 1)),
	}
	settings := models.Settings{Mode: models.ModeExperience}

	first, err := Solve(context.Background(), items, settings, table, nil)
	require.NoError(t, err)
	second, err := Solve(context.Background(), items, settings, table, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSolve_InputOrderDoesNotChangeCost(t *testing.T) {
	table := defaultTable(t)
	items := []models.Item{
		sword(ench("sharpness", 3)),
		book(ench("sharpness", 3)),
		book(ench("unbreaking", 3)),
		book(ench("fire_aspect", 2)),
	}
	reversed := []models.Item{items[3], items[2], items[1], items[0]}

	a, err := Solve(context.Background(), items, models.Settings{}, table, nil)
	require.NoError(t, err)
	b, err := Solve(context.Background(), reversed, models.Settings{}, table, nil)
	require.NoError(t, err)

	require.NotNil(t, a.Result)
	require.NotNil(t, b.Result)
	assert.Equal(t, a.Result.CostLvl, b.Result.CostLvl)
}

func TestSolve_ClearsSuppliedCache(t *testing.T) {
	table := defaultTable(t)
	items := []models.Item{sword(ench("sharpness", 1)), sword(ench("sharpness", 1))}

	cache := NewMemoryCache()
	err := cache.Set(context.Background(), anvil.EncodeState(items), &CacheEntry{Unsolvable: true})
	require.NoError(t, err)

	solution, err := Solve(context.Background(), items, models.Settings{}, table, cache)
	require.NoError(t, err)
	require.NotNil(t, solution.Result)
	assert.Equal(t, 2, solution.Result.CostLvl)
	assert.Equal(t, 1, cache.Len())
}

func TestSolve_ReusesStates(t *testing.T) {
	table := defaultTable(t)
	items := []models.Item{
		sword(),
		book(ench("sharpness", 1)),
		book(ench("unbreaking", 1)),
		book(ench("looting", 1)),
		book(ench("knockback", 1)),
	}

	solution, err := Solve(context.Background(), items, models.Settings{}, table, nil)
	require.NoError(t, err)
	require.NotNil(t, solution.Result)

	assert.Greater(t, solution.Stats.CacheHits, int64(0))
	assert.Greater(t, solution.Stats.MergesAttempted, solution.Stats.MergesAccepted)
	assert.Equal(t, solution.Stats.CacheMisses, solution.Stats.StatesExpanded)
}

func TestSolve_Cancelled(t *testing.T) {
	table := defaultTable(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Solve(ctx, []models.Item{sword(), book(ench("sharpness", 1))}, models.Settings{}, table, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRequestKey(t *testing.T) {
	items := []models.Item{sword(ench("sharpness", 1)), book(ench("mending", 1))}
	reordered := []models.Item{items[1], items[0]}

	a := RequestKey(models.SolveRequest{Items: items})
	assert.Equal(t, a, RequestKey(models.SolveRequest{Items: reordered, Settings: models.Settings{Mode: models.ModeLevels}}))
	assert.NotEqual(t, a, RequestKey(models.SolveRequest{Items: items, Settings: models.Settings{Mode: models.ModeExperience}}))
	assert.NotEqual(t, a, RequestKey(models.SolveRequest{Items: items, Settings: models.Settings{UseBedrock: true}}))
}
