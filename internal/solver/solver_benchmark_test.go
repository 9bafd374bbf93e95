package solver

import (
	"anvil-optimiser/internal/models"
	"context"
	"testing"
)

// sink avoids compiler eliminating results in benchmarks
var sink *Solution

func benchmarkItems(books int) []models.Item {
	pool := []models.Enchantment{
		ench("sharpness", 5),
		ench("unbreaking", 3),
		ench("looting", 3),
		ench("mending", 1),
		ench("fire_aspect", 2),
		ench("knockback", 2),
		ench("sweeping_edge", 3),
	}

	items := []models.Item{sword()}
	for i := 0; i < books && i < len(pool); i++ {
		items = append(items, book(pool[i]))
	}
	return items
}

func benchmarkSolve(b *testing.B, books int, mode models.Mode) {
	table := defaultTable(b)
	items := benchmarkItems(books)
	settings := models.Settings{Mode: mode}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		solution, err := Solve(context.Background(), items, settings, table, nil)
		if err != nil {
			b.Fatal(err)
		}
		sink = solution
	}
}

func BenchmarkSolve_FourBooks(b *testing.B) { benchmarkSolve(b, 4, models.ModeLevels) }

func BenchmarkSolve_SixBooks(b *testing.B) { benchmarkSolve(b, 6, models.ModeLevels) }

func BenchmarkSolve_SixBooksXp(b *testing.B) { benchmarkSolve(b, 6, models.ModeExperience) }
