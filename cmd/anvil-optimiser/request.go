package main

import (
	"anvil-optimiser/internal/models"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// readRequest loads a solve request from a YAML file. JSON files load too since YAML is a
// superset of JSON.
func readRequest(path string) (models.SolveRequest, error) {
	var request models.SolveRequest

	raw, err := os.ReadFile(path)
	if err != nil {
		return request, fmt.Errorf("failed to read request file: %w", err)
	}

	err = yaml.Unmarshal(raw, &request)
	if err != nil {
		return request, fmt.Errorf("failed to parse request file %s: %w", path, err)
	}

	request.Settings = request.Settings.WithDefaults()
	return request, nil
}

func formatItem(item models.Item) string {
	var b strings.Builder
	b.WriteString(string(item.Type))

	if len(item.Enchantments) > 0 {
		parts := make([]string, 0, len(item.Enchantments))
		for _, e := range item.Enchantments {
			parts = append(parts, fmt.Sprintf("%s %d", e.ID, e.Level))
		}
		fmt.Fprintf(&b, " [%s]", strings.Join(parts, ", "))
	}
	if item.PenaltyCount > 0 {
		fmt.Fprintf(&b, " (penalty %d)", item.PenaltyCount)
	}

	return b.String()
}

// writePlan prints one line per merge step followed by the totals.
func writePlan(w io.Writer, result *models.SearchResult) {
	for i, step := range result.Steps {
		fmt.Fprintf(w, "%d. %s + %s -> %s: %d levels, %g xp\n",
			i+1, formatItem(step.Left), formatItem(step.Right), formatItem(step.Merged), step.CostLvl, step.CostXp)
	}
	fmt.Fprintf(w, "total: %d levels, %g xp for %s\n", result.CostLvl, result.CostXp, formatItem(result.Merged))
}
