package anvil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelsToXp(t *testing.T) {
	tests := []struct {
		levels int
		xp     float64
	}{
		{0, 0},
		{1, 7},
		{2, 16},
		{16, 352},
		{17, 394},
		{20, 550},
		{30, 1395},
		{31, 1507},
		{32, 1628},
		{39, 2727},
		{40, 2920},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.xp, LevelsToXp(tt.levels), "levels %d", tt.levels)
	}
}

func TestLevelsToXp_BandBoundaries(t *testing.T) {
	// each band is evaluated with its own formula, there is no carry over at the edges
	assert.Equal(t, 441.0, LevelsToXp(18))
	assert.Equal(t, 493.0, LevelsToXp(19))
	assert.Equal(t, 1758.0, LevelsToXp(33))
	assert.Equal(t, 0.0, LevelsToXp(-3))
}
