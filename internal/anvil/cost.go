package anvil

// TooExpensiveLevel is the highest level cost the anvil accepts without AllowTooExpensive.
const TooExpensiveLevel = 39

// LevelsToXp converts a level cost into the experience points needed to gain that many levels
// from zero. The result is not rounded; bands above 16 levels produce half points.
func LevelsToXp(levels int) float64 {
	l := float64(levels)
	switch {
	case levels <= 0:
		return 0
	case levels <= 16:
		return l*l + 6*l
	case levels <= 31:
		return 2.5*l*l - 40.5*l + 360
	default:
		return 4.5*l*l - 162.5*l + 2220
	}
}
