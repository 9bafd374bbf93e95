package models

type MergeResult struct {
	Merged  Item    `json:"merged"`
	CostLvl int     `json:"cost_lvl"`
	CostXp  float64 `json:"cost_xp"`
}

type MergeStep struct {
	Left    Item    `json:"left"`
	Right   Item    `json:"right"`
	Merged  Item    `json:"merged"`
	CostLvl int     `json:"cost_lvl"`
	CostXp  float64 `json:"cost_xp"`
}

// SearchResult is the optimal plan for reducing a set of items to one. CostLvl and CostXp are
// the totals over Steps.
type SearchResult struct {
	Merged  Item        `json:"merged"`
	CostLvl int         `json:"cost_lvl"`
	CostXp  float64     `json:"cost_xp"`
	Steps   []MergeStep `json:"steps"`
}

// Cost returns the total cost in the unit selected by mode.
func (r *SearchResult) Cost(mode Mode) float64 {
	if mode == ModeExperience {
		return r.CostXp
	}
	return float64(r.CostLvl)
}

func (s MergeStep) Cost(mode Mode) float64 {
	if mode == ModeExperience {
		return s.CostXp
	}
	return float64(s.CostLvl)
}
