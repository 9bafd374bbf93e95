package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// ConfigurationError reports rule table gaps and requests that reference ids the rule table
// does not know about. It is never used for merges that are merely illegal.
type ConfigurationError struct {
	Edition    Edition
	ID         string
	Field      string
	Reason     string
	Suggestion string
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("configuration error")
	if e.Edition != "" {
		fmt.Fprintf(&b, " [%s]", e.Edition)
	}
	if e.ID != "" {
		fmt.Fprintf(&b, " %q", e.ID)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " field %s", e.Field)
	}
	fmt.Fprintf(&b, ": %s", e.Reason)
	if e.Suggestion != "" {
		fmt.Fprintf(&b, " (did you mean %q?)", e.Suggestion)
	}
	return b.String()
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// suggest returns the closest candidate within the edit distance limit, or "".
func suggest(target string, candidates []string) string {
	target = strings.ToLower(strings.TrimSpace(target))
	if target == "" {
		return ""
	}

	sort.Strings(candidates)
	best := ""
	bestDist := -1
	for _, cand := range candidates {
		dist := levenshtein.ComputeDistance(target, cand)
		if dist > levenshteinLimit(len(cand)) {
			continue
		}
		if bestDist == -1 || dist < bestDist {
			best = cand
			bestDist = dist
		}
	}

	return best
}
