package match

import (
	"sort"
)

// SuggestThreshold is the minimum normalized similarity for a suggestion.
const SuggestThreshold = 0.5

// Suggest returns up to limit candidates that resemble name, best first.
// Ties are broken by name so the result is deterministic.
func Suggest(name string, candidates []string, limit int) []string {
	if limit <= 0 {
		return nil
	}

	type scored struct {
		name  string
		score float64
	}

	var ranked []scored

	for _, c := range candidates {
		if c == name {
			continue
		}

		score := NormalizedLevenshteinScore(name, c)
		if score < SuggestThreshold {
			continue
		}

		ranked = append(ranked, scored{name: c, score: score})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}

		return ranked[i].name < ranked[j].name
	})

	out := make([]string, 0, min(limit, len(ranked)))
	for i := 0; i < len(ranked) && i < limit; i++ {
		out = append(out, ranked[i].name)
	}

	return out
}
