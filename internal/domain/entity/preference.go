package entity

import "sort"

// PreferenceVector maps every category in the fixed set to a normalized
// interest weight. A well-formed vector sums to 1.0 and every weight lies
// within the configured [min, max] bounds. The vector is owned exclusively
// by the learning engine; callers only ever see copies.
type PreferenceVector map[Category]float64

// UniformPreferences returns a fresh vector with the weight spread evenly
// across the category set. This is the lazy initial state for a new user.
func UniformPreferences() PreferenceVector {
	n := float64(CategoryCount())
	prefs := make(PreferenceVector, CategoryCount())
	for _, cat := range Categories() {
		prefs[cat] = 1.0 / n
	}
	return prefs
}

// Clone returns an independent copy of the vector.
func (p PreferenceVector) Clone() PreferenceVector {
	out := make(PreferenceVector, len(p))
	for cat, w := range p {
		out[cat] = w
	}
	return out
}

// Sum returns the total weight across all categories.
func (p PreferenceVector) Sum() float64 {
	var total float64
	for _, w := range p {
		total += w
	}
	return total
}

// TopInterests returns up to max categories whose weight strictly exceeds
// minWeight, ordered by descending weight. Ties break on canonical category
// order so the result is deterministic for identical vectors.
func (p PreferenceVector) TopInterests(minWeight float64, max int) []Category {
	ranked := make([]Category, 0, len(p))
	for _, cat := range Categories() {
		if p[cat] > minWeight {
			ranked = append(ranked, cat)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return p[ranked[i]] > p[ranked[j]]
	})
	if max > 0 && len(ranked) > max {
		ranked = ranked[:max]
	}
	return ranked
}
