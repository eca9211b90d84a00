package recipe

import "sort"

// Difficulty labels recognised by the filter panel.
const (
	DifficultyEasy   = "Легко"
	DifficultyMedium = "Средне"
	DifficultyHard   = "Сложно"
)

// Categories returns every category used by the dataset, deduplicated and
// sorted ascending.
func Categories(recipes []Recipe) []string {
	seen := make(map[string]struct{})
	for _, r := range recipes {
		for _, c := range r.Categories {
			seen[c] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// Cuisines returns every cuisine set on at least one recipe, deduplicated and
// sorted ascending.
func Cuisines(recipes []Recipe) []string {
	seen := make(map[string]struct{})
	for _, r := range recipes {
		if r.Cuisine != "" {
			seen[r.Cuisine] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// Difficulties returns the fixed difficulty scale, easiest first. It does
// not depend on the dataset, so unused labels are still offered.
func Difficulties() []string {
	return []string{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// IsDifficulty reports whether s is one of the recognised labels.
func IsDifficulty(s string) bool {
	switch s {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
