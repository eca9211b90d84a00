package catalog

import (
	"slices"

	"recipebook/internal/recipe"
)

// The helpers below mirror the filter panel controls. Each returns a new
// Filter and leaves its argument untouched.

// Reset clears every facet constraint but keeps the search text.
func Reset(f recipe.Filter) recipe.Filter {
	return recipe.Filter{Search: f.Search}
}

// ToggleCategory selects category, or deselects it if already selected.
func ToggleCategory(f recipe.Filter, category string) recipe.Filter {
	f.Categories = toggle(f.Categories, category)
	return f
}

// ToggleCuisine selects cuisine, or deselects it if already selected.
func ToggleCuisine(f recipe.Filter, cuisine string) recipe.Filter {
	f.Cuisines = toggle(f.Cuisines, cuisine)
	return f
}

// ToggleDifficulty sets the difficulty, or clears it when it is already set to d.
func ToggleDifficulty(f recipe.Filter, d string) recipe.Filter {
	if f.Difficulty == d {
		f.Difficulty = ""
	} else {
		f.Difficulty = d
	}
	return f
}

// ToggleMaxTime sets the time ceiling, or clears it when it is already minutes.
func ToggleMaxTime(f recipe.Filter, minutes int) recipe.Filter {
	if f.MaxTime != nil && *f.MaxTime == minutes {
		f.MaxTime = nil
	} else {
		f.MaxTime = &minutes
	}
	return f
}

func toggle(set []string, v string) []string {
	if i := slices.Index(set, v); i >= 0 {
		return slices.Delete(slices.Clone(set), i, i+1)
	}
	return append(slices.Clone(set), v)
}
