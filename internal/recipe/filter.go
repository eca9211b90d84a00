package recipe

import (
	"slices"
	"strings"
)

// Filter narrows the catalog. The zero value matches every recipe.
type Filter struct {
	Search     string
	Categories []string
	Cuisines   []string
	Difficulty string
	MaxTime    *int
}

// HasConstraints reports whether any facet constraint is set. Search text is
// deliberately not counted: the list view treats it separately.
func (f Filter) HasConstraints() bool {
	return len(f.Categories) > 0 || len(f.Cuisines) > 0 || f.Difficulty != "" || f.MaxTime != nil
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return f.Search == "" && !f.HasConstraints()
}

// Apply returns the recipes that satisfy every active constraint of f, in
// their original order. The input slice is never modified.
func Apply(recipes []Recipe, f Filter) []Recipe {
	out := make([]Recipe, 0, len(recipes))
	query := strings.ToLower(f.Search)
	for _, r := range recipes {
		if matches(r, f, query) {
			out = append(out, r)
		}
	}
	return out
}

// Matches reports whether a single recipe passes f.
func Matches(r Recipe, f Filter) bool {
	return matches(r, f, strings.ToLower(f.Search))
}

func matches(r Recipe, f Filter, query string) bool {
	if query != "" && !matchesSearch(r, query) {
		return false
	}

	if len(f.Categories) > 0 && !slices.ContainsFunc(f.Categories, func(c string) bool {
		return slices.Contains(r.Categories, c)
	}) {
		return false
	}

	if len(f.Cuisines) > 0 && (r.Cuisine == "" || !slices.Contains(f.Cuisines, r.Cuisine)) {
		return false
	}

	if f.Difficulty != "" && r.Difficulty != f.Difficulty {
		return false
	}

	if f.MaxTime != nil {
		// Recipes without a readable time are never hidden by the ceiling.
		if minutes, ok := ParseMinutes(r.CookingTime); ok && minutes > *f.MaxTime {
			return false
		}
	}

	return true
}

func matchesSearch(r Recipe, query string) bool {
	if strings.Contains(strings.ToLower(r.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Description), query) {
		return true
	}
	for _, ing := range r.Ingredients {
		if strings.Contains(strings.ToLower(ing), query) {
			return true
		}
	}
	return false
}
