package catalog

import "recipebook/internal/recipe"

const (
	headingAll     = "Все рецепты"
	headingResults = "Результаты"

	// FeaturedCategories is how many categories the filter panel shows.
	FeaturedCategories = 8
	// DetailTags is how many tags the detail page shows.
	DetailTags = 10
)

// TimePresets are the cooking-time ceilings offered by the filter panel, in minutes.
var TimePresets = []int{30, 60, 120}

// Card is the compact form of a recipe used in lists and the daily spotlight.
type Card struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	PrimaryCategory string `json:"primary_category"`
	Cuisine         string `json:"cuisine,omitempty"`
	Difficulty      string `json:"difficulty,omitempty"`
	CookingTime     string `json:"cooking_time,omitempty"`
	CookingMinutes  string `json:"cooking_minutes,omitempty"`
	Cover           string `json:"cover"`
}

// NewCard builds the compact view of r.
func NewCard(r recipe.Recipe) Card {
	c := Card{
		ID:              r.ID,
		Title:           r.Title,
		Description:     r.Description,
		PrimaryCategory: r.PrimaryCategory(),
		Cuisine:         r.Cuisine,
		Difficulty:      r.Difficulty,
		CookingTime:     r.CookingTime,
		Cover:           recipe.CoverImage(r),
	}
	if c.PrimaryCategory == "" {
		c.PrimaryCategory = recipe.DefaultCategory
	}
	if m, ok := recipe.ParseMinutes(r.CookingTime); ok {
		c.CookingMinutes = recipe.FormatMinutes(m)
	}
	return c
}

// Detail is the full recipe plus the display fields of its page.
type Detail struct {
	recipe.Recipe
	Cover       string   `json:"cover"`
	DisplayTags []string `json:"display_tags"`
}

// NewDetail builds the detail view of r.
func NewDetail(r recipe.Recipe) Detail {
	tags := r.Tags
	if len(tags) > DetailTags {
		tags = tags[:DetailTags]
	}
	return Detail{
		Recipe:      r,
		Cover:       recipe.CoverImage(r),
		DisplayTags: append([]string{}, tags...),
	}
}

// ListView is everything the list page renders for one filter state.
type ListView struct {
	Heading       string `json:"heading"`
	Count         int    `json:"count"`
	CountLabel    string `json:"count_label"`
	ActiveFilters bool   `json:"active_filters"`
	Daily         *Card  `json:"daily,omitempty"`
	Recipes       []Card `json:"recipes"`
}

// Facets lists the options of the filter panel.
type Facets struct {
	Categories         []string `json:"categories"`
	FeaturedCategories []string `json:"featured_categories"`
	Cuisines           []string `json:"cuisines"`
	Difficulties       []string `json:"difficulties"`
	TimePresets        []int    `json:"time_presets"`
}

// CountLabel picks the noun shown next to a result count.
func CountLabel(n int) string {
	if n == 1 {
		return "рецепт"
	}
	return "рецептов"
}
