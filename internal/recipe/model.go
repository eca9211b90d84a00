package recipe

import (
	"encoding/json"
	"strings"
)

// Recipe represents a single catalog entry extracted from the source channel.
type Recipe struct {
	ID           string   `json:"id" db:"id" validate:"required"`
	Title        string   `json:"title" db:"title" validate:"required"`
	Description  string   `json:"description" db:"description"`
	Ingredients  []string `json:"ingredients" db:"ingredients"`
	Steps        []string `json:"steps" db:"steps"`
	Categories   []string `json:"categories" db:"categories"`
	Tags         []string `json:"tags" db:"tags"`
	SourcePostID int64    `json:"source_post_id" db:"source_post_id"`
	PostDate     string   `json:"post_date" db:"post_date"`
	Images       []string `json:"images" db:"images" validate:"dive,required"`
	Servings     string   `json:"servings,omitempty" db:"servings"`
	CookingTime  string   `json:"cooking_time,omitempty" db:"cooking_time"`
	Difficulty   string   `json:"difficulty,omitempty" db:"difficulty"`
	Cuisine      string   `json:"cuisine,omitempty" db:"cuisine"`
}

// UnmarshalJSON implements the json.Unmarshaler interface for Recipe.
// Missing sequences decode to empty slices so the rest of the package never
// has to tell nil from empty.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	type Alias Recipe // Create an alias to avoid infinite recursion
	aux := &struct{ *Alias }{Alias: (*Alias)(r)}

	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	r.Cuisine = strings.TrimSpace(r.Cuisine)
	r.Difficulty = strings.TrimSpace(r.Difficulty)
	r.Ingredients = orEmpty(r.Ingredients)
	r.Steps = orEmpty(r.Steps)
	r.Categories = orEmpty(r.Categories)
	r.Tags = orEmpty(r.Tags)
	r.Images = orEmpty(r.Images)

	return nil
}

// PrimaryCategory returns the first category, or "" when there is none.
func (r Recipe) PrimaryCategory() string {
	if len(r.Categories) == 0 {
		return ""
	}
	return r.Categories[0]
}

// Metadata describes where a dataset came from.
type Metadata struct {
	SourceChannel         string `json:"source_channel"`
	SourceChannelTitle    string `json:"source_channel_title"`
	ExtractionDate        string `json:"extraction_date"`
	TotalRecipes          int    `json:"total_recipes"`
	OriginalTotalMessages int    `json:"original_total_messages"`
}

// Dataset is the on-disk shape of the static recipe file.
type Dataset struct {
	Metadata Metadata `json:"metadata"`
	Recipes  []Recipe `json:"recipes" validate:"dive"`
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
