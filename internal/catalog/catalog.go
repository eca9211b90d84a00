// Package catalog serves the loaded recipe dataset: list views with the
// current filter applied, recipe pages, the daily spotlight and the options
// of the filter panel. The dataset is read once and never modified, so a
// Catalog is safe for concurrent use.
package catalog

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"recipebook/internal/recipe"
)

// Catalog holds an immutable dataset and answers view queries over it.
type Catalog struct {
	recipes  []recipe.Recipe
	byID     map[string]int
	metadata recipe.Metadata
	facets   Facets

	now      func() time.Time
	location *time.Location
	results  *resultCache
	log      *zap.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithClock sets the source of the current time used for the daily pick.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) { c.now = now }
}

// WithLocation sets the zone whose calendar day picks the daily recipe.
func WithLocation(loc *time.Location) Option {
	return func(c *Catalog) {
		if loc != nil {
			c.location = loc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Catalog) {
		if log != nil {
			c.log = log
		}
	}
}

// WithCacheSize bounds the number of memoized filter results. Zero disables memoization.
func WithCacheSize(n int) Option {
	return func(c *Catalog) { c.results = newResultCache(n) }
}

// New loads the dataset from store and builds a Catalog over it.
func New(ctx context.Context, store recipe.Store, opts ...Option) (*Catalog, error) {
	ds, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}

	c := &Catalog{
		now:      time.Now,
		location: time.Local,
		results:  newResultCache(256),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.init(ds)

	c.log.Info("catalog loaded",
		zap.Int("recipes", len(c.recipes)),
		zap.Int("categories", len(c.facets.Categories)),
		zap.Int("cuisines", len(c.facets.Cuisines)),
		zap.String("source_channel", ds.Metadata.SourceChannel),
	)
	return c, nil
}

func (c *Catalog) init(ds *recipe.Dataset) {
	c.recipes = ds.Recipes
	c.metadata = ds.Metadata
	c.byID = make(map[string]int, len(ds.Recipes))
	for i, r := range ds.Recipes {
		c.byID[r.ID] = i
	}

	categories := recipe.Categories(c.recipes)
	featured := categories
	if len(featured) > FeaturedCategories {
		featured = featured[:FeaturedCategories]
	}
	c.facets = Facets{
		Categories:         categories,
		FeaturedCategories: featured,
		Cuisines:           recipe.Cuisines(c.recipes),
		Difficulties:       recipe.Difficulties(),
		TimePresets:        TimePresets,
	}
}

// Len returns the number of recipes in the catalog.
func (c *Catalog) Len() int {
	return len(c.recipes)
}

// Metadata returns the provenance of the loaded dataset.
func (c *Catalog) Metadata() recipe.Metadata {
	return c.metadata
}

// Search returns the full recipes matching f, in catalog order. The
// returned slice belongs to the caller.
func (c *Catalog) Search(f recipe.Filter) []recipe.Recipe {
	return append([]recipe.Recipe{}, c.filter(f)...)
}

func (c *Catalog) filter(f recipe.Filter) []recipe.Recipe {
	key := cacheKey(f)
	if cached, ok := c.results.get(key); ok {
		return cached
	}

	start := time.Now()
	matched := recipe.Apply(c.recipes, f)
	c.results.put(key, matched)

	c.log.Debug("filter applied",
		zap.String("key", key),
		zap.Int("matched", len(matched)),
		zap.Duration("took", time.Since(start)),
	)
	return matched
}

// List builds the list page for f. The daily spotlight is only included
// when nothing narrows the list.
func (c *Catalog) List(f recipe.Filter) ListView {
	matched := c.filter(f)

	view := ListView{
		Heading:       headingAll,
		Count:         len(matched),
		CountLabel:    CountLabel(len(matched)),
		ActiveFilters: f.HasConstraints(),
		Recipes:       make([]Card, 0, len(matched)),
	}
	if !f.IsZero() {
		view.Heading = headingResults
	}
	for _, r := range matched {
		view.Recipes = append(view.Recipes, NewCard(r))
	}

	if f.IsZero() {
		if daily, ok := c.Daily(); ok {
			card := NewCard(daily)
			view.Daily = &card
		}
	}
	return view
}

// Get returns the recipe with the given id.
func (c *Catalog) Get(id string) (recipe.Recipe, error) {
	i, ok := c.byID[id]
	if !ok {
		return recipe.Recipe{}, recipe.ErrNotFound
	}
	return c.recipes[i], nil
}

// Daily returns the recipe of the day for the catalog clock.
func (c *Catalog) Daily() (recipe.Recipe, bool) {
	return c.DailyOn(c.now())
}

// DailyOn returns the recipe of the day for t's calendar day in the catalog zone.
func (c *Catalog) DailyOn(t time.Time) (recipe.Recipe, bool) {
	return recipe.OfTheDay(c.recipes, t.In(c.location))
}

// Facets returns the filter panel options.
func (c *Catalog) Facets() Facets {
	f := c.facets
	f.Categories = append([]string{}, f.Categories...)
	f.FeaturedCategories = append([]string{}, f.FeaturedCategories...)
	f.Cuisines = append([]string{}, f.Cuisines...)
	f.Difficulties = append([]string{}, f.Difficulties...)
	f.TimePresets = append([]int{}, f.TimePresets...)
	return f
}
