package catalog

import (
	"slices"
	"strconv"
	"strings"
	"sync"

	"recipebook/internal/recipe"
)

// resultCache memoizes filter results by filter value. It only trades
// memory for speed: a hit returns exactly what recipe.Apply would.
type resultCache struct {
	mu      sync.RWMutex
	max     int
	entries map[string][]recipe.Recipe
	order   []string // insertion order, oldest first
}

func newResultCache(max int) *resultCache {
	return &resultCache{max: max, entries: make(map[string][]recipe.Recipe)}
}

func (rc *resultCache) get(key string) ([]recipe.Recipe, bool) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	r, ok := rc.entries[key]
	return r, ok
}

func (rc *resultCache) put(key string, r []recipe.Recipe) {
	if rc.max <= 0 {
		return
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if _, ok := rc.entries[key]; ok {
		rc.entries[key] = r
		return
	}
	// Evict the oldest entry once full.
	if len(rc.order) >= rc.max {
		delete(rc.entries, rc.order[0])
		rc.order = rc.order[1:]
	}
	rc.entries[key] = r
	rc.order = append(rc.order, key)
}

func (rc *resultCache) len() int {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return len(rc.entries)
}

// cacheKey renders f canonically. Every value is quoted, so distinct filters
// always get distinct keys whatever bytes they contain. Search is lowercased
// the way matching lowercases it; category and cuisine selections are sets.
func cacheKey(f recipe.Filter) string {
	var b strings.Builder
	b.WriteString(strconv.Quote(strings.ToLower(f.Search)))
	writeSet(&b, f.Categories)
	writeSet(&b, f.Cuisines)
	b.WriteString(strconv.Quote(f.Difficulty))
	if f.MaxTime != nil {
		b.WriteString(strconv.Itoa(*f.MaxTime))
	} else {
		b.WriteByte('-')
	}
	return b.String()
}

func writeSet(b *strings.Builder, values []string) {
	b.WriteByte('[')
	for _, v := range normalizeSet(values) {
		b.WriteString(strconv.Quote(v))
	}
	b.WriteByte(']')
}

func normalizeSet(values []string) []string {
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.Compact(out)
}
