package api

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"recipebook/internal/recipe"
)

// listQuery is the query-string form of a recipe.Filter. category and
// cuisine repeat once per selected value.
type listQuery struct {
	Search     string   `form:"search"`
	Categories []string `form:"category"`
	Cuisines   []string `form:"cuisine"`
	Difficulty string   `form:"difficulty"`
	MaxTime    *int     `form:"max_time" binding:"omitempty,min=0"`
}

func bindFilter(c *gin.Context) (recipe.Filter, error) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return recipe.Filter{}, fmt.Errorf("invalid query: %w", err)
	}
	if q.Difficulty != "" && !recipe.IsDifficulty(q.Difficulty) {
		return recipe.Filter{}, fmt.Errorf("invalid query: unknown difficulty %q", q.Difficulty)
	}
	return recipe.Filter{
		Search:     q.Search,
		Categories: q.Categories,
		Cuisines:   q.Cuisines,
		Difficulty: q.Difficulty,
		MaxTime:    q.MaxTime,
	}, nil
}
