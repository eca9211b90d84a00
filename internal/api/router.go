package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RouterConfig carries the transport settings of the router.
type RouterConfig struct {
	AllowedOrigins []string
	StaticDir      string
}

// NewRouter registers every route on a fresh gin engine. Metrics are
// exposed from gatherer when it is non-nil.
func NewRouter(h *Handler, cfg RouterConfig, log *zap.Logger, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), Logger(log))
	if h.Metrics != nil {
		r.Use(h.Metrics.Middleware())
	}

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.AllowedOrigins,
			AllowMethods:  []string{"GET", "HEAD", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}

	r.GET("/healthz", h.Healthz)
	r.GET("/metadata", h.GetMetadata)
	r.GET("/facets", h.GetFacets)
	r.GET("/recipes", h.ListRecipes)
	r.GET("/recipes/daily", h.GetDailyRecipe)
	r.GET("/recipes/:id", h.GetRecipe)
	r.GET("/recipes/:id/placeholder.svg", h.GetPlaceholder)
	r.GET("/recipes/:id/thumbnail", h.GetThumbnail)

	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
	if cfg.StaticDir != "" {
		r.Static("/app", cfg.StaticDir)
	}
	return r
}
