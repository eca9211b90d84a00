package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipebook/internal/catalog"
	"recipebook/internal/platform/imaging"
	"recipebook/internal/recipe"
)

// Catalog defines the read operations the handlers need.
type Catalog interface {
	List(f recipe.Filter) catalog.ListView
	Get(id string) (recipe.Recipe, error)
	Daily() (recipe.Recipe, bool)
	Facets() catalog.Facets
	Metadata() recipe.Metadata
}

// Thumbnailer defines the interface for resizing local recipe photos.
type Thumbnailer interface {
	Thumbnail(ctx context.Context, src string, width uint) (string, error)
}

// Handler handles HTTP requests.
type Handler struct {
	Catalog        Catalog
	Thumbnailer    Thumbnailer
	ThumbnailWidth uint
	Metrics        *Metrics
	log            *zap.Logger
}

// NewHandler creates a new Handler.
func NewHandler(c Catalog, thumbnailer Thumbnailer, thumbnailWidth uint, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Catalog: c, Thumbnailer: thumbnailer, ThumbnailWidth: thumbnailWidth, log: log}
}

// ListRecipes handles requests for the filtered recipe list.
func (h *Handler) ListRecipes(c *gin.Context) {
	f, err := bindFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view := h.Catalog.List(f)
	if h.Metrics != nil {
		h.Metrics.ObserveList(view.Count)
	}
	c.JSON(http.StatusOK, view)
}

// GetRecipe handles requests for a single recipe page.
func (h *Handler) GetRecipe(c *gin.Context) {
	r, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, catalog.NewDetail(r))
}

// GetDailyRecipe handles requests for the recipe of the day.
func (h *Handler) GetDailyRecipe(c *gin.Context) {
	r, ok := h.Catalog.Daily()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "catalog is empty"})
		return
	}
	c.JSON(http.StatusOK, catalog.NewCard(r))
}

// GetFacets handles requests for the filter panel options.
func (h *Handler) GetFacets(c *gin.Context) {
	c.JSON(http.StatusOK, h.Catalog.Facets())
}

// GetMetadata handles requests for the dataset provenance.
func (h *Handler) GetMetadata(c *gin.Context) {
	c.JSON(http.StatusOK, h.Catalog.Metadata())
}

// GetPlaceholder serves the generated cover of a recipe as SVG.
func (h *Handler) GetPlaceholder(c *gin.Context) {
	r, ok := h.lookup(c)
	if !ok {
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/svg+xml; charset=utf-8", []byte(recipe.PlaceholderSVG(r)))
}

// GetThumbnail serves the resized cover photo of a recipe. The w query may
// shrink the configured width but never exceed it. Remote images are
// redirected to, recipes without photos get their placeholder.
func (h *Handler) GetThumbnail(c *gin.Context) {
	r, ok := h.lookup(c)
	if !ok {
		return
	}

	if len(r.Images) == 0 {
		c.Redirect(http.StatusFound, fmt.Sprintf("/recipes/%s/placeholder.svg", url.PathEscape(r.ID)))
		return
	}
	cover := r.Images[0]
	if imaging.IsRemote(cover) || h.Thumbnailer == nil {
		c.Redirect(http.StatusFound, cover)
		return
	}

	width := h.ThumbnailWidth
	if w := c.Query("w"); w != "" {
		parsed, err := strconv.ParseUint(w, 10, 16)
		if err != nil || parsed == 0 || uint(parsed) > h.ThumbnailWidth {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("w must be an integer between 1 and %d", h.ThumbnailWidth)})
			return
		}
		width = uint(parsed)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	path, err := h.Thumbnailer.Thumbnail(ctx, cover, width)
	if err != nil {
		switch {
		case errors.Is(err, imaging.ErrUnsupportedFormat), errors.Is(err, imaging.ErrOutsideMediaDir):
			h.log.Warn("cover image rejected", zap.String("id", r.ID), zap.String("image", cover), zap.Error(err))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, context.DeadlineExceeded):
			c.JSON(http.StatusRequestTimeout, gin.H{"error": "thumbnail generation timed out"})
		default:
			h.log.Error("thumbnail failed", zap.String("id", r.ID), zap.String("image", cover), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build thumbnail"})
		}
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.File(path)
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) lookup(c *gin.Context) (recipe.Recipe, bool) {
	id := c.Param("id")
	r, err := h.Catalog.Get(id)
	if err != nil {
		if errors.Is(err, recipe.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return recipe.Recipe{}, false
		}
		h.log.Error("recipe lookup failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return recipe.Recipe{}, false
	}
	return r, true
}
