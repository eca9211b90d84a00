package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"recipebook/internal/api"
	"recipebook/internal/catalog"
	"recipebook/internal/platform/imaging"
	"recipebook/internal/recipe"
)

// mockCatalog is a mock of the catalog.
type mockCatalog struct {
	recipes        map[string]recipe.Recipe
	daily          *recipe.Recipe
	getError       error
	receivedFilter recipe.Filter
}

// NewMockCatalog creates a new mockCatalog.
func NewMockCatalog(recipes ...recipe.Recipe) *mockCatalog {
	m := &mockCatalog{recipes: make(map[string]recipe.Recipe)}
	for _, r := range recipes {
		m.recipes[r.ID] = r
	}
	return m
}

// List mocks the List method.
func (m *mockCatalog) List(f recipe.Filter) catalog.ListView {
	m.receivedFilter = f
	view := catalog.ListView{Heading: "Все рецепты", Recipes: []catalog.Card{}}
	for _, r := range m.recipes {
		view.Recipes = append(view.Recipes, catalog.NewCard(r))
	}
	view.Count = len(view.Recipes)
	view.CountLabel = catalog.CountLabel(view.Count)
	return view
}

// Get mocks the Get method.
func (m *mockCatalog) Get(id string) (recipe.Recipe, error) {
	if m.getError != nil {
		return recipe.Recipe{}, m.getError
	}
	r, ok := m.recipes[id]
	if !ok {
		return recipe.Recipe{}, recipe.ErrNotFound
	}
	return r, nil
}

// Daily mocks the Daily method.
func (m *mockCatalog) Daily() (recipe.Recipe, bool) {
	if m.daily == nil {
		return recipe.Recipe{}, false
	}
	return *m.daily, true
}

// Facets mocks the Facets method.
func (m *mockCatalog) Facets() catalog.Facets {
	return catalog.Facets{
		Categories:         []string{"Супы"},
		FeaturedCategories: []string{"Супы"},
		Cuisines:           []string{"Русская"},
		Difficulties:       recipe.Difficulties(),
		TimePresets:        catalog.TimePresets,
	}
}

// Metadata mocks the Metadata method.
func (m *mockCatalog) Metadata() recipe.Metadata {
	return recipe.Metadata{SourceChannel: "@mock", TotalRecipes: len(m.recipes)}
}

// mockThumbnailer is a mock of the thumbnailer.
type mockThumbnailer struct {
	path          string
	returnError   error
	receivedSrc   string
	receivedWidth uint
}

// Thumbnail mocks the Thumbnail method.
func (m *mockThumbnailer) Thumbnail(ctx context.Context, src string, width uint) (string, error) {
	m.receivedSrc = src
	m.receivedWidth = width
	if m.returnError != nil {
		return "", m.returnError
	}
	return m.path, nil
}

func borscht() recipe.Recipe {
	return recipe.Recipe{
		ID:          "42",
		Title:       "Борщ",
		Description: "Наваристый суп",
		Ingredients: []string{"свёкла", "капуста"},
		Steps:       []string{"Сварить бульон"},
		Categories:  []string{"Супы"},
		Tags:        []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11"},
		Images:      []string{"media/42.jpg"},
		CookingTime: "90 минут",
		Cuisine:     "Русская",
		Difficulty:  "Средне",
	}
}

// newTestRouter builds the full router around the mocks.
func newTestRouter(c api.Catalog, th api.Thumbnailer) *gin.Engine {
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	handler := api.NewHandler(c, th, 800, zap.NewNop())
	handler.Metrics = api.NewMetrics(reg)

	router := api.NewRouter(handler, api.RouterConfig{
		AllowedOrigins: []string{"https://web.telegram.org"},
	}, zap.NewNop(), reg)
	return router
}

func serve(r http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestListRecipes(t *testing.T) {
	mock := NewMockCatalog(borscht())
	r := newTestRouter(mock, nil)

	// Build the query the filter panel sends
	q := url.Values{}
	q.Set("search", "суп")
	q.Add("category", "Супы")
	q.Add("category", "Горячее")
	q.Add("cuisine", "Русская")
	q.Set("difficulty", "Средне")
	q.Set("max_time", "120")

	rr := serve(r, http.MethodGet, "/recipes?"+q.Encode())
	assert.Equal(t, http.StatusOK, rr.Code)

	// Assert the filter reached the catalog intact
	assert.Equal(t, "суп", mock.receivedFilter.Search)
	assert.Equal(t, []string{"Супы", "Горячее"}, mock.receivedFilter.Categories)
	assert.Equal(t, []string{"Русская"}, mock.receivedFilter.Cuisines)
	assert.Equal(t, "Средне", mock.receivedFilter.Difficulty)
	if assert.NotNil(t, mock.receivedFilter.MaxTime) {
		assert.Equal(t, 120, *mock.receivedFilter.MaxTime)
	}

	// Decode the response body
	var view catalog.ListView
	err := json.Unmarshal(rr.Body.Bytes(), &view)
	assert.NoError(t, err)
	assert.Equal(t, 1, view.Count)
	assert.Equal(t, "рецепт", view.CountLabel)
	if assert.Len(t, view.Recipes, 1) {
		assert.Equal(t, "Борщ", view.Recipes[0].Title)
		assert.Equal(t, "1 ч 30 мин", view.Recipes[0].CookingMinutes)
	}
}

func TestListRecipes_NoQuery(t *testing.T) {
	mock := NewMockCatalog()
	r := newTestRouter(mock, nil)

	rr := serve(r, http.MethodGet, "/recipes")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, mock.receivedFilter.IsZero())
}

func TestListRecipes_InvalidQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"unknown difficulty", "difficulty=" + url.QueryEscape("Невозможно")},
		{"negative max time", "max_time=-5"},
		{"non numeric max time", "max_time=soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(NewMockCatalog(), nil)

			rr := serve(r, http.MethodGet, "/recipes?"+tt.query)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), "error")
		})
	}
}

func TestGetRecipe(t *testing.T) {
	r := newTestRouter(NewMockCatalog(borscht()), nil)

	rr := serve(r, http.MethodGet, "/recipes/42")
	assert.Equal(t, http.StatusOK, rr.Code)

	// Decode into a map, the detail view flattens the recipe fields
	var body map[string]any
	err := json.Unmarshal(rr.Body.Bytes(), &body)
	assert.NoError(t, err)
	assert.Equal(t, "Борщ", body["title"])
	assert.Equal(t, "media/42.jpg", body["cover"])
	assert.Len(t, body["tags"], 11)
	assert.Len(t, body["display_tags"], catalog.DetailTags)
}

func TestGetRecipe_NotFound(t *testing.T) {
	r := newTestRouter(NewMockCatalog(), nil)

	rr := serve(r, http.MethodGet, "/recipes/missing")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error": "recipe not found"}`, rr.Body.String())
}

func TestGetRecipe_CatalogError(t *testing.T) {
	mock := NewMockCatalog(borscht())
	mock.getError = errors.New("boom")
	r := newTestRouter(mock, nil)

	rr := serve(r, http.MethodGet, "/recipes/42")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestGetDailyRecipe(t *testing.T) {
	mock := NewMockCatalog(borscht())
	daily := borscht()
	mock.daily = &daily
	r := newTestRouter(mock, nil)

	rr := serve(r, http.MethodGet, "/recipes/daily")
	assert.Equal(t, http.StatusOK, rr.Code)

	var card catalog.Card
	err := json.Unmarshal(rr.Body.Bytes(), &card)
	assert.NoError(t, err)
	assert.Equal(t, "42", card.ID)
	assert.Equal(t, "Супы", card.PrimaryCategory)
}

func TestGetDailyRecipe_EmptyCatalog(t *testing.T) {
	r := newTestRouter(NewMockCatalog(), nil)

	rr := serve(r, http.MethodGet, "/recipes/daily")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetFacetsAndMetadata(t *testing.T) {
	r := newTestRouter(NewMockCatalog(borscht()), nil)

	rr := serve(r, http.MethodGet, "/facets")
	assert.Equal(t, http.StatusOK, rr.Code)
	var facets catalog.Facets
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &facets))
	assert.Equal(t, []string{"Легко", "Средне", "Сложно"}, facets.Difficulties)
	assert.Equal(t, []int{30, 60, 120}, facets.TimePresets)

	rr = serve(r, http.MethodGet, "/metadata")
	assert.Equal(t, http.StatusOK, rr.Code)
	var meta recipe.Metadata
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &meta))
	assert.Equal(t, "@mock", meta.SourceChannel)
	assert.Equal(t, 1, meta.TotalRecipes)
}

func TestGetPlaceholder(t *testing.T) {
	r := newTestRouter(NewMockCatalog(borscht()), nil)

	rr := serve(r, http.MethodGet, "/recipes/42/placeholder.svg")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "image/svg+xml")
	assert.Equal(t, recipe.PlaceholderSVG(borscht()), rr.Body.String())
}

func TestGetThumbnail(t *testing.T) {
	// Create a dummy thumbnail file
	dir := t.TempDir()
	path := filepath.Join(dir, "thumb.jpg")
	assert.NoError(t, os.WriteFile(path, []byte("jpeg bytes"), 0o644))

	th := &mockThumbnailer{path: path}
	r := newTestRouter(NewMockCatalog(borscht()), th)

	rr := serve(r, http.MethodGet, "/recipes/42/thumbnail?w=320")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "jpeg bytes", rr.Body.String())
	assert.Equal(t, "media/42.jpg", th.receivedSrc)
	assert.Equal(t, uint(320), th.receivedWidth)

	// Without w the configured width is used
	rr = serve(r, http.MethodGet, "/recipes/42/thumbnail")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, uint(800), th.receivedWidth)

	// The configured width is also the largest accepted one
	rr = serve(r, http.MethodGet, "/recipes/42/thumbnail?w=800")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, uint(800), th.receivedWidth)
}

func TestGetThumbnail_Redirects(t *testing.T) {
	noPhoto := recipe.Recipe{ID: "7", Title: "Чай", Images: []string{}}
	remote := recipe.Recipe{ID: "8", Title: "Кофе", Images: []string{"https://cdn.example.org/8.jpg"}}
	th := &mockThumbnailer{}
	r := newTestRouter(NewMockCatalog(noPhoto, remote), th)

	rr := serve(r, http.MethodGet, "/recipes/7/thumbnail")
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/recipes/7/placeholder.svg", rr.Header().Get("Location"))

	rr = serve(r, http.MethodGet, "/recipes/8/thumbnail")
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "https://cdn.example.org/8.jpg", rr.Header().Get("Location"))
	assert.Empty(t, th.receivedSrc)
}

func TestGetThumbnail_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		want   int
	}{
		{"bad width", "/recipes/42/thumbnail?w=wide", nil, http.StatusBadRequest},
		{"zero width", "/recipes/42/thumbnail?w=0", nil, http.StatusBadRequest},
		{"width above the configured one", "/recipes/42/thumbnail?w=801", nil, http.StatusBadRequest},
		{"huge width", "/recipes/42/thumbnail?w=65535", nil, http.StatusBadRequest},
		{"unsupported format", "/recipes/42/thumbnail", imaging.ErrUnsupportedFormat, http.StatusUnprocessableEntity},
		{"outside media dir", "/recipes/42/thumbnail", imaging.ErrOutsideMediaDir, http.StatusUnprocessableEntity},
		{"timeout", "/recipes/42/thumbnail", context.DeadlineExceeded, http.StatusRequestTimeout},
		{"decode failure", "/recipes/42/thumbnail", errors.New("failed to decode image"), http.StatusInternalServerError},
		{"unknown recipe", "/recipes/nope/thumbnail", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := &mockThumbnailer{returnError: tt.err}
			r := newTestRouter(NewMockCatalog(borscht()), th)

			rr := serve(r, http.MethodGet, tt.target)
			assert.Equal(t, tt.want, rr.Code)
			if tt.want == http.StatusBadRequest {
				assert.Empty(t, th.receivedSrc)
			}
		})
	}
}

func TestHealthzAndMetrics(t *testing.T) {
	r := newTestRouter(NewMockCatalog(borscht()), nil)

	rr := serve(r, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rr.Body.String())

	serve(r, http.MethodGet, "/recipes")

	rr = serve(r, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `recipebook_http_requests_total{method="GET",path="/healthz",status="200"} 1`)
	assert.Contains(t, rr.Body.String(), "recipebook_list_results_count 1")
}

func TestCORS(t *testing.T) {
	r := newTestRouter(NewMockCatalog(), nil)

	req := httptest.NewRequest(http.MethodGet, "/facets", nil)
	req.Header.Set("Origin", "https://web.telegram.org")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "https://web.telegram.org", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/facets", nil)
	req.Header.Set("Origin", "https://evil.example.org")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}
