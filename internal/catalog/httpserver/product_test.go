package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/catalog/models"
	"github.com/Skotchmaster/storefront/internal/catalog/repo"
	"github.com/Skotchmaster/storefront/internal/catalog/service"
	"github.com/Skotchmaster/storefront/pkg/db/dbtest"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	r := &repo.GormRepo{DB: dbtest.Open(t, &models.Product{})}
	require.NoError(t, r.UpsertProducts(context.Background(), []models.Product{
		{ID: 1, Name: "Chair", Price: 49.9, Category: "furniture"},
		{ID: 2, Name: "Table", Price: 120, Category: "furniture"},
	}))

	e := echo.New()
	Register(e.Group("/api"), &CatalogHTTP{Svc: &service.CatalogService{Repo: r}})
	return e
}

func TestCatalogHTTP_GetProducts(t *testing.T) {
	e := newTestServer(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Products []models.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Products, 2)
	assert.Equal(t, "Chair", resp.Products[0].Name)
}

func TestCatalogHTTP_GetProduct(t *testing.T) {
	e := newTestServer(t)

	tests := []struct {
		name string
		path string
		code int
	}{
		{name: "found", path: "/api/products/2", code: http.StatusOK},
		{name: "missing", path: "/api/products/99", code: http.StatusNotFound},
		{name: "not a number", path: "/api/products/abc", code: http.StatusBadRequest},
		{name: "non positive", path: "/api/products/0", code: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestCatalogHTTP_SearchWithoutIndex(t *testing.T) {
	e := newTestServer(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/search?q=chair", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/search", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
