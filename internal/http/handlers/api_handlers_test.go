package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rogerio-castellano/capri-storefront/internal/http/handlers"
	"github.com/rogerio-castellano/capri-storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	return out
}

func TestCatalogAPI(t *testing.T) {
	env := newTestEnv(t)
	env.products.products = []models.Product{
		product(1, "Sauvage", "Dior", "Eau de toilette", 120, 5),
		product(2, "Bleu", "Chanel", "Eau de parfum", 130, 3),
		product(3, "Aqua", "Bvlgari", "Eau de toilette", 90, 40),
	}

	t.Run("Sorted by price descending", func(t *testing.T) {
		w := env.get("/api/catalog?sort=precio-desc", nil)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[handlers.CatalogResponse](t, w)
		require.Len(t, resp.Data, 3)
		assert.Equal(t, "Bleu", resp.Data[0].Name)
		assert.Equal(t, "Aqua", resp.Data[2].Name)
		assert.Equal(t, handlers.Meta{Total: 3, TotalPages: 1, Page: 1, PageSize: 9, Sort: "precio-desc"}, resp.Meta)
	})

	t.Run("Filtered by category", func(t *testing.T) {
		w := env.get("/api/catalog?tipo=Eau+de+toilette", nil)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[handlers.CatalogResponse](t, w)
		require.Len(t, resp.Data, 2)
		assert.Equal(t, "Aqua", resp.Data[0].Name)
		assert.Equal(t, "Sauvage", resp.Data[1].Name)
	})

	t.Run("Options", func(t *testing.T) {
		w := env.get("/api/catalog/options", nil)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[handlers.OptionsResponse](t, w)
		assert.Equal(t, []string{"Eau de toilette", "Eau de parfum"}, resp.Categories)
		assert.Equal(t, []string{"Dior", "Chanel", "Bvlgari"}, resp.Brands)
	})

	t.Run("Featured is a subset of the catalog", func(t *testing.T) {
		w := env.get("/api/featured", nil)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[handlers.FeaturedResponse](t, w)
		names := make([]string, len(resp.Data))
		for i, p := range resp.Data {
			names[i] = p.Name
		}
		assert.ElementsMatch(t, []string{"Sauvage", "Bleu", "Aqua"}, names)
	})
}

func TestCatalogAPIFetchFailure(t *testing.T) {
	env := newTestEnv(t)
	env.products.err = unreachable()

	w := env.get("/api/catalog", nil)

	require.Equal(t, http.StatusBadGateway, w.Code)
	resp := decode[handlers.CatalogResponse](t, w)
	assert.Empty(t, resp.Data)
	assert.Equal(t, 1, resp.Meta.TotalPages)
	assert.Equal(t, "No se pudo conectar con el servidor", resp.Error)
}

func TestSessionAPI(t *testing.T) {
	env := newTestEnv(t)

	w := env.get("/api/session", env.signIn(t, admin))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[handlers.SessionResponse](t, w)
	assert.True(t, resp.Authenticated)
	assert.True(t, resp.Admin)
	require.NotNil(t, resp.User)
	assert.Equal(t, admin.Email, resp.User.Email)
}

func TestDashboardMetricsAPI(t *testing.T) {
	env := newTestEnv(t)
	env.products.products = []models.Product{
		product(1, "Sauvage", "Dior", "", 120, 0),
		product(2, "Bleu", "Chanel", "", 130, 3),
		product(3, "Aqua", "Bvlgari", "", 90, 40),
	}

	w := env.get("/api/admin/metrics", env.signIn(t, admin))

	require.Equal(t, http.StatusOK, w.Code)
	m := decode[handlers.DashboardMetrics](t, w)
	assert.Equal(t, 3, m.TotalProducts)
	assert.Equal(t, 1, m.LowStockCount)
	assert.Equal(t, 1, m.SoldOutCount)
	assert.NotNil(t, m.FetchedAt)
	assert.False(t, m.Stale)

	t.Run("Catalog outage serves the last snapshot marked stale", func(t *testing.T) {
		env.products.err = unreachable()
		defer func() { env.products.err = nil }()

		w := env.get("/api/admin/metrics", env.signIn(t, admin))

		require.Equal(t, http.StatusOK, w.Code)
		m := decode[handlers.DashboardMetrics](t, w)
		assert.True(t, m.Stale)
		assert.Equal(t, 3, m.TotalProducts)
		assert.NotEmpty(t, m.Error)
		assert.NotNil(t, m.FetchedAt)
	})
}

func TestAddToCartAPI(t *testing.T) {
	env := newTestEnv(t)
	env.products.products = []models.Product{product(2, "Bleu", "Chanel", "", 130, 3)}
	cookie := env.signIn(t, customer)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/cart/items", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(cookie)
		w := httptest.NewRecorder()
		env.handler.ServeHTTP(w, req)
		return w
	}

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "Malformed body", body: `{"productoId":`, status: http.StatusBadRequest},
		{name: "Zero quantity", body: `{"productoId":2,"cantidad":0}`, status: http.StatusBadRequest},
		{name: "Above stock", body: `{"productoId":2,"cantidad":4}`, status: http.StatusBadRequest},
		{name: "Unknown product", body: `{"productoId":9,"cantidad":1}`, status: http.StatusNotFound},
		{name: "Added", body: `{"productoId":2,"cantidad":3}`, status: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(tt.body)
			assert.Equal(t, tt.status, w.Code)
		})
	}
	require.Len(t, env.cart.adds, 1)
	assert.Equal(t, 3, env.cart.adds[0].Qty)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	w := env.get("/healthz", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[handlers.HealthResponse](t, w).Status)
}
