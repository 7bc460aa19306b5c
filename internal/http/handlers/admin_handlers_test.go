package handlers_test

import (
	"bytes"
	"encoding/csv"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rogerio-castellano/capri-storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardHandler(t *testing.T) {
	env := newTestEnv(t)
	env.products.products = []models.Product{
		product(1, "Sauvage", "Dior", "", 120, 0),
		product(2, "Bleu", "Chanel", "", 130, 3),
		product(3, "Aqua", "Bvlgari", "", 90, 40),
	}
	cookie := env.signIn(t, admin)

	w := env.get("/admin", cookie)
	require.Equal(t, http.StatusOK, w.Code)

	t.Run("Dashboard survives a catalog outage with the last snapshot", func(t *testing.T) {
		env.products.err = unreachable()
		defer func() { env.products.err = nil }()

		w := env.get("/admin", cookie)
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "No se pudo conectar con el servidor")
		assert.Contains(t, body, "Mostrando datos guardados del")
		assert.Contains(t, body, "Sauvage")
	})

	t.Run("Fresh data carries no stale label", func(t *testing.T) {
		w := env.get("/admin", cookie)
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "Mostrando datos guardados del")
	})
}

func TestAdminUsersHandler(t *testing.T) {
	env := newTestEnv(t)
	env.auth.users = []models.User{
		{ID: 1, Name: "Root", Email: admin.Email, Role: models.RoleAdmin},
		{ID: 7, Name: "Ana", Email: customer.Email, Role: models.RoleUser},
	}
	cookie := env.signIn(t, admin)

	t.Run("List", func(t *testing.T) {
		w := env.get("/admin/users", cookie)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), customer.Email)
	})

	t.Run("Update with invalid role is rejected", func(t *testing.T) {
		w := env.postForm("/admin/users/7", url.Values{"nombre": {"Ana"}, "email": {customer.Email}, "role": {"OWNER"}}, cookie)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, env.auth.updated)
	})

	t.Run("Update", func(t *testing.T) {
		w := env.postForm("/admin/users/7", url.Values{"nombre": {"Ana M"}, "email": {customer.Email}, "role": {"ADMIN"}}, cookie)
		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Len(t, env.auth.updated, 1)
		assert.Equal(t, models.RoleAdmin, env.auth.updated[0].Role)
	})

	t.Run("Admins cannot delete themselves", func(t *testing.T) {
		w := env.postForm("/admin/users/1/delete", nil, cookie)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, env.auth.deleted)
	})

	t.Run("Delete another user", func(t *testing.T) {
		w := env.postForm("/admin/users/7/delete", nil, cookie)
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, []int64{7}, env.auth.deleted)
	})
}

func TestAdminRestockHandler(t *testing.T) {
	env := newTestEnv(t)
	env.products.products = []models.Product{product(2, "Bleu", "Chanel", "", 130, 3)}
	cookie := env.signIn(t, admin)

	w := env.postForm("/admin/products/2/restock", url.Values{"cantidad": {"10"}}, cookie)

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, 10, env.products.restock[2])
}

func TestAdminPaymentHandler(t *testing.T) {
	env := newTestEnv(t)
	env.orders.byID[3] = models.Order{ID: 3, UserID: 7, Status: "PENDIENTE", PaymentID: 5}
	env.orders.byID[4] = models.Order{ID: 4, UserID: 7, Status: "PENDIENTE"}
	cookie := env.signIn(t, admin)

	t.Run("Order page shows the payment form", func(t *testing.T) {
		w := env.get("/admin/orders/3", cookie)
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Pago #5")
		assert.Contains(t, body, `action="/admin/orders/3/payment"`)
	})

	t.Run("Lookup by order id redirects", func(t *testing.T) {
		w := env.get("/admin/orders?pedidoId=3", cookie)
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/admin/orders/3", w.Header().Get("Location"))
	})

	t.Run("Nothing to update", func(t *testing.T) {
		w := env.postForm("/admin/orders/3/payment", url.Values{}, cookie)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, env.orders.states)
	})

	t.Run("Order without payment", func(t *testing.T) {
		w := env.postForm("/admin/orders/4/payment", url.Values{"estadoPago": {"APROBADO"}}, cookie)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Este pedido no tiene un pago asociado")
	})

	t.Run("State and shipping reference", func(t *testing.T) {
		w := env.postForm("/admin/orders/3/payment", url.Values{
			"estadoPago":      {"APROBADO"},
			"referenciaEnvio": {"GUIA-778"},
		}, cookie)

		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/admin/orders/3?ok=pago", w.Header().Get("Location"))
		assert.Equal(t, []string{"APROBADO"}, env.orders.states)
		assert.Equal(t, []string{"GUIA-778"}, env.orders.refs)
	})

	t.Run("Unknown order", func(t *testing.T) {
		w := env.get("/admin/orders/99", cookie)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func importRequest(t *testing.T, csvData, mode string, cookie *http.Cookie) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("mode", mode))
	part, err := writer.CreateFormFile("archivo", "productos.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csvData))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/products/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.AddCookie(cookie)
	return req
}

func TestImportProductsHandler(t *testing.T) {
	csvData := `nombre,marca,precio,stock
Aqua,Bvlgari,95.50,12
Nuevo,Capri,40,5
Roto,Capri,abc,1`

	t.Run("Existing products are skipped by default", func(t *testing.T) {
		env := newTestEnv(t)
		env.products.products = []models.Product{product(3, "Aqua", "Bvlgari", "", 90, 40)}
		cookie := env.signIn(t, admin)

		w := httptest.NewRecorder()
		env.handler.ServeHTTP(w, importRequest(t, csvData, "skip", cookie))

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Creados: 1")
		assert.Contains(t, body, "Rechazados: 2")
		assert.Contains(t, body, "fila 2")
		assert.Contains(t, body, "fila 4: El precio no es válido")
		require.Len(t, env.products.created, 1)
		assert.Equal(t, "Nuevo", env.products.created[0].Name)
		assert.Empty(t, env.products.updated)
	})

	t.Run("Update mode rewrites existing products", func(t *testing.T) {
		env := newTestEnv(t)
		env.products.products = []models.Product{product(3, "Aqua", "Bvlgari", "", 90, 40)}
		cookie := env.signIn(t, admin)

		w := httptest.NewRecorder()
		env.handler.ServeHTTP(w, importRequest(t, csvData, "update", cookie))

		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, env.products.updated, 1)
		assert.Equal(t, int64(3), env.products.updated[0].ID)
		assert.Equal(t, "95.5", env.products.updated[0].Price.String())
	})

	t.Run("Missing required column", func(t *testing.T) {
		env := newTestEnv(t)
		cookie := env.signIn(t, admin)

		w := httptest.NewRecorder()
		env.handler.ServeHTTP(w, importRequest(t, "nombre,marca\nAqua,Bvlgari", "skip", cookie))

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "missing column")
	})
}

func TestExportProductsHandler(t *testing.T) {
	env := newTestEnv(t)
	env.products.products = []models.Product{product(3, "Aqua", "Bvlgari", "Eau de toilette", 90, 40)}
	cookie := env.signIn(t, admin)

	t.Run("CSV", func(t *testing.T) {
		w := env.get("/admin/products/export", cookie)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))

		records, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "nombre", records[0][0])
		assert.Equal(t, []string{"Aqua", "Bvlgari", "Eau de toilette", "", "90", "", "40", ""}, records[1])
	})

	t.Run("Unknown format", func(t *testing.T) {
		w := env.get("/admin/products/export?format=xml", cookie)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
