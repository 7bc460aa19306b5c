package handlers_test

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/rogerio-castellano/capri-storefront/internal/gateway"
	"github.com/rogerio-castellano/capri-storefront/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogHandler(t *testing.T) {
	env := newTestEnv(t)
	for i := 1; i <= 11; i++ {
		brand := "Dior"
		if i%2 == 0 {
			brand = "Chanel"
		}
		env.products.products = append(env.products.products,
			product(int64(i), fmt.Sprintf("Perfume %02d", i), brand, "Eau de parfum", int64(100+i), 10))
	}

	t.Run("First page holds the page size", func(t *testing.T) {
		w := env.get("/catalogo", nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "11 productos")
		assert.Contains(t, body, ">Perfume 09</a>")
		assert.NotContains(t, body, ">Perfume 10</a>")
	})

	t.Run("Page beyond the last one is clamped", func(t *testing.T) {
		w := env.get("/catalogo?page=5", nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, ">Perfume 10</a>")
		assert.Contains(t, body, ">Perfume 11</a>")
		assert.NotContains(t, body, ">Perfume 01</a>")
	})

	t.Run("Brand deep link preselects the filter", func(t *testing.T) {
		w := env.get("/catalogo?marca=Chanel", nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "5 productos")
		assert.Contains(t, body, `<option value="Chanel" selected>`)
		assert.NotContains(t, body, ">Perfume 01</a>")
	})

	t.Run("No matches renders the empty state", func(t *testing.T) {
		w := env.get("/catalogo?q=zzz", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "No se encontraron productos con esos filtros")
	})
}

func TestCatalogHandlerFetchFailure(t *testing.T) {
	env := newTestEnv(t)
	env.products.err = unreachable()

	w := env.get("/catalogo", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "No se pudo conectar con el servidor")
	assert.Contains(t, body, "0 productos")
}

func TestProductDetailHandler(t *testing.T) {
	env := newTestEnv(t)
	prev := decimal.NewFromInt(150)
	p := product(3, "Sauvage", "Dior", "Eau de toilette", 120, 2)
	p.PreviousPrice = &prev
	env.products.products = []models.Product{p}

	t.Run("Existing product", func(t *testing.T) {
		w := env.get("/product/3", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Sauvage")
	})

	t.Run("Unknown product", func(t *testing.T) {
		w := env.get("/product/42", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Non numeric id", func(t *testing.T) {
		w := env.get("/product/abc", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestLoginHandler(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name     string
		email    string
		password string
		status   int
		location string
		message  string
	}{
		{name: "Admin goes to the back-office", email: admin.Email, password: "secret1", status: http.StatusSeeOther, location: "/admin"},
		{name: "Customer goes home", email: customer.Email, password: "secret1", status: http.StatusSeeOther, location: "/"},
		{name: "Wrong password", email: customer.Email, password: "nope", status: http.StatusUnauthorized, message: "Email o contraseña incorrectos"},
		{name: "Missing fields", email: "", password: "", status: http.StatusBadRequest, message: "Por favor completa todos los campos"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.postForm("/login", url.Values{"email": {tt.email}, "password": {tt.password}}, nil)

			require.Equal(t, tt.status, w.Code)
			if tt.location != "" {
				assert.Equal(t, tt.location, w.Header().Get("Location"))
				assert.NotEmpty(t, w.Result().Cookies())
			}
			if tt.message != "" {
				assert.Contains(t, w.Body.String(), tt.message)
			}
		})
	}
}

func TestRegisterHandler(t *testing.T) {
	env := newTestEnv(t)

	t.Run("Mismatched passwords stay on the form", func(t *testing.T) {
		w := env.postForm("/register", url.Values{
			"nombre":          {"Luz"},
			"email":           {"luz@capri.test"},
			"numeroTelefono":  {"3001234567"},
			"password":        {"secret1"},
			"confirmPassword": {"secret2"},
		}, nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, env.auth.registered)
	})

	t.Run("Valid registration signs in as USER", func(t *testing.T) {
		w := env.postForm("/register", url.Values{
			"nombre":          {"Luz"},
			"email":           {"luz@capri.test"},
			"numeroTelefono":  {"3001234567"},
			"password":        {"secret1"},
			"confirmPassword": {"secret1"},
		}, nil)
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		require.Len(t, env.auth.registered, 1)
		assert.Equal(t, models.RoleUser, env.auth.registered[0].Role)
	})
}

func TestRouteGuard(t *testing.T) {
	env := newTestEnv(t)
	user := env.signIn(t, customer)

	tests := []struct {
		name     string
		path     string
		cookie   *http.Cookie
		status   int
		location string
	}{
		{name: "Anonymous cart goes to login", path: "/cart", status: http.StatusSeeOther, location: "/login"},
		{name: "Anonymous admin goes to login", path: "/admin", status: http.StatusSeeOther, location: "/login"},
		{name: "Customer admin goes home", path: "/admin/users", cookie: user, status: http.StatusSeeOther, location: "/"},
		{name: "Customer cart renders", path: "/cart", cookie: user, status: http.StatusOK},
		{name: "Anonymous API session is unauthorized", path: "/api/session", status: http.StatusUnauthorized},
		{name: "Customer admin API is forbidden", path: "/api/admin/metrics", cookie: user, status: http.StatusForbidden},
		{name: "Public catalog", path: "/catalogo", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.get(tt.path, tt.cookie)
			require.Equal(t, tt.status, w.Code)
			if tt.location != "" {
				assert.Equal(t, tt.location, w.Header().Get("Location"))
			}
		})
	}
}

func TestLogoutClearsSession(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.signIn(t, customer)

	t.Run("GET does not log out", func(t *testing.T) {
		w := env.get("/logout", cookie)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

		w = env.get("/cart", cookie)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	w := env.postForm("/logout", nil, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = env.get("/cart", cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestAddToCartHandler(t *testing.T) {
	env := newTestEnv(t)
	env.products.products = []models.Product{product(3, "Sauvage", "Dior", "", 120, 2)}
	cookie := env.signIn(t, customer)

	t.Run("Quantity above stock is rejected locally", func(t *testing.T) {
		w := env.postForm("/cart/add", url.Values{"productoId": {"3"}, "cantidad": {"5"}}, cookie)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Cantidad solicitada no disponible en stock")
		assert.Empty(t, env.cart.adds)
	})

	t.Run("Available quantity is added", func(t *testing.T) {
		w := env.postForm("/cart/add", url.Values{"productoId": {"3"}, "cantidad": {"2"}}, cookie)
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/product/3?agregado=1", w.Header().Get("Location"))
		require.Len(t, env.cart.adds, 1)
		assert.Equal(t, cartAdd{UserID: customer.ID, ProductID: 3, Qty: 2}, env.cart.adds[0])
	})
}

func TestCheckoutHandler(t *testing.T) {
	cartWithItem := models.Cart{
		Items: []models.CartItem{{ProductID: 3, ProductName: "Sauvage", Quantity: 1, UnitPrice: decimal.NewFromInt(120), Subtotal: decimal.NewFromInt(120)}},
		Total: decimal.NewFromInt(120),
	}
	form := url.Values{"direccionEnvio": {"Calle 1 #2-3"}}

	t.Run("Stock rejection shows the message and returns to the cart", func(t *testing.T) {
		env := newTestEnv(t)
		env.cart.cart = cartWithItem
		env.orders.createErr = &gateway.Error{Kind: gateway.KindValidation, Status: http.StatusBadRequest, Message: "Stock insuficiente para Sauvage"}

		w := env.postForm("/checkout", form, env.signIn(t, customer))

		require.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "3; url=/cart", w.Header().Get("Refresh"))
		body := w.Body.String()
		assert.Contains(t, body, "Stock insuficiente para Sauvage")
		assert.Contains(t, body, `http-equiv="refresh"`)
	})

	t.Run("Other validation errors do not redirect", func(t *testing.T) {
		env := newTestEnv(t)
		env.cart.cart = cartWithItem
		env.orders.createErr = &gateway.Error{Kind: gateway.KindValidation, Status: http.StatusBadRequest, Message: "Carrito vacío"}

		w := env.postForm("/checkout", form, env.signIn(t, customer))

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, w.Header().Get("Refresh"))
		assert.Contains(t, w.Body.String(), "Carrito vacío")
	})

	t.Run("Missing address", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.postForm("/checkout", url.Values{"direccionEnvio": {"  "}}, env.signIn(t, customer))
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "La dirección de envío es obligatoria")
	})

	t.Run("Created order goes to the order history", func(t *testing.T) {
		env := newTestEnv(t)
		env.cart.cart = cartWithItem
		env.orders.created = models.Order{ID: 12}

		w := env.postForm("/checkout", form, env.signIn(t, customer))

		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/orders?pedido=12", w.Header().Get("Location"))
	})

	t.Run("Empty cart cannot open checkout", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.get("/checkout", env.signIn(t, customer))
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/cart", w.Header().Get("Location"))
	})
}

func TestOrdersHandler(t *testing.T) {
	t.Run("Empty history", func(t *testing.T) {
		env := newTestEnv(t)
		env.orders.forUser = gateway.NormalizeOrders([]byte(`{"mensaje":"No se encontraron pedidos"}`))

		w := env.get("/orders", env.signIn(t, customer))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Aún no tienes pedidos")
	})

	t.Run("Failure shows the reason", func(t *testing.T) {
		env := newTestEnv(t)
		env.orders.forUser = gateway.NormalizeOrders([]byte(`{"error":"servicio caído"}`))

		w := env.get("/orders", env.signIn(t, customer))

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, `role="alert"`)
		assert.NotContains(t, body, "Aún no tienes pedidos")
	})

	t.Run("Orders and creation notice", func(t *testing.T) {
		env := newTestEnv(t)
		env.orders.forUser = gateway.NormalizeOrders([]byte(`[{"id":12,"estado":"PENDIENTE","direccionEnvio":"Calle 1","items":[],"total":120}]`))

		w := env.get("/orders?pedido=12", env.signIn(t, customer))

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Pedido #12")
		assert.Contains(t, body, "¡Pedido #12 creado con éxito!")
	})
}
