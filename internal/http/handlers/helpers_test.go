package handlers_test

import (
	"context"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/rogerio-castellano/capri-storefront/internal/gateway"
	"github.com/rogerio-castellano/capri-storefront/internal/http/handlers"
	rl "github.com/rogerio-castellano/capri-storefront/internal/http/rate_limiter"
	"github.com/rogerio-castellano/capri-storefront/internal/http/router"
	"github.com/rogerio-castellano/capri-storefront/internal/models"
	"github.com/rogerio-castellano/capri-storefront/internal/session"
	"github.com/shopspring/decimal"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

var (
	customer = models.Identity{ID: 7, Name: "Ana", Email: "ana@capri.test", Role: models.RoleUser}
	admin    = models.Identity{ID: 1, Name: "Root", Email: "admin@capri.test", Role: models.RoleAdmin}
)

type fakeAuth struct {
	identities map[string]models.Identity
	registered []models.User
	users      []models.User
	updated    []models.User
	deleted    []int64
	err        error
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (models.Identity, error) {
	if f.err != nil {
		return models.Identity{}, f.err
	}
	id, ok := f.identities[email]
	if !ok || password != "secret1" {
		return models.Identity{}, &gateway.Error{Kind: gateway.KindUnauthorized, Op: "login", Status: http.StatusUnauthorized}
	}
	return id, nil
}

func (f *fakeAuth) Register(_ context.Context, u models.User) (models.Identity, error) {
	if f.err != nil {
		return models.Identity{}, f.err
	}
	f.registered = append(f.registered, u)
	return models.Identity{ID: 99, Name: u.Name, Email: u.Email, Role: u.Role}, nil
}

func (f *fakeAuth) ListUsers(_ context.Context, page, size int) ([]models.User, error) {
	return f.users, f.err
}

func (f *fakeAuth) GetUser(_ context.Context, id int64) (models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, &gateway.Error{Kind: gateway.KindNotFound, Op: "get user", Status: http.StatusNotFound}
}

func (f *fakeAuth) UpdateUser(_ context.Context, u models.User) (models.User, error) {
	f.updated = append(f.updated, u)
	return u, f.err
}

func (f *fakeAuth) DeleteUser(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

type fakeProducts struct {
	mu       sync.Mutex
	products []models.Product
	err      error
	created  []models.Product
	updated  []models.Product
	restock  map[int64]int
}

func (f *fakeProducts) All(_ context.Context, page, size int) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Product(nil), f.products...), nil
}

func (f *fakeProducts) ByID(_ context.Context, id int64) (models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, &gateway.Error{Kind: gateway.KindNotFound, Op: "product", Status: http.StatusNotFound}
}

func (f *fakeProducts) SearchBy(_ context.Context, field gateway.SearchField, value string, page, size int) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Product
	for _, p := range f.products {
		if field == gateway.SearchByBrand && strings.EqualFold(p.Brand, value) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) Create(_ context.Context, p models.Product) (models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = int64(100 + len(f.created))
	f.created = append(f.created, p)
	return p, nil
}

func (f *fakeProducts) Update(_ context.Context, p models.Product) (models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, p)
	return p, nil
}

func (f *fakeProducts) Delete(_ context.Context, id int64) error {
	return nil
}

func (f *fakeProducts) Restock(_ context.Context, productID int64, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.restock == nil {
		f.restock = map[int64]int{}
	}
	f.restock[productID] += qty
	return nil
}

type cartAdd struct {
	UserID, ProductID int64
	Qty               int
}

type fakeCart struct {
	cart    models.Cart
	viewErr error
	adds    []cartAdd
	cleared bool
}

func (f *fakeCart) Add(_ context.Context, userID, productID int64, qty int) (models.Cart, error) {
	f.adds = append(f.adds, cartAdd{userID, productID, qty})
	return f.cart, nil
}

func (f *fakeCart) View(_ context.Context, userID int64) (models.Cart, error) {
	return f.cart, f.viewErr
}

func (f *fakeCart) Clear(_ context.Context, userID int64) error {
	f.cleared = true
	return nil
}

func (f *fakeCart) Remove(_ context.Context, userID, productID int64) (models.Cart, error) {
	return f.cart, nil
}

type fakeOrders struct {
	created   models.Order
	createErr error
	byID      map[int64]models.Order
	forUser   gateway.OrdersResult
	states    []string
	refs      []string
}

func (f *fakeOrders) Create(_ context.Context, userID int64, address string) (models.Order, error) {
	if f.createErr != nil {
		return models.Order{}, f.createErr
	}
	return f.created, nil
}

func (f *fakeOrders) ByID(_ context.Context, id int64) (models.Order, error) {
	o, ok := f.byID[id]
	if !ok {
		return models.Order{}, &gateway.Error{Kind: gateway.KindNotFound, Op: "order", Status: http.StatusNotFound}
	}
	return o, nil
}

func (f *fakeOrders) ForUser(_ context.Context, userID int64) gateway.OrdersResult {
	return f.forUser
}

func (f *fakeOrders) Payment(_ context.Context, id int64) (models.Payment, error) {
	return models.Payment{ID: id, Status: "PENDIENTE", Amount: decimal.NewFromInt(120)}, nil
}

func (f *fakeOrders) UpdatePaymentStatus(_ context.Context, id int64, state string) (models.Payment, error) {
	f.states = append(f.states, state)
	return models.Payment{ID: id, Status: state}, nil
}

func (f *fakeOrders) SetPaymentReference(_ context.Context, id int64, ref string) (models.Payment, error) {
	f.refs = append(f.refs, ref)
	return models.Payment{ID: id, Reference: ref}, nil
}

type fakeImages struct {
	url string
}

func (f *fakeImages) Upload(_ context.Context, filename string, r io.Reader) (string, error) {
	return f.url, nil
}

type testEnv struct {
	handler  http.Handler
	sessions *session.Store
	auth     *fakeAuth
	products *fakeProducts
	cart     *fakeCart
	orders   *fakeOrders
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger, _ := logtest.NewNullLogger()

	env := &testEnv{
		sessions: session.NewStore(session.NewServerSlot(session.NewMemoryBackend(), session.CookieOptions{}, logger), logger),
		auth: &fakeAuth{identities: map[string]models.Identity{
			customer.Email: customer,
			admin.Email:    admin,
		}},
		products: &fakeProducts{},
		cart:     &fakeCart{},
		orders:   &fakeOrders{byID: map[int64]models.Order{}},
	}

	srv, err := handlers.NewServer(handlers.Deps{
		Sessions: env.sessions,
		Auth:     env.auth,
		Products: env.products,
		Cart:     env.cart,
		Orders:   env.orders,
		Images:   &fakeImages{url: "https://img.test/x.png"},
		Logger:   logger,
	}, handlers.Options{
		PageSize: 9,
		NewRand:  func() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) },
	})
	require.NoError(t, err)

	env.handler = router.NewRouter(router.Config{
		Server:       srv,
		Session:      env.sessions,
		LoginLimiter: rl.New(1000, 1000, logger),
		Logger:       logger,
	})
	return env
}

// signIn stores id in the session backend and returns the cookie that names it.
func (e *testEnv) signIn(t *testing.T, id models.Identity) *http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	require.NoError(t, e.sessions.Save(w, httptest.NewRequest(http.MethodGet, "/", nil), id))
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0]
}

func (e *testEnv) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func (e *testEnv) postForm(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func product(id int64, name, brand, category string, price int64, stock int) models.Product {
	return models.Product{
		ID:       id,
		Name:     name,
		Brand:    brand,
		Category: category,
		Price:    decimal.NewFromInt(price),
		Stock:    stock,
	}
}

func unreachable() error {
	return &gateway.Error{Kind: gateway.KindUnreachable, Op: "products", Err: context.DeadlineExceeded}
}
