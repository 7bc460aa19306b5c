package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/capri-storefront/internal/guard"
	"github.com/rogerio-castellano/capri-storefront/internal/http/handlers"
	mw "github.com/rogerio-castellano/capri-storefront/internal/http/middleware"
	rl "github.com/rogerio-castellano/capri-storefront/internal/http/rate_limiter"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/rogerio-castellano/capri-storefront/docs"
)

type Config struct {
	Server       *handlers.Server
	Session      guard.Session
	LoginLimiter *rl.Limiter
	Logger       logrus.FieldLogger
}

func NewRouter(cfg Config) http.Handler {
	s := cfg.Server
	limited := cfg.LoginLimiter.Middleware

	r := chi.NewRouter()
	r.Use(mw.RequestID, mw.Logging(cfg.Logger), mw.Recover(cfg.Logger))

	r.Get("/", s.Home)
	r.Get("/catalogo", s.Catalog)
	r.Get("/product/{id}", s.ProductDetail)
	r.Get("/login", s.LoginForm)
	r.With(limited).Post("/login", s.Login)
	r.Get("/register", s.RegisterForm)
	r.With(limited).Post("/register", s.Register)
	r.Post("/logout", s.Logout)

	r.Group(func(r chi.Router) {
		r.Use(guard.Require(guard.UserProtected, cfg.Session))
		r.Get("/cart", s.Cart)
		r.Post("/cart/add", s.AddToCart)
		r.Post("/cart/remove/{productID}", s.RemoveFromCart)
		r.Post("/cart/clear", s.ClearCart)
		r.Get("/checkout", s.CheckoutForm)
		r.Post("/checkout", s.Checkout)
		r.Get("/orders", s.Orders)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(guard.Require(guard.AdminProtected, cfg.Session))
		r.Get("/", s.Dashboard)

		r.Get("/users", s.AdminUsers)
		r.Get("/users/{id}/edit", s.AdminEditUser)
		r.Post("/users/{id}", s.AdminUpdateUser)
		r.Post("/users/{id}/delete", s.AdminDeleteUser)

		r.Get("/products", s.AdminProducts)
		r.Post("/products", s.AdminCreateProduct)
		r.Get("/products/new", s.AdminNewProduct)
		r.Get("/products/import", s.AdminImportForm)
		r.Post("/products/import", s.AdminImportProducts)
		r.Get("/products/export", s.AdminExportProducts)
		r.Get("/products/{id}/edit", s.AdminEditProduct)
		r.Post("/products/{id}", s.AdminUpdateProduct)
		r.Post("/products/{id}/delete", s.AdminDeleteProduct)
		r.Post("/products/{id}/restock", s.AdminRestock)

		r.Get("/orders", s.AdminOrders)
		r.Get("/orders/{id}", s.AdminOrder)
		r.Post("/orders/{id}/payment", s.AdminUpdatePayment)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", s.CatalogAPI)
		r.Get("/catalog/options", s.CatalogOptionsAPI)
		r.Get("/featured", s.FeaturedAPI)
		r.With(guard.RequireAPI(guard.UserProtected, cfg.Session)).Get("/session", s.SessionAPI)
		r.With(guard.RequireAPI(guard.UserProtected, cfg.Session)).Post("/cart/items", s.AddToCartAPI)
		r.With(guard.RequireAPI(guard.AdminProtected, cfg.Session)).Get("/admin/metrics", s.DashboardMetricsAPI)
	})

	r.Get("/healthz", s.Health)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	return r
}
