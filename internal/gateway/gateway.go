// Package gateway holds the typed HTTP clients for the storefront's REST backends and its
// image host. Every failure surfaces as *Error.
package gateway

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Config carries the backend base URLs, e.g. http://localhost:1010.
type Config struct {
	AuthURL    string
	CatalogURL string
	OrdersURL  string
	Timeout    time.Duration
}

// Gateways bundles one client per backend. Cart shares the catalog backend.
type Gateways struct {
	Auth     *AuthGateway
	Products *ProductsGateway
	Cart     *CartGateway
	Orders   *OrdersGateway
}

func New(cfg Config, logger logrus.FieldLogger) *Gateways {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := &http.Client{Timeout: timeout}

	return &Gateways{
		Auth:     &AuthGateway{c: newClient("auth", cfg.AuthURL, httpClient, logger)},
		Products: &ProductsGateway{c: newClient("catalog", cfg.CatalogURL, httpClient, logger)},
		Cart:     &CartGateway{c: newClient("catalog", cfg.CatalogURL, httpClient, logger)},
		Orders:   &OrdersGateway{c: newClient("orders", cfg.OrdersURL, httpClient, logger)},
	}
}
