package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rogerio-castellano/capri-storefront/internal/gateway"
	"github.com/rogerio-castellano/capri-storefront/internal/models"
)

// flashMessages are the confirmations a back-office redirect can ask for via ?ok=.
var flashMessages = map[string]string{
	"creado":      "Producto creado correctamente",
	"actualizado": "Cambios guardados correctamente",
	"eliminado":   "Eliminado correctamente",
	"repuesto":    "Stock actualizado correctamente",
	"pago":        "Pedido actualizado correctamente",
}

func (s *Server) adminBase(r *http.Request, title string) viewBase {
	b := s.base(r, title)
	b.Success = flashMessages[r.URL.Query().Get("ok")]
	return b
}

type dashboardPage struct {
	viewBase
	ProductCount int
	LowStock     []models.Product
	SoldOut      []models.Product
	FetchedAt    time.Time

	// Stale is set when the counts come from an earlier snapshot after a failed fetch.
	Stale bool
}

// dashboardProducts fetches the catalog, falling back to the last recorded snapshot when
// the catalog backend is down. err is the fetch error even when the fallback succeeded.
func (s *Server) dashboardProducts(ctx context.Context) (products []models.Product, fetchedAt time.Time, fallback bool, err error) {
	products, err = s.loader.Load(ctx)
	snap, ok := s.loader.Snapshot()
	if ok {
		fetchedAt = snap.FetchedAt
	}
	if err != nil && ok {
		return snap.Products, fetchedAt, true, err
	}
	return products, fetchedAt, false, err
}

func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := dashboardPage{viewBase: s.base(r, "Panel de administración")}

	products, fetchedAt, fallback, err := s.dashboardProducts(r.Context())
	if err != nil {
		data.Error = gateway.UserMessage(err)
	}
	data.FetchedAt = fetchedAt
	data.Stale = fallback

	data.ProductCount = len(products)
	for _, p := range products {
		switch {
		case p.SoldOut():
			data.SoldOut = append(data.SoldOut, p)
		case p.LowStock():
			data.LowStock = append(data.LowStock, p)
		}
	}
	s.render(w, http.StatusOK, "admin_dashboard.html", data)
}
