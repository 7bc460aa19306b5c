package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/capri-storefront/internal/catalog"
	"github.com/rogerio-castellano/capri-storefront/internal/gateway"
	"github.com/rogerio-castellano/capri-storefront/internal/models"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	if err := writeJSON(w, status, data); err != nil {
		s.log.WithError(err).Error("failed to write JSON response")
	}
}

// CatalogAPI godoc
// @Summary Filtered, sorted and paginated catalog page
// @Description Same pipeline as the catalog page. On a backend failure data is empty and error is set.
// @Tags catalog
// @Produce json
// @Param q query string false "Case-insensitive search on name or brand"
// @Param tipo query string false "Exact category"
// @Param marca query string false "Exact brand"
// @Param sort query string false "nombre | precio-asc | precio-desc"
// @Param page query int false "1-based page, clamped to the available range"
// @Success 200 {object} CatalogResponse
// @Failure 502 {object} CatalogResponse
// @Router /api/catalog [get]
func (s *Server) CatalogAPI(w http.ResponseWriter, r *http.Request) {
	criteria := catalog.FromQuery(r.URL.Query(), s.opts.PageSize)

	status := http.StatusOK
	resp := CatalogResponse{}
	products, err := s.loader.Load(r.Context())
	if err != nil {
		status = apiStatus(err)
		resp.Error = gateway.UserMessage(err)
	}

	res := s.pipeline.Apply(products, criteria)
	resp.Data = res.Items
	resp.Meta = Meta{
		Total:      res.Total,
		TotalPages: res.TotalPages,
		Page:       res.Page,
		PageSize:   res.PageSize,
		Sort:       string(catalog.ParseSortKey(string(criteria.Sort))),
	}
	s.writeJSON(w, status, resp)
}

// CatalogOptionsAPI godoc
// @Summary Distinct categories and brands
// @Tags catalog
// @Produce json
// @Success 200 {object} OptionsResponse
// @Failure 502 {object} OptionsResponse
// @Router /api/catalog/options [get]
func (s *Server) CatalogOptionsAPI(w http.ResponseWriter, r *http.Request) {
	products, err := s.loader.Load(r.Context())
	resp := OptionsResponse{Options: catalog.BuildOptions(products)}
	if err != nil {
		resp.Error = gateway.UserMessage(err)
		s.writeJSON(w, apiStatus(err), resp)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// FeaturedAPI godoc
// @Summary Random selection of products for the home page
// @Tags catalog
// @Produce json
// @Success 200 {object} FeaturedResponse
// @Failure 502 {object} FeaturedResponse
// @Router /api/featured [get]
func (s *Server) FeaturedAPI(w http.ResponseWriter, r *http.Request) {
	products, err := s.loader.Load(r.Context())
	resp := FeaturedResponse{Data: catalog.Featured(products, s.opts.NewRand(), s.opts.FeaturedCount)}
	if err != nil {
		resp.Error = gateway.UserMessage(err)
		s.writeJSON(w, apiStatus(err), resp)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// SessionAPI godoc
// @Summary Current session identity
// @Tags session
// @Produce json
// @Success 200 {object} SessionResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/session [get]
func (s *Server) SessionAPI(w http.ResponseWriter, r *http.Request) {
	id, ok := s.currentUser(r)
	if !ok {
		s.writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
		return
	}
	s.writeJSON(w, http.StatusOK, SessionResponse{Authenticated: true, Admin: id.IsAdmin(), User: &id})
}

// Health godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// DashboardMetricsAPI godoc
// @Summary Catalog stock metrics for the admin dashboard
// @Description Falls back to the last recorded catalog snapshot when the backend is down.
// @Tags admin
// @Produce json
// @Success 200 {object} DashboardMetrics
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 502 {object} DashboardMetrics
// @Router /api/admin/metrics [get]
func (s *Server) DashboardMetricsAPI(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	var m DashboardMetrics

	products, fetchedAt, fallback, err := s.dashboardProducts(r.Context())
	if err != nil {
		m.Error = gateway.UserMessage(err)
		if !fallback {
			status = apiStatus(err)
		}
	}
	m.Stale = fallback
	if !fetchedAt.IsZero() {
		m.FetchedAt = &fetchedAt
	}

	m.TotalProducts = len(products)
	for _, p := range products {
		switch {
		case p.SoldOut():
			m.SoldOutCount++
		case p.LowStock():
			m.LowStockCount++
		}
	}
	s.writeJSON(w, status, m)
}

// AddToCartAPI godoc
// @Summary Add a product to the signed-in user's cart
// @Tags cart
// @Accept json
// @Produce json
// @Param item body models.CartItemRequest true "Product and quantity"
// @Success 200 {object} models.Cart
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/cart/items [post]
func (s *Server) AddToCartAPI(w http.ResponseWriter, r *http.Request) {
	user, _ := s.currentUser(r)

	var req models.CartItemRequest
	if err := readJSON(w, r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid input"})
		return
	}
	if req.ProductID <= 0 || req.Quantity <= 0 {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "productoId and cantidad must be positive"})
		return
	}

	product, err := s.products.ByID(r.Context(), req.ProductID)
	if err != nil {
		s.writeJSON(w, apiStatus(err), ErrorResponse{Error: gateway.UserMessage(err)})
		return
	}
	if !product.Available(req.Quantity) {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Cantidad solicitada no disponible en stock"})
		return
	}

	cart, err := s.cart.Add(r.Context(), user.ID, req.ProductID, req.Quantity)
	if err != nil {
		s.writeJSON(w, apiStatus(err), ErrorResponse{Error: gateway.UserMessage(err)})
		return
	}
	s.writeJSON(w, http.StatusOK, cart)
}
