package handlers

import (
	"net/http"
	"strconv"

	"github.com/rogerio-castellano/capri-storefront/internal/catalog"
	"github.com/rogerio-castellano/capri-storefront/internal/gateway"
	"github.com/rogerio-castellano/capri-storefront/internal/models"
)

type sortOption struct {
	Key   catalog.SortKey
	Label string
}

var sortOptions = []sortOption{
	{catalog.SortByName, "Nombre (A-Z)"},
	{catalog.SortByPriceAsc, "Precio: menor a mayor"},
	{catalog.SortByPriceDesc, "Precio: mayor a menor"},
}

type homePage struct {
	viewBase
	Featured []models.Product
}

// Home shows a random selection of the catalog.
func (s *Server) Home(w http.ResponseWriter, r *http.Request) {
	data := homePage{viewBase: s.base(r, "Perfumería Capri")}

	products, err := s.loader.Load(r.Context())
	if err != nil {
		data.Error = gateway.UserMessage(err)
	}
	data.Featured = catalog.Featured(products, s.opts.NewRand(), s.opts.FeaturedCount)
	s.render(w, http.StatusOK, "home.html", data)
}

type catalogPage struct {
	viewBase
	Criteria catalog.Criteria
	Result   catalog.Result
	Options  catalog.Options
	Sorts    []sortOption
}

// Catalog renders the filtered, sorted and paginated product grid. A failed fetch
// renders an empty grid with the error above it.
func (s *Server) Catalog(w http.ResponseWriter, r *http.Request) {
	criteria := catalog.FromQuery(r.URL.Query(), s.opts.PageSize)
	data := catalogPage{
		viewBase: s.base(r, "Catálogo"),
		Criteria: criteria,
		Sorts:    sortOptions,
	}

	products, err := s.loader.Load(r.Context())
	if err != nil {
		data.Error = gateway.UserMessage(err)
	}
	data.Result = s.pipeline.Apply(products, criteria)
	data.Criteria.Page = data.Result.Page
	data.Options = catalog.BuildOptions(products)
	s.render(w, http.StatusOK, "catalog.html", data)
}

type productPage struct {
	viewBase
	Product  models.Product
	Quantity int
}

func (s *Server) ProductDetail(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.renderError(w, r, http.StatusNotFound, "Producto no encontrado")
		return
	}

	p, err := s.products.ByID(r.Context(), id)
	if err != nil {
		if gateway.KindOf(err) == gateway.KindNotFound {
			s.renderError(w, r, http.StatusNotFound, "Producto no encontrado")
			return
		}
		s.renderError(w, r, http.StatusBadGateway, "Error al cargar el producto")
		return
	}

	data := productPage{viewBase: s.base(r, p.Name), Product: p, Quantity: 1}
	if r.URL.Query().Get("agregado") != "" {
		data.Success = "¡Producto agregado al carrito!"
	}
	s.render(w, http.StatusOK, "product.html", data)
}

func productURL(id int64) string {
	return "/product/" + strconv.FormatInt(id, 10)
}
