package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/capri-storefront/internal/catalog"
	"github.com/rogerio-castellano/capri-storefront/internal/gateway"
	"github.com/rogerio-castellano/capri-storefront/internal/models"
)

const maxProductForm = gateway.MaxImageSize + 1<<20

var searchFields = []gateway.SearchField{gateway.SearchByName, gateway.SearchByBrand, gateway.SearchByCategory}

type adminProductsPage struct {
	viewBase
	Criteria     catalog.Criteria
	Result       catalog.Result
	SearchField  gateway.SearchField
	SearchValue  string
	SearchFields []gateway.SearchField
}

// AdminProducts lists the catalog for management. ?campo=&valor= runs a backend search by
// name, brand or category; otherwise the full list goes through the catalog pipeline.
func (s *Server) AdminProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria := catalog.FromQuery(q, s.opts.AdminPageSize)
	data := adminProductsPage{
		viewBase:     s.adminBase(r, "Productos"),
		Criteria:     criteria,
		SearchField:  gateway.SearchField(q.Get("campo")),
		SearchValue:  strings.TrimSpace(q.Get("valor")),
		SearchFields: searchFields,
	}

	var (
		products []models.Product
		err      error
	)
	if data.SearchValue != "" {
		products, err = s.products.SearchBy(r.Context(), data.SearchField, data.SearchValue, 0, s.loaderFetchSize())
	} else {
		products, err = s.loader.Load(r.Context())
	}
	if err != nil {
		s.log.WithError(err).Warn("failed to load products")
		data.Error = gateway.UserMessage(err)
	}

	data.Result = s.pipeline.Apply(products, criteria)
	data.Criteria.Page = data.Result.Page
	s.render(w, http.StatusOK, "admin_products.html", data)
}

func (s *Server) loaderFetchSize() int {
	if s.opts.FetchSize > 0 {
		return s.opts.FetchSize
	}
	return catalog.DefaultFetchSize
}

type productFormPage struct {
	viewBase
	Action        string
	Product       models.Product
	UploadEnabled bool
}

func (s *Server) productForm(r *http.Request, title, action string, p models.Product) productFormPage {
	return productFormPage{viewBase: s.base(r, title), Action: action, Product: p, UploadEnabled: s.images != nil}
}

func (s *Server) AdminNewProduct(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "admin_product_form.html", s.productForm(r, "Nuevo producto", "/admin/products", models.Product{}))
}

func (s *Server) AdminEditProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.renderError(w, r, http.StatusNotFound, "Producto no encontrado")
		return
	}
	p, err := s.products.ByID(r.Context(), id)
	if err != nil {
		s.renderError(w, r, apiStatus(err), gateway.UserMessage(err))
		return
	}
	s.render(w, http.StatusOK, "admin_product_form.html", s.productForm(r, "Editar producto", productAdminURL(id), p))
}

func productAdminURL(id int64) string {
	return "/admin/products/" + strconv.FormatInt(id, 10)
}

// parseProduct reads the product form, uploading the attached image when there is one.
func (s *Server) parseProduct(r *http.Request) (models.Product, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxProductForm); err != nil {
			return models.Product{}, &gateway.Error{Kind: gateway.KindValidation, Op: "admin.product_form", Message: "La imagen no debe superar 5MB"}
		}
	}

	form := productForm{
		Name:          r.FormValue("nombre"),
		Brand:         r.FormValue("marca"),
		Category:      r.FormValue("tipo"),
		Description:   r.FormValue("descripcion"),
		Price:         r.FormValue("precio"),
		PreviousPrice: r.FormValue("precioAnterior"),
		Stock:         r.FormValue("stock"),
		ImageURL:      r.FormValue("imagenUrl"),
	}
	p, errs := form.product()
	if len(errs) > 0 {
		return p, &gateway.Error{Kind: gateway.KindValidation, Op: "admin.product_form", Message: joinErrors(errs)}
	}

	file, hdr, err := r.FormFile("imagen")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return p, nil
	case err != nil:
		return p, err
	}
	defer file.Close()

	if s.images == nil {
		return p, &gateway.Error{Kind: gateway.KindValidation, Op: "admin.product_form", Message: "La subida de imágenes no está configurada"}
	}
	url, err := s.images.Upload(r.Context(), hdr.Filename, file)
	if err != nil {
		return p, err
	}
	p.ImageURL = url
	return p, nil
}

func (s *Server) AdminCreateProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.parseProduct(r)
	if err == nil {
		_, err = s.products.Create(r.Context(), p)
	}
	if err != nil {
		s.log.WithError(err).Warn("failed to create product")
		data := s.productForm(r, "Nuevo producto", "/admin/products", p)
		data.Error = gateway.UserMessage(err)
		s.render(w, http.StatusBadRequest, "admin_product_form.html", data)
		return
	}
	seeOther(w, r, "/admin/products?ok=creado")
}

func (s *Server) AdminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.renderError(w, r, http.StatusNotFound, "Producto no encontrado")
		return
	}

	p, err := s.parseProduct(r)
	p.ID = id
	if err == nil {
		_, err = s.products.Update(r.Context(), p)
	}
	if err != nil {
		s.log.WithError(err).WithField("product_id", id).Warn("failed to update product")
		data := s.productForm(r, "Editar producto", productAdminURL(id), p)
		data.Error = gateway.UserMessage(err)
		s.render(w, http.StatusBadRequest, "admin_product_form.html", data)
		return
	}
	seeOther(w, r, "/admin/products?ok=actualizado")
}

func (s *Server) AdminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.renderError(w, r, http.StatusNotFound, "Producto no encontrado")
		return
	}
	if err := s.products.Delete(r.Context(), id); err != nil {
		s.log.WithError(err).WithField("product_id", id).Warn("failed to delete product")
		s.renderError(w, r, apiStatus(err), gateway.UserMessage(err))
		return
	}
	seeOther(w, r, "/admin/products?ok=eliminado")
}

// AdminRestock adds the submitted quantity to a product's stock.
func (s *Server) AdminRestock(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.renderError(w, r, http.StatusNotFound, "Producto no encontrado")
		return
	}
	qty, ok := formInt(r, "cantidad")
	if !ok || qty <= 0 {
		s.renderError(w, r, http.StatusBadRequest, "La cantidad debe ser mayor a cero")
		return
	}
	if err := s.products.Restock(r.Context(), id, qty); err != nil {
		s.log.WithError(err).WithField("product_id", id).Warn("failed to restock product")
		s.renderError(w, r, apiStatus(err), gateway.UserMessage(err))
		return
	}
	seeOther(w, r, "/admin/products?ok=repuesto")
}
