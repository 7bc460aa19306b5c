package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rogerio-castellano/capri-storefront/internal/models"
)

const productsPath = "/api/perfumeria/producto"

// SearchField selects the backend search endpoint.
type SearchField string

const (
	SearchByBrand    SearchField = "marca"
	SearchByCategory SearchField = "tipo"
	SearchByName     SearchField = "nombre"
)

func (f SearchField) valid() bool {
	return f == SearchByBrand || f == SearchByCategory || f == SearchByName
}

// ProductsGateway talks to the catalog backend.
type ProductsGateway struct {
	c client
}

type searchRequest struct {
	Value string `json:"valor"`
	Page  int    `json:"page"`
	Size  int    `json:"size"`
}

func pageQuery(page, size int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	return q
}

// All returns one backend page of products (0-based page index).
func (g *ProductsGateway) All(ctx context.Context, page, size int) ([]models.Product, error) {
	return fetchList[models.Product](ctx, g.c, "products.all", http.MethodGet, productsPath+"/all", pageQuery(page, size), nil)
}

func (g *ProductsGateway) ByID(ctx context.Context, id int64) (models.Product, error) {
	var p models.Product
	err := g.c.do(ctx, "products.by_id", http.MethodGet, productsPath+"/"+strconv.FormatInt(id, 10), nil, nil, &p)
	return p, err
}

func (g *ProductsGateway) SearchBy(ctx context.Context, field SearchField, value string, page, size int) ([]models.Product, error) {
	const op = "products.search"
	if !field.valid() {
		return nil, validationError(op, "unknown search field "+string(field))
	}
	body := searchRequest{Value: value, Page: page, Size: size}
	return fetchList[models.Product](ctx, g.c, op, http.MethodPost, productsPath+"/buscar/"+string(field), nil, body)
}

func validateProduct(op string, p models.Product) error {
	switch {
	case p.Name == "":
		return validationError(op, "El nombre es obligatorio")
	case p.Price.IsNegative():
		return validationError(op, "El precio no puede ser negativo")
	case p.Stock < 0:
		return validationError(op, "El stock no puede ser negativo")
	}
	return nil
}

func (g *ProductsGateway) Create(ctx context.Context, p models.Product) (models.Product, error) {
	const op = "products.create"
	if err := validateProduct(op, p); err != nil {
		return models.Product{}, err
	}
	p.ID = 0

	var created models.Product
	if err := g.c.do(ctx, op, http.MethodPost, productsPath+"/save", nil, p, &created); err != nil {
		return models.Product{}, err
	}
	return created, nil
}

func (g *ProductsGateway) Update(ctx context.Context, p models.Product) (models.Product, error) {
	const op = "products.update"
	if p.ID == 0 {
		return models.Product{}, validationError(op, "product id is required")
	}
	if err := validateProduct(op, p); err != nil {
		return models.Product{}, err
	}

	var updated models.Product
	if err := g.c.do(ctx, op, http.MethodPut, productsPath+"/update", nil, p, &updated); err != nil {
		return models.Product{}, err
	}
	if updated.ID == 0 {
		updated = p
	}
	return updated, nil
}

func (g *ProductsGateway) Delete(ctx context.Context, id int64) error {
	return g.c.do(ctx, "products.delete", http.MethodDelete, productsPath+"/delete/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

// Restock adds qty units to a product's stock.
func (g *ProductsGateway) Restock(ctx context.Context, productID int64, qty int) error {
	const op = "products.restock"
	if qty <= 0 {
		return validationError(op, "La cantidad debe ser mayor a cero")
	}
	body := models.RestockRequest{ProductID: productID, Quantity: qty}
	return g.c.do(ctx, op, http.MethodPut, productsPath+"/reponer-stock", nil, body, nil)
}
