package models

import "github.com/shopspring/decimal"

// lowStockThreshold marks the "last units" badge on product cards.
const lowStockThreshold = 5

// Product is a read-only snapshot of a catalog entry as served by the catalog backend.
type Product struct {
	ID            int64            `json:"id"`
	Name          string           `json:"nombre"`
	Brand         string           `json:"marca,omitempty"`
	Category      string           `json:"tipo,omitempty"`
	Description   string           `json:"descripcion,omitempty"`
	Price         decimal.Decimal  `json:"precio"`
	PreviousPrice *decimal.Decimal `json:"precioAnterior,omitempty"`
	Stock         int              `json:"stock"`
	ImageURL      string           `json:"imagenUrl,omitempty"`
}

// HasDiscount reports whether a previous price exists and exceeds the current one.
func (p Product) HasDiscount() bool {
	return p.PreviousPrice != nil && p.PreviousPrice.GreaterThan(p.Price)
}

func (p Product) LowStock() bool {
	return p.Stock > 0 && p.Stock < lowStockThreshold
}

func (p Product) SoldOut() bool {
	return p.Stock == 0
}

// Available reports whether qty units can be requested.
func (p Product) Available(qty int) bool {
	return qty > 0 && qty <= p.Stock
}

// RestockRequest is the body of PUT /reponer-stock.
type RestockRequest struct {
	ProductID int64 `json:"productoId"`
	Quantity  int   `json:"cantidad"`
}
