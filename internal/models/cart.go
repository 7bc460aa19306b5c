package models

import "github.com/shopspring/decimal"

type CartItem struct {
	ProductID   int64           `json:"productoId"`
	ProductName string          `json:"nombreProducto"`
	UnitPrice   decimal.Decimal `json:"precioUnitario"`
	Quantity    int             `json:"cantidad"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	ImageURL    string          `json:"imagenUrl,omitempty"`
}

// Cart is the server-owned cart snapshot. Totals are never recomputed locally.
type Cart struct {
	ID     int64           `json:"id,omitempty"`
	UserID int64           `json:"usuarioId,omitempty"`
	Items  []CartItem      `json:"items"`
	Total  decimal.Decimal `json:"precioTotal"`
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// CartItemRequest is the body of POST /agregar.
type CartItemRequest struct {
	ProductID int64 `json:"productoId"`
	Quantity  int   `json:"cantidad"`
}
