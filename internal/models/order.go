package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ProductID   int64           `json:"productoId,omitempty"`
	ProductName string          `json:"nombreProducto"`
	Quantity    int             `json:"cantidad"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type Order struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"usuarioId"`
	PlacedAt        string          `json:"fechaPedido"`
	Status          string          `json:"estado"`
	ShippingAddress string          `json:"direccionEnvio"`
	PaymentType     string          `json:"tipoPago"`
	PaymentStatus   string          `json:"estadoPago,omitempty"`
	PaymentRef      string          `json:"referenciaPago,omitempty"`
	PaymentID       int64           `json:"idPago,omitempty"`
	Items           []OrderItem     `json:"items"`
	Total           decimal.Decimal `json:"total"`
}

// CreateOrderRequest is the body of POST /crear.
type CreateOrderRequest struct {
	UserID          int64  `json:"usuarioId"`
	ShippingAddress string `json:"direccionEnvio"`
}

type Payment struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"pedidoId,omitempty"`
	Status    string          `json:"estado"`
	Reference string          `json:"referencia,omitempty"`
	Amount    decimal.Decimal `json:"monto"`
}

// Payment states accepted by PUT /pago/{id}/estado.
const (
	PaymentApproved = "APROBADO"
	PaymentRejected = "RECHAZADO"
)

// UnmarshalJSON accepts the payment id under any of the spellings the orders backend emits.
func (o *Order) UnmarshalJSON(data []byte) error {
	type plain Order
	aux := struct {
		*plain
		IDPagoSnake int64 `json:"id_pago"`
		PagoID      int64 `json:"pagoId"`
	}{plain: (*plain)(o)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if o.PaymentID == 0 {
		o.PaymentID = aux.IDPagoSnake
	}
	if o.PaymentID == 0 {
		o.PaymentID = aux.PagoID
	}
	return nil
}
