package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/capri-storefront/internal/models"
)

const (
	ordersPath   = "/api/perfumeria/pedido"
	paymentsPath = "/api/perfumeria/pago"
)

// OrdersGateway talks to the orders/payments backend.
type OrdersGateway struct {
	c client
}

func (g *OrdersGateway) Create(ctx context.Context, userID int64, address string) (models.Order, error) {
	const op = "orders.create"
	address = strings.TrimSpace(address)
	if address == "" {
		return models.Order{}, validationError(op, "La dirección de envío es obligatoria")
	}

	var order models.Order
	body := models.CreateOrderRequest{UserID: userID, ShippingAddress: address}
	err := g.c.do(ctx, op, http.MethodPost, ordersPath+"/crear", nil, body, &order)
	return order, err
}

func (g *OrdersGateway) ByID(ctx context.Context, id int64) (models.Order, error) {
	var order models.Order
	err := g.c.do(ctx, "orders.by_id", http.MethodGet, ordersPath+"/"+strconv.FormatInt(id, 10), nil, nil, &order)
	return order, err
}

// ForUser never fails outright: every outcome is folded into the result.
func (g *OrdersGateway) ForUser(ctx context.Context, userID int64) OrdersResult {
	const op = "orders.for_user"
	raw, err := g.c.doRaw(ctx, op, http.MethodGet, ordersPath+"/usuario/"+strconv.FormatInt(userID, 10), nil, nil)
	if err != nil {
		if KindOf(err) == KindNotFound {
			return OrdersResult{Status: OrdersEmpty}
		}
		return OrdersResult{Status: OrdersFailed, Reason: UserMessage(err), Err: err}
	}
	return NormalizeOrders(raw)
}

func (g *OrdersGateway) Payment(ctx context.Context, id int64) (models.Payment, error) {
	var p models.Payment
	err := g.c.do(ctx, "payments.by_id", http.MethodGet, paymentsPath+"/"+strconv.FormatInt(id, 10), nil, nil, &p)
	return p, err
}

func (g *OrdersGateway) UpdatePaymentStatus(ctx context.Context, id int64, state string) (models.Payment, error) {
	const op = "payments.update_status"
	if state != models.PaymentApproved && state != models.PaymentRejected {
		return models.Payment{}, validationError(op, "Estado de pago inválido: "+state)
	}

	q := url.Values{}
	q.Set("nuevoEstado", state)
	var p models.Payment
	err := g.c.do(ctx, op, http.MethodPut, paymentsPath+"/"+strconv.FormatInt(id, 10)+"/estado", q, nil, &p)
	return p, err
}

func (g *OrdersGateway) SetPaymentReference(ctx context.Context, id int64, ref string) (models.Payment, error) {
	const op = "payments.set_reference"
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Payment{}, validationError(op, "La referencia es obligatoria")
	}

	q := url.Values{}
	q.Set("referencia", ref)
	var p models.Payment
	err := g.c.do(ctx, op, http.MethodPut, paymentsPath+"/"+strconv.FormatInt(id, 10)+"/referencia", q, nil, &p)
	return p, err
}

// OrdersStatus tags an OrdersResult.
type OrdersStatus int

const (
	OrdersOK OrdersStatus = iota
	OrdersEmpty
	OrdersFailed
)

// OrdersResult is the normalized outcome of an order-list fetch. Orders is set only for
// OrdersOK; Reason only for OrdersFailed.
type OrdersResult struct {
	Status OrdersStatus
	Orders []models.Order
	Reason string
	Err    error
}

func (r OrdersResult) OK() bool     { return r.Status == OrdersOK }
func (r OrdersResult) Empty() bool  { return r.Status == OrdersEmpty }
func (r OrdersResult) Failed() bool { return r.Status == OrdersFailed }

const noOrdersMarker = "no se encontraron"

// NormalizeOrders folds every order-list shape the backend emits into one result: a bare
// array, a {"mensaje": "No se encontraron ..."} notice, or a page under "content" or "data".
func NormalizeOrders(raw []byte) OrdersResult {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return OrdersResult{Status: OrdersEmpty}
	}

	var orders []models.Order
	switch raw[0] {
	case '[':
		if err := json.Unmarshal(raw, &orders); err != nil {
			return invalidOrders(err)
		}
	case '{':
		var obj struct {
			Message *string         `json:"mensaje"`
			Error   *string         `json:"error"`
			Content json.RawMessage `json:"content"`
			Data    json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return invalidOrders(err)
		}
		switch {
		case obj.Message != nil && strings.Contains(strings.ToLower(*obj.Message), noOrdersMarker):
			return OrdersResult{Status: OrdersEmpty}
		case len(obj.Content) > 0:
			if err := json.Unmarshal(obj.Content, &orders); err != nil {
				return invalidOrders(err)
			}
		case len(obj.Data) > 0:
			if err := json.Unmarshal(obj.Data, &orders); err != nil {
				return invalidOrders(err)
			}
		case obj.Error != nil:
			return OrdersResult{Status: OrdersFailed, Reason: *obj.Error}
		case obj.Message != nil:
			return OrdersResult{Status: OrdersFailed, Reason: *obj.Message}
		default:
			return OrdersResult{Status: OrdersFailed, Reason: "Respuesta de pedidos no reconocida"}
		}
	default:
		return OrdersResult{Status: OrdersFailed, Reason: "Respuesta de pedidos no reconocida"}
	}

	if len(orders) == 0 {
		return OrdersResult{Status: OrdersEmpty}
	}
	return OrdersResult{Status: OrdersOK, Orders: orders}
}

func invalidOrders(err error) OrdersResult {
	return OrdersResult{
		Status: OrdersFailed,
		Reason: "Respuesta de pedidos no reconocida",
		Err:    &Error{Kind: KindServer, Op: "orders.normalize", Message: "invalid response", Err: err},
	}
}
