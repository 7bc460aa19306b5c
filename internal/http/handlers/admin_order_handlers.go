package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/capri-storefront/internal/gateway"
	"github.com/rogerio-castellano/capri-storefront/internal/models"
)

type adminOrdersPage struct {
	viewBase
	UserID int
	Result *gateway.OrdersResult
}

// AdminOrders looks orders up by user (?usuarioId=) or jumps to one order (?pedidoId=).
func (s *Server) AdminOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if id := queryInt(r, "pedidoId", 0); id > 0 {
		seeOther(w, r, "/admin/orders/"+strconv.Itoa(id))
		return
	}

	data := adminOrdersPage{viewBase: s.base(r, "Pedidos")}
	if q.Has("pedidoId") || q.Has("usuarioId") {
		data.UserID = queryInt(r, "usuarioId", 0)
		if data.UserID == 0 {
			data.Error = "Por favor ingresa un ID"
			s.render(w, http.StatusBadRequest, "admin_orders.html", data)
			return
		}

		res := s.orders.ForUser(r.Context(), int64(data.UserID))
		data.Result = &res
		switch {
		case res.Empty():
			data.Error = "No se encontraron pedidos para el usuario ID: " + strconv.Itoa(data.UserID)
		case res.Failed():
			s.log.WithError(res.Err).Warn("failed to load orders")
			data.Error = res.Reason
		}
	}
	s.render(w, http.StatusOK, "admin_orders.html", data)
}

type adminOrderPage struct {
	viewBase
	Order   models.Order
	Payment *models.Payment
	States  []string
}

var paymentStates = []string{models.PaymentApproved, models.PaymentRejected}

func (s *Server) loadOrder(r *http.Request, id int64, title string) (adminOrderPage, error) {
	data := adminOrderPage{viewBase: s.adminBase(r, title), States: paymentStates}
	order, err := s.orders.ByID(r.Context(), id)
	if err != nil {
		return data, err
	}
	data.Order = order

	if order.PaymentID != 0 {
		p, err := s.orders.Payment(r.Context(), order.PaymentID)
		if err != nil {
			s.log.WithError(err).WithField("payment_id", order.PaymentID).Warn("failed to load payment")
		} else {
			data.Payment = &p
		}
	}
	return data, nil
}

func (s *Server) AdminOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.renderError(w, r, http.StatusNotFound, "No se encontró el pedido con ese ID")
		return
	}
	data, err := s.loadOrder(r, id, "Pedido #"+strconv.FormatInt(id, 10))
	if err != nil {
		if gateway.KindOf(err) == gateway.KindNotFound {
			s.renderError(w, r, http.StatusNotFound, "No se encontró el pedido con ese ID")
			return
		}
		s.renderError(w, r, http.StatusBadGateway, gateway.UserMessage(err))
		return
	}
	s.render(w, http.StatusOK, "admin_order.html", data)
}

// AdminUpdatePayment applies the submitted payment state and/or shipping reference to the
// order's payment. At least one of them is required.
func (s *Server) AdminUpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.renderError(w, r, http.StatusNotFound, "No se encontró el pedido con ese ID")
		return
	}
	data, err := s.loadOrder(r, id, "Pedido #"+strconv.FormatInt(id, 10))
	if err != nil {
		s.renderError(w, r, apiStatus(err), gateway.UserMessage(err))
		return
	}

	state := r.FormValue("estadoPago")
	ref := strings.TrimSpace(r.FormValue("referenciaEnvio"))
	switch {
	case data.Order.PaymentID == 0:
		data.Error = "Este pedido no tiene un pago asociado"
	case state == "" && ref == "":
		data.Error = "Debes seleccionar un estado de pago o ingresar una guía de envío"
	}
	if data.Error != "" {
		s.render(w, http.StatusBadRequest, "admin_order.html", data)
		return
	}

	if state != "" {
		if _, err := s.orders.UpdatePaymentStatus(r.Context(), data.Order.PaymentID, state); err != nil {
			s.paymentFailed(w, data, err)
			return
		}
	}
	if ref != "" {
		if _, err := s.orders.SetPaymentReference(r.Context(), data.Order.PaymentID, ref); err != nil {
			s.paymentFailed(w, data, err)
			return
		}
	}
	seeOther(w, r, "/admin/orders/"+strconv.FormatInt(id, 10)+"?ok=pago")
}

func (s *Server) paymentFailed(w http.ResponseWriter, data adminOrderPage, err error) {
	s.log.WithError(err).WithField("payment_id", data.Order.PaymentID).Warn("failed to update payment")
	data.Error = "Error al actualizar el pedido"
	if gateway.KindOf(err) == gateway.KindValidation {
		data.Error = gateway.UserMessage(err)
	}
	s.render(w, http.StatusBadRequest, "admin_order.html", data)
}
