package gateway

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeOrders(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus OrdersStatus
		wantCount  int
		wantReason string
	}{
		{"bare array", `[{"id":1,"estado":"PENDIENTE","total":10},{"id":2,"total":5}]`, OrdersOK, 2, ""},
		{"empty array", `[]`, OrdersEmpty, 0, ""},
		{"empty body", ``, OrdersEmpty, 0, ""},
		{"null", `null`, OrdersEmpty, 0, ""},
		{"no orders notice", `{"mensaje":"No se encontraron pedidos para el usuario"}`, OrdersEmpty, 0, ""},
		{"content page", `{"content":[{"id":1}],"totalElements":1}`, OrdersOK, 1, ""},
		{"empty content page", `{"content":[],"totalElements":0}`, OrdersEmpty, 0, ""},
		{"data wrapper", `{"data":[{"id":1},{"id":2},{"id":3}]}`, OrdersOK, 3, ""},
		{"error object", `{"error":"Usuario inválido"}`, OrdersFailed, 0, "Usuario inválido"},
		{"other message", `{"mensaje":"Servicio en mantenimiento"}`, OrdersFailed, 0, "Servicio en mantenimiento"},
		{"unknown object", `{"foo":1}`, OrdersFailed, 0, "Respuesta de pedidos no reconocida"},
		{"scalar", `"hola"`, OrdersFailed, 0, "Respuesta de pedidos no reconocida"},
		{"broken array", `[{"id":`, OrdersFailed, 0, "Respuesta de pedidos no reconocida"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeOrders([]byte(tt.body))
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Len(t, got.Orders, tt.wantCount)
			assert.Equal(t, tt.wantReason, got.Reason)
		})
	}
}

func TestNormalizeOrdersReadsPaymentIDSpellings(t *testing.T) {
	got := NormalizeOrders([]byte(`[{"id":1,"idPago":4},{"id":2,"id_pago":5},{"id":3,"pagoId":6}]`))
	require.True(t, got.OK())
	assert.Equal(t, int64(4), got.Orders[0].PaymentID)
	assert.Equal(t, int64(5), got.Orders[1].PaymentID)
	assert.Equal(t, int64(6), got.Orders[2].PaymentID)
}

func TestOrdersForUser(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		gw := newTestGateways(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/perfumeria/pedido/usuario/9", r.URL.Path)
			writeBody(t, w, http.StatusOK, `[{"id":1,"usuarioId":9}]`)
		})
		res := gw.Orders.ForUser(t.Context(), 9)
		require.True(t, res.OK())
		assert.Equal(t, int64(9), res.Orders[0].UserID)
	})

	t.Run("not found reads as empty", func(t *testing.T) {
		gw := newTestGateways(t, func(w http.ResponseWriter, r *http.Request) {
			writeBody(t, w, http.StatusNotFound, `{"mensaje":"No se encontraron pedidos"}`)
		})
		assert.True(t, gw.Orders.ForUser(t.Context(), 9).Empty())
	})

	t.Run("server error", func(t *testing.T) {
		gw := newTestGateways(t, func(w http.ResponseWriter, r *http.Request) {
			writeBody(t, w, http.StatusInternalServerError, `{"error":"db down"}`)
		})
		res := gw.Orders.ForUser(t.Context(), 9)
		require.True(t, res.Failed())
		assert.ErrorIs(t, res.Err, ErrServer)
		assert.Equal(t, "Error en el servidor. Intenta más tarde.", res.Reason)
	})
}
