package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/capri-storefront/internal/gateway"
	"github.com/rogerio-castellano/capri-storefront/internal/models"
)

type cartPage struct {
	viewBase
	Cart models.Cart
}

func (s *Server) Cart(w http.ResponseWriter, r *http.Request) {
	user, _ := s.currentUser(r)
	data := cartPage{viewBase: s.base(r, "Mi carrito")}

	cart, err := s.cart.View(r.Context(), user.ID)
	switch {
	case err == nil:
		data.Cart = cart
	case gateway.KindOf(err) == gateway.KindNotFound:
		// no cart yet
	default:
		s.log.WithError(err).Warn("failed to load cart")
		data.Error = "Error al cargar el carrito"
	}
	s.render(w, http.StatusOK, "cart.html", data)
}

// AddToCart checks the requested quantity against the product's current stock before
// asking the backend, then returns to the product page.
func (s *Server) AddToCart(w http.ResponseWriter, r *http.Request) {
	user, _ := s.currentUser(r)

	productID, ok := formInt(r, "productoId")
	if !ok || productID <= 0 {
		s.renderError(w, r, http.StatusBadRequest, "Producto inválido")
		return
	}
	product, err := s.products.ByID(r.Context(), int64(productID))
	if err != nil {
		if gateway.KindOf(err) == gateway.KindNotFound {
			s.renderError(w, r, http.StatusNotFound, "Producto no encontrado")
			return
		}
		s.renderError(w, r, http.StatusBadGateway, "Error al cargar el producto")
		return
	}

	qty, ok := formInt(r, "cantidad")
	data := productPage{viewBase: s.base(r, product.Name), Product: product, Quantity: qty}
	switch {
	case !ok || qty <= 0:
		data.Quantity = 1
		data.Error = "La cantidad debe ser mayor a cero"
	case !product.Available(qty):
		data.Error = "Cantidad solicitada no disponible en stock"
	}
	if data.Error != "" {
		s.render(w, http.StatusBadRequest, "product.html", data)
		return
	}

	if _, err := s.cart.Add(r.Context(), user.ID, product.ID, qty); err != nil {
		s.log.WithError(err).Warn("failed to add to cart")
		if gateway.KindOf(err) == gateway.KindValidation {
			data.Error = gateway.UserMessage(err)
		} else {
			data.Error = "Error al agregar al carrito"
		}
		s.render(w, http.StatusBadRequest, "product.html", data)
		return
	}
	seeOther(w, r, productURL(product.ID)+"?agregado=1")
}

func (s *Server) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	user, _ := s.currentUser(r)
	productID, err := idParam(r, "productID")
	if err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Producto inválido")
		return
	}

	if _, err := s.cart.Remove(r.Context(), user.ID, productID); err != nil {
		s.log.WithError(err).Warn("failed to remove cart item")
		data := cartPage{viewBase: s.base(r, "Mi carrito")}
		data.Error = "Error al eliminar el producto"
		if current, verr := s.cart.View(r.Context(), user.ID); verr == nil {
			data.Cart = current
		}
		s.render(w, http.StatusBadGateway, "cart.html", data)
		return
	}
	seeOther(w, r, "/cart")
}

func (s *Server) ClearCart(w http.ResponseWriter, r *http.Request) {
	user, _ := s.currentUser(r)
	if err := s.cart.Clear(r.Context(), user.ID); err != nil {
		s.log.WithError(err).Warn("failed to clear cart")
		data := cartPage{viewBase: s.base(r, "Mi carrito")}
		data.Error = "Error al vaciar el carrito"
		s.render(w, http.StatusBadGateway, "cart.html", data)
		return
	}
	seeOther(w, r, "/cart")
}

type checkoutPage struct {
	viewBase
	Cart    models.Cart
	Address string
}

func (s *Server) CheckoutForm(w http.ResponseWriter, r *http.Request) {
	user, _ := s.currentUser(r)
	cart, err := s.cart.View(r.Context(), user.ID)
	if err != nil && gateway.KindOf(err) != gateway.KindNotFound {
		data := checkoutPage{viewBase: s.base(r, "Finalizar compra")}
		data.Error = "Error al cargar el carrito"
		s.render(w, http.StatusBadGateway, "checkout.html", data)
		return
	}
	if cart.IsEmpty() {
		seeOther(w, r, "/cart")
		return
	}
	s.render(w, http.StatusOK, "checkout.html", checkoutPage{viewBase: s.base(r, "Finalizar compra"), Cart: cart})
}

// Checkout places the order. An insufficient-stock rejection shows the backend message and
// sends the user back to the cart after the configured delay; other failures stay on the form.
func (s *Server) Checkout(w http.ResponseWriter, r *http.Request) {
	user, _ := s.currentUser(r)
	address := strings.TrimSpace(r.FormValue("direccionEnvio"))

	data := checkoutPage{viewBase: s.base(r, "Finalizar compra"), Address: address}
	if cart, err := s.cart.View(r.Context(), user.ID); err == nil {
		data.Cart = cart
	}

	if address == "" {
		data.Error = "La dirección de envío es obligatoria"
		s.render(w, http.StatusBadRequest, "checkout.html", data)
		return
	}

	order, err := s.orders.Create(r.Context(), user.ID, address)
	if err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Warn("checkout failed")
		switch {
		case gateway.IsStockError(err):
			data.Error = gateway.UserMessage(err)
			seconds := int(s.opts.RedirectDelay.Seconds())
			data.Refresh = &metaRefresh{Seconds: seconds, URL: "/cart"}
			w.Header().Set("Refresh", fmt.Sprintf("%d; url=/cart", seconds))
			s.render(w, http.StatusConflict, "checkout.html", data)
		case gateway.KindOf(err) == gateway.KindValidation:
			data.Error = gateway.UserMessage(err)
			s.render(w, http.StatusBadRequest, "checkout.html", data)
		default:
			data.Error = "Error al crear el pedido"
			s.render(w, http.StatusBadGateway, "checkout.html", data)
		}
		return
	}

	s.log.WithField("order_id", order.ID).Info("order created")
	seeOther(w, r, "/orders?pedido="+strconv.FormatInt(order.ID, 10))
}

type ordersPage struct {
	viewBase
	Result gateway.OrdersResult
}

func (s *Server) Orders(w http.ResponseWriter, r *http.Request) {
	user, _ := s.currentUser(r)
	data := ordersPage{viewBase: s.base(r, "Mis pedidos")}
	if id := queryInt(r, "pedido", 0); id > 0 {
		data.Success = fmt.Sprintf("¡Pedido #%d creado con éxito!", id)
	}

	data.Result = s.orders.ForUser(r.Context(), user.ID)
	if data.Result.Failed() {
		s.log.WithError(data.Result.Err).Warn("failed to load orders")
		data.Error = data.Result.Reason
	}
	s.render(w, http.StatusOK, "orders.html", data)
}
