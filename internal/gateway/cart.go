package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rogerio-castellano/capri-storefront/internal/models"
)

const cartPath = "/api/perfumeria/carrito"

// CartGateway talks to the cart endpoints of the catalog backend.
type CartGateway struct {
	c client
}

func userQuery(userID int64) url.Values {
	q := url.Values{}
	q.Set("usuarioId", strconv.FormatInt(userID, 10))
	return q
}

func (g *CartGateway) Add(ctx context.Context, userID, productID int64, qty int) (models.Cart, error) {
	const op = "cart.add"
	if qty <= 0 {
		return models.Cart{}, validationError(op, "La cantidad debe ser mayor a cero")
	}

	var cart models.Cart
	body := models.CartItemRequest{ProductID: productID, Quantity: qty}
	err := g.c.do(ctx, op, http.MethodPost, cartPath+"/agregar", userQuery(userID), body, &cart)
	return cart, err
}

func (g *CartGateway) View(ctx context.Context, userID int64) (models.Cart, error) {
	var cart models.Cart
	err := g.c.do(ctx, "cart.view", http.MethodGet, cartPath+"/ver", userQuery(userID), nil, &cart)
	return cart, err
}

func (g *CartGateway) Clear(ctx context.Context, userID int64) error {
	return g.c.do(ctx, "cart.clear", http.MethodDelete, cartPath+"/vaciar", userQuery(userID), nil, nil)
}

// Remove drops one product line and returns the cart as the backend now sees it.
func (g *CartGateway) Remove(ctx context.Context, userID, productID int64) (models.Cart, error) {
	var cart models.Cart
	path := cartPath + "/eliminar/" + strconv.FormatInt(productID, 10)
	err := g.c.do(ctx, "cart.remove", http.MethodDelete, path, userQuery(userID), nil, &cart)
	return cart, err
}
