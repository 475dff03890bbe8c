package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/raynott/storefront/internal/backend"
	"github.com/raynott/storefront/internal/cart"
	"github.com/raynott/storefront/internal/events"
	"github.com/raynott/storefront/internal/logging"
	"github.com/raynott/storefront/internal/middleware"
	"github.com/raynott/storefront/internal/models"
	"github.com/raynott/storefront/internal/session"
)

type CartHTTP struct {
	Backend  *backend.Client
	Carts    *cart.Store
	Sessions *session.Store
	Producer *events.Producer
}

func (h *CartHTTP) cartOf(c echo.Context) (string, *cart.Cart, error) {
	sid, err := middleware.SessionID(c)
	if err != nil {
		return "", nil, err
	}
	return sid, h.Carts.Get(sid), nil
}

func cartResponse(c *cart.Cart) echo.Map {
	items := c.Items()
	if items == nil {
		items = []models.CartLineItem{}
	}
	return echo.Map{
		"items":  items,
		"totals": c.Totals(),
	}
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "get.cart")

	_, userCart, err := h.cartOf(c)
	if err != nil {
		l.Error("get_cart_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	return c.JSON(http.StatusOK, cartResponse(userCart))
}

// AddToCart merges the product into the cart: a fresh snapshot of the
// product is fetched from the backend, an existing line item just gets its
// quantity bumped. The stock check is advisory and only gates the first add.
func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add.cart")

	sid, userCart, err := h.cartOf(c)
	if err != nil {
		l.Error("add_to_cart_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	var req struct {
		ProductID string `json:"product_id"`
		Qty       any    `json:"qty"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == "" {
		l.Warn("add_to_cart_error", "status", 400)
		return c.JSON(http.StatusBadRequest, "product_id required")
	}
	qty := 1
	if req.Qty != nil {
		qty = coerceQty(req.Qty)
	}

	token := h.Sessions.Token(ctx, sid)
	product, err := h.Backend.GetProduct(ctx, token, req.ProductID)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			l.Warn("add_to_cart_not_found", "status", 404, "product_id", req.ProductID)
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found."})
		}
		l.Error("add_to_cart_error", "status", 502, "error", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "Product data could not be loaded."})
	}

	if !userCart.Has(product.ID) && !product.InStock() {
		l.Warn("add_to_cart_out_of_stock", "status", 409, "product_id", product.ID)
		return c.JSON(http.StatusConflict, echo.Map{"error": "Out of stock."})
	}

	item := userCart.Add(*product, qty)
	publish(c, h.Producer, sid, map[string]any{
		"type":       "add_to_cart",
		"session_id": sid,
		"product_id": product.ID,
		"quantity":   item.Quantity,
	})

	l.Info("item added to cart", "product_id", product.ID, "quantity", item.Quantity)
	return c.JSON(http.StatusOK, cartResponse(userCart))
}

// UpdateQty sets a line item's quantity; anything below 1 or non-numeric
// is coerced to 1.
func (h *CartHTTP) UpdateQty(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "update.qty")

	sid, userCart, err := h.cartOf(c)
	if err != nil {
		l.Error("update_qty_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	var req struct {
		Qty any `json:"qty"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("update_qty_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}

	userCart.UpdateQty(c.Param("id"), coerceQty(req.Qty))
	publish(c, h.Producer, sid, map[string]any{
		"type":       "cart_qty_updated",
		"session_id": sid,
		"product_id": c.Param("id"),
	})

	return c.JSON(http.StatusOK, cartResponse(userCart))
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "remove.cart")

	sid, userCart, err := h.cartOf(c)
	if err != nil {
		l.Error("remove_from_cart_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	userCart.Remove(c.Param("id"))
	publish(c, h.Producer, sid, map[string]any{
		"type":       "cart_item_removed",
		"session_id": sid,
		"product_id": c.Param("id"),
	})

	return c.JSON(http.StatusOK, cartResponse(userCart))
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "clear.cart")

	sid, userCart, err := h.cartOf(c)
	if err != nil {
		l.Error("clear_cart_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	userCart.Clear()
	publish(c, h.Producer, sid, map[string]any{
		"type":       "cart_cleared",
		"session_id": sid,
	})

	l.Info("cart cleared")
	return c.JSON(http.StatusOK, cartResponse(userCart))
}
