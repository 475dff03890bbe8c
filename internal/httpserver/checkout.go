package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/raynott/storefront/internal/backend"
	"github.com/raynott/storefront/internal/cart"
	"github.com/raynott/storefront/internal/checkout"
	"github.com/raynott/storefront/internal/events"
	"github.com/raynott/storefront/internal/logging"
	"github.com/raynott/storefront/internal/middleware"
	"github.com/raynott/storefront/internal/session"
)

type CheckoutHTTP struct {
	Flow     *checkout.Service
	Carts    *cart.Store
	Sessions *session.Store
	Producer *events.Producer
}

// State tells the checkout page whether a submission is running, succeeded,
// or failed, and whether submit should be enabled at all.
func (h *CheckoutHTTP) State(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "checkout.state")

	sid, err := middleware.SessionID(c)
	if err != nil {
		l.Error("checkout_state_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	state, lastErr := h.Flow.State(sid)
	cartLen := h.Carts.Get(sid).Len()
	resp := echo.Map{
		"state":     state.String(),
		"cartEmpty": cartLen == 0,
		"canSubmit": state != checkout.StateSubmitting && cartLen > 0,
	}
	if lastErr != nil {
		resp["error"] = "Failed to place order. Please try again."
	}
	return c.JSON(http.StatusOK, resp)
}

// Submit runs one checkout attempt. Success clears the cart and sends the
// browser to the order confirmation; failure surfaces a message and leaves
// everything in place for a manual retry.
func (h *CheckoutHTTP) Submit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.submit")

	sid, err := middleware.SessionID(c)
	if err != nil {
		l.Error("checkout_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	var form checkout.ShippingForm
	if err := c.Bind(&form); err != nil {
		l.Warn("checkout_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}

	token := h.Sessions.Token(ctx, sid)
	order, err := h.Flow.Submit(ctx, sid, token, h.Carts.Get(sid), form)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrValidation):
			l.Warn("checkout_rejected", "status", 400, "error", err)
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, checkout.ErrInFlight):
			l.Warn("checkout_in_flight", "status", 409)
			return c.JSON(http.StatusConflict, echo.Map{"error": "Order submission already in progress."})
		case errors.Is(err, backend.ErrUnauthorized):
			l.Warn("checkout_unauthorized", "status", 401)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Please log in to place an order."})
		}
		l.Error("checkout_error", "status", 502, "error", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "Failed to place order. Please try again."})
	}

	publish(c, h.Producer, sid, map[string]any{
		"type":       "order_placed",
		"session_id": sid,
		"order_id":   order.ID,
		"total":      order.TotalPrice,
	})

	l.Info("order placed", "order_id", order.ID, "total", order.TotalPrice)
	return c.JSON(http.StatusCreated, echo.Map{
		"order":    order,
		"redirect": "/profile",
	})
}
