package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/raynott/storefront/internal/backend"
	"github.com/raynott/storefront/internal/logging"
	"github.com/raynott/storefront/internal/middleware"
	"github.com/raynott/storefront/internal/models"
	"github.com/raynott/storefront/internal/session"
)

type ProfileHTTP struct {
	Backend  *backend.Client
	Sessions *session.Store
}

// MyOrders renders the profile view: the stored identity plus the user's
// order history from the backend.
func (h *ProfileHTTP) MyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.orders")

	sid, err := middleware.SessionID(c)
	if err != nil {
		l.Error("profile_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	sess, err := h.Sessions.Current(ctx, sid)
	if err != nil {
		l.Warn("profile_not_logged_in", "status", 401)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	orders, err := h.Backend.MyOrders(ctx, sess.Token)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			// Stale token discovered on use; the session itself stays until
			// the user logs in again.
			l.Warn("profile_token_rejected", "status", 401)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Session expired. Please log in again."})
		}
		l.Error("profile_error", "status", 502, "error", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "Unable to load orders. Please check the API connection."})
	}
	if orders == nil {
		orders = []models.Order{}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user":   sess.Identity,
		"orders": orders,
	})
}
