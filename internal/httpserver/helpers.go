package httpserver

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/raynott/storefront/internal/events"
	"github.com/raynott/storefront/internal/logging"
)

// publish sends an analytics event, best effort. Failures are logged and
// never surfaced to the user.
func publish(c echo.Context, p *events.Producer, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := p.Publish(ctx, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("event publish error", "error", err)
	}
}

// coerceQty turns whatever the client sent as a quantity into an int of at
// least 1. Non-numeric input counts as 1.
func coerceQty(raw any) int {
	switch v := raw.(type) {
	case float64:
		if v < 1 {
			return 1
		}
		return int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return 1
		}
		return n
	default:
		return 1
	}
}
