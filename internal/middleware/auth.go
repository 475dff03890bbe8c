package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/raynott/storefront/internal/session"
)

// RequireLogin rejects sessions that hold no backend identity. Whether the
// stored token is still valid is not checked here; the backend decides that
// when the token is used.
func RequireLogin(sessions *session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid, err := SessionID(c)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}
			if _, err := sessions.Current(c.Request().Context(), sid); err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}
			return next(c)
		}
	}
}

func AdminOnly(sessions *session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid, err := SessionID(c)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}
			sess, err := sessions.Current(c.Request().Context(), sid)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}
			if !sess.IsAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
			}
			return next(c)
		}
	}
}
