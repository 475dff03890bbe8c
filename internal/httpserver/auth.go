package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/raynott/storefront/internal/backend"
	"github.com/raynott/storefront/internal/events"
	"github.com/raynott/storefront/internal/logging"
	"github.com/raynott/storefront/internal/middleware"
	"github.com/raynott/storefront/internal/session"
)

type AuthHTTP struct {
	Sessions *session.Store
	Producer *events.Producer
}

// Login delegates the credentials to the backend. The bearer token stays
// server-side; the browser only ever sees the identity.
func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "login")

	sid, err := middleware.SessionID(c)
	if err != nil {
		l.Error("login_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || req.Password == "" {
		l.Warn("login_error", "status", 400)
		return c.JSON(http.StatusBadRequest, "email and password required")
	}

	sess, err := h.Sessions.Login(ctx, sid, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			l.Warn("login_rejected", "status", 401, "email", req.Email)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid email or password."})
		}
		l.Error("login_error", "status", 502, "error", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "Login failed. Please try again."})
	}

	publish(c, h.Producer, sid, map[string]any{
		"type":       "user_logged_in",
		"session_id": sid,
		"email":      sess.Email,
	})

	l.Info("user logged in", "email", sess.Email)
	return c.JSON(http.StatusOK, sess.Identity)
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "register")

	sid, err := middleware.SessionID(c)
	if err != nil {
		l.Error("register_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		l.Warn("register_error", "status", 400)
		return c.JSON(http.StatusBadRequest, "name, email and password required")
	}

	sess, err := h.Sessions.Register(ctx, sid, req.Name, req.Email, req.Password)
	if err != nil {
		l.Error("register_error", "status", 502, "error", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "Registration failed. Please try again."})
	}

	publish(c, h.Producer, sid, map[string]any{
		"type":       "user_registered",
		"session_id": sid,
		"email":      sess.Email,
	})

	l.Info("user registered", "email", sess.Email)
	return c.JSON(http.StatusOK, sess.Identity)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "logout")

	sid, err := middleware.SessionID(c)
	if err != nil {
		l.Error("logout_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	if err := h.Sessions.Logout(ctx, sid); err != nil {
		l.Error("logout_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, sid, map[string]any{
		"type":       "user_logged_out",
		"session_id": sid,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Me returns the restored identity of the session, if any. Token validity is
// not probed here; the backend rejects a stale one on the next real call.
func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "me")

	sid, err := middleware.SessionID(c)
	if err != nil {
		l.Error("me_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	sess, err := h.Sessions.Current(ctx, sid)
	if err != nil {
		if errors.Is(err, session.ErrNotLoggedIn) {
			return c.JSON(http.StatusOK, echo.Map{"user": nil})
		}
		l.Error("me_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, echo.Map{"user": sess.Identity})
}
