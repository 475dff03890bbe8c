package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// SessionCookie names the cookie that ties a browser to its server-side
// session (cart, stored identity). It identifies a browser, not a login:
// anonymous visitors get one too.
const SessionCookie = "storefront_session"

const sessionTTL = 7 * 24 * time.Hour

func CreateCookie(name string, value string, path string, expTime time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expTime,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func mintSession(secret []byte) (string, *http.Cookie, error) {
	sid := uuid.NewString()
	exp := time.Now().Add(sessionTTL)
	claims := jwt.MapClaims{
		"sid": sid,
		"exp": exp.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", nil, err
	}
	return sid, CreateCookie(SessionCookie, signed, "/", exp), nil
}

func parseSession(raw string, secret []byte) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid session token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid session claims")
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", errors.New("missing sid claim")
	}
	return sid, nil
}

// EnsureSession resolves the session cookie, minting a fresh session (and
// cookie) when it is missing or invalid. Runs on every public route so an
// anonymous visitor can fill a cart.
func EnsureSession(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				if sid, err := parseSession(cookie.Value, secret); err == nil {
					c.Set("session_id", sid)
					return next(c)
				}
			}

			sid, cookie, err := mintSession(secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "could not create session")
			}
			c.SetCookie(cookie)
			c.Set("session_id", sid)
			return next(c)
		}
	}
}

// SessionJWT gates routes that require an existing session cookie; requests
// without one are rejected instead of silently getting a new session.
func SessionJWT(secret []byte) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningMethod: "HS256",
		ContextKey:    "session",
		TokenLookup:   "cookie:" + SessionCookie,
		SigningKey:    secret,
	})
}

// SessionID extracts the session ID set by EnsureSession or SessionJWT.
func SessionID(c echo.Context) (string, error) {
	if sid, ok := c.Get("session_id").(string); ok && sid != "" {
		return sid, nil
	}
	if token, ok := c.Get("session").(*jwt.Token); ok {
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if sid, ok := claims["sid"].(string); ok && sid != "" {
				return sid, nil
			}
		}
	}
	return "", errors.New("no session")
}
