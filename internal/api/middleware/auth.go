package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/minimarket/storefront/internal/core/ports"
)

// SessionCookie names the cookie carrying the opaque session id that
// keys the server-side session slot.
const SessionCookie = "session_id"

// Context keys populated by the auth middleware for downstream handlers.
const (
	ContextIdentity = "identity"
	ContextUsername = "username"
	ContextRole     = "role"
)

// Auth resolves the request identity with a fixed precedence: a bearer
// token in the Authorization header wins over the stored session slot.
// An invalid bearer token on an API-flavored request short-circuits with
// 401 and never falls through to the session. An invalid stored token is
// deleted from the slot before the request is treated as unauthenticated,
// so stale credentials do not linger server-side.
func Auth(auth ports.AuthService, sessions ports.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token, ok := bearerToken(c); ok {
				identity, err := auth.Verify(token)
				if err == nil {
					setIdentity(c, identity)
					return next(c)
				}
				if isAPIRequest(c) {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
				}
			}

			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return unauthenticated(c)
			}

			ctx := c.Request().Context()
			token, err := sessions.Get(ctx, cookie.Value)
			if err != nil {
				return unauthenticated(c)
			}

			identity, err := auth.Verify(token)
			if err != nil {
				_ = sessions.Delete(ctx, cookie.Value)
				return unauthenticated(c)
			}

			setIdentity(c, identity)
			return next(c)
		}
	}
}

// APIAuth accepts the Authorization header exclusively. Routes behind it
// never redirect and never consult the session slot.
func APIAuth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header, format: Bearer <token>")
			}

			identity, err := auth.Verify(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			setIdentity(c, identity)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func setIdentity(c echo.Context, identity *ports.Identity) {
	c.Set(ContextIdentity, identity)
	c.Set(ContextUsername, identity.Username)
	c.Set(ContextRole, identity.Role)
}

// isAPIRequest splits the two response flavors: API clients get JSON
// errors, web clients get redirected to the login page.
func isAPIRequest(c echo.Context) bool {
	if _, ok := bearerToken(c); ok {
		return true
	}
	if strings.Contains(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return true
	}
	return strings.Contains(c.Request().Header.Get("Accept"), echo.MIMEApplicationJSON)
}

func unauthenticated(c echo.Context) error {
	if isAPIRequest(c) {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return c.Redirect(http.StatusFound, "/login")
}
