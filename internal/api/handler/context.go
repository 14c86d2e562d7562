package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/minimarket/storefront/internal/api/middleware"
	"github.com/minimarket/storefront/internal/core/ports"
)

// ctxIdentity extracts the identity injected by the auth middleware.
// Its presence proves the middleware ran; a gap here is a wiring bug,
// answered with 401 rather than a panic.
func ctxIdentity(c echo.Context) (*ports.Identity, error) {
	identity, _ := c.Get(middleware.ContextIdentity).(*ports.Identity)
	if identity == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return identity, nil
}

// wantsJSON reports whether the client asked for the API flavor of a
// dual-flavor endpoint. Web clients get cookies and redirects instead.
func wantsJSON(c echo.Context) bool {
	if strings.Contains(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return true
	}
	return strings.Contains(c.Request().Header.Get("Accept"), echo.MIMEApplicationJSON)
}
