package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/minimarket/storefront/internal/core/domain"
)

func TestRequireRole(t *testing.T) {
	run := func(role string, allowed ...string) *httptest.ResponseRecorder {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != "" {
			c.Set(ContextRole, role)
		}

		probe := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
		if err := RequireRole(allowed...)(probe)(c); err != nil {
			e.HTTPErrorHandler(err, c)
		}
		return rec
	}

	if rec := run(domain.RoleAdmin, domain.RoleAdmin); rec.Code != http.StatusOK {
		t.Errorf("admin on admin route: expected 200, got %d", rec.Code)
	}
	if rec := run(domain.RoleCustomer, domain.RoleAdmin); rec.Code != http.StatusForbidden {
		t.Errorf("customer on admin route: expected 403, got %d", rec.Code)
	}
	if rec := run("", domain.RoleAdmin); rec.Code != http.StatusForbidden {
		t.Errorf("missing role: expected 403, got %d", rec.Code)
	}
	if rec := run(domain.RoleCustomer, domain.RoleCustomer, domain.RoleAdmin); rec.Code != http.StatusOK {
		t.Errorf("customer in allowed set: expected 200, got %d", rec.Code)
	}
}
