package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/minimarket/storefront/internal/api/middleware"
	"github.com/minimarket/storefront/internal/infrastructure/seed"
	"github.com/minimarket/storefront/internal/infrastructure/store/memory"
)

// TestStorefrontFlow drives the whole stack through the router: seeded
// demo data, both login flavors, cart building, checkout, and the
// admin gate. It runs as one test because the router registers its
// prometheus collectors globally.
func TestStorefrontFlow(t *testing.T) {
	users := memory.NewUserRepository()
	products := memory.NewProductRepository()
	orders := memory.NewOrderRepository()
	sessions := memory.NewSessionStore()

	if err := seed.Load(context.Background(), users, products); err != nil {
		t.Fatalf("failed to seed demo data: %v", err)
	}

	e := NewRouter(RouterConfig{
		Users:      users,
		Products:   products,
		Orders:     orders,
		Sessions:   sessions,
		JWTSecret:  "test-secret",
		TokenTTL:   2 * time.Hour,
		SessionTTL: 2 * time.Hour,
		Logger:     zerolog.Nop(),
	})

	do := func(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if body != "" {
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		} else {
			req.Header.Set("Accept", echo.MIMEApplicationJSON)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	login := func(t *testing.T, username, password string) string {
		t.Helper()
		rec := do(t, http.MethodPost, "/api/login", "",
			`{"username":"`+username+`","password":"`+password+`"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("login %s failed: %d %s", username, rec.Code, rec.Body.String())
		}
		var resp struct {
			Token     string `json:"token"`
			ExpiresIn int64  `json:"expires_in"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode login response: %v", err)
		}
		if resp.ExpiresIn != 7200 {
			t.Errorf("expected expires_in 7200, got %d", resp.ExpiresIn)
		}
		return resp.Token
	}

	var (
		customerToken string
		cartData      string
		orderID       string
	)

	t.Run("health", func(t *testing.T) {
		if rec := do(t, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if rec := do(t, http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("login rejects bad credentials", func(t *testing.T) {
		rec := do(t, http.MethodPost, "/api/login", "",
			`{"username":"customer1","password":"wrong"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), "invalid credentials") {
			t.Errorf("unexpected error body: %s", rec.Body.String())
		}
	})

	t.Run("login issues token", func(t *testing.T) {
		customerToken = login(t, "customer1", "password123")
	})

	t.Run("catalog is public", func(t *testing.T) {
		rec := do(t, http.MethodGet, "/api/products", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp struct {
			Products []struct {
				ID    int64   `json:"id"`
				Name  string  `json:"name"`
				Price float64 `json:"price"`
				Stock int64   `json:"stock"`
			} `json:"products"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode catalog: %v", err)
		}
		if len(resp.Products) != 10 {
			t.Fatalf("expected 10 products, got %d", len(resp.Products))
		}
		if resp.Products[0].Name != "Fresh Milk" || resp.Products[0].Price != 3.99 {
			t.Errorf("unexpected first product: %+v", resp.Products[0])
		}

		if rec := do(t, http.MethodGet, "/api/products/999", "", ""); rec.Code != http.StatusNotFound {
			t.Errorf("unknown product: expected 404, got %d", rec.Code)
		}
	})

	t.Run("cart requires authentication", func(t *testing.T) {
		rec := do(t, http.MethodPost, "/cart/add", "", `{"product_id":1,"quantity":2}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("add and build cart", func(t *testing.T) {
		rec := do(t, http.MethodPost, "/cart/add", customerToken, `{"product_id":1,"quantity":2}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var addResp struct {
			Success  bool   `json:"success"`
			CartItem string `json:"cart_item"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &addResp); err != nil {
			t.Fatalf("failed to decode add response: %v", err)
		}
		if !addResp.Success || addResp.CartItem == "" {
			t.Fatalf("unexpected add response: %s", rec.Body.String())
		}

		// Out-of-stock adds fail softly so the shop UI can keep going.
		rec = do(t, http.MethodPost, "/cart/add", customerToken, `{"product_id":5,"quantity":500}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var failResp struct {
			Success bool `json:"success"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &failResp); err != nil {
			t.Fatalf("failed to decode add response: %v", err)
		}
		if failResp.Success {
			t.Fatal("expected success=false for oversized quantity")
		}

		rec = do(t, http.MethodPost, "/cart/build", customerToken,
			`{"cart_items":["`+addResp.CartItem+`"]}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var buildResp struct {
			Success  bool   `json:"success"`
			CartData string `json:"cart_data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &buildResp); err != nil {
			t.Fatalf("failed to decode build response: %v", err)
		}
		if !buildResp.Success || buildResp.CartData == "" {
			t.Fatalf("unexpected build response: %s", rec.Body.String())
		}
		cartData = buildResp.CartData
	})

	t.Run("checkout creates order and decrements stock", func(t *testing.T) {
		rec := do(t, http.MethodPost, "/checkout", customerToken, `{"cart_data":"`+cartData+`"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		var order struct {
			ID    int64   `json:"id"`
			Owner string  `json:"owner"`
			Total float64 `json:"total"`
			Items []struct {
				ProductName string  `json:"product_name"`
				Quantity    int64   `json:"quantity"`
				Total       float64 `json:"total"`
			} `json:"items"`
			Status string `json:"status"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &order); err != nil {
			t.Fatalf("failed to decode order: %v", err)
		}
		if order.Owner != "customer1" || order.Status != "processing" {
			t.Errorf("unexpected order header: %+v", order)
		}
		if len(order.Items) != 1 || order.Items[0].ProductName != "Fresh Milk" || order.Items[0].Quantity != 2 {
			t.Errorf("unexpected order items: %+v", order.Items)
		}
		if order.Total != 7.98 {
			t.Errorf("expected total 7.98, got %v", order.Total)
		}
		orderID = "1"
		if order.ID != 1 {
			t.Errorf("expected first order id 1, got %d", order.ID)
		}

		rec = do(t, http.MethodGet, "/api/products/1", "", "")
		var product struct {
			Stock int64 `json:"stock"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &product); err != nil {
			t.Fatalf("failed to decode product: %v", err)
		}
		if product.Stock != 23 {
			t.Errorf("expected stock 23 after checkout, got %d", product.Stock)
		}
	})

	t.Run("checkout rejects empty and invalid carts", func(t *testing.T) {
		rec := do(t, http.MethodPost, "/checkout", customerToken, `{"cart_data":""}`)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("empty cart: expected 422, got %d", rec.Code)
		}
		rec = do(t, http.MethodPost, "/checkout", customerToken, `{"cart_data":"tampered-token"}`)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("invalid cart: expected 422, got %d", rec.Code)
		}
	})

	t.Run("order ownership", func(t *testing.T) {
		rec := do(t, http.MethodGet, "/order/"+orderID, customerToken, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("owner read: expected 200, got %d", rec.Code)
		}

		otherToken := login(t, "customer2", "mypass456")
		rec = do(t, http.MethodGet, "/order/"+orderID, otherToken, "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("foreign read: expected 404, got %d", rec.Code)
		}

		rec = do(t, http.MethodGet, "/orders", customerToken, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("list: expected 200, got %d", rec.Code)
		}
		var list struct {
			Orders []struct {
				ID int64 `json:"id"`
			} `json:"orders"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
			t.Fatalf("failed to decode order list: %v", err)
		}
		if len(list.Orders) != 1 {
			t.Fatalf("expected 1 order, got %d", len(list.Orders))
		}
	})

	t.Run("admin gate", func(t *testing.T) {
		rec := do(t, http.MethodGet, "/api/admin/users", customerToken, "")
		if rec.Code != http.StatusForbidden {
			t.Fatalf("customer: expected 403, got %d", rec.Code)
		}

		rec = do(t, http.MethodGet, "/api/admin/users", "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("anonymous: expected 401, got %d", rec.Code)
		}

		adminToken := login(t, "admin1", "adminpass789")
		rec = do(t, http.MethodGet, "/api/admin/users", adminToken, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("admin: expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		body := rec.Body.String()
		if !strings.Contains(body, "customer1") || !strings.Contains(body, "admin1") {
			t.Errorf("expected all accounts listed, got %s", body)
		}
		if strings.Contains(body, "password") || strings.Contains(body, "$2a$") {
			t.Errorf("password material leaked: %s", body)
		}
	})

	t.Run("verify token endpoint", func(t *testing.T) {
		rec := do(t, http.MethodGet, "/api/verify-token", customerToken, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"username":"customer1"`) {
			t.Errorf("unexpected body: %s", rec.Body.String())
		}

		rec = do(t, http.MethodGet, "/api/verify-token", "garbage", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("web session flow", func(t *testing.T) {
		form := "username=customer2&password=mypass456"
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("web login: expected 303, got %d: %s", rec.Code, rec.Body.String())
		}

		var sessionCookie *http.Cookie
		for _, cookie := range rec.Result().Cookies() {
			if cookie.Name == middleware.SessionCookie {
				sessionCookie = cookie
			}
		}
		if sessionCookie == nil {
			t.Fatal("expected a session cookie")
		}

		req = httptest.NewRequest(http.MethodGet, "/orders", nil)
		req.AddCookie(sessionCookie)
		req.Header.Set("Accept", echo.MIMEApplicationJSON)
		rec = httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("session-backed request: expected 200, got %d", rec.Code)
		}

		// Browser without credentials bounces to the login page.
		req = httptest.NewRequest(http.MethodGet, "/orders", nil)
		rec = httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusFound {
			t.Fatalf("anonymous browser: expected 302, got %d", rec.Code)
		}
		if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login" {
			t.Fatalf("expected redirect to /login, got %q", loc)
		}
	})

	t.Run("metrics exposed", func(t *testing.T) {
		rec := do(t, http.MethodGet, "/metrics", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "storefront") {
			t.Error("expected storefront metrics in exposition")
		}
	})
}
