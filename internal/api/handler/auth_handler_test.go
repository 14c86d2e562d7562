package handler

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
	"github.com/minimarket/storefront/internal/core/ports"
	"github.com/minimarket/storefront/internal/core/service"
	"github.com/minimarket/storefront/internal/infrastructure/store/memory"
)

type authHandlerFixture struct {
	e        *echo.Echo
	handler  *AuthHandler
	auth     *service.AuthService
	sessions *memory.SessionStore
}

func newAuthHandlerFixture(t *testing.T) *authHandlerFixture {
	t.Helper()

	users := memory.NewUserRepository()
	auth := service.NewAuthService(users, "test-secret", time.Hour, zerolog.Nop())
	sessions := memory.NewSessionStore()

	if _, err := auth.Register(context.Background(), "alice", "s3cret99", "Alice Doe", ""); err != nil {
		t.Fatalf("failed to register test user: %v", err)
	}

	e := echo.New()
	e.Validator = NewValidator()

	return &authHandlerFixture{
		e:        e,
		handler:  NewAuthHandler(auth, sessions, time.Hour),
		auth:     auth,
		sessions: sessions,
	}
}

func (f *authHandlerFixture) do(t *testing.T, req *http.Request, h echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)
	if err := h(c); err != nil {
		f.e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestAuthHandler_LoginJSON(t *testing.T) {
	f := newAuthHandlerFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"username":"alice","password":"s3cret99"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := f.do(t, req, f.handler.Login)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
		User  struct {
			Username string `json:"username"`
			FullName string `json:"full_name"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.User.Username != "alice" || resp.User.FullName != "Alice Doe" {
		t.Errorf("unexpected user in response: %+v", resp.User)
	}

	identity, err := f.auth.Verify(resp.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if identity.Username != "alice" {
		t.Errorf("expected token subject alice, got %q", identity.Username)
	}
}

func TestAuthHandler_LoginWebCreatesSession(t *testing.T) {
	f := newAuthHandlerFixture(t)

	form := "username=alice&password=s3cret99"
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)

	rec := f.do(t, req, f.handler.Login)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/shop" {
		t.Errorf("expected redirect to /shop, got %q", loc)
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
	if !sessionCookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	// The cookie carries only an opaque id; the token itself lives in the
	// session slot.
	if strings.Count(sessionCookie.Value, ".") == 2 {
		t.Error("session cookie must not contain the JWT")
	}
	token, err := f.sessions.Get(context.Background(), sessionCookie.Value)
	if err != nil {
		t.Fatalf("session slot is empty: %v", err)
	}
	if _, err := f.auth.Verify(token); err != nil {
		t.Fatalf("stored token does not verify: %v", err)
	}
}

func TestAuthHandler_LoginMissingFields(t *testing.T) {
	f := newAuthHandlerFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"alice"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := f.do(t, req, f.handler.Login)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_APILoginReportsExpiry(t *testing.T) {
	f := newAuthHandlerFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"username":"alice","password":"s3cret99"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := f.do(t, req, f.handler.APILogin)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token     string `json:"token"`
		ExpiresIn int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ExpiresIn != 3600 {
		t.Errorf("expected expires_in 3600, got %d", resp.ExpiresIn)
	}
}

func TestAuthHandler_Register(t *testing.T) {
	f := newAuthHandlerFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"username":"bob","password":"longenough","full_name":"Bob Jones"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := f.do(t, req, f.handler.Register)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if _, _, err := f.auth.Login(context.Background(), "bob", "longenough"); err != nil {
		t.Fatalf("registered account cannot log in: %v", err)
	}
}

func TestAuthHandler_RegisterShortPassword(t *testing.T) {
	f := newAuthHandlerFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"username":"bob","password":"short","full_name":"Bob"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := f.do(t, req, f.handler.Register)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_LogoutClearsSession(t *testing.T) {
	f := newAuthHandlerFixture(t)

	if err := f.sessions.Put(context.Background(), "sid-1", "some-token", time.Hour); err != nil {
		t.Fatalf("failed to store session: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "sid-1"})

	rec := f.do(t, req, f.handler.Logout)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}

	if _, err := f.sessions.Get(context.Background(), "sid-1"); err == nil {
		t.Fatal("expected session slot to be deleted")
	}

	var cleared bool
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.SessionCookie && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected the session cookie to be expired")
	}
}

func TestAuthHandler_VerifyToken(t *testing.T) {
	f := newAuthHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/verify-token", nil)
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)
	c.Set(middleware.ContextIdentity, &ports.Identity{
		Username: "alice",
		FullName: "Alice Doe",
		Role:     "customer",
	})

	if err := f.handler.VerifyToken(c); err != nil {
		t.Fatalf("VerifyToken returned error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["valid"] != true || resp["username"] != "alice" || resp["role"] != "customer" {
		t.Fatalf("unexpected response: %v", resp)
	}
}
