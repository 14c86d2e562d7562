package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/minimarket/storefront/internal/api/metrics"
	"github.com/minimarket/storefront/internal/api/middleware"
	"github.com/minimarket/storefront/internal/core/ports"
)

// AuthHandler serves both flavors of authentication: API clients receive
// the token directly, web clients get it parked in the server-side
// session slot behind an opaque cookie.
type AuthHandler struct {
	authService ports.AuthService
	sessions    ports.SessionStore
	sessionTTL  time.Duration
}

func NewAuthHandler(authService ports.AuthService, sessions ports.SessionStore, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions, sessionTTL: sessionTTL}
}

type loginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type userResponse struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	User      userResponse `json:"user"`
	ExpiresIn int64        `json:"expires_in,omitempty"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// Login authenticates a user from a form or JSON body.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	if wantsJSON(c) {
		return c.JSON(http.StatusOK, loginResponse{
			Token: token,
			User:  userResponse{Username: user.Username, FullName: user.FullName, Role: user.Role},
		})
	}

	// Web flavor: park the token in the session slot and hand the client
	// only the opaque session id.
	sessionID, err := newSessionID()
	if err != nil {
		return err
	}
	if err := h.sessions.Put(c.Request().Context(), sessionID, token, h.sessionTTL); err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(h.sessionTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusSeeOther, "/shop")
}

// APILogin is the JSON-only login used by API clients.
//
// @Summary      API login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  map[string]string
// @Router       /api/login [post]
func (h *AuthHandler) APILogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, loginResponse{
		Token:     token,
		User:      userResponse{Username: user.Username, FullName: user.FullName, Role: user.Role},
		ExpiresIn: int64(h.authService.TokenTTL() / time.Second),
	})
}

// Register creates a customer account.
//
// @Summary      Register a new customer
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  userResponse
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), req.Username, req.Password, req.FullName, req.Email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, userResponse{
		Username: user.Username,
		FullName: user.FullName,
		Role:     user.Role,
	})
}

// VerifyToken echoes the claims of a valid bearer token.
//
// @Summary      Verify a bearer token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]string
// @Router       /api/verify-token [get]
func (h *AuthHandler) VerifyToken(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"valid":     true,
		"username":  identity.Username,
		"full_name": identity.FullName,
		"role":      identity.Role,
	})
}

// LoginPage is the redirect target for unauthenticated web requests.
// Page rendering lives outside this service; the JSON body stands in for
// the login form.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "login required, POST credentials to /login"})
}

// Logout drops the session slot and expires the cookie. Bearer tokens
// cannot be revoked server-side; API clients simply discard theirs.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookie); err == nil && cookie.Value != "" {
		_ = h.sessions.Delete(c.Request().Context(), cookie.Value)
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	if wantsJSON(c) {
		return c.JSON(http.StatusOK, map[string]string{"message": "logout successful"})
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func newSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", echo.NewHTTPError(http.StatusInternalServerError, "failed to create session")
	}
	return hex.EncodeToString(b), nil
}
