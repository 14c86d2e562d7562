package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minimarket/storefront/internal/core/ports"
)

// AdminHandler serves the admin-only API routes. Routes are gated by
// RequireRole(admin) in the router; handlers assume the gate ran.
type AdminHandler struct {
	authService ports.AuthService
}

func NewAdminHandler(authService ports.AuthService) *AdminHandler {
	return &AdminHandler{authService: authService}
}

type adminUserResponse struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Email    string `json:"email,omitempty"`
}

type adminUserListResponse struct {
	Users []adminUserResponse `json:"users"`
}

// Users lists every account, without password digests.
//
// @Summary      List all user accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  adminUserListResponse
// @Failure      403  {object}  map[string]string
// @Router       /api/admin/users [get]
func (h *AdminHandler) Users(c echo.Context) error {
	users, err := h.authService.Users(c.Request().Context())
	if err != nil {
		return err
	}

	resp := adminUserListResponse{Users: make([]adminUserResponse, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, adminUserResponse{
			Username: u.Username,
			FullName: u.FullName,
			Role:     u.Role,
			Email:    u.Email,
		})
	}
	return c.JSON(http.StatusOK, resp)
}
