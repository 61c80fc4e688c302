package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"wasteflow/internal/common"
	"wasteflow/internal/services"
)

// AuthHandlers handles login, token refresh, and session introspection.
type AuthHandlers struct {
	authService  services.AuthService
	authzService services.AuthzService
}

func NewAuthHandlers(authService services.AuthService, authzService services.AuthzService) *AuthHandlers {
	return &AuthHandlers{
		authService:  authService,
		authzService: authzService,
	}
}

// Login handles POST /auth/login
func (h *AuthHandlers) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		return common.SendValidationError(c, "credentials", "Email and password are required")
	}

	tokens, err := h.authService.Login(c.Request().Context(), req.Email, req.Password, c.RealIP())
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, tokens)
}

// Refresh handles POST /auth/refresh
func (h *AuthHandlers) Refresh(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}
	if req.RefreshToken == "" {
		return common.SendValidationError(c, "refresh_token", "Refresh token is required")
	}

	tokens, err := h.authService.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, tokens)
}

// Logout handles POST /auth/logout
func (h *AuthHandlers) Logout(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	if req.RefreshToken != "" {
		if err := h.authService.RevokeRefreshToken(c.Request().Context(), req.RefreshToken); err != nil {
			return common.RespondError(c, err)
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me handles GET /auth/me
func (h *AuthHandlers) Me(c echo.Context) error {
	ident, err := requestIdentity(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	user, err := h.authzService.ResolveUser(c.Request().Context(), ident.UserID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}
