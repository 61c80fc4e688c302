package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"wasteflow/internal/common"
	"wasteflow/internal/models"
	"wasteflow/internal/services"
)

const maxLogoSize = 5 << 20 // 5 MiB

// OrganizationHandlers handles tenant signup, branding, and staff management.
type OrganizationHandlers struct {
	orgService  services.OrganizationService
	userService services.UserService
	authService services.AuthService
}

func NewOrganizationHandlers(orgService services.OrganizationService, userService services.UserService, authService services.AuthService) *OrganizationHandlers {
	return &OrganizationHandlers{
		orgService:  orgService,
		userService: userService,
		authService: authService,
	}
}

// RegisterManager handles POST /organizations/register-manager. Public: this
// is the self-service signup that creates the organization, its first
// business manager, and a trial subscription.
func (h *OrganizationHandlers) RegisterManager(c echo.Context) error {
	var req struct {
		OrganizationName string  `json:"organization_name"`
		Email            string  `json:"email"`
		Password         string  `json:"password"`
		FirstName        string  `json:"first_name"`
		LastName         string  `json:"last_name"`
		Phone            *string `json:"phone"`
		TierID           int     `json:"tier_id"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	org, user, err := h.orgService.RegisterManager(c.Request().Context(), &services.RegisterManagerInput{
		OrganizationName: strings.TrimSpace(req.OrganizationName),
		Email:            strings.TrimSpace(strings.ToLower(req.Email)),
		Password:         req.Password,
		FirstName:        strings.TrimSpace(req.FirstName),
		LastName:         strings.TrimSpace(req.LastName),
		Phone:            req.Phone,
		TierID:           req.TierID,
	})
	if err != nil {
		return common.RespondError(c, err)
	}

	tokens, err := h.authService.GenerateTokens(c.Request().Context(), user)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"organization": org,
		"user":         user,
		"tokens":       tokens,
	})
}

// GetOrganization handles GET /organizations/me
func (h *OrganizationHandlers) GetOrganization(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	org, err := h.orgService.GetOrganization(c.Request().Context(), orgID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, org)
}

// UpdateOrganization handles PUT /organizations/me
func (h *OrganizationHandlers) UpdateOrganization(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	ctx := c.Request().Context()
	org, err := h.orgService.GetOrganization(ctx, orgID)
	if err != nil {
		return common.RespondError(c, err)
	}

	var req struct {
		Name           *string `json:"name"`
		Phone          *string `json:"phone"`
		Email          *string `json:"email"`
		Address        *string `json:"address"`
		Website        *string `json:"website"`
		PrimaryColor   *string `json:"primary_color"`
		SecondaryColor *string `json:"secondary_color"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	if req.Name != nil {
		org.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		org.Phone = req.Phone
	}
	if req.Email != nil {
		org.Email = req.Email
	}
	if req.Address != nil {
		org.Address = req.Address
	}
	if req.Website != nil {
		org.Website = req.Website
	}
	if req.PrimaryColor != nil {
		org.PrimaryColor = *req.PrimaryColor
	}
	if req.SecondaryColor != nil {
		org.SecondaryColor = *req.SecondaryColor
	}

	if err := h.orgService.UpdateOrganization(ctx, org); err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, org)
}

// UpdateFeatures handles PUT /organizations/me/features
func (h *OrganizationHandlers) UpdateFeatures(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	var req struct {
		Features models.JSONB `json:"features"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}
	if req.Features == nil {
		return common.SendValidationError(c, "features", "Features object is required")
	}

	if err := h.orgService.UpdateFeatures(c.Request().Context(), orgID, req.Features); err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"features": req.Features})
}

// UploadLogo handles POST /organizations/me/logo
func (h *OrganizationHandlers) UploadLogo(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		return common.SendValidationError(c, "logo", "Logo file is required")
	}
	if fileHeader.Size > maxLogoSize {
		return common.SendValidationError(c, "logo", "Logo must be under 5 MiB")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return common.SendValidationError(c, "logo", "Logo must be an image")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return common.RespondError(c, err)
	}
	defer file.Close()

	url, err := h.orgService.UploadLogo(c.Request().Context(), orgID, fileHeader.Filename, contentType, file, fileHeader.Size)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"logo_url": url})
}

// CreateManager handles POST /organizations/me/managers
func (h *OrganizationHandlers) CreateManager(c echo.Context) error {
	orgID, ident, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	var req struct {
		Email     string  `json:"email"`
		Password  string  `json:"password"`
		FirstName string  `json:"first_name"`
		LastName  string  `json:"last_name"`
		Phone     *string `json:"phone"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	manager, err := h.userService.CreateRegionalManager(c.Request().Context(), orgID, &services.CreateManagerInput{
		Email:     strings.TrimSpace(strings.ToLower(req.Email)),
		Password:  req.Password,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     req.Phone,
		CreatedBy: ident.UserID,
	})
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, manager)
}

// ListManagers handles GET /organizations/me/managers
func (h *OrganizationHandlers) ListManagers(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	limit, offset := pagination(c)
	users, err := h.userService.ListUsers(c.Request().Context(), orgID, limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"users":  users,
		"limit":  limit,
		"offset": offset,
	})
}

// DeactivateManager handles DELETE /organizations/me/managers/:id
func (h *OrganizationHandlers) DeactivateManager(c echo.Context) error {
	orgID, ident, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	userID, err := pathUUID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}
	if userID == ident.UserID {
		return common.SendValidationError(c, "id", "Cannot deactivate your own account")
	}

	if err := h.userService.DeactivateUser(c.Request().Context(), orgID, userID); err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "User deactivated"})
}
