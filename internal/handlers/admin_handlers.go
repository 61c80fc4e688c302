package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"wasteflow/internal/common"
	"wasteflow/internal/services"
)

// AdminHandlers is the super-admin surface: cross-tenant organization
// controls, platform stats, and the global audit feed.
type AdminHandlers struct {
	orgService   services.OrganizationService
	subService   services.SubscriptionService
	auditService services.AuditService
}

func NewAdminHandlers(orgService services.OrganizationService, subService services.SubscriptionService, auditService services.AuditService) *AdminHandlers {
	return &AdminHandlers{
		orgService:   orgService,
		subService:   subService,
		auditService: auditService,
	}
}

// ListOrganizations handles GET /admin/organizations
func (h *AdminHandlers) ListOrganizations(c echo.Context) error {
	limit, offset := pagination(c)
	orgs, err := h.orgService.ListOrganizations(c.Request().Context(), limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"organizations": orgs,
		"limit":         limit,
		"offset":        offset,
	})
}

// GetOrganizationDetails handles GET /admin/organizations/:id
func (h *AdminHandlers) GetOrganizationDetails(c echo.Context) error {
	orgID, err := pathUUID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	ctx := c.Request().Context()
	org, err := h.orgService.GetOrganization(ctx, orgID)
	if err != nil {
		return common.RespondError(c, err)
	}

	response := map[string]interface{}{"organization": org}
	if sub, err := h.subService.GetSubscription(ctx, orgID); err == nil {
		response["subscription"] = sub
		if tier, err := h.subService.GetTier(ctx, sub.TierID); err == nil {
			response["tier"] = tier
		}
	}
	return c.JSON(http.StatusOK, response)
}

// SuspendOrganization handles PUT /admin/organizations/:id/suspend
func (h *AdminHandlers) SuspendOrganization(c echo.Context) error {
	orgID, err := pathUUID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	if err := h.orgService.SuspendOrganization(c.Request().Context(), orgID); err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Organization suspended"})
}

// ActivateOrganization handles PUT /admin/organizations/:id/activate
func (h *AdminHandlers) ActivateOrganization(c echo.Context) error {
	orgID, err := pathUUID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	if err := h.orgService.ActivateOrganization(c.Request().Context(), orgID); err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Organization activated"})
}

// ListAllAuditLogs handles GET /admin/audit-logs
func (h *AdminHandlers) ListAllAuditLogs(c echo.Context) error {
	auditHandlers := &AuditLogsHandlers{auditService: h.auditService}
	filters, err := auditHandlers.parseFilters(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	logs, err := h.auditService.ListAllAuditLogs(c.Request().Context(), filters)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"audit_logs": logs,
		"limit":      filters.Limit,
		"offset":     filters.Offset,
	})
}

// PlatformStats handles GET /admin/stats
func (h *AdminHandlers) PlatformStats(c echo.Context) error {
	stats, err := h.orgService.PlatformStats(c.Request().Context())
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
