package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"wasteflow/internal/common"
	"wasteflow/internal/models"
	"wasteflow/internal/services"
)

// AuditLogsHandlers serves the audit trail query surface.
type AuditLogsHandlers struct {
	auditService services.AuditService
}

func NewAuditLogsHandlers(auditService services.AuditService) *AuditLogsHandlers {
	return &AuditLogsHandlers{auditService: auditService}
}

// parseFilters builds audit filters from query parameters.
func (h *AuditLogsHandlers) parseFilters(c echo.Context) (*models.AuditLogFilters, error) {
	filters := &models.AuditLogFilters{}
	filters.Limit, filters.Offset = pagination(c)

	if action := c.QueryParam("action"); action != "" {
		filters.Action = &action
	}
	if resourceType := c.QueryParam("resource_type"); resourceType != "" {
		filters.ResourceType = &resourceType
	}
	if resourceID := c.QueryParam("resource_id"); resourceID != "" {
		filters.ResourceID = &resourceID
	}
	if userParam := c.QueryParam("user_id"); userParam != "" {
		userID, err := common.ValidateUUID(userParam, "user_id")
		if err != nil {
			return nil, err
		}
		filters.UserID = &userID
	}
	if startParam := c.QueryParam("start_date"); startParam != "" {
		start, err := time.Parse(time.RFC3339, startParam)
		if err != nil {
			return nil, common.ValidationError("start_date must be RFC3339")
		}
		filters.StartDate = &start
	}
	if endParam := c.QueryParam("end_date"); endParam != "" {
		end, err := time.Parse(time.RFC3339, endParam)
		if err != nil {
			return nil, common.ValidationError("end_date must be RFC3339")
		}
		filters.EndDate = &end
	}
	return filters, nil
}

// ListAuditLogs handles GET /audit-logs
func (h *AuditLogsHandlers) ListAuditLogs(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	filters, err := h.parseFilters(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	logs, err := h.auditService.ListAuditLogs(c.Request().Context(), orgID, filters)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"audit_logs": logs,
		"limit":      filters.Limit,
		"offset":     filters.Offset,
	})
}

// GetAuditLog handles GET /audit-logs/:id
func (h *AuditLogsHandlers) GetAuditLog(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	logID, err := pathUUID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	entry, err := h.auditService.GetAuditLog(c.Request().Context(), orgID, logID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}

// GetSummary handles GET /audit-logs/summary
func (h *AuditLogsHandlers) GetSummary(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	// Default to the last 30 days.
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -30)
	if startParam := c.QueryParam("start_date"); startParam != "" {
		parsed, err := time.Parse(time.RFC3339, startParam)
		if err != nil {
			return common.SendValidationError(c, "start_date", "Must be RFC3339")
		}
		start = parsed
	}
	if endParam := c.QueryParam("end_date"); endParam != "" {
		parsed, err := time.Parse(time.RFC3339, endParam)
		if err != nil {
			return common.SendValidationError(c, "end_date", "Must be RFC3339")
		}
		end = parsed
	}

	summary, err := h.auditService.GetAuditSummary(c.Request().Context(), orgID, start, end)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// GetUserActivity handles GET /audit-logs/users/:id
func (h *AuditLogsHandlers) GetUserActivity(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	userID, err := pathUUID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	limit, offset := pagination(c)
	logs, err := h.auditService.GetUserActivity(c.Request().Context(), orgID, userID, limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"audit_logs": logs})
}
