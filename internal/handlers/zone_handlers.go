package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"wasteflow/internal/common"
	"wasteflow/internal/models"
	"wasteflow/internal/services"
)

// ZoneHandlers handles service-area management.
type ZoneHandlers struct {
	zoneService services.ZoneService
}

func NewZoneHandlers(zoneService services.ZoneService) *ZoneHandlers {
	return &ZoneHandlers{zoneService: zoneService}
}

// CreateZone handles POST /zones
func (h *ZoneHandlers) CreateZone(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	var req struct {
		Name              string   `json:"name"`
		Description       *string  `json:"description"`
		CenterLat         *float64 `json:"center_lat"`
		CenterLng         *float64 `json:"center_lng"`
		RegionalManagerID *string  `json:"regional_manager_id"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	zone := &models.Zone{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		CenterLat:   req.CenterLat,
		CenterLng:   req.CenterLng,
	}
	if req.RegionalManagerID != nil && *req.RegionalManagerID != "" {
		managerID, err := common.ValidateUUID(*req.RegionalManagerID, "regional_manager_id")
		if err != nil {
			return common.RespondError(c, err)
		}
		zone.RegionalManagerID = &managerID
	}

	created, err := h.zoneService.CreateZone(c.Request().Context(), orgID, zone)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// GetZone handles GET /zones/:id
func (h *ZoneHandlers) GetZone(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	zoneID, err := pathUUID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	zone, err := h.zoneService.GetZone(c.Request().Context(), orgID, zoneID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, zone)
}

// ListZones handles GET /zones
func (h *ZoneHandlers) ListZones(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	limit, offset := pagination(c)
	zones, err := h.zoneService.ListZones(c.Request().Context(), orgID, limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"zones":  zones,
		"limit":  limit,
		"offset": offset,
	})
}

// UpdateZone handles PUT /zones/:id
func (h *ZoneHandlers) UpdateZone(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	zoneID, err := pathUUID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	ctx := c.Request().Context()
	zone, err := h.zoneService.GetZone(ctx, orgID, zoneID)
	if err != nil {
		return common.RespondError(c, err)
	}

	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		CenterLat   *float64 `json:"center_lat"`
		CenterLng   *float64 `json:"center_lng"`
		IsActive    *bool    `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	if req.Name != nil {
		zone.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		zone.Description = req.Description
	}
	if req.CenterLat != nil {
		zone.CenterLat = req.CenterLat
	}
	if req.CenterLng != nil {
		zone.CenterLng = req.CenterLng
	}
	if req.IsActive != nil {
		zone.IsActive = *req.IsActive
	}

	if err := h.zoneService.UpdateZone(ctx, zone); err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, zone)
}

// DeleteZone handles DELETE /zones/:id
func (h *ZoneHandlers) DeleteZone(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	zoneID, err := pathUUID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	if err := h.zoneService.DeleteZone(c.Request().Context(), orgID, zoneID); err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Zone deleted"})
}

// AssignManager handles PUT /zones/:id/manager
func (h *ZoneHandlers) AssignManager(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	zoneID, err := pathUUID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	var req struct {
		ManagerID string `json:"manager_id"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	managerID, err := common.ValidateUUID(req.ManagerID, "manager_id")
	if err != nil {
		return common.RespondError(c, err)
	}

	if err := h.zoneService.AssignManager(c.Request().Context(), orgID, zoneID, managerID); err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Manager assigned"})
}
