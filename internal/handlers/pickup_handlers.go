package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"wasteflow/internal/common"
	"wasteflow/internal/models"
	"wasteflow/internal/services"
)

// PickupHandlers handles pickup scheduling and status tracking.
type PickupHandlers struct {
	pickupService services.PickupService
}

func NewPickupHandlers(pickupService services.PickupService) *PickupHandlers {
	return &PickupHandlers{pickupService: pickupService}
}

// SchedulePickup handles POST /pickups
func (h *PickupHandlers) SchedulePickup(c echo.Context) error {
	orgID, ident, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	var req struct {
		CustomerID    string  `json:"customer_id"`
		ScheduledDate string  `json:"scheduled_date"`
		ScheduledTime string  `json:"scheduled_time"`
		PickupType    string  `json:"pickup_type"`
		Notes         *string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	customerID, err := common.ValidateUUID(req.CustomerID, "customer_id")
	if err != nil {
		return common.RespondError(c, err)
	}

	scheduledDate, err := time.Parse("2006-01-02", req.ScheduledDate)
	if err != nil {
		return common.SendValidationError(c, "scheduled_date", "Date must be YYYY-MM-DD")
	}

	pickup, err := h.pickupService.SchedulePickup(c.Request().Context(), orgID, &services.SchedulePickupInput{
		CustomerID:    customerID,
		ScheduledDate: scheduledDate,
		ScheduledTime: req.ScheduledTime,
		PickupType:    req.PickupType,
		Notes:         req.Notes,
		CreatedBy:     ident.UserID,
	})
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, pickup)
}

// GetPickup handles GET /pickups/:id
func (h *PickupHandlers) GetPickup(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	pickupID, err := pathUUID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	pickup, err := h.pickupService.GetPickup(c.Request().Context(), orgID, pickupID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, pickup)
}

// ListPickups handles GET /pickups, optionally filtered by customer.
func (h *PickupHandlers) ListPickups(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	limit, offset := pagination(c)
	ctx := c.Request().Context()

	var pickups []*models.Pickup
	if customerParam := c.QueryParam("customer_id"); customerParam != "" {
		customerID, err := common.ValidateUUID(customerParam, "customer_id")
		if err != nil {
			return common.RespondError(c, err)
		}
		pickups, err = h.pickupService.ListCustomerPickups(ctx, orgID, customerID, limit, offset)
		if err != nil {
			return common.RespondError(c, err)
		}
	} else {
		pickups, err = h.pickupService.ListPickups(ctx, orgID, limit, offset)
		if err != nil {
			return common.RespondError(c, err)
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"pickups": pickups,
		"limit":   limit,
		"offset":  offset,
	})
}

// ListUpcoming handles GET /pickups/upcoming
func (h *PickupHandlers) ListUpcoming(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	pickups, err := h.pickupService.ListUpcoming(c.Request().Context(), orgID, limit)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"pickups": pickups})
}

// UpdateStatus handles PUT /pickups/:id/status
func (h *PickupHandlers) UpdateStatus(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	pickupID, err := pathUUID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	if err := h.pickupService.UpdateStatus(c.Request().Context(), orgID, pickupID, req.Status); err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Pickup status updated"})
}
