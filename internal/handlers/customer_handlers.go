package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"wasteflow/internal/common"
	"wasteflow/internal/models"
	"wasteflow/internal/services"
)

// CustomerHandlers handles customer accounts, their notifications, and
// their complaints.
type CustomerHandlers struct {
	customerService services.CustomerService
}

func NewCustomerHandlers(customerService services.CustomerService) *CustomerHandlers {
	return &CustomerHandlers{customerService: customerService}
}

// CreateCustomer handles POST /customers
func (h *CustomerHandlers) CreateCustomer(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	var req struct {
		Email             string  `json:"email"`
		Password          string  `json:"password"`
		FirstName         string  `json:"first_name"`
		LastName          string  `json:"last_name"`
		Phone             string  `json:"phone"`
		Address           string  `json:"address"`
		ZoneID            *string `json:"zone_id"`
		HouseType         *string `json:"house_type"`
		NumberOfFlats     int     `json:"number_of_flats"`
		NumberOfOccupants int     `json:"number_of_occupants"`
		MonthlyFee        float64 `json:"monthly_fee"`
		PickupFrequency   string  `json:"pickup_frequency"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	var zoneID *uuid.UUID
	if req.ZoneID != nil && *req.ZoneID != "" {
		id, err := common.ValidateUUID(*req.ZoneID, "zone_id")
		if err != nil {
			return common.RespondError(c, err)
		}
		zoneID = &id
	}

	frequency := req.PickupFrequency
	if frequency == "" {
		frequency = "weekly"
	}

	customer, err := h.customerService.CreateCustomer(c.Request().Context(), orgID, &services.CreateCustomerInput{
		Email:             strings.TrimSpace(strings.ToLower(req.Email)),
		Password:          req.Password,
		FirstName:         strings.TrimSpace(req.FirstName),
		LastName:          strings.TrimSpace(req.LastName),
		Phone:             req.Phone,
		Address:           req.Address,
		ZoneID:            zoneID,
		HouseType:         req.HouseType,
		NumberOfFlats:     req.NumberOfFlats,
		NumberOfOccupants: req.NumberOfOccupants,
		MonthlyFee:        req.MonthlyFee,
		PickupFrequency:   frequency,
	})
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, customer)
}

// GetProfile handles GET /customers/profile for customer-role logins. The
// customer record is resolved by the caller's own email inside their
// organization.
func (h *CustomerHandlers) GetProfile(c echo.Context) error {
	orgID, ident, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	customer, err := h.customerService.GetProfile(c.Request().Context(), orgID, ident.Email)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, customer)
}

// UpdateProfile handles PUT /customers/profile
func (h *CustomerHandlers) UpdateProfile(c echo.Context) error {
	orgID, ident, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	var req struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Phone     *string `json:"phone"`
		Address   *string `json:"address"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	customer, err := h.customerService.UpdateProfile(c.Request().Context(), orgID, ident.Email, &services.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Address:   req.Address,
	})
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, customer)
}

// MyNotifications handles GET /customers/notifications for customer-role
// logins.
func (h *CustomerHandlers) MyNotifications(c echo.Context) error {
	orgID, ident, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	ctx := c.Request().Context()
	customer, err := h.customerService.GetProfile(ctx, orgID, ident.Email)
	if err != nil {
		return common.RespondError(c, err)
	}

	limit, offset := pagination(c)
	notifications, err := h.customerService.ListNotifications(ctx, orgID, customer.ID, limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"notifications": notifications})
}

// GetCustomer handles GET /customers/:id
func (h *CustomerHandlers) GetCustomer(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	customerID, err := pathUUID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	customer, err := h.customerService.GetCustomer(c.Request().Context(), orgID, customerID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, customer)
}

// ListCustomers handles GET /customers, optionally filtered by zone.
func (h *CustomerHandlers) ListCustomers(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	limit, offset := pagination(c)
	ctx := c.Request().Context()

	var customers []*models.Customer
	if zoneParam := c.QueryParam("zone_id"); zoneParam != "" {
		zoneID, err := common.ValidateUUID(zoneParam, "zone_id")
		if err != nil {
			return common.RespondError(c, err)
		}
		customers, err = h.customerService.ListCustomersByZone(ctx, orgID, zoneID, limit, offset)
		if err != nil {
			return common.RespondError(c, err)
		}
	} else {
		customers, err = h.customerService.ListCustomers(ctx, orgID, limit, offset)
		if err != nil {
			return common.RespondError(c, err)
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"customers": customers,
		"limit":     limit,
		"offset":    offset,
	})
}

// UpdateCustomer handles PUT /customers/:id
func (h *CustomerHandlers) UpdateCustomer(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	customerID, err := pathUUID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	ctx := c.Request().Context()
	customer, err := h.customerService.GetCustomer(ctx, orgID, customerID)
	if err != nil {
		return common.RespondError(c, err)
	}

	var req struct {
		FirstName       *string  `json:"first_name"`
		LastName        *string  `json:"last_name"`
		Phone           *string  `json:"phone"`
		Address         *string  `json:"address"`
		MonthlyFee      *float64 `json:"monthly_fee"`
		PickupFrequency *string  `json:"pickup_frequency"`
		Status          *string  `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	if req.FirstName != nil {
		customer.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		customer.LastName = *req.LastName
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.MonthlyFee != nil {
		customer.MonthlyFee = *req.MonthlyFee
	}
	if req.PickupFrequency != nil {
		customer.PickupFrequency = *req.PickupFrequency
	}
	if req.Status != nil {
		customer.Status = *req.Status
	}

	if err := h.customerService.UpdateCustomer(ctx, customer); err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, customer)
}

// DeleteCustomer handles DELETE /customers/:id
func (h *CustomerHandlers) DeleteCustomer(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	customerID, err := pathUUID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	if err := h.customerService.DeleteCustomer(c.Request().Context(), orgID, customerID); err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Customer deleted"})
}

// ListNotifications handles GET /customers/:id/notifications
func (h *CustomerHandlers) ListNotifications(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	customerID, err := pathUUID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	limit, offset := pagination(c)
	notifications, err := h.customerService.ListNotifications(c.Request().Context(), orgID, customerID, limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"notifications": notifications})
}

// MarkNotificationRead handles PUT /notifications/:id/read
func (h *CustomerHandlers) MarkNotificationRead(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	notificationID, err := pathUUID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	if err := h.customerService.MarkNotificationRead(c.Request().Context(), orgID, notificationID); err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Notification marked read"})
}

// CreateComplaint handles POST /complaints
func (h *CustomerHandlers) CreateComplaint(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	var req struct {
		CustomerID  string  `json:"customer_id"`
		Subject     string  `json:"subject"`
		Description string  `json:"description"`
		Category    string  `json:"category"`
		Priority    string  `json:"priority"`
		ZoneID      *string `json:"zone_id"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	customerID, err := common.ValidateUUID(req.CustomerID, "customer_id")
	if err != nil {
		return common.RespondError(c, err)
	}

	complaint := &models.Complaint{
		CustomerID:  customerID,
		Subject:     strings.TrimSpace(req.Subject),
		Description: strings.TrimSpace(req.Description),
		Category:    req.Category,
		Priority:    req.Priority,
	}
	if req.ZoneID != nil && *req.ZoneID != "" {
		zoneID, err := common.ValidateUUID(*req.ZoneID, "zone_id")
		if err != nil {
			return common.RespondError(c, err)
		}
		complaint.ZoneID = &zoneID
	}

	created, err := h.customerService.CreateComplaint(c.Request().Context(), orgID, complaint)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// ListComplaints handles GET /complaints, optionally filtered by customer.
func (h *CustomerHandlers) ListComplaints(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	limit, offset := pagination(c)
	ctx := c.Request().Context()

	var complaints []*models.Complaint
	if customerParam := c.QueryParam("customer_id"); customerParam != "" {
		customerID, err := common.ValidateUUID(customerParam, "customer_id")
		if err != nil {
			return common.RespondError(c, err)
		}
		complaints, err = h.customerService.ListCustomerComplaints(ctx, orgID, customerID, limit, offset)
		if err != nil {
			return common.RespondError(c, err)
		}
	} else {
		complaints, err = h.customerService.ListComplaints(ctx, orgID, limit, offset)
		if err != nil {
			return common.RespondError(c, err)
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"complaints": complaints,
		"limit":      limit,
		"offset":     offset,
	})
}

// ResolveComplaint handles PUT /complaints/:id/resolve
func (h *CustomerHandlers) ResolveComplaint(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	complaintID, err := pathUUID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	var req struct {
		Resolution string `json:"resolution"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	if err := h.customerService.ResolveComplaint(c.Request().Context(), orgID, complaintID, strings.TrimSpace(req.Resolution)); err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Complaint resolved"})
}
