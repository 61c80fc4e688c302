package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"wasteflow/internal/common"
	"wasteflow/internal/models"
	"wasteflow/internal/services"
)

// SubscriptionHandlers handles the billing surface: tiers, the current
// subscription with usage, upgrades, limits, and invoices.
type SubscriptionHandlers struct {
	subService     services.SubscriptionService
	limitsService  services.LimitsService
	paymentService services.PaymentService
}

func NewSubscriptionHandlers(subService services.SubscriptionService, limitsService services.LimitsService, paymentService services.PaymentService) *SubscriptionHandlers {
	return &SubscriptionHandlers{
		subService:     subService,
		limitsService:  limitsService,
		paymentService: paymentService,
	}
}

// ListTiers handles GET /subscriptions/tiers. Public so the pricing page
// can render without a session.
func (h *SubscriptionHandlers) ListTiers(c echo.Context) error {
	tiers, err := h.subService.ListTiers(c.Request().Context())
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"tiers": tiers})
}

// CreateTier handles POST /admin/tiers
func (h *SubscriptionHandlers) CreateTier(c echo.Context) error {
	var req struct {
		Name         string   `json:"name"`
		Description  *string  `json:"description"`
		Price        float64  `json:"price"`
		BillingCycle string   `json:"billing_cycle"`
		MaxCustomers int      `json:"max_customers"`
		MaxManagers  int      `json:"max_managers"`
		MaxZones     int      `json:"max_zones"`
		Features     []string `json:"features"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	billingCycle := req.BillingCycle
	if billingCycle == "" {
		billingCycle = "monthly"
	}
	tier := &models.SubscriptionTier{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		BillingCycle: billingCycle,
		MaxCustomers: req.MaxCustomers,
		MaxManagers:  req.MaxManagers,
		MaxZones:     req.MaxZones,
		Features:     req.Features,
		IsActive:     true,
	}
	if err := h.subService.CreateTier(c.Request().Context(), tier); err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, tier)
}

// MySubscription handles GET /subscriptions/my-subscription. Returns the
// subscription, its tier, and the current usage snapshot.
func (h *SubscriptionHandlers) MySubscription(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	ctx := c.Request().Context()
	sub, err := h.subService.GetSubscription(ctx, orgID)
	if err != nil {
		return common.RespondError(c, err)
	}
	tier, err := h.subService.GetTier(ctx, sub.TierID)
	if err != nil {
		return common.RespondError(c, err)
	}

	response := map[string]interface{}{
		"subscription": sub,
		"tier":         tier,
	}
	// Usage is best-effort here: an inactive organization can still see its
	// subscription record.
	if usage, err := h.limitsService.GetUsage(ctx, orgID); err == nil {
		response["usage"] = usage
	}
	return c.JSON(http.StatusOK, response)
}

// Upgrade handles POST /subscriptions/upgrade
func (h *SubscriptionHandlers) Upgrade(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	var req struct {
		TierID int `json:"tier_id"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}
	if req.TierID <= 0 {
		return common.SendValidationError(c, "tier_id", "tier_id is required")
	}

	sub, err := h.subService.Upgrade(c.Request().Context(), orgID, req.TierID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, sub)
}

// CheckLimits handles GET /subscriptions/check-limits
func (h *SubscriptionHandlers) CheckLimits(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	checks, err := h.limitsService.CheckAll(c.Request().Context(), orgID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"limits": checks})
}

// ListInvoices handles GET /subscriptions/invoices
func (h *SubscriptionHandlers) ListInvoices(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	limit, offset := pagination(c)
	invoices, err := h.paymentService.ListInvoices(c.Request().Context(), orgID, limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"invoices": invoices,
		"limit":    limit,
		"offset":   offset,
	})
}
