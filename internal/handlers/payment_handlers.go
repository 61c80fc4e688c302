package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"wasteflow/internal/common"
	"wasteflow/internal/models"
	"wasteflow/internal/services"
)

// PaymentHandlers handles payment recording and invoice reads.
type PaymentHandlers struct {
	paymentService  services.PaymentService
	customerService services.CustomerService
}

func NewPaymentHandlers(paymentService services.PaymentService, customerService services.CustomerService) *PaymentHandlers {
	return &PaymentHandlers{paymentService: paymentService, customerService: customerService}
}

// MakePayment handles POST /payments/make-payment. Any authenticated user
// may pay: customer-role callers are pinned to their own customer record,
// staff may record a payment against any customer in the organization.
func (h *PaymentHandlers) MakePayment(c echo.Context) error {
	orgID, ident, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	var req struct {
		CustomerID       *string `json:"customer_id"`
		InvoiceID        *string `json:"invoice_id"`
		Amount           float64 `json:"amount"`
		Currency         string  `json:"currency"`
		PaymentMethod    string  `json:"payment_method"`
		PaymentReference *string `json:"payment_reference"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	input := &services.RecordPaymentInput{
		Amount:           req.Amount,
		Currency:         req.Currency,
		PaymentMethod:    req.PaymentMethod,
		PaymentReference: req.PaymentReference,
	}
	if ident.Role == models.RoleCustomer {
		// Self-service payment. The body's customer_id is ignored.
		customer, err := h.customerService.GetProfile(c.Request().Context(), orgID, ident.Email)
		if err != nil {
			return common.RespondError(c, err)
		}
		input.CustomerID = &customer.ID
	} else if req.CustomerID != nil && *req.CustomerID != "" {
		id, err := common.ValidateUUID(*req.CustomerID, "customer_id")
		if err != nil {
			return common.RespondError(c, err)
		}
		input.CustomerID = &id
	}
	if req.InvoiceID != nil && *req.InvoiceID != "" {
		id, err := common.ValidateUUID(*req.InvoiceID, "invoice_id")
		if err != nil {
			return common.RespondError(c, err)
		}
		input.InvoiceID = &id
	}

	payment, err := h.paymentService.RecordPayment(c.Request().Context(), orgID, input)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, payment)
}

// ListTransactions handles GET /payments/transactions. Customer-role callers
// see only their own payment history; staff see the whole organization.
func (h *PaymentHandlers) ListTransactions(c echo.Context) error {
	orgID, ident, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	limit, offset := pagination(c)
	ctx := c.Request().Context()

	var payments []*models.Payment
	if ident.Role == models.RoleCustomer {
		var customer *models.Customer
		customer, err = h.customerService.GetProfile(ctx, orgID, ident.Email)
		if err != nil {
			return common.RespondError(c, err)
		}
		payments, err = h.paymentService.ListCustomerPayments(ctx, orgID, customer.ID, limit, offset)
	} else {
		payments, err = h.paymentService.ListPayments(ctx, orgID, limit, offset)
	}
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"payments": payments,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetPayment handles GET /payments/:id
func (h *PaymentHandlers) GetPayment(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	paymentID, err := pathUUID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	payment, err := h.paymentService.GetPayment(c.Request().Context(), orgID, paymentID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, payment)
}

// ListPayments handles GET /payments, optionally filtered by customer.
func (h *PaymentHandlers) ListPayments(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	limit, offset := pagination(c)
	ctx := c.Request().Context()

	var payments []*models.Payment
	if customerParam := c.QueryParam("customer_id"); customerParam != "" {
		var customerID uuid.UUID
		customerID, err = common.ValidateUUID(customerParam, "customer_id")
		if err != nil {
			return common.RespondError(c, err)
		}
		payments, err = h.paymentService.ListCustomerPayments(ctx, orgID, customerID, limit, offset)
	} else {
		payments, err = h.paymentService.ListPayments(ctx, orgID, limit, offset)
	}
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"payments": payments,
		"limit":    limit,
		"offset":   offset,
	})
}

// UpdatePaymentStatus handles PUT /payments/:id/status
func (h *PaymentHandlers) UpdatePaymentStatus(c echo.Context) error {
	orgID, _, err := scopedOrganization(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	paymentID, err := pathUUID(c, "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	if err := h.paymentService.UpdatePaymentStatus(c.Request().Context(), orgID, paymentID, req.Status); err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Payment status updated"})
}
