package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"wasteflow/internal/common"
	"wasteflow/internal/models"
	"wasteflow/internal/repositories"
)

// RecordPaymentInput is the payload for recording a customer payment.
type RecordPaymentInput struct {
	CustomerID       *uuid.UUID
	InvoiceID        *uuid.UUID
	Amount           float64
	Currency         string
	PaymentMethod    string
	PaymentReference *string
}

// PaymentService records customer payments and serves invoice reads.
// Payments start pending; only completed ones count toward revenue.
type PaymentService interface {
	RecordPayment(ctx context.Context, orgID uuid.UUID, input *RecordPaymentInput) (*models.Payment, error)
	GetPayment(ctx context.Context, orgID, paymentID uuid.UUID) (*models.Payment, error)
	UpdatePaymentStatus(ctx context.Context, orgID, paymentID uuid.UUID, status string) error
	ListPayments(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Payment, error)
	ListCustomerPayments(ctx context.Context, orgID, customerID uuid.UUID, limit, offset int) ([]*models.Payment, error)

	GetInvoice(ctx context.Context, orgID, invoiceID uuid.UUID) (*models.Invoice, error)
	ListInvoices(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Invoice, error)
	ListCustomerInvoices(ctx context.Context, orgID, customerID uuid.UUID, limit, offset int) ([]*models.Invoice, error)
}

type paymentService struct {
	paymentRepo  repositories.PaymentRepository
	invoiceRepo  repositories.InvoiceRepository
	customerRepo repositories.CustomerRepository
	now          func() time.Time
}

func NewPaymentService(paymentRepo repositories.PaymentRepository, invoiceRepo repositories.InvoiceRepository, customerRepo repositories.CustomerRepository) PaymentService {
	return &paymentService{
		paymentRepo:  paymentRepo,
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		now:          time.Now,
	}
}

func (s *paymentService) RecordPayment(ctx context.Context, orgID uuid.UUID, input *RecordPaymentInput) (*models.Payment, error) {
	if input.Amount <= 0 {
		return nil, common.ValidationError("Amount must be positive")
	}
	if input.PaymentMethod == "" {
		return nil, common.ValidationError("Payment method is required")
	}

	if input.CustomerID != nil {
		if _, err := s.customerRepo.GetByID(ctx, orgID, *input.CustomerID); err != nil {
			return nil, err
		}
	}
	if input.InvoiceID != nil {
		if _, err := s.invoiceRepo.GetByID(ctx, orgID, *input.InvoiceID); err != nil {
			return nil, err
		}
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	now := s.now().UTC()
	payment := &models.Payment{
		ID:               uuid.New(),
		OrganizationID:   orgID,
		CustomerID:       input.CustomerID,
		InvoiceID:        input.InvoiceID,
		Amount:           input.Amount,
		Currency:         currency,
		PaymentMethod:    input.PaymentMethod,
		PaymentReference: input.PaymentReference,
		Status:           models.PaymentStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *paymentService) GetPayment(ctx context.Context, orgID, paymentID uuid.UUID) (*models.Payment, error) {
	return s.paymentRepo.GetByID(ctx, orgID, paymentID)
}

func (s *paymentService) UpdatePaymentStatus(ctx context.Context, orgID, paymentID uuid.UUID, status string) error {
	if !models.ValidPaymentStatus(status) {
		return common.ValidationError("Invalid payment status: " + status)
	}

	var processedAt *time.Time
	if status == models.PaymentStatusCompleted || status == models.PaymentStatusFailed {
		now := s.now().UTC()
		processedAt = &now
	}
	return s.paymentRepo.UpdateStatus(ctx, orgID, paymentID, status, processedAt)
}

func (s *paymentService) ListPayments(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Payment, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.paymentRepo.List(ctx, orgID, limit, offset)
}

func (s *paymentService) ListCustomerPayments(ctx context.Context, orgID, customerID uuid.UUID, limit, offset int) ([]*models.Payment, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.paymentRepo.ListByCustomer(ctx, orgID, customerID, limit, offset)
}

func (s *paymentService) GetInvoice(ctx context.Context, orgID, invoiceID uuid.UUID) (*models.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, orgID, invoiceID)
}

func (s *paymentService) ListInvoices(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.invoiceRepo.List(ctx, orgID, limit, offset)
}

func (s *paymentService) ListCustomerInvoices(ctx context.Context, orgID, customerID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.invoiceRepo.ListByCustomer(ctx, orgID, customerID, limit, offset)
}
