package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"wasteflow/internal/common"
	"wasteflow/internal/models"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Payment, error)
	UpdateStatus(ctx context.Context, orgID, id uuid.UUID, status string, processedAt *time.Time) error
	List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Payment, error)
	ListByCustomer(ctx context.Context, orgID, customerID uuid.UUID, limit, offset int) ([]*models.Payment, error)
	// SumCompletedSince sums completed payment amounts created at or after
	// the given instant. The limits engine uses it for monthly revenue.
	SumCompletedSince(ctx context.Context, orgID uuid.UUID, since time.Time) (float64, error)
}

type paymentRepo struct {
	db DB
}

func NewPaymentRepo(db DB) PaymentRepository {
	return &paymentRepo{db: db}
}

const paymentColumns = `id, organization_id, customer_id, invoice_id, amount, currency, payment_method, payment_reference, status, processed_at, created_at, updated_at`

func (r *paymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (id, organization_id, customer_id, invoice_id, amount, currency, payment_method, payment_reference, status, processed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, payment.ID, payment.OrganizationID, payment.CustomerID, payment.InvoiceID, payment.Amount, payment.Currency, payment.PaymentMethod, payment.PaymentReference, payment.Status, payment.ProcessedAt)
	return err
}

func (r *paymentRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Payment, error) {
	payment := &models.Payment{}
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE organization_id = $1 AND id = $2`
	err := r.db.QueryRow(ctx, query, orgID, id).Scan(&payment.ID, &payment.OrganizationID, &payment.CustomerID, &payment.InvoiceID, &payment.Amount, &payment.Currency, &payment.PaymentMethod, &payment.PaymentReference, &payment.Status, &payment.ProcessedAt, &payment.CreatedAt, &payment.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound("Payment")
	}
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *paymentRepo) UpdateStatus(ctx context.Context, orgID, id uuid.UUID, status string, processedAt *time.Time) error {
	query := `
		UPDATE payments
		SET status = $1, processed_at = $2, updated_at = NOW()
		WHERE organization_id = $3 AND id = $4
	`
	tag, err := r.db.Exec(ctx, query, status, processedAt, orgID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("Payment")
	}
	return nil
}

func (r *paymentRepo) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE organization_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, orgID, limit, offset)
}

func (r *paymentRepo) ListByCustomer(ctx context.Context, orgID, customerID uuid.UUID, limit, offset int) ([]*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE organization_id = $1 AND customer_id = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	return r.list(ctx, query, orgID, customerID, limit, offset)
}

func (r *paymentRepo) list(ctx context.Context, query string, args ...any) ([]*models.Payment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		if err := rows.Scan(&payment.ID, &payment.OrganizationID, &payment.CustomerID, &payment.InvoiceID, &payment.Amount, &payment.Currency, &payment.PaymentMethod, &payment.PaymentReference, &payment.Status, &payment.ProcessedAt, &payment.CreatedAt, &payment.UpdatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

func (r *paymentRepo) SumCompletedSince(ctx context.Context, orgID uuid.UUID, since time.Time) (float64, error) {
	var sum float64
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE organization_id = $1 AND status = $2 AND created_at >= $3`
	err := r.db.QueryRow(ctx, query, orgID, models.PaymentStatusCompleted, since).Scan(&sum)
	return sum, err
}
