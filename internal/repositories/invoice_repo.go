package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"wasteflow/internal/common"
	"wasteflow/internal/models"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Invoice, error)
	List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Invoice, error)
	ListByCustomer(ctx context.Context, orgID, customerID uuid.UUID, limit, offset int) ([]*models.Invoice, error)
}

type invoiceRepo struct {
	db DB
}

func NewInvoiceRepo(db DB) InvoiceRepository {
	return &invoiceRepo{db: db}
}

const invoiceColumns = `id, organization_id, customer_id, invoice_number, amount, currency, description, issue_date, due_date, paid_date, status, created_at, updated_at`

func (r *invoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	query := `
		INSERT INTO invoices (id, organization_id, customer_id, invoice_number, amount, currency, description, issue_date, due_date, paid_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, invoice.ID, invoice.OrganizationID, invoice.CustomerID, invoice.InvoiceNumber, invoice.Amount, invoice.Currency, invoice.Description, invoice.IssueDate, invoice.DueDate, invoice.PaidDate, invoice.Status)
	return err
}

func (r *invoiceRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE organization_id = $1 AND id = $2`
	err := r.db.QueryRow(ctx, query, orgID, id).Scan(&invoice.ID, &invoice.OrganizationID, &invoice.CustomerID, &invoice.InvoiceNumber, &invoice.Amount, &invoice.Currency, &invoice.Description, &invoice.IssueDate, &invoice.DueDate, &invoice.PaidDate, &invoice.Status, &invoice.CreatedAt, &invoice.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound("Invoice")
	}
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (r *invoiceRepo) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE organization_id = $1 ORDER BY issue_date DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, orgID, limit, offset)
}

func (r *invoiceRepo) ListByCustomer(ctx context.Context, orgID, customerID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE organization_id = $1 AND customer_id = $2 ORDER BY issue_date DESC LIMIT $3 OFFSET $4`
	return r.list(ctx, query, orgID, customerID, limit, offset)
}

func (r *invoiceRepo) list(ctx context.Context, query string, args ...any) ([]*models.Invoice, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		invoice := &models.Invoice{}
		if err := rows.Scan(&invoice.ID, &invoice.OrganizationID, &invoice.CustomerID, &invoice.InvoiceNumber, &invoice.Amount, &invoice.Currency, &invoice.Description, &invoice.IssueDate, &invoice.DueDate, &invoice.PaidDate, &invoice.Status, &invoice.CreatedAt, &invoice.UpdatedAt); err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}
