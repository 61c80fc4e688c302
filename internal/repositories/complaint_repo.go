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

type ComplaintRepository interface {
	Create(ctx context.Context, complaint *models.Complaint) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Complaint, error)
	List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Complaint, error)
	ListByCustomer(ctx context.Context, orgID, customerID uuid.UUID, limit, offset int) ([]*models.Complaint, error)
	Resolve(ctx context.Context, orgID, id uuid.UUID, resolution string, resolvedAt time.Time) error
}

type complaintRepo struct {
	db DB
}

func NewComplaintRepo(db DB) ComplaintRepository {
	return &complaintRepo{db: db}
}

const complaintColumns = `id, organization_id, customer_id, zone_id, subject, description, category, priority, status, resolution, assigned_to, created_at, updated_at, resolved_at`

func (r *complaintRepo) Create(ctx context.Context, complaint *models.Complaint) error {
	query := `
		INSERT INTO complaints (id, organization_id, customer_id, zone_id, subject, description, category, priority, status, assigned_to, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, complaint.ID, complaint.OrganizationID, complaint.CustomerID, complaint.ZoneID, complaint.Subject, complaint.Description, complaint.Category, complaint.Priority, complaint.Status, complaint.AssignedTo)
	return err
}

func (r *complaintRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Complaint, error) {
	complaint := &models.Complaint{}
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE organization_id = $1 AND id = $2`
	err := r.db.QueryRow(ctx, query, orgID, id).Scan(&complaint.ID, &complaint.OrganizationID, &complaint.CustomerID, &complaint.ZoneID, &complaint.Subject, &complaint.Description, &complaint.Category, &complaint.Priority, &complaint.Status, &complaint.Resolution, &complaint.AssignedTo, &complaint.CreatedAt, &complaint.UpdatedAt, &complaint.ResolvedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound("Complaint")
	}
	if err != nil {
		return nil, err
	}
	return complaint, nil
}

func (r *complaintRepo) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE organization_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, orgID, limit, offset)
}

func (r *complaintRepo) ListByCustomer(ctx context.Context, orgID, customerID uuid.UUID, limit, offset int) ([]*models.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE organization_id = $1 AND customer_id = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	return r.list(ctx, query, orgID, customerID, limit, offset)
}

func (r *complaintRepo) list(ctx context.Context, query string, args ...any) ([]*models.Complaint, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var complaints []*models.Complaint
	for rows.Next() {
		complaint := &models.Complaint{}
		if err := rows.Scan(&complaint.ID, &complaint.OrganizationID, &complaint.CustomerID, &complaint.ZoneID, &complaint.Subject, &complaint.Description, &complaint.Category, &complaint.Priority, &complaint.Status, &complaint.Resolution, &complaint.AssignedTo, &complaint.CreatedAt, &complaint.UpdatedAt, &complaint.ResolvedAt); err != nil {
			return nil, err
		}
		complaints = append(complaints, complaint)
	}
	return complaints, rows.Err()
}

func (r *complaintRepo) Resolve(ctx context.Context, orgID, id uuid.UUID, resolution string, resolvedAt time.Time) error {
	query := `
		UPDATE complaints
		SET status = 'resolved', resolution = $1, resolved_at = $2, updated_at = NOW()
		WHERE organization_id = $3 AND id = $4
	`
	tag, err := r.db.Exec(ctx, query, resolution, resolvedAt, orgID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("Complaint")
	}
	return nil
}
