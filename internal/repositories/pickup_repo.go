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

type PickupRepository interface {
	Create(ctx context.Context, pickup *models.Pickup) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Pickup, error)
	UpdateStatus(ctx context.Context, orgID, id uuid.UUID, status string, actualPickupTime *time.Time) error
	List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Pickup, error)
	ListByCustomer(ctx context.Context, orgID, customerID uuid.UUID, limit, offset int) ([]*models.Pickup, error)
	ListUpcoming(ctx context.Context, orgID uuid.UUID, from time.Time, limit int) ([]*models.Pickup, error)
	// CountCreatedSince counts pickups created at or after the given instant.
	// The limits engine uses it for the calendar-month window.
	CountCreatedSince(ctx context.Context, orgID uuid.UUID, since time.Time) (int, error)
}

type pickupRepo struct {
	db DB
}

func NewPickupRepo(db DB) PickupRepository {
	return &pickupRepo{db: db}
}

const pickupColumns = `id, organization_id, customer_id, zone_id, scheduled_date, scheduled_time, pickup_type, status, actual_pickup_time, notes, created_by, created_at, updated_at`

func (r *pickupRepo) Create(ctx context.Context, pickup *models.Pickup) error {
	query := `
		INSERT INTO pickups (id, organization_id, customer_id, zone_id, scheduled_date, scheduled_time, pickup_type, status, actual_pickup_time, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, pickup.ID, pickup.OrganizationID, pickup.CustomerID, pickup.ZoneID, pickup.ScheduledDate, pickup.ScheduledTime, pickup.PickupType, pickup.Status, pickup.ActualPickupTime, pickup.Notes, pickup.CreatedBy)
	return err
}

func (r *pickupRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Pickup, error) {
	pickup := &models.Pickup{}
	query := `SELECT ` + pickupColumns + ` FROM pickups WHERE organization_id = $1 AND id = $2`
	err := r.db.QueryRow(ctx, query, orgID, id).Scan(&pickup.ID, &pickup.OrganizationID, &pickup.CustomerID, &pickup.ZoneID, &pickup.ScheduledDate, &pickup.ScheduledTime, &pickup.PickupType, &pickup.Status, &pickup.ActualPickupTime, &pickup.Notes, &pickup.CreatedBy, &pickup.CreatedAt, &pickup.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound("Pickup")
	}
	if err != nil {
		return nil, err
	}
	return pickup, nil
}

func (r *pickupRepo) UpdateStatus(ctx context.Context, orgID, id uuid.UUID, status string, actualPickupTime *time.Time) error {
	query := `
		UPDATE pickups
		SET status = $1, actual_pickup_time = $2, updated_at = NOW()
		WHERE organization_id = $3 AND id = $4
	`
	tag, err := r.db.Exec(ctx, query, status, actualPickupTime, orgID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("Pickup")
	}
	return nil
}

func (r *pickupRepo) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Pickup, error) {
	query := `SELECT ` + pickupColumns + ` FROM pickups WHERE organization_id = $1 ORDER BY scheduled_date DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, orgID, limit, offset)
}

func (r *pickupRepo) ListByCustomer(ctx context.Context, orgID, customerID uuid.UUID, limit, offset int) ([]*models.Pickup, error) {
	query := `SELECT ` + pickupColumns + ` FROM pickups WHERE organization_id = $1 AND customer_id = $2 ORDER BY scheduled_date DESC LIMIT $3 OFFSET $4`
	return r.list(ctx, query, orgID, customerID, limit, offset)
}

func (r *pickupRepo) ListUpcoming(ctx context.Context, orgID uuid.UUID, from time.Time, limit int) ([]*models.Pickup, error) {
	query := `
		SELECT ` + pickupColumns + `
		FROM pickups
		WHERE organization_id = $1 AND scheduled_date >= $2 AND status = $3
		ORDER BY scheduled_date ASC
		LIMIT $4
	`
	return r.list(ctx, query, orgID, from, models.PickupStatusScheduled, limit)
}

func (r *pickupRepo) list(ctx context.Context, query string, args ...any) ([]*models.Pickup, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pickups []*models.Pickup
	for rows.Next() {
		pickup := &models.Pickup{}
		if err := rows.Scan(&pickup.ID, &pickup.OrganizationID, &pickup.CustomerID, &pickup.ZoneID, &pickup.ScheduledDate, &pickup.ScheduledTime, &pickup.PickupType, &pickup.Status, &pickup.ActualPickupTime, &pickup.Notes, &pickup.CreatedBy, &pickup.CreatedAt, &pickup.UpdatedAt); err != nil {
			return nil, err
		}
		pickups = append(pickups, pickup)
	}
	return pickups, rows.Err()
}

func (r *pickupRepo) CountCreatedSince(ctx context.Context, orgID uuid.UUID, since time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM pickups WHERE organization_id = $1 AND created_at >= $2`
	err := r.db.QueryRow(ctx, query, orgID, since).Scan(&count)
	return count, err
}
