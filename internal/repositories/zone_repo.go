package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"wasteflow/internal/common"
	"wasteflow/internal/models"
)

type ZoneRepository interface {
	Create(ctx context.Context, zone *models.Zone) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Zone, error)
	Update(ctx context.Context, zone *models.Zone) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Zone, error)
	Count(ctx context.Context, orgID uuid.UUID) (int, error)
}

type zoneRepo struct {
	db DB
}

func NewZoneRepo(db DB) ZoneRepository {
	return &zoneRepo{db: db}
}

const zoneColumns = `id, organization_id, name, description, center_lat, center_lng, regional_manager_id, is_active, created_at, updated_at`

func (r *zoneRepo) Create(ctx context.Context, zone *models.Zone) error {
	query := `
		INSERT INTO zones (id, organization_id, name, description, center_lat, center_lng, regional_manager_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, zone.ID, zone.OrganizationID, zone.Name, zone.Description, zone.CenterLat, zone.CenterLng, zone.RegionalManagerID, zone.IsActive)
	return err
}

func (r *zoneRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Zone, error) {
	zone := &models.Zone{}
	query := `SELECT ` + zoneColumns + ` FROM zones WHERE organization_id = $1 AND id = $2`
	err := r.db.QueryRow(ctx, query, orgID, id).Scan(&zone.ID, &zone.OrganizationID, &zone.Name, &zone.Description, &zone.CenterLat, &zone.CenterLng, &zone.RegionalManagerID, &zone.IsActive, &zone.CreatedAt, &zone.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound("Zone")
	}
	if err != nil {
		return nil, err
	}
	return zone, nil
}

func (r *zoneRepo) Update(ctx context.Context, zone *models.Zone) error {
	query := `
		UPDATE zones
		SET name = $1, description = $2, center_lat = $3, center_lng = $4, regional_manager_id = $5, is_active = $6, updated_at = NOW()
		WHERE organization_id = $7 AND id = $8
	`
	_, err := r.db.Exec(ctx, query, zone.Name, zone.Description, zone.CenterLat, zone.CenterLng, zone.RegionalManagerID, zone.IsActive, zone.OrganizationID, zone.ID)
	return err
}

func (r *zoneRepo) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	query := `DELETE FROM zones WHERE organization_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, orgID, id)
	return err
}

func (r *zoneRepo) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Zone, error) {
	query := `SELECT ` + zoneColumns + ` FROM zones WHERE organization_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var zones []*models.Zone
	for rows.Next() {
		zone := &models.Zone{}
		if err := rows.Scan(&zone.ID, &zone.OrganizationID, &zone.Name, &zone.Description, &zone.CenterLat, &zone.CenterLng, &zone.RegionalManagerID, &zone.IsActive, &zone.CreatedAt, &zone.UpdatedAt); err != nil {
			return nil, err
		}
		zones = append(zones, zone)
	}
	return zones, rows.Err()
}

func (r *zoneRepo) Count(ctx context.Context, orgID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM zones WHERE organization_id = $1`, orgID).Scan(&count)
	return count, err
}
