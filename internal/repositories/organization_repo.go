package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"wasteflow/internal/common"
	"wasteflow/internal/models"
)

type OrganizationRepository interface {
	Create(ctx context.Context, org *models.Organization) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*models.Organization, error)
	Update(ctx context.Context, org *models.Organization) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdateFeatures(ctx context.Context, id uuid.UUID, features models.JSONB) error
	UpdateLogoURL(ctx context.Context, id uuid.UUID, logoURL string) error
	List(ctx context.Context, limit, offset int) ([]*models.Organization, error)
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status string) (int, error)
}

type organizationRepo struct {
	db DB
}

func NewOrganizationRepo(db DB) OrganizationRepository {
	return &organizationRepo{db: db}
}

const organizationColumns = `id, name, slug, phone, email, address, website, logo_url, primary_color, secondary_color, enabled_features, status, created_at, updated_at`

func (r *organizationRepo) Create(ctx context.Context, org *models.Organization) error {
	features, err := marshalJSONB(org.EnabledFeatures)
	if err != nil {
		return fmt.Errorf("failed to marshal enabled_features: %w", err)
	}
	query := `
		INSERT INTO organizations (id, name, slug, phone, email, address, website, logo_url, primary_color, secondary_color, enabled_features, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
	`
	_, err = r.db.Exec(ctx, query, org.ID, org.Name, org.Slug, org.Phone, org.Email, org.Address, org.Website, org.LogoURL, org.PrimaryColor, org.SecondaryColor, features, org.Status)
	return err
}

func (r *organizationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *organizationRepo) GetBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE slug = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, slug))
}

func (r *organizationRepo) scanOne(row pgx.Row) (*models.Organization, error) {
	org := &models.Organization{}
	var features []byte
	err := row.Scan(&org.ID, &org.Name, &org.Slug, &org.Phone, &org.Email, &org.Address, &org.Website, &org.LogoURL, &org.PrimaryColor, &org.SecondaryColor, &features, &org.Status, &org.CreatedAt, &org.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound("Organization")
	}
	if err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(features, &org.EnabledFeatures); err != nil {
		return nil, err
	}
	return org, nil
}

func (r *organizationRepo) Update(ctx context.Context, org *models.Organization) error {
	query := `
		UPDATE organizations
		SET name = $1, phone = $2, email = $3, address = $4, website = $5, primary_color = $6, secondary_color = $7, updated_at = NOW()
		WHERE id = $8
	`
	_, err := r.db.Exec(ctx, query, org.Name, org.Phone, org.Email, org.Address, org.Website, org.PrimaryColor, org.SecondaryColor, org.ID)
	return err
}

func (r *organizationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE organizations SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, status, id)
	return err
}

func (r *organizationRepo) UpdateFeatures(ctx context.Context, id uuid.UUID, features models.JSONB) error {
	payload, err := marshalJSONB(features)
	if err != nil {
		return fmt.Errorf("failed to marshal enabled_features: %w", err)
	}
	query := `UPDATE organizations SET enabled_features = $1, updated_at = NOW() WHERE id = $2`
	_, err = r.db.Exec(ctx, query, payload, id)
	return err
}

func (r *organizationRepo) UpdateLogoURL(ctx context.Context, id uuid.UUID, logoURL string) error {
	query := `UPDATE organizations SET logo_url = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, logoURL, id)
	return err
}

func (r *organizationRepo) List(ctx context.Context, limit, offset int) ([]*models.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []*models.Organization
	for rows.Next() {
		org := &models.Organization{}
		var features []byte
		if err := rows.Scan(&org.ID, &org.Name, &org.Slug, &org.Phone, &org.Email, &org.Address, &org.Website, &org.LogoURL, &org.PrimaryColor, &org.SecondaryColor, &features, &org.Status, &org.CreatedAt, &org.UpdatedAt); err != nil {
			return nil, err
		}
		if err := unmarshalJSONB(features, &org.EnabledFeatures); err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

func (r *organizationRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM organizations`).Scan(&count)
	return count, err
}

func (r *organizationRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM organizations WHERE status = $1`, status).Scan(&count)
	return count, err
}

func marshalJSONB(v models.JSONB) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func unmarshalJSONB(data []byte, dst *models.JSONB) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}
