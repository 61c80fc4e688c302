package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"wasteflow/internal/common"
	"wasteflow/internal/models"
)

// SubscriptionTierRepository manages the global tier catalog. Tiers are not
// tenant-scoped; organizations reference them through subscriptions.
type SubscriptionTierRepository interface {
	Create(ctx context.Context, tier *models.SubscriptionTier) error
	GetByID(ctx context.Context, id int) (*models.SubscriptionTier, error)
	ListActive(ctx context.Context) ([]*models.SubscriptionTier, error)
}

type tierRepo struct {
	db DB
}

func NewSubscriptionTierRepo(db DB) SubscriptionTierRepository {
	return &tierRepo{db: db}
}

const tierColumns = `id, name, description, price, billing_cycle, max_customers, max_managers, max_zones, features, is_active, created_at, updated_at`

func (r *tierRepo) Create(ctx context.Context, tier *models.SubscriptionTier) error {
	features, err := json.Marshal(tier.Features)
	if err != nil {
		return fmt.Errorf("failed to marshal features: %w", err)
	}
	query := `
		INSERT INTO subscription_tiers (name, description, price, billing_cycle, max_customers, max_managers, max_zones, features, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id
	`
	return r.db.QueryRow(ctx, query, tier.Name, tier.Description, tier.Price, tier.BillingCycle, tier.MaxCustomers, tier.MaxManagers, tier.MaxZones, features, tier.IsActive).Scan(&tier.ID)
}

func (r *tierRepo) GetByID(ctx context.Context, id int) (*models.SubscriptionTier, error) {
	query := `SELECT ` + tierColumns + ` FROM subscription_tiers WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *tierRepo) scanOne(row pgx.Row) (*models.SubscriptionTier, error) {
	tier := &models.SubscriptionTier{}
	var features []byte
	err := row.Scan(&tier.ID, &tier.Name, &tier.Description, &tier.Price, &tier.BillingCycle, &tier.MaxCustomers, &tier.MaxManagers, &tier.MaxZones, &features, &tier.IsActive, &tier.CreatedAt, &tier.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound("Subscription tier")
	}
	if err != nil {
		return nil, err
	}
	if len(features) > 0 {
		if err := json.Unmarshal(features, &tier.Features); err != nil {
			return nil, fmt.Errorf("failed to unmarshal features: %w", err)
		}
	}
	return tier, nil
}

func (r *tierRepo) ListActive(ctx context.Context) ([]*models.SubscriptionTier, error) {
	query := `SELECT ` + tierColumns + ` FROM subscription_tiers WHERE is_active = true ORDER BY price ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tiers []*models.SubscriptionTier
	for rows.Next() {
		tier := &models.SubscriptionTier{}
		var features []byte
		if err := rows.Scan(&tier.ID, &tier.Name, &tier.Description, &tier.Price, &tier.BillingCycle, &tier.MaxCustomers, &tier.MaxManagers, &tier.MaxZones, &features, &tier.IsActive, &tier.CreatedAt, &tier.UpdatedAt); err != nil {
			return nil, err
		}
		if len(features) > 0 {
			if err := json.Unmarshal(features, &tier.Features); err != nil {
				return nil, fmt.Errorf("failed to unmarshal features: %w", err)
			}
		}
		tiers = append(tiers, tier)
	}
	return tiers, rows.Err()
}
