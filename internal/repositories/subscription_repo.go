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

type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *models.Subscription) error
	// GetByOrganization returns the organization's subscription. When more
	// than one row exists the latest wins.
	GetByOrganization(ctx context.Context, orgID uuid.UUID) (*models.Subscription, error)
	Update(ctx context.Context, subscription *models.Subscription) error
	// ListTrialsEndingBetween finds trial subscriptions whose trial_end_date
	// falls inside [start, end]. Used by the reminder sweep.
	ListTrialsEndingBetween(ctx context.Context, start, end time.Time) ([]*models.Subscription, error)
	// ListExpiredTrials finds trial subscriptions whose trial_end_date is
	// strictly before asOf.
	ListExpiredTrials(ctx context.Context, asOf time.Time) ([]*models.Subscription, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*models.Subscription, error)
}

type subscriptionRepo struct {
	db DB
}

func NewSubscriptionRepo(db DB) SubscriptionRepository {
	return &subscriptionRepo{db: db}
}

const subscriptionColumns = `id, organization_id, tier_id, status, trial_start_date, trial_end_date, billing_start_date, billing_end_date, next_billing_date, auto_renew, created_at, updated_at`

func (r *subscriptionRepo) Create(ctx context.Context, subscription *models.Subscription) error {
	query := `
		INSERT INTO subscriptions (id, organization_id, tier_id, status, trial_start_date, trial_end_date, billing_start_date, billing_end_date, next_billing_date, auto_renew, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, subscription.ID, subscription.OrganizationID, subscription.TierID, subscription.Status, subscription.TrialStartDate, subscription.TrialEndDate, subscription.BillingStartDate, subscription.BillingEndDate, subscription.NextBillingDate, subscription.AutoRenew)
	return err
}

func (r *subscriptionRepo) GetByOrganization(ctx context.Context, orgID uuid.UUID) (*models.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE organization_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	subscription := &models.Subscription{}
	err := r.db.QueryRow(ctx, query, orgID).Scan(&subscription.ID, &subscription.OrganizationID, &subscription.TierID, &subscription.Status, &subscription.TrialStartDate, &subscription.TrialEndDate, &subscription.BillingStartDate, &subscription.BillingEndDate, &subscription.NextBillingDate, &subscription.AutoRenew, &subscription.CreatedAt, &subscription.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound("Subscription")
	}
	if err != nil {
		return nil, err
	}
	return subscription, nil
}

func (r *subscriptionRepo) Update(ctx context.Context, subscription *models.Subscription) error {
	query := `
		UPDATE subscriptions
		SET tier_id = $1, status = $2, trial_start_date = $3, trial_end_date = $4, billing_start_date = $5, billing_end_date = $6, next_billing_date = $7, auto_renew = $8, updated_at = NOW()
		WHERE organization_id = $9 AND id = $10
	`
	_, err := r.db.Exec(ctx, query, subscription.TierID, subscription.Status, subscription.TrialStartDate, subscription.TrialEndDate, subscription.BillingStartDate, subscription.BillingEndDate, subscription.NextBillingDate, subscription.AutoRenew, subscription.OrganizationID, subscription.ID)
	return err
}

func (r *subscriptionRepo) ListTrialsEndingBetween(ctx context.Context, start, end time.Time) ([]*models.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE status = $1 AND trial_end_date >= $2 AND trial_end_date <= $3
	`
	return r.list(ctx, query, models.SubscriptionStatusTrial, start, end)
}

func (r *subscriptionRepo) ListExpiredTrials(ctx context.Context, asOf time.Time) ([]*models.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE status = $1 AND trial_end_date < $2
	`
	return r.list(ctx, query, models.SubscriptionStatusTrial, asOf)
}

func (r *subscriptionRepo) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*models.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, status, limit, offset)
}

func (r *subscriptionRepo) list(ctx context.Context, query string, args ...any) ([]*models.Subscription, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subscriptions []*models.Subscription
	for rows.Next() {
		subscription := &models.Subscription{}
		if err := rows.Scan(&subscription.ID, &subscription.OrganizationID, &subscription.TierID, &subscription.Status, &subscription.TrialStartDate, &subscription.TrialEndDate, &subscription.BillingStartDate, &subscription.BillingEndDate, &subscription.NextBillingDate, &subscription.AutoRenew, &subscription.CreatedAt, &subscription.UpdatedAt); err != nil {
			return nil, err
		}
		subscriptions = append(subscriptions, subscription)
	}
	return subscriptions, rows.Err()
}
