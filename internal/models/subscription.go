package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription statuses.
const (
	SubscriptionStatusTrial   = "trial"
	SubscriptionStatusActive  = "active"
	SubscriptionStatusExpired = "expired"
)

// TierUnlimited is the sentinel for "no limit" on a tier quota.
const TierUnlimited = -1

// TrialPeriod is how long a new organization's trial runs.
const TrialPeriod = 14 * 24 * time.Hour

// SubscriptionTier is a purchasable plan with quota limits and feature flags.
type SubscriptionTier struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Description  *string   `json:"description" db:"description"`
	Price        float64   `json:"price" db:"price"`
	BillingCycle string    `json:"billing_cycle" db:"billing_cycle"`
	MaxCustomers int       `json:"max_customers" db:"max_customers"`
	MaxManagers  int       `json:"max_managers" db:"max_managers"`
	MaxZones     int       `json:"max_zones" db:"max_zones"`
	Features     []string  `json:"features" db:"features"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Subscription ties one organization to one tier. One row per organization
// is the intended invariant; reads take the latest row.
type Subscription struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	OrganizationID   uuid.UUID  `json:"organization_id" db:"organization_id"`
	TierID           int        `json:"tier_id" db:"tier_id"`
	Status           string     `json:"status" db:"status"`
	TrialStartDate   *time.Time `json:"trial_start_date" db:"trial_start_date"`
	TrialEndDate     *time.Time `json:"trial_end_date" db:"trial_end_date"`
	BillingStartDate *time.Time `json:"billing_start_date" db:"billing_start_date"`
	BillingEndDate   *time.Time `json:"billing_end_date" db:"billing_end_date"`
	NextBillingDate  *time.Time `json:"next_billing_date" db:"next_billing_date"`
	AutoRenew        bool       `json:"auto_renew" db:"auto_renew"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// Billable reports whether the subscription allows tenant-scoped creation.
func (s *Subscription) Billable() bool {
	return s.Status == SubscriptionStatusActive || s.Status == SubscriptionStatusTrial
}
