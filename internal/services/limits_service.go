package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wasteflow/internal/common"
	"wasteflow/internal/models"
	"wasteflow/internal/repositories"
)

// Limited resource kinds accepted by Enforce.
const (
	LimitCustomers = "customers"
	LimitManagers  = "managers"
	LimitZones     = "zones"
)

// UsageSnapshot is the current consumption of one organization against its
// tier limits. Monthly figures cover the current calendar month, UTC.
type UsageSnapshot struct {
	OrganizationID uuid.UUID `json:"organization_id"`
	CustomerCount  int       `json:"customer_count"`
	ManagerCount   int       `json:"manager_count"`
	ZoneCount      int       `json:"zone_count"`
	MonthlyPickups int       `json:"monthly_pickups"`
	MonthlyRevenue float64   `json:"monthly_revenue"`
	MaxCustomers   int       `json:"max_customers"`
	MaxManagers    int       `json:"max_managers"`
	MaxZones       int       `json:"max_zones"`
}

// LimitCheck is the result of comparing one counter against its cap.
type LimitCheck struct {
	Resource  string `json:"resource"`
	Current   int    `json:"current"`
	Max       int    `json:"max"`
	Unlimited bool   `json:"unlimited"`
	Allowed   bool   `json:"allowed"`
}

// LimitsService gates tenant-scoped creation on the organization's
// subscription tier. Any failure to resolve the organization, subscription,
// or tier blocks the operation rather than letting it through.
type LimitsService interface {
	// Enforce runs the full creation gate for one resource kind: active
	// organization, billable subscription, then the tier counter. Call it
	// before the INSERT; a nil return means the creation may proceed.
	Enforce(ctx context.Context, orgID uuid.UUID, resource string) error
	// RequireBillable runs the organization and subscription gates without
	// a counter, for operations that are gated but not metered.
	RequireBillable(ctx context.Context, orgID uuid.UUID) error
	// GetUsage returns the organization's consumption against its tier.
	GetUsage(ctx context.Context, orgID uuid.UUID) (*UsageSnapshot, error)
	// CheckAll evaluates every limited resource without enforcing.
	CheckAll(ctx context.Context, orgID uuid.UUID) ([]LimitCheck, error)
}

type limitsService struct {
	orgRepo      repositories.OrganizationRepository
	subRepo      repositories.SubscriptionRepository
	tierRepo     repositories.SubscriptionTierRepository
	userRepo     repositories.UserRepository
	customerRepo repositories.CustomerRepository
	zoneRepo     repositories.ZoneRepository
	pickupRepo   repositories.PickupRepository
	paymentRepo  repositories.PaymentRepository
	now          func() time.Time
}

func NewLimitsService(
	orgRepo repositories.OrganizationRepository,
	subRepo repositories.SubscriptionRepository,
	tierRepo repositories.SubscriptionTierRepository,
	userRepo repositories.UserRepository,
	customerRepo repositories.CustomerRepository,
	zoneRepo repositories.ZoneRepository,
	pickupRepo repositories.PickupRepository,
	paymentRepo repositories.PaymentRepository,
) LimitsService {
	return &limitsService{
		orgRepo:      orgRepo,
		subRepo:      subRepo,
		tierRepo:     tierRepo,
		userRepo:     userRepo,
		customerRepo: customerRepo,
		zoneRepo:     zoneRepo,
		pickupRepo:   pickupRepo,
		paymentRepo:  paymentRepo,
		now:          time.Now,
	}
}

// monthStart returns the first instant of the current calendar month, UTC.
func (s *limitsService) monthStart() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// resolveTier walks org -> subscription -> tier. Each step that fails blocks
// the operation; there is no fallback to "allow".
func (s *limitsService) resolveTier(ctx context.Context, orgID uuid.UUID) (*models.SubscriptionTier, error) {
	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if !org.Billable() {
		return nil, common.OrganizationInactive()
	}

	sub, err := s.subRepo.GetByOrganization(ctx, orgID)
	if err != nil {
		if common.IsKind(err, common.KindNotFound) {
			return nil, common.NoActiveSubscription()
		}
		return nil, err
	}
	if !sub.Billable() {
		return nil, common.NoActiveSubscription()
	}

	tier, err := s.tierRepo.GetByID(ctx, sub.TierID)
	if err != nil {
		if common.IsKind(err, common.KindNotFound) {
			return nil, common.NoActiveSubscription()
		}
		return nil, err
	}
	return tier, nil
}

func (s *limitsService) currentCount(ctx context.Context, orgID uuid.UUID, resource string) (int, error) {
	switch resource {
	case LimitCustomers:
		return s.customerRepo.Count(ctx, orgID)
	case LimitManagers:
		return s.userRepo.CountByRole(ctx, orgID, models.RoleRegionalManager)
	case LimitZones:
		return s.zoneRepo.Count(ctx, orgID)
	}
	return 0, common.ValidationError("Unknown limited resource: " + resource)
}

func maxFor(tier *models.SubscriptionTier, resource string) int {
	switch resource {
	case LimitCustomers:
		return tier.MaxCustomers
	case LimitManagers:
		return tier.MaxManagers
	case LimitZones:
		return tier.MaxZones
	}
	return 0
}

func (s *limitsService) Enforce(ctx context.Context, orgID uuid.UUID, resource string) error {
	tier, err := s.resolveTier(ctx, orgID)
	if err != nil {
		return err
	}

	max := maxFor(tier, resource)
	if max == models.TierUnlimited {
		return nil
	}

	count, err := s.currentCount(ctx, orgID, resource)
	if err != nil {
		return err
	}
	if count >= max {
		return common.LimitReached(fmt.Sprintf("%s limit reached (%d/%d). Upgrade your subscription to add more.", resource, count, max))
	}
	return nil
}

func (s *limitsService) RequireBillable(ctx context.Context, orgID uuid.UUID) error {
	_, err := s.resolveTier(ctx, orgID)
	return err
}

func (s *limitsService) GetUsage(ctx context.Context, orgID uuid.UUID) (*UsageSnapshot, error) {
	tier, err := s.resolveTier(ctx, orgID)
	if err != nil {
		return nil, err
	}

	customers, err := s.customerRepo.Count(ctx, orgID)
	if err != nil {
		return nil, err
	}
	managers, err := s.userRepo.CountByRole(ctx, orgID, models.RoleRegionalManager)
	if err != nil {
		return nil, err
	}
	zones, err := s.zoneRepo.Count(ctx, orgID)
	if err != nil {
		return nil, err
	}

	since := s.monthStart()
	pickups, err := s.pickupRepo.CountCreatedSince(ctx, orgID, since)
	if err != nil {
		return nil, err
	}
	revenue, err := s.paymentRepo.SumCompletedSince(ctx, orgID, since)
	if err != nil {
		return nil, err
	}

	return &UsageSnapshot{
		OrganizationID: orgID,
		CustomerCount:  customers,
		ManagerCount:   managers,
		ZoneCount:      zones,
		MonthlyPickups: pickups,
		MonthlyRevenue: revenue,
		MaxCustomers:   tier.MaxCustomers,
		MaxManagers:    tier.MaxManagers,
		MaxZones:       tier.MaxZones,
	}, nil
}

func (s *limitsService) CheckAll(ctx context.Context, orgID uuid.UUID) ([]LimitCheck, error) {
	tier, err := s.resolveTier(ctx, orgID)
	if err != nil {
		return nil, err
	}

	resources := []string{LimitCustomers, LimitManagers, LimitZones}
	checks := make([]LimitCheck, 0, len(resources))
	for _, resource := range resources {
		count, err := s.currentCount(ctx, orgID, resource)
		if err != nil {
			return nil, err
		}
		max := maxFor(tier, resource)
		unlimited := max == models.TierUnlimited
		checks = append(checks, LimitCheck{
			Resource:  resource,
			Current:   count,
			Max:       max,
			Unlimited: unlimited,
			Allowed:   unlimited || count < max,
		})
	}
	return checks, nil
}
