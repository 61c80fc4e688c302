package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"wasteflow/internal/caching"
	"wasteflow/internal/common"
	"wasteflow/internal/models"
	"wasteflow/internal/repositories"
)

const (
	trialReminderLeadDays = 3
	tierCacheTTL          = 10 * time.Minute
)

// SubscriptionService owns the subscription lifecycle: trial start, upgrade,
// and the scheduled sweeps that move trials to expired and issue invoices.
type SubscriptionService interface {
	ListTiers(ctx context.Context) ([]*models.SubscriptionTier, error)
	GetTier(ctx context.Context, tierID int) (*models.SubscriptionTier, error)
	CreateTier(ctx context.Context, tier *models.SubscriptionTier) error

	GetSubscription(ctx context.Context, orgID uuid.UUID) (*models.Subscription, error)
	// StartTrial creates the organization's initial trial subscription.
	StartTrial(ctx context.Context, orgID uuid.UUID, tierID int) (*models.Subscription, error)
	// Upgrade moves the organization onto a paid tier immediately. The
	// subscription becomes active and the organization is reactivated if
	// it was suspended.
	Upgrade(ctx context.Context, orgID uuid.UUID, tierID int) (*models.Subscription, error)

	// SendTrialReminders emails organizations whose trial ends in three
	// days. Returns how many reminders were sent.
	SendTrialReminders(ctx context.Context) (int, error)
	// ExpireTrials marks overdue trials expired and suspends their
	// organizations in the same pass. Returns how many trials expired.
	ExpireTrials(ctx context.Context) (int, error)
	// GenerateMonthlyInvoices issues billing invoices for active
	// subscriptions whose next billing date has arrived. Returns how many
	// invoices were created.
	GenerateMonthlyInvoices(ctx context.Context) (int, error)
}

type subscriptionService struct {
	subRepo     repositories.SubscriptionRepository
	tierRepo    repositories.SubscriptionTierRepository
	orgRepo     repositories.OrganizationRepository
	userRepo    repositories.UserRepository
	invoiceRepo repositories.InvoiceRepository
	emailSvc    EmailService
	cacheSvc    caching.CacheService
	now         func() time.Time
}

func NewSubscriptionService(
	subRepo repositories.SubscriptionRepository,
	tierRepo repositories.SubscriptionTierRepository,
	orgRepo repositories.OrganizationRepository,
	userRepo repositories.UserRepository,
	invoiceRepo repositories.InvoiceRepository,
	emailSvc EmailService,
	cacheSvc caching.CacheService,
) SubscriptionService {
	return &subscriptionService{
		subRepo:     subRepo,
		tierRepo:    tierRepo,
		orgRepo:     orgRepo,
		userRepo:    userRepo,
		invoiceRepo: invoiceRepo,
		emailSvc:    emailSvc,
		cacheSvc:    cacheSvc,
		now:         time.Now,
	}
}

func (s *subscriptionService) ListTiers(ctx context.Context) ([]*models.SubscriptionTier, error) {
	return s.tierRepo.ListActive(ctx)
}

func (s *subscriptionService) GetTier(ctx context.Context, tierID int) (*models.SubscriptionTier, error) {
	if s.cacheSvc != nil {
		if cached, err := s.cacheSvc.GetTier(ctx, tierID); err == nil && cached != nil {
			return cached, nil
		}
	}

	tier, err := s.tierRepo.GetByID(ctx, tierID)
	if err != nil {
		return nil, err
	}

	if s.cacheSvc != nil {
		if err := s.cacheSvc.SetTier(ctx, tier, tierCacheTTL); err != nil {
			log.Printf("Failed to cache tier %d: %v", tierID, err)
		}
	}
	return tier, nil
}

func (s *subscriptionService) CreateTier(ctx context.Context, tier *models.SubscriptionTier) error {
	if tier.Name == "" {
		return common.ValidationError("Tier name is required")
	}
	return s.tierRepo.Create(ctx, tier)
}

func (s *subscriptionService) GetSubscription(ctx context.Context, orgID uuid.UUID) (*models.Subscription, error) {
	return s.subRepo.GetByOrganization(ctx, orgID)
}

func (s *subscriptionService) StartTrial(ctx context.Context, orgID uuid.UUID, tierID int) (*models.Subscription, error) {
	if _, err := s.GetTier(ctx, tierID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	trialEnd := now.Add(models.TrialPeriod)
	sub := &models.Subscription{
		ID:             uuid.New(),
		OrganizationID: orgID,
		TierID:         tierID,
		Status:         models.SubscriptionStatusTrial,
		TrialStartDate: &now,
		TrialEndDate:   &trialEnd,
		AutoRenew:      false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *subscriptionService) Upgrade(ctx context.Context, orgID uuid.UUID, tierID int) (*models.Subscription, error) {
	tier, err := s.GetTier(ctx, tierID)
	if err != nil {
		return nil, err
	}
	if !tier.IsActive {
		return nil, common.ValidationError("Tier is not available")
	}

	sub, err := s.subRepo.GetByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	nextBilling := now.AddDate(0, 1, 0)
	sub.TierID = tierID
	sub.Status = models.SubscriptionStatusActive
	sub.BillingStartDate = &now
	sub.NextBillingDate = &nextBilling
	sub.AutoRenew = true
	sub.UpdatedAt = now
	if err := s.subRepo.Update(ctx, sub); err != nil {
		return nil, err
	}

	// An upgrade restores a suspended organization immediately.
	if err := s.orgRepo.UpdateStatus(ctx, orgID, models.OrgStatusActive); err != nil {
		return nil, err
	}

	if s.cacheSvc != nil {
		if err := s.cacheSvc.InvalidateUsage(ctx, orgID); err != nil {
			log.Printf("Failed to invalidate usage cache for %s: %v", orgID, err)
		}
	}
	return sub, nil
}

func (s *subscriptionService) SendTrialReminders(ctx context.Context) (int, error) {
	now := s.now().UTC()
	target := now.AddDate(0, 0, trialReminderLeadDays)
	start := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Microsecond)

	subs, err := s.subRepo.ListTrialsEndingBetween(ctx, start, end)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, sub := range subs {
		org, err := s.orgRepo.GetByID(ctx, sub.OrganizationID)
		if err != nil {
			log.Printf("Trial reminder: failed to load organization %s: %v", sub.OrganizationID, err)
			continue
		}
		manager, err := s.userRepo.FindFirstByRole(ctx, sub.OrganizationID, models.RoleBusinessManager)
		if err != nil {
			log.Printf("Trial reminder: no business manager for organization %s: %v", sub.OrganizationID, err)
			continue
		}
		if err := s.emailSvc.SendTrialReminder(manager.Email, manager.FullName(), org.Name, trialReminderLeadDays); err != nil {
			log.Printf("Trial reminder: failed to email %s: %v", manager.Email, err)
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *subscriptionService) ExpireTrials(ctx context.Context) (int, error) {
	now := s.now().UTC()
	subs, err := s.subRepo.ListExpiredTrials(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, sub := range subs {
		sub.Status = models.SubscriptionStatusExpired
		sub.UpdatedAt = now
		if err := s.subRepo.Update(ctx, sub); err != nil {
			log.Printf("Trial expiration: failed to update subscription %s: %v", sub.ID, err)
			continue
		}
		if err := s.orgRepo.UpdateStatus(ctx, sub.OrganizationID, models.OrgStatusSuspended); err != nil {
			log.Printf("Trial expiration: failed to suspend organization %s: %v", sub.OrganizationID, err)
			continue
		}
		expired++

		org, err := s.orgRepo.GetByID(ctx, sub.OrganizationID)
		if err != nil {
			continue
		}
		manager, err := s.userRepo.FindFirstByRole(ctx, sub.OrganizationID, models.RoleBusinessManager)
		if err != nil {
			continue
		}
		if err := s.emailSvc.SendTrialExpired(manager.Email, manager.FullName(), org.Name); err != nil {
			log.Printf("Trial expiration: failed to email %s: %v", manager.Email, err)
		}
	}
	return expired, nil
}

func (s *subscriptionService) GenerateMonthlyInvoices(ctx context.Context) (int, error) {
	now := s.now().UTC()

	// Page through active subscriptions; billing runs once a month so the
	// volume is modest.
	created := 0
	offset := 0
	const pageSize = 500
	for {
		subs, err := s.subRepo.ListByStatus(ctx, models.SubscriptionStatusActive, pageSize, offset)
		if err != nil {
			return created, err
		}
		if len(subs) == 0 {
			break
		}

		for _, sub := range subs {
			if sub.NextBillingDate == nil || sub.NextBillingDate.After(now) {
				continue
			}
			tier, err := s.GetTier(ctx, sub.TierID)
			if err != nil {
				log.Printf("Monthly invoices: failed to load tier %d: %v", sub.TierID, err)
				continue
			}

			invoice := &models.Invoice{
				ID:             uuid.New(),
				OrganizationID: sub.OrganizationID,
				InvoiceNumber:  fmt.Sprintf("SUB-%s-%s", now.Format("200601"), sub.OrganizationID.String()[:8]),
				Amount:         tier.Price,
				Currency:       "USD",
				IssueDate:      now,
				DueDate:        now.AddDate(0, 0, 14),
				Status:         "pending",
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			description := fmt.Sprintf("%s plan, billing period starting %s", tier.Name, now.Format("2006-01-02"))
			invoice.Description = &description

			if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
				log.Printf("Monthly invoices: failed to create invoice for %s: %v", sub.OrganizationID, err)
				continue
			}
			created++

			nextBilling := sub.NextBillingDate.AddDate(0, 1, 0)
			sub.NextBillingDate = &nextBilling
			sub.UpdatedAt = now
			if err := s.subRepo.Update(ctx, sub); err != nil {
				log.Printf("Monthly invoices: failed to advance billing date for %s: %v", sub.ID, err)
			}

			org, err := s.orgRepo.GetByID(ctx, sub.OrganizationID)
			if err != nil {
				continue
			}
			manager, err := s.userRepo.FindFirstByRole(ctx, sub.OrganizationID, models.RoleBusinessManager)
			if err != nil {
				continue
			}
			if err := s.emailSvc.SendInvoiceNotice(manager.Email, manager.FullName(), org.Name, tier.Price, invoice.InvoiceNumber); err != nil {
				log.Printf("Monthly invoices: failed to email %s: %v", manager.Email, err)
			}
		}

		if len(subs) < pageSize {
			break
		}
		offset += pageSize
	}
	return created, nil
}
