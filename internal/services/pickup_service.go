package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"wasteflow/internal/common"
	"wasteflow/internal/models"
	"wasteflow/internal/repositories"
)

// SchedulePickupInput is the payload for scheduling a collection.
type SchedulePickupInput struct {
	CustomerID    uuid.UUID
	ScheduledDate time.Time
	ScheduledTime string
	PickupType    string
	Notes         *string
	CreatedBy     uuid.UUID
}

// PickupService schedules and tracks waste collections. Scheduling
// requires a billable subscription but has no per-tier counter.
type PickupService interface {
	SchedulePickup(ctx context.Context, orgID uuid.UUID, input *SchedulePickupInput) (*models.Pickup, error)
	GetPickup(ctx context.Context, orgID, pickupID uuid.UUID) (*models.Pickup, error)
	UpdateStatus(ctx context.Context, orgID, pickupID uuid.UUID, status string) error
	ListPickups(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Pickup, error)
	ListCustomerPickups(ctx context.Context, orgID, customerID uuid.UUID, limit, offset int) ([]*models.Pickup, error)
	ListUpcoming(ctx context.Context, orgID uuid.UUID, limit int) ([]*models.Pickup, error)
}

type pickupService struct {
	pickupRepo       repositories.PickupRepository
	customerRepo     repositories.CustomerRepository
	notificationRepo repositories.NotificationRepository
	limitsSvc        LimitsService
	now              func() time.Time
}

func NewPickupService(pickupRepo repositories.PickupRepository, customerRepo repositories.CustomerRepository, notificationRepo repositories.NotificationRepository, limitsSvc LimitsService) PickupService {
	return &pickupService{
		pickupRepo:       pickupRepo,
		customerRepo:     customerRepo,
		notificationRepo: notificationRepo,
		limitsSvc:        limitsSvc,
		now:              time.Now,
	}
}

func (s *pickupService) SchedulePickup(ctx context.Context, orgID uuid.UUID, input *SchedulePickupInput) (*models.Pickup, error) {
	if input.ScheduledDate.IsZero() {
		return nil, common.ValidationError("Scheduled date is required")
	}

	if err := s.limitsSvc.RequireBillable(ctx, orgID); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.GetByID(ctx, orgID, input.CustomerID)
	if err != nil {
		return nil, err
	}

	pickupType := input.PickupType
	if pickupType == "" {
		pickupType = "regular"
	}

	now := s.now().UTC()
	createdBy := input.CreatedBy
	pickup := &models.Pickup{
		ID:             uuid.New(),
		OrganizationID: orgID,
		CustomerID:     customer.ID,
		ZoneID:         customer.ZoneID,
		ScheduledDate:  input.ScheduledDate,
		ScheduledTime:  input.ScheduledTime,
		PickupType:     pickupType,
		Status:         models.PickupStatusScheduled,
		Notes:          input.Notes,
		CreatedBy:      &createdBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.pickupRepo.Create(ctx, pickup); err != nil {
		return nil, err
	}

	customerID := customer.ID
	notification := &models.Notification{
		ID:             uuid.New(),
		OrganizationID: orgID,
		CustomerID:     &customerID,
		Title:          "Pickup scheduled",
		Message:        "A waste pickup has been scheduled for " + input.ScheduledDate.Format("2006-01-02"),
		Type:           "pickup",
		Priority:       "normal",
		CreatedAt:      now,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		// The pickup exists; a missing notification is not worth failing for.
		return pickup, nil
	}
	return pickup, nil
}

func (s *pickupService) GetPickup(ctx context.Context, orgID, pickupID uuid.UUID) (*models.Pickup, error) {
	return s.pickupRepo.GetByID(ctx, orgID, pickupID)
}

func (s *pickupService) UpdateStatus(ctx context.Context, orgID, pickupID uuid.UUID, status string) error {
	if !models.ValidPickupStatus(status) {
		return common.ValidationError("Invalid pickup status: " + status)
	}

	var actualPickupTime *time.Time
	if status == models.PickupStatusCompleted {
		now := s.now().UTC()
		actualPickupTime = &now
	}
	return s.pickupRepo.UpdateStatus(ctx, orgID, pickupID, status, actualPickupTime)
}

func (s *pickupService) ListPickups(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Pickup, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.pickupRepo.List(ctx, orgID, limit, offset)
}

func (s *pickupService) ListCustomerPickups(ctx context.Context, orgID, customerID uuid.UUID, limit, offset int) ([]*models.Pickup, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.pickupRepo.ListByCustomer(ctx, orgID, customerID, limit, offset)
}

func (s *pickupService) ListUpcoming(ctx context.Context, orgID uuid.UUID, limit int) ([]*models.Pickup, error) {
	limit, _ = common.ValidatePaginationParams(limit, 0)
	return s.pickupRepo.ListUpcoming(ctx, orgID, s.now().UTC(), limit)
}
