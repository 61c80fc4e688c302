package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"wasteflow/internal/common"
	"wasteflow/internal/models"
	"wasteflow/internal/repositories"
)

// ZoneService manages service areas. Zone creation counts against the
// tier limit.
type ZoneService interface {
	CreateZone(ctx context.Context, orgID uuid.UUID, zone *models.Zone) (*models.Zone, error)
	GetZone(ctx context.Context, orgID, zoneID uuid.UUID) (*models.Zone, error)
	UpdateZone(ctx context.Context, zone *models.Zone) error
	DeleteZone(ctx context.Context, orgID, zoneID uuid.UUID) error
	ListZones(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Zone, error)
	AssignManager(ctx context.Context, orgID, zoneID, managerID uuid.UUID) error
}

type zoneService struct {
	zoneRepo  repositories.ZoneRepository
	userRepo  repositories.UserRepository
	limitsSvc LimitsService
}

func NewZoneService(zoneRepo repositories.ZoneRepository, userRepo repositories.UserRepository, limitsSvc LimitsService) ZoneService {
	return &zoneService{
		zoneRepo:  zoneRepo,
		userRepo:  userRepo,
		limitsSvc: limitsSvc,
	}
}

func (s *zoneService) CreateZone(ctx context.Context, orgID uuid.UUID, zone *models.Zone) (*models.Zone, error) {
	if zone.Name == "" {
		return nil, common.ValidationError("Zone name is required")
	}

	if err := s.limitsSvc.Enforce(ctx, orgID, LimitZones); err != nil {
		return nil, err
	}

	if zone.RegionalManagerID != nil {
		manager, err := s.userRepo.GetByID(ctx, orgID, *zone.RegionalManagerID)
		if err != nil {
			return nil, err
		}
		if manager.Role != models.RoleRegionalManager {
			return nil, common.ValidationError("Assigned user is not a regional manager")
		}
	}

	now := time.Now().UTC()
	zone.ID = uuid.New()
	zone.OrganizationID = orgID
	zone.IsActive = true
	zone.CreatedAt = now
	zone.UpdatedAt = now

	if err := s.zoneRepo.Create(ctx, zone); err != nil {
		return nil, err
	}
	return zone, nil
}

func (s *zoneService) GetZone(ctx context.Context, orgID, zoneID uuid.UUID) (*models.Zone, error) {
	return s.zoneRepo.GetByID(ctx, orgID, zoneID)
}

func (s *zoneService) UpdateZone(ctx context.Context, zone *models.Zone) error {
	if zone.Name == "" {
		return common.ValidationError("Zone name is required")
	}
	if _, err := s.zoneRepo.GetByID(ctx, zone.OrganizationID, zone.ID); err != nil {
		return err
	}
	zone.UpdatedAt = time.Now().UTC()
	return s.zoneRepo.Update(ctx, zone)
}

func (s *zoneService) DeleteZone(ctx context.Context, orgID, zoneID uuid.UUID) error {
	if _, err := s.zoneRepo.GetByID(ctx, orgID, zoneID); err != nil {
		return err
	}
	return s.zoneRepo.Delete(ctx, orgID, zoneID)
}

func (s *zoneService) ListZones(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Zone, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.zoneRepo.List(ctx, orgID, limit, offset)
}

func (s *zoneService) AssignManager(ctx context.Context, orgID, zoneID, managerID uuid.UUID) error {
	zone, err := s.zoneRepo.GetByID(ctx, orgID, zoneID)
	if err != nil {
		return err
	}
	manager, err := s.userRepo.GetByID(ctx, orgID, managerID)
	if err != nil {
		return err
	}
	if manager.Role != models.RoleRegionalManager {
		return common.ValidationError("Assigned user is not a regional manager")
	}

	zone.RegionalManagerID = &managerID
	zone.UpdatedAt = time.Now().UTC()
	return s.zoneRepo.Update(ctx, zone)
}
