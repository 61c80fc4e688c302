package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"wasteflow/internal/common"
	"wasteflow/internal/models"
	"wasteflow/internal/repositories"
)

// CreateManagerInput is the payload for adding a regional manager.
type CreateManagerInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     *string
	CreatedBy uuid.UUID
}

// UserService manages staff accounts inside one organization. Regional
// manager creation counts against the tier's manager limit.
type UserService interface {
	CreateRegionalManager(ctx context.Context, orgID uuid.UUID, input *CreateManagerInput) (*models.User, error)
	GetUser(ctx context.Context, orgID, userID uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.User, error)
	DeactivateUser(ctx context.Context, orgID, userID uuid.UUID) error
	UpdatePermissions(ctx context.Context, orgID, userID uuid.UUID, permissions models.JSONB) error
}

type userService struct {
	userRepo  repositories.UserRepository
	limitsSvc LimitsService
	authSvc   AuthService
}

func NewUserService(userRepo repositories.UserRepository, limitsSvc LimitsService, authSvc AuthService) UserService {
	return &userService{
		userRepo:  userRepo,
		limitsSvc: limitsSvc,
		authSvc:   authSvc,
	}
}

func (s *userService) CreateRegionalManager(ctx context.Context, orgID uuid.UUID, input *CreateManagerInput) (*models.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, common.ValidationError("Email and password are required")
	}
	if len(input.Password) < 8 {
		return nil, common.ValidationError("Password must be at least 8 characters")
	}

	if err := s.limitsSvc.Enforce(ctx, orgID, LimitManagers); err != nil {
		return nil, err
	}

	passwordHash, err := s.authSvc.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	createdBy := input.CreatedBy
	user := &models.User{
		ID:             uuid.New(),
		OrganizationID: &orgID,
		Email:          input.Email,
		PasswordHash:   passwordHash,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Phone:          input.Phone,
		Role:           models.RoleRegionalManager,
		IsActive:       true,
		CreatedBy:      &createdBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, orgID, userID uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, orgID, userID)
}

func (s *userService) ListUsers(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.User, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.userRepo.List(ctx, orgID, limit, offset)
}

func (s *userService) DeactivateUser(ctx context.Context, orgID, userID uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, orgID, userID)
	if err != nil {
		return err
	}
	user.IsActive = false
	user.UpdatedAt = time.Now().UTC()
	return s.userRepo.Update(ctx, user)
}

func (s *userService) UpdatePermissions(ctx context.Context, orgID, userID uuid.UUID, permissions models.JSONB) error {
	user, err := s.userRepo.GetByID(ctx, orgID, userID)
	if err != nil {
		return err
	}
	user.Permissions = permissions
	user.UpdatedAt = time.Now().UTC()
	return s.userRepo.Update(ctx, user)
}
