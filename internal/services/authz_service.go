package services

import (
	"context"

	"github.com/google/uuid"

	"wasteflow/internal/common"
	"wasteflow/internal/models"
	"wasteflow/internal/repositories"
)

// AuthzService resolves callers and enforces the role hierarchy. Every guard
// re-reads the user so a deactivation takes effect on the next request.
type AuthzService interface {
	// ResolveUser loads the caller by ID and rejects missing or deactivated
	// accounts with an authentication error.
	ResolveUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	// RequireRole resolves the caller and checks they sit at or above the
	// minimum role. Below the minimum is Forbidden, not Unauthenticated.
	RequireRole(ctx context.Context, userID uuid.UUID, minimumRole string) (*models.User, error)
	// RequirePermission resolves the caller and checks a capability flag in
	// their permission set. super_admin passes implicitly.
	RequirePermission(ctx context.Context, userID uuid.UUID, permission string) (*models.User, error)
}

type authzService struct {
	userRepo repositories.UserRepository
}

func NewAuthzService(userRepo repositories.UserRepository) AuthzService {
	return &authzService{userRepo: userRepo}
}

func (s *authzService) ResolveUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetForAuth(ctx, userID)
	if err != nil {
		if common.IsKind(err, common.KindNotFound) {
			return nil, common.Unauthenticated("User not found")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, common.Unauthenticated("Account is deactivated")
	}
	return user, nil
}

func (s *authzService) RequireRole(ctx context.Context, userID uuid.UUID, minimumRole string) (*models.User, error) {
	user, err := s.ResolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !models.RoleAtLeast(user.Role, minimumRole) {
		return nil, common.Forbidden("Insufficient permissions")
	}
	return user, nil
}

func (s *authzService) RequirePermission(ctx context.Context, userID uuid.UUID, permission string) (*models.User, error) {
	user, err := s.ResolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.HasPermission(permission) {
		return nil, common.Forbidden("Missing permission: " + permission)
	}
	return user, nil
}
