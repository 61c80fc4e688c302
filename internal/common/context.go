package common

import (
	"context"

	"github.com/google/uuid"

	"wasteflow/internal/models"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the resolved caller stored on the request context by the JWT
// middleware. OrganizationID is nil only for super_admin.
type Identity struct {
	UserID         uuid.UUID
	OrganizationID *uuid.UUID
	Email          string
	Role           string
	Permissions    models.JSONB
}

// IsSuperAdmin reports whether the caller bypasses tenant scoping.
func (i *Identity) IsSuperAdmin() bool {
	return i.Role == models.RoleSuperAdmin
}

// WithIdentity returns a context carrying the resolved caller.
func WithIdentity(ctx context.Context, ident *Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

// IdentityFromContext extracts the resolved caller from the request context.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	ident, ok := ctx.Value(identityKey).(*Identity)
	return ident, ok
}

// ScopeOrganization resolves the effective organization for a tenant-scoped
// operation. Non-super_admin callers always operate in their own organization;
// a caller without one gets NotAssociated. super_admin may target any
// organization via the explicit parameter.
func ScopeOrganization(ident *Identity, explicit *uuid.UUID) (uuid.UUID, error) {
	if ident == nil {
		return uuid.Nil, Unauthenticated("User not authenticated")
	}
	if ident.IsSuperAdmin() {
		if explicit != nil {
			return *explicit, nil
		}
		if ident.OrganizationID != nil {
			return *ident.OrganizationID, nil
		}
		return uuid.Nil, ValidationError("organization_id is required for super admin operations")
	}
	if ident.OrganizationID == nil {
		return uuid.Nil, NotAssociated()
	}
	return *ident.OrganizationID, nil
}

// ValidateUUID validates UUID path and query parameters.
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, ValidationError(fieldName + " must be a valid UUID")
	}
	return id, nil
}

// ValidatePaginationParams clamps limit and offset to sane bounds.
func ValidatePaginationParams(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
