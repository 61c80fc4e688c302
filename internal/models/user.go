package models

import (
	"time"

	"github.com/google/uuid"
)

// Roles, highest to lowest privilege.
const (
	RoleSuperAdmin      = "super_admin"
	RoleBusinessManager = "business_manager"
	RoleRegionalManager = "regional_manager"
	RoleCustomer        = "customer"
)

var roleRank = map[string]int{
	RoleSuperAdmin:      4,
	RoleBusinessManager: 3,
	RoleRegionalManager: 2,
	RoleCustomer:        1,
}

// ValidRole reports whether role is one of the four known roles.
func ValidRole(role string) bool {
	_, ok := roleRank[role]
	return ok
}

// RoleAtLeast reports whether role sits at or above minimum in the hierarchy.
// Unknown roles never pass.
func RoleAtLeast(role, minimum string) bool {
	r, ok := roleRank[role]
	if !ok {
		return false
	}
	m, ok := roleRank[minimum]
	if !ok {
		return false
	}
	return r >= m
}

type User struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	OrganizationID *uuid.UUID `json:"organization_id" db:"organization_id"` // nil only for super_admin
	Email          string     `json:"email" db:"email"`
	PasswordHash   string     `json:"-" db:"password_hash"` // Never serialize in JSON
	FirstName      string     `json:"first_name" db:"first_name"`
	LastName       string     `json:"last_name" db:"last_name"`
	Phone          *string    `json:"phone" db:"phone"`
	Role           string     `json:"role" db:"role"`
	Permissions    JSONB      `json:"permissions" db:"permissions"`
	IsActive       bool       `json:"is_active" db:"is_active"`
	EmailVerified  bool       `json:"email_verified" db:"email_verified"`
	LastLogin      *time.Time `json:"last_login" db:"last_login"`
	CreatedBy      *uuid.UUID `json:"created_by" db:"created_by"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// HasPermission checks the capability flag in the user's permission set.
// super_admin holds every permission implicitly.
func (u *User) HasPermission(permission string) bool {
	if u.Role == RoleSuperAdmin {
		return true
	}
	if u.Permissions == nil {
		return false
	}
	enabled, ok := u.Permissions[permission].(bool)
	return ok && enabled
}

// FullName joins first and last name for email salutations.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
