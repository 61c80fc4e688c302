package middleware

import (
	"github.com/labstack/echo/v4"

	"wasteflow/internal/common"
	"wasteflow/internal/models"
)

// RequireRole gates a route on the role hierarchy. Any role at or above the
// minimum passes; a caller below it gets 403, not 401.
func RequireRole(minimumRole string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, ok := common.IdentityFromContext(c.Request().Context())
			if !ok {
				return common.RespondError(c, common.Unauthenticated("User not authenticated"))
			}
			if !models.RoleAtLeast(ident.Role, minimumRole) {
				return common.RespondError(c, common.Forbidden("Insufficient permissions"))
			}
			return next(c)
		}
	}
}

// RequirePermission gates a route on a capability flag in the caller's
// permission set. super_admin passes implicitly.
func RequirePermission(permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, ok := common.IdentityFromContext(c.Request().Context())
			if !ok {
				return common.RespondError(c, common.Unauthenticated("User not authenticated"))
			}
			if ident.IsSuperAdmin() {
				return next(c)
			}
			enabled, ok := ident.Permissions[permission].(bool)
			if !ok || !enabled {
				return common.RespondError(c, common.Forbidden("Missing permission: "+permission))
			}
			return next(c)
		}
	}
}
