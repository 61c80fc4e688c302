package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"wasteflow/internal/common"
	"wasteflow/internal/services"
)

// JWTMiddleware validates the bearer token and resolves the caller. The user
// is re-read on every request so deactivation and role changes take effect
// immediately. The resolved identity is stamped onto the request context.
func JWTMiddleware(authSvc services.AuthService, authzSvc services.AuthzService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return common.RespondError(c, common.Unauthenticated("Missing token"))
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return common.RespondError(c, common.Unauthenticated("Invalid token format"))
			}

			ctx := c.Request().Context()
			claims, err := authSvc.ValidateToken(ctx, tokenString)
			if err != nil {
				return common.RespondError(c, err)
			}

			userID, err := common.ValidateUUID(claims.Subject, "sub")
			if err != nil {
				return common.RespondError(c, common.Unauthenticated("Invalid user_id in token"))
			}

			user, err := authzSvc.ResolveUser(ctx, userID)
			if err != nil {
				return common.RespondError(c, err)
			}

			ident := &common.Identity{
				UserID:         user.ID,
				OrganizationID: user.OrganizationID,
				Email:          user.Email,
				Role:           user.Role,
				Permissions:    user.Permissions,
			}
			c.SetRequest(c.Request().WithContext(common.WithIdentity(ctx, ident)))

			return next(c)
		}
	}
}
