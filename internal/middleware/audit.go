package middleware

import (
	"github.com/labstack/echo/v4"

	"wasteflow/internal/common"
	"wasteflow/internal/models"
	"wasteflow/internal/services"
)

// AuditMiddleware records state-changing routes after they run. The handler
// always executes first; whatever recording does never changes the response.
type AuditMiddleware struct {
	auditService services.AuditService
}

func NewAuditMiddleware(auditService services.AuditService) *AuditMiddleware {
	return &AuditMiddleware{auditService: auditService}
}

// Record wraps a route with audit recording. On handler failure the entry
// uses the "_error" action suffix and carries the error text; the original
// error still propagates to the client.
func (m *AuditMiddleware) Record(action, resourceType string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			ctx := c.Request().Context()
			ident, ok := common.IdentityFromContext(ctx)
			if !ok {
				// No actor to attribute the entry to.
				return err
			}

			ip := c.RealIP()
			userAgent := c.Request().UserAgent()
			event := &services.AuditEvent{
				Actor:        ident,
				Action:       action,
				ResourceType: resourceType,
				IPAddress:    &ip,
				UserAgent:    &userAgent,
				NewValues: models.JSONB{
					"method": c.Request().Method,
					"path":   c.Path(),
				},
			}
			if id := c.Param("id"); id != "" {
				event.ResourceID = &id
			}

			if err != nil {
				m.auditService.RecordError(ctx, event, err)
			} else {
				m.auditService.Record(ctx, event)
			}
			return err
		}
	}
}
