package handlers

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"wasteflow/internal/common"
)

// requestIdentity pulls the resolved caller off the request context.
func requestIdentity(c echo.Context) (*common.Identity, error) {
	ident, ok := common.IdentityFromContext(c.Request().Context())
	if !ok {
		return nil, common.Unauthenticated("User not authenticated")
	}
	return ident, nil
}

// scopedOrganization resolves the effective organization for the request.
// super_admin may pass ?organization_id= to target another tenant; everyone
// else is pinned to their own.
func scopedOrganization(c echo.Context) (uuid.UUID, *common.Identity, error) {
	ident, err := requestIdentity(c)
	if err != nil {
		return uuid.Nil, nil, err
	}

	var explicit *uuid.UUID
	if raw := c.QueryParam("organization_id"); raw != "" {
		id, err := common.ValidateUUID(raw, "organization_id")
		if err != nil {
			return uuid.Nil, nil, err
		}
		explicit = &id
	}

	orgID, err := common.ScopeOrganization(ident, explicit)
	if err != nil {
		return uuid.Nil, nil, err
	}
	return orgID, ident, nil
}

// pagination reads limit/offset query params with defaults.
func pagination(c echo.Context) (int, int) {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	return common.ValidatePaginationParams(limit, offset)
}

// pathUUID parses the :id path parameter.
func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	return common.ValidateUUID(c.Param(name), name)
}
