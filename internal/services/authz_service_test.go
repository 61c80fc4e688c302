package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"wasteflow/internal/common"
	"wasteflow/internal/models"
)

type AuthzServiceTestSuite struct {
	suite.Suite
	userRepo *MockUserRepository
	service  AuthzService
	ctx      context.Context
}

func (suite *AuthzServiceTestSuite) SetupTest() {
	suite.userRepo = &MockUserRepository{}
	suite.service = NewAuthzService(suite.userRepo)
	suite.ctx = context.Background()
}

func (suite *AuthzServiceTestSuite) stubUser(role string, active bool) *models.User {
	orgID := uuid.New()
	user := &models.User{
		ID:             uuid.New(),
		OrganizationID: &orgID,
		Email:          "user@example.com",
		Role:           role,
		IsActive:       active,
	}
	suite.userRepo.On("GetForAuth", suite.ctx, user.ID).Return(user, nil)
	return user
}

func (suite *AuthzServiceTestSuite) TestResolveUser_Missing() {
	userID := uuid.New()
	suite.userRepo.On("GetForAuth", suite.ctx, userID).Return(nil, common.NotFound("User"))

	_, err := suite.service.ResolveUser(suite.ctx, userID)

	assert.True(suite.T(), common.IsKind(err, common.KindUnauthenticated))
}

func (suite *AuthzServiceTestSuite) TestResolveUser_Deactivated() {
	user := suite.stubUser(models.RoleBusinessManager, false)

	_, err := suite.service.ResolveUser(suite.ctx, user.ID)

	assert.True(suite.T(), common.IsKind(err, common.KindUnauthenticated))
}

func (suite *AuthzServiceTestSuite) TestRequireRole_EqualRolePasses() {
	user := suite.stubUser(models.RoleRegionalManager, true)

	resolved, err := suite.service.RequireRole(suite.ctx, user.ID, models.RoleRegionalManager)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), user.ID, resolved.ID)
}

func (suite *AuthzServiceTestSuite) TestRequireRole_HigherRolePasses() {
	user := suite.stubUser(models.RoleSuperAdmin, true)

	_, err := suite.service.RequireRole(suite.ctx, user.ID, models.RoleBusinessManager)

	assert.NoError(suite.T(), err)
}

func (suite *AuthzServiceTestSuite) TestRequireRole_LowerRoleForbidden() {
	user := suite.stubUser(models.RoleCustomer, true)

	_, err := suite.service.RequireRole(suite.ctx, user.ID, models.RoleRegionalManager)

	assert.True(suite.T(), common.IsKind(err, common.KindForbidden))
}

func (suite *AuthzServiceTestSuite) TestRequirePermission_SuperAdminImplicit() {
	user := suite.stubUser(models.RoleSuperAdmin, true)

	_, err := suite.service.RequirePermission(suite.ctx, user.ID, "manage_billing")

	assert.NoError(suite.T(), err)
}

func (suite *AuthzServiceTestSuite) TestRequirePermission_MissingFlagForbidden() {
	orgID := uuid.New()
	user := &models.User{
		ID:             uuid.New(),
		OrganizationID: &orgID,
		Role:           models.RoleRegionalManager,
		Permissions:    models.JSONB{"manage_billing": false},
		IsActive:       true,
	}
	suite.userRepo.On("GetForAuth", suite.ctx, user.ID).Return(user, nil)

	_, err := suite.service.RequirePermission(suite.ctx, user.ID, "manage_billing")

	assert.True(suite.T(), common.IsKind(err, common.KindForbidden))
}

func TestRoleHierarchy(t *testing.T) {
	ordered := []string{
		models.RoleCustomer,
		models.RoleRegionalManager,
		models.RoleBusinessManager,
		models.RoleSuperAdmin,
	}
	for i, role := range ordered {
		for j, minimum := range ordered {
			assert.Equal(t, i >= j, models.RoleAtLeast(role, minimum),
				"RoleAtLeast(%s, %s)", role, minimum)
		}
	}
	assert.False(t, models.RoleAtLeast("janitor", models.RoleCustomer))
	assert.False(t, models.RoleAtLeast(models.RoleSuperAdmin, "janitor"))
}

func TestAuthzServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthzServiceTestSuite))
}
