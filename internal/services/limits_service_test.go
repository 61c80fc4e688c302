package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"wasteflow/internal/common"
	"wasteflow/internal/models"
)

type LimitsServiceTestSuite struct {
	suite.Suite
	orgRepo      *MockOrganizationRepository
	subRepo      *MockSubscriptionRepository
	tierRepo     *MockSubscriptionTierRepository
	userRepo     *MockUserRepository
	customerRepo *MockCustomerRepository
	zoneRepo     *MockZoneRepository
	pickupRepo   *MockPickupRepository
	paymentRepo  *MockPaymentRepository
	service      LimitsService
	orgID        uuid.UUID
	ctx          context.Context
}

func (suite *LimitsServiceTestSuite) SetupTest() {
	suite.orgRepo = &MockOrganizationRepository{}
	suite.subRepo = &MockSubscriptionRepository{}
	suite.tierRepo = &MockSubscriptionTierRepository{}
	suite.userRepo = &MockUserRepository{}
	suite.customerRepo = &MockCustomerRepository{}
	suite.zoneRepo = &MockZoneRepository{}
	suite.pickupRepo = &MockPickupRepository{}
	suite.paymentRepo = &MockPaymentRepository{}
	suite.service = NewLimitsService(
		suite.orgRepo, suite.subRepo, suite.tierRepo, suite.userRepo,
		suite.customerRepo, suite.zoneRepo, suite.pickupRepo, suite.paymentRepo,
	)
	suite.orgID = uuid.New()
	suite.ctx = context.Background()
}

func (suite *LimitsServiceTestSuite) activeTenant(tier *models.SubscriptionTier) {
	org := &models.Organization{ID: suite.orgID, Status: models.OrgStatusActive}
	sub := &models.Subscription{
		ID:             uuid.New(),
		OrganizationID: suite.orgID,
		TierID:         tier.ID,
		Status:         models.SubscriptionStatusActive,
	}
	suite.orgRepo.On("GetByID", suite.ctx, suite.orgID).Return(org, nil)
	suite.subRepo.On("GetByOrganization", suite.ctx, suite.orgID).Return(sub, nil)
	suite.tierRepo.On("GetByID", suite.ctx, tier.ID).Return(tier, nil)
}

func (suite *LimitsServiceTestSuite) TestEnforce_UnderLimit() {
	tier := &models.SubscriptionTier{ID: 1, MaxCustomers: 100}
	suite.activeTenant(tier)
	suite.customerRepo.On("Count", suite.ctx, suite.orgID).Return(99, nil)

	err := suite.service.Enforce(suite.ctx, suite.orgID, LimitCustomers)

	assert.NoError(suite.T(), err)
}

func (suite *LimitsServiceTestSuite) TestEnforce_AtLimitBlocks() {
	tier := &models.SubscriptionTier{ID: 1, MaxCustomers: 100}
	suite.activeTenant(tier)
	suite.customerRepo.On("Count", suite.ctx, suite.orgID).Return(100, nil)

	err := suite.service.Enforce(suite.ctx, suite.orgID, LimitCustomers)

	assert.Error(suite.T(), err)
	assert.True(suite.T(), common.IsKind(err, common.KindLimitReached))
	assert.Contains(suite.T(), err.Error(), "customers limit reached (100/100)")
}

func (suite *LimitsServiceTestSuite) TestEnforce_UnlimitedNeverBlocks() {
	tier := &models.SubscriptionTier{ID: 2, MaxCustomers: models.TierUnlimited}
	suite.activeTenant(tier)

	err := suite.service.Enforce(suite.ctx, suite.orgID, LimitCustomers)

	assert.NoError(suite.T(), err)
	// The counter is never consulted for an unlimited quota.
	suite.customerRepo.AssertNotCalled(suite.T(), "Count", suite.ctx, suite.orgID)
}

func (suite *LimitsServiceTestSuite) TestEnforce_ManagerCounterUsesRegionalRole() {
	tier := &models.SubscriptionTier{ID: 1, MaxManagers: 5}
	suite.activeTenant(tier)
	suite.userRepo.On("CountByRole", suite.ctx, suite.orgID, models.RoleRegionalManager).Return(5, nil)

	err := suite.service.Enforce(suite.ctx, suite.orgID, LimitManagers)

	assert.True(suite.T(), common.IsKind(err, common.KindLimitReached))
	suite.userRepo.AssertExpectations(suite.T())
}

func (suite *LimitsServiceTestSuite) TestEnforce_SuspendedOrganization() {
	org := &models.Organization{ID: suite.orgID, Status: models.OrgStatusSuspended}
	suite.orgRepo.On("GetByID", suite.ctx, suite.orgID).Return(org, nil)

	err := suite.service.Enforce(suite.ctx, suite.orgID, LimitCustomers)

	assert.True(suite.T(), common.IsKind(err, common.KindOrganizationInactive))
}

func (suite *LimitsServiceTestSuite) TestEnforce_MissingSubscriptionFailsClosed() {
	org := &models.Organization{ID: suite.orgID, Status: models.OrgStatusActive}
	suite.orgRepo.On("GetByID", suite.ctx, suite.orgID).Return(org, nil)
	suite.subRepo.On("GetByOrganization", suite.ctx, suite.orgID).Return(nil, common.NotFound("Subscription"))

	err := suite.service.Enforce(suite.ctx, suite.orgID, LimitCustomers)

	assert.True(suite.T(), common.IsKind(err, common.KindNoActiveSubscription))
}

func (suite *LimitsServiceTestSuite) TestEnforce_ExpiredSubscriptionFailsClosed() {
	org := &models.Organization{ID: suite.orgID, Status: models.OrgStatusActive}
	sub := &models.Subscription{ID: uuid.New(), OrganizationID: suite.orgID, TierID: 1, Status: models.SubscriptionStatusExpired}
	suite.orgRepo.On("GetByID", suite.ctx, suite.orgID).Return(org, nil)
	suite.subRepo.On("GetByOrganization", suite.ctx, suite.orgID).Return(sub, nil)

	err := suite.service.Enforce(suite.ctx, suite.orgID, LimitCustomers)

	assert.True(suite.T(), common.IsKind(err, common.KindNoActiveSubscription))
	suite.tierRepo.AssertNotCalled(suite.T(), "GetByID", suite.ctx, 1)
}

func (suite *LimitsServiceTestSuite) TestEnforce_MissingTierFailsClosed() {
	org := &models.Organization{ID: suite.orgID, Status: models.OrgStatusActive}
	sub := &models.Subscription{ID: uuid.New(), OrganizationID: suite.orgID, TierID: 9, Status: models.SubscriptionStatusTrial}
	suite.orgRepo.On("GetByID", suite.ctx, suite.orgID).Return(org, nil)
	suite.subRepo.On("GetByOrganization", suite.ctx, suite.orgID).Return(sub, nil)
	suite.tierRepo.On("GetByID", suite.ctx, 9).Return(nil, common.NotFound("Subscription tier"))

	err := suite.service.Enforce(suite.ctx, suite.orgID, LimitCustomers)

	assert.True(suite.T(), common.IsKind(err, common.KindNoActiveSubscription))
}

func (suite *LimitsServiceTestSuite) TestEnforce_UnknownResource() {
	tier := &models.SubscriptionTier{ID: 1}
	suite.activeTenant(tier)

	err := suite.service.Enforce(suite.ctx, suite.orgID, "vehicles")

	assert.True(suite.T(), common.IsKind(err, common.KindValidation))
}

func (suite *LimitsServiceTestSuite) TestRequireBillable_TrialAllowed() {
	tier := &models.SubscriptionTier{ID: 1, MaxCustomers: 10}
	org := &models.Organization{ID: suite.orgID, Status: models.OrgStatusTrial}
	sub := &models.Subscription{ID: uuid.New(), OrganizationID: suite.orgID, TierID: 1, Status: models.SubscriptionStatusTrial}
	suite.orgRepo.On("GetByID", suite.ctx, suite.orgID).Return(org, nil)
	suite.subRepo.On("GetByOrganization", suite.ctx, suite.orgID).Return(sub, nil)
	suite.tierRepo.On("GetByID", suite.ctx, 1).Return(tier, nil)

	err := suite.service.RequireBillable(suite.ctx, suite.orgID)

	assert.NoError(suite.T(), err)
}

func (suite *LimitsServiceTestSuite) TestGetUsage_MonthlyWindowStartsAtMonthStart() {
	tier := &models.SubscriptionTier{ID: 1, MaxCustomers: 100, MaxManagers: 5, MaxZones: 10}
	suite.activeTenant(tier)

	// Pin the clock mid-month and expect counters windowed to the first.
	impl := suite.service.(*limitsService)
	impl.now = func() time.Time {
		return time.Date(2026, time.March, 17, 15, 4, 5, 0, time.UTC)
	}
	monthStart := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	suite.customerRepo.On("Count", suite.ctx, suite.orgID).Return(42, nil)
	suite.userRepo.On("CountByRole", suite.ctx, suite.orgID, models.RoleRegionalManager).Return(3, nil)
	suite.zoneRepo.On("Count", suite.ctx, suite.orgID).Return(7, nil)
	suite.pickupRepo.On("CountCreatedSince", suite.ctx, suite.orgID, monthStart).Return(120, nil)
	suite.paymentRepo.On("SumCompletedSince", suite.ctx, suite.orgID, monthStart).Return(1500.50, nil)

	usage, err := suite.service.GetUsage(suite.ctx, suite.orgID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 42, usage.CustomerCount)
	assert.Equal(suite.T(), 3, usage.ManagerCount)
	assert.Equal(suite.T(), 7, usage.ZoneCount)
	assert.Equal(suite.T(), 120, usage.MonthlyPickups)
	assert.Equal(suite.T(), 1500.50, usage.MonthlyRevenue)
	assert.Equal(suite.T(), 100, usage.MaxCustomers)
	suite.pickupRepo.AssertExpectations(suite.T())
	suite.paymentRepo.AssertExpectations(suite.T())
}

func (suite *LimitsServiceTestSuite) TestCheckAll_MixedLimits() {
	tier := &models.SubscriptionTier{ID: 1, MaxCustomers: 10, MaxManagers: models.TierUnlimited, MaxZones: 3}
	suite.activeTenant(tier)
	suite.customerRepo.On("Count", suite.ctx, suite.orgID).Return(10, nil)
	suite.userRepo.On("CountByRole", suite.ctx, suite.orgID, models.RoleRegionalManager).Return(50, nil)
	suite.zoneRepo.On("Count", suite.ctx, suite.orgID).Return(2, nil)

	checks, err := suite.service.CheckAll(suite.ctx, suite.orgID)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), checks, 3)

	byResource := map[string]LimitCheck{}
	for _, check := range checks {
		byResource[check.Resource] = check
	}
	assert.False(suite.T(), byResource[LimitCustomers].Allowed)
	assert.True(suite.T(), byResource[LimitManagers].Allowed)
	assert.True(suite.T(), byResource[LimitManagers].Unlimited)
	assert.True(suite.T(), byResource[LimitZones].Allowed)
}

func TestLimitsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LimitsServiceTestSuite))
}
