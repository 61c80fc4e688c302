package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"wasteflow/internal/common"
	"wasteflow/internal/models"
)

type PickupServiceTestSuite struct {
	suite.Suite
	pickupRepo       *MockPickupRepository
	customerRepo     *MockCustomerRepository
	notificationRepo *MockNotificationRepository
	limitsSvc        *MockLimitsService
	service          PickupService
	orgID            uuid.UUID
	customerID       uuid.UUID
	ctx              context.Context
}

func (suite *PickupServiceTestSuite) SetupTest() {
	suite.pickupRepo = &MockPickupRepository{}
	suite.customerRepo = &MockCustomerRepository{}
	suite.notificationRepo = &MockNotificationRepository{}
	suite.limitsSvc = &MockLimitsService{}
	suite.service = NewPickupService(suite.pickupRepo, suite.customerRepo, suite.notificationRepo, suite.limitsSvc)
	suite.orgID = uuid.New()
	suite.customerID = uuid.New()
	suite.ctx = context.Background()
}

func (suite *PickupServiceTestSuite) input() *SchedulePickupInput {
	return &SchedulePickupInput{
		CustomerID:    suite.customerID,
		ScheduledDate: time.Date(2026, time.May, 4, 0, 0, 0, 0, time.UTC),
		ScheduledTime: "09:00",
		CreatedBy:     uuid.New(),
	}
}

func (suite *PickupServiceTestSuite) TestSchedulePickup_Success() {
	zoneID := uuid.New()
	customer := &models.Customer{ID: suite.customerID, OrganizationID: suite.orgID, ZoneID: &zoneID}

	suite.limitsSvc.On("RequireBillable", suite.ctx, suite.orgID).Return(nil)
	suite.customerRepo.On("GetByID", suite.ctx, suite.orgID, suite.customerID).Return(customer, nil)
	suite.pickupRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Pickup")).Return(nil)
	suite.notificationRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Notification")).Return(nil)

	pickup, err := suite.service.SchedulePickup(suite.ctx, suite.orgID, suite.input())

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.PickupStatusScheduled, pickup.Status)
	assert.Equal(suite.T(), "regular", pickup.PickupType)
	assert.Equal(suite.T(), zoneID, *pickup.ZoneID)
	suite.notificationRepo.AssertExpectations(suite.T())
}

func (suite *PickupServiceTestSuite) TestSchedulePickup_BillingGateBlocks() {
	suite.limitsSvc.On("RequireBillable", suite.ctx, suite.orgID).
		Return(common.NoActiveSubscription())

	_, err := suite.service.SchedulePickup(suite.ctx, suite.orgID, suite.input())

	assert.True(suite.T(), common.IsKind(err, common.KindNoActiveSubscription))
	suite.pickupRepo.AssertNotCalled(suite.T(), "Create", suite.ctx, mock.Anything)
}

func (suite *PickupServiceTestSuite) TestSchedulePickup_MissingDate() {
	input := suite.input()
	input.ScheduledDate = time.Time{}

	_, err := suite.service.SchedulePickup(suite.ctx, suite.orgID, input)

	assert.True(suite.T(), common.IsKind(err, common.KindValidation))
}

func (suite *PickupServiceTestSuite) TestSchedulePickup_UnknownCustomer() {
	suite.limitsSvc.On("RequireBillable", suite.ctx, suite.orgID).Return(nil)
	suite.customerRepo.On("GetByID", suite.ctx, suite.orgID, suite.customerID).
		Return(nil, common.NotFound("Customer"))

	_, err := suite.service.SchedulePickup(suite.ctx, suite.orgID, suite.input())

	assert.True(suite.T(), common.IsKind(err, common.KindNotFound))
}

func (suite *PickupServiceTestSuite) TestSchedulePickup_NotificationFailureIgnored() {
	customer := &models.Customer{ID: suite.customerID, OrganizationID: suite.orgID}

	suite.limitsSvc.On("RequireBillable", suite.ctx, suite.orgID).Return(nil)
	suite.customerRepo.On("GetByID", suite.ctx, suite.orgID, suite.customerID).Return(customer, nil)
	suite.pickupRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Pickup")).Return(nil)
	suite.notificationRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Notification")).
		Return(assert.AnError)

	pickup, err := suite.service.SchedulePickup(suite.ctx, suite.orgID, suite.input())

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), pickup)
}

func (suite *PickupServiceTestSuite) TestUpdateStatus_CompletedStampsActualTime() {
	pickupID := uuid.New()
	suite.pickupRepo.On("UpdateStatus", suite.ctx, suite.orgID, pickupID,
		models.PickupStatusCompleted, mock.AnythingOfType("*time.Time")).Return(nil)

	err := suite.service.UpdateStatus(suite.ctx, suite.orgID, pickupID, models.PickupStatusCompleted)

	assert.NoError(suite.T(), err)
	suite.pickupRepo.AssertExpectations(suite.T())
}

func (suite *PickupServiceTestSuite) TestUpdateStatus_InvalidStatus() {
	err := suite.service.UpdateStatus(suite.ctx, suite.orgID, uuid.New(), "teleported")

	assert.True(suite.T(), common.IsKind(err, common.KindValidation))
	suite.pickupRepo.AssertNotCalled(suite.T(), "UpdateStatus",
		suite.ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPickupServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PickupServiceTestSuite))
}
