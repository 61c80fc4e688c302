package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"wasteflow/internal/models"
)

type SubscriptionServiceTestSuite struct {
	suite.Suite
	subRepo     *MockSubscriptionRepository
	tierRepo    *MockSubscriptionTierRepository
	orgRepo     *MockOrganizationRepository
	userRepo    *MockUserRepository
	invoiceRepo *MockInvoiceRepository
	emailSvc    *MockEmailService
	service     SubscriptionService
	orgID       uuid.UUID
	now         time.Time
	ctx         context.Context
}

func (suite *SubscriptionServiceTestSuite) SetupTest() {
	suite.subRepo = &MockSubscriptionRepository{}
	suite.tierRepo = &MockSubscriptionTierRepository{}
	suite.orgRepo = &MockOrganizationRepository{}
	suite.userRepo = &MockUserRepository{}
	suite.invoiceRepo = &MockInvoiceRepository{}
	suite.emailSvc = &MockEmailService{}
	suite.service = NewSubscriptionService(
		suite.subRepo, suite.tierRepo, suite.orgRepo, suite.userRepo,
		suite.invoiceRepo, suite.emailSvc, nil,
	)
	suite.orgID = uuid.New()
	suite.now = time.Date(2026, time.April, 10, 9, 30, 0, 0, time.UTC)
	suite.service.(*subscriptionService).now = func() time.Time { return suite.now }
	suite.ctx = context.Background()
}

func (suite *SubscriptionServiceTestSuite) manager() *models.User {
	orgID := suite.orgID
	return &models.User{
		ID:             uuid.New(),
		OrganizationID: &orgID,
		Email:          "owner@acme.test",
		FirstName:      "Pat",
		LastName:       "Owner",
		Role:           models.RoleBusinessManager,
		IsActive:       true,
	}
}

func (suite *SubscriptionServiceTestSuite) TestStartTrial_FourteenDays() {
	tier := &models.SubscriptionTier{ID: 1, Name: "Starter", IsActive: true}
	suite.tierRepo.On("GetByID", suite.ctx, 1).Return(tier, nil)

	var created *models.Subscription
	suite.subRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Subscription")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*models.Subscription)
		}).
		Return(nil)

	sub, err := suite.service.StartTrial(suite.ctx, suite.orgID, 1)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), created, sub)
	assert.Equal(suite.T(), models.SubscriptionStatusTrial, sub.Status)
	assert.Equal(suite.T(), suite.now, *sub.TrialStartDate)
	assert.Equal(suite.T(), suite.now.Add(models.TrialPeriod), *sub.TrialEndDate)
	assert.False(suite.T(), sub.AutoRenew)
}

func (suite *SubscriptionServiceTestSuite) TestUpgrade_ActivatesAndReinstates() {
	tier := &models.SubscriptionTier{ID: 3, Name: "Pro", Price: 99, IsActive: true}
	sub := &models.Subscription{
		ID:             uuid.New(),
		OrganizationID: suite.orgID,
		TierID:         1,
		Status:         models.SubscriptionStatusExpired,
	}
	suite.tierRepo.On("GetByID", suite.ctx, 3).Return(tier, nil)
	suite.subRepo.On("GetByOrganization", suite.ctx, suite.orgID).Return(sub, nil)
	suite.subRepo.On("Update", suite.ctx, sub).Return(nil)
	suite.orgRepo.On("UpdateStatus", suite.ctx, suite.orgID, models.OrgStatusActive).Return(nil)

	upgraded, err := suite.service.Upgrade(suite.ctx, suite.orgID, 3)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 3, upgraded.TierID)
	assert.Equal(suite.T(), models.SubscriptionStatusActive, upgraded.Status)
	assert.Equal(suite.T(), suite.now, *upgraded.BillingStartDate)
	assert.Equal(suite.T(), suite.now.AddDate(0, 1, 0), *upgraded.NextBillingDate)
	assert.True(suite.T(), upgraded.AutoRenew)
	suite.orgRepo.AssertExpectations(suite.T())
}

func (suite *SubscriptionServiceTestSuite) TestUpgrade_InactiveTierRejected() {
	tier := &models.SubscriptionTier{ID: 4, Name: "Legacy", IsActive: false}
	suite.tierRepo.On("GetByID", suite.ctx, 4).Return(tier, nil)

	_, err := suite.service.Upgrade(suite.ctx, suite.orgID, 4)

	assert.Error(suite.T(), err)
	suite.subRepo.AssertNotCalled(suite.T(), "GetByOrganization", suite.ctx, suite.orgID)
}

func (suite *SubscriptionServiceTestSuite) TestSendTrialReminders_WindowIsThirdDayOut() {
	windowStart := time.Date(2026, time.April, 13, 0, 0, 0, 0, time.UTC)
	windowEnd := windowStart.Add(24*time.Hour - time.Microsecond)

	trialEnd := windowStart.Add(15 * time.Hour)
	sub := &models.Subscription{
		ID:             uuid.New(),
		OrganizationID: suite.orgID,
		Status:         models.SubscriptionStatusTrial,
		TrialEndDate:   &trialEnd,
	}
	org := &models.Organization{ID: suite.orgID, Name: "Acme Disposal", Status: models.OrgStatusTrial}
	manager := suite.manager()

	suite.subRepo.On("ListTrialsEndingBetween", suite.ctx, windowStart, windowEnd).
		Return([]*models.Subscription{sub}, nil)
	suite.orgRepo.On("GetByID", suite.ctx, suite.orgID).Return(org, nil)
	suite.userRepo.On("FindFirstByRole", suite.ctx, suite.orgID, models.RoleBusinessManager).Return(manager, nil)
	suite.emailSvc.On("SendTrialReminder", manager.Email, "Pat Owner", "Acme Disposal", 3).Return(nil)

	sent, err := suite.service.SendTrialReminders(suite.ctx)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, sent)
	suite.subRepo.AssertExpectations(suite.T())
	suite.emailSvc.AssertExpectations(suite.T())
}

func (suite *SubscriptionServiceTestSuite) TestSendTrialReminders_EmailFailureSkipsCount() {
	windowStart := time.Date(2026, time.April, 13, 0, 0, 0, 0, time.UTC)
	windowEnd := windowStart.Add(24*time.Hour - time.Microsecond)
	sub := &models.Subscription{ID: uuid.New(), OrganizationID: suite.orgID, Status: models.SubscriptionStatusTrial}
	org := &models.Organization{ID: suite.orgID, Name: "Acme Disposal"}
	manager := suite.manager()

	suite.subRepo.On("ListTrialsEndingBetween", suite.ctx, windowStart, windowEnd).
		Return([]*models.Subscription{sub}, nil)
	suite.orgRepo.On("GetByID", suite.ctx, suite.orgID).Return(org, nil)
	suite.userRepo.On("FindFirstByRole", suite.ctx, suite.orgID, models.RoleBusinessManager).Return(manager, nil)
	suite.emailSvc.On("SendTrialReminder", manager.Email, "Pat Owner", "Acme Disposal", 3).
		Return(errors.New("smtp unavailable"))

	sent, err := suite.service.SendTrialReminders(suite.ctx)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, sent)
}

func (suite *SubscriptionServiceTestSuite) TestExpireTrials_SuspendsOrganization() {
	sub := &models.Subscription{
		ID:             uuid.New(),
		OrganizationID: suite.orgID,
		Status:         models.SubscriptionStatusTrial,
	}
	org := &models.Organization{ID: suite.orgID, Name: "Acme Disposal", Status: models.OrgStatusTrial}
	manager := suite.manager()

	suite.subRepo.On("ListExpiredTrials", suite.ctx, suite.now).Return([]*models.Subscription{sub}, nil)
	suite.subRepo.On("Update", suite.ctx, sub).Return(nil)
	suite.orgRepo.On("UpdateStatus", suite.ctx, suite.orgID, models.OrgStatusSuspended).Return(nil)
	suite.orgRepo.On("GetByID", suite.ctx, suite.orgID).Return(org, nil)
	suite.userRepo.On("FindFirstByRole", suite.ctx, suite.orgID, models.RoleBusinessManager).Return(manager, nil)
	suite.emailSvc.On("SendTrialExpired", manager.Email, "Pat Owner", "Acme Disposal").Return(nil)

	expired, err := suite.service.ExpireTrials(suite.ctx)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, expired)
	assert.Equal(suite.T(), models.SubscriptionStatusExpired, sub.Status)
	suite.orgRepo.AssertExpectations(suite.T())
}

func (suite *SubscriptionServiceTestSuite) TestExpireTrials_SuspendFailureNotCounted() {
	sub := &models.Subscription{ID: uuid.New(), OrganizationID: suite.orgID, Status: models.SubscriptionStatusTrial}

	suite.subRepo.On("ListExpiredTrials", suite.ctx, suite.now).Return([]*models.Subscription{sub}, nil)
	suite.subRepo.On("Update", suite.ctx, sub).Return(nil)
	suite.orgRepo.On("UpdateStatus", suite.ctx, suite.orgID, models.OrgStatusSuspended).
		Return(errors.New("write failed"))

	expired, err := suite.service.ExpireTrials(suite.ctx)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, expired)
}

func (suite *SubscriptionServiceTestSuite) TestGenerateMonthlyInvoices_DueSubscription() {
	due := suite.now.AddDate(0, 0, -1)
	sub := &models.Subscription{
		ID:              uuid.New(),
		OrganizationID:  suite.orgID,
		TierID:          3,
		Status:          models.SubscriptionStatusActive,
		NextBillingDate: &due,
	}
	tier := &models.SubscriptionTier{ID: 3, Name: "Pro", Price: 99, IsActive: true}
	org := &models.Organization{ID: suite.orgID, Name: "Acme Disposal", Status: models.OrgStatusActive}
	manager := suite.manager()

	suite.subRepo.On("ListByStatus", suite.ctx, models.SubscriptionStatusActive, 500, 0).
		Return([]*models.Subscription{sub}, nil)
	suite.tierRepo.On("GetByID", suite.ctx, 3).Return(tier, nil)

	var invoice *models.Invoice
	suite.invoiceRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Invoice")).
		Run(func(args mock.Arguments) {
			invoice = args.Get(1).(*models.Invoice)
		}).
		Return(nil)
	suite.subRepo.On("Update", suite.ctx, sub).Return(nil)
	suite.orgRepo.On("GetByID", suite.ctx, suite.orgID).Return(org, nil)
	suite.userRepo.On("FindFirstByRole", suite.ctx, suite.orgID, models.RoleBusinessManager).Return(manager, nil)
	suite.emailSvc.On("SendInvoiceNotice", manager.Email, "Pat Owner", "Acme Disposal", 99.0, mock.AnythingOfType("string")).Return(nil)

	created, err := suite.service.GenerateMonthlyInvoices(suite.ctx)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, created)
	assert.NotNil(suite.T(), invoice)
	assert.Equal(suite.T(), 99.0, invoice.Amount)
	assert.Equal(suite.T(), "pending", invoice.Status)
	assert.Equal(suite.T(), suite.now.AddDate(0, 0, 14), invoice.DueDate)
	assert.Contains(suite.T(), invoice.InvoiceNumber, "SUB-202604-")
	// The billing date advances one month from the old due date.
	assert.Equal(suite.T(), due.AddDate(0, 1, 0), *sub.NextBillingDate)
}

func (suite *SubscriptionServiceTestSuite) TestGenerateMonthlyInvoices_FutureBillingSkipped() {
	future := suite.now.AddDate(0, 0, 5)
	sub := &models.Subscription{
		ID:              uuid.New(),
		OrganizationID:  suite.orgID,
		TierID:          3,
		Status:          models.SubscriptionStatusActive,
		NextBillingDate: &future,
	}
	suite.subRepo.On("ListByStatus", suite.ctx, models.SubscriptionStatusActive, 500, 0).
		Return([]*models.Subscription{sub}, nil)

	created, err := suite.service.GenerateMonthlyInvoices(suite.ctx)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, created)
	suite.invoiceRepo.AssertNotCalled(suite.T(), "Create", suite.ctx, mock.Anything)
}

func TestSubscriptionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SubscriptionServiceTestSuite))
}
