package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"wasteflow/internal/models"
)

// Mock repositories shared by the service tests.

type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) Create(ctx context.Context, org *models.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) GetBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) Update(ctx context.Context, org *models.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOrganizationRepository) UpdateFeatures(ctx context.Context, id uuid.UUID, features models.JSONB) error {
	args := m.Called(ctx, id, features)
	return args.Error(0)
}

func (m *MockOrganizationRepository) UpdateLogoURL(ctx context.Context, id uuid.UUID, logoURL string) error {
	args := m.Called(ctx, id, logoURL)
	return args.Error(0)
}

func (m *MockOrganizationRepository) List(ctx context.Context, limit, offset int) ([]*models.Organization, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockOrganizationRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}

type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, subscription *models.Subscription) error {
	args := m.Called(ctx, subscription)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) GetByOrganization(ctx context.Context, orgID uuid.UUID) (*models.Subscription, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) Update(ctx context.Context, subscription *models.Subscription) error {
	args := m.Called(ctx, subscription)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) ListTrialsEndingBetween(ctx context.Context, start, end time.Time) ([]*models.Subscription, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) ListExpiredTrials(ctx context.Context, asOf time.Time) ([]*models.Subscription, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*models.Subscription, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

type MockSubscriptionTierRepository struct {
	mock.Mock
}

func (m *MockSubscriptionTierRepository) Create(ctx context.Context, tier *models.SubscriptionTier) error {
	args := m.Called(ctx, tier)
	return args.Error(0)
}

func (m *MockSubscriptionTierRepository) GetByID(ctx context.Context, id int) (*models.SubscriptionTier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubscriptionTier), args.Error(1)
}

func (m *MockSubscriptionTierRepository) ListActive(ctx context.Context) ([]*models.SubscriptionTier, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.SubscriptionTier), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetForAuth(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	args := m.Called(ctx, orgID, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, orgID, limit, offset)
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) CountByRole(ctx context.Context, orgID uuid.UUID, role string) (int, error) {
	args := m.Called(ctx, orgID, role)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) FindFirstByRole(ctx context.Context, orgID uuid.UUID, role string) (*models.User, error) {
	args := m.Called(ctx, orgID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) CountAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Customer, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetByEmail(ctx context.Context, orgID uuid.UUID, email string) (*models.Customer, error) {
	args := m.Called(ctx, orgID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	args := m.Called(ctx, orgID, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Customer, error) {
	args := m.Called(ctx, orgID, limit, offset)
	return args.Get(0).([]*models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) ListByZone(ctx context.Context, orgID, zoneID uuid.UUID, limit, offset int) ([]*models.Customer, error) {
	args := m.Called(ctx, orgID, zoneID, limit, offset)
	return args.Get(0).([]*models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Count(ctx context.Context, orgID uuid.UUID) (int, error) {
	args := m.Called(ctx, orgID)
	return args.Int(0), args.Error(1)
}

type MockZoneRepository struct {
	mock.Mock
}

func (m *MockZoneRepository) Create(ctx context.Context, zone *models.Zone) error {
	args := m.Called(ctx, zone)
	return args.Error(0)
}

func (m *MockZoneRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Zone, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Zone), args.Error(1)
}

func (m *MockZoneRepository) Update(ctx context.Context, zone *models.Zone) error {
	args := m.Called(ctx, zone)
	return args.Error(0)
}

func (m *MockZoneRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	args := m.Called(ctx, orgID, id)
	return args.Error(0)
}

func (m *MockZoneRepository) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Zone, error) {
	args := m.Called(ctx, orgID, limit, offset)
	return args.Get(0).([]*models.Zone), args.Error(1)
}

func (m *MockZoneRepository) Count(ctx context.Context, orgID uuid.UUID) (int, error) {
	args := m.Called(ctx, orgID)
	return args.Int(0), args.Error(1)
}

type MockPickupRepository struct {
	mock.Mock
}

func (m *MockPickupRepository) Create(ctx context.Context, pickup *models.Pickup) error {
	args := m.Called(ctx, pickup)
	return args.Error(0)
}

func (m *MockPickupRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Pickup, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Pickup), args.Error(1)
}

func (m *MockPickupRepository) UpdateStatus(ctx context.Context, orgID, id uuid.UUID, status string, actualPickupTime *time.Time) error {
	args := m.Called(ctx, orgID, id, status, actualPickupTime)
	return args.Error(0)
}

func (m *MockPickupRepository) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Pickup, error) {
	args := m.Called(ctx, orgID, limit, offset)
	return args.Get(0).([]*models.Pickup), args.Error(1)
}

func (m *MockPickupRepository) ListByCustomer(ctx context.Context, orgID, customerID uuid.UUID, limit, offset int) ([]*models.Pickup, error) {
	args := m.Called(ctx, orgID, customerID, limit, offset)
	return args.Get(0).([]*models.Pickup), args.Error(1)
}

func (m *MockPickupRepository) ListUpcoming(ctx context.Context, orgID uuid.UUID, from time.Time, limit int) ([]*models.Pickup, error) {
	args := m.Called(ctx, orgID, from, limit)
	return args.Get(0).([]*models.Pickup), args.Error(1)
}

func (m *MockPickupRepository) CountCreatedSince(ctx context.Context, orgID uuid.UUID, since time.Time) (int, error) {
	args := m.Called(ctx, orgID, since)
	return args.Int(0), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Payment, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) UpdateStatus(ctx context.Context, orgID, id uuid.UUID, status string, processedAt *time.Time) error {
	args := m.Called(ctx, orgID, id, status, processedAt)
	return args.Error(0)
}

func (m *MockPaymentRepository) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Payment, error) {
	args := m.Called(ctx, orgID, limit, offset)
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListByCustomer(ctx context.Context, orgID, customerID uuid.UUID, limit, offset int) ([]*models.Payment, error) {
	args := m.Called(ctx, orgID, customerID, limit, offset)
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SumCompletedSince(ctx context.Context, orgID uuid.UUID, since time.Time) (float64, error) {
	args := m.Called(ctx, orgID, since)
	return args.Get(0).(float64), args.Error(1)
}

type MockAuditLogsRepository struct {
	mock.Mock
}

func (m *MockAuditLogsRepository) Create(ctx context.Context, auditLog *models.AuditLog) error {
	args := m.Called(ctx, auditLog)
	return args.Error(0)
}

func (m *MockAuditLogsRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.AuditLog, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuditLog), args.Error(1)
}

func (m *MockAuditLogsRepository) List(ctx context.Context, orgID uuid.UUID, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	args := m.Called(ctx, orgID, filters)
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

func (m *MockAuditLogsRepository) ListAll(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

func (m *MockAuditLogsRepository) GetByUser(ctx context.Context, orgID, userID uuid.UUID, limit, offset int) ([]*models.AuditLog, error) {
	args := m.Called(ctx, orgID, userID, limit, offset)
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

func (m *MockAuditLogsRepository) GetSummary(ctx context.Context, orgID uuid.UUID, startDate, endDate time.Time) (*models.AuditLogSummary, error) {
	args := m.Called(ctx, orgID, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuditLogSummary), args.Error(1)
}

func (m *MockAuditLogsRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListForCustomer(ctx context.Context, orgID, customerID uuid.UUID, limit, offset int) ([]*models.Notification, error) {
	args := m.Called(ctx, orgID, customerID, limit, offset)
	return args.Get(0).([]*models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) ListForUser(ctx context.Context, orgID, userID uuid.UUID, limit, offset int) ([]*models.Notification, error) {
	args := m.Called(ctx, orgID, userID, limit, offset)
	return args.Get(0).([]*models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, orgID, id uuid.UUID) error {
	args := m.Called(ctx, orgID, id)
	return args.Error(0)
}

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Invoice, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	args := m.Called(ctx, orgID, limit, offset)
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListByCustomer(ctx context.Context, orgID, customerID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	args := m.Called(ctx, orgID, customerID, limit, offset)
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

type MockComplaintRepository struct {
	mock.Mock
}

func (m *MockComplaintRepository) Create(ctx context.Context, complaint *models.Complaint) error {
	args := m.Called(ctx, complaint)
	return args.Error(0)
}

func (m *MockComplaintRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Complaint, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockComplaintRepository) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Complaint, error) {
	args := m.Called(ctx, orgID, limit, offset)
	return args.Get(0).([]*models.Complaint), args.Error(1)
}

func (m *MockComplaintRepository) ListByCustomer(ctx context.Context, orgID, customerID uuid.UUID, limit, offset int) ([]*models.Complaint, error) {
	args := m.Called(ctx, orgID, customerID, limit, offset)
	return args.Get(0).([]*models.Complaint), args.Error(1)
}

func (m *MockComplaintRepository) Resolve(ctx context.Context, orgID, id uuid.UUID, resolution string, resolvedAt time.Time) error {
	args := m.Called(ctx, orgID, id, resolution, resolvedAt)
	return args.Error(0)
}

// Mock services.

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendTrialReminder(to, recipientName, orgName string, daysLeft int) error {
	args := m.Called(to, recipientName, orgName, daysLeft)
	return args.Error(0)
}

func (m *MockEmailService) SendTrialExpired(to, recipientName, orgName string) error {
	args := m.Called(to, recipientName, orgName)
	return args.Error(0)
}

func (m *MockEmailService) SendInvoiceNotice(to, recipientName, orgName string, amount float64, invoiceNumber string) error {
	args := m.Called(to, recipientName, orgName, amount, invoiceNumber)
	return args.Error(0)
}

type MockLimitsService struct {
	mock.Mock
}

func (m *MockLimitsService) Enforce(ctx context.Context, orgID uuid.UUID, resource string) error {
	args := m.Called(ctx, orgID, resource)
	return args.Error(0)
}

func (m *MockLimitsService) RequireBillable(ctx context.Context, orgID uuid.UUID) error {
	args := m.Called(ctx, orgID)
	return args.Error(0)
}

func (m *MockLimitsService) GetUsage(ctx context.Context, orgID uuid.UUID) (*UsageSnapshot, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UsageSnapshot), args.Error(1)
}

func (m *MockLimitsService) CheckAll(ctx context.Context, orgID uuid.UUID) ([]LimitCheck, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).([]LimitCheck), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password, clientIP string) (*models.TokenResponse, error) {
	args := m.Called(ctx, email, password, clientIP)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenResponse), args.Error(1)
}

func (m *MockAuthService) GenerateTokens(ctx context.Context, user *models.User) (*models.TokenResponse, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenResponse), args.Error(1)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenResponse), args.Error(1)
}

func (m *MockAuthService) ValidateToken(ctx context.Context, token string) (*TokenClaims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TokenClaims), args.Error(1)
}

func (m *MockAuthService) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *MockAuthService) HashPassword(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}
