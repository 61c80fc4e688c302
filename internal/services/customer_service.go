package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"wasteflow/internal/common"
	"wasteflow/internal/models"
	"wasteflow/internal/repositories"
)

// CreateCustomerInput is the payload for enrolling a new customer.
type CreateCustomerInput struct {
	Email             string
	Password          string
	FirstName         string
	LastName          string
	Phone             string
	Address           string
	ZoneID            *uuid.UUID
	HouseType         *string
	NumberOfFlats     int
	NumberOfOccupants int
	MonthlyFee        float64
	PickupFrequency   string
}

// UpdateProfileInput is the subset of customer fields a customer may change
// about themselves.
type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Address   *string
}

// CustomerService manages customer accounts, their notifications, and
// their complaints. Customer creation counts against the tier limit.
type CustomerService interface {
	CreateCustomer(ctx context.Context, orgID uuid.UUID, input *CreateCustomerInput) (*models.Customer, error)
	// GetProfile resolves the customer record behind a customer-role login
	// by its organization-scoped email.
	GetProfile(ctx context.Context, orgID uuid.UUID, email string) (*models.Customer, error)
	UpdateProfile(ctx context.Context, orgID uuid.UUID, email string, input *UpdateProfileInput) (*models.Customer, error)
	GetCustomer(ctx context.Context, orgID, customerID uuid.UUID) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, customer *models.Customer) error
	DeleteCustomer(ctx context.Context, orgID, customerID uuid.UUID) error
	ListCustomers(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Customer, error)
	ListCustomersByZone(ctx context.Context, orgID, zoneID uuid.UUID, limit, offset int) ([]*models.Customer, error)

	// Notifications
	ListNotifications(ctx context.Context, orgID, customerID uuid.UUID, limit, offset int) ([]*models.Notification, error)
	MarkNotificationRead(ctx context.Context, orgID, notificationID uuid.UUID) error

	// Complaints
	CreateComplaint(ctx context.Context, orgID uuid.UUID, complaint *models.Complaint) (*models.Complaint, error)
	ListComplaints(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Complaint, error)
	ListCustomerComplaints(ctx context.Context, orgID, customerID uuid.UUID, limit, offset int) ([]*models.Complaint, error)
	ResolveComplaint(ctx context.Context, orgID, complaintID uuid.UUID, resolution string) error
}

type customerService struct {
	customerRepo     repositories.CustomerRepository
	zoneRepo         repositories.ZoneRepository
	complaintRepo    repositories.ComplaintRepository
	notificationRepo repositories.NotificationRepository
	limitsSvc        LimitsService
	authSvc          AuthService
}

func NewCustomerService(
	customerRepo repositories.CustomerRepository,
	zoneRepo repositories.ZoneRepository,
	complaintRepo repositories.ComplaintRepository,
	notificationRepo repositories.NotificationRepository,
	limitsSvc LimitsService,
	authSvc AuthService,
) CustomerService {
	return &customerService{
		customerRepo:     customerRepo,
		zoneRepo:         zoneRepo,
		complaintRepo:    complaintRepo,
		notificationRepo: notificationRepo,
		limitsSvc:        limitsSvc,
		authSvc:          authSvc,
	}
}

func (s *customerService) CreateCustomer(ctx context.Context, orgID uuid.UUID, input *CreateCustomerInput) (*models.Customer, error) {
	if input.Email == "" {
		return nil, common.ValidationError("Email is required")
	}
	if input.FirstName == "" || input.LastName == "" {
		return nil, common.ValidationError("First and last name are required")
	}

	if err := s.limitsSvc.Enforce(ctx, orgID, LimitCustomers); err != nil {
		return nil, err
	}

	// Email is unique inside the organization only.
	if _, err := s.customerRepo.GetByEmail(ctx, orgID, input.Email); err == nil {
		return nil, common.ValidationError("A customer with this email already exists")
	} else if !common.IsKind(err, common.KindNotFound) {
		return nil, err
	}

	if input.ZoneID != nil {
		if _, err := s.zoneRepo.GetByID(ctx, orgID, *input.ZoneID); err != nil {
			return nil, err
		}
	}

	var passwordHash string
	if input.Password != "" {
		hash, err := s.authSvc.HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		passwordHash = hash
	}

	now := time.Now().UTC()
	customer := &models.Customer{
		ID:                uuid.New(),
		OrganizationID:    orgID,
		ZoneID:            input.ZoneID,
		Email:             input.Email,
		PasswordHash:      passwordHash,
		FirstName:         input.FirstName,
		LastName:          input.LastName,
		Phone:             input.Phone,
		Address:           input.Address,
		HouseType:         input.HouseType,
		NumberOfFlats:     input.NumberOfFlats,
		NumberOfOccupants: input.NumberOfOccupants,
		MonthlyFee:        input.MonthlyFee,
		PickupFrequency:   input.PickupFrequency,
		ServiceStartDate:  &now,
		Status:            "active",
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) GetProfile(ctx context.Context, orgID uuid.UUID, email string) (*models.Customer, error) {
	return s.customerRepo.GetByEmail(ctx, orgID, email)
}

func (s *customerService) UpdateProfile(ctx context.Context, orgID uuid.UUID, email string, input *UpdateProfileInput) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByEmail(ctx, orgID, email)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		customer.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		customer.LastName = *input.LastName
	}
	if input.Phone != nil {
		customer.Phone = *input.Phone
	}
	if input.Address != nil {
		customer.Address = *input.Address
	}
	customer.UpdatedAt = time.Now().UTC()

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) GetCustomer(ctx context.Context, orgID, customerID uuid.UUID) (*models.Customer, error) {
	return s.customerRepo.GetByID(ctx, orgID, customerID)
}

func (s *customerService) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	if _, err := s.customerRepo.GetByID(ctx, customer.OrganizationID, customer.ID); err != nil {
		return err
	}
	customer.UpdatedAt = time.Now().UTC()
	return s.customerRepo.Update(ctx, customer)
}

func (s *customerService) DeleteCustomer(ctx context.Context, orgID, customerID uuid.UUID) error {
	if _, err := s.customerRepo.GetByID(ctx, orgID, customerID); err != nil {
		return err
	}
	return s.customerRepo.Delete(ctx, orgID, customerID)
}

func (s *customerService) ListCustomers(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Customer, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.customerRepo.List(ctx, orgID, limit, offset)
}

func (s *customerService) ListCustomersByZone(ctx context.Context, orgID, zoneID uuid.UUID, limit, offset int) ([]*models.Customer, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.customerRepo.ListByZone(ctx, orgID, zoneID, limit, offset)
}

func (s *customerService) ListNotifications(ctx context.Context, orgID, customerID uuid.UUID, limit, offset int) ([]*models.Notification, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.notificationRepo.ListForCustomer(ctx, orgID, customerID, limit, offset)
}

func (s *customerService) MarkNotificationRead(ctx context.Context, orgID, notificationID uuid.UUID) error {
	return s.notificationRepo.MarkRead(ctx, orgID, notificationID)
}

func (s *customerService) CreateComplaint(ctx context.Context, orgID uuid.UUID, complaint *models.Complaint) (*models.Complaint, error) {
	if complaint.Subject == "" || complaint.Description == "" {
		return nil, common.ValidationError("Subject and description are required")
	}

	customer, err := s.customerRepo.GetByID(ctx, orgID, complaint.CustomerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	complaint.ID = uuid.New()
	complaint.OrganizationID = orgID
	if complaint.ZoneID == nil {
		complaint.ZoneID = customer.ZoneID
	}
	if complaint.Priority == "" {
		complaint.Priority = "medium"
	}
	complaint.Status = "open"
	complaint.CreatedAt = now
	complaint.UpdatedAt = now

	if err := s.complaintRepo.Create(ctx, complaint); err != nil {
		return nil, err
	}
	return complaint, nil
}

func (s *customerService) ListComplaints(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Complaint, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.complaintRepo.List(ctx, orgID, limit, offset)
}

func (s *customerService) ListCustomerComplaints(ctx context.Context, orgID, customerID uuid.UUID, limit, offset int) ([]*models.Complaint, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.complaintRepo.ListByCustomer(ctx, orgID, customerID, limit, offset)
}

func (s *customerService) ResolveComplaint(ctx context.Context, orgID, complaintID uuid.UUID, resolution string) error {
	if resolution == "" {
		return common.ValidationError("Resolution is required")
	}
	if _, err := s.complaintRepo.GetByID(ctx, orgID, complaintID); err != nil {
		return err
	}
	return s.complaintRepo.Resolve(ctx, orgID, complaintID, resolution, time.Now().UTC())
}
