package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"wasteflow/internal/common"
	"wasteflow/internal/models"
	"wasteflow/internal/repositories"
)

const logoBucket = "wasteflow-branding"

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// RegisterManagerInput is the self-service signup payload: a new
// organization plus its first business manager, started on a trial.
type RegisterManagerInput struct {
	OrganizationName string
	Email            string
	Password         string
	FirstName        string
	LastName         string
	Phone            *string
	TierID           int
}

// OrganizationService owns tenant lifecycle: signup, branding, features,
// and the super-admin suspend/activate controls.
type OrganizationService interface {
	// RegisterManager provisions a new organization, its first business
	// manager, and a trial subscription in one operation.
	RegisterManager(ctx context.Context, input *RegisterManagerInput) (*models.Organization, *models.User, error)
	GetOrganization(ctx context.Context, orgID uuid.UUID) (*models.Organization, error)
	UpdateOrganization(ctx context.Context, org *models.Organization) error
	UpdateFeatures(ctx context.Context, orgID uuid.UUID, features models.JSONB) error
	// UploadLogo stores the logo in object storage and records its URL.
	UploadLogo(ctx context.Context, orgID uuid.UUID, filename, contentType string, reader io.Reader, size int64) (string, error)

	// Super-admin controls.
	ListOrganizations(ctx context.Context, limit, offset int) ([]*models.Organization, error)
	SuspendOrganization(ctx context.Context, orgID uuid.UUID) error
	ActivateOrganization(ctx context.Context, orgID uuid.UUID) error

	// PlatformStats aggregates counts across all tenants.
	PlatformStats(ctx context.Context) (models.JSONB, error)
}

type organizationService struct {
	orgRepo  repositories.OrganizationRepository
	userRepo repositories.UserRepository
	subSvc   SubscriptionService
	authSvc  AuthService
	minioSvc MinioService
}

func NewOrganizationService(
	orgRepo repositories.OrganizationRepository,
	userRepo repositories.UserRepository,
	subSvc SubscriptionService,
	authSvc AuthService,
	minioSvc MinioService,
) OrganizationService {
	return &organizationService{
		orgRepo:  orgRepo,
		userRepo: userRepo,
		subSvc:   subSvc,
		authSvc:  authSvc,
		minioSvc: minioSvc,
	}
}

// slugify derives a URL-safe slug from the organization name.
func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func (s *organizationService) RegisterManager(ctx context.Context, input *RegisterManagerInput) (*models.Organization, *models.User, error) {
	if input.OrganizationName == "" {
		return nil, nil, common.ValidationError("Organization name is required")
	}
	if input.Email == "" || input.Password == "" {
		return nil, nil, common.ValidationError("Email and password are required")
	}
	if len(input.Password) < 8 {
		return nil, nil, common.ValidationError("Password must be at least 8 characters")
	}

	slug := slugify(input.OrganizationName)
	if _, err := s.orgRepo.GetBySlug(ctx, slug); err == nil {
		return nil, nil, common.ValidationError("An organization with this name already exists")
	} else if !common.IsKind(err, common.KindNotFound) {
		return nil, nil, err
	}

	now := time.Now().UTC()
	org := &models.Organization{
		ID:             uuid.New(),
		Name:           input.OrganizationName,
		Slug:           slug,
		PrimaryColor:   "#2E7D32",
		SecondaryColor: "#66BB6A",
		Status:         models.OrgStatusTrial,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.orgRepo.Create(ctx, org); err != nil {
		return nil, nil, err
	}

	passwordHash, err := s.authSvc.HashPassword(input.Password)
	if err != nil {
		return nil, nil, err
	}

	orgID := org.ID
	user := &models.User{
		ID:             uuid.New(),
		OrganizationID: &orgID,
		Email:          input.Email,
		PasswordHash:   passwordHash,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Phone:          input.Phone,
		Role:           models.RoleBusinessManager,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	if _, err := s.subSvc.StartTrial(ctx, org.ID, input.TierID); err != nil {
		return nil, nil, err
	}
	return org, user, nil
}

func (s *organizationService) GetOrganization(ctx context.Context, orgID uuid.UUID) (*models.Organization, error) {
	return s.orgRepo.GetByID(ctx, orgID)
}

func (s *organizationService) UpdateOrganization(ctx context.Context, org *models.Organization) error {
	if org.Name == "" {
		return common.ValidationError("Organization name is required")
	}
	org.UpdatedAt = time.Now().UTC()
	return s.orgRepo.Update(ctx, org)
}

func (s *organizationService) UpdateFeatures(ctx context.Context, orgID uuid.UUID, features models.JSONB) error {
	if _, err := s.orgRepo.GetByID(ctx, orgID); err != nil {
		return err
	}
	return s.orgRepo.UpdateFeatures(ctx, orgID, features)
}

func (s *organizationService) UploadLogo(ctx context.Context, orgID uuid.UUID, filename, contentType string, reader io.Reader, size int64) (string, error) {
	if s.minioSvc == nil {
		return "", common.ValidationError("Object storage is not configured")
	}
	if _, err := s.orgRepo.GetByID(ctx, orgID); err != nil {
		return "", err
	}

	if err := s.minioSvc.EnsureBucketExists(ctx, logoBucket); err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("logos/%s/%s", orgID.String(), filename)
	if err := s.minioSvc.UploadObject(ctx, logoBucket, objectName, contentType, reader, size); err != nil {
		return "", err
	}

	url, err := s.minioSvc.GetPresignedURL(logoBucket, objectName, 7*24*time.Hour)
	if err != nil {
		return "", err
	}
	if err := s.orgRepo.UpdateLogoURL(ctx, orgID, url); err != nil {
		return "", err
	}
	return url, nil
}

func (s *organizationService) ListOrganizations(ctx context.Context, limit, offset int) ([]*models.Organization, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.orgRepo.List(ctx, limit, offset)
}

func (s *organizationService) SuspendOrganization(ctx context.Context, orgID uuid.UUID) error {
	if _, err := s.orgRepo.GetByID(ctx, orgID); err != nil {
		return err
	}
	log.Printf("Suspending organization %s", orgID)
	return s.orgRepo.UpdateStatus(ctx, orgID, models.OrgStatusSuspended)
}

func (s *organizationService) ActivateOrganization(ctx context.Context, orgID uuid.UUID) error {
	if _, err := s.orgRepo.GetByID(ctx, orgID); err != nil {
		return err
	}
	log.Printf("Activating organization %s", orgID)
	return s.orgRepo.UpdateStatus(ctx, orgID, models.OrgStatusActive)
}

func (s *organizationService) PlatformStats(ctx context.Context) (models.JSONB, error) {
	totalOrgs, err := s.orgRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	activeOrgs, err := s.orgRepo.CountByStatus(ctx, models.OrgStatusActive)
	if err != nil {
		return nil, err
	}
	trialOrgs, err := s.orgRepo.CountByStatus(ctx, models.OrgStatusTrial)
	if err != nil {
		return nil, err
	}
	suspendedOrgs, err := s.orgRepo.CountByStatus(ctx, models.OrgStatusSuspended)
	if err != nil {
		return nil, err
	}
	totalUsers, err := s.userRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	return models.JSONB{
		"total_organizations":     totalOrgs,
		"active_organizations":    activeOrgs,
		"trial_organizations":     trialOrgs,
		"suspended_organizations": suspendedOrgs,
		"total_users":             totalUsers,
	}, nil
}
