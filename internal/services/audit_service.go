package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"wasteflow/internal/common"
	"wasteflow/internal/models"
	"wasteflow/internal/repositories"
)

// AuditEvent describes one completed state-changing operation. Actor fields
// come from the request identity; request fields from the HTTP layer.
type AuditEvent struct {
	Actor        *common.Identity
	Action       string
	ResourceType string
	ResourceID   *string
	OldValues    models.JSONB
	NewValues    models.JSONB
	IPAddress    *string
	UserAgent    *string
}

// AuditService records completed operations and serves the audit query
// surface. Recording never fails the operation it describes: entries for
// unattributable actors are skipped, and write errors are logged and
// swallowed.
type AuditService interface {
	// Record writes one entry after the operation it describes has run.
	// If the actor has no organization the entry is skipped.
	Record(ctx context.Context, event *AuditEvent)
	// RecordError writes a failure entry with the "_error" action suffix.
	RecordError(ctx context.Context, event *AuditEvent, opErr error)

	GetAuditLog(ctx context.Context, orgID, auditLogID uuid.UUID) (*models.AuditLog, error)
	ListAuditLogs(ctx context.Context, orgID uuid.UUID, filters *models.AuditLogFilters) ([]*models.AuditLog, error)
	ListAllAuditLogs(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error)
	GetUserActivity(ctx context.Context, orgID, userID uuid.UUID, limit, offset int) ([]*models.AuditLog, error)
	GetAuditSummary(ctx context.Context, orgID uuid.UUID, startDate, endDate time.Time) (*models.AuditLogSummary, error)

	// CleanupExpired deletes entries older than the retention window.
	CleanupExpired(ctx context.Context) (int64, error)
}

type auditService struct {
	auditLogsRepo repositories.AuditLogsRepository
	now           func() time.Time
}

func NewAuditService(auditLogsRepo repositories.AuditLogsRepository) AuditService {
	return &auditService{
		auditLogsRepo: auditLogsRepo,
		now:           time.Now,
	}
}

func (s *auditService) Record(ctx context.Context, event *AuditEvent) {
	s.write(ctx, event, event.Action, event.NewValues)
}

func (s *auditService) RecordError(ctx context.Context, event *AuditEvent, opErr error) {
	values := models.JSONB{}
	for k, v := range event.NewValues {
		values[k] = v
	}
	if opErr != nil {
		values["error"] = opErr.Error()
	}
	s.write(ctx, event, event.Action+"_error", values)
}

func (s *auditService) write(ctx context.Context, event *AuditEvent, action string, newValues models.JSONB) {
	if event.Actor == nil || event.Actor.OrganizationID == nil {
		// Nothing to attribute the entry to. The operation itself already
		// ran; skip the record rather than block.
		return
	}

	userID := event.Actor.UserID
	entry := &models.AuditLog{
		ID:             uuid.New(),
		OrganizationID: *event.Actor.OrganizationID,
		UserID:         &userID,
		Action:         action,
		ResourceType:   event.ResourceType,
		ResourceID:     event.ResourceID,
		OldValues:      event.OldValues,
		NewValues:      newValues,
		IPAddress:      event.IPAddress,
		UserAgent:      event.UserAgent,
		CreatedAt:      s.now().UTC(),
	}

	if err := s.auditLogsRepo.Create(ctx, entry); err != nil {
		log.Printf("Failed to record audit entry %s on %s: %v", action, event.ResourceType, err)
	}
}

func (s *auditService) GetAuditLog(ctx context.Context, orgID, auditLogID uuid.UUID) (*models.AuditLog, error) {
	return s.auditLogsRepo.GetByID(ctx, orgID, auditLogID)
}

func (s *auditService) ListAuditLogs(ctx context.Context, orgID uuid.UUID, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	if filters == nil {
		filters = &models.AuditLogFilters{Limit: 50}
	}
	filters.Limit, filters.Offset = common.ValidatePaginationParams(filters.Limit, filters.Offset)
	return s.auditLogsRepo.List(ctx, orgID, filters)
}

func (s *auditService) ListAllAuditLogs(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	if filters == nil {
		filters = &models.AuditLogFilters{Limit: 50}
	}
	filters.Limit, filters.Offset = common.ValidatePaginationParams(filters.Limit, filters.Offset)
	return s.auditLogsRepo.ListAll(ctx, filters)
}

func (s *auditService) GetUserActivity(ctx context.Context, orgID, userID uuid.UUID, limit, offset int) ([]*models.AuditLog, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.auditLogsRepo.GetByUser(ctx, orgID, userID, limit, offset)
}

func (s *auditService) GetAuditSummary(ctx context.Context, orgID uuid.UUID, startDate, endDate time.Time) (*models.AuditLogSummary, error) {
	if startDate.After(endDate) {
		return nil, errors.New("start_date cannot be after end_date")
	}
	if endDate.Sub(startDate) > 365*24*time.Hour {
		return nil, errors.New("date range cannot exceed 1 year for summary queries")
	}
	return s.auditLogsRepo.GetSummary(ctx, orgID, startDate, endDate)
}

func (s *auditService) CleanupExpired(ctx context.Context) (int64, error) {
	cutoff := s.now().UTC().Add(-models.AuditRetention)
	return s.auditLogsRepo.DeleteOlderThan(ctx, cutoff)
}
