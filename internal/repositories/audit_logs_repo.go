package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"wasteflow/internal/common"
	"wasteflow/internal/models"
)

type AuditLogsRepository interface {
	// Create appends a new entry. There is no update path; the table is
	// append-only.
	Create(ctx context.Context, auditLog *models.AuditLog) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.AuditLog, error)
	List(ctx context.Context, orgID uuid.UUID, filters *models.AuditLogFilters) ([]*models.AuditLog, error)
	// ListAll queries across organizations. Super-admin surface only.
	ListAll(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error)
	GetByUser(ctx context.Context, orgID, userID uuid.UUID, limit, offset int) ([]*models.AuditLog, error)
	GetSummary(ctx context.Context, orgID uuid.UUID, startDate, endDate time.Time) (*models.AuditLogSummary, error)
	// DeleteOlderThan removes entries created before the cutoff, across all
	// organizations. Returns the number of rows removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type auditLogsRepo struct {
	db DB
}

func NewAuditLogsRepo(db DB) AuditLogsRepository {
	return &auditLogsRepo{db: db}
}

const auditLogColumns = `id, organization_id, user_id, action, resource_type, resource_id, old_values, new_values, ip_address, user_agent, created_at`

func (r *auditLogsRepo) Create(ctx context.Context, auditLog *models.AuditLog) error {
	if auditLog.ID == uuid.Nil {
		auditLog.ID = uuid.New()
	}
	if auditLog.CreatedAt.IsZero() {
		auditLog.CreatedAt = time.Now().UTC()
	}

	oldValues, err := marshalJSONB(auditLog.OldValues)
	if err != nil {
		return fmt.Errorf("failed to marshal old_values: %w", err)
	}
	newValues, err := marshalJSONB(auditLog.NewValues)
	if err != nil {
		return fmt.Errorf("failed to marshal new_values: %w", err)
	}

	query := `
		INSERT INTO audit_logs (id, organization_id, user_id, action, resource_type, resource_id, old_values, new_values, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = r.db.Exec(ctx, query, auditLog.ID, auditLog.OrganizationID, auditLog.UserID, auditLog.Action, auditLog.ResourceType, auditLog.ResourceID, oldValues, newValues, auditLog.IPAddress, auditLog.UserAgent, auditLog.CreatedAt)
	return err
}

func (r *auditLogsRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.AuditLog, error) {
	query := `SELECT ` + auditLogColumns + ` FROM audit_logs WHERE organization_id = $1 AND id = $2`
	return r.scanOne(r.db.QueryRow(ctx, query, orgID, id))
}

func (r *auditLogsRepo) scanOne(row pgx.Row) (*models.AuditLog, error) {
	auditLog := &models.AuditLog{}
	var oldValues, newValues []byte
	err := row.Scan(&auditLog.ID, &auditLog.OrganizationID, &auditLog.UserID, &auditLog.Action, &auditLog.ResourceType, &auditLog.ResourceID, &oldValues, &newValues, &auditLog.IPAddress, &auditLog.UserAgent, &auditLog.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound("Audit log")
	}
	if err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(oldValues, &auditLog.OldValues); err != nil {
		return nil, fmt.Errorf("failed to unmarshal old_values: %w", err)
	}
	if err := unmarshalJSONB(newValues, &auditLog.NewValues); err != nil {
		return nil, fmt.Errorf("failed to unmarshal new_values: %w", err)
	}
	return auditLog, nil
}

func (r *auditLogsRepo) List(ctx context.Context, orgID uuid.UUID, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	conditions := []string{"organization_id = $1"}
	args := []any{orgID}
	return r.filtered(ctx, conditions, args, filters)
}

func (r *auditLogsRepo) ListAll(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	return r.filtered(ctx, nil, nil, filters)
}

func (r *auditLogsRepo) filtered(ctx context.Context, conditions []string, args []any, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	if filters == nil {
		filters = &models.AuditLogFilters{Limit: 50}
	}

	next := len(args) + 1
	arg := func(v any) string {
		args = append(args, v)
		placeholder := "$" + strconv.Itoa(next)
		next++
		return placeholder
	}

	if filters.Action != nil {
		conditions = append(conditions, "action = "+arg(*filters.Action))
	}
	if filters.ResourceType != nil {
		conditions = append(conditions, "resource_type = "+arg(*filters.ResourceType))
	}
	if filters.ResourceID != nil {
		conditions = append(conditions, "resource_id = "+arg(*filters.ResourceID))
	}
	if filters.UserID != nil {
		conditions = append(conditions, "user_id = "+arg(*filters.UserID))
	}
	if filters.StartDate != nil {
		conditions = append(conditions, "created_at >= "+arg(*filters.StartDate))
	}
	if filters.EndDate != nil {
		conditions = append(conditions, "created_at <= "+arg(*filters.EndDate))
	}

	query := `SELECT ` + auditLogColumns + ` FROM audit_logs`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT " + arg(filters.Limit) + " OFFSET " + arg(filters.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.AuditLog
	for rows.Next() {
		auditLog := &models.AuditLog{}
		var oldValues, newValues []byte
		if err := rows.Scan(&auditLog.ID, &auditLog.OrganizationID, &auditLog.UserID, &auditLog.Action, &auditLog.ResourceType, &auditLog.ResourceID, &oldValues, &newValues, &auditLog.IPAddress, &auditLog.UserAgent, &auditLog.CreatedAt); err != nil {
			return nil, err
		}
		if err := unmarshalJSONB(oldValues, &auditLog.OldValues); err != nil {
			return nil, err
		}
		if err := unmarshalJSONB(newValues, &auditLog.NewValues); err != nil {
			return nil, err
		}
		logs = append(logs, auditLog)
	}
	return logs, rows.Err()
}

func (r *auditLogsRepo) GetByUser(ctx context.Context, orgID, userID uuid.UUID, limit, offset int) ([]*models.AuditLog, error) {
	return r.List(ctx, orgID, &models.AuditLogFilters{UserID: &userID, Limit: limit, Offset: offset})
}

func (r *auditLogsRepo) GetSummary(ctx context.Context, orgID uuid.UUID, startDate, endDate time.Time) (*models.AuditLogSummary, error) {
	summary := &models.AuditLogSummary{
		OrganizationID:    orgID,
		ActionBreakdown:   make(map[string]int),
		ResourceBreakdown: make(map[string]int),
		UserActivity:      make(map[string]int),
		PeriodStart:       startDate,
		PeriodEnd:         endDate,
	}

	query := `
		SELECT action, resource_type, user_id, COUNT(*)
		FROM audit_logs
		WHERE organization_id = $1 AND created_at >= $2 AND created_at <= $3
		GROUP BY action, resource_type, user_id
	`
	rows, err := r.db.Query(ctx, query, orgID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var action, resourceType string
		var userID *uuid.UUID
		var count int
		if err := rows.Scan(&action, &resourceType, &userID, &count); err != nil {
			return nil, err
		}
		summary.TotalLogs += count
		summary.ActionBreakdown[action] += count
		summary.ResourceBreakdown[resourceType] += count
		if userID != nil {
			summary.UserActivity[userID.String()] += count
		}
	}
	return summary, rows.Err()
}

func (r *auditLogsRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM audit_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
