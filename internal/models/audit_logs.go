package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditRetention is how long audit entries are kept before the cleanup sweep
// removes them.
const AuditRetention = 90 * 24 * time.Hour

// AuditLog is one immutable record of a state-changing action. Entries are
// append-only; only the retention sweep deletes them.
type AuditLog struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	OrganizationID uuid.UUID  `json:"organization_id" db:"organization_id"`
	UserID         *uuid.UUID `json:"user_id" db:"user_id"`
	Action         string     `json:"action" db:"action"`
	ResourceType   string     `json:"resource_type" db:"resource_type"`
	ResourceID     *string    `json:"resource_id" db:"resource_id"`
	OldValues      JSONB      `json:"old_values" db:"old_values"`
	NewValues      JSONB      `json:"new_values" db:"new_values"`
	IPAddress      *string    `json:"ip_address" db:"ip_address"`
	UserAgent      *string    `json:"user_agent" db:"user_agent"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// AuditLogFilters represents filters for querying audit logs.
type AuditLogFilters struct {
	Action       *string    `json:"action"`
	ResourceType *string    `json:"resource_type"`
	ResourceID   *string    `json:"resource_id"`
	UserID       *uuid.UUID `json:"user_id"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	Limit        int        `json:"limit"`
	Offset       int        `json:"offset"`
}

// AuditLogSummary represents aggregated audit statistics for one organization.
type AuditLogSummary struct {
	OrganizationID    uuid.UUID      `json:"organization_id"`
	TotalLogs         int            `json:"total_logs"`
	ActionBreakdown   map[string]int `json:"action_breakdown"`
	ResourceBreakdown map[string]int `json:"resource_breakdown"`
	UserActivity      map[string]int `json:"user_activity"`
	PeriodStart       time.Time      `json:"period_start"`
	PeriodEnd         time.Time      `json:"period_end"`
}
