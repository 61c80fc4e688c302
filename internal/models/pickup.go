package models

import (
	"time"

	"github.com/google/uuid"
)

// Pickup statuses.
const (
	PickupStatusScheduled = "scheduled"
	PickupStatusCompleted = "completed"
	PickupStatusMissed    = "missed"
	PickupStatusCancelled = "cancelled"
)

// Pickup is a scheduled waste collection for one customer.
type Pickup struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	OrganizationID   uuid.UUID  `json:"organization_id" db:"organization_id"`
	CustomerID       uuid.UUID  `json:"customer_id" db:"customer_id"`
	ZoneID           *uuid.UUID `json:"zone_id" db:"zone_id"`
	ScheduledDate    time.Time  `json:"scheduled_date" db:"scheduled_date"`
	ScheduledTime    string     `json:"scheduled_time" db:"scheduled_time"`
	PickupType       string     `json:"pickup_type" db:"pickup_type"`
	Status           string     `json:"status" db:"status"`
	ActualPickupTime *time.Time `json:"actual_pickup_time" db:"actual_pickup_time"`
	Notes            *string    `json:"notes" db:"notes"`
	CreatedBy        *uuid.UUID `json:"created_by" db:"created_by"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// ValidPickupStatus validates pickup status values.
func ValidPickupStatus(status string) bool {
	switch status {
	case PickupStatusScheduled, PickupStatusCompleted, PickupStatusMissed, PickupStatusCancelled:
		return true
	}
	return false
}
