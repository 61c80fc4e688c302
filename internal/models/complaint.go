package models

import (
	"time"

	"github.com/google/uuid"
)

// Complaint is a customer support ticket tied to a zone.
type Complaint struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	OrganizationID uuid.UUID  `json:"organization_id" db:"organization_id"`
	CustomerID     uuid.UUID  `json:"customer_id" db:"customer_id"`
	ZoneID         *uuid.UUID `json:"zone_id" db:"zone_id"`
	Subject        string     `json:"subject" db:"subject"`
	Description    string     `json:"description" db:"description"`
	Category       string     `json:"category" db:"category"`
	Priority       string     `json:"priority" db:"priority"`
	Status         string     `json:"status" db:"status"`
	Resolution     *string    `json:"resolution" db:"resolution"`
	AssignedTo     *uuid.UUID `json:"assigned_to" db:"assigned_to"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
	ResolvedAt     *time.Time `json:"resolved_at" db:"resolved_at"`
}
