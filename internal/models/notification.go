package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is an in-app message for a user or customer.
type Notification struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	OrganizationID uuid.UUID  `json:"organization_id" db:"organization_id"`
	UserID         *uuid.UUID `json:"user_id" db:"user_id"`
	CustomerID     *uuid.UUID `json:"customer_id" db:"customer_id"`
	Title          string     `json:"title" db:"title"`
	Message        string     `json:"message" db:"message"`
	Type           string     `json:"type" db:"type"`
	Priority       string     `json:"priority" db:"priority"`
	IsRead         bool       `json:"is_read" db:"is_read"`
	ReadAt         *time.Time `json:"read_at" db:"read_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// JSONB is a schema-less structured payload, validated only at the boundary.
type JSONB map[string]interface{}
