package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization statuses.
const (
	OrgStatusTrial     = "trial"
	OrgStatusActive    = "active"
	OrgStatusSuspended = "suspended"
)

// Organization is the tenant boundary. Every customer-facing row carries its ID.
type Organization struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Slug            string    `json:"slug" db:"slug"`
	Phone           *string   `json:"phone" db:"phone"`
	Email           *string   `json:"email" db:"email"`
	Address         *string   `json:"address" db:"address"`
	Website         *string   `json:"website" db:"website"`
	LogoURL         *string   `json:"logo_url" db:"logo_url"`
	PrimaryColor    string    `json:"primary_color" db:"primary_color"`
	SecondaryColor  string    `json:"secondary_color" db:"secondary_color"`
	EnabledFeatures JSONB     `json:"enabled_features" db:"enabled_features"`
	Status          string    `json:"status" db:"status"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Billable reports whether tenant-scoped creation is allowed for this status.
func (o *Organization) Billable() bool {
	return o.Status == OrgStatusActive || o.Status == OrgStatusTrial
}
