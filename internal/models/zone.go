package models

import (
	"time"

	"github.com/google/uuid"
)

// Zone is a geographic service area assigned to a regional manager.
type Zone struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	OrganizationID    uuid.UUID  `json:"organization_id" db:"organization_id"`
	Name              string     `json:"name" db:"name"`
	Description       *string    `json:"description" db:"description"`
	CenterLat         *float64   `json:"center_lat" db:"center_lat"`
	CenterLng         *float64   `json:"center_lng" db:"center_lng"`
	RegionalManagerID *uuid.UUID `json:"regional_manager_id" db:"regional_manager_id"`
	IsActive          bool       `json:"is_active" db:"is_active"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}
