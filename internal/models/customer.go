package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is an end user of a waste-management organization.
type Customer struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	OrganizationID    uuid.UUID  `json:"organization_id" db:"organization_id"`
	ZoneID            *uuid.UUID `json:"zone_id" db:"zone_id"`
	Email             string     `json:"email" db:"email"`
	PasswordHash      string     `json:"-" db:"password_hash"`
	FirstName         string     `json:"first_name" db:"first_name"`
	LastName          string     `json:"last_name" db:"last_name"`
	Phone             string     `json:"phone" db:"phone"`
	Address           string     `json:"address" db:"address"`
	HouseType         *string    `json:"house_type" db:"house_type"`
	NumberOfFlats     int        `json:"number_of_flats" db:"number_of_flats"`
	NumberOfOccupants int        `json:"number_of_occupants" db:"number_of_occupants"`
	MonthlyFee        float64    `json:"monthly_fee" db:"monthly_fee"`
	PickupFrequency   string     `json:"pickup_frequency" db:"pickup_frequency"`
	ServiceStartDate  *time.Time `json:"service_start_date" db:"service_start_date"`
	ServiceEndDate    *time.Time `json:"service_end_date" db:"service_end_date"`
	Status            string     `json:"status" db:"status"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}
