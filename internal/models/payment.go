package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment statuses.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Payment is a customer payment transaction. Only completed payments count
// toward monthly revenue.
type Payment struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	OrganizationID   uuid.UUID  `json:"organization_id" db:"organization_id"`
	CustomerID       *uuid.UUID `json:"customer_id" db:"customer_id"`
	InvoiceID        *uuid.UUID `json:"invoice_id" db:"invoice_id"`
	Amount           float64    `json:"amount" db:"amount"`
	Currency         string     `json:"currency" db:"currency"`
	PaymentMethod    string     `json:"payment_method" db:"payment_method"`
	PaymentReference *string    `json:"payment_reference" db:"payment_reference"`
	Status           string     `json:"status" db:"status"`
	ProcessedAt      *time.Time `json:"processed_at" db:"processed_at"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// ValidPaymentStatus validates payment status values.
func ValidPaymentStatus(status string) bool {
	switch status {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed:
		return true
	}
	return false
}
