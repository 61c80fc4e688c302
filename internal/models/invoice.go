package models

import (
	"time"

	"github.com/google/uuid"
)

// Invoice is a customer billing document.
type Invoice struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	OrganizationID uuid.UUID  `json:"organization_id" db:"organization_id"`
	CustomerID     *uuid.UUID `json:"customer_id" db:"customer_id"`
	InvoiceNumber  string     `json:"invoice_number" db:"invoice_number"`
	Amount         float64    `json:"amount" db:"amount"`
	Currency       string     `json:"currency" db:"currency"`
	Description    *string    `json:"description" db:"description"`
	IssueDate      time.Time  `json:"issue_date" db:"issue_date"`
	DueDate        time.Time  `json:"due_date" db:"due_date"`
	PaidDate       *time.Time `json:"paid_date" db:"paid_date"`
	Status         string     `json:"status" db:"status"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}
