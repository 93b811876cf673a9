package domain

import "time"

// Payment represents a payment attached to a registration
type Payment struct {
	ID             string    `json:"id"`
	TenantKey      string    `json:"tenant_key"`
	RegistrationID string    `json:"registration_id"`
	Amount         float64   `json:"amount"`
	Currency       string    `json:"currency"`
	Status         string    `json:"status"` // pending, captured, failed
	TransactionID  string    `json:"transaction_id,omitempty"`
	FailureReason  string    `json:"failure_reason,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Payment statuses
const (
	PaymentStatusPending  = "pending"
	PaymentStatusCaptured = "captured"
	PaymentStatusFailed   = "failed"
)
