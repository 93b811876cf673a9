package dto

import (
	"time"

	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/domain"
)

// CreatePaymentRequest represents a request to create a payment for a
// registration
type CreatePaymentRequest struct {
	RegistrationID string  `json:"registration_id" binding:"required"`
	Amount         float64 `json:"amount" binding:"required,gt=0"`
	Currency       string  `json:"currency" binding:"omitempty,len=3"`
}

// CapturePaymentRequest represents a request to capture a pending payment
type CapturePaymentRequest struct {
	CardToken string `json:"card_token" binding:"omitempty"`
}

// PaymentResponse represents a payment in a response
type PaymentResponse struct {
	ID             string    `json:"id"`
	RegistrationID string    `json:"registration_id"`
	Amount         float64   `json:"amount"`
	Currency       string    `json:"currency"`
	Status         string    `json:"status"`
	TransactionID  string    `json:"transaction_id,omitempty"`
	FailureReason  string    `json:"failure_reason,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FromPayment converts a domain Payment to PaymentResponse
func FromPayment(p *domain.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:             p.ID,
		RegistrationID: p.RegistrationID,
		Amount:         p.Amount,
		Currency:       p.Currency,
		Status:         p.Status,
		TransactionID:  p.TransactionID,
		FailureReason:  p.FailureReason,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// PaymentListResponse represents a list of payments
type PaymentListResponse struct {
	Payments []*PaymentResponse `json:"payments"`
	Total    int                `json:"total"`
}
