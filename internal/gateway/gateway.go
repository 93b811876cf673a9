package gateway

import (
	"context"
)

// PaymentGateway defines the seam for payment processing. The widget
// backend only needs authorize-then-capture; settlement, refunds and
// webhooks belong to the provider integration, not here.
type PaymentGateway interface {
	// Charge authorizes a charge and returns a provider transaction id
	Charge(ctx context.Context, req *ChargeRequest) (*ChargeResponse, error)

	// Capture captures a previously authorized charge
	Capture(ctx context.Context, transactionID string) (*ChargeResponse, error)

	// GetTransaction retrieves transaction details
	GetTransaction(ctx context.Context, transactionID string) (*TransactionInfo, error)

	// Name returns the gateway name
	Name() string
}

// ChargeRequest represents a charge request
type ChargeRequest struct {
	PaymentID   string
	Amount      float64
	Currency    string
	Description string
	CardToken   string
	Metadata    map[string]string
}

// ChargeResponse represents a charge response
type ChargeResponse struct {
	Success       bool
	TransactionID string
	Status        string
	FailureReason string
}

// TransactionInfo represents transaction details
type TransactionInfo struct {
	TransactionID string
	Status        string
	Amount        float64
	Currency      string
	CreatedAt     string
}

// Transaction statuses
const (
	StatusAuthorized = "authorized"
	StatusCaptured   = "captured"
	StatusFailed     = "failed"
)
