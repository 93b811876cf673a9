package repository

import (
	"context"

	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/domain"
)

// PaymentRepository defines the interface for payment data access
type PaymentRepository interface {
	// Create creates a new payment
	Create(ctx context.Context, payment *domain.Payment) error
	// GetByID retrieves a payment by ID within a tenant. Returns
	// (nil, nil) when no payment exists.
	GetByID(ctx context.Context, tenantKey, id string) (*domain.Payment, error)
	// GetByRegistrationID retrieves the payment attached to a
	// registration. Returns (nil, nil) when none exists.
	GetByRegistrationID(ctx context.Context, tenantKey, registrationID string) (*domain.Payment, error)
	// Update updates a payment's status fields
	Update(ctx context.Context, payment *domain.Payment) error
}
