package repository

import (
	"context"
	"time"

	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/domain"
)

// RegistrationRepository defines the interface for registration data access
type RegistrationRepository interface {
	// Create creates a new registration
	Create(ctx context.Context, registration *domain.Registration) error
	// GetByID retrieves a registration by ID within a tenant. Returns
	// (nil, nil) when no registration exists.
	GetByID(ctx context.Context, tenantKey, id string) (*domain.Registration, error)
	// ListByEventID retrieves registrations for an event, oldest first
	ListByEventID(ctx context.Context, tenantKey, eventID string) ([]*domain.Registration, error)
	// CountActiveByEventID counts non-cancelled registrations for an event
	CountActiveByEventID(ctx context.Context, tenantKey, eventID string) (int, error)
	// ExistsActiveByEmail reports whether the email already holds an
	// active registration for the event
	ExistsActiveByEmail(ctx context.Context, tenantKey, eventID, email string) (bool, error)
	// UpdateStatus transitions a registration to a new status
	UpdateStatus(ctx context.Context, tenantKey, id, status string) error
	// ExpirePending cancels pending registrations created before the
	// cutoff, up to limit rows, and returns the cancelled records
	ExpirePending(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Registration, error)
}
