package repository

import (
	"context"
	"time"

	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/domain"
)

// EventFilter narrows event listings to a time window
type EventFilter struct {
	From  *time.Time
	To    *time.Time
	Limit int
}

// EventRepository defines the interface for class event data access
type EventRepository interface {
	// Create creates a new event
	Create(ctx context.Context, event *domain.Event) error
	// GetByID retrieves an event by ID within a tenant. Returns
	// (nil, nil) when no event exists.
	GetByID(ctx context.Context, tenantKey, id string) (*domain.Event, error)
	// ListByTenantKeys retrieves events for any of the given tenant
	// keys, ordered by start time. Callers pass the widget key plus
	// its site-key fallback.
	ListByTenantKeys(ctx context.Context, tenantKeys []string, filter EventFilter) ([]*domain.Event, error)
	// Update updates an event
	Update(ctx context.Context, event *domain.Event) error
	// SoftDelete soft deletes an event
	SoftDelete(ctx context.Context, tenantKey, id string) error
}
