package repository

import (
	"context"

	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/domain"
)

// PlanRepository defines the interface for yoga plan data access
type PlanRepository interface {
	// Create creates a new plan
	Create(ctx context.Context, plan *domain.Plan) error
	// GetByID retrieves a plan by ID within a tenant. Returns
	// (nil, nil) when no plan exists.
	GetByID(ctx context.Context, tenantKey, id string) (*domain.Plan, error)
	// ListByTenantKey retrieves all plans for a tenant, newest first
	ListByTenantKey(ctx context.Context, tenantKey string) ([]*domain.Plan, error)
	// CountByTenantKey counts plans owned by a tenant
	CountByTenantKey(ctx context.Context, tenantKey string) (int, error)
	// Update updates a plan
	Update(ctx context.Context, plan *domain.Plan) error
	// Delete deletes a plan
	Delete(ctx context.Context, tenantKey, id string) error
}
