package repository

import (
	"context"

	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/domain"
)

// SettingsRepository defines the interface for widget settings data access
type SettingsRepository interface {
	// GetByTenantKey retrieves the settings record for an exact tenant key.
	// Returns (nil, nil) when no record exists.
	GetByTenantKey(ctx context.Context, tenantKey string) (*domain.WidgetSettings, error)
	// FindTierByInstanceID returns the entitlement tier of any existing
	// record belonging to the instance, or "" when the instance has none
	FindTierByInstanceID(ctx context.Context, instanceID string) (string, error)
	// CreateIfAbsent inserts the record unless one already exists for its
	// tenant key. Safe to call concurrently for the same key.
	CreateIfAbsent(ctx context.Context, settings *domain.WidgetSettings) error
	// Upsert writes the record, creating it when the tenant key is new
	Upsert(ctx context.Context, settings *domain.WidgetSettings) error
}
