package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/domain"
)

// PostgresSettingsRepository implements SettingsRepository using PostgreSQL
type PostgresSettingsRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSettingsRepository creates a new PostgresSettingsRepository
func NewPostgresSettingsRepository(pool *pgxpool.Pool) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{pool: pool}
}

// GetByTenantKey retrieves the settings record for an exact tenant key
func (r *PostgresSettingsRepository) GetByTenantKey(ctx context.Context, tenantKey string) (*domain.WidgetSettings, error) {
	query := `
		SELECT id, tenant_key, COALESCE(instance_id, '') as instance_id, COALESCE(comp_id, '') as comp_id,
		       tier, COALESCE(layout, '{}'::jsonb) as layout, COALESCE(appearance, '{}'::jsonb) as appearance,
		       COALESCE(calendar, '{}'::jsonb) as calendar, COALESCE(behavior, '{}'::jsonb) as behavior,
		       created_at, updated_at
		FROM widget_settings
		WHERE tenant_key = $1
	`
	settings := &domain.WidgetSettings{}
	err := r.pool.QueryRow(ctx, query, tenantKey).Scan(
		&settings.ID,
		&settings.TenantKey,
		&settings.InstanceID,
		&settings.CompID,
		&settings.Tier,
		&settings.Layout,
		&settings.Appearance,
		&settings.Calendar,
		&settings.Behavior,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return settings, nil
}

// FindTierByInstanceID returns the tier of the most recently created
// record for the instance, or "" when the instance has none
func (r *PostgresSettingsRepository) FindTierByInstanceID(ctx context.Context, instanceID string) (string, error) {
	query := `
		SELECT tier
		FROM widget_settings
		WHERE instance_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	var tier string
	err := r.pool.QueryRow(ctx, query, instanceID).Scan(&tier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return tier, nil
}

// CreateIfAbsent inserts the record unless one already exists for its
// tenant key. Concurrent first requests for the same key converge on a
// single row; losers are a no-op.
func (r *PostgresSettingsRepository) CreateIfAbsent(ctx context.Context, settings *domain.WidgetSettings) error {
	query := `
		INSERT INTO widget_settings (id, tenant_key, instance_id, comp_id, tier, layout, appearance, calendar, behavior, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (tenant_key) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query,
		settings.ID,
		settings.TenantKey,
		nullStringOrValue(settings.InstanceID),
		nullStringOrValue(settings.CompID),
		settings.Tier,
		settings.Layout,
		settings.Appearance,
		settings.Calendar,
		settings.Behavior,
		settings.CreatedAt,
		settings.UpdatedAt,
	)
	return err
}

// Upsert writes the record, creating it when the tenant key is new
func (r *PostgresSettingsRepository) Upsert(ctx context.Context, settings *domain.WidgetSettings) error {
	query := `
		INSERT INTO widget_settings (id, tenant_key, instance_id, comp_id, tier, layout, appearance, calendar, behavior, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (tenant_key) DO UPDATE
		SET instance_id = COALESCE(widget_settings.instance_id, EXCLUDED.instance_id),
		    comp_id = COALESCE(widget_settings.comp_id, EXCLUDED.comp_id),
		    tier = EXCLUDED.tier,
		    layout = EXCLUDED.layout,
		    appearance = EXCLUDED.appearance,
		    calendar = EXCLUDED.calendar,
		    behavior = EXCLUDED.behavior,
		    updated_at = EXCLUDED.updated_at
	`
	_, err := r.pool.Exec(ctx, query,
		settings.ID,
		settings.TenantKey,
		nullStringOrValue(settings.InstanceID),
		nullStringOrValue(settings.CompID),
		settings.Tier,
		settings.Layout,
		settings.Appearance,
		settings.Calendar,
		settings.Behavior,
		settings.CreatedAt,
		settings.UpdatedAt,
	)
	return err
}
