package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/domain"
)

// PostgresEventRepository implements EventRepository using PostgreSQL
type PostgresEventRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresEventRepository creates a new PostgresEventRepository
func NewPostgresEventRepository(pool *pgxpool.Pool) *PostgresEventRepository {
	return &PostgresEventRepository{pool: pool}
}

const eventColumns = `id, tenant_key, COALESCE(instance_id, '') as instance_id, COALESCE(comp_id, '') as comp_id,
       title, COALESCE(description, '') as description, COALESCE(location, '') as location,
       COALESCE(instructor, '') as instructor, start_at, end_at, COALESCE(recurrence, 'none') as recurrence,
       capacity, created_at, updated_at, deleted_at`

func scanEvent(row pgx.Row) (*domain.Event, error) {
	event := &domain.Event{}
	err := row.Scan(
		&event.ID,
		&event.TenantKey,
		&event.InstanceID,
		&event.CompID,
		&event.Title,
		&event.Description,
		&event.Location,
		&event.Instructor,
		&event.StartAt,
		&event.EndAt,
		&event.Recurrence,
		&event.Capacity,
		&event.CreatedAt,
		&event.UpdatedAt,
		&event.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return event, nil
}

// Create creates a new event
func (r *PostgresEventRepository) Create(ctx context.Context, event *domain.Event) error {
	query := `
		INSERT INTO events (id, tenant_key, instance_id, comp_id, title, description, location, instructor,
		                    start_at, end_at, recurrence, capacity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.TenantKey,
		nullStringOrValue(event.InstanceID),
		nullStringOrValue(event.CompID),
		event.Title,
		nullStringOrValue(event.Description),
		nullStringOrValue(event.Location),
		nullStringOrValue(event.Instructor),
		event.StartAt,
		event.EndAt,
		event.Recurrence,
		event.Capacity,
		event.CreatedAt,
		event.UpdatedAt,
	)
	return err
}

// GetByID retrieves an event by ID within a tenant
func (r *PostgresEventRepository) GetByID(ctx context.Context, tenantKey, id string) (*domain.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		WHERE id = $1 AND tenant_key = $2 AND deleted_at IS NULL
	`, eventColumns)
	event, err := scanEvent(r.pool.QueryRow(ctx, query, id, tenantKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return event, nil
}

// ListByTenantKeys retrieves events for any of the given tenant keys
func (r *PostgresEventRepository) ListByTenantKeys(ctx context.Context, tenantKeys []string, filter EventFilter) ([]*domain.Event, error) {
	whereClause := "WHERE tenant_key = ANY($1) AND deleted_at IS NULL"
	args := []interface{}{tenantKeys}
	argIndex := 2

	if filter.From != nil {
		whereClause += fmt.Sprintf(" AND end_at >= $%d", argIndex)
		args = append(args, *filter.From)
		argIndex++
	}
	if filter.To != nil {
		whereClause += fmt.Sprintf(" AND start_at <= $%d", argIndex)
		args = append(args, *filter.To)
		argIndex++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		%s
		ORDER BY start_at ASC
		LIMIT $%d
	`, eventColumns, whereClause, argIndex)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// Update updates an event
func (r *PostgresEventRepository) Update(ctx context.Context, event *domain.Event) error {
	query := `
		UPDATE events
		SET title = $3, description = $4, location = $5, instructor = $6,
		    start_at = $7, end_at = $8, recurrence = $9, capacity = $10, updated_at = $11
		WHERE id = $1 AND tenant_key = $2 AND deleted_at IS NULL
	`
	event.UpdatedAt = time.Now()
	result, err := r.pool.Exec(ctx, query,
		event.ID,
		event.TenantKey,
		event.Title,
		nullStringOrValue(event.Description),
		nullStringOrValue(event.Location),
		nullStringOrValue(event.Instructor),
		event.StartAt,
		event.EndAt,
		event.Recurrence,
		event.Capacity,
		event.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("event not found or already deleted")
	}
	return nil
}

// SoftDelete soft deletes an event by setting deleted_at timestamp
func (r *PostgresEventRepository) SoftDelete(ctx context.Context, tenantKey, id string) error {
	query := `
		UPDATE events
		SET deleted_at = $3
		WHERE id = $1 AND tenant_key = $2 AND deleted_at IS NULL
	`
	result, err := r.pool.Exec(ctx, query, id, tenantKey, time.Now())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("event not found or already deleted")
	}
	return nil
}
