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

// PostgresRegistrationRepository implements RegistrationRepository using PostgreSQL
type PostgresRegistrationRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRegistrationRepository creates a new PostgresRegistrationRepository
func NewPostgresRegistrationRepository(pool *pgxpool.Pool) *PostgresRegistrationRepository {
	return &PostgresRegistrationRepository{pool: pool}
}

const registrationColumns = `id, tenant_key, event_id, name, email, COALESCE(phone, '') as phone,
       status, created_at, updated_at`

func scanRegistration(row pgx.Row) (*domain.Registration, error) {
	registration := &domain.Registration{}
	err := row.Scan(
		&registration.ID,
		&registration.TenantKey,
		&registration.EventID,
		&registration.Name,
		&registration.Email,
		&registration.Phone,
		&registration.Status,
		&registration.CreatedAt,
		&registration.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return registration, nil
}

// Create creates a new registration
func (r *PostgresRegistrationRepository) Create(ctx context.Context, registration *domain.Registration) error {
	query := `
		INSERT INTO registrations (id, tenant_key, event_id, name, email, phone, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		registration.ID,
		registration.TenantKey,
		registration.EventID,
		registration.Name,
		registration.Email,
		nullStringOrValue(registration.Phone),
		registration.Status,
		registration.CreatedAt,
		registration.UpdatedAt,
	)
	return err
}

// GetByID retrieves a registration by ID within a tenant
func (r *PostgresRegistrationRepository) GetByID(ctx context.Context, tenantKey, id string) (*domain.Registration, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM registrations
		WHERE id = $1 AND tenant_key = $2
	`, registrationColumns)
	registration, err := scanRegistration(r.pool.QueryRow(ctx, query, id, tenantKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return registration, nil
}

// ListByEventID retrieves registrations for an event, oldest first
func (r *PostgresRegistrationRepository) ListByEventID(ctx context.Context, tenantKey, eventID string) ([]*domain.Registration, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM registrations
		WHERE tenant_key = $1 AND event_id = $2
		ORDER BY created_at ASC
	`, registrationColumns)

	rows, err := r.pool.Query(ctx, query, tenantKey, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	registrations := make([]*domain.Registration, 0)
	for rows.Next() {
		registration, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		registrations = append(registrations, registration)
	}
	return registrations, rows.Err()
}

// CountActiveByEventID counts non-cancelled registrations for an event
func (r *PostgresRegistrationRepository) CountActiveByEventID(ctx context.Context, tenantKey, eventID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM registrations
		WHERE tenant_key = $1 AND event_id = $2 AND status != $3
	`
	var count int
	err := r.pool.QueryRow(ctx, query, tenantKey, eventID, domain.RegistrationStatusCancelled).Scan(&count)
	return count, err
}

// ExistsActiveByEmail reports whether the email already holds an
// active registration for the event
func (r *PostgresRegistrationRepository) ExistsActiveByEmail(ctx context.Context, tenantKey, eventID, email string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM registrations
			WHERE tenant_key = $1 AND event_id = $2 AND email = $3 AND status != $4
		)
	`
	var exists bool
	err := r.pool.QueryRow(ctx, query, tenantKey, eventID, email, domain.RegistrationStatusCancelled).Scan(&exists)
	return exists, err
}

// ExpirePending cancels pending registrations created before the
// cutoff. SKIP LOCKED keeps concurrent sweepers from double-expiring
// the same rows.
func (r *PostgresRegistrationRepository) ExpirePending(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Registration, error) {
	query := fmt.Sprintf(`
		UPDATE registrations
		SET status = $1, updated_at = now()
		WHERE id IN (
			SELECT id FROM registrations
			WHERE status = $2 AND created_at < $3
			ORDER BY created_at ASC
			LIMIT $4
			FOR UPDATE SKIP LOCKED
		)
		RETURNING %s
	`, registrationColumns)

	rows, err := r.pool.Query(ctx, query,
		domain.RegistrationStatusCancelled,
		domain.RegistrationStatusPending,
		cutoff,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expired := make([]*domain.Registration, 0)
	for rows.Next() {
		registration, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		expired = append(expired, registration)
	}
	return expired, rows.Err()
}

// UpdateStatus transitions a registration to a new status
func (r *PostgresRegistrationRepository) UpdateStatus(ctx context.Context, tenantKey, id, status string) error {
	query := `
		UPDATE registrations
		SET status = $3, updated_at = $4
		WHERE id = $1 AND tenant_key = $2
	`
	result, err := r.pool.Exec(ctx, query, id, tenantKey, status, time.Now())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("registration not found")
	}
	return nil
}
