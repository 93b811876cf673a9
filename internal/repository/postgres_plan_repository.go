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

// PostgresPlanRepository implements PlanRepository using PostgreSQL
type PostgresPlanRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresPlanRepository creates a new PostgresPlanRepository
func NewPostgresPlanRepository(pool *pgxpool.Pool) *PostgresPlanRepository {
	return &PostgresPlanRepository{pool: pool}
}

const planColumns = `id, tenant_key, title, level, COALESCE(focus_area, '') as focus_area,
       poses, COALESCE(notes, '') as notes, generated_by, created_at, updated_at`

func scanPlan(row pgx.Row) (*domain.Plan, error) {
	plan := &domain.Plan{}
	err := row.Scan(
		&plan.ID,
		&plan.TenantKey,
		&plan.Title,
		&plan.Level,
		&plan.FocusArea,
		&plan.Poses,
		&plan.Notes,
		&plan.GeneratedBy,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// Create creates a new plan
func (r *PostgresPlanRepository) Create(ctx context.Context, plan *domain.Plan) error {
	query := `
		INSERT INTO plans (id, tenant_key, title, level, focus_area, poses, notes, generated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.pool.Exec(ctx, query,
		plan.ID,
		plan.TenantKey,
		plan.Title,
		plan.Level,
		nullStringOrValue(plan.FocusArea),
		plan.Poses,
		nullStringOrValue(plan.Notes),
		plan.GeneratedBy,
		plan.CreatedAt,
		plan.UpdatedAt,
	)
	return err
}

// GetByID retrieves a plan by ID within a tenant
func (r *PostgresPlanRepository) GetByID(ctx context.Context, tenantKey, id string) (*domain.Plan, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM plans
		WHERE id = $1 AND tenant_key = $2
	`, planColumns)
	plan, err := scanPlan(r.pool.QueryRow(ctx, query, id, tenantKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return plan, nil
}

// ListByTenantKey retrieves all plans for a tenant, newest first
func (r *PostgresPlanRepository) ListByTenantKey(ctx context.Context, tenantKey string) ([]*domain.Plan, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM plans
		WHERE tenant_key = $1
		ORDER BY created_at DESC
	`, planColumns)

	rows, err := r.pool.Query(ctx, query, tenantKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := make([]*domain.Plan, 0)
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

// CountByTenantKey counts plans owned by a tenant
func (r *PostgresPlanRepository) CountByTenantKey(ctx context.Context, tenantKey string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM plans WHERE tenant_key = $1`, tenantKey).Scan(&count)
	return count, err
}

// Update updates a plan
func (r *PostgresPlanRepository) Update(ctx context.Context, plan *domain.Plan) error {
	query := `
		UPDATE plans
		SET title = $3, level = $4, focus_area = $5, poses = $6, notes = $7, updated_at = $8
		WHERE id = $1 AND tenant_key = $2
	`
	plan.UpdatedAt = time.Now()
	result, err := r.pool.Exec(ctx, query,
		plan.ID,
		plan.TenantKey,
		plan.Title,
		plan.Level,
		nullStringOrValue(plan.FocusArea),
		plan.Poses,
		nullStringOrValue(plan.Notes),
		plan.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("plan not found")
	}
	return nil
}

// Delete deletes a plan
func (r *PostgresPlanRepository) Delete(ctx context.Context, tenantKey, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM plans WHERE id = $1 AND tenant_key = $2`, id, tenantKey)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("plan not found")
	}
	return nil
}
