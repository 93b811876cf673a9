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

// PostgresPaymentRepository implements PaymentRepository using PostgreSQL
type PostgresPaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresPaymentRepository creates a new PostgresPaymentRepository
func NewPostgresPaymentRepository(pool *pgxpool.Pool) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{pool: pool}
}

const paymentColumns = `id, tenant_key, registration_id, amount, currency, status,
       COALESCE(transaction_id, '') as transaction_id, COALESCE(failure_reason, '') as failure_reason,
       created_at, updated_at`

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	payment := &domain.Payment{}
	err := row.Scan(
		&payment.ID,
		&payment.TenantKey,
		&payment.RegistrationID,
		&payment.Amount,
		&payment.Currency,
		&payment.Status,
		&payment.TransactionID,
		&payment.FailureReason,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// Create creates a new payment
func (r *PostgresPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, tenant_key, registration_id, amount, currency, status, transaction_id, failure_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.pool.Exec(ctx, query,
		payment.ID,
		payment.TenantKey,
		payment.RegistrationID,
		payment.Amount,
		payment.Currency,
		payment.Status,
		nullStringOrValue(payment.TransactionID),
		nullStringOrValue(payment.FailureReason),
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	return err
}

// GetByID retrieves a payment by ID within a tenant
func (r *PostgresPaymentRepository) GetByID(ctx context.Context, tenantKey, id string) (*domain.Payment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM payments
		WHERE id = $1 AND tenant_key = $2
	`, paymentColumns)
	payment, err := scanPayment(r.pool.QueryRow(ctx, query, id, tenantKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return payment, nil
}

// GetByRegistrationID retrieves the payment attached to a registration
func (r *PostgresPaymentRepository) GetByRegistrationID(ctx context.Context, tenantKey, registrationID string) (*domain.Payment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM payments
		WHERE registration_id = $1 AND tenant_key = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, paymentColumns)
	payment, err := scanPayment(r.pool.QueryRow(ctx, query, registrationID, tenantKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return payment, nil
}

// Update updates a payment's status fields
func (r *PostgresPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	query := `
		UPDATE payments
		SET status = $3, transaction_id = $4, failure_reason = $5, updated_at = $6
		WHERE id = $1 AND tenant_key = $2
	`
	payment.UpdatedAt = time.Now()
	result, err := r.pool.Exec(ctx, query,
		payment.ID,
		payment.TenantKey,
		payment.Status,
		nullStringOrValue(payment.TransactionID),
		nullStringOrValue(payment.FailureReason),
		payment.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("payment not found")
	}
	return nil
}
