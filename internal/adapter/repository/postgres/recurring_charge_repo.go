package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/propertyops/rentledger/internal/domain"
	"github.com/propertyops/rentledger/internal/usecase"
)

// RecurringChargeRepository implements usecase.RecurringChargeRepository.
type RecurringChargeRepository struct {
	pool *pgxpool.Pool
}

// NewRecurringChargeRepository creates a new RecurringChargeRepository.
func NewRecurringChargeRepository(pool *pgxpool.Pool) *RecurringChargeRepository {
	return &RecurringChargeRepository{pool: pool}
}

const chargeColumns = `id, lease_id, amount, currency, category, subcategory,
	interval, due_in_days, next_run_at, active, created_at, updated_at`

// Create inserts a new recurring charge.
func (r *RecurringChargeRepository) Create(ctx context.Context, charge *domain.RecurringCharge) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO recurring_charges (`+chargeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		charge.ID, charge.LeaseID, decimalToNumeric(charge.Amount),
		charge.Currency, charge.Category, charge.Subcategory,
		string(charge.Interval), charge.DueInDays, timeToPg(charge.NextRunAt),
		charge.Active, timeToPg(charge.CreatedAt), timeToPg(charge.UpdatedAt),
	)

	return err
}

// GetByID retrieves a recurring charge by ID.
func (r *RecurringChargeRepository) GetByID(ctx context.Context, id string) (*domain.RecurringCharge, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+chargeColumns+`
		FROM recurring_charges
		WHERE id = $1`, id)

	return scanCharge(row)
}

// ListByLease lists all charges for a lease, newest first.
func (r *RecurringChargeRepository) ListByLease(ctx context.Context, leaseID string) ([]*domain.RecurringCharge, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+chargeColumns+`
		FROM recurring_charges
		WHERE lease_id = $1
		ORDER BY created_at DESC`, leaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var charges []*domain.RecurringCharge
	for rows.Next() {
		charge, err := scanCharge(rows)
		if err != nil {
			return nil, err
		}
		charges = append(charges, charge)
	}

	return charges, rows.Err()
}

// ListDueForUpdate locks and returns active charges due as of the given
// time. SKIP LOCKED lets concurrent billing runs divide the work instead
// of serializing on each other.
func (r *RecurringChargeRepository) ListDueForUpdate(ctx context.Context, tx usecase.Transaction, asOf time.Time, limit int) ([]*domain.RecurringCharge, error) {
	rows, err := txOf(tx).Query(ctx, `
		SELECT `+chargeColumns+`
		FROM recurring_charges
		WHERE active AND next_run_at <= $1
		ORDER BY next_run_at ASC
		LIMIT $2
		FOR UPDATE SKIP LOCKED`, timeToPg(asOf), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var charges []*domain.RecurringCharge
	for rows.Next() {
		charge, err := scanCharge(rows)
		if err != nil {
			return nil, err
		}
		charges = append(charges, charge)
	}

	return charges, rows.Err()
}

// UpdateNextRun advances the schedule after a charge is billed.
func (r *RecurringChargeRepository) UpdateNextRun(ctx context.Context, tx usecase.Transaction, id string, nextRunAt, updatedAt time.Time) error {
	tag, err := txOf(tx).Exec(ctx, `
		UPDATE recurring_charges
		SET next_run_at = $2, updated_at = $3
		WHERE id = $1`,
		id, timeToPg(nextRunAt), timeToPg(updatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrChargeNotFound
	}

	return nil
}

func scanCharge(row pgx.Row) (*domain.RecurringCharge, error) {
	var (
		charge    domain.RecurringCharge
		interval  string
		amount    pgtype.Numeric
		nextRunAt pgtype.Timestamptz
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&charge.ID, &charge.LeaseID, &amount, &charge.Currency,
		&charge.Category, &charge.Subcategory, &interval, &charge.DueInDays,
		&nextRunAt, &charge.Active, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrChargeNotFound
		}
		return nil, err
	}

	charge.Amount = numericToDecimal(amount)
	charge.Interval = domain.ChargeInterval(interval)
	charge.NextRunAt = nextRunAt.Time
	charge.CreatedAt = createdAt.Time
	charge.UpdatedAt = updatedAt.Time

	return &charge, nil
}
