package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/propertyops/rentledger/internal/domain"
)

// LeaseRepository implements usecase.LeaseRepository.
type LeaseRepository struct {
	pool *pgxpool.Pool
}

// NewLeaseRepository creates a new LeaseRepository.
func NewLeaseRepository(pool *pgxpool.Pool) *LeaseRepository {
	return &LeaseRepository{pool: pool}
}

const leaseColumns = `id, property_id, unit_id, tenant_id, rent_amount, currency,
	country_code, billing_day, start_date, end_date, active, created_at, updated_at`

// Create inserts a new lease.
func (r *LeaseRepository) Create(ctx context.Context, lease *domain.Lease) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO leases (`+leaseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		lease.ID, lease.PropertyID, lease.UnitID, lease.TenantID,
		decimalToNumeric(lease.RentAmount), lease.Currency, lease.CountryCode,
		lease.BillingDay, timeToPg(lease.StartDate), timePtrToPg(lease.EndDate),
		lease.Active, timeToPg(lease.CreatedAt), timeToPg(lease.UpdatedAt),
	)

	return err
}

// GetByID retrieves a lease by ID.
func (r *LeaseRepository) GetByID(ctx context.Context, id string) (*domain.Lease, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+leaseColumns+`
		FROM leases
		WHERE id = $1`, id)

	return scanLease(row)
}

// List lists leases with pagination.
func (r *LeaseRepository) List(ctx context.Context, limit, offset int) ([]*domain.Lease, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leaseColumns+`
		FROM leases
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leases []*domain.Lease
	for rows.Next() {
		lease, err := scanLease(rows)
		if err != nil {
			return nil, err
		}
		leases = append(leases, lease)
	}

	return leases, rows.Err()
}

func scanLease(row pgx.Row) (*domain.Lease, error) {
	var (
		lease      domain.Lease
		rentAmount pgtype.Numeric
		startDate  pgtype.Timestamptz
		endDate    pgtype.Timestamptz
		createdAt  pgtype.Timestamptz
		updatedAt  pgtype.Timestamptz
	)

	err := row.Scan(
		&lease.ID, &lease.PropertyID, &lease.UnitID, &lease.TenantID,
		&rentAmount, &lease.Currency, &lease.CountryCode, &lease.BillingDay,
		&startDate, &endDate, &lease.Active, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLeaseNotFound
		}
		return nil, err
	}

	lease.RentAmount = numericToDecimal(rentAmount)
	lease.StartDate = startDate.Time
	lease.EndDate = pgToTimePtr(endDate)
	lease.CreatedAt = createdAt.Time
	lease.UpdatedAt = updatedAt.Time

	return &lease, nil
}
