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

// PaymentRepository implements usecase.PaymentRepository.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

const paymentColumns = `id, transaction_id, amount, currency, paid_at, method,
	raw_method, recorded_by, memo, reversed, reversed_at, created_at`

// Create inserts a payment within a database transaction.
func (r *PaymentRepository) Create(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error {
	_, err := txOf(tx).Exec(ctx, `
		INSERT INTO payments (`+paymentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		payment.ID, payment.TransactionID, decimalToNumeric(payment.Amount),
		payment.Currency, timeToPg(payment.PaidAt), string(payment.Method),
		payment.RawMethod, payment.RecordedBy, payment.Memo,
		payment.Reversed, timePtrToPg(payment.ReversedAt), timeToPg(payment.CreatedAt),
	)

	return err
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE id = $1`, id)

	return scanPayment(row)
}

// GetByIDForUpdate retrieves a payment with a FOR UPDATE lock.
func (r *PaymentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Payment, error) {
	row := txOf(tx).QueryRow(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE id = $1
		FOR UPDATE`, id)

	return scanPayment(row)
}

// MarkReversed flags a payment as reversed.
func (r *PaymentRepository) MarkReversed(ctx context.Context, tx usecase.Transaction, id string, reversedAt time.Time) error {
	tag, err := txOf(tx).Exec(ctx, `
		UPDATE payments
		SET reversed = TRUE, reversed_at = $2
		WHERE id = $1`,
		id, timeToPg(reversedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPaymentNotFound
	}

	return nil
}

// ListByTransaction lists payments against a transaction, oldest first.
func (r *PaymentRepository) ListByTransaction(ctx context.Context, transactionID string, limit, offset int) ([]*domain.Payment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE transaction_id = $1
		ORDER BY paid_at ASC
		LIMIT $2 OFFSET $3`, transactionID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}

	return payments, rows.Err()
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var (
		p          domain.Payment
		method     string
		amount     pgtype.Numeric
		paidAt     pgtype.Timestamptz
		reversedAt pgtype.Timestamptz
		createdAt  pgtype.Timestamptz
	)

	err := row.Scan(
		&p.ID, &p.TransactionID, &amount, &p.Currency, &paidAt, &method,
		&p.RawMethod, &p.RecordedBy, &p.Memo, &p.Reversed, &reversedAt, &createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}

	p.Amount = numericToDecimal(amount)
	p.Method = domain.PaymentMethod(method)
	p.PaidAt = paidAt.Time
	p.ReversedAt = pgToTimePtr(reversedAt)
	p.CreatedAt = createdAt.Time

	return &p, nil
}
