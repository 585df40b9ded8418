package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/propertyops/rentledger/internal/domain"
	"github.com/propertyops/rentledger/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository and
// usecase.StatementRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, lease_id, type, category, subcategory, amount, balance,
	currency, status, due_date, payer_id, payee_id, void_reason, voided_at,
	created_at, updated_at`

// Create inserts a new transaction within a database transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	_, err := txOf(tx).Exec(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		txn.ID, txn.LeaseID, string(txn.Type), txn.Category, txn.Subcategory,
		decimalToNumeric(txn.Amount), decimalToNumeric(txn.Balance),
		txn.Currency, string(txn.Status), timePtrToPg(txn.DueDate),
		textPtrToPg(txn.PayerID), textPtrToPg(txn.PayeeID),
		textPtrToPg(txn.VoidReason), timePtrToPg(txn.VoidedAt),
		timeToPg(txn.CreatedAt), timeToPg(txn.UpdatedAt),
	)

	return err
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = $1`, id)

	return scanTransaction(row)
}

// GetByIDForUpdate retrieves a transaction with a FOR UPDATE lock.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	row := txOf(tx).QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = $1
		FOR UPDATE`, id)

	return scanTransaction(row)
}

// UpdateBalance stores the server-computed balance and status.
func (r *TransactionRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, status domain.Status, updatedAt time.Time) error {
	tag, err := txOf(tx).Exec(ctx, `
		UPDATE transactions
		SET balance = $2, status = $3, updated_at = $4
		WHERE id = $1`,
		id, decimalToNumeric(balance), string(status), timeToPg(updatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// MarkVoid records the void reason and timestamp.
func (r *TransactionRepository) MarkVoid(ctx context.Context, tx usecase.Transaction, id string, reason string, voidedAt time.Time) error {
	tag, err := txOf(tx).Exec(ctx, `
		UPDATE transactions
		SET status = $2, void_reason = $3, voided_at = $4, updated_at = $4
		WHERE id = $1`,
		id, string(domain.StatusVoid), reason, timeToPg(voidedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// ListByLease lists transactions for a lease, newest first.
func (r *TransactionRepository) ListByLease(ctx context.Context, leaseID string, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE lease_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, leaseID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// ListByStatus lists transactions in a given status, newest first.
func (r *TransactionRepository) ListByStatus(ctx context.Context, status domain.Status, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, string(status), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// ListOverdue lists open transactions past their due date with money
// still owed, most overdue first.
func (r *TransactionRepository) ListOverdue(ctx context.Context, asOf time.Time, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE status = $1
		  AND due_date IS NOT NULL
		  AND due_date < $2
		  AND balance > 0
		ORDER BY due_date ASC
		LIMIT $3 OFFSET $4`, string(domain.StatusOpen), timeToPg(asOf), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// TotalsForLease sums amounts and balances over the lease's non-void
// transactions, implementing usecase.StatementRepository.
func (r *TransactionRepository) TotalsForLease(ctx context.Context, leaseID string) (decimal.Decimal, decimal.Decimal, error) {
	var billed, outstanding pgtype.Numeric

	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0), COALESCE(SUM(balance), 0)
		FROM transactions
		WHERE lease_id = $1 AND status <> $2`,
		leaseID, string(domain.StatusVoid),
	).Scan(&billed, &outstanding)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(billed), numericToDecimal(outstanding), nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn              domain.Transaction
		typ, status      string
		amount, balance  pgtype.Numeric
		dueDate          pgtype.Timestamptz
		payer, payee     pgtype.Text
		voidReason       pgtype.Text
		voidedAt         pgtype.Timestamptz
		created, updated pgtype.Timestamptz
	)

	err := row.Scan(
		&txn.ID, &txn.LeaseID, &typ, &txn.Category, &txn.Subcategory,
		&amount, &balance, &txn.Currency, &status, &dueDate,
		&payer, &payee, &voidReason, &voidedAt, &created, &updated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	txn.Type = domain.TransactionType(typ)
	txn.Status = domain.Status(status)
	txn.Amount = numericToDecimal(amount)
	txn.Balance = numericToDecimal(balance)
	txn.DueDate = pgToTimePtr(dueDate)
	txn.PayerID = pgToTextPtr(payer)
	txn.PayeeID = pgToTextPtr(payee)
	txn.VoidReason = pgToTextPtr(voidReason)
	txn.VoidedAt = pgToTimePtr(voidedAt)
	txn.CreatedAt = created.Time
	txn.UpdatedAt = updated.Time

	return &txn, nil
}

func scanTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var transactions []*domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, txn)
	}

	return transactions, rows.Err()
}
