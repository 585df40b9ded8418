package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/propertyops/rentledger/internal/usecase"
)

// TxManager hands database transactions to the use cases through the
// usecase.TransactionManager interface.
type TxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager creates a new TxManager.
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

// Begin starts a database transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &Tx{inner: tx}, nil
}

// Tx adapts pgx.Tx to usecase.Transaction. Repositories unwrap it with
// txOf to run their statements on the same connection.
type Tx struct {
	inner pgx.Tx
}

// Commit commits the transaction.
func (t *Tx) Commit(ctx context.Context) error {
	return t.inner.Commit(ctx)
}

// Rollback rolls back the transaction. Rolling back after a successful
// commit returns pgx.ErrTxClosed, which deferred callers discard.
func (t *Tx) Rollback(ctx context.Context) error {
	return t.inner.Rollback(ctx)
}
