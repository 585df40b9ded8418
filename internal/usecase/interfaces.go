package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/propertyops/rentledger/internal/domain"
)

// TransactionRepository defines data access for transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Transaction, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, status domain.Status, updatedAt time.Time) error
	MarkVoid(ctx context.Context, tx Transaction, id string, reason string, voidedAt time.Time) error
	ListByLease(ctx context.Context, leaseID string, limit, offset int) ([]*domain.Transaction, error)
	ListByStatus(ctx context.Context, status domain.Status, limit, offset int) ([]*domain.Transaction, error)
	ListOverdue(ctx context.Context, asOf time.Time, limit, offset int) ([]*domain.Transaction, error)
}

// PaymentRepository defines data access for payments.
type PaymentRepository interface {
	Create(ctx context.Context, tx Transaction, payment *domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Payment, error)
	MarkReversed(ctx context.Context, tx Transaction, id string, reversedAt time.Time) error
	ListByTransaction(ctx context.Context, transactionID string, limit, offset int) ([]*domain.Payment, error)
}

// LeaseRepository defines data access for leases.
type LeaseRepository interface {
	Create(ctx context.Context, lease *domain.Lease) error
	GetByID(ctx context.Context, id string) (*domain.Lease, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Lease, error)
}

// RecurringChargeRepository defines data access for recurring charges.
type RecurringChargeRepository interface {
	Create(ctx context.Context, charge *domain.RecurringCharge) error
	GetByID(ctx context.Context, id string) (*domain.RecurringCharge, error)
	ListByLease(ctx context.Context, leaseID string) ([]*domain.RecurringCharge, error)
	ListDueForUpdate(ctx context.Context, tx Transaction, asOf time.Time, limit int) ([]*domain.RecurringCharge, error)
	UpdateNextRun(ctx context.Context, tx Transaction, id string, nextRunAt, updatedAt time.Time) error
}

// StatementRepository defines aggregate reads over non-void transactions.
type StatementRepository interface {
	TotalsForLease(ctx context.Context, leaseID string) (billed, outstanding decimal.Decimal, err error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier retries an operation on transient database failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// Clock supplies the current time so due-date logic stays testable.
type Clock interface {
	Now() time.Time
}

// UTCClock is the production Clock.
type UTCClock struct{}

// Now returns the current UTC time.
func (UTCClock) Now() time.Time { return time.Now().UTC() }
