package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// TransactionCacheTTL is how long read-through transaction lookups are cached
	TransactionCacheTTL = 30 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// BillingBatchSize caps how many recurring charges one run picks up
	BillingBatchSize = 100
)
