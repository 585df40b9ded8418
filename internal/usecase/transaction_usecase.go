package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/propertyops/rentledger/internal/domain"
	"github.com/propertyops/rentledger/internal/infrastructure/metrics"
)

// TransactionUseCase handles transaction business logic.
type TransactionUseCase struct {
	txManager       TransactionManager
	transactionRepo TransactionRepository
	paymentRepo     PaymentRepository
	leaseRepo       LeaseRepository
	outboxRepo      OutboxRepository
	auditRepo       AuditRepository
	cache           Cache
	idGen           IDGenerator
	clock           Clock
	retrier         Retrier
	metrics         *metrics.Metrics
	logger          zerolog.Logger
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	txManager TransactionManager,
	transactionRepo TransactionRepository,
	paymentRepo PaymentRepository,
	leaseRepo LeaseRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	cache Cache,
	idGen IDGenerator,
	clock Clock,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *TransactionUseCase {
	if clock == nil {
		clock = UTCClock{}
	}

	return &TransactionUseCase{
		txManager:       txManager,
		transactionRepo: transactionRepo,
		paymentRepo:     paymentRepo,
		leaseRepo:       leaseRepo,
		outboxRepo:      outboxRepo,
		auditRepo:       auditRepo,
		cache:           cache,
		idGen:           idGen,
		clock:           clock,
		metrics:         m,
		logger:          logger,
	}
}

// WithRetrier configures retries for balance-mutating operations. Lock
// contention on a transaction row can surface as a deadlock or
// serialization failure; retrying re-runs the whole database
// transaction against fresh state.
func (uc *TransactionUseCase) WithRetrier(r Retrier) *TransactionUseCase {
	uc.retrier = r
	return uc
}

func (uc *TransactionUseCase) withRetry(ctx context.Context, operation func() error) error {
	if uc.retrier == nil {
		return operation()
	}
	return uc.retrier.Retry(ctx, operation)
}

// CreateTransactionInput represents input for creating a transaction.
type CreateTransactionInput struct {
	LeaseID     string
	Type        string
	Category    string
	Subcategory string
	Amount      decimal.Decimal
	Currency    string
	DueDate     *time.Time
	PayerID     *string
	PayeeID     *string
}

// CreateTransaction raises a new billable event against a lease. The
// balance starts equal to the amount; payments bring it down.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	if err := domain.ValidateCategory(input.Category); err != nil {
		uc.countError("validation")
		return nil, err
	}

	lease, err := uc.leaseRepo.GetByID(ctx, input.LeaseID)
	if err != nil {
		return nil, err
	}

	currency := input.Currency
	if currency == "" {
		currency = lease.Currency
	}

	now := uc.clock.Now()
	txn := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		LeaseID:     lease.ID,
		Type:        domain.ParseTransactionType(input.Type),
		Category:    input.Category,
		Subcategory: input.Subcategory,
		Amount:      input.Amount,
		Balance:     input.Amount,
		Currency:    currency,
		Status:      domain.StatusOpen,
		DueDate:     input.DueDate,
		PayerID:     input.PayerID,
		PayeeID:     input.PayeeID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := txn.Validate(); err != nil {
		uc.countError("validation")
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.transactionRepo.Create(txCtx, tx, txn); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   txn.ID,
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     domain.EventTypeTransactionCreated,
		Payload: map[string]any{
			"transaction_id": txn.ID,
			"lease_id":       txn.LeaseID,
			"type":           string(txn.Type),
			"category":       txn.Category,
			"amount":         txn.Amount.String(),
			"currency":       txn.Currency,
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsCreated.Inc()
	}

	return txn, nil
}

// GetTransaction retrieves a transaction by ID with a read-through cache.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, transactionCacheKey(id)); err == nil && len(data) > 0 {
			var txn domain.Transaction
			if err := json.Unmarshal(data, &txn); err == nil {
				if uc.metrics != nil {
					uc.metrics.CacheHits.Inc()
				}
				return &txn, nil
			}
		}
		if uc.metrics != nil {
			uc.metrics.CacheMisses.Inc()
		}
	}

	txn, err := uc.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	uc.cacheTransaction(ctx, txn)

	return txn, nil
}

// RecordPaymentInput represents input for recording a payment.
type RecordPaymentInput struct {
	TransactionID string
	Amount        decimal.Decimal
	Currency      string
	Method        string
	RecordedBy    string
	Memo          string
	PaidAt        *time.Time
}

// RecordPayment applies a payment against a transaction. The new balance
// is computed and stored inside one database transaction; readers trust
// the stored balance and never re-sum payments.
func (uc *TransactionUseCase) RecordPayment(ctx context.Context, input RecordPaymentInput) (*domain.Payment, error) {
	var payment *domain.Payment
	err := uc.withRetry(ctx, func() error {
		var err error
		payment, err = uc.recordPayment(ctx, input)
		return err
	})
	return payment, err
}

func (uc *TransactionUseCase) recordPayment(ctx context.Context, input RecordPaymentInput) (*domain.Payment, error) {
	now := uc.clock.Now()
	paidAt := now
	if input.PaidAt != nil {
		paidAt = *input.PaidAt
	}

	method, rawMethod := domain.ParsePaymentMethod(input.Method)
	payment := &domain.Payment{
		ID:            uc.idGen.Generate(),
		TransactionID: input.TransactionID,
		Amount:        input.Amount,
		Currency:      input.Currency,
		PaidAt:        paidAt,
		Method:        method,
		RawMethod:     rawMethod,
		RecordedBy:    input.RecordedBy,
		Memo:          input.Memo,
		CreatedAt:     now,
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	txn, err := uc.transactionRepo.GetByIDForUpdate(txCtx, tx, input.TransactionID)
	if err != nil {
		return nil, err
	}

	if payment.Currency == "" {
		payment.Currency = txn.Currency
	}
	if err := payment.Validate(); err != nil {
		return nil, err
	}
	if payment.Currency != txn.Currency {
		uc.countError("currency_mismatch")
		return nil, domain.ErrCurrencyMismatch
	}
	if payment.Amount.GreaterThan(txn.Balance) {
		uc.countError("payment_exceeds_balance")
		return nil, domain.ErrPaymentExceedsBalance
	}

	before := domain.MarshalState(txn)

	newBalance := txn.Balance.Sub(payment.Amount)
	if err := txn.ApplyBalance(newBalance, now); err != nil {
		return nil, err
	}

	if err := uc.paymentRepo.Create(txCtx, tx, payment); err != nil {
		return nil, err
	}

	if err := uc.transactionRepo.UpdateBalance(txCtx, tx, txn.ID, txn.Balance, txn.Status, now); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   payment.ID,
		AggregateType: domain.AggregateTypePayment,
		EventType:     domain.EventTypePaymentRecorded,
		Payload: map[string]any{
			"payment_id":     payment.ID,
			"transaction_id": txn.ID,
			"amount":         payment.Amount.String(),
			"currency":       payment.Currency,
			"method":         string(payment.Method),
			"new_balance":    txn.Balance.String(),
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	uc.audit(txCtx, tx, domain.AuditActionPaymentRecord, domain.AggregateTypePayment, payment.ID, input.RecordedBy, before, domain.MarshalState(txn))

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.invalidateTransaction(ctx, txn.ID)

	if uc.metrics != nil {
		uc.metrics.PaymentsRecorded.Inc()
		uc.metrics.PaymentAmount.Observe(payment.Amount.InexactFloat64())
		if txn.Status == domain.StatusPaid {
			uc.metrics.TransactionsPaid.Inc()
		}
	}

	return payment, nil
}

// ReversePaymentInput represents input for reversing a payment.
type ReversePaymentInput struct {
	PaymentID  string
	ReversedBy string
}

// ReversePayment undoes a recorded payment, restoring the transaction
// balance. Payments on VOID transactions cannot be reversed; the void
// already removed the transaction from financial totals.
func (uc *TransactionUseCase) ReversePayment(ctx context.Context, input ReversePaymentInput) (*domain.Payment, error) {
	var payment *domain.Payment
	err := uc.withRetry(ctx, func() error {
		var err error
		payment, err = uc.reversePayment(ctx, input)
		return err
	})
	return payment, err
}

func (uc *TransactionUseCase) reversePayment(ctx context.Context, input ReversePaymentInput) (*domain.Payment, error) {
	now := uc.clock.Now()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	payment, err := uc.paymentRepo.GetByIDForUpdate(txCtx, tx, input.PaymentID)
	if err != nil {
		return nil, err
	}

	txn, err := uc.transactionRepo.GetByIDForUpdate(txCtx, tx, payment.TransactionID)
	if err != nil {
		return nil, err
	}

	if txn.Status == domain.StatusVoid {
		return nil, domain.ErrTransactionTerminal
	}

	if err := payment.Reverse(now); err != nil {
		return nil, err
	}

	before := domain.MarshalState(txn)

	// A fully paid transaction re-opens when a payment is reversed.
	if txn.Status == domain.StatusPaid {
		txn.Status = domain.StatusOpen
	}

	newBalance := txn.Balance.Add(payment.Amount)
	if newBalance.GreaterThan(txn.Amount) {
		uc.logger.Warn().
			Str("transaction_id", txn.ID).
			Str("balance", newBalance.String()).
			Str("amount", txn.Amount.String()).
			Msg("reversal pushed balance past transaction amount; clamping")
		newBalance = txn.Amount
	}
	if err := txn.ApplyBalance(newBalance, now); err != nil {
		return nil, err
	}

	if err := uc.paymentRepo.MarkReversed(txCtx, tx, payment.ID, now); err != nil {
		return nil, err
	}

	if err := uc.transactionRepo.UpdateBalance(txCtx, tx, txn.ID, txn.Balance, txn.Status, now); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   payment.ID,
		AggregateType: domain.AggregateTypePayment,
		EventType:     domain.EventTypePaymentReversed,
		Payload: map[string]any{
			"payment_id":     payment.ID,
			"transaction_id": txn.ID,
			"amount":         payment.Amount.String(),
			"new_balance":    txn.Balance.String(),
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	uc.audit(txCtx, tx, domain.AuditActionPaymentReverse, domain.AggregateTypePayment, payment.ID, input.ReversedBy, before, domain.MarshalState(txn))

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.invalidateTransaction(ctx, txn.ID)

	if uc.metrics != nil {
		uc.metrics.PaymentsReversed.Inc()
	}

	return payment, nil
}

// VoidTransactionInput represents input for voiding a transaction.
type VoidTransactionInput struct {
	TransactionID string
	Reason        string
	VoidedBy      string
}

// VoidTransaction marks a transaction VOID. The reason is validated
// before any state is read or written; a missing reason never touches
// the record. Voiding does not delete the transaction or reverse its
// payments, it only removes it from aggregate totals downstream.
func (uc *TransactionUseCase) VoidTransaction(ctx context.Context, input VoidTransactionInput) (*domain.Transaction, error) {
	// Reject a missing reason before anything is loaded or locked.
	if strings.TrimSpace(input.Reason) == "" {
		return nil, domain.ErrVoidReasonRequired
	}

	var txn *domain.Transaction
	err := uc.withRetry(ctx, func() error {
		var err error
		txn, err = uc.voidTransaction(ctx, input)
		return err
	})
	return txn, err
}

func (uc *TransactionUseCase) voidTransaction(ctx context.Context, input VoidTransactionInput) (*domain.Transaction, error) {
	now := uc.clock.Now()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	txn, err := uc.transactionRepo.GetByIDForUpdate(txCtx, tx, input.TransactionID)
	if err != nil {
		return nil, err
	}

	before := domain.MarshalState(txn)

	if err := txn.Void(input.Reason, now); err != nil {
		return nil, err
	}

	if err := uc.transactionRepo.MarkVoid(txCtx, tx, txn.ID, *txn.VoidReason, now); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   txn.ID,
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     domain.EventTypeTransactionVoided,
		Payload: map[string]any{
			"transaction_id": txn.ID,
			"reason":         *txn.VoidReason,
			"amount":         txn.Amount.String(),
			"currency":       txn.Currency,
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	uc.audit(txCtx, tx, domain.AuditActionTransactionVoid, domain.AggregateTypeTransaction, txn.ID, input.VoidedBy, before, domain.MarshalState(txn))

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.invalidateTransaction(ctx, txn.ID)

	if uc.metrics != nil {
		uc.metrics.TransactionsVoided.Inc()
	}

	return txn, nil
}

// MarkPaid settles a transaction explicitly ("mark as paid" action).
func (uc *TransactionUseCase) MarkPaid(ctx context.Context, transactionID, actorID string) (*domain.Transaction, error) {
	var txn *domain.Transaction
	err := uc.withRetry(ctx, func() error {
		var err error
		txn, err = uc.markPaid(ctx, transactionID, actorID)
		return err
	})
	return txn, err
}

func (uc *TransactionUseCase) markPaid(ctx context.Context, transactionID, actorID string) (*domain.Transaction, error) {
	now := uc.clock.Now()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	txn, err := uc.transactionRepo.GetByIDForUpdate(txCtx, tx, transactionID)
	if err != nil {
		return nil, err
	}

	before := domain.MarshalState(txn)

	if err := txn.MarkPaid(now); err != nil {
		return nil, err
	}

	if err := uc.transactionRepo.UpdateBalance(txCtx, tx, txn.ID, txn.Balance, txn.Status, now); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   txn.ID,
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     domain.EventTypeTransactionPaid,
		Payload: map[string]any{
			"transaction_id": txn.ID,
			"amount":         txn.Amount.String(),
			"currency":       txn.Currency,
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	uc.audit(txCtx, tx, domain.AuditActionTransactionPaid, domain.AggregateTypeTransaction, txn.ID, actorID, before, domain.MarshalState(txn))

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.invalidateTransaction(ctx, txn.ID)

	if uc.metrics != nil {
		uc.metrics.TransactionsPaid.Inc()
	}

	return txn, nil
}

// ListTransactionsInput represents input for listing transactions.
type ListTransactionsInput struct {
	LeaseID string
	Status  string
	Overdue bool
	Limit   int
	Offset  int
}

// ListTransactions lists transactions by lease, status, or overdue state.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) ([]*domain.Transaction, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	switch {
	case input.Overdue:
		txns, err := uc.transactionRepo.ListOverdue(ctx, uc.clock.Now(), limit, offset)
		if err == nil && uc.metrics != nil && offset == 0 {
			uc.metrics.OverdueTransactions.Set(float64(len(txns)))
		}
		return txns, err
	case input.LeaseID != "":
		return uc.transactionRepo.ListByLease(ctx, input.LeaseID, limit, offset)
	case input.Status != "":
		return uc.transactionRepo.ListByStatus(ctx, domain.ParseStatus(input.Status), limit, offset)
	default:
		return uc.transactionRepo.ListByStatus(ctx, domain.StatusOpen, limit, offset)
	}
}

// ListPayments lists payments recorded against a transaction.
func (uc *TransactionUseCase) ListPayments(ctx context.Context, transactionID string, limit, offset int) ([]*domain.Payment, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.paymentRepo.ListByTransaction(ctx, transactionID, limit, offset)
}

func (uc *TransactionUseCase) countError(kind string) {
	if uc.metrics != nil {
		uc.metrics.TransactionErrors.WithLabelValues(kind).Inc()
	}
}

func (uc *TransactionUseCase) audit(ctx context.Context, tx Transaction, action domain.AuditAction, resourceType, resourceID, actorID string, before, after domain.JSON) {
	if uc.auditRepo == nil {
		return
	}
	if actorID == "" {
		actorID = "system"
	}

	log := &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		ActorID:      actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		BeforeState:  before,
		AfterState:   after,
		Status:       domain.AuditStatusSuccess,
		CreatedAt:    uc.clock.Now(),
	}

	if err := uc.auditRepo.CreateTx(ctx, tx, log); err != nil {
		uc.logger.Warn().Err(err).Str("action", string(action)).Msg("failed to write audit log")
	}
}

func (uc *TransactionUseCase) cacheTransaction(ctx context.Context, txn *domain.Transaction) {
	if uc.cache == nil {
		return
	}
	data, err := json.Marshal(txn)
	if err != nil {
		return
	}
	_ = uc.cache.Set(ctx, transactionCacheKey(txn.ID), data, TransactionCacheTTL)
}

func (uc *TransactionUseCase) invalidateTransaction(ctx context.Context, id string) {
	if uc.cache == nil {
		return
	}
	_ = uc.cache.Delete(ctx, transactionCacheKey(id))
}

func transactionCacheKey(id string) string {
	return "transaction:" + id
}
