package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/propertyops/rentledger/internal/domain"
	"github.com/propertyops/rentledger/internal/infrastructure/metrics"
)

// BillingUseCase turns due recurring charges into open transactions.
type BillingUseCase struct {
	txManager       TransactionManager
	chargeRepo      RecurringChargeRepository
	transactionRepo TransactionRepository
	leaseRepo       LeaseRepository
	outboxRepo      OutboxRepository
	idGen           IDGenerator
	clock           Clock
	metrics         *metrics.Metrics
	logger          zerolog.Logger
}

// NewBillingUseCase creates a new BillingUseCase.
func NewBillingUseCase(
	txManager TransactionManager,
	chargeRepo RecurringChargeRepository,
	transactionRepo TransactionRepository,
	leaseRepo LeaseRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	clock Clock,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *BillingUseCase {
	if clock == nil {
		clock = UTCClock{}
	}

	return &BillingUseCase{
		txManager:       txManager,
		chargeRepo:      chargeRepo,
		transactionRepo: transactionRepo,
		leaseRepo:       leaseRepo,
		outboxRepo:      outboxRepo,
		idGen:           idGen,
		clock:           clock,
		metrics:         m,
		logger:          logger,
	}
}

// RunDueCharges bills every recurring charge whose NextRunAt has passed.
// Each charge becomes one OPEN transaction; the schedule advances inside
// the same database transaction so a crash cannot bill twice. Returns the
// number of charges billed.
func (uc *BillingUseCase) RunDueCharges(ctx context.Context) (int, error) {
	now := uc.clock.Now()
	start := time.Now()
	defer func() {
		if uc.metrics != nil {
			uc.metrics.BillingRunDuration.Observe(time.Since(start).Seconds())
		}
	}()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	charges, err := uc.chargeRepo.ListDueForUpdate(txCtx, tx, now, BillingBatchSize)
	if err != nil {
		return 0, err
	}

	billed := 0
	for _, charge := range charges {
		if !charge.Due(now) {
			continue
		}

		if err := uc.billCharge(txCtx, tx, charge, now); err != nil {
			return 0, err
		}
		billed++
	}

	if billed == 0 {
		return 0, nil
	}

	if err := tx.Commit(txCtx); err != nil {
		return 0, err
	}

	if uc.metrics != nil {
		uc.metrics.ChargesBilled.Add(float64(billed))
	}

	uc.logger.Info().Int("billed", billed).Msg("recurring billing run completed")

	return billed, nil
}

func (uc *BillingUseCase) billCharge(ctx context.Context, tx Transaction, charge *domain.RecurringCharge, now time.Time) error {
	lease, err := uc.leaseRepo.GetByID(ctx, charge.LeaseID)
	if err != nil {
		return err
	}

	dueDate := now.AddDate(0, 0, charge.DueInDays)
	txn := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		LeaseID:     lease.ID,
		Type:        domain.TypeCharge,
		Category:    charge.Category,
		Subcategory: charge.Subcategory,
		Amount:      charge.Amount,
		Balance:     charge.Amount,
		Currency:    charge.Currency,
		Status:      domain.StatusOpen,
		DueDate:     &dueDate,
		PayerID:     &lease.TenantID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := txn.Validate(); err != nil {
		return err
	}

	if err := uc.transactionRepo.Create(ctx, tx, txn); err != nil {
		return err
	}

	charge.Advance(now)
	if err := uc.chargeRepo.UpdateNextRun(ctx, tx, charge.ID, charge.NextRunAt, now); err != nil {
		return err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   charge.ID,
		AggregateType: domain.AggregateTypeCharge,
		EventType:     domain.EventTypeChargeBilled,
		Payload: map[string]any{
			"charge_id":      charge.ID,
			"lease_id":       lease.ID,
			"transaction_id": txn.ID,
			"amount":         charge.Amount.String(),
			"currency":       charge.Currency,
			"next_run_at":    charge.NextRunAt.Format(time.RFC3339),
		},
		CreatedAt: now,
	}

	return uc.outboxRepo.Create(ctx, tx, event)
}

// CreateChargeInput represents input for creating a recurring charge.
type CreateChargeInput struct {
	LeaseID     string
	Amount      string
	Currency    string
	Category    string
	Subcategory string
	Interval    string
	DueInDays   int
	FirstRunAt  *time.Time
}

// CreateCharge registers a new recurring charge for a lease.
func (uc *BillingUseCase) CreateCharge(ctx context.Context, input CreateChargeInput) (*domain.RecurringCharge, error) {
	amount, err := domain.ParseAmount(input.Amount)
	if err != nil {
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
	firstRun := now
	if input.FirstRunAt != nil {
		firstRun = *input.FirstRunAt
	}

	charge := &domain.RecurringCharge{
		ID:          uc.idGen.Generate(),
		LeaseID:     lease.ID,
		Amount:      amount,
		Currency:    currency,
		Category:    input.Category,
		Subcategory: input.Subcategory,
		Interval:    domain.ParseChargeInterval(input.Interval),
		DueInDays:   input.DueInDays,
		NextRunAt:   firstRun,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := charge.Validate(); err != nil {
		return nil, err
	}

	if err := uc.chargeRepo.Create(ctx, charge); err != nil {
		return nil, err
	}

	return charge, nil
}

// ListCharges lists recurring charges for a lease.
func (uc *BillingUseCase) ListCharges(ctx context.Context, leaseID string) ([]*domain.RecurringCharge, error) {
	if _, err := uc.leaseRepo.GetByID(ctx, leaseID); err != nil {
		return nil, err
	}

	return uc.chargeRepo.ListByLease(ctx, leaseID)
}
