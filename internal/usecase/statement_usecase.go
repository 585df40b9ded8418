package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/propertyops/rentledger/internal/domain"
)

// LeaseStatement summarizes the financial position of a lease. VOID
// transactions are excluded from every figure; voiding removes a
// transaction from aggregate totals without deleting it.
type LeaseStatement struct {
	LeaseID     string
	Currency    string
	Billed      decimal.Decimal
	Collected   decimal.Decimal
	Outstanding decimal.Decimal
}

// StatementUseCase aggregates lease-level financial totals.
type StatementUseCase struct {
	statementRepo StatementRepository
	leaseRepo     LeaseRepository
}

// NewStatementUseCase creates a new StatementUseCase.
func NewStatementUseCase(statementRepo StatementRepository, leaseRepo LeaseRepository) *StatementUseCase {
	return &StatementUseCase{
		statementRepo: statementRepo,
		leaseRepo:     leaseRepo,
	}
}

// StatementForLease computes billed/collected/outstanding totals over the
// lease's non-void transactions.
func (uc *StatementUseCase) StatementForLease(ctx context.Context, leaseID string) (*LeaseStatement, error) {
	lease, err := uc.leaseRepo.GetByID(ctx, leaseID)
	if err != nil {
		return nil, err
	}

	billed, outstanding, err := uc.statementRepo.TotalsForLease(ctx, leaseID)
	if err != nil {
		return nil, err
	}

	return &LeaseStatement{
		LeaseID:     lease.ID,
		Currency:    lease.Currency,
		Billed:      billed,
		Collected:   billed.Sub(outstanding),
		Outstanding: outstanding,
	}, nil
}

// LeaseUseCase handles lease management.
type LeaseUseCase struct {
	leaseRepo LeaseRepository
	idGen     IDGenerator
	clock     Clock
}

// NewLeaseUseCase creates a new LeaseUseCase.
func NewLeaseUseCase(leaseRepo LeaseRepository, idGen IDGenerator, clock Clock) *LeaseUseCase {
	if clock == nil {
		clock = UTCClock{}
	}

	return &LeaseUseCase{leaseRepo: leaseRepo, idGen: idGen, clock: clock}
}

// CreateLeaseInput represents input for creating a lease.
type CreateLeaseInput struct {
	PropertyID  string
	UnitID      string
	TenantID    string
	RentAmount  string
	Currency    string
	CountryCode string
	BillingDay  int
}

// CreateLease registers a new lease.
func (uc *LeaseUseCase) CreateLease(ctx context.Context, input CreateLeaseInput) (*domain.Lease, error) {
	rent, err := domain.ParseAmount(input.RentAmount)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	lease := &domain.Lease{
		ID:          uc.idGen.Generate(),
		PropertyID:  input.PropertyID,
		UnitID:      input.UnitID,
		TenantID:    input.TenantID,
		RentAmount:  rent,
		Currency:    input.Currency,
		CountryCode: input.CountryCode,
		BillingDay:  input.BillingDay,
		StartDate:   now,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := lease.Validate(); err != nil {
		return nil, err
	}

	if err := uc.leaseRepo.Create(ctx, lease); err != nil {
		return nil, err
	}

	return lease, nil
}

// GetLease retrieves a lease by ID.
func (uc *LeaseUseCase) GetLease(ctx context.Context, id string) (*domain.Lease, error) {
	return uc.leaseRepo.GetByID(ctx, id)
}

// ListLeases lists leases with pagination.
func (uc *LeaseUseCase) ListLeases(ctx context.Context, limit, offset int) ([]*domain.Lease, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.leaseRepo.List(ctx, limit, offset)
}
