package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/propertyops/rentledger/internal/domain"
	"github.com/propertyops/rentledger/internal/usecase"
	"github.com/propertyops/rentledger/internal/usecase/mocks"
)

func TestStatementUseCase_StatementForLease(t *testing.T) {
	leaseRepo := mocks.NewMockLeaseRepository()
	leaseRepo.Create(context.Background(), &domain.Lease{
		ID:         "lease-1",
		PropertyID: "prop-1",
		UnitID:     "unit-1",
		TenantID:   "tenant-1",
		RentAmount: decimal.NewFromInt(1200),
		Currency:   "GBP",
		BillingDay: 1,
		Active:     true,
	})

	statementRepo := mocks.NewMockStatementRepository()
	statementRepo.TotalsForLeaseFunc = func(ctx context.Context, leaseID string) (decimal.Decimal, decimal.Decimal, error) {
		return decimal.NewFromInt(3600), decimal.NewFromInt(1200), nil
	}

	uc := usecase.NewStatementUseCase(statementRepo, leaseRepo)

	statement, err := uc.StatementForLease(context.Background(), "lease-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if statement.Currency != "GBP" {
		t.Errorf("currency = %s, want GBP", statement.Currency)
	}
	if statement.Billed.String() != "3600" {
		t.Errorf("billed = %s, want 3600", statement.Billed)
	}
	// Collected is always billed minus outstanding, never a re-sum of
	// payment rows.
	if statement.Collected.String() != "2400" {
		t.Errorf("collected = %s, want 2400", statement.Collected)
	}
	if statement.Outstanding.String() != "1200" {
		t.Errorf("outstanding = %s, want 1200", statement.Outstanding)
	}
}

func TestStatementUseCase_StatementForLease_UnknownLease(t *testing.T) {
	uc := usecase.NewStatementUseCase(mocks.NewMockStatementRepository(), mocks.NewMockLeaseRepository())

	_, err := uc.StatementForLease(context.Background(), "missing")
	if !errors.Is(err, domain.ErrLeaseNotFound) {
		t.Errorf("error = %v, want ErrLeaseNotFound", err)
	}
}

func TestLeaseUseCase_CreateLease(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.CreateLeaseInput
		expectError error
	}{
		{
			name: "valid lease",
			input: usecase.CreateLeaseInput{
				PropertyID:  "prop-1",
				UnitID:      "unit-1",
				TenantID:    "tenant-1",
				RentAmount:  "1500.00",
				Currency:    "USD",
				CountryCode: "US",
				BillingDay:  1,
			},
		},
		{
			name: "malformed rent",
			input: usecase.CreateLeaseInput{
				PropertyID: "prop-1",
				UnitID:     "unit-1",
				TenantID:   "tenant-1",
				RentAmount: "NaN",
				Currency:   "USD",
				BillingDay: 1,
			},
			expectError: domain.ErrMalformedAmount,
		},
		{
			name: "billing day past 28",
			input: usecase.CreateLeaseInput{
				PropertyID: "prop-1",
				UnitID:     "unit-1",
				TenantID:   "tenant-1",
				RentAmount: "1500",
				Currency:   "USD",
				BillingDay: 31,
			},
			expectError: domain.ErrInvalidBillingDay,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := mocks.NewMockClock(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
			uc := usecase.NewLeaseUseCase(mocks.NewMockLeaseRepository(), mocks.NewMockIDGenerator(), clock)

			lease, err := uc.CreateLease(context.Background(), tt.input)

			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Fatalf("error = %v, want %v", err, tt.expectError)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !lease.Active {
				t.Error("lease not active")
			}
			if lease.ID == "" {
				t.Error("lease ID not generated")
			}
		})
	}
}
