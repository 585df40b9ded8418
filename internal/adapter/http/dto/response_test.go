package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/propertyops/rentledger/internal/domain"
)

func TestTransactionFromDomain(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	due := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	payer := "tenant-1"

	txn := &domain.Transaction{
		ID:       "txn-1",
		LeaseID:  "lease-1",
		Type:     domain.TypeInvoice,
		Category: "rent",
		Amount:   decimal.NewFromInt(1000),
		Balance:  decimal.NewFromInt(400),
		Currency: "USD",
		Status:   domain.StatusOpen,
		DueDate:  &due,
		PayerID:  &payer,
	}

	resp := TransactionFromDomain(txn, now)

	if resp.DisplayAmount != "$1,000.00" {
		t.Errorf("display amount = %q, want $1,000.00", resp.DisplayAmount)
	}
	if resp.DisplayBalance != "$400.00" {
		t.Errorf("display balance = %q, want $400.00", resp.DisplayBalance)
	}
	if resp.Progress.Paid != "600" || resp.Progress.Left != "400" {
		t.Errorf("progress = %+v, want paid 600 left 400", resp.Progress)
	}
	if resp.Progress.Percentage != "60" {
		t.Errorf("percentage = %s, want 60", resp.Progress.Percentage)
	}
	if !resp.Overdue {
		t.Error("open transaction past due date should be overdue")
	}
	if resp.TypeDisplay != "Income / rent" {
		t.Errorf("type display = %q, want Income / rent", resp.TypeDisplay)
	}
}

func TestTransactionFromDomain_IndianGrouping(t *testing.T) {
	txn := &domain.Transaction{
		ID:       "txn-1",
		LeaseID:  "lease-1",
		Type:     domain.TypeInvoice,
		Category: "rent",
		Amount:   decimal.NewFromInt(123456),
		Balance:  decimal.Zero,
		Currency: "INR",
		Status:   domain.StatusPaid,
	}

	resp := TransactionFromDomain(txn, time.Now())

	if resp.DisplayAmount != "₹1,23,456.00" {
		t.Errorf("display amount = %q, want ₹1,23,456.00", resp.DisplayAmount)
	}
	if resp.DisplayBalance != "₹0.00" {
		t.Errorf("display balance = %q, want ₹0.00 (zero stays decorated)", resp.DisplayBalance)
	}
}

func TestLeaseFromDomain_SymbolPrefersCountry(t *testing.T) {
	lease := &domain.Lease{
		ID:          "lease-1",
		PropertyID:  "prop-1",
		UnitID:      "unit-1",
		TenantID:    "tenant-1",
		RentAmount:  decimal.NewFromInt(2000),
		Currency:    "USD",
		CountryCode: "GB",
		BillingDay:  1,
	}

	resp := LeaseFromDomain(lease)

	if resp.CurrencySymbol != "£" {
		t.Errorf("symbol = %q, want £ from country code", resp.CurrencySymbol)
	}
	if resp.DisplayRent != "$2,000.00" {
		t.Errorf("display rent = %q, want $2,000.00 from currency", resp.DisplayRent)
	}
}
