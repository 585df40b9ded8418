package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParsePaymentMethod(t *testing.T) {
	tests := []struct {
		raw        string
		expected   PaymentMethod
		expectRaw  string
	}{
		{"CASH", MethodCash, ""},
		{"cash", MethodCash, ""},
		{"bank transfer", MethodBankTransfer, ""},
		{"BANK_TRANSFER", MethodBankTransfer, ""},
		{"mobile money", MethodMobileMoney, ""},
		{"crypto", MethodOther, "crypto"},
		{"  venmo  ", MethodOther, "venmo"},
		{"", MethodOther, ""},
	}

	for _, tt := range tests {
		method, raw := ParsePaymentMethod(tt.raw)
		if method != tt.expected || raw != tt.expectRaw {
			t.Errorf("ParsePaymentMethod(%q) = (%s, %q), want (%s, %q)",
				tt.raw, method, raw, tt.expected, tt.expectRaw)
		}
	}
}

func TestPayment_Validate(t *testing.T) {
	tests := []struct {
		name        string
		payment     Payment
		expectError bool
	}{
		{
			name: "valid payment",
			payment: Payment{
				TransactionID: "txn-1",
				Amount:        decimal.NewFromInt(100),
				Currency:      "USD",
			},
			expectError: false,
		},
		{
			name: "missing transaction reference",
			payment: Payment{
				Amount:   decimal.NewFromInt(100),
				Currency: "USD",
			},
			expectError: true,
		},
		{
			name: "zero amount",
			payment: Payment{
				TransactionID: "txn-1",
				Amount:        decimal.Zero,
				Currency:      "USD",
			},
			expectError: true,
		},
		{
			name: "negative amount",
			payment: Payment{
				TransactionID: "txn-1",
				Amount:        decimal.NewFromInt(-5),
				Currency:      "USD",
			},
			expectError: true,
		},
		{
			name: "bad currency",
			payment: Payment{
				TransactionID: "txn-1",
				Amount:        decimal.NewFromInt(100),
				Currency:      "DOLLARS",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payment.Validate()

			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestPayment_Reverse(t *testing.T) {
	now := time.Now().UTC()

	p := &Payment{ID: "pay-1", Amount: decimal.NewFromInt(50)}

	if err := p.Reverse(now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Reversed || p.ReversedAt == nil {
		t.Error("payment not marked reversed")
	}

	if err := p.Reverse(now); err != ErrPaymentReversed {
		t.Errorf("expected ErrPaymentReversed on double reverse, got %v", err)
	}
}
