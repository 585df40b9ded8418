package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is the enumerated set of payment channels. Values outside
// the set collapse to MethodOther with the raw text preserved.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "CASH"
	MethodCheck        PaymentMethod = "CHECK"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodCard         PaymentMethod = "CARD"
	MethodMobileMoney  PaymentMethod = "MOBILE_MONEY"
	MethodOther        PaymentMethod = "OTHER"
)

// ParsePaymentMethod normalizes a raw method string. The second return
// value carries the original text when it does not match the enumeration.
func ParsePaymentMethod(raw string) (PaymentMethod, string) {
	normalized := PaymentMethod(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), " ", "_")))
	switch normalized {
	case MethodCash, MethodCheck, MethodBankTransfer, MethodCard, MethodMobileMoney:
		return normalized, ""
	default:
		return MethodOther, strings.TrimSpace(raw)
	}
}

// Payment is a single recorded payment against a transaction. Reversed
// payments stay on record; the transaction balance is adjusted when the
// reversal is applied.
type Payment struct {
	ID            string
	TransactionID string
	Amount        decimal.Decimal
	Currency      string
	PaidAt        time.Time
	Method        PaymentMethod
	RawMethod     string
	RecordedBy    string
	Memo          string
	Reversed      bool
	ReversedAt    *time.Time
	CreatedAt     time.Time
}

// Validate checks invariants on a payment before it is recorded.
func (p *Payment) Validate() error {
	if p.TransactionID == "" {
		return ErrTransactionNotFound
	}
	if !p.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return ValidateCurrency(p.Currency)
}

// Reverse marks the payment reversed. Reversing twice is rejected.
func (p *Payment) Reverse(now time.Time) error {
	if p.Reversed {
		return ErrPaymentReversed
	}

	p.Reversed = true
	p.ReversedAt = &now
	return nil
}
