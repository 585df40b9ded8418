package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a transaction. A partially paid
// transaction is an OPEN transaction with 0 < balance < amount.
type Status string

const (
	StatusOpen Status = "OPEN"
	StatusPaid Status = "PAID"
	StatusVoid Status = "VOID"
)

// IsTerminal reports whether no further balance-affecting transition is
// allowed from this status.
func (s Status) IsTerminal() bool {
	return s == StatusPaid || s == StatusVoid
}

// ParseStatus normalizes a raw status string at the ingestion boundary.
// Unrecognized values map to OPEN so upstream typos never invent a
// terminal state.
func ParseStatus(raw string) Status {
	switch Status(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusPaid:
		return StatusPaid
	case StatusVoid:
		return StatusVoid
	default:
		return StatusOpen
	}
}

// TransactionType classifies the billable event.
type TransactionType string

const (
	TypeInvoice TransactionType = "INVOICE"
	TypeCharge  TransactionType = "CHARGE"
	TypeDeposit TransactionType = "DEPOSIT"
	TypeRefund  TransactionType = "REFUND"
)

// ParseTransactionType normalizes a raw type string, defaulting to CHARGE.
func ParseTransactionType(raw string) TransactionType {
	switch TransactionType(strings.ToUpper(strings.TrimSpace(raw))) {
	case TypeInvoice:
		return TypeInvoice
	case TypeDeposit:
		return TypeDeposit
	case TypeRefund:
		return TypeRefund
	default:
		return TypeCharge
	}
}

// Transaction represents a billable event against a lease: an invoice, a
// one-off charge, a deposit, or a refund. Balance is the server-side
// ledger of truth; it is never re-derived by summing payments.
type Transaction struct {
	ID          string
	LeaseID     string
	Type        TransactionType
	Category    string
	Subcategory string
	Amount      decimal.Decimal
	Balance     decimal.Decimal
	Currency    string
	Status      Status
	DueDate     *time.Time
	PayerID     *string
	PayeeID     *string
	VoidReason  *string
	VoidedAt    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PaymentProgress is the derived paid/owed state of a transaction.
type PaymentProgress struct {
	Paid       decimal.Decimal
	Left       decimal.Decimal
	Percentage decimal.Decimal
}

// Progress computes how much of the transaction has been settled.
// Percentage is 0 when the amount is 0. A balance exceeding the amount is
// an upstream inconsistency; paid is clamped at zero rather than reported
// negative (callers log the violation when storing such a balance).
func (t *Transaction) Progress() PaymentProgress {
	paid := t.Amount.Sub(t.Balance)
	if paid.IsNegative() {
		paid = decimal.Zero
	}

	percentage := decimal.Zero
	if t.Amount.IsPositive() {
		percentage = paid.Div(t.Amount).Mul(decimal.NewFromInt(100))
		hundred := decimal.NewFromInt(100)
		if percentage.GreaterThan(hundred) {
			percentage = hundred
		}
	}

	return PaymentProgress{
		Paid:       paid,
		Left:       t.Balance,
		Percentage: percentage,
	}
}

// IsOverdue reports whether the transaction is past due: the due date is
// strictly before now, money is still owed, and the transaction is not in
// a terminal state. The clock is injected for testability.
func (t *Transaction) IsOverdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	if !t.DueDate.Before(now) {
		return false
	}
	if !t.Balance.IsPositive() {
		return false
	}
	return !t.Status.IsTerminal()
}

// TypeDisplay composes the label shown for the transaction: a payer makes
// it income, a payee makes it an expense, otherwise the raw type is used.
// A subcategory, when present, is appended as a third segment.
func (t *Transaction) TypeDisplay() string {
	var head string
	switch {
	case t.PayerID != nil && *t.PayerID != "":
		head = "Income"
	case t.PayeeID != nil && *t.PayeeID != "":
		head = "Expense"
	default:
		head = string(t.Type)
	}

	label := head + " / " + t.Category
	if t.Subcategory != "" {
		label += " / " + t.Subcategory
	}
	return label
}

// Void transitions the transaction to VOID. The reason is validated
// before any state is touched: voiding with an empty or whitespace-only
// reason is rejected. Terminal transactions cannot be voided.
func (t *Transaction) Void(reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrVoidReasonRequired
	}
	if t.Status.IsTerminal() {
		return ErrTransactionTerminal
	}

	t.Status = StatusVoid
	t.VoidReason = &reason
	t.VoidedAt = &now
	t.UpdatedAt = now
	return nil
}

// MarkPaid settles the transaction explicitly, zeroing the balance.
func (t *Transaction) MarkPaid(now time.Time) error {
	if t.Status.IsTerminal() {
		return ErrTransactionTerminal
	}

	t.Balance = decimal.Zero
	t.Status = StatusPaid
	t.UpdatedAt = now
	return nil
}

// ApplyBalance records a new server-computed balance. Terminal
// transactions are immutable for financial computation; once the balance
// reaches zero the transaction flips to PAID.
func (t *Transaction) ApplyBalance(balance decimal.Decimal, now time.Time) error {
	if t.Status.IsTerminal() {
		return ErrTransactionTerminal
	}
	if balance.IsNegative() {
		return ErrNegativeBalance
	}

	t.Balance = balance
	if balance.IsZero() {
		t.Status = StatusPaid
	}
	t.UpdatedAt = now
	return nil
}

// Validate checks invariants on a newly created transaction.
func (t *Transaction) Validate() error {
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if t.Balance.IsNegative() {
		return ErrNegativeBalance
	}
	if t.Balance.GreaterThan(t.Amount) {
		return ErrBalanceExceedsAmount
	}
	return ValidateCurrency(t.Currency)
}
