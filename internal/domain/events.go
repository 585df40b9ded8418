package domain

import "time"

// Event types
const (
	EventTypeTransactionCreated = "transaction.created"
	EventTypeTransactionVoided  = "transaction.voided"
	EventTypeTransactionPaid    = "transaction.paid"
	EventTypePaymentRecorded    = "payment.recorded"
	EventTypePaymentReversed    = "payment.reversed"
	EventTypeChargeBilled       = "charge.billed"
)

// Aggregate types
const (
	AggregateTypeTransaction = "transaction"
	AggregateTypePayment     = "payment"
	AggregateTypeCharge      = "charge"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// TransactionCreatedEvent payload
type TransactionCreatedEvent struct {
	TransactionID string `json:"transaction_id"`
	LeaseID       string `json:"lease_id"`
	Type          string `json:"type"`
	Category      string `json:"category"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	DueDate       string `json:"due_date,omitempty"`
}

// TransactionVoidedEvent payload. Aggregators listening for this drop the
// transaction from financial totals; the record itself survives.
type TransactionVoidedEvent struct {
	TransactionID string `json:"transaction_id"`
	Reason        string `json:"reason"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
}

// PaymentRecordedEvent payload
type PaymentRecordedEvent struct {
	PaymentID     string `json:"payment_id"`
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Method        string `json:"method"`
	NewBalance    string `json:"new_balance"`
}

// PaymentReversedEvent payload
type PaymentReversedEvent struct {
	PaymentID     string `json:"payment_id"`
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount"`
	NewBalance    string `json:"new_balance"`
}

// ChargeBilledEvent payload
type ChargeBilledEvent struct {
	ChargeID      string `json:"charge_id"`
	LeaseID       string `json:"lease_id"`
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	NextRunAt     string `json:"next_run_at"`
}
