package domain

import (
	"encoding/json"
	"time"
)

// AuditLog records a balance-affecting action for compliance and debugging.
type AuditLog struct {
	ID           string
	ActorID      string // Who performed the action
	Action       AuditAction
	ResourceType string // transaction, payment, charge
	ResourceID   string
	BeforeState  JSON
	AfterState   JSON
	Status       AuditStatus
	ErrorMessage string
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionTransactionCreate AuditAction = "transaction.create"
	AuditActionTransactionVoid   AuditAction = "transaction.void"
	AuditActionTransactionPaid   AuditAction = "transaction.mark_paid"
	AuditActionPaymentRecord     AuditAction = "payment.record"
	AuditActionPaymentReverse    AuditAction = "payment.reverse"
	AuditActionChargeBill        AuditAction = "charge.bill"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}
