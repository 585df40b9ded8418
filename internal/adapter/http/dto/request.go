package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/propertyops/rentledger/internal/domain"
	"github.com/propertyops/rentledger/internal/usecase"
)

// FlexAmount accepts a monetary amount as either a JSON string or a JSON
// number. Clients are encouraged to send decimal strings to avoid
// floating-point drift; numbers are tolerated for compatibility.
// Malformed input is rejected at this boundary.
type FlexAmount struct {
	decimal.Decimal
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *FlexAmount) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))

	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return domain.ErrMalformedAmount
		}
		raw = s
	}

	d, err := domain.ParseAmount(raw)
	if err != nil {
		return err
	}

	a.Decimal = d
	return nil
}

// CreateTransactionRequest represents a request to create a transaction.
type CreateTransactionRequest struct {
	LeaseID     string     `json:"lease_id"`
	Type        string     `json:"type"`
	Category    string     `json:"category"`
	Subcategory string     `json:"subcategory,omitempty"`
	Amount      FlexAmount `json:"amount"`
	Currency    string     `json:"currency,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	PayerID     *string    `json:"payer_id,omitempty"`
	PayeeID     *string    `json:"payee_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput() usecase.CreateTransactionInput {
	return usecase.CreateTransactionInput{
		LeaseID:     r.LeaseID,
		Type:        r.Type,
		Category:    r.Category,
		Subcategory: r.Subcategory,
		Amount:      r.Amount.Decimal,
		Currency:    r.Currency,
		DueDate:     r.DueDate,
		PayerID:     r.PayerID,
		PayeeID:     r.PayeeID,
	}
}

// RecordPaymentRequest represents a request to record a payment.
type RecordPaymentRequest struct {
	Amount     FlexAmount `json:"amount"`
	Currency   string     `json:"currency,omitempty"`
	Method     string     `json:"method,omitempty"`
	RecordedBy string     `json:"recorded_by,omitempty"`
	Memo       string     `json:"memo,omitempty"`
	PaidAt     *time.Time `json:"paid_at,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordPaymentRequest) ToUseCaseInput(transactionID string) usecase.RecordPaymentInput {
	return usecase.RecordPaymentInput{
		TransactionID: transactionID,
		Amount:        r.Amount.Decimal,
		Currency:      r.Currency,
		Method:        r.Method,
		RecordedBy:    r.RecordedBy,
		Memo:          r.Memo,
		PaidAt:        r.PaidAt,
	}
}

// VoidTransactionRequest represents a request to void a transaction.
type VoidTransactionRequest struct {
	Reason   string `json:"reason"`
	VoidedBy string `json:"voided_by,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *VoidTransactionRequest) ToUseCaseInput(transactionID string) usecase.VoidTransactionInput {
	return usecase.VoidTransactionInput{
		TransactionID: transactionID,
		Reason:        r.Reason,
		VoidedBy:      r.VoidedBy,
	}
}

// CreateLeaseRequest represents a request to create a lease.
type CreateLeaseRequest struct {
	PropertyID  string `json:"property_id"`
	UnitID      string `json:"unit_id"`
	TenantID    string `json:"tenant_id"`
	RentAmount  string `json:"rent_amount"`
	Currency    string `json:"currency"`
	CountryCode string `json:"country_code,omitempty"`
	BillingDay  int    `json:"billing_day"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateLeaseRequest) ToUseCaseInput() usecase.CreateLeaseInput {
	return usecase.CreateLeaseInput{
		PropertyID:  r.PropertyID,
		UnitID:      r.UnitID,
		TenantID:    r.TenantID,
		RentAmount:  r.RentAmount,
		Currency:    r.Currency,
		CountryCode: r.CountryCode,
		BillingDay:  r.BillingDay,
	}
}

// CreateChargeRequest represents a request to create a recurring charge.
type CreateChargeRequest struct {
	LeaseID     string     `json:"lease_id"`
	Amount      string     `json:"amount"`
	Currency    string     `json:"currency,omitempty"`
	Category    string     `json:"category"`
	Subcategory string     `json:"subcategory,omitempty"`
	Interval    string     `json:"interval,omitempty"`
	DueInDays   int        `json:"due_in_days,omitempty"`
	FirstRunAt  *time.Time `json:"first_run_at,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateChargeRequest) ToUseCaseInput() usecase.CreateChargeInput {
	return usecase.CreateChargeInput{
		LeaseID:     r.LeaseID,
		Amount:      r.Amount,
		Currency:    r.Currency,
		Category:    r.Category,
		Subcategory: r.Subcategory,
		Interval:    r.Interval,
		DueInDays:   r.DueInDays,
		FirstRunAt:  r.FirstRunAt,
	}
}
