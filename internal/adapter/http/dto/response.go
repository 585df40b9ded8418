package dto

import (
	"time"

	"github.com/propertyops/rentledger/internal/domain"
	"github.com/propertyops/rentledger/internal/usecase"
)

// ProgressResponse reports how much of a transaction has been settled.
type ProgressResponse struct {
	Paid        string `json:"paid"`
	Left        string `json:"left"`
	DisplayPaid string `json:"display_paid"`
	DisplayLeft string `json:"display_left"`
	Percentage  string `json:"percentage"`
}

// TransactionResponse represents a transaction in API responses. Display
// strings are rendered server-side so every client shows the same money.
type TransactionResponse struct {
	ID             string            `json:"id"`
	LeaseID        string            `json:"lease_id"`
	Type           string            `json:"type"`
	TypeDisplay    string            `json:"type_display"`
	Category       string            `json:"category"`
	Subcategory    string            `json:"subcategory,omitempty"`
	Amount         string            `json:"amount"`
	Balance        string            `json:"balance"`
	Currency       string            `json:"currency"`
	DisplayAmount  string            `json:"display_amount"`
	DisplayBalance string            `json:"display_balance"`
	Status         string            `json:"status"`
	Progress       ProgressResponse  `json:"progress"`
	Overdue        bool              `json:"overdue"`
	DueDate        *time.Time        `json:"due_date,omitempty"`
	PayerID        *string           `json:"payer_id,omitempty"`
	PayeeID        *string           `json:"payee_id,omitempty"`
	VoidReason     *string           `json:"void_reason,omitempty"`
	VoidedAt       *time.Time        `json:"voided_at,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// TransactionFromDomain converts a domain transaction to a response. The overdue
// flag is evaluated against the supplied instant.
func TransactionFromDomain(t *domain.Transaction, now time.Time) TransactionResponse {
	progress := t.Progress()
	return TransactionResponse{
		ID:             t.ID,
		LeaseID:        t.LeaseID,
		Type:           string(t.Type),
		TypeDisplay:    t.TypeDisplay(),
		Category:       t.Category,
		Subcategory:    t.Subcategory,
		Amount:         t.Amount.String(),
		Balance:        t.Balance.String(),
		Currency:       t.Currency,
		DisplayAmount:  domain.FormatAmount(t.Amount, t.Currency),
		DisplayBalance: domain.FormatAmount(t.Balance, t.Currency),
		Status:         string(t.Status),
		Progress: ProgressResponse{
			Paid:        progress.Paid.String(),
			Left:        progress.Left.String(),
			DisplayPaid: domain.FormatAmount(progress.Paid, t.Currency),
			DisplayLeft: domain.FormatAmount(progress.Left, t.Currency),
			Percentage:  progress.Percentage.Round(2).String(),
		},
		Overdue:    t.IsOverdue(now),
		DueDate:    t.DueDate,
		PayerID:    t.PayerID,
		PayeeID:    t.PayeeID,
		VoidReason: t.VoidReason,
		VoidedAt:   t.VoidedAt,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

// TransactionsFromDomain converts a slice of domain transactions to responses.
func TransactionsFromDomain(transactions []*domain.Transaction, now time.Time) []TransactionResponse {
	responses := make([]TransactionResponse, len(transactions))
	for i, t := range transactions {
		responses[i] = TransactionFromDomain(t, now)
	}
	return responses
}

// PaymentResponse represents a payment in API responses.
type PaymentResponse struct {
	ID            string     `json:"id"`
	TransactionID string     `json:"transaction_id"`
	Amount        string     `json:"amount"`
	Currency      string     `json:"currency"`
	DisplayAmount string     `json:"display_amount"`
	Method        string     `json:"method"`
	RawMethod     string     `json:"raw_method,omitempty"`
	RecordedBy    string     `json:"recorded_by,omitempty"`
	Memo          string     `json:"memo,omitempty"`
	PaidAt        time.Time  `json:"paid_at"`
	Reversed      bool       `json:"reversed"`
	ReversedAt    *time.Time `json:"reversed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// PaymentFromDomain converts a domain payment to a response.
func PaymentFromDomain(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		TransactionID: p.TransactionID,
		Amount:        p.Amount.String(),
		Currency:      p.Currency,
		DisplayAmount: domain.FormatAmount(p.Amount, p.Currency),
		Method:        string(p.Method),
		RawMethod:     p.RawMethod,
		RecordedBy:    p.RecordedBy,
		Memo:          p.Memo,
		PaidAt:        p.PaidAt,
		Reversed:      p.Reversed,
		ReversedAt:    p.ReversedAt,
		CreatedAt:     p.CreatedAt,
	}
}

// PaymentsFromDomain converts a slice of domain payments to responses.
func PaymentsFromDomain(payments []*domain.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		responses[i] = PaymentFromDomain(p)
	}
	return responses
}

// LeaseResponse represents a lease in API responses.
type LeaseResponse struct {
	ID             string     `json:"id"`
	PropertyID     string     `json:"property_id"`
	UnitID         string     `json:"unit_id"`
	TenantID       string     `json:"tenant_id"`
	RentAmount     string     `json:"rent_amount"`
	Currency       string     `json:"currency"`
	CountryCode    string     `json:"country_code,omitempty"`
	CurrencySymbol string     `json:"currency_symbol"`
	DisplayRent    string     `json:"display_rent"`
	BillingDay     int        `json:"billing_day"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	Active         bool       `json:"active"`
	CreatedAt      time.Time  `json:"created_at"`
}

// LeaseFromDomain converts a domain lease to a response.
func LeaseFromDomain(l *domain.Lease) LeaseResponse {
	return LeaseResponse{
		ID:             l.ID,
		PropertyID:     l.PropertyID,
		UnitID:         l.UnitID,
		TenantID:       l.TenantID,
		RentAmount:     l.RentAmount.String(),
		Currency:       l.Currency,
		CountryCode:    l.CountryCode,
		CurrencySymbol: l.DisplaySymbol(),
		DisplayRent:    domain.FormatAmount(l.RentAmount, l.Currency),
		BillingDay:     l.BillingDay,
		StartDate:      l.StartDate,
		EndDate:        l.EndDate,
		Active:         l.Active,
		CreatedAt:      l.CreatedAt,
	}
}

// LeasesFromDomain converts a slice of domain leases to responses.
func LeasesFromDomain(leases []*domain.Lease) []LeaseResponse {
	responses := make([]LeaseResponse, len(leases))
	for i, l := range leases {
		responses[i] = LeaseFromDomain(l)
	}
	return responses
}

// ChargeResponse represents a recurring charge in API responses.
type ChargeResponse struct {
	ID            string    `json:"id"`
	LeaseID       string    `json:"lease_id"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency"`
	DisplayAmount string    `json:"display_amount"`
	Category      string    `json:"category"`
	Subcategory   string    `json:"subcategory,omitempty"`
	Interval      string    `json:"interval"`
	DueInDays     int       `json:"due_in_days"`
	NextRunAt     time.Time `json:"next_run_at"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
}

// ChargeFromDomain converts a domain recurring charge to a response.
func ChargeFromDomain(c *domain.RecurringCharge) ChargeResponse {
	return ChargeResponse{
		ID:            c.ID,
		LeaseID:       c.LeaseID,
		Amount:        c.Amount.String(),
		Currency:      c.Currency,
		DisplayAmount: domain.FormatAmount(c.Amount, c.Currency),
		Category:      c.Category,
		Subcategory:   c.Subcategory,
		Interval:      string(c.Interval),
		DueInDays:     c.DueInDays,
		NextRunAt:     c.NextRunAt,
		Active:        c.Active,
		CreatedAt:     c.CreatedAt,
	}
}

// StatementResponse represents lease-level financial totals.
type StatementResponse struct {
	LeaseID            string `json:"lease_id"`
	Currency           string `json:"currency"`
	Billed             string `json:"billed"`
	Collected          string `json:"collected"`
	Outstanding        string `json:"outstanding"`
	DisplayBilled      string `json:"display_billed"`
	DisplayCollected   string `json:"display_collected"`
	DisplayOutstanding string `json:"display_outstanding"`
}

// StatementFromDomain converts a lease statement to a response.
func StatementFromDomain(s *usecase.LeaseStatement) StatementResponse {
	return StatementResponse{
		LeaseID:            s.LeaseID,
		Currency:           s.Currency,
		Billed:             s.Billed.String(),
		Collected:          s.Collected.String(),
		Outstanding:        s.Outstanding.String(),
		DisplayBilled:      domain.FormatAmount(s.Billed, s.Currency),
		DisplayCollected:   domain.FormatAmount(s.Collected, s.Currency),
		DisplayOutstanding: domain.FormatAmount(s.Outstanding, s.Currency),
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// BillingRunResponse reports the outcome of a billing run.
type BillingRunResponse struct {
	Billed int `json:"billed"`
}
