package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lease ties a tenant to a unit and carries the billing defaults used when
// charges are raised against it. CountryCode feeds display symbol
// resolution for screens scoped to the property's market.
type Lease struct {
	ID          string
	PropertyID  string
	UnitID      string
	TenantID    string
	RentAmount  decimal.Decimal
	Currency    string
	CountryCode string
	BillingDay  int
	StartDate   time.Time
	EndDate     *time.Time
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks invariants on a lease.
func (l *Lease) Validate() error {
	if !l.RentAmount.IsPositive() {
		return ErrInvalidAmount
	}
	if l.BillingDay < 1 || l.BillingDay > 28 {
		return ErrInvalidBillingDay
	}
	if err := ValidateCountryCode(l.CountryCode); err != nil {
		return err
	}
	return ValidateCurrency(l.Currency)
}

// DisplaySymbol resolves the currency symbol for the lease's market.
func (l *Lease) DisplaySymbol() string {
	if l.CountryCode != "" {
		return SymbolForCountry(l.CountryCode)
	}
	return SymbolForCurrency(l.Currency)
}
