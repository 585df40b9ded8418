package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidCurrency    = errors.New("invalid currency code")
	ErrMalformedAmount    = errors.New("malformed amount")
	ErrAmountTooLarge     = errors.New("amount exceeds maximum allowed")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidCountryCode = errors.New("invalid country code")
)

// Validation constants
const (
	MaxCategoryLength = 120
	MaxAmount         = "1000000000" // 1 billion
)

// Valid currency codes (ISO 4217) accepted for stored amounts. Display
// formatting is total over all strings; storage is not.
var validCurrencies = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true,
	"CNY": true, "AUD": true, "CAD": true, "CHF": true,
	"SEK": true, "NZD": true, "KRW": true, "SGD": true,
	"NOK": true, "MXN": true, "INR": true, "BRL": true,
	"ZAR": true, "RUB": true, "TRY": true, "HKD": true,
	"PKR": true, "BDT": true, "LKR": true, "NPR": true,
	"AED": true, "SAR": true, "ILS": true, "EGP": true,
	"NGN": true, "KES": true, "GHS": true, "PHP": true,
	"THB": true, "MYR": true, "IDR": true, "VND": true,
	"PLN": true, "CZK": true, "HUF": true, "DKK": true,
}

// ValidateCurrency validates a currency code for storage.
func ValidateCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if !validCurrencies[currency] {
		return fmt.Errorf("%w: %s is not a supported ISO 4217 code", ErrInvalidCurrency, currency)
	}

	return nil
}

// ParseAmount parses a decimal string received at the ingestion boundary.
// Malformed, NaN-like, or non-finite input is rejected here so it can
// never reach percentage or overdue computations.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrMalformedAmount)
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedAmount, raw)
	}

	maxAmount, _ := decimal.NewFromString(MaxAmount)
	if d.Abs().GreaterThan(maxAmount) {
		return decimal.Zero, fmt.Errorf("%w: maximum is %s", ErrAmountTooLarge, MaxAmount)
	}

	return d, nil
}

// ValidateCategory validates a transaction category label.
func ValidateCategory(category string) error {
	category = strings.TrimSpace(category)

	if category == "" {
		return fmt.Errorf("%w: category cannot be empty", ErrInvalidCategory)
	}

	if len(category) > MaxCategoryLength {
		return fmt.Errorf("%w: category exceeds %d characters", ErrInvalidCategory, MaxCategoryLength)
	}

	return nil
}

// ValidateCountryCode validates an ISO 3166-1 alpha-2 country code for
// storage. Display symbol resolution stays total regardless.
func ValidateCountryCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}

	if len(code) != 2 {
		return fmt.Errorf("%w: %q", ErrInvalidCountryCode, code)
	}

	for _, c := range code {
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return fmt.Errorf("%w: %q", ErrInvalidCountryCode, code)
		}
	}

	return nil
}

// ValidatePagination clamps pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
