package domain

import (
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		expectErr error
		expected  string
	}{
		{"integer", "1000", nil, "1000"},
		{"decimal string", "1234.56", nil, "1234.56"},
		{"negative delta", "-12.50", nil, "-12.5"},
		{"padded", "  42 ", nil, "42"},
		{"empty", "", ErrMalformedAmount, ""},
		{"not a number", "abc", ErrMalformedAmount, ""},
		{"nan", "NaN", ErrMalformedAmount, ""},
		{"infinity", "Inf", ErrMalformedAmount, ""},
		{"too large", "1000000001", ErrAmountTooLarge, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseAmount(tt.raw)

			if tt.expectErr != nil {
				if !errors.Is(err, tt.expectErr) {
					t.Fatalf("expected %v, got %v", tt.expectErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.String() != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, d)
			}
		})
	}
}

func TestValidateCurrency(t *testing.T) {
	valid := []string{"USD", "usd", " INR ", "EUR", "NPR"}
	for _, c := range valid {
		if err := ValidateCurrency(c); err != nil {
			t.Errorf("ValidateCurrency(%q): unexpected error %v", c, err)
		}
	}

	invalid := []string{"", "US", "DOLLARS", "XXX"}
	for _, c := range invalid {
		if err := ValidateCurrency(c); !errors.Is(err, ErrInvalidCurrency) {
			t.Errorf("ValidateCurrency(%q): expected ErrInvalidCurrency, got %v", c, err)
		}
	}
}

func TestValidateCountryCode(t *testing.T) {
	for _, c := range []string{"", "IN", "us", "GB"} {
		if err := ValidateCountryCode(c); err != nil {
			t.Errorf("ValidateCountryCode(%q): unexpected error %v", c, err)
		}
	}

	for _, c := range []string{"USA", "1N", "I", "I-"} {
		if err := ValidateCountryCode(c); !errors.Is(err, ErrInvalidCountryCode) {
			t.Errorf("ValidateCountryCode(%q): expected ErrInvalidCountryCode, got %v", c, err)
		}
	}
}

func TestValidatePagination(t *testing.T) {
	tests := []struct {
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{0, 0, 50, 0},
		{-5, -5, 50, 0},
		{2000, 10, 1000, 10},
		{25, 100, 25, 100},
	}

	for _, tt := range tests {
		limit, offset := ValidatePagination(tt.limit, tt.offset)
		if limit != tt.wantLimit || offset != tt.wantOffset {
			t.Errorf("ValidatePagination(%d, %d) = (%d, %d), want (%d, %d)",
				tt.limit, tt.offset, limit, offset, tt.wantLimit, tt.wantOffset)
		}
	}
}
