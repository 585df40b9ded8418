package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/propertyops/rentledger/internal/adapter/http/dto"
	"github.com/propertyops/rentledger/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrPaymentNotFound),
		errors.Is(err, domain.ErrLeaseNotFound),
		errors.Is(err, domain.ErrChargeNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTransactionTerminal),
		errors.Is(err, domain.ErrPaymentReversed),
		errors.Is(err, domain.ErrChargeInactive):
		return http.StatusConflict
	case errors.Is(err, domain.ErrVoidReasonRequired),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrMalformedAmount),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrNegativeBalance),
		errors.Is(err, domain.ErrBalanceExceedsAmount),
		errors.Is(err, domain.ErrCurrencyMismatch),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrInvalidCountryCode),
		errors.Is(err, domain.ErrInvalidBillingDay),
		errors.Is(err, domain.ErrPaymentExceedsBalance):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
