package domain

import "errors"

var (
	// Transaction errors
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrTransactionTerminal  = errors.New("transaction is in a terminal state")
	ErrVoidReasonRequired   = errors.New("void reason is required")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrNegativeBalance      = errors.New("balance cannot be negative")
	ErrBalanceExceedsAmount = errors.New("balance exceeds transaction amount")
	ErrCurrencyMismatch     = errors.New("payment currency does not match transaction currency")

	// Payment errors
	ErrPaymentNotFound       = errors.New("payment not found")
	ErrPaymentReversed       = errors.New("payment is already reversed")
	ErrPaymentExceedsBalance = errors.New("payment exceeds remaining balance")

	// Lease / billing errors
	ErrLeaseNotFound     = errors.New("lease not found")
	ErrInvalidBillingDay = errors.New("billing day must be between 1 and 28")
	ErrChargeNotFound    = errors.New("recurring charge not found")
	ErrChargeInactive    = errors.New("recurring charge is inactive")
)
