// Package error defines domain-specific errors for the Savings Tracker application.
package error

import (
	"errors"
	"fmt"
)

// Ledger domain errors.
var (
	// ErrFutureDate is returned when an event's occurrence date is after today.
	ErrFutureDate = errors.New("occurrence date cannot be in the future")

	// ErrInvalidEventAmount is returned when an event amount is zero or negative.
	ErrInvalidEventAmount = errors.New("event amount must be positive")

	// ErrInvalidEventType is returned when the event type is neither DEPOSIT nor WITHDRAW.
	ErrInvalidEventType = errors.New("invalid event type")

	// ErrMissingRequestID is returned when the client request id is empty.
	ErrMissingRequestID = errors.New("client request id is required")

	// ErrDuplicateRequest is returned when an event with the same client
	// request id has already been recorded for the user. The original command
	// was applied exactly once; the retry is rejected, not replayed.
	ErrDuplicateRequest = errors.New("duplicate client request id")

	// ErrInsufficientBalance is returned when a withdrawal exceeds the goal balance.
	ErrInsufficientBalance = errors.New("insufficient goal balance")

	// ErrInvalidCursor is returned when a pagination cursor fails to decode.
	ErrInvalidCursor = errors.New("invalid pagination cursor")

	// ErrInvalidMonth is returned when a month filter is not of the form YYYY-MM.
	ErrInvalidMonth = errors.New("invalid month filter")

	// ErrInvalidLimit is returned when a page limit is outside 1..100.
	ErrInvalidLimit = errors.New("invalid page limit")
)

// LedgerErrorCode defines error codes for ledger errors.
// Format: LED-XXYYYY where XX is category and YYYY is specific error.
type LedgerErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeFutureDate         LedgerErrorCode = "LED-010001"
	ErrCodeInvalidEventAmount LedgerErrorCode = "LED-010002"
	ErrCodeInvalidEventType   LedgerErrorCode = "LED-010003"
	ErrCodeMissingRequestID   LedgerErrorCode = "LED-010004"
	ErrCodeInvalidCursor      LedgerErrorCode = "LED-010005"
	ErrCodeInvalidMonth       LedgerErrorCode = "LED-010006"
	ErrCodeInvalidLimit       LedgerErrorCode = "LED-010007"
	ErrCodeMissingEventFields LedgerErrorCode = "LED-010008"

	// Conflict errors (02XXXX)
	ErrCodeDuplicateRequest    LedgerErrorCode = "LED-020001"
	ErrCodeInsufficientBalance LedgerErrorCode = "LED-020002"
)

// LedgerError represents a ledger error with code and message.
//
// BalanceCents and RequestedCents are populated only for insufficient-balance
// conflicts, so callers can report the shortfall without re-reading the goal.
type LedgerError struct {
	Code           LedgerErrorCode
	Message        string
	Err            error
	BalanceCents   int64
	RequestedCents int64
}

// Error implements the error interface.
func (e *LedgerError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *LedgerError) Unwrap() error {
	return e.Err
}

// NewLedgerError creates a new LedgerError with the given code and message.
func NewLedgerError(code LedgerErrorCode, message string, err error) *LedgerError {
	return &LedgerError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewInsufficientBalanceError creates the conflict error for a withdrawal that
// exceeds the current balance, carrying both amounts for diagnostics.
func NewInsufficientBalanceError(balanceCents, requestedCents int64) *LedgerError {
	return &LedgerError{
		Code: ErrCodeInsufficientBalance,
		Message: fmt.Sprintf("insufficient balance: have %d, requested %d",
			balanceCents, requestedCents),
		Err:            ErrInsufficientBalance,
		BalanceCents:   balanceCents,
		RequestedCents: requestedCents,
	}
}
