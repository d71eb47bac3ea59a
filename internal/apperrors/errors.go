package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller may not perform the action.
var ErrForbidden = errors.New("forbidden")

// Resolution errors.
var (
	// ErrInvalidCurrencyCode means a code is malformed, or unknown where a system code was required.
	ErrInvalidCurrencyCode = errors.New("invalid currency code")
	// ErrRuleNotFound means no candidate rule exists for the pair and date.
	ErrRuleNotFound = errors.New("exchange rate rule not found")
	// ErrFallbackCycleDetected means a fallback chain revisited a rule.
	ErrFallbackCycleDetected = errors.New("fallback rule cycle detected")
	// ErrFallbackChainTooDeep means a fallback chain exceeded the hop limit.
	ErrFallbackChainTooDeep = errors.New("fallback rule chain too deep")
	// ErrRateUnavailableForPeriod means every resolution path was exhausted.
	ErrRateUnavailableForPeriod = errors.New("exchange rate unavailable for period")
	// ErrProviderUnavailable means the market rate provider failed or timed out.
	ErrProviderUnavailable = errors.New("market rate provider unavailable")
)

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError wraps err with a code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError returns an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// NewValidationError returns an AppError that matches ErrValidation.
func NewValidationError(message string) *AppError {
	return &AppError{Code: 400, Message: message, Err: ErrValidation}
}
