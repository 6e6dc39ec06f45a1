package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrConfiguration indicates that the organization is missing configuration a report depends on,
// or that an explicitly supplied identifier does not exist.
var ErrConfiguration = errors.New("configuration error")

// ErrInvalidRange indicates that a date range is inverted.
var ErrInvalidRange = errors.New("invalid date range")

// Reason is a machine-readable failure code surfaced to API callers.
type Reason string

const (
	ReasonDefaultAccountMissing Reason = "DEFAULT_ACCOUNT_MISSING"
	ReasonUnknownOrganization   Reason = "UNKNOWN_ORGANIZATION"
	ReasonUnknownFiscalType     Reason = "UNKNOWN_FISCAL_TYPE"
	ReasonInvalidDateRange      Reason = "INVALID_DATE_RANGE"
	ReasonInvalidTagSlot        Reason = "INVALID_TAG_SLOT"
)

// AppError couples a sentinel error with a machine-readable reason.
type AppError struct {
	Reason  Reason
	Message string
	Err     error
}

// NewAppError builds an AppError that unwraps to err.
func NewAppError(reason Reason, message string, err error) *AppError {
	return &AppError{Reason: reason, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Reason, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ReasonOf extracts the machine-readable reason from err, if any.
func ReasonOf(err error) (Reason, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Reason, true
	}
	return "", false
}

// NewConfigurationError reports a missing or unknown piece of organization configuration.
func NewConfigurationError(reason Reason, format string, args ...any) *AppError {
	return NewAppError(reason, fmt.Sprintf(format, args...), ErrConfiguration)
}

// NewInvalidRangeError reports an inverted from/thru pair.
func NewInvalidRangeError(format string, args ...any) *AppError {
	return NewAppError(ReasonInvalidDateRange, fmt.Sprintf(format, args...), ErrInvalidRange)
}
