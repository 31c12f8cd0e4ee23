// Package errors defines the application error taxonomy for the property
// tracker. Every failure the interactive flow can recover from carries an
// ErrorType, so the menu loop can decide between re-prompting the operator
// and aborting the run.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType classifies application errors.
type ErrorType string

const (
	ErrTypeValidation       ErrorType = "VALIDATION"
	ErrTypeInvalidRange     ErrorType = "INVALID_RANGE"
	ErrTypeNotFound         ErrorType = "NOT_FOUND"
	ErrTypeInsufficientData ErrorType = "INSUFFICIENT_DATA"
	ErrTypeDivisionByZero   ErrorType = "DIVISION_BY_ZERO"
	ErrTypeNetwork          ErrorType = "NETWORK"
	ErrTypeConfig           ErrorType = "CONFIG"
	ErrTypeStorage          ErrorType = "STORAGE"
)

// AppError is an application-specific error with a type, an operator-facing
// message and an optional wrapped cause.
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to reach the cause.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext attaches a key/value pair to the error for logging.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new application error.
func New(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// NewValidationError reports a malformed row or user-entered value.
func NewValidationError(message string) *AppError {
	return New(ErrTypeValidation, message, nil)
}

// NewInvalidRangeError reports a range query whose start bound comes after
// its end bound. Bounds are never silently swapped.
func NewInvalidRangeError(start, end string) *AppError {
	return New(ErrTypeInvalidRange, fmt.Sprintf("start %s is after end %s", start, end), nil)
}

// NewNotFoundError reports a requested year/quarter absent from the dataset.
func NewNotFoundError(what string) *AppError {
	return New(ErrTypeNotFound, fmt.Sprintf("%s not found in dataset", what), nil)
}

// NewInsufficientDataError reports a selection too small to analyse.
func NewInsufficientDataError(count int) *AppError {
	return New(ErrTypeInsufficientData,
		fmt.Sprintf("need at least 2 data points, selection has %d", count), nil)
}

// NewDivisionByZeroError reports a percent-change base of zero. Callers
// degrade this to an "N/A" in the output rather than aborting.
func NewDivisionByZeroError(message string) *AppError {
	return New(ErrTypeDivisionByZero, message, nil)
}

// NewNetworkError reports a failure reaching the remote spreadsheet.
func NewNetworkError(message string, cause error) *AppError {
	return New(ErrTypeNetwork, message, cause)
}

// NewConfigError reports invalid or missing configuration.
func NewConfigError(message string, cause error) *AppError {
	return New(ErrTypeConfig, message, cause)
}

// NewStorageError reports a local file write failure.
func NewStorageError(message string, cause error) *AppError {
	return New(ErrTypeStorage, message, cause)
}

// TypeOf returns the ErrorType of err, or "" when err carries none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	return TypeOf(err) == t
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return IsType(err, ErrTypeValidation) }

// IsInvalidRange reports whether err is an invalid-range error.
func IsInvalidRange(err error) bool { return IsType(err, ErrTypeInvalidRange) }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return IsType(err, ErrTypeNotFound) }

// IsInsufficientData reports whether err is an insufficient-data error.
func IsInsufficientData(err error) bool { return IsType(err, ErrTypeInsufficientData) }

// IsDivisionByZero reports whether err is a division-by-zero error.
func IsDivisionByZero(err error) bool { return IsType(err, ErrTypeDivisionByZero) }

// IsFatal reports whether err should terminate the run. Only adapter-level
// failures (network, config, local storage) are fatal; everything else is
// reported to the operator and the menu continues.
func IsFatal(err error) bool {
	switch TypeOf(err) {
	case ErrTypeNetwork, ErrTypeConfig, ErrTypeStorage:
		return true
	}
	return false
}
