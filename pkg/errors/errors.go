package errors

import (
	"errors"
	"net/http"
)

// ErrorCode classifies a failure for the caller
type ErrorCode string

const (
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeStorage          ErrorCode = "STORAGE_ERROR"
	ErrCodeDelivery         ErrorCode = "DELIVERY_ERROR"
)

// Error carries a client-facing Message next to the cause, which is only
// ever logged. Details name what was wrong with the input, e.g. "field".
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "[" + string(e.Code) + "] " + e.Message
	}
	return "[" + string(e.Code) + "] " + e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetail records key on e and returns e for chaining
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string, 1)
	}
	e.Details[key] = value
	return e
}

// HTTPStatusCode is 400 for input the caller can fix and 500 for everything else
func (e *Error) HTTPStatusCode() int {
	if e.Code == ErrCodeValidationFailed {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// IsCode reports whether err, or anything it wraps, is an *Error with code
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

func newError(code ErrorCode, cause error, message string) *Error {
	return &Error{Code: code, Message: message, Err: cause}
}

// Validation reports input the caller has to correct
func Validation(message string) *Error {
	return newError(ErrCodeValidationFailed, nil, message)
}

// Storage wraps a failure to read or write the record store
func Storage(err error, message string) *Error {
	return newError(ErrCodeStorage, err, message)
}

// Delivery wraps a mail transport or provider failure
func Delivery(err error, message string) *Error {
	return newError(ErrCodeDelivery, err, message)
}

// InternalWrap wraps anything else that went wrong on the server
func InternalWrap(err error, message string) *Error {
	return newError(ErrCodeInternal, err, message)
}
