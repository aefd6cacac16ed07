package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError carries a machine-readable code alongside the message so
// handlers can map failures to HTTP statuses without string matching.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeInvalidState  = "INVALID_STATE"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeForbidden     = "FORBIDDEN"
	ErrCodeConflict      = "CONFLICT"
	ErrCodeNetwork       = "NETWORK_ERROR"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Code extracts the application error code, or INTERNAL_ERROR for
// anything that isn't an *AppError.
func Code(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternalError
}

func IsValidation(err error) bool   { return Code(err) == ErrCodeValidation }
func IsNotFound(err error) bool     { return Code(err) == ErrCodeNotFound }
func IsInvalidState(err error) bool { return Code(err) == ErrCodeInvalidState }
func IsConflict(err error) bool     { return Code(err) == ErrCodeConflict }

// HTTPStatus maps an error code to the status handlers should return.
// Network and internal failures both surface as 5xx; the client retries.
func HTTPStatus(err error) int {
	switch Code(err) {
	case ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidState, ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
