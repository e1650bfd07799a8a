package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a DomainError independently of its wire code.
type Kind string

const (
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindForbidden       Kind = "FORBIDDEN"
	KindValidation      Kind = "VALIDATION_FAILED"
	KindRateLimited     Kind = "RATE_LIMITED"
	KindNotFound        Kind = "NOT_FOUND"
	KindConflict        Kind = "CONFLICT"
	KindInternal        Kind = "INTERNAL"
	// KindDeclared marks failures raised by a handler with its own status and code.
	KindDeclared Kind = "DECLARED"
)

// Wire codes shared by every route.
const (
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeValidation      = "VALIDATION_ERROR"
	CodeRateLimited     = "RATE_LIMITED"
	CodeNotFound        = "NOT_FOUND"
	CodeInternal        = "INTERNAL_ERROR"
	CodeDeclaredDefault = "ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Kind       Kind
	Code       string
	Message    string
	HTTPStatus int
	Details    any
	Err        error
}

// FieldError is a single field-level validation violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RateLimitDetails carries retry metadata for RATE_LIMITED failures.
type RateLimitDetails struct {
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	ResetAt   int64 `json:"resetAt"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a handler-declared DomainError.
func NewDomainError(code, message string, status int, details any) *DomainError {
	if code == "" {
		code = CodeDeclaredDefault
	}
	return &DomainError{Kind: KindDeclared, Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, fields ...FieldError) error {
	err := &DomainError{
		Kind:       KindValidation,
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
	if len(fields) > 0 {
		err.Details = fields
	}
	return err
}

func NewNotFound(resource string) error {
	return &DomainError{
		Kind:       KindNotFound,
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

func NewUnauthorized(message string) error {
	return &DomainError{Kind: KindUnauthenticated, Code: CodeUnauthorized, Message: message, HTTPStatus: http.StatusUnauthorized}
}

// NewUnauthorizedCode is an authentication failure with a flow-specific code such as INVALID_CREDENTIALS.
func NewUnauthorizedCode(code, message string) error {
	return &DomainError{Kind: KindUnauthenticated, Code: code, Message: message, HTTPStatus: http.StatusUnauthorized}
}

func NewForbidden(message string) error {
	return &DomainError{Kind: KindForbidden, Code: CodeForbidden, Message: message, HTTPStatus: http.StatusForbidden}
}

func NewConflict(code, message string) error {
	return &DomainError{Kind: KindConflict, Code: code, Message: message, HTTPStatus: http.StatusConflict}
}

func NewRateLimited(details RateLimitDetails) error {
	return &DomainError{
		Kind:       KindRateLimited,
		Code:       CodeRateLimited,
		Message:    "Too many requests",
		HTTPStatus: http.StatusTooManyRequests,
		Details:    details,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Kind:       KindInternal,
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError. Anything unrecognized
// becomes an internal error whose cause stays server-side.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return NewInternalError(err).(*DomainError)
}

// Is reports whether err carries a DomainError of the given kind.
func Is(err error, kind Kind) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Kind == kind
}
