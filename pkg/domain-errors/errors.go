// Package domainerrors defines the coded errors services surface to callers.
// Stores return sentinel errors (pkg/platform/sentinel) for infrastructure
// facts; services translate those into coded errors here, and the transport
// layer maps codes onto HTTP statuses. Nothing is recovered silently.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code classifies a domain error for callers and for HTTP translation.
type Code string

const (
	// CodeNotFound: a referenced entity id does not resolve.
	CodeNotFound Code = "not_found"
	// CodeConflict: a concurrent mutation invalidated a precondition
	// (copy no longer available, loan already closed).
	CodeConflict Code = "conflict"
	// CodeForbidden: the actor's scope does not cover the target library
	// or operation.
	CodeForbidden Code = "forbidden"
	// CodeValidation: well-formed input violating a business rule, e.g. a
	// duplicate reader email.
	CodeValidation Code = "validation_failed"
	// CodeBadRequest: malformed input.
	CodeBadRequest Code = "bad_request"
	// CodeUnauthorized: missing or invalid actor credentials.
	CodeUnauthorized Code = "unauthorized"
	// CodeInternal: unexpected failure; details are logged, not exposed.
	CodeInternal Code = "internal_error"
)

// DomainError carries a code plus a caller-facing message.
type DomainError struct {
	Code    Code
	Message string
	wrapped error
}

func (e *DomainError) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return string(e.Code) + ": " + e.Message
}

func (e *DomainError) Unwrap() error { return e.wrapped }

// New creates a coded domain error.
func New(code Code, message string) error {
	return &DomainError{Code: code, Message: message}
}

// Wrap creates a coded domain error that preserves the underlying cause for
// errors.Is / errors.As chains.
func Wrap(err error, code Code, message string) error {
	return &DomainError{Code: code, Message: message, wrapped: err}
}

// HasCode reports whether err (or anything it wraps) is a domain error with
// the given code.
func HasCode(err error, code Code) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is a readability alias for HasCode at service call sites.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf extracts the code from err, defaulting to CodeInternal for
// unclassified errors.
func CodeOf(err error) Code {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the caller-facing message, empty when unclassified.
func MessageOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}

// ToHTTPStatus maps a code onto its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeForbidden:
		return http.StatusForbidden
	case CodeValidation:
		return http.StatusUnprocessableEntity
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
