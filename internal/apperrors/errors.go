package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both genuinely missing resources and resources
	// owned by a different user, so existence is never leaked.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized means the request carried no valid identity.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the identity lacks the required role.
	ErrForbidden = errors.New("forbidden")

	// ErrPaymentVerification means the gateway signature did not match.
	// An order is never created when this is returned.
	ErrPaymentVerification = errors.New("payment verification failed")
)

// ValidationError reports a single offending request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a field-level validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// UpstreamError wraps a database or gateway failure. The wrapped detail is
// logged server-side; clients only ever see a generic message.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError wraps err as an upstream failure of the named operation.
func NewUpstreamError(op string, err error) *UpstreamError {
	return &UpstreamError{Op: op, Err: err}
}
