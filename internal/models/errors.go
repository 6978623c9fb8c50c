package models

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by repositories, services and handlers.
var (
	// ErrMissingCredential is returned when no token or password was supplied.
	ErrMissingCredential = errors.New("missing credential")
	// ErrMissingToken is a MissingCredential for bearer tokens.
	ErrMissingToken = fmt.Errorf("%w: token", ErrMissingCredential)
	// ErrInvalidCredentials covers unknown email, OAuth-only accounts and hash mismatch alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken is returned on bad signature, wrong token type, expiry or revocation.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrDuplicateEmail is raised by the storage layer when the email unique index rejects a row.
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrConstraintViolation is any storage-layer invariant breach.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrInvalidTransition is an order status change not allowed from the current status.
	ErrInvalidTransition = fmt.Errorf("%w: invalid status transition", ErrConstraintViolation)
	// ErrNotFound means the referenced row is absent or soft-deleted.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the principal may not act on the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrServiceUnavailable is returned when storage stays unreachable after one retry.
	ErrServiceUnavailable = errors.New("service unavailable")
)

// NewValidationError wraps ErrConstraintViolation with a client-facing reason.
func NewValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConstraintViolation, fmt.Sprintf(format, args...))
}
