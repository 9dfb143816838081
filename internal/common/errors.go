// Package common defines the closed set of sentinel errors shared across
// taskkeeper layers. Services return these values (possibly wrapped with a
// human-readable reason) and callers match them with errors.Is; no layer
// inspects ad-hoc status fields.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Authorization: the record exists but belongs to another user.
	ErrForbidden = errors.New("forbidden")

	// Validation failures. Wrapped with a reason, e.g.
	// fmt.Errorf("%w: title is required", common.ErrValidation).
	ErrValidation = errors.New("validation error")

	// Conflict: registration with an email that is already taken.
	ErrEmailTaken = errors.New("email already registered")

	// Authentication failures. The message is deliberately identical for
	// unknown email and wrong password to avoid account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Configuration faults. Fatal at startup, never swallowed.
	ErrMissingSecret = errors.New("signing secret is not configured")
	ErrMissingDSN    = errors.New("database DSN is not configured")

	// Unexpected storage/runtime faults, stripped of internal detail.
	ErrInternal = errors.New("internal error")
)
