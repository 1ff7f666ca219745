// Package common defines shared constants and sentinel errors used across
// the Chrima server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// Auth errors.
	ErrDuplicateUser      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")

	// Session token errors (invalid, malformed or expired).
	ErrInvalidToken   = errors.New("invalid token")
	ErrSessionExpired = errors.New("session expired")

	// Game phase errors.
	ErrInsufficientParticipants = errors.New("not enough participants")
	ErrNotAssignedYet           = errors.New("not assigned yet")
	ErrRevealNotEnabled         = errors.New("reveal is not enabled yet")
)
