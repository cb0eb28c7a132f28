// Package service holds the session and authorization core: credential
// checks, token issuance and validation, revocation and owner-scoped
// contact operations. Each operation reports failure through the sentinel
// errors below, matched with errors.Is at the HTTP boundary.
package service

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateIdentity: the username is already registered.
	ErrDuplicateIdentity = errors.New("username already registered")
	// ErrInvalidCredentials: unknown username or wrong password. The two
	// causes are never distinguished.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenRevoked   = errors.New("token revoked")

	// ErrResourceNotFound covers both absent records and records owned by
	// another user.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrInternal wraps unexpected store failures. The wrapped cause is for
	// logs only.
	ErrInternal = errors.New("internal error")
)

// IsUnauthenticated reports whether err is one of the token failures that
// the boundary reports as a single "unauthorized" condition.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenRevoked)
}

func wrapInternal(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
}
