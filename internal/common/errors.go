// Package common defines shared constants and sentinel errors used across
// client and server layers of WatchKeeper. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")

	// Auth errors (invalid, malformed or revoked token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")

	// Client core errors.
	ErrNotAuthenticated      = errors.New("not authenticated")
	ErrEmptyCredentials      = errors.New("username and password are required")
	ErrBusy                  = errors.New("another request is in progress")
	ErrEmptySelection        = errors.New("no items selected")
	ErrValidationFailed      = errors.New("validation failed")
	ErrDeveloperModeRequired = errors.New("developer mode is off")
)
