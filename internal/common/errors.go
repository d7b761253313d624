// Package common defines shared constants and sentinel errors used across
// the console, services and storage layers. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput marks a structurally invalid argument (empty identifier,
	// NULL where a value is required). This is a programming-error class and
	// should not occur during normal operation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPermissionDenied means the current user lacks the capability required
	// for the requested operation. Always surfaced as an explicit denial,
	// never as a generic failure.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotAuthenticated means no user is logged in.
	ErrNotAuthenticated = errors.New("not authenticated")
)
