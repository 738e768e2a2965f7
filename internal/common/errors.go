// Package common defines shared sentinel errors used across the service and
// transport layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors.
	ErrInternal   = errors.New("internal error")
	ErrValidation = errors.New("validation error")

	// ErrNoBudget means the user has no budget configured for the month in
	// question. The aggregator surfaces it to the client; the alert engine
	// swallows it.
	ErrNoBudget = errors.New("no budget found for month")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrUnauthorized = errors.New("unauthorized")
)
