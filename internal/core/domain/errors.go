package domain

import "errors"

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrActionNotAllowed  = errors.New("action not allowed")
	// ErrLegacyLookupMiss is returned by legacy readers when the old tasks row is gone.
	// The migrator tolerates it and leaves the task without a status.
	ErrLegacyLookupMiss = errors.New("legacy task row not found")
)
