package domain

import "errors"

// Sentinel errors returned by assignment construction.
// Callers match them with errors.Is; the producer wraps them with the
// position of the offending item in its batch.
var (
	ErrEmptyDescription = errors.New("assignment description must not be empty")
	ErrMissingDueDate   = errors.New("assignment due date is required")
	ErrInvalidPriority  = errors.New("invalid priority: must be HIGH, MEDIUM, or LOW")
)
