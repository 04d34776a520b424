package worker

import "errors"

var (
	// ErrCountMismatch means the consumer saw production done but consumed a
	// different number of assignments than the published total.
	ErrCountMismatch = errors.New("consumed count does not match published total")

	// ErrProcessorPanic wraps a panic recovered from a processing step.
	ErrProcessorPanic = errors.New("processor panicked")

	ErrAlreadyStarted = errors.New("coordinator has already been run")
)
