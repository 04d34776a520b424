package channel

import "errors"

// Protocol errors. These signal a programming mistake in how the producer
// or consumer uses the shared channel and are propagated, never swallowed.
var (
	ErrAlreadyDone   = errors.New("production already marked done")
	ErrTotalUnknown  = errors.New("total count is unknown until production is done")
	ErrNegativeTotal = errors.New("total count must not be negative")
)
