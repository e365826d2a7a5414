package query

import (
	"errors"
	"fmt"
)

var (
	// ErrQueryExecution is the base error for a failed query.
	ErrQueryExecution = errors.New("query execution failed")

	// ErrInterrupted is returned when the run is cancelled from outside.
	ErrInterrupted = errors.New("interrupted")
)

// ExecutionError carries the position of the failed query.
// Use errors.As to extract it from a wrapped error chain.
type ExecutionError struct {
	Index int
	Query string
	Err   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("query %d (%q): %v", e.Index+1, e.Query, e.Err)
}

func (e *ExecutionError) Unwrap() []error { return []error{ErrQueryExecution, e.Err} }
