package filter

import (
	"fmt"
)

// Error types for filter operations
type (
	// CompileError indicates a filter expression could not be compiled
	CompileError struct {
		Expression string
		Err        error
	}

	// EvalError indicates a filter could not be evaluated against a loan
	EvalError struct {
		Expression string
		Title      string
		Err        error
	}
)

func (e *CompileError) Error() string {
	return fmt.Sprintf("invalid filter expression %q: %v", e.Expression, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("failed to evaluate filter %q on loan %q: %v", e.Expression, e.Title, e.Err)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}
