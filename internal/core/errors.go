package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for the pipeline's failure taxonomy.
var (
	// ErrEmptyInput reports an empty or whitespace-only user request.
	// It is fatal and raised before any stage runs.
	ErrEmptyInput = errors.New("user input cannot be empty")

	// ErrNoUsableCode reports that no iteration of the generate/review
	// loop ever produced non-empty code. It is the only agent-driven
	// condition that aborts the whole pipeline.
	ErrNoUsableCode = errors.New("no code was generated after maximum iterations")
)

// OrderingError signals an internal invariant break: a stage finished but
// was not recorded in the completed-steps sequence. It indicates a bug in
// the orchestrator itself, never expected agent behavior.
type OrderingError struct {
	Stage string
}

func (e *OrderingError) Error() string {
	return fmt.Sprintf("pipeline order violation: stage %s must complete before proceeding", e.Stage)
}

// StageError wraps a failure from one stage's agent call, after the retry
// policy has been exhausted.
type StageError struct {
	Stage   string
	Attempt int
	Cause   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed (attempt %d): %v", e.Stage, e.Attempt, e.Cause)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}

// IsOrderingViolation reports whether err is an internal ordering
// assertion failure.
func IsOrderingViolation(err error) bool {
	var oe *OrderingError
	return errors.As(err, &oe)
}
