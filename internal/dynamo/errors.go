package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for integration runs.
var (
	// ErrInvalidConfig indicates a rejected run configuration. Never retried.
	ErrInvalidConfig = errors.New("dynamo: invalid config")

	// ErrNonConvergence indicates the adaptive step collapsed below the minimum
	// step without being accepted, or the step budget was exhausted.
	ErrNonConvergence = errors.New("dynamo: integration did not converge")

	// ErrOutOfRange indicates a query time outside the stored trajectory span.
	ErrOutOfRange = errors.New("dynamo: time outside trajectory range")

	// ErrDimensionMismatch indicates a state or derivative of the wrong length.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch")

	// ErrNotIncreasing indicates a sample appended out of time order.
	ErrNotIncreasing = errors.New("dynamo: sample times must be strictly increasing")

	// ErrInvalidState indicates a NaN or Inf in a state or derivative.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrUnknownParam indicates a named parameter the model does not have.
	ErrUnknownParam = errors.New("dynamo: unknown parameter")
)

// IntegrationError wraps a run failure with the point where it happened.
//
// Partial holds the samples accepted before the failure. It is never returned
// as a regular result: a failed run yields a nil Trajectory, and callers that
// want the prefix must ask for it through errors.As.
type IntegrationError struct {
	Step    int
	Time    float64
	Dt      float64
	Partial *Trajectory
	Wrapped error
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("step %d (t=%.6g, dt=%.3g): %v", e.Step, e.Time, e.Dt, e.Wrapped)
}

func (e *IntegrationError) Unwrap() error {
	return e.Wrapped
}
