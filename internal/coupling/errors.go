package coupling

import (
	"errors"
	"fmt"
)

// Validation errors for sweep parameters.
var (
	// ErrStepCount indicates a sweep with fewer than one step.
	ErrStepCount = errors.New("coupling: step count must be at least 1")

	// ErrNonFinite indicates a NaN or Inf in a parameter.
	ErrNonFinite = errors.New("coupling: parameter is not finite")

	// ErrCouplingIncrement indicates a sweep whose coupling values would not
	// be strictly increasing.
	ErrCouplingIncrement = errors.New("coupling: coupling increment must be positive")
)

// ParamError wraps a validation error with the offending field.
type ParamError struct {
	Field   string
	Value   any
	Wrapped error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s (%s=%v)", e.Wrapped.Error(), e.Field, e.Value)
}

func (e *ParamError) Unwrap() error {
	return e.Wrapped
}
