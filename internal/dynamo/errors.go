package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for planning setup.
var (
	// ErrDegenerateBounds indicates an interval whose span is zero, negative or not finite.
	ErrDegenerateBounds = errors.New("dynamo: degenerate bounds (span must be positive and finite)")

	// ErrDimensionMismatch indicates mismatched state/control dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownModel indicates a model name that is not registered.
	ErrUnknownModel = errors.New("dynamo: unknown model")

	// ErrUnknownMethod indicates an integration method that is not registered.
	ErrUnknownMethod = errors.New("dynamo: unknown integration method")

	// ErrUnknownLayout indicates an obstacle layout that is not registered.
	ErrUnknownLayout = errors.New("dynamo: unknown obstacle layout")
)

// CoordError wraps an error with the coordinate it was raised for.
type CoordError struct {
	Index   int
	Name    string
	Wrapped error
}

func (e *CoordError) Error() string {
	return fmt.Sprintf("coordinate %d (%s): %v", e.Index, e.Name, e.Wrapped)
}

func (e *CoordError) Unwrap() error {
	return e.Wrapped
}
