package fractal

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the fractal engine.
// Use errors.Is to test for them; most are wrapped with detail.
var (
	// ErrInvalidViewport is returned when a viewport has a non-positive
	// dimension, zoom, or iteration limit. Validation happens before any
	// pixel is computed.
	ErrInvalidViewport = errors.New("fractal: invalid viewport")

	// ErrComputationAborted is returned when a render fails part way
	// through, because a worker panicked or the context was cancelled.
	// No partial grid is ever returned alongside it.
	ErrComputationAborted = errors.New("fractal: computation aborted")

	// ErrClosed is returned by Compute after the strategy has been closed.
	ErrClosed = errors.New("fractal: strategy closed")

	// ErrCloseTimeout is returned by Close when in-flight work did not
	// drain within the configured close timeout.
	ErrCloseTimeout = errors.New("fractal: close timed out waiting for workers")

	// ErrUnknownFamily is returned by ParseFamily.
	ErrUnknownFamily = errors.New("fractal: unknown fractal family")

	// ErrUnknownPalette is returned by ParsePalette.
	ErrUnknownPalette = errors.New("fractal: unknown palette")

	// ErrUnknownStrategy is returned by ParseStrategy.
	ErrUnknownStrategy = errors.New("fractal: unknown strategy")
)

// ComputationError describes an aborted render.
// It matches both ErrComputationAborted and its Cause under errors.Is.
type ComputationError struct {
	Strategy StrategyKind
	Cause    error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("fractal: %s computation aborted: %v", e.Strategy, e.Cause)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *ComputationError) Unwrap() []error {
	return []error{ErrComputationAborted, e.Cause}
}

func aborted(kind StrategyKind, cause error) error {
	return &ComputationError{Strategy: kind, Cause: cause}
}
