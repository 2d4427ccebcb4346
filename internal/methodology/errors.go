package methodology

import (
	"errors"

	"github.com/rotisserie/eris"
)

var (
	// ErrInvalidGeometry marks degenerate line constructions: two vertical lines,
	// parallel lines, a fit through two points of equal temperature, or evaluating
	// a line in a direction it cannot be evaluated.
	ErrInvalidGeometry = eris.New("invalid geometry")
	// ErrNoConvergence is returned when the saturation-curve bisection exhausts its step budget.
	ErrNoConvergence = eris.New("saturation intersection did not converge")
	// ErrConfig marks an invalid component set, parameter set or climate request.
	ErrConfig = eris.New("invalid configuration")
	// ErrMissingDependency marks a component configured without the component its mode builds on.
	ErrMissingDependency = eris.New("missing component dependency")
	// ErrOracle wraps failures of the humid-air property oracle.
	ErrOracle = eris.New("property evaluation failed")
)

// IsConfigError reports whether err was caused by invalid input rather than by
// a failure while computing boundaries.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfig) || errors.Is(err, ErrMissingDependency)
}
