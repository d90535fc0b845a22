package integrator

import "errors"

var (
	// ErrUnknownIntegrator is returned by New for an unrecognised method name.
	ErrUnknownIntegrator = errors.New("unknown integrator")
	// ErrInvalidStep is returned by New for a non-positive step length.
	ErrInvalidStep = errors.New("integrator step must be positive")
)
