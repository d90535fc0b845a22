// Package integrator advances points through a tensor field along its major
// or minor eigenvector.
package integrator

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/roadgen/tensor"
)

// Sampler provides tensors at world positions.
// Implemented by *tensor.Field.
type Sampler interface {
	Sample(p r2.Vec) tensor.Tensor
}

// Integrator returns the displacement for one step from p.
// A zero vector means the field is degenerate at p.
type Integrator interface {
	Integrate(p r2.Vec, major bool) r2.Vec
}

// Method names accepted by New.
const (
	MethodEuler = "euler"
	MethodRK4   = "rk4"
)

// SampleFieldVector returns the major or minor eigenvector of field at p.
func SampleFieldVector(field Sampler, p r2.Vec, major bool) r2.Vec {
	return field.Sample(p).Eigenvector(major)
}

// Euler is the forward Euler integrator.
type Euler struct {
	Field Sampler
	Dstep float64
}

// NewEuler returns an Euler integrator with step length dstep.
func NewEuler(field Sampler, dstep float64) *Euler {
	return &Euler{Field: field, Dstep: dstep}
}

// Integrate implements Integrator.
func (e *Euler) Integrate(p r2.Vec, major bool) r2.Vec {
	return r2.Scale(e.Dstep, SampleFieldVector(e.Field, p, major))
}

// RK4 is a fourth-order Runge-Kutta style integrator.
//
// The intermediate samples are taken at fixed diagonal offsets of p rather
// than along the previous slope, so the four samples are independent.
type RK4 struct {
	Field Sampler
	Dstep float64
}

// NewRK4 returns an RK4 integrator with step length dstep.
func NewRK4(field Sampler, dstep float64) *RK4 {
	return &RK4{Field: field, Dstep: dstep}
}

// Integrate implements Integrator.
func (r *RK4) Integrate(p r2.Vec, major bool) r2.Vec {
	half := r.Dstep / 2
	k1 := SampleFieldVector(r.Field, p, major)
	k23 := SampleFieldVector(r.Field, r2.Add(p, r2.Vec{X: half, Y: half}), major)
	k4 := SampleFieldVector(r.Field, r2.Add(p, r2.Vec{X: r.Dstep, Y: r.Dstep}), major)

	sum := r2.Add(r2.Add(k1, r2.Scale(4, k23)), k4)
	return r2.Scale(r.Dstep/6, sum)
}

// New returns the integrator registered under method.
func New(method string, field Sampler, dstep float64) (Integrator, error) {
	if dstep <= 0 {
		return nil, fmt.Errorf("integrator step %v: %w", dstep, ErrInvalidStep)
	}
	switch strings.ToLower(method) {
	case MethodEuler:
		return NewEuler(field, dstep), nil
	case MethodRK4, "":
		return NewRK4(field, dstep), nil
	default:
		return nil, fmt.Errorf("%q: %w", method, ErrUnknownIntegrator)
	}
}
