// Package tensor provides the orientation tensors and basis fields that drive
// streamline tracing.
package tensor

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Tensor is a symmetric 2x2 orientation tensor stored in polar form.
// Matrix holds the double-angle encoding [cos(2θ), sin(2θ)] (scaled by any
// accumulated magnitude), R holds the magnitude.
type Tensor struct {
	R      float64
	Matrix [2]float64
}

// New returns a tensor with the given magnitude and matrix.
func New(r float64, matrix [2]float64) Tensor {
	return Tensor{R: r, Matrix: matrix}
}

// FromAngle returns a unit tensor whose major eigenvector points at theta.
func FromAngle(theta float64) Tensor {
	return Tensor{R: 1, Matrix: [2]float64{math.Cos(2 * theta), math.Sin(2 * theta)}}
}

// Zero returns the zero tensor.
func Zero() Tensor {
	return Tensor{}
}

// Theta returns the orientation of the major eigenvector.
// The value is derived from the double-angle encoding, so it is only
// defined modulo π. Returns 0 when the magnitude is zero.
func (t Tensor) Theta() float64 {
	if t.R == 0 {
		return 0
	}
	return math.Atan2(t.Matrix[1]/t.R, t.Matrix[0]/t.R) / 2
}

// Add accumulates other into t, each weighted by its own magnitude.
// In smooth mode the new magnitude is the norm of the summed matrix;
// otherwise it is fixed at 2 so overlapping fields combine by direction only.
func (t Tensor) Add(other Tensor, smooth bool) Tensor {
	t.Matrix[0] = t.Matrix[0]*t.R + other.Matrix[0]*other.R
	t.Matrix[1] = t.Matrix[1]*t.R + other.Matrix[1]*other.R
	if smooth {
		t.R = math.Hypot(t.Matrix[0], t.Matrix[1])
	} else {
		t.R = 2
	}
	return t
}

// Scale multiplies the magnitude by s.
func (t Tensor) Scale(s float64) Tensor {
	t.R *= s
	return t
}

// Rotate turns the orientation by theta radians. The resulting orientation
// is normalised to [0, π).
func (t Tensor) Rotate(theta float64) Tensor {
	if theta == 0 {
		return t
	}
	next := math.Mod(t.Theta()+theta, math.Pi)
	if next < 0 {
		next += math.Pi
	}
	t.Matrix[0] = math.Cos(2*next) * t.R
	t.Matrix[1] = math.Sin(2*next) * t.R
	return t
}

// Major returns the unit major eigenvector, or the zero vector when the
// tensor has no magnitude (no flow at this point).
func (t Tensor) Major() r2.Vec {
	if t.R == 0 {
		return r2.Vec{}
	}
	theta := t.Theta()
	return r2.Vec{X: math.Cos(theta), Y: math.Sin(theta)}
}

// Minor returns the unit minor eigenvector, perpendicular to Major.
func (t Tensor) Minor() r2.Vec {
	if t.R == 0 {
		return r2.Vec{}
	}
	angle := t.Theta() + math.Pi/2
	return r2.Vec{X: math.Cos(angle), Y: math.Sin(angle)}
}

// Eigenvector returns Major when major is true, otherwise Minor.
func (t Tensor) Eigenvector(major bool) r2.Vec {
	if major {
		return t.Major()
	}
	return t.Minor()
}
