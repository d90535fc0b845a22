package tensor

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Kind identifies the pattern a basis field produces.
type Kind uint8

const (
	// Grid fields have a fixed orientation everywhere.
	Grid Kind = iota
	// Radial fields circle around their center.
	Radial
)

// String returns the lower-case kind name used in configuration files.
func (k Kind) String() string {
	switch k {
	case Grid:
		return "grid"
	case Radial:
		return "radial"
	default:
		return "unknown"
	}
}

// BasisField is one localized contributor to a Field.
// Theta is only used by Grid fields.
type BasisField struct {
	Kind   Kind
	Center r2.Vec
	Size   float64 // falloff radius, > 0
	Decay  float64 // falloff exponent, >= 0
	Theta  float64
}

// NewGrid returns a grid basis field oriented at theta.
func NewGrid(center r2.Vec, size, decay, theta float64) BasisField {
	return BasisField{Kind: Grid, Center: center, Size: size, Decay: decay, Theta: theta}
}

// NewRadial returns a radial basis field around center.
func NewRadial(center r2.Vec, size, decay float64) BasisField {
	return BasisField{Kind: Radial, Center: center, Size: size, Decay: decay}
}

// Sample returns the unweighted tensor of the field at p.
func (f BasisField) Sample(p r2.Vec) Tensor {
	switch f.Kind {
	case Grid:
		return FromAngle(f.Theta)
	case Radial:
		t := r2.Sub(p, f.Center)
		return New(1, [2]float64{t.Y*t.Y - t.X*t.X, -2 * t.X * t.Y})
	default:
		return Zero()
	}
}

// Weight returns the distance-based influence of the field at p.
//
// Smooth weights decay as a gaussian and never reach zero. Non-smooth
// weights have compact support and vanish beyond Size.
func (f BasisField) Weight(p r2.Vec, smooth bool) float64 {
	d := r2.Norm(r2.Sub(p, f.Center)) / f.Size
	if smooth {
		return math.Exp(-f.Decay * d * d)
	}
	if f.Decay == 0 && d >= 1 {
		return 0
	}
	return math.Pow(math.Max(0, 1-d), f.Decay)
}

// WeightedTensor returns Sample(p) scaled by Weight(p, smooth).
func (f BasisField) WeightedTensor(p r2.Vec, smooth bool) Tensor {
	return f.Sample(p).Scale(f.Weight(p, smooth))
}
