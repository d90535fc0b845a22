package tensor

import (
	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r2"
)

// NoiseParams configures rotational noise applied on top of the summed field.
type NoiseParams struct {
	Seed  int64
	Size  float64 // world units per noise period
	Angle float64 // maximum rotation in radians
}

// rotationNoise perturbs tensor orientation with coherent noise.
type rotationNoise struct {
	params NoiseParams
	src    opensimplex.Noise
}

func newRotationNoise(params NoiseParams) *rotationNoise {
	return &rotationNoise{params: params, src: opensimplex.New(params.Seed)}
}

// angle returns the rotation to apply at p, in [-Angle, Angle].
func (n *rotationNoise) angle(p r2.Vec) float64 {
	return n.src.Eval2(p.X/n.params.Size, p.Y/n.params.Size) * n.params.Angle
}
