package integrator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/roadgen/tensor"
)

func gridField(theta float64) *tensor.Field {
	f := tensor.NewField(false)
	f.AddGrid(r2.Vec{}, 1e6, 1, theta)
	return f
}

func TestEulerFollowsGrid(t *testing.T) {
	theta := math.Pi / 6
	e := NewEuler(gridField(theta), 2)

	major := e.Integrate(r2.Vec{X: 10, Y: 10}, true)
	assert.InDelta(t, 2*math.Cos(theta), major.X, 1e-9)
	assert.InDelta(t, 2*math.Sin(theta), major.Y, 1e-9)

	minor := e.Integrate(r2.Vec{X: 10, Y: 10}, false)
	assert.InDelta(t, 2, r2.Norm(minor), 1e-9)
	assert.InDelta(t, 0, r2.Dot(major, minor), 1e-9)
}

func TestRK4OnUniformFieldMatchesEuler(t *testing.T) {
	f := gridField(0.4)
	p := r2.Vec{X: 3, Y: -7}
	euler := NewEuler(f, 1).Integrate(p, true)
	rk4 := NewRK4(f, 1).Integrate(p, true)
	assert.InDelta(t, euler.X, rk4.X, 1e-9)
	assert.InDelta(t, euler.Y, rk4.Y, 1e-9)
}

func TestRK4SampleOffsets(t *testing.T) {
	var seen []r2.Vec
	s := samplerFunc(func(p r2.Vec) tensor.Tensor {
		seen = append(seen, p)
		return tensor.FromAngle(0)
	})
	NewRK4(s, 4).Integrate(r2.Vec{X: 1, Y: 1}, true)
	assert.Equal(t, []r2.Vec{{X: 1, Y: 1}, {X: 3, Y: 3}, {X: 5, Y: 5}}, seen)
}

func TestDegenerateFieldGivesZero(t *testing.T) {
	// empty field: unit magnitude, no orientation
	f := tensor.NewField(false)
	got := NewEuler(f, 1).Integrate(r2.Vec{}, true)
	assert.InDelta(t, 1, r2.Norm(got), 1e-12)

	// zero tensor gives a zero step
	zero := samplerFunc(func(r2.Vec) tensor.Tensor { return tensor.Zero() })
	assert.Equal(t, r2.Vec{}, NewRK4(zero, 1).Integrate(r2.Vec{}, true))
}

func TestNew(t *testing.T) {
	f := gridField(0)

	tests := []struct {
		method  string
		want    any
		wantErr error
	}{
		{"euler", &Euler{}, nil},
		{"RK4", &RK4{}, nil},
		{"", &RK4{}, nil},
		{"midpoint", nil, ErrUnknownIntegrator},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			got, err := New(tt.method, f, 1)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, got)
		})
	}

	_, err := New("euler", f, 0)
	assert.ErrorIs(t, err, ErrInvalidStep)
}

type samplerFunc func(p r2.Vec) tensor.Tensor

func (s samplerFunc) Sample(p r2.Vec) tensor.Tensor { return s(p) }
