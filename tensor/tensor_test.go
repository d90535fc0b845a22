package tensor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"
)

const eps = 1e-9

func TestZero(t *testing.T) {
	z := Zero()
	assert.Equal(t, 0.0, z.R)
	assert.Equal(t, [2]float64{0, 0}, z.Matrix)
	assert.Equal(t, 0.0, z.Theta())
	assert.Equal(t, r2.Vec{}, z.Major())
	assert.Equal(t, r2.Vec{}, z.Minor())
}

func TestThetaFromMatrix(t *testing.T) {
	theta := math.Pi / 4
	tn := FromAngle(theta)
	assert.InDelta(t, theta, tn.Theta(), eps)
}

func TestMajorMinor(t *testing.T) {
	theta := math.Pi / 4
	tn := FromAngle(theta)

	major := tn.Major()
	assert.InDelta(t, math.Cos(theta), major.X, eps)
	assert.InDelta(t, math.Sin(theta), major.Y, eps)

	minor := tn.Minor()
	assert.InDelta(t, math.Cos(theta+math.Pi/2), minor.X, eps)
	assert.InDelta(t, math.Sin(theta+math.Pi/2), minor.Y, eps)
}

func TestEigenvectorsUnitAndOrthogonal(t *testing.T) {
	for _, tn := range []Tensor{
		FromAngle(0.3),
		FromAngle(-2.1),
		New(5, [2]float64{-3, 4}),
		New(0.01, [2]float64{1e-4, -7e-5}),
	} {
		major, minor := tn.Major(), tn.Minor()
		assert.InDelta(t, 1, r2.Norm(major), eps)
		assert.InDelta(t, 1, r2.Norm(minor), eps)
		assert.InDelta(t, 0, r2.Dot(major, minor), eps)
	}
}

func TestScale(t *testing.T) {
	tn := New(1, [2]float64{0, 1}).Scale(2)
	assert.Equal(t, 2.0, tn.R)
	assert.Equal(t, [2]float64{0, 1}, tn.Matrix)
}

func TestAdd(t *testing.T) {
	theta1 := math.Atan2(1, 1)
	theta2 := 0.0
	t1 := FromAngle(theta1)
	t2 := FromAngle(theta2)

	sum := t1.Add(t2, false)
	assert.Equal(t, 2.0, sum.R)
	assert.InDelta(t, math.Cos(2*theta1)+math.Cos(2*theta2), sum.Matrix[0], eps)
	assert.InDelta(t, math.Sin(2*theta1)+math.Sin(2*theta2), sum.Matrix[1], eps)
	assert.InDelta(t, math.Pi/8, sum.Theta(), eps)

	major := sum.Major()
	assert.InDelta(t, math.Cos(math.Pi/8), major.X, eps)
	assert.InDelta(t, math.Sin(math.Pi/8), major.Y, eps)

	// receiver is a value, untouched by Add
	assert.Equal(t, 1.0, t1.R)
}

func TestAddSmooth(t *testing.T) {
	theta1 := math.Atan2(1, 1)
	t1 := FromAngle(theta1)
	t2 := FromAngle(0)

	sum := t1.Add(t2, true)
	x := math.Cos(2*theta1) + 1
	y := math.Sin(2 * theta1)
	assert.InDelta(t, math.Sqrt(x*x+y*y), sum.R, eps)
	assert.InDelta(t, x, sum.Matrix[0], eps)
	assert.InDelta(t, y, sum.Matrix[1], eps)
	assert.InDelta(t, math.Pi/8, sum.Theta(), eps)
}

func TestRotate(t *testing.T) {
	tests := []struct {
		name  string
		start float64
		by    float64
		want  float64
	}{
		{"no rotation", 0.4, 0, 0.4},
		{"quarter turn", 0, math.Pi / 2, math.Pi / 2},
		{"wraps past pi", 3 * math.Pi / 4, math.Pi / 2, math.Pi / 4},
		{"negative", math.Pi / 8, -math.Pi / 4, 7 * math.Pi / 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromAngle(tt.start).Rotate(tt.by)
			// orientation is defined modulo π
			diff := math.Mod(got.Theta()-tt.want+2*math.Pi, math.Pi)
			if diff > math.Pi/2 {
				diff -= math.Pi
			}
			assert.InDelta(t, 0, diff, 1e-9)
			assert.Equal(t, 1.0, got.R)
		})
	}
}
