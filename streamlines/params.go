// Package streamlines traces evenly spaced hyperstreamlines through a tensor
// field. The resulting polylines are the road centre-lines of a city.
package streamlines

import (
	"fmt"
	"math"
)

// Params controls streamline placement and tracing.
type Params struct {
	Dsep              float64 // separation distance between seeds
	Dtest             float64 // separation distance tested while tracing, <= Dsep
	Dstep             float64 // integration step length
	DCircleJoin       float64 // distance at which the two branches close a loop
	DLookahead        float64 // search distance when joining dangling ends
	JoinAngle         float64 // max angle (radians) between a dangling end and its join target
	PathIterations    int     // upper bound on steps per streamline
	SeedTries         int     // upper bound on random seed attempts
	SimplifyTolerance float64 // Douglas-Peucker tolerance
	CollideEarly      float64 // probability [0,1] of testing against both grids
}

// DefaultParams returns the parameters of the reference city layout.
func DefaultParams() Params {
	return Params{
		Dsep:              100,
		Dtest:             30,
		Dstep:             1,
		DCircleJoin:       5,
		DLookahead:        200,
		JoinAngle:         0.1,
		PathIterations:    1500,
		SeedTries:         500,
		SimplifyTolerance: 0.01,
		CollideEarly:      0,
	}
}

// Validate reports the first out of range parameter.
func (p Params) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"dsep", p.Dsep},
		{"dtest", p.Dtest},
		{"dstep", p.Dstep},
		{"dcirclejoin", p.DCircleJoin},
		{"dlookahead", p.DLookahead},
	}
	for _, f := range positive {
		if !(f.value > 0) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%s = %v must be positive: %w", f.name, f.value, ErrInvalidParams)
		}
	}
	if p.JoinAngle < 0 {
		return fmt.Errorf("joinangle = %v must not be negative: %w", p.JoinAngle, ErrInvalidParams)
	}
	if p.PathIterations < 0 || p.SeedTries < 0 {
		return fmt.Errorf("path_iterations = %d, seed_tries = %d must not be negative: %w",
			p.PathIterations, p.SeedTries, ErrInvalidParams)
	}
	if p.SimplifyTolerance < 0 {
		return fmt.Errorf("simplify_tolerance = %v must not be negative: %w", p.SimplifyTolerance, ErrInvalidParams)
	}
	if p.CollideEarly < 0 || p.CollideEarly > 1 {
		return fmt.Errorf("collide_early = %v must be in [0, 1]: %w", p.CollideEarly, ErrInvalidParams)
	}
	return nil
}

// Squared returns a copy with every distance squared.
// Angles, counts and the CollideEarly probability are left unchanged.
func (p Params) Squared() Params {
	sq := p
	sq.Dsep *= p.Dsep
	sq.Dtest *= p.Dtest
	sq.Dstep *= p.Dstep
	sq.DCircleJoin *= p.DCircleJoin
	sq.DLookahead *= p.DLookahead
	sq.SimplifyTolerance *= p.SimplifyTolerance
	return sq
}
