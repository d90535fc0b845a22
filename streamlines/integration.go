package streamlines

import (
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// minStepSq is the squared step length below which the field is treated as
// degenerate and a trace branch stops.
const minStepSq = 0.01

// integration is the state of one branch of a bidirectional trace.
type integration struct {
	seed        r2.Vec
	originalDir r2.Vec
	points      []r2.Vec
	previousDir r2.Vec
	previousPt  r2.Vec
	valid       bool
}

// integrateStreamline traces forward and backward from seed, one step per
// branch per iteration, and returns reversed(backward) ++ forward.
func (g *Generator) integrateStreamline(seed r2.Vec, major bool) []r2.Vec {
	collideBoth := g.rng.Float64() < g.params.CollideEarly

	d := g.integrator.Integrate(seed, major)
	forward := &integration{
		seed:        seed,
		originalDir: d,
		points:      []r2.Vec{seed},
		previousDir: d,
		previousPt:  r2.Add(seed, d),
	}
	forward.valid = g.inBounds(forward.previousPt)

	back := r2.Scale(-1, d)
	backward := &integration{
		seed:        seed,
		originalDir: back,
		previousDir: back,
		previousPt:  r2.Add(seed, back),
	}
	backward.valid = g.inBounds(backward.previousPt)

	escaped := false
	for count := 0; count < g.params.PathIterations && (forward.valid || backward.valid); count++ {
		g.step(forward, major, collideBoth)
		g.step(backward, major, collideBoth)

		distSq := r2.Norm2(r2.Sub(forward.previousPt, backward.previousPt))
		if !escaped && distSq > g.paramsSq.DCircleJoin {
			escaped = true
		}
		if escaped && distSq <= g.paramsSq.DCircleJoin {
			// Loop closed: both branches end on the backward tip.
			forward.points = append(forward.points, forward.previousPt, backward.previousPt)
			backward.points = append(backward.points, backward.previousPt)
			break
		}
	}

	slices.Reverse(backward.points)
	return append(backward.points, forward.points...)
}

// step advances one branch by a single integration step.
func (g *Generator) step(it *integration, major, collideBoth bool) {
	if !it.valid {
		return
	}
	it.points = append(it.points, it.previousPt)

	next := g.integrator.Integrate(it.previousPt, major)
	if r2.Norm2(next) < minStepSq {
		it.valid = false
		return
	}
	if r2.Dot(next, it.previousDir) < 0 {
		next = r2.Scale(-1, next)
	}

	nextPt := r2.Add(it.previousPt, next)
	if g.inBounds(nextPt) &&
		g.isValidSample(major, nextPt, g.paramsSq.Dtest, collideBoth) &&
		!turned(it.seed, it.originalDir, nextPt, next) {
		it.previousPt = nextPt
		it.previousDir = next
		return
	}

	if !g.inBounds(nextPt) {
		nextPt = g.clip(it.previousPt, nextPt)
	}
	if nextPt != it.previousPt {
		it.points = append(it.points, nextPt)
	}
	it.valid = false
}

// turned reports whether a branch travelling along dir at p has swung back
// past perpendicular to its original direction and is heading towards the
// side of the seed it came from.
func turned(seed, originalDir, p, dir r2.Vec) bool {
	if r2.Dot(originalDir, dir) >= 0 {
		return false
	}
	perp := r2.Vec{X: originalDir.Y, Y: -originalDir.X}
	isLeft := r2.Dot(r2.Sub(p, seed), perp) < 0
	up := r2.Dot(dir, perp) > 0
	return isLeft == up
}
