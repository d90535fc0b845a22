package streamlines

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// minJoinStepSq is the squared field step below which interpolated join
// points are considered degenerate.
const minJoinStepSq = 0.001

// JoinDangling extends the open ends of every streamline towards a nearby
// sample ahead of them, then recomputes the simplified streamlines.
// Major streamlines are processed before minor ones.
func (g *Generator) JoinDangling() {
	for _, major := range []bool{true, false} {
		for i, line := range g.lines {
			if g.lineMajor[i] != major || isClosed(line) || len(line) < 5 {
				continue
			}
			grid := g.Grid(major)

			if target, ok := g.bestNextPoint(line[0], line[4]); ok {
				head := g.pointsBetween(line[0], target)
				grid.AddPolyline(head)
				slices.Reverse(head)
				line = append(head, line...)
			}

			n := len(line)
			if target, ok := g.bestNextPoint(line[n-1], line[n-5]); ok {
				tail := g.pointsBetween(line[n-1], target)
				grid.AddPolyline(tail)
				line = append(line, tail...)
			}
			g.lines[i] = line
		}
	}

	g.simplified = g.simplified[:0]
	for _, line := range g.lines {
		g.simplified = append(g.simplified, Simplify(line, g.params.SimplifyTolerance))
	}
}

// bestNextPoint searches both grids for a sample ahead of point, in the
// direction previous->point. A sample closer than sqrt(2)*dstep is taken at
// once; otherwise the nearest sample within JoinAngle wins. The result is
// nudged past the sample by 4*SimplifyTolerance.
func (g *Generator) bestNextPoint(point, previous r2.Vec) (r2.Vec, bool) {
	nearby := g.majorGrid.NearbyPoints(point, g.params.DLookahead)
	nearby = g.minorGrid.NearbyPointsInto(nearby, point, g.params.DLookahead)
	dir := r2.Sub(point, previous)

	var best r2.Vec
	found := false
	bestDist := math.Inf(1)

	for _, sample := range nearby {
		if sample == point || sample == previous {
			continue
		}
		diff := r2.Sub(sample, point)
		if r2.Dot(diff, dir) < 0 {
			continue
		}

		distSq := r2.Norm2(diff)
		if distSq < 2*g.paramsSq.Dstep {
			best, found = sample, true
			break
		}

		if angleBetween(dir, diff) < g.params.JoinAngle && distSq < bestDist {
			bestDist = distSq
			best, found = sample, true
		}
	}

	if !found {
		return r2.Vec{}, false
	}
	if r2.Norm2(dir) > 0 {
		best = r2.Add(best, r2.Scale(4*g.params.SimplifyTolerance, r2.Unit(dir)))
	}
	return g.clamp(best), true
}

// pointsBetween returns floor(|to-from|/dstep) evenly spaced points from
// from (exclusive) to to (inclusive), stopping before the first point where
// the field is degenerate.
func (g *Generator) pointsBetween(from, to r2.Vec) []r2.Vec {
	delta := r2.Sub(to, from)
	n := int(math.Floor(r2.Norm(delta) / g.params.Dstep))
	if n == 0 {
		return nil
	}

	out := make([]r2.Vec, 0, n)
	for i := 1; i <= n; i++ {
		p := r2.Add(from, r2.Scale(float64(i)/float64(n), delta))
		if r2.Norm2(g.integrator.Integrate(p, true)) <= minJoinStepSq {
			break
		}
		out = append(out, p)
	}
	return out
}

// angleBetween returns the unsigned angle between a and b in [0, π].
// A zero vector has no direction and yields π.
func angleBetween(a, b r2.Vec) float64 {
	na, nb := r2.Norm(a), r2.Norm(b)
	if na == 0 || nb == 0 {
		return math.Pi
	}
	c := r2.Dot(a, b) / (na * nb)
	return math.Acos(max(-1, min(1, c)))
}
