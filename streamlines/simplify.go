package streamlines

import "gonum.org/v1/gonum/spatial/r2"

// Simplify reduces points with the Douglas-Peucker algorithm. Vertices closer
// than tolerance to the simplified polyline are dropped; the endpoints are
// always kept. Inputs of two points or fewer are returned as is.
func Simplify(points []r2.Vec, tolerance float64) []r2.Vec {
	if len(points) <= 2 {
		return points
	}
	sqTolerance := tolerance * tolerance

	last := len(points) - 1
	out := make([]r2.Vec, 0, len(points))
	out = append(out, points[0])
	out = simplifyStep(points, 0, last, sqTolerance, out)
	return append(out, points[last])
}

func simplifyStep(points []r2.Vec, first, last int, sqTolerance float64, out []r2.Vec) []r2.Vec {
	maxSqDist := sqTolerance
	index := -1

	for i := first + 1; i < last; i++ {
		d := sqSegmentDistance(points[i], points[first], points[last])
		if d > maxSqDist {
			index = i
			maxSqDist = d
		}
	}

	if index < 0 {
		return out
	}
	if index-first > 1 {
		out = simplifyStep(points, first, index, sqTolerance, out)
	}
	out = append(out, points[index])
	if last-index > 1 {
		out = simplifyStep(points, index, last, sqTolerance, out)
	}
	return out
}

// sqSegmentDistance returns the squared distance from p to segment ab.
func sqSegmentDistance(p, a, b r2.Vec) float64 {
	closest := a
	d := r2.Sub(b, a)

	if d.X != 0 || d.Y != 0 {
		t := r2.Dot(r2.Sub(p, a), d) / r2.Norm2(d)
		if t > 1 {
			closest = b
		} else if t > 0 {
			closest = r2.Add(a, r2.Scale(t, d))
		}
	}
	return r2.Norm2(r2.Sub(p, closest))
}
