package graph

import (
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// intersectEps widens the segment parameter range so hits exactly on an
// endpoint are not lost to rounding.
const intersectEps = 1e-9

// extensionFactor scales dstep to the length by which open polyline ends are
// extended when looking for T-intersections.
const extensionFactor = 1.5

// IntersectSegments returns the intersection of segments a0-a1 and b0-b1.
// Parallel and collinear segments never intersect.
func IntersectSegments(a0, a1, b0, b1 r2.Vec) (r2.Vec, bool) {
	r := r2.Sub(a1, a0)
	s := r2.Sub(b1, b0)
	denom := r2.Cross(r, s)
	if denom == 0 {
		return r2.Vec{}, false
	}

	qp := r2.Sub(b0, a0)
	t := r2.Cross(qp, s) / denom
	u := r2.Cross(qp, r) / denom
	if t < -intersectEps || t > 1+intersectEps || u < -intersectEps || u > 1+intersectEps {
		return r2.Vec{}, false
	}
	return r2.Add(a0, r2.Scale(t, r)), true
}

// extension returns the end of a segment continuing end away from prev by
// extensionFactor*dstep.
func extension(end, prev r2.Vec, dstep float64) r2.Vec {
	dir := r2.Sub(end, prev)
	if n := r2.Norm(dir); n > 0 {
		dir = r2.Scale(1/n, dir)
	}
	return r2.Add(end, r2.Scale(extensionFactor*dstep, dir))
}

// sectioner cuts polylines at their mutual intersections.
type sectioner struct {
	lines  [][]r2.Vec
	domain Domain
	dstep  float64
}

func (s *sectioner) onBorder(p r2.Vec) bool {
	return s.domain.OnBorder(p, s.dstep/2)
}

// findIntersections returns every point where segment start-end crosses a
// polyline, or the extension of an open polyline end. Segments of line self
// adjacent to index are skipped, as are all segments of self when it is
// closed. Results are ordered by distance from start.
func (s *sectioner) findIntersections(start, end r2.Vec, self, index int) []r2.Vec {
	var out []r2.Vec
	for k, line := range s.lines {
		closed := isClosed(line)
		if k == self && closed {
			continue
		}
		for m := 0; m < len(line)-1; m++ {
			if k == self && m >= index-1 && m <= index+1 {
				continue
			}
			if p, ok := IntersectSegments(start, end, line[m], line[m+1]); ok {
				out = append(out, p)
			}
		}
		if closed {
			continue
		}
		n := len(line)
		if !s.onBorder(line[0]) {
			if p, ok := s.endpointIntersection(line[0], line[1], start, end); ok {
				out = append(out, p)
			}
		}
		if !s.onBorder(line[n-1]) {
			if p, ok := s.endpointIntersection(line[n-1], line[n-2], start, end); ok {
				out = append(out, p)
			}
		}
	}

	if len(out) > 1 {
		slices.SortStableFunc(out, func(a, b r2.Vec) int {
			da, db := r2.Norm2(r2.Sub(a, start)), r2.Norm2(r2.Sub(b, start))
			switch {
			case da < db:
				return -1
			case da > db:
				return 1
			default:
				return 0
			}
		})
	}
	return out
}

// endpointIntersection intersects segment start-end with the extension of
// a polyline end. Segments that share the endpoint are ignored.
func (s *sectioner) endpointIntersection(endpoint, prev, start, end r2.Vec) (r2.Vec, bool) {
	if endpoint == start || endpoint == end {
		return r2.Vec{}, false
	}
	return IntersectSegments(start, end, extension(endpoint, prev, s.dstep), endpoint)
}

// section cuts line i into sections at every intersection.
// Open ends off the border are extended to pick up T-intersections. The
// last section of a closed line is merged into its first.
func (s *sectioner) section(i int) [][]r2.Vec {
	line := s.lines[i]
	n := len(line)
	closed := isClosed(line)

	var sections [][]r2.Vec
	current := []r2.Vec{line[0]}

	if !closed && !s.onBorder(line[0]) {
		ext := extension(line[0], line[1], s.dstep)
		if hits := s.findIntersections(line[0], ext, i, -1); len(hits) > 0 {
			current = []r2.Vec{hits[0], line[0]}
		}
	}

	for j := 0; j < n-1; j++ {
		for _, p := range s.findIntersections(line[j], line[j+1], i, j) {
			if current[len(current)-1] == p {
				if len(current) == 1 {
					// already split here
					continue
				}
			} else {
				current = append(current, p)
			}
			sections = append(sections, current)
			current = []r2.Vec{p}
		}
		current = appendDistinct(current, line[j+1])
	}

	if closed && len(sections) > 0 {
		// current ends on line[0], which already starts sections[0]
		merged := append(current[:len(current)-1:len(current)-1], sections[0]...)
		sections[0] = merged
		return sections
	}

	if !closed && !s.onBorder(line[n-1]) {
		ext := extension(line[n-1], line[n-2], s.dstep)
		if hits := s.findIntersections(line[n-1], ext, i, n-2); len(hits) > 0 {
			current = appendDistinct(current, hits[0])
		}
	}
	return append(sections, current)
}

func appendDistinct(line []r2.Vec, p r2.Vec) []r2.Vec {
	if len(line) > 0 && line[len(line)-1] == p {
		return line
	}
	return append(line, p)
}

func isClosed(line []r2.Vec) bool {
	return len(line) > 1 && line[0] == line[len(line)-1]
}
