// Package lots extracts city blocks from a road graph by walking the
// faces of the planar graph.
package lots

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/roadgen/graph"
)

// Lot is a block polygon. The first vertex is not repeated at the end.
type Lot struct {
	Vertices []r2.Vec
}

// Area returns the absolute shoelace area of the polygon.
func (l Lot) Area() float64 {
	return math.Abs(signedArea(l.Vertices))
}

// Centroid returns the area centroid, or the vertex mean for polygons with
// no area.
func (l Lot) Centroid() r2.Vec {
	a := signedArea(l.Vertices)
	if a == 0 {
		var sum r2.Vec
		for _, v := range l.Vertices {
			sum = r2.Add(sum, v)
		}
		if len(l.Vertices) == 0 {
			return sum
		}
		return r2.Scale(1/float64(len(l.Vertices)), sum)
	}

	var c r2.Vec
	n := len(l.Vertices)
	for i, p := range l.Vertices {
		q := l.Vertices[(i+1)%n]
		cross := r2.Cross(p, q)
		c = r2.Add(c, r2.Scale(cross, r2.Add(p, q)))
	}
	return r2.Scale(1/(6*a), c)
}

func signedArea(vs []r2.Vec) float64 {
	var sum float64
	n := len(vs)
	for i, p := range vs {
		sum += r2.Cross(p, vs[(i+1)%n])
	}
	return sum / 2
}

// Finder walks the faces of a graph.
// The graph is only read; visited state lives in the Finder.
type Finder struct {
	graph   *graph.Graph
	visited []bool
	lots    []Lot
	done    bool
}

// NewFinder returns a finder over g.
func NewFinder(g *graph.Graph) *Finder {
	return &Finder{graph: g}
}

// Lots returns the lots of the graph, walking it on first use.
func (f *Finder) Lots() []Lot {
	if !f.done {
		f.find()
		f.done = true
	}
	return f.lots
}

// Visited reports whether edge id was consumed by a walk or pre-visited.
func (f *Finder) Visited(id graph.EdgeID) bool {
	f.Lots()
	return f.visited[id]
}

func (f *Finder) find() {
	g := f.graph
	f.visited = make([]bool, g.NumDirectedEdges())
	for i := range f.visited {
		f.visited[i] = g.DirectedEdge(graph.EdgeID(i)).Visited
	}

	for i := range g.Nodes() {
		for _, e := range g.Outgoing(graph.NodeID(i)) {
			if f.visited[e] {
				continue
			}
			vertices := f.walk(e)
			if len(vertices) >= 3 {
				f.lots = append(f.lots, Lot{Vertices: vertices})
			}
		}
	}
}

// walk follows clockwise turns from start until it reaches a visited edge
// or a node with no way on.
func (f *Finder) walk(start graph.EdgeID) []r2.Vec {
	g := f.graph
	var vertices []r2.Vec

	e, ok := start, true
	for ok && !f.visited[e] {
		edge := g.DirectedEdge(e)
		vertices = append(vertices, g.Node(edge.Start).Pos)
		vertices = append(vertices, edge.Connection...)
		f.visited[e] = true
		e, ok = f.clockwiseNext(e)
	}
	return vertices
}

// clockwiseNext picks the edge to follow after arriving through e: the only
// edge leaving the arrival node, or else the sharpest clockwise turn that
// does not lead straight back.
func (f *Finder) clockwiseNext(e graph.EdgeID) (graph.EdgeID, bool) {
	g := f.graph
	edge := g.DirectedEdge(e)
	candidates := g.Outgoing(edge.End)
	if len(candidates) == 1 {
		return candidates[0], true
	}

	best, found := graph.EdgeID(0), false
	bestAngle := math.Inf(-1)
	for _, c := range candidates {
		next := g.DirectedEdge(c)
		if next.End == edge.Start {
			continue
		}
		a := turnAngle(edge.DirectionBackwards, next.Direction)
		if a > bestAngle {
			best, bestAngle, found = c, a, true
		}
	}
	return best, found
}

// turnAngle returns the counter-clockwise rotation from back to next,
// negated into (-2π, 0]. The largest value is the sharpest clockwise turn.
func turnAngle(back, next r2.Vec) float64 {
	a := math.Atan2(back.Y*next.X-back.X*next.Y, r2.Dot(back, next))
	if a > 0 {
		a -= 2 * math.Pi
	}
	return a
}
