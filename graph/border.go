package graph

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// addBorderConnections adds the four corner nodes, unless a node already
// lies within dstep/2 of one, and chains all nodes on
// (or beyond) each domain edge with border edge pairs.
//
// With y pointing up the unvisited halves run clockwise around the domain:
// up the left edge, left to right along the top, down the right edge and
// right to left along the bottom. The reverse half of every pair is
// pre-visited.
func (g *Graph) addBorderConnections() {
	o := g.domain.Origin
	hi := g.domain.Max()
	eps := g.dstep / 2

	// road ends already sitting on a corner take its place
	g.nodeAt(r2.Vec{X: o.X, Y: hi.Y}) // top left
	g.nodeAt(hi)                      // top right
	g.nodeAt(o)                       // bottom left
	g.nodeAt(r2.Vec{X: hi.X, Y: o.Y}) // bottom right

	var left, bottom, right, top []NodeID
	for i := range g.nodes {
		p := g.nodes[i].Pos
		id := NodeID(i)
		if near(p.X, o.X, eps) || p.X < o.X {
			left = append(left, id)
		}
		if near(p.Y, o.Y, eps) || p.Y < o.Y {
			bottom = append(bottom, id)
		}
		if near(p.X, hi.X, eps) || p.X > hi.X {
			right = append(right, id)
		}
		if near(p.Y, hi.Y, eps) || p.Y > hi.Y {
			top = append(top, id)
		}
	}

	pos := func(id NodeID) r2.Vec { return g.nodes[id].Pos }
	slices.SortStableFunc(left, func(a, b NodeID) int { return cmp.Compare(pos(a).Y, pos(b).Y) })
	slices.SortStableFunc(bottom, func(a, b NodeID) int { return cmp.Compare(pos(b).X, pos(a).X) })
	slices.SortStableFunc(right, func(a, b NodeID) int { return cmp.Compare(pos(b).Y, pos(a).Y) })
	slices.SortStableFunc(top, func(a, b NodeID) int { return cmp.Compare(pos(a).X, pos(b).X) })

	for _, chain := range [][]NodeID{left, bottom, right, top} {
		g.chainBorder(chain)
	}
}

func (g *Graph) chainBorder(chain []NodeID) {
	for i := 0; i+1 < len(chain); i++ {
		a, b := chain[i], chain[i+1]
		full := []r2.Vec{g.nodes[a].Pos, g.nodes[b].Pos}

		fwd, bwd, edge := g.link(a, b, nil, nil, full, true, true)
		g.borderDirected = append(g.borderDirected, fwd, bwd)
		g.borderEdges = append(g.borderEdges, edge)

		g.nodes[a].BorderNeighbors = append(g.nodes[a].BorderNeighbors, fwd)
		g.nodes[b].BorderNeighbors = append(g.nodes[b].BorderNeighbors, bwd)
		g.nodes[a].BorderEdges = append(g.nodes[a].BorderEdges, edge)
		g.nodes[b].BorderEdges = append(g.nodes[b].BorderEdges, edge)
	}
}

func near(a, b, eps float64) bool {
	return a-b <= eps && b-a <= eps
}
