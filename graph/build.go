package graph

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// Build creates the road graph of lines over domain.
//
// Lines are cut at their intersections, section endpoints within dstep/2 of
// each other share a node, and the nodes on each domain edge are chained by
// border edges.
func Build(lines [][]r2.Vec, domain Domain, dstep float64) (*Graph, error) {
	if !(domain.Dimensions.X > 0) || !(domain.Dimensions.Y > 0) {
		return nil, fmt.Errorf("dimensions %v: %w", domain.Dimensions, ErrEmptyDomain)
	}
	if !(dstep > 0) {
		return nil, fmt.Errorf("dstep = %v must be positive: %w", dstep, ErrInvalidParams)
	}
	for i, line := range lines {
		if len(line) < 2 {
			return nil, fmt.Errorf("line %d has %d points: %w", i, len(line), ErrDegenerateLine)
		}
	}

	g := &Graph{
		domain:   domain,
		dstep:    dstep,
		lines:    lines,
		sections: make([][][]r2.Vec, len(lines)),
	}

	s := &sectioner{lines: lines, domain: domain, dstep: dstep}
	for i := range lines {
		g.sections[i] = s.section(i)
	}

	for _, sections := range g.sections {
		for _, section := range sections {
			g.addSection(section)
		}
	}
	g.addBorderConnections()
	return g, nil
}

// findNode returns the first node within dstep/2 of p.
func (g *Graph) findNode(p r2.Vec) (NodeID, bool) {
	tolSq := (g.dstep / 2) * (g.dstep / 2)
	for i := range g.nodes {
		if r2.Norm2(r2.Sub(g.nodes[i].Pos, p)) <= tolSq {
			return NodeID(i), true
		}
	}
	return 0, false
}

func (g *Graph) addNode(p r2.Vec) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, Node{ID: id, Pos: p})
	return id
}

func (g *Graph) nodeAt(p r2.Vec) NodeID {
	if id, ok := g.findNode(p); ok {
		return id
	}
	return g.addNode(p)
}

// addSection links the endpoints of section by a road edge pair.
// Sections collapsing onto a single node without interior points are dropped.
func (g *Graph) addSection(section []r2.Vec) {
	if len(section) < 2 {
		return
	}
	start := g.nodeAt(section[0])
	end := g.nodeAt(section[len(section)-1])
	if start == end && len(section) <= 2 {
		return
	}

	connection := slices.Clone(section[1 : len(section)-1])
	reversed := slices.Clone(connection)
	slices.Reverse(reversed)

	fwd, bwd, edge := g.link(start, end, connection, reversed, section, false, false)
	g.roadDirected = append(g.roadDirected, fwd, bwd)
	g.roadEdges = append(g.roadEdges, edge)

	g.nodes[start].Neighbors = append(g.nodes[start].Neighbors, fwd)
	g.nodes[end].Neighbors = append(g.nodes[end].Neighbors, bwd)
	g.nodes[start].Edges = append(g.nodes[start].Edges, edge)
	if end != start {
		g.nodes[end].Edges = append(g.nodes[end].Edges, edge)
	}
}

// link creates a directed edge pair and the undirected edge joining them.
// visitedBackward pre-marks the End->Start edge.
func (g *Graph) link(start, end NodeID, connection, reversed, full []r2.Vec, border, visitedBackward bool) (EdgeID, EdgeID, UndirectedID) {
	fwd := EdgeID(len(g.directed))
	bwd := fwd + 1
	edge := UndirectedID(len(g.undirected))

	g.directed = append(g.directed,
		g.newDirected(fwd, start, end, connection, border, edge, false),
		g.newDirected(bwd, end, start, reversed, border, edge, visitedBackward),
	)
	g.undirected = append(g.undirected, UndirectedEdge{
		ID:         edge,
		Start:      start,
		End:        end,
		Connection: full,
		Border:     border,
		Directed:   [2]EdgeID{fwd, bwd},
	})
	return fwd, bwd, edge
}

func (g *Graph) newDirected(id EdgeID, start, end NodeID, connection []r2.Vec, border bool, edge UndirectedID, visited bool) DirectedEdge {
	startPos, endPos := g.nodes[start].Pos, g.nodes[end].Pos

	next, prev := endPos, startPos
	if len(connection) > 0 {
		next = connection[0]
		prev = connection[len(connection)-1]
	}

	return DirectedEdge{
		ID:                 id,
		Start:              start,
		End:                end,
		Connection:         connection,
		Border:             border,
		Undirected:         edge,
		Visited:            visited,
		Direction:          r2.Sub(next, startPos),
		DirectionBackwards: r2.Sub(prev, endPos),
	}
}
