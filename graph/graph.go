// Package graph turns road polylines into a planar graph: nodes at
// intersections and dead ends, directed edges in both directions along every
// road section, and synthetic edges along the domain border.
package graph

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// NodeID indexes Graph.Nodes.
type NodeID int

// EdgeID indexes the directed edges of a Graph.
type EdgeID int

// UndirectedID indexes the undirected edges of a Graph.
type UndirectedID int

// NodeType classifies a node by position and degree.
type NodeType uint8

const (
	Inner NodeType = iota + 1
	Border
	DeadEnd
)

func (t NodeType) String() string {
	switch t {
	case Inner:
		return "inner"
	case Border:
		return "border"
	case DeadEnd:
		return "deadend"
	default:
		return "unknown"
	}
}

// Domain is the rectangle [Origin, Origin+Dimensions].
type Domain struct {
	Origin     r2.Vec
	Dimensions r2.Vec
}

// Max returns the corner opposite Origin.
func (d Domain) Max() r2.Vec {
	return r2.Add(d.Origin, d.Dimensions)
}

// OnBorder reports whether p lies within eps of any of the four edges.
func (d Domain) OnBorder(p r2.Vec, eps float64) bool {
	hi := d.Max()
	return math.Abs(p.X-hi.X) <= eps ||
		math.Abs(p.X-d.Origin.X) <= eps ||
		math.Abs(p.Y-hi.Y) <= eps ||
		math.Abs(p.Y-d.Origin.Y) <= eps
}

// Node is a road intersection, dead end or border point.
type Node struct {
	ID  NodeID
	Pos r2.Vec

	// Neighbors are the road edges leaving this node.
	Neighbors []EdgeID
	// BorderNeighbors are the border edges leaving this node.
	BorderNeighbors []EdgeID
	Edges           []UndirectedID
	BorderEdges     []UndirectedID
}

// DirectedEdge leads from Start to End through Connection, the interior
// points of the section in travel order.
type DirectedEdge struct {
	ID         EdgeID
	Start      NodeID
	End        NodeID
	Connection []r2.Vec
	Border     bool
	Undirected UndirectedID

	// Visited marks edges that lot walks must never start on or follow.
	// Set on the outward-facing half of every border pair.
	Visited bool

	// Direction points from Start to the first point after it.
	Direction r2.Vec
	// DirectionBackwards points from End to the last point before it.
	DirectionBackwards r2.Vec
}

// UndirectedEdge is one road or border section. Connection holds the full
// polyline including both endpoints.
type UndirectedEdge struct {
	ID         UndirectedID
	Start      NodeID
	End        NodeID
	Connection []r2.Vec
	Border     bool
	Directed   [2]EdgeID // Start->End, End->Start
}

// Direction points along the first segment of the section.
func (e *UndirectedEdge) Direction() r2.Vec {
	return r2.Sub(e.Connection[1], e.Connection[0])
}

// DirectionBackwards points along the last segment of the section, towards
// the start.
func (e *UndirectedEdge) DirectionBackwards() r2.Vec {
	n := len(e.Connection)
	return r2.Sub(e.Connection[n-2], e.Connection[n-1])
}

// Graph is the road network. Nodes and edges live in arenas and refer to
// each other by index.
type Graph struct {
	domain Domain
	dstep  float64

	nodes      []Node
	directed   []DirectedEdge
	undirected []UndirectedEdge

	roadDirected   []EdgeID
	borderDirected []EdgeID
	roadEdges      []UndirectedID
	borderEdges    []UndirectedID

	lines    [][]r2.Vec
	sections [][][]r2.Vec
}

// Domain returns the domain the graph was built over.
func (g *Graph) Domain() Domain { return g.domain }

// Nodes returns all nodes, indexed by NodeID.
func (g *Graph) Nodes() []Node { return g.nodes }

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) *Node { return &g.nodes[id] }

// NumDirectedEdges returns the number of road and border directed edges.
func (g *Graph) NumDirectedEdges() int { return len(g.directed) }

// DirectedEdge returns the directed edge with the given id.
func (g *Graph) DirectedEdge(id EdgeID) *DirectedEdge { return &g.directed[id] }

// UndirectedEdge returns the undirected edge with the given id.
func (g *Graph) UndirectedEdge(id UndirectedID) *UndirectedEdge { return &g.undirected[id] }

// DirectedEdges returns the road directed edges in creation order.
func (g *Graph) DirectedEdges() []EdgeID { return g.roadDirected }

// BorderDirectedEdges returns the border directed edges in creation order.
func (g *Graph) BorderDirectedEdges() []EdgeID { return g.borderDirected }

// Edges returns the road undirected edges in creation order.
func (g *Graph) Edges() []UndirectedID { return g.roadEdges }

// BorderEdges returns the border undirected edges in creation order.
func (g *Graph) BorderEdges() []UndirectedID { return g.borderEdges }

// Sections returns, per input polyline, the sections it was cut into.
func (g *Graph) Sections() [][][]r2.Vec { return g.sections }

// NodeType classifies node id. Nodes within dstep/2 of the border are
// Border; otherwise nodes with fewer than two road neighbours are DeadEnd.
func (g *Graph) NodeType(id NodeID) NodeType {
	n := &g.nodes[id]
	if g.domain.OnBorder(n.Pos, g.dstep/2) {
		return Border
	}
	if len(n.Neighbors) < 2 {
		return DeadEnd
	}
	return Inner
}

// Outgoing returns the road and border edges leaving node id, roads first.
func (g *Graph) Outgoing(id NodeID) []EdgeID {
	n := &g.nodes[id]
	out := make([]EdgeID, 0, len(n.Neighbors)+len(n.BorderNeighbors))
	out = append(out, n.Neighbors...)
	return append(out, n.BorderNeighbors...)
}
