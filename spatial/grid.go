// Package spatial provides a uniform cell grid for separation tests and
// neighbourhood queries over a rectangular domain.
package spatial

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Grid stores samples bucketed into square cells of side Dsep.
// Cells cover [origin, origin+dimensions); points outside the domain are
// bucketed into cell (0,0).
type Grid struct {
	origin     r2.Vec
	dimensions r2.Vec
	dsep       float64
	cols       int
	rows       int
	cells      [][]r2.Vec // flat grid, index = col*rows + row
	count      int
}

// NewGrid creates a grid covering dimensions starting at origin.
func NewGrid(origin, dimensions r2.Vec, dsep float64) *Grid {
	cols := max(int(math.Ceil(dimensions.X/dsep)), 1)
	rows := max(int(math.Ceil(dimensions.Y/dsep)), 1)

	return &Grid{
		origin:     origin,
		dimensions: dimensions,
		dsep:       dsep,
		cols:       cols,
		rows:       rows,
		cells:      make([][]r2.Vec, cols*rows),
	}
}

// Dsep returns the cell size.
func (g *Grid) Dsep() float64 { return g.dsep }

// Size returns the number of cells along each axis.
func (g *Grid) Size() (cols, rows int) { return g.cols, g.rows }

// Len returns the number of stored samples.
func (g *Grid) Len() int { return g.count }

// Clear removes all samples, keeping cell capacity.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	g.count = 0
}

// AddSample inserts p.
func (g *Grid) AddSample(p r2.Vec) {
	col, row := g.CellCoords(p)
	idx := g.index(col, row)
	g.cells[idx] = append(g.cells[idx], p)
	g.count++
}

// AddPolyline inserts every vertex of line.
func (g *Grid) AddPolyline(line []r2.Vec) {
	for _, p := range line {
		g.AddSample(p)
	}
}

// AddAll inserts every sample stored in other.
func (g *Grid) AddAll(other *Grid) {
	for _, cell := range other.cells {
		for _, p := range cell {
			g.AddSample(p)
		}
	}
}

// Samples returns every stored sample in cell order.
func (g *Grid) Samples() []r2.Vec {
	out := make([]r2.Vec, 0, g.count)
	for _, cell := range g.cells {
		out = append(out, cell...)
	}
	return out
}

// IsValidSample reports whether no sample in the 3x3 cell neighbourhood of
// p lies at squared distance less than dSq.
func (g *Grid) IsValidSample(p r2.Vec, dSq float64) bool {
	col, row := g.CellCoords(p)
	for dc := -1; dc <= 1; dc++ {
		for dr := -1; dr <= 1; dr++ {
			c, r := col+dc, row+dr
			if !g.inGrid(c, r) {
				continue
			}
			for _, s := range g.cells[g.index(c, r)] {
				if r2.Norm2(r2.Sub(s, p)) < dSq {
					return false
				}
			}
		}
	}
	return true
}

// NearbyPoints returns all samples within a square of cells around p.
// The cell radius is ceil(distance/dsep - 0.5); results are not filtered by
// Euclidean distance.
func (g *Grid) NearbyPoints(p r2.Vec, distance float64) []r2.Vec {
	return g.NearbyPointsInto(nil, p, distance)
}

// NearbyPointsInto is NearbyPoints appending to dst.
// Reuse dst across calls to avoid allocations.
func (g *Grid) NearbyPointsInto(dst []r2.Vec, p r2.Vec, distance float64) []r2.Vec {
	radius := int(math.Ceil(distance/g.dsep - 0.5))
	col, row := g.CellCoords(p)

	for dc := -radius; dc <= radius; dc++ {
		c := col + dc
		if c < 0 || c >= g.cols {
			continue
		}
		for dr := -radius; dr <= radius; dr++ {
			r := row + dr
			if r < 0 || r >= g.rows {
				continue
			}
			dst = append(dst, g.cells[g.index(c, r)]...)
		}
	}
	return dst
}

// CellCoords returns the cell containing p, or (0,0) when p lies outside
// the domain.
func (g *Grid) CellCoords(p r2.Vec) (col, row int) {
	local := r2.Sub(p, g.origin)
	if local.X < 0 || local.Y < 0 || local.X >= g.dimensions.X || local.Y >= g.dimensions.Y {
		return 0, 0
	}
	col = int(math.Floor(local.X / g.dsep))
	row = int(math.Floor(local.Y / g.dsep))

	// Clamp to valid range
	if col >= g.cols {
		col = g.cols - 1
	}
	if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}

func (g *Grid) inGrid(col, row int) bool {
	return col >= 0 && row >= 0 && col < g.cols && row < g.rows
}

func (g *Grid) index(col, row int) int {
	return col*g.rows + row
}
