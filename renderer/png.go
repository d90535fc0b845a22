package renderer

import (
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/pthm-cable/roadgen/graph"
)

// NewPlot builds a plot of the scene with axes hidden and the view fixed to
// the domain. Layers are stacked lots, field, minor roads, major roads,
// nodes.
func NewPlot(scene Scene, opts Options) (*plot.Plot, error) {
	p := plot.New()
	p.BackgroundColor = Background
	p.HideAxes()

	lo, hi := scene.Domain.Origin, scene.Domain.Max()
	p.X.Min, p.X.Max = lo.X, hi.X
	p.Y.Min, p.Y.Max = lo.Y, hi.Y

	if opts.ShowLots {
		for i, l := range scene.Lots {
			poly, err := plotter.NewPolygon(toXYs(l.Vertices))
			if err != nil {
				return nil, fmt.Errorf("lot %d: %w", i, err)
			}
			poly.Color = LotColor(i)
			poly.LineStyle.Width = 0
			p.Add(poly)
		}
	}

	if opts.ShowField {
		for _, t := range FieldTicks(scene.Field, scene.Domain, opts.FieldSpacing) {
			c := FieldMinor
			if t.Major {
				c = FieldMajor
			}
			if err := addLine(p, []r2.Vec{t.From, t.To}, c, 0.5); err != nil {
				return nil, err
			}
		}
	}

	for _, layer := range []struct {
		lines [][]r2.Vec
		width float64
		color color.Color
	}{
		{scene.Minor, opts.MinorWidth, MinorColor},
		{scene.Major, opts.MajorWidth, MajorColor},
	} {
		for _, l := range layer.lines {
			if err := addLine(p, l, CasingColor, layer.width+1); err != nil {
				return nil, err
			}
		}
		for _, l := range layer.lines {
			if err := addLine(p, l, layer.color, layer.width); err != nil {
				return nil, err
			}
		}
	}

	if opts.ShowNodes && scene.Graph != nil {
		byType := make(map[graph.NodeType]plotter.XYs)
		for i, n := range scene.Graph.Nodes() {
			t := scene.Graph.NodeType(graph.NodeID(i))
			byType[t] = append(byType[t], plotter.XY{X: n.Pos.X, Y: n.Pos.Y})
		}
		for _, t := range []graph.NodeType{graph.Border, graph.DeadEnd, graph.Inner} {
			if len(byType[t]) == 0 {
				continue
			}
			s, err := plotter.NewScatter(byType[t])
			if err != nil {
				return nil, fmt.Errorf("%s nodes: %w", t, err)
			}
			s.GlyphStyle.Color = NodeColor(t)
			s.GlyphStyle.Radius = vg.Points(1.5)
			s.GlyphStyle.Shape = draw.CircleGlyph{}
			p.Add(s)
		}
	}

	return p, nil
}

// SavePNG renders the scene to a PNG file of the given size in points.
func SavePNG(path string, scene Scene, opts Options, width, height float64) error {
	p, err := NewPlot(scene, opts)
	if err != nil {
		return err
	}
	if err := p.Save(vg.Points(width), vg.Points(height), path); err != nil {
		return fmt.Errorf("save network plot: %w", err)
	}
	return nil
}

func addLine(p *plot.Plot, pts []r2.Vec, c color.Color, width float64) error {
	if len(pts) < 2 {
		return nil
	}
	l, err := plotter.NewLine(toXYs(pts))
	if err != nil {
		return err
	}
	l.Color = c
	l.Width = vg.Points(width)
	p.Add(l)
	return nil
}

func toXYs(pts []r2.Vec) plotter.XYs {
	xys := make(plotter.XYs, len(pts))
	for i, v := range pts {
		xys[i] = plotter.XY{X: v.X, Y: v.Y}
	}
	return xys
}
