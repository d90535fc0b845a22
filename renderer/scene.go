// Package renderer turns a generated city into drawable layers and renders
// them to images.
package renderer

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/roadgen/city"
	"github.com/pthm-cable/roadgen/config"
	"github.com/pthm-cable/roadgen/graph"
	"github.com/pthm-cable/roadgen/lots"
	"github.com/pthm-cable/roadgen/tensor"
)

// Sampler returns the tensor at a point.
type Sampler interface {
	Sample(p r2.Vec) tensor.Tensor
}

// Scene holds everything the renderers draw.
type Scene struct {
	Domain graph.Domain
	Major  [][]r2.Vec
	Minor  [][]r2.Vec
	Graph  *graph.Graph
	Lots   []lots.Lot
	Field  Sampler
}

// SceneFrom collects the drawable layers of a generation result.
func SceneFrom(res *city.Result) Scene {
	return Scene{
		Domain: res.Graph.Domain(),
		Major:  res.Generator.Major(),
		Minor:  res.Generator.Minor(),
		Graph:  res.Graph,
		Lots:   res.Lots,
		Field:  res.Field,
	}
}

// Options controls what gets drawn.
type Options struct {
	MajorWidth   float64
	MinorWidth   float64
	ShowLots     bool
	ShowNodes    bool
	ShowField    bool
	FieldSpacing float64
}

// OptionsFrom reads drawing options from the render section of cfg.
func OptionsFrom(cfg *config.Config) Options {
	r := cfg.Render
	return Options{
		MajorWidth:   r.MajorWidth,
		MinorWidth:   r.MinorWidth,
		ShowLots:     r.ShowLots,
		ShowNodes:    r.ShowNodes,
		ShowField:    r.ShowField,
		FieldSpacing: r.FieldSpacing,
	}
}

// Tick is a short segment along one eigenvector of the field.
type Tick struct {
	From, To r2.Vec
	Major    bool
}

// FieldTicks samples field on a lattice with the given spacing over domain
// and returns a major and a minor tick, each spacing*0.4 long, centered on
// every lattice point. Points where the field has no orientation are skipped.
func FieldTicks(field Sampler, domain graph.Domain, spacing float64) []Tick {
	if field == nil || !(spacing > 0) {
		return nil
	}
	half := spacing * 0.2
	var ticks []Tick
	for x := domain.Origin.X + spacing/2; x < domain.Origin.X+domain.Dimensions.X; x += spacing {
		for y := domain.Origin.Y + spacing/2; y < domain.Origin.Y+domain.Dimensions.Y; y += spacing {
			p := r2.Vec{X: x, Y: y}
			t := field.Sample(p)
			for _, major := range []bool{true, false} {
				dir := t.Eigenvector(major)
				if r2.Norm2(dir) == 0 {
					continue
				}
				d := r2.Scale(half, dir)
				ticks = append(ticks, Tick{From: r2.Sub(p, d), To: r2.Add(p, d), Major: major})
			}
		}
	}
	return ticks
}

// Palette colors.
var (
	Background  = color.RGBA{R: 236, G: 233, B: 225, A: 255}
	MajorColor  = color.RGBA{R: 250, G: 200, B: 90, A: 255}
	MinorColor  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	CasingColor = color.RGBA{R: 90, G: 90, B: 90, A: 255}
	FieldMajor  = color.RGBA{R: 200, G: 60, B: 60, A: 200}
	FieldMinor  = color.RGBA{R: 60, G: 60, B: 200, A: 200}
)

// LotColor returns a stable pastel fill for lot i.
func LotColor(i int) color.RGBA {
	// golden-angle hue walk
	h := math.Mod(float64(i)*137.508, 360)
	return hsl(h, 0.35, 0.82)
}

// NodeColor returns the marker color for a node type.
func NodeColor(t graph.NodeType) color.RGBA {
	switch t {
	case graph.Inner:
		return color.RGBA{R: 40, G: 120, B: 200, A: 255}
	case graph.DeadEnd:
		return color.RGBA{R: 210, G: 60, B: 60, A: 255}
	default:
		return color.RGBA{R: 60, G: 160, B: 80, A: 255}
	}
}

func hsl(h, s, l float64) color.RGBA {
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return color.RGBA{
		R: uint8(math.Round((r + m) * 255)),
		G: uint8(math.Round((g + m) * 255)),
		B: uint8(math.Round((b + m) * 255)),
		A: 255,
	}
}
