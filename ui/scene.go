package ui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/roadgen/camera"
	"github.com/pthm-cable/roadgen/graph"
	"github.com/pthm-cable/roadgen/renderer"
)

// SceneRenderer draws a generated city into the raylib window through a camera.
type SceneRenderer struct {
	scene renderer.Scene
	opts  renderer.Options
	ticks []renderer.Tick
}

// NewSceneRenderer prepares scene for drawing. Field ticks are sampled once.
func NewSceneRenderer(scene renderer.Scene, opts renderer.Options) *SceneRenderer {
	return &SceneRenderer{
		scene: scene,
		opts:  opts,
		ticks: renderer.FieldTicks(scene.Field, scene.Domain, opts.FieldSpacing),
	}
}

// Draw renders the enabled layers, back to front.
func (s *SceneRenderer) Draw(cam *camera.Camera, overlays *OverlayRegistry) {
	rl.ClearBackground(toRL(renderer.Background))

	if overlays.IsEnabled(OverlayLots) {
		s.drawLots(cam, true)
	}
	if overlays.IsEnabled(OverlayLotOutline) {
		s.drawLots(cam, false)
	}
	if overlays.IsEnabled(OverlayField) {
		s.drawField(cam)
	}
	if overlays.IsEnabled(OverlayBorder) {
		s.drawBorder(cam)
	}
	if overlays.IsEnabled(OverlayMinorRoads) {
		s.drawRoads(cam, s.scene.Minor, float32(s.opts.MinorWidth), renderer.MinorColor)
	}
	if overlays.IsEnabled(OverlayMajorRoads) {
		s.drawRoads(cam, s.scene.Major, float32(s.opts.MajorWidth), renderer.MajorColor)
	}
	if overlays.IsEnabled(OverlayNodes) {
		s.drawNodes(cam)
	}
}

func (s *SceneRenderer) drawLots(cam *camera.Camera, fill bool) {
	for i, lot := range s.scene.Lots {
		n := len(lot.Vertices)
		if n < 3 {
			continue
		}
		c := lot.Centroid()
		if !fill {
			for j := 0; j < n; j++ {
				drawSegment(cam, lot.Vertices[j], lot.Vertices[(j+1)%n], 1, toRL(renderer.CasingColor), false)
			}
			continue
		}

		col := toRL(renderer.LotColor(i))
		center := project(cam, c)
		for j := 0; j < n; j++ {
			a := project(cam, lot.Vertices[j])
			b := project(cam, lot.Vertices[(j+1)%n])
			// winding depends on the walk direction; one of the two is culled
			rl.DrawTriangle(center, a, b, col)
			rl.DrawTriangle(center, b, a, col)
		}
	}
}

func (s *SceneRenderer) drawField(cam *camera.Camera) {
	major := toRL(renderer.FieldMajor)
	minor := toRL(renderer.FieldMinor)
	for _, t := range s.ticks {
		col := minor
		if t.Major {
			col = major
		}
		if !cam.IsVisible(float32(t.From.X), float32(t.From.Y), float32(s.opts.FieldSpacing)) {
			continue
		}
		rl.DrawLineV(project(cam, t.From), project(cam, t.To), col)
	}
}

func (s *SceneRenderer) drawBorder(cam *camera.Camera) {
	g := s.scene.Graph
	if g == nil {
		return
	}
	col := toRL(renderer.CasingColor)
	for _, id := range g.BorderEdges() {
		e := g.UndirectedEdge(id)
		drawSegment(cam, g.Node(e.Start).Pos, g.Node(e.End).Pos, 2, col, false)
	}
}

func (s *SceneRenderer) drawRoads(cam *camera.Camera, lines [][]r2.Vec, width float32, fill color.RGBA) {
	casing := toRL(renderer.CasingColor)
	col := toRL(fill)
	for _, pass := range []struct {
		w float32
		c rl.Color
	}{{width + 1, casing}, {width, col}} {
		for _, line := range lines {
			for i := 1; i < len(line); i++ {
				drawSegment(cam, line[i-1], line[i], pass.w, pass.c, true)
			}
		}
	}
}

func (s *SceneRenderer) drawNodes(cam *camera.Camera) {
	g := s.scene.Graph
	if g == nil {
		return
	}
	radius := 3 * cam.Zoom
	if radius < 2 {
		radius = 2
	}
	for i, n := range g.Nodes() {
		if !cam.IsVisible(float32(n.Pos.X), float32(n.Pos.Y), radius/cam.Zoom) {
			continue
		}
		col := toRL(renderer.NodeColor(g.NodeType(graph.NodeID(i))))
		rl.DrawCircleV(project(cam, n.Pos), radius, col)
	}
}

// drawSegment draws a world-space segment. Scaled widths grow with zoom.
func drawSegment(cam *camera.Camera, a, b r2.Vec, width float32, col rl.Color, scaled bool) {
	mid := r2.Scale(0.5, r2.Add(a, b))
	half := float32(r2.Norm(r2.Sub(b, a)) / 2)
	if !cam.IsVisible(float32(mid.X), float32(mid.Y), half+width) {
		return
	}
	if scaled {
		width *= cam.Zoom
	}
	rl.DrawLineEx(project(cam, a), project(cam, b), width, col)
}

func project(cam *camera.Camera, p r2.Vec) rl.Vector2 {
	x, y := cam.WorldToScreen(float32(p.X), float32(p.Y))
	return rl.Vector2{X: x, Y: y}
}

func toRL(c color.RGBA) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
