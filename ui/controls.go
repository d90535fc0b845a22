package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/roadgen/telemetry"
)

// ControlsPanel renders the overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Draw renders the controls panel and returns the Y below it.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	categories := overlays.Categories()
	totalItems := len(overlays.All()) + len(categories)
	panelHeight := int32(totalItems)*lineHeight + int32(len(categories))*4 + padding*2 + lineHeight + 4

	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding
	rl.DrawText("Layers", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	for _, category := range categories {
		y = r.DrawSectionHeader(c.x+padding, y, categoryLabel(category))
		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(c.x+padding, y, desc, overlays.IsEnabled(desc.ID), c.width-padding*2)
			y += lineHeight
		}
		y += 4
	}

	return c.y + panelHeight
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)

	nameColor := r.Theme.LabelColor
	if enabled {
		nameColor = rl.White
	}
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "roads":
		return "Roads"
	case "blocks":
		return "Blocks"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}

// StatsPanel renders the generation summary and phase timings.
type StatsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewStatsPanel creates a new stats panel.
func NewStatsPanel(x, y, width int32) *StatsPanel {
	return &StatsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (s *StatsPanel) SetPosition(x, y int32) {
	s.x = x
	s.y = y
}

// Draw renders the stats panel.
func (s *StatsPanel) Draw(stats telemetry.GenerationStats, perf telemetry.PerfStats) int32 {
	r := s.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight
	inner := s.width - padding*2

	panelHeight := lineHeight*int32(12+len(telemetry.Phases)) + padding*2
	r.DrawPanel(s.x, s.y, s.width, panelHeight)

	x := s.x + padding
	y := s.y + padding

	y = r.DrawSectionHeader(x, y, "Network")
	y = r.DrawLabelValue(x, y, "Streamlines", fmt.Sprintf("%d (%d / %d)", stats.Streamlines, stats.MajorLines, stats.MinorLines))
	y = r.DrawLabelValue(x, y, "Road length", fmt.Sprintf("%.0f", stats.RoadLength))
	y = r.DrawLabelValue(x, y, "Nodes", fmt.Sprintf("%d (%d dead ends)", stats.Nodes, stats.DeadEnds))
	y = r.DrawLabelValue(x, y, "Edges", fmt.Sprintf("%d + %d border", stats.RoadEdges, stats.BorderEdges))
	y += 4

	y = r.DrawSectionHeader(x, y, "Lots")
	y = r.DrawLabelValue(x, y, "Count", fmt.Sprintf("%d", stats.Lots))
	y = r.DrawLabelValue(x, y, "Mean area", fmt.Sprintf("%.0f", stats.LotAreaMean))
	y = r.DrawLabelValue(x, y, "P10/50/90", fmt.Sprintf("%.0f / %.0f / %.0f", stats.LotAreaP10, stats.LotAreaP50, stats.LotAreaP90))
	y += 4

	y = r.DrawSectionHeader(x, y, fmt.Sprintf("Timing (%.0f ms)", stats.DurationMS))
	for _, phase := range telemetry.Phases {
		y = r.DrawBar(x, y, phase, perf.PhasePct[phase], inner)
	}

	return y
}
