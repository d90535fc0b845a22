package game

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/roadgen/ui"
)

// controlsHelp is the key legend drawn at the bottom of the screen.
const controlsHelp = "Drag/Arrows: Pan | Wheel: Zoom | HOME: Reset | S: Save PNG | TAB: Panels | H: Layers"

// Draw renders the city and the UI.
func (g *Game) Draw() {
	rl.BeginDrawing()

	g.scene.Draw(g.camera, g.uiOverlays)

	if g.showPanels {
		g.drawUI()
	}

	rl.EndDrawing()
}

// drawUI draws the HUD, panels and buttons.
func (g *Game) drawUI() {
	status := ""
	if time.Now().Before(g.statusUntil) {
		status = g.status
	}

	g.uiHUD.Draw(ui.HUDData{
		Title:  "Road Generator",
		RunID:  g.result.RunID,
		Seed:   g.cfg.Generator.Seed,
		Zoom:   g.camera.Zoom,
		FPS:    rl.GetFPS(),
		Status: status,
	})

	g.uiControlsPanel.Draw(g.uiOverlays)
	g.uiStatsPanel.Draw(g.result.Stats, g.perfCollector.Stats())

	switch g.uiHUD.DrawButtons(int32(g.screenWidth), int32(g.screenHeight)) {
	case ui.ActionResetView:
		g.camera.Reset()
	case ui.ActionSavePNG:
		g.saveViewerPNG()
	}

	g.uiHUD.DrawControls(int32(g.screenHeight), controlsHelp)
}
