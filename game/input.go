package game

import (
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// statusDuration is how long HUD status messages stay visible.
const statusDuration = 3 * time.Second

// Update processes one frame of input.
func (g *Game) Update() {
	g.perfCollector.RecordFrame()
	g.handleInput()
}

// handleInput processes keyboard input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	// Overlay toggles
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		if id, enabled, ok := g.uiOverlays.HandleKeyPress(key); ok {
			slog.Debug("overlay toggled", "overlay", id, "enabled", enabled)
		}
	}

	if rl.IsKeyPressed(rl.KeyS) {
		g.saveViewerPNG()
	}

	if rl.IsKeyPressed(rl.KeyTab) {
		g.showPanels = !g.showPanels
	}
	if rl.IsKeyPressed(rl.KeyH) {
		g.uiControlsPanel.Toggle()
	}

	// Camera controls
	g.handleCameraInput()
}

// saveViewerPNG writes the current city to a PNG and reports the path.
func (g *Game) saveViewerPNG() {
	path := g.viewerPNGPath()
	if err := g.savePNG(path); err != nil {
		slog.Error("failed to save png", "path", path, "error", err)
		g.setStatus("PNG export failed")
		return
	}
	g.setStatus("Saved " + path)
}

func (g *Game) setStatus(msg string) {
	g.status = msg
	g.statusUntil = time.Now().Add(statusDuration)
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(w, h)
	g.uiStatsPanel.SetPosition(int32(w)-230, 10)
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	// Pan speed is in screen pixels; Pan divides by zoom
	panSpeed := float32(8.0)

	// Arrow key panning
	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -panSpeed)
	}

	// Mouse drag panning
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		g.dragging = true
	}
	if rl.IsMouseButtonReleased(rl.MouseButtonLeft) {
		g.dragging = false
	}
	if g.dragging {
		delta := rl.GetMouseDelta()
		if delta.X != 0 || delta.Y != 0 {
			g.camera.Pan(-delta.X, -delta.Y)
		}
	}

	// Zoom toward the cursor with the mouse wheel
	wheelMove := rl.GetMouseWheelMove()
	if wheelMove != 0 {
		mouse := rl.GetMousePosition()
		g.camera.ZoomAt(mouse.X, mouse.Y, float32(1.0)+wheelMove*0.1)
	}

	// Keyboard zoom with +/- (= and - keys)
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	// Home key to reset camera
	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}
