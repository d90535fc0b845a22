package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title  string
	RunID  string
	Seed   int64
	Zoom   float32
	FPS    int32
	Status string
}

// HUDAction is a button press reported by the HUD.
type HUDAction int

const (
	ActionNone HUDAction = iota
	ActionResetView
	ActionSavePNG
)

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	height := int32(72)
	if data.Status != "" {
		height += 20
	}
	h.renderer.DrawPanel(4, 4, 380, height)

	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Seed: %d | Zoom: %.2fx | FPS: %d", data.Seed, data.Zoom, data.FPS),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(fmt.Sprintf("Run %s", data.RunID), 10, 55, 12, rl.Gray)

	if data.Status != "" {
		rl.DrawText(data.Status, 10, 72, 16, rl.Yellow)
	}
}

// DrawButtons draws the action buttons anchored at the bottom right and
// returns the one pressed this frame.
func (h *HUD) DrawButtons(screenWidth, screenHeight int32) HUDAction {
	x := float32(screenWidth - 260)
	y := float32(screenHeight - 45)

	action := ActionNone
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 120, Height: 30}, "Reset View") {
		action = ActionResetView
	}
	if gui.Button(rl.Rectangle{X: x + 130, Y: y, Width: 120, Height: 30}, "Save PNG") {
		action = ActionSavePNG
	}
	return action
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}
