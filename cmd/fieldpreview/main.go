// Tensor field preview tool - interactive visualization of the configured
// field with sliders for the rotational noise.
//
// Usage: go run ./cmd/fieldpreview [-config path]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/roadgen/camera"
	"github.com/pthm-cable/roadgen/city"
	"github.com/pthm-cable/roadgen/config"
	"github.com/pthm-cable/roadgen/renderer"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 680
	panelWidth   = windowWidth - previewSize - 30
)

func main() {
	configPath := flag.String("config", "", "Path to config file (uses embedded defaults if empty)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	defaults := cfg.Field.Noise

	rl.InitWindow(windowWidth, windowHeight, "Tensor Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	cam := camera.New(previewSize, previewSize,
		float32(cfg.Domain.OriginX), float32(cfg.Domain.OriginY),
		float32(cfg.Domain.Width), float32(cfg.Domain.Height))

	opts := renderer.OptionsFrom(cfg)
	spacing := float32(opts.FieldSpacing)
	var ticks []renderer.Tick
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			field := city.BuildField(cfg)
			ticks = renderer.FieldTicks(field, city.Domain(cfg), float64(spacing))
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Draw preview
		rl.DrawRectangle(10, 10, previewSize, previewSize, toRL(renderer.Background))
		for _, t := range ticks {
			col := toRL(renderer.FieldMinor)
			if t.Major {
				col = toRL(renderer.FieldMajor)
			}
			ax, ay := cam.WorldToScreen(float32(t.From.X), float32(t.From.Y))
			bx, by := cam.WorldToScreen(float32(t.To.X), float32(t.To.Y))
			rl.DrawLineV(rl.Vector2{X: ax + 10, Y: ay + 10}, rl.Vector2{X: bx + 10, Y: by + 10}, col)
		}
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		rl.DrawText(fmt.Sprintf("Ticks: %d  Basis fields: %d grid, %d radial",
			len(ticks), len(cfg.Field.Grids), len(cfg.Field.Radials)),
			15, previewSize+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Field Noise", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		noise := &cfg.Field.Noise

		// Angle slider (degrees for readability)
		rl.DrawText("Angle (max rotation, degrees)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		angleDeg := float32(noise.Angle * 180 / math.Pi)
		newAngle := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "90",
			angleDeg, 0, 90,
		)
		rl.DrawText(fmt.Sprintf("%.1f", angleDeg), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newAngle != angleDeg {
			noise.Angle = float64(newAngle) * math.Pi / 180
			needsRegen = true
		}
		panelY += 35

		// Size slider
		rl.DrawText("Size (world units per period)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSize := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"10", "2000",
			float32(noise.Size), 10, 2000,
		)
		rl.DrawText(fmt.Sprintf("%.0f", noise.Size), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newSize != float32(noise.Size) {
			noise.Size = float64(newSize)
			needsRegen = true
		}
		panelY += 35

		// Seed slider
		rl.DrawText("Seed", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSeed := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "99999",
			float32(noise.Seed), 0, 99999,
		)
		rl.DrawText(fmt.Sprintf("%d", noise.Seed), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int64(newSeed) != noise.Seed {
			noise.Seed = int64(newSeed)
			needsRegen = true
		}
		panelY += 35

		// Tick spacing slider
		rl.DrawText("Tick spacing", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSpacing := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"10", "100",
			spacing, 10, 100,
		)
		rl.DrawText(fmt.Sprintf("%.0f", spacing), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newSpacing != spacing {
			spacing = newSpacing
			needsRegen = true
		}
		panelY += 45

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(cfg.Field.Smooth, "Sharp", "Smooth")) {
			cfg.Field.Smooth = !cfg.Field.Smooth
			needsRegen = true
		}

		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			noise.Seed = int64(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset Noise") {
			*noise = defaults
			needsRegen = true
		}
		panelY += 55

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		snippet := noiseYAML(*noise)
		for _, line := range strings.Split(strings.TrimRight(snippet, "\n"), "\n") {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		// Instructions
		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)

		// Copy to clipboard on C key
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(snippet)
		}

		rl.EndDrawing()
	}
}

// noiseYAML renders the noise settings as a field.noise config fragment.
func noiseYAML(n config.NoiseConfig) string {
	doc := map[string]any{
		"field": map[string]any{
			"noise": n,
		},
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return err.Error()
	}
	return string(out)
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

func toRL(c color.RGBA) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
