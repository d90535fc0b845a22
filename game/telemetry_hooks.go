package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/roadgen/city"
	"github.com/pthm-cable/roadgen/renderer"
)

// recordRun logs and writes the result of the latest generation.
func (g *Game) recordRun() {
	perfStats := g.perfCollector.Stats()

	// Log stats if enabled (console output)
	if g.logStats {
		g.result.Stats.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if g.outputManager != nil {
		if err := city.Save(g.outputManager, g.cfg, g.result, g.perfCollector); err != nil {
			slog.Error("failed to write output", "error", err)
		}
	}

	// The viewer saves on demand instead
	if !g.headless {
		return
	}
	if path := g.pngOutputPath(); path != "" {
		if err := g.savePNG(path); err != nil {
			slog.Error("failed to save png", "path", path, "error", err)
		}
	}
}

// pngOutputPath is the explicit PNG path, or network.png in the output
// directory. Empty when neither is set.
func (g *Game) pngOutputPath() string {
	if g.pngPath != "" {
		return g.pngPath
	}
	return g.outputManager.Path("network.png")
}

// viewerPNGPath is where the viewer saves on demand: the configured path,
// or a per-seed file in the working directory.
func (g *Game) viewerPNGPath() string {
	if path := g.pngOutputPath(); path != "" {
		return path
	}
	return fmt.Sprintf("roadgen-%d.png", g.cfg.Generator.Seed)
}

// savePNG renders the current result to path.
func (g *Game) savePNG(path string) error {
	r := g.cfg.Render
	if err := renderer.SavePNG(path, renderer.SceneFrom(g.result), g.opts, r.ImageWidth, r.ImageHeight); err != nil {
		return err
	}
	slog.Info("saved png", "path", path, "run_id", g.result.RunID)
	return nil
}
