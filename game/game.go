// Package game runs road generation either headless or inside the raylib
// viewer, and routes each result to logging, CSV output and PNG export.
package game

import (
	"context"
	"fmt"
	"time"

	"github.com/pthm-cable/roadgen/camera"
	"github.com/pthm-cable/roadgen/city"
	"github.com/pthm-cable/roadgen/config"
	"github.com/pthm-cable/roadgen/renderer"
	"github.com/pthm-cable/roadgen/telemetry"
	"github.com/pthm-cable/roadgen/ui"
)

// Options configures a Game.
type Options struct {
	Seed      int64          // Generation seed; 0 keeps the configured seed
	LogStats  bool           // Log stats via slog after every run
	OutputDir string         // CSV/config/PNG output directory (empty = disabled)
	PNGPath   string         // Explicit PNG path (empty = <OutputDir>/network.png)
	Headless  bool           // Skip all raylib setup
	Config    *config.Config // Configuration (nil = config.Cfg())

	// Context cancels generation in progress (nil = context.Background())
	Context context.Context
}

// Game holds the generated city and, when windowed, the viewer state.
type Game struct {
	cfg      *config.Config
	ctx      context.Context
	opts     renderer.Options
	headless bool
	logStats bool
	pngPath  string

	result        *city.Result
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager

	// Viewer
	camera          *camera.Camera
	scene           *ui.SceneRenderer
	uiOverlays      *ui.OverlayRegistry
	uiControlsPanel *ui.ControlsPanel
	uiStatsPanel    *ui.StatsPanel
	uiHUD           *ui.HUD
	showPanels      bool
	dragging        bool
	status          string
	statusUntil     time.Time

	screenWidth, screenHeight float32
}

// NewGameWithOptions generates the city. In windowed mode the raylib window
// must already be open.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	if opts.Seed != 0 {
		cfg.Generator.Seed = opts.Seed
	}

	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}

	g := &Game{
		cfg:           cfg,
		ctx:           ctx,
		opts:          renderer.OptionsFrom(cfg),
		headless:      opts.Headless,
		logStats:      opts.LogStats || cfg.Telemetry.LogStats,
		pngPath:       opts.PNGPath,
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		outputManager: om,
		showPanels:    true,
	}

	if err := g.generate(); err != nil {
		om.Close()
		return nil, err
	}

	if !g.headless {
		g.initViewer()
	}
	return g, nil
}

// initViewer creates the camera and UI for the generated domain.
func (g *Game) initViewer() {
	g.screenWidth = g.cfg.Derived.ScreenW32
	g.screenHeight = g.cfg.Derived.ScreenH32

	d := g.cfg.Domain
	g.camera = camera.New(g.screenWidth, g.screenHeight,
		float32(d.OriginX), float32(d.OriginY), float32(d.Width), float32(d.Height))

	g.scene = ui.NewSceneRenderer(renderer.SceneFrom(g.result), g.opts)
	g.uiOverlays = ui.NewOverlayRegistry(g.opts)
	g.uiControlsPanel = ui.NewControlsPanel(10, 100, 200)
	g.uiStatsPanel = ui.NewStatsPanel(int32(g.screenWidth)-230, 10, 220)
	g.uiHUD = ui.NewHUD()
}

// generate runs the pipeline with the configured seed and records the result.
func (g *Game) generate() error {
	res, err := city.Generate(g.ctx, g.cfg, g.perfCollector)
	if err != nil {
		return fmt.Errorf("generating seed %d: %w", g.cfg.Generator.Seed, err)
	}
	g.result = res
	g.recordRun()
	return nil
}

// Result returns the most recent generation.
func (g *Game) Result() *city.Result {
	return g.result
}

// Unload flushes output files.
func (g *Game) Unload() {
	if g.outputManager != nil {
		g.outputManager.Close()
	}
}
