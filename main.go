package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/roadgen/config"
	"github.com/pthm-cable/roadgen/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Generate once without graphics and exit")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV files, config snapshot and PNG")
	pngPath := flag.String("png", "", "Write a PNG of the network to this path")
	seed := flag.Int64("seed", 0, "Seed for streamline placement (0 = use config)")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Ctrl-C stops a long generation between streamlines
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := game.Options{
		Seed:      *seed,
		LogStats:  *logStats,
		OutputDir: *outputDir,
		PNGPath:   *pngPath,
		Headless:  *headless,
		Config:    cfg,
		Context:   ctx,
	}

	if *headless {
		// Headless mode - generate, write outputs, exit; no raylib needed
		g, err := game.NewGameWithOptions(opts)
		if err != nil {
			slog.Error("generation failed", "error", err)
			stop()
			os.Exit(1)
		}
		g.Unload()

		res := g.Result()
		slog.Info("headless run complete",
			"run_id", res.RunID,
			"seed", res.Seed,
			"output_dir", *outputDir,
		)
		return
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Road Generator")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("generation failed", "error", err)
		return
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()
	}
}
