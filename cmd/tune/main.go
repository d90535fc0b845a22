// Package main provides Nelder-Mead tuning of streamline separation so that
// generated networks hit a target mean lot area.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/roadgen/config"
	"github.com/pthm-cable/roadgen/telemetry"
)

// EvalRecord is one row of tune_log.csv.
type EvalRecord struct {
	Eval     int     `csv:"eval"`
	Fitness  float64 `csv:"fitness"`
	Dsep     float64 `csv:"dsep"`
	Dtest    float64 `csv:"dtest"`
	MeanArea float64 `csv:"mean_area"`
	Lots     float64 `csv:"lots"`
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	targetArea := flag.Float64("target-area", 10000, "Target mean lot area in square world units")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 60, "Maximum number of evaluations")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if *seeds < 1 {
		log.Fatal("--seeds must be at least 1")
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	// Load base config
	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()

	params := NewParamVector()

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = baseCfg.Generator.Seed + int64(i*1000)
	}

	evaluator := NewFitnessEvaluator(params, *targetArea, evalSeeds, baseCfg)
	// Interrupting ends the current evaluation and stops the search
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	initX := params.Normalize(params.Clamp(params.ExtractFromConfig(baseCfg)))

	evalLog, err := telemetry.CreateCSVLog(filepath.Join(*outputDir, "tune_log.csv"))
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer evalLog.Close()

	evalCount := 0
	bestFitness := 1e9
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			if ctx.Err() != nil {
				return failedRunFitness
			}
			raw := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(ctx, raw)
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = append([]float64(nil), raw...)
			}

			area, lots := evaluator.LastArea()
			applied := *baseCfg
			params.ApplyToConfig(&applied, raw)
			if err := evalLog.Append([]EvalRecord{{
				Eval:     evalCount,
				Fitness:  fitness,
				Dsep:     applied.Streamlines.Dsep,
				Dtest:    applied.Streamlines.Dtest,
				MeanArea: area,
				Lots:     lots,
			}}); err != nil {
				log.Printf("failed to log evaluation: %v", err)
			}

			elapsed := time.Since(startTime)
			avgPerEval := elapsed / time.Duration(evalCount)
			remaining := time.Duration(max(*maxEvals-evalCount, 0)) * avgPerEval

			fmt.Printf("Eval %d/%d: dsep=%.1f dtest=%.1f area=%.0f lots=%.0f err=%.4f (best=%.4f) | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, applied.Streamlines.Dsep, applied.Streamlines.Dtest,
				area, lots, fitness, bestFitness,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
		Status: func() (optimize.Status, error) {
			if err := ctx.Err(); err != nil {
				return optimize.Failure, err
			}
			return optimize.NotTerminated, nil
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Sequential evaluation, seeds run in parallel
	}
	method := &optimize.NelderMead{
		SimplexSize: 0.2,
	}

	fmt.Printf("Starting Nelder-Mead with %d parameters, target_area=%.0f, max_evals=%d, seeds=%d\n",
		params.Dim(), *targetArea, *maxEvals, *seeds)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluations completed")
	}

	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.6f\n", bestFitness)

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s (%s): %.3f\n", spec.Name, spec.Path, bestParams[i])
	}

	// Save best config
	bestCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to reload config: %v", err)
	}
	params.ApplyToConfig(bestCfg, bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}
