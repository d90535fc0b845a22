// Package city wires configuration, tensor field, streamline generation,
// graph building and lot finding into one generation run.
package city

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/roadgen/config"
	"github.com/pthm-cable/roadgen/graph"
	"github.com/pthm-cable/roadgen/integrator"
	"github.com/pthm-cable/roadgen/lots"
	"github.com/pthm-cable/roadgen/streamlines"
	"github.com/pthm-cable/roadgen/telemetry"
	"github.com/pthm-cable/roadgen/tensor"
)

// Result is a finished generation.
type Result struct {
	RunID string
	Seed  int64

	Field     *tensor.Field
	Generator *streamlines.Generator
	Graph     *graph.Graph
	Lots      []lots.Lot

	Stats telemetry.GenerationStats
	Perf  telemetry.PerfSample
}

// Streamlines returns every traced streamline.
func (r *Result) Streamlines() [][]r2.Vec { return r.Generator.All() }

// MajorFlags reports, per streamline, whether it follows the major direction.
func (r *Result) MajorFlags() []bool {
	flags := make([]bool, len(r.Generator.All()))
	for i := range flags {
		flags[i] = r.Generator.IsMajor(i)
	}
	return flags
}

// BuildField creates the tensor field described by cfg.
func BuildField(cfg *config.Config) *tensor.Field {
	f := tensor.NewField(cfg.Field.Smooth)
	for _, g := range cfg.Field.Grids {
		f.AddGrid(r2.Vec{X: g.X, Y: g.Y}, g.Size, g.Decay, g.Theta)
	}
	for _, rc := range cfg.Field.Radials {
		f.AddRadial(r2.Vec{X: rc.X, Y: rc.Y}, rc.Size, rc.Decay)
	}
	f.SetNoise(tensor.NoiseParams{
		Seed:  cfg.Field.Noise.Seed,
		Size:  cfg.Field.Noise.Size,
		Angle: cfg.Field.Noise.Angle,
	})
	return f
}

// Params converts the streamline section of cfg.
func Params(cfg *config.Config) streamlines.Params {
	s := cfg.Streamlines
	return streamlines.Params{
		Dsep:              s.Dsep,
		Dtest:             s.Dtest,
		Dstep:             s.Dstep,
		DCircleJoin:       s.DCircleJoin,
		DLookahead:        s.DLookahead,
		JoinAngle:         s.JoinAngle,
		PathIterations:    s.PathIterations,
		SeedTries:         s.SeedTries,
		SimplifyTolerance: s.SimplifyTolerance,
		CollideEarly:      s.CollideEarly,
	}
}

// Domain returns the generation rectangle of cfg.
func Domain(cfg *config.Config) graph.Domain {
	return graph.Domain{Origin: cfg.Derived.Origin, Dimensions: cfg.Derived.Dimensions}
}

// Generate runs the full pipeline. perf may be nil. Cancelling ctx stops
// streamline placement between streamlines.
func Generate(ctx context.Context, cfg *config.Config, perf *telemetry.PerfCollector) (*Result, error) {
	if perf == nil {
		perf = telemetry.NewPerfCollector(1)
	}
	res := &Result{RunID: uuid.NewString(), Seed: cfg.Generator.Seed}
	start := time.Now()
	perf.StartRun()

	perf.StartPhase(telemetry.PhaseField)
	res.Field = BuildField(cfg)
	integ, err := integrator.New(cfg.Generator.Integrator, res.Field, cfg.Streamlines.Dstep)
	if err != nil {
		perf.EndRun()
		return nil, fmt.Errorf("creating integrator: %w", err)
	}

	perf.StartPhase(telemetry.PhaseStreamlines)
	domain := Domain(cfg)
	gen, err := streamlines.NewGenerator(integ, domain.Origin, domain.Dimensions, Params(cfg), streamlines.Options{
		SeedAtEndpoints: cfg.Generator.SeedAtEndpoints,
		Rand:            rand.New(rand.NewSource(cfg.Generator.Seed)),
	})
	if err != nil {
		perf.EndRun()
		return nil, fmt.Errorf("creating streamline generator: %w", err)
	}
	res.Generator = gen
	gen.Start()
	for gen.Step() {
		if err := ctx.Err(); err != nil {
			perf.EndRun()
			return nil, err
		}
	}

	perf.StartPhase(telemetry.PhaseGraph)
	lines := gen.Simplified()
	if cfg.Generator.ComplexGraph {
		lines = gen.All()
	}
	res.Graph, err = graph.Build(lines, domain, cfg.Streamlines.Dstep)
	if err != nil {
		perf.EndRun()
		return nil, fmt.Errorf("building graph: %w", err)
	}

	perf.StartPhase(telemetry.PhaseLots)
	res.Lots = lots.NewFinder(res.Graph).Lots()

	res.Perf = perf.EndRun()
	res.Stats = telemetry.Compute(gen.All(), res.MajorFlags(), gen.Simplified(), res.Graph, res.Lots)
	res.Stats.RunID = res.RunID
	res.Stats.Seed = res.Seed
	res.Stats.DurationMS = float64(time.Since(start).Microseconds()) / 1000

	for _, phase := range telemetry.Phases {
		if d, ok := res.Perf.Phases[phase]; ok {
			slog.Debug("phase", "run_id", res.RunID, "phase", phase, "ms", float64(d.Microseconds())/1000)
		}
	}
	slog.Info("generated",
		"run_id", res.RunID,
		"seed", res.Seed,
		"streamlines", res.Stats.Streamlines,
		"nodes", res.Stats.Nodes,
		"lots", res.Stats.Lots,
		"duration_ms", res.Stats.DurationMS,
	)

	return res, nil
}

// Save writes the result and its configuration through om. A nil om is a
// no-op. perf, when given, is appended to perf.csv.
func Save(om *telemetry.OutputManager, cfg *config.Config, res *Result, perf *telemetry.PerfCollector) error {
	if om == nil {
		return nil
	}
	if err := om.WriteConfig(cfg); err != nil {
		return err
	}
	if err := om.WriteStreamlines(res.Streamlines(), res.MajorFlags()); err != nil {
		return err
	}
	if err := om.WriteGraph(res.Graph); err != nil {
		return err
	}
	if err := om.WriteLots(res.Lots); err != nil {
		return err
	}
	if err := om.WriteSummary(res.Stats); err != nil {
		return err
	}
	if perf != nil {
		return om.WritePerf(perf.Stats(), res.RunID)
	}
	return nil
}
