package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one generation run.
const (
	PhaseField       = "field"
	PhaseStreamlines = "streamlines"
	PhaseGraph       = "graph"
	PhaseLots        = "lots"
)

// Phases lists the generation phases in pipeline order.
var Phases = []string{PhaseField, PhaseStreamlines, PhaseGraph, PhaseLots}

// PerfSample holds timing data for a single run.
type PerfSample struct {
	RunDuration time.Duration
	Phases      map[string]time.Duration
}

// PerfCollector tracks generation timings over a rolling window of runs.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	runStart      time.Time
	phaseStart    time.Time
	lastPhase     string

	// Frame timing (viewer)
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a new performance collector that averages over
// the last windowSize runs.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 1
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartRun begins timing a new generation run.
func (p *PerfCollector) StartRun() {
	p.runStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase, ending the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndRun finishes timing the current run, records the sample and returns it.
func (p *PerfCollector) EndRun() PerfSample {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	sample := PerfSample{
		RunDuration: now.Sub(p.runStart),
		Phases:      p.currentPhases,
	}

	p.samples[p.writeIndex] = sample
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
	p.lastPhase = ""
	return sample
}

// RecordFrame records frame timing for the viewer.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	Runs int

	AvgRunDuration time.Duration
	MinRunDuration time.Duration
	MaxRunDuration time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total run time
	PhasePct map[string]float64

	// Frame timing (viewer)
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	var fps float64
	if p.frameDuration > 0 {
		fps = float64(time.Second) / float64(p.frameDuration)
	}

	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg:      make(map[string]time.Duration),
			PhasePct:      make(map[string]float64),
			FrameDuration: p.frameDuration,
			FPS:           fps,
		}
	}

	var totalRun time.Duration
	var minRun, maxRun time.Duration
	phaseSum := make(map[string]time.Duration)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		totalRun += s.RunDuration

		if i == 0 || s.RunDuration < minRun {
			minRun = s.RunDuration
		}
		if s.RunDuration > maxRun {
			maxRun = s.RunDuration
		}

		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avgRun := totalRun / time.Duration(p.sampleCount)

	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avgRun > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avgRun) * 100
		}
	}

	return PerfStats{
		Runs:           p.sampleCount,
		AvgRunDuration: avgRun,
		MinRunDuration: minRun,
		MaxRunDuration: maxRun,
		PhaseAvg:       phaseAvg,
		PhasePct:       phasePct,
		FrameDuration:  p.frameDuration,
		FPS:            fps,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"runs", s.Runs,
		"avg_run_ms", s.AvgRunDuration.Milliseconds(),
		"min_run_ms", s.MinRunDuration.Milliseconds(),
		"max_run_ms", s.MaxRunDuration.Milliseconds(),
	}

	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}

	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10.0)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("runs", s.Runs),
		slog.Int64("avg_run_us", s.AvgRunDuration.Microseconds()),
		slog.Int64("min_run_us", s.MinRunDuration.Microseconds()),
		slog.Int64("max_run_us", s.MaxRunDuration.Microseconds()),
	}

	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}

	for _, phase := range Phases {
		if d, ok := s.PhaseAvg[phase]; ok {
			attrs = append(attrs, slog.Int64(phase+"_us", d.Microseconds()))
		}
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	RunID          string  `csv:"run_id"`
	Runs           int     `csv:"runs"`
	AvgRunUS       int64   `csv:"avg_run_us"`
	MinRunUS       int64   `csv:"min_run_us"`
	MaxRunUS       int64   `csv:"max_run_us"`
	FieldUS        int64   `csv:"field_us"`
	StreamlinesUS  int64   `csv:"streamlines_us"`
	GraphUS        int64   `csv:"graph_us"`
	LotsUS         int64   `csv:"lots_us"`
	FieldPct       float64 `csv:"field_pct"`
	StreamlinesPct float64 `csv:"streamlines_pct"`
	GraphPct       float64 `csv:"graph_pct"`
	LotsPct        float64 `csv:"lots_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(runID string) PerfStatsCSV {
	return PerfStatsCSV{
		RunID:          runID,
		Runs:           s.Runs,
		AvgRunUS:       s.AvgRunDuration.Microseconds(),
		MinRunUS:       s.MinRunDuration.Microseconds(),
		MaxRunUS:       s.MaxRunDuration.Microseconds(),
		FieldUS:        s.PhaseAvg[PhaseField].Microseconds(),
		StreamlinesUS:  s.PhaseAvg[PhaseStreamlines].Microseconds(),
		GraphUS:        s.PhaseAvg[PhaseGraph].Microseconds(),
		LotsUS:         s.PhaseAvg[PhaseLots].Microseconds(),
		FieldPct:       s.PhasePct[PhaseField],
		StreamlinesPct: s.PhasePct[PhaseStreamlines],
		GraphPct:       s.PhasePct[PhaseGraph],
		LotsPct:        s.PhasePct[PhaseLots],
	}
}
