package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartRun()
		pc.StartPhase(PhaseField)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseStreamlines)
		time.Sleep(200 * time.Microsecond)
		pc.EndRun()
	}

	stats := pc.Stats()

	if stats.Runs != 5 {
		t.Errorf("runs = %d, want 5", stats.Runs)
	}

	if stats.AvgRunDuration <= 0 {
		t.Error("expected positive average run duration")
	}

	if _, ok := stats.PhaseAvg[PhaseField]; !ok {
		t.Error("expected field phase to be tracked")
	}

	if _, ok := stats.PhaseAvg[PhaseStreamlines]; !ok {
		t.Error("expected streamlines phase to be tracked")
	}

	if stats.MinRunDuration > stats.AvgRunDuration || stats.AvgRunDuration > stats.MaxRunDuration {
		t.Errorf("expected min <= avg <= max, got %v, %v, %v",
			stats.MinRunDuration, stats.AvgRunDuration, stats.MaxRunDuration)
	}
}

func TestPerfCollector_EndRunReturnsSample(t *testing.T) {
	pc := NewPerfCollector(1)

	pc.StartRun()
	pc.StartPhase(PhaseGraph)
	time.Sleep(50 * time.Microsecond)
	sample := pc.EndRun()

	if sample.RunDuration < sample.Phases[PhaseGraph] {
		t.Errorf("run duration %v shorter than its phase %v", sample.RunDuration, sample.Phases[PhaseGraph])
	}
	if len(sample.Phases) != 1 {
		t.Errorf("expected one phase, got %v", sample.Phases)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartRun()
		pc.StartPhase(PhaseLots)
		time.Sleep(10 * time.Microsecond)
		pc.EndRun()
	}

	stats := pc.Stats()

	if stats.Runs != 5 {
		t.Errorf("runs = %d, want window size 5", stats.Runs)
	}

	if stats.AvgRunDuration <= 0 {
		t.Error("expected positive average run duration after window filled")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartRun()
		pc.StartPhase("fast")
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase("slow")
		time.Sleep(1 * time.Millisecond)
		pc.EndRun()
	}

	stats := pc.Stats()

	fastPct := stats.PhasePct["fast"]
	slowPct := stats.PhasePct["slow"]

	if slowPct <= fastPct {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", slowPct, fastPct)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(0)

	stats := pc.Stats()

	if stats.AvgRunDuration != 0 || stats.Runs != 0 {
		t.Error("expected zero stats for empty collector")
	}

	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}

	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()

	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}

	if stats.FPS <= 0 || stats.FPS > 70 {
		t.Errorf("expected FPS in (0, 70] with 16ms frame time, got %v", stats.FPS)
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	s := PerfStats{
		Runs:           2,
		AvgRunDuration: 10 * time.Millisecond,
		PhaseAvg:       map[string]time.Duration{PhaseGraph: 4 * time.Millisecond},
		PhasePct:       map[string]float64{PhaseGraph: 40},
	}

	row := s.ToCSV("run")

	if row.RunID != "run" || row.Runs != 2 {
		t.Errorf("unexpected identity columns: %+v", row)
	}
	if row.AvgRunUS != 10000 || row.GraphUS != 4000 || row.GraphPct != 40 {
		t.Errorf("unexpected timing columns: %+v", row)
	}
	if row.FieldUS != 0 || row.FieldPct != 0 {
		t.Errorf("missing phase should be zero: %+v", row)
	}
}
