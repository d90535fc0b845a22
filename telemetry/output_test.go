package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/roadgen/config"
)

func readCSV[T any](t *testing.T, path string) []T {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer f.Close()

	var rows []T
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return rows
}

func TestNewOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty dir")
	}

	// nil manager is a no-op
	if err := om.WriteSummary(GenerationStats{}); err != nil {
		t.Errorf("WriteSummary on nil manager: %v", err)
	}
	if err := om.WriteGraph(nil); err != nil {
		t.Errorf("WriteGraph on nil manager: %v", err)
	}
	if om.Dir() != "" || om.Path("x") != "" {
		t.Error("nil manager should report no paths")
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil manager: %v", err)
	}
}

func TestOutputManagerWritesRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	lines, g, lotList := crossing(t)
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	stats := Compute(lines, []bool{true, false}, lines, g, lotList)
	stats.RunID = "test-run"

	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if err := om.WriteStreamlines(lines, []bool{true, false}); err != nil {
		t.Fatalf("WriteStreamlines: %v", err)
	}
	if err := om.WriteGraph(g); err != nil {
		t.Fatalf("WriteGraph: %v", err)
	}
	if err := om.WriteLots(lotList); err != nil {
		t.Fatalf("WriteLots: %v", err)
	}
	if err := om.WriteSummary(stats); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}
	pc := NewPerfCollector(1)
	pc.StartRun()
	pc.StartPhase(PhaseGraph)
	pc.EndRun()
	for i := 0; i < 2; i++ {
		if err := om.WritePerf(pc.Stats(), stats.RunID); err != nil {
			t.Fatalf("WritePerf: %v", err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := config.Load(om.Path("config.yaml")); err != nil {
		t.Errorf("written config does not load: %v", err)
	}

	points := readCSV[StreamlinePoint](t, om.Path("streamlines.csv"))
	if len(points) != 10 {
		t.Errorf("streamline rows = %d, want 10", len(points))
	}
	if !points[0].Major || points[len(points)-1].Major {
		t.Error("major column does not follow the flags")
	}
	last := points[len(points)-1]
	if last.Line != 1 || last.Index != 4 || last.X != 50 || last.Y != 100 {
		t.Errorf("unexpected last row %+v", last)
	}

	nodes := readCSV[NodeRecord](t, om.Path("nodes.csv"))
	if len(nodes) != 9 {
		t.Errorf("node rows = %d, want 9", len(nodes))
	}
	inner := 0
	for _, n := range nodes {
		if n.Type == "inner" {
			inner++
			if n.Degree != 4 {
				t.Errorf("inner node degree = %d, want 4", n.Degree)
			}
		}
	}
	if inner != 1 {
		t.Errorf("inner nodes = %d, want 1", inner)
	}

	edges := readCSV[EdgeRecord](t, om.Path("edges.csv"))
	if len(edges) != 12 {
		t.Fatalf("edge rows = %d, want 12", len(edges))
	}
	border := 0
	for _, e := range edges {
		if e.Border {
			border++
		}
		if e.Points < 2 {
			t.Errorf("edge %d has %d points", e.ID, e.Points)
		}
	}
	if border != 8 || edges[0].Border {
		t.Errorf("expected 4 road edges followed by 8 border edges, got %d border", border)
	}

	lotStats := readCSV[LotStats](t, om.Path("lot_stats.csv"))
	if len(lotStats) != 4 {
		t.Fatalf("lot rows = %d, want 4", len(lotStats))
	}
	lotPoints := readCSV[LotPoint](t, om.Path("lots.csv"))
	total := 0
	for _, l := range lotStats {
		total += l.Vertices
		if l.Area < 2499 || l.Area > 2501 {
			t.Errorf("lot %d area = %v, want 2500", l.Lot, l.Area)
		}
	}
	if len(lotPoints) != total {
		t.Errorf("lot point rows = %d, want %d", len(lotPoints), total)
	}

	summary := readCSV[GenerationStats](t, om.Path("summary.csv"))
	if len(summary) != 1 || summary[0].RunID != "test-run" || summary[0].Lots != 4 {
		t.Errorf("unexpected summary %+v", summary)
	}

	perf := readCSV[PerfStatsCSV](t, om.Path("perf.csv"))
	if len(perf) != 2 {
		t.Errorf("perf rows = %d, want 2 (header written once)", len(perf))
	}
}

func TestCSVLogAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv")
	l, err := CreateCSVLog(path)
	if err != nil {
		t.Fatalf("CreateCSVLog: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := l.Append([]LotPoint{{Lot: i}}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rows := readCSV[LotPoint](t, path)
	if len(rows) != 3 || rows[2].Lot != 2 {
		t.Errorf("unexpected rows %+v", rows)
	}
}
