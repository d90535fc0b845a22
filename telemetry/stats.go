package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/roadgen/graph"
	"github.com/pthm-cable/roadgen/lots"
)

// GenerationStats summarises one generated road network.
type GenerationStats struct {
	RunID string `csv:"run_id"`
	Seed  int64  `csv:"seed"`

	// Streamlines
	Streamlines      int     `csv:"streamlines"`
	MajorLines       int     `csv:"major_lines"`
	MinorLines       int     `csv:"minor_lines"`
	StreamlinePoints int     `csv:"streamline_points"`
	SimplifiedPoints int     `csv:"simplified_points"`
	RoadLength       float64 `csv:"road_length"`

	// Graph
	Nodes       int `csv:"nodes"`
	InnerNodes  int `csv:"inner_nodes"`
	DeadEnds    int `csv:"dead_ends"`
	BorderNodes int `csv:"border_nodes"`
	RoadEdges   int `csv:"road_edges"`
	BorderEdges int `csv:"border_edges"`

	// Lot area distribution
	Lots         int     `csv:"lots"`
	LotAreaTotal float64 `csv:"lot_area_total"`
	LotAreaMean  float64 `csv:"lot_area_mean"`
	LotAreaStd   float64 `csv:"lot_area_std"`
	LotAreaP10   float64 `csv:"lot_area_p10"`
	LotAreaP50   float64 `csv:"lot_area_p50"`
	LotAreaP90   float64 `csv:"lot_area_p90"`

	DurationMS float64 `csv:"duration_ms"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeAreaStats calculates total, mean, population standard deviation and
// percentiles of the given areas.
func ComputeAreaStats(values []float64) (total, mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0, 0
	}

	total = floats.Sum(values)
	mean, variance := stat.PopMeanVariance(values, nil)
	std = math.Sqrt(variance)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return total, mean, std, p10, p50, p90
}

// PolylineLength is the summed segment length of a polyline.
func PolylineLength(line []r2.Vec) float64 {
	var length float64
	for i := 1; i < len(line); i++ {
		length += r2.Norm(r2.Sub(line[i], line[i-1]))
	}
	return length
}

// CountPoints sums the point counts of all polylines.
func CountPoints(lines [][]r2.Vec) int {
	n := 0
	for _, l := range lines {
		n += len(l)
	}
	return n
}

// Compute gathers statistics from a generated network. majorFlags[i] reports
// whether lines[i] follows the major eigenvector; simplified may be nil.
func Compute(lines [][]r2.Vec, majorFlags []bool, simplified [][]r2.Vec, g *graph.Graph, lotList []lots.Lot) GenerationStats {
	var s GenerationStats

	s.Streamlines = len(lines)
	for i, l := range lines {
		if i < len(majorFlags) && majorFlags[i] {
			s.MajorLines++
		} else {
			s.MinorLines++
		}
		s.RoadLength += PolylineLength(l)
	}
	s.StreamlinePoints = CountPoints(lines)
	s.SimplifiedPoints = CountPoints(simplified)

	if g != nil {
		s.Nodes = len(g.Nodes())
		for i := range g.Nodes() {
			switch g.NodeType(graph.NodeID(i)) {
			case graph.Inner:
				s.InnerNodes++
			case graph.DeadEnd:
				s.DeadEnds++
			case graph.Border:
				s.BorderNodes++
			}
		}
		s.RoadEdges = len(g.Edges())
		s.BorderEdges = len(g.BorderEdges())
	}

	s.Lots = len(lotList)
	areas := make([]float64, len(lotList))
	for i, l := range lotList {
		areas[i] = l.Area()
	}
	s.LotAreaTotal, s.LotAreaMean, s.LotAreaStd, s.LotAreaP10, s.LotAreaP50, s.LotAreaP90 = ComputeAreaStats(areas)

	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("run_id", s.RunID),
		slog.Int64("seed", s.Seed),
		slog.Int("streamlines", s.Streamlines),
		slog.Int("major_lines", s.MajorLines),
		slog.Int("minor_lines", s.MinorLines),
		slog.Int("streamline_points", s.StreamlinePoints),
		slog.Int("simplified_points", s.SimplifiedPoints),
		slog.Float64("road_length", s.RoadLength),
		slog.Int("nodes", s.Nodes),
		slog.Int("inner_nodes", s.InnerNodes),
		slog.Int("dead_ends", s.DeadEnds),
		slog.Int("border_nodes", s.BorderNodes),
		slog.Int("road_edges", s.RoadEdges),
		slog.Int("border_edges", s.BorderEdges),
		slog.Int("lots", s.Lots),
		slog.Float64("lot_area_mean", s.LotAreaMean),
		slog.Float64("lot_area_std", s.LotAreaStd),
		slog.Float64("lot_area_p50", s.LotAreaP50),
		slog.Float64("duration_ms", s.DurationMS),
	)
}

// LogStats logs the generation stats using slog.
func (s GenerationStats) LogStats() {
	slog.Info("stats",
		"run_id", s.RunID,
		"seed", s.Seed,
		"streamlines", s.Streamlines,
		"major_lines", s.MajorLines,
		"minor_lines", s.MinorLines,
		"road_length", s.RoadLength,
		"nodes", s.Nodes,
		"dead_ends", s.DeadEnds,
		"road_edges", s.RoadEdges,
		"lots", s.Lots,
		"lot_area_mean", s.LotAreaMean,
		"lot_area_p10", s.LotAreaP10,
		"lot_area_p50", s.LotAreaP50,
		"lot_area_p90", s.LotAreaP90,
		"duration_ms", s.DurationMS,
	)
}
