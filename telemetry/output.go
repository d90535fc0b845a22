package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/roadgen/config"
	"github.com/pthm-cable/roadgen/graph"
	"github.com/pthm-cable/roadgen/lots"
)

// StreamlinePoint is one row of streamlines.csv.
type StreamlinePoint struct {
	Line  int     `csv:"line"`
	Index int     `csv:"index"`
	Major bool    `csv:"major"`
	X     float64 `csv:"x"`
	Y     float64 `csv:"y"`
}

// NodeRecord is one row of nodes.csv.
type NodeRecord struct {
	ID     int     `csv:"id"`
	X      float64 `csv:"x"`
	Y      float64 `csv:"y"`
	Type   string  `csv:"type"`
	Degree int     `csv:"degree"`
}

// EdgeRecord is one row of edges.csv.
type EdgeRecord struct {
	ID     int  `csv:"id"`
	Start  int  `csv:"start"`
	End    int  `csv:"end"`
	Border bool `csv:"border"`
	Points int  `csv:"points"`
}

// LotPoint is one row of lots.csv.
type LotPoint struct {
	Lot   int     `csv:"lot"`
	Index int     `csv:"index"`
	X     float64 `csv:"x"`
	Y     float64 `csv:"y"`
}

// LotStats is one row of lot_stats.csv.
type LotStats struct {
	Lot      int     `csv:"lot"`
	Vertices int     `csv:"vertices"`
	Area     float64 `csv:"area"`
	CX       float64 `csv:"cx"`
	CY       float64 `csv:"cy"`
}

// CSVLog appends records to a CSV file, writing the header once.
type CSVLog struct {
	f             *os.File
	headerWritten bool
}

// CreateCSVLog creates (or truncates) the file at path.
func CreateCSVLog(path string) (*CSVLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	return &CSVLog{f: f}, nil
}

// Append writes records, a slice of csv-tagged structs.
func (l *CSVLog) Append(records any) error {
	if !l.headerWritten {
		if err := gocsv.Marshal(records, l.f); err != nil {
			return err
		}
		l.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, l.f)
}

// Close closes the underlying file.
func (l *CSVLog) Close() error {
	return l.f.Close()
}

// OutputManager writes the results of a generation run to a directory.
type OutputManager struct {
	dir     string
	perfLog *CSVLog
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	perfLog, err := CreateCSVLog(filepath.Join(dir, "perf.csv"))
	if err != nil {
		return nil, err
	}

	return &OutputManager{dir: dir, perfLog: perfLog}, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(om.Path("config.yaml"))
}

// WriteStreamlines writes every streamline point to streamlines.csv.
func (om *OutputManager) WriteStreamlines(lines [][]r2.Vec, majorFlags []bool) error {
	if om == nil {
		return nil
	}

	var records []StreamlinePoint
	for i, line := range lines {
		major := i < len(majorFlags) && majorFlags[i]
		for j, p := range line {
			records = append(records, StreamlinePoint{Line: i, Index: j, Major: major, X: p.X, Y: p.Y})
		}
	}
	return om.writeCSV("streamlines.csv", records)
}

// WriteGraph writes nodes.csv and edges.csv. Border edges follow road edges.
func (om *OutputManager) WriteGraph(g *graph.Graph) error {
	if om == nil || g == nil {
		return nil
	}

	nodes := make([]NodeRecord, 0, len(g.Nodes()))
	for i, n := range g.Nodes() {
		nodes = append(nodes, NodeRecord{
			ID:     i,
			X:      n.Pos.X,
			Y:      n.Pos.Y,
			Type:   g.NodeType(graph.NodeID(i)).String(),
			Degree: len(n.Neighbors) + len(n.BorderNeighbors),
		})
	}
	if err := om.writeCSV("nodes.csv", nodes); err != nil {
		return err
	}

	ids := append(append([]graph.UndirectedID{}, g.Edges()...), g.BorderEdges()...)
	edges := make([]EdgeRecord, 0, len(ids))
	for _, id := range ids {
		e := g.UndirectedEdge(id)
		edges = append(edges, EdgeRecord{
			ID:     int(e.ID),
			Start:  int(e.Start),
			End:    int(e.End),
			Border: e.Border,
			Points: len(e.Connection),
		})
	}
	return om.writeCSV("edges.csv", edges)
}

// WriteLots writes lot polygons to lots.csv and per-lot metrics to lot_stats.csv.
func (om *OutputManager) WriteLots(lotList []lots.Lot) error {
	if om == nil {
		return nil
	}

	var points []LotPoint
	stats := make([]LotStats, 0, len(lotList))
	for i, l := range lotList {
		for j, v := range l.Vertices {
			points = append(points, LotPoint{Lot: i, Index: j, X: v.X, Y: v.Y})
		}
		c := l.Centroid()
		stats = append(stats, LotStats{Lot: i, Vertices: len(l.Vertices), Area: l.Area(), CX: c.X, CY: c.Y})
	}
	if err := om.writeCSV("lots.csv", points); err != nil {
		return err
	}
	return om.writeCSV("lot_stats.csv", stats)
}

// WriteSummary writes the run statistics to summary.csv.
func (om *OutputManager) WriteSummary(stats GenerationStats) error {
	if om == nil {
		return nil
	}
	return om.writeCSV("summary.csv", []GenerationStats{stats})
}

// WritePerf appends a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, runID string) error {
	if om == nil {
		return nil
	}
	if err := om.perfLog.Append([]PerfStatsCSV{stats.ToCSV(runID)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// writeCSV writes records, with headers, to a new file in the output directory.
func (om *OutputManager) writeCSV(name string, records any) error {
	f, err := os.Create(om.Path(name))
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	if err := gocsv.MarshalFile(records, f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return f.Close()
}

// Path returns the path of name inside the output directory.
func (om *OutputManager) Path(name string) string {
	if om == nil {
		return ""
	}
	return filepath.Join(om.dir, name)
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	return om.perfLog.Close()
}
