package streamlines

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/roadgen/integrator"
	"github.com/pthm-cable/roadgen/spatial"
)

// Options tunes generator behaviour beyond Params.
type Options struct {
	// SeedAtEndpoints seeds new streamlines from the dangling ends of
	// streamlines of the opposite direction before falling back to random
	// seeds.
	SeedAtEndpoints bool
	// Rand is the source for seed sampling and early collision draws.
	// A nil Rand uses a source seeded with 1.
	Rand *rand.Rand
}

// Generator places major and minor streamlines over a rectangular domain.
// A Generator is not safe for concurrent use.
type Generator struct {
	integrator integrator.Integrator
	origin     r2.Vec
	dimensions r2.Vec
	params     Params
	paramsSq   Params
	opts       Options
	rng        *rand.Rand

	majorGrid *spatial.Grid
	minorGrid *spatial.Grid

	candidatesMajor []r2.Vec
	candidatesMinor []r2.Vec

	lines      [][]r2.Vec
	lineMajor  []bool
	simplified [][]r2.Vec

	// incremental state for Step
	running   bool
	nextMajor bool
	majorDone bool
	minorDone bool

	// consecutive traces dropped as too short, per direction
	rejectedMajor int
	rejectedMinor int
}

// NewGenerator returns a generator tracing through integ over the domain
// [origin, origin+dimensions). Dtest is capped at Dsep.
func NewGenerator(integ integrator.Integrator, origin, dimensions r2.Vec, params Params, opts Options) (*Generator, error) {
	if !(dimensions.X > 0) || !(dimensions.Y > 0) {
		return nil, fmt.Errorf("dimensions %v: %w", dimensions, ErrEmptyDomain)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	params.Dtest = min(params.Dtest, params.Dsep)

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	return &Generator{
		integrator: integ,
		origin:     origin,
		dimensions: dimensions,
		params:     params,
		paramsSq:   params.Squared(),
		opts:       opts,
		rng:        rng,
		majorGrid:  spatial.NewGrid(origin, dimensions, params.Dsep),
		minorGrid:  spatial.NewGrid(origin, dimensions, params.Dsep),
	}, nil
}

// Params returns the effective parameters.
func (g *Generator) Params() Params { return g.params }

// Origin returns the lower corner of the domain.
func (g *Generator) Origin() r2.Vec { return g.origin }

// Dimensions returns the size of the domain.
func (g *Generator) Dimensions() r2.Vec { return g.dimensions }

// Grid returns the sample grid for one direction group.
func (g *Generator) Grid(major bool) *spatial.Grid {
	if major {
		return g.majorGrid
	}
	return g.minorGrid
}

// All returns every accepted streamline in creation order.
func (g *Generator) All() [][]r2.Vec { return g.lines }

// Simplified returns the simplified variant of every streamline, aligned
// with All.
func (g *Generator) Simplified() [][]r2.Vec { return g.simplified }

// Major returns the accepted major streamlines in creation order.
func (g *Generator) Major() [][]r2.Vec { return g.byDirection(true) }

// Minor returns the accepted minor streamlines in creation order.
func (g *Generator) Minor() [][]r2.Vec { return g.byDirection(false) }

// IsMajor reports whether streamline i of All is a major streamline.
func (g *Generator) IsMajor(i int) bool { return g.lineMajor[i] }

func (g *Generator) byDirection(major bool) [][]r2.Vec {
	var out [][]r2.Vec
	for i, line := range g.lines {
		if g.lineMajor[i] == major {
			out = append(out, line)
		}
	}
	return out
}

// Clear removes all streamlines and grid samples.
func (g *Generator) Clear() {
	g.lines = nil
	g.lineMajor = nil
	g.simplified = nil
	g.candidatesMajor = nil
	g.candidatesMinor = nil
	g.majorGrid.Clear()
	g.minorGrid.Clear()
	g.running = false
}

// AddExistingStreamlines copies the grid samples of other into g so new
// streamlines keep their separation from other's roads.
func (g *Generator) AddExistingStreamlines(other *Generator) {
	g.majorGrid.AddAll(other.majorGrid)
	g.minorGrid.AddAll(other.minorGrid)
}

// ShareGrids makes g test and insert samples in other's grids.
func (g *Generator) ShareGrids(other *Generator) {
	g.majorGrid = other.majorGrid
	g.minorGrid = other.minorGrid
}

// CreateAll traces streamlines, alternating major and minor, until neither
// direction can be seeded, then joins dangling ends.
func (g *Generator) CreateAll() {
	g.Start()
	for g.Step() {
	}
}

// Start prepares incremental generation with Step.
func (g *Generator) Start() {
	g.running = true
	g.nextMajor = true
	g.majorDone = false
	g.minorDone = false
	g.rejectedMajor = 0
	g.rejectedMinor = 0
}

// Step attempts one streamline, alternating major and minor. A direction
// whose seeding fails is skipped from then on. It returns false once both
// directions are exhausted; the call that finishes also joins dangling ends.
func (g *Generator) Step() bool {
	if !g.running {
		return false
	}
	major := g.nextMajor
	if (major && g.majorDone) || (!major && g.minorDone) {
		major = !major
	}
	g.nextMajor = !major

	if !g.createStreamline(major) {
		if major {
			g.majorDone = true
		} else {
			g.minorDone = true
		}
	}
	if g.majorDone && g.minorDone {
		g.running = false
		g.JoinDangling()
		return false
	}
	return true
}

// createStreamline seeds and traces one streamline. It returns false when
// no seed could be found, or when SeedTries consecutive traces in this
// direction were too short to keep.
func (g *Generator) createStreamline(major bool) bool {
	seed, ok := g.seed(major)
	if !ok {
		return false
	}

	rejected := &g.rejectedMinor
	if major {
		rejected = &g.rejectedMajor
	}

	line := g.integrateStreamline(seed, major)
	if len(line) <= 5 {
		// a dropped trace leaves the grid unchanged, so the seed area stays free
		*rejected++
		return *rejected < g.params.SeedTries
	}
	*rejected = 0

	g.Grid(major).AddPolyline(line)
	g.lines = append(g.lines, line)
	g.lineMajor = append(g.lineMajor, major)
	g.simplified = append(g.simplified, Simplify(line, g.params.SimplifyTolerance))

	if !isClosed(line) {
		g.pushCandidate(!major, line[0])
		g.pushCandidate(!major, line[len(line)-1])
	}
	return true
}

func (g *Generator) pushCandidate(major bool, p r2.Vec) {
	if major {
		g.candidatesMajor = append(g.candidatesMajor, p)
	} else {
		g.candidatesMinor = append(g.candidatesMinor, p)
	}
}

// popCandidate removes and returns the most recently queued candidate.
func (g *Generator) popCandidate(major bool) (r2.Vec, bool) {
	queue := &g.candidatesMinor
	if major {
		queue = &g.candidatesMajor
	}
	n := len(*queue)
	if n == 0 {
		return r2.Vec{}, false
	}
	p := (*queue)[n-1]
	*queue = (*queue)[:n-1]
	return p, true
}

func (g *Generator) seed(major bool) (r2.Vec, bool) {
	if g.opts.SeedAtEndpoints {
		for {
			p, ok := g.popCandidate(major)
			if !ok {
				break
			}
			if g.isValidSample(major, p, g.paramsSq.Dsep, false) {
				return p, true
			}
		}
	}

	p := g.samplePoint()
	for i := 0; !g.isValidSample(major, p, g.paramsSq.Dsep, false); i++ {
		if i >= g.params.SeedTries {
			return r2.Vec{}, false
		}
		p = g.samplePoint()
	}
	return p, true
}

func (g *Generator) samplePoint() r2.Vec {
	return r2.Vec{
		X: g.rng.Float64()*g.dimensions.X + g.origin.X,
		Y: g.rng.Float64()*g.dimensions.Y + g.origin.Y,
	}
}

func (g *Generator) isValidSample(major bool, p r2.Vec, dSq float64, bothGrids bool) bool {
	if !g.Grid(major).IsValidSample(p, dSq) {
		return false
	}
	return !bothGrids || g.Grid(!major).IsValidSample(p, dSq)
}

func (g *Generator) inBounds(p r2.Vec) bool {
	return p.X >= g.origin.X && p.X < g.origin.X+g.dimensions.X &&
		p.Y >= g.origin.Y && p.Y < g.origin.Y+g.dimensions.Y
}

// clip moves to back along the segment from->to onto the domain boundary.
// from must lie inside the domain.
func (g *Generator) clip(from, to r2.Vec) r2.Vec {
	lo := g.origin
	hi := r2.Add(g.origin, g.dimensions)
	d := r2.Sub(to, from)

	t := 1.0
	if to.X < lo.X && d.X != 0 {
		t = min(t, (lo.X-from.X)/d.X)
	}
	if to.X > hi.X && d.X != 0 {
		t = min(t, (hi.X-from.X)/d.X)
	}
	if to.Y < lo.Y && d.Y != 0 {
		t = min(t, (lo.Y-from.Y)/d.Y)
	}
	if to.Y > hi.Y && d.Y != 0 {
		t = min(t, (hi.Y-from.Y)/d.Y)
	}
	return g.clamp(r2.Add(from, r2.Scale(max(t, 0), d)))
}

// clamp snaps p onto the closed domain rectangle.
func (g *Generator) clamp(p r2.Vec) r2.Vec {
	hi := r2.Add(g.origin, g.dimensions)
	p.X = min(max(p.X, g.origin.X), hi.X)
	p.Y = min(max(p.Y, g.origin.Y), hi.Y)
	return p
}

func isClosed(line []r2.Vec) bool {
	return len(line) > 1 && line[0] == line[len(line)-1]
}
