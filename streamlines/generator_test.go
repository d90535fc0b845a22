package streamlines

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/roadgen/integrator"
	"github.com/pthm-cable/roadgen/tensor"
)

var testDims = r2.Vec{X: 200, Y: 200}

func testParams() Params {
	return Params{
		Dsep:              20,
		Dtest:             10,
		Dstep:             1,
		DCircleJoin:       5,
		DLookahead:        40,
		JoinAngle:         0.1,
		PathIterations:    1000,
		SeedTries:         200,
		SimplifyTolerance: 0.01,
	}
}

func newTestGenerator(t *testing.T, field *tensor.Field, opts Options) *Generator {
	t.Helper()
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(7))
	}
	g, err := NewGenerator(integrator.NewEuler(field, 1), r2.Vec{}, testDims, testParams(), opts)
	require.NoError(t, err)
	return g
}

func uniformField(theta float64) *tensor.Field {
	f := tensor.NewField(false)
	f.AddGrid(r2.Vec{X: 100, Y: 100}, 1e6, 1, theta)
	return f
}

func radialField() *tensor.Field {
	f := tensor.NewField(false)
	f.AddRadial(r2.Vec{X: 100, Y: 100}, 1000, 1)
	return f
}

func inClosedDomain(p r2.Vec) bool {
	return p.X >= 0 && p.X <= testDims.X && p.Y >= 0 && p.Y <= testDims.Y
}

func TestNewGeneratorErrors(t *testing.T) {
	integ := integrator.NewEuler(uniformField(0), 1)

	_, err := NewGenerator(integ, r2.Vec{}, r2.Vec{X: 0, Y: 10}, testParams(), Options{})
	assert.ErrorIs(t, err, ErrEmptyDomain)

	bad := testParams()
	bad.Dsep = 0
	_, err = NewGenerator(integ, r2.Vec{}, testDims, bad, Options{})
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestNewGeneratorCapsDtest(t *testing.T) {
	p := testParams()
	p.Dtest = 50
	g, err := NewGenerator(integrator.NewEuler(uniformField(0), 1), r2.Vec{}, testDims, p, Options{})
	require.NoError(t, err)
	assert.Equal(t, p.Dsep, g.Params().Dtest)
	assert.Equal(t, p.Dsep*p.Dsep, g.paramsSq.Dtest)
}

func TestCreateAllInvariants(t *testing.T) {
	for _, tc := range []struct {
		name  string
		field *tensor.Field
	}{
		{"grid", uniformField(0.3)},
		{"radial", radialField()},
	} {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGenerator(t, tc.field, Options{})
			g.CreateAll()

			all := g.All()
			require.NotEmpty(t, all)
			assert.Len(t, g.Simplified(), len(all))
			assert.Equal(t, len(all), len(g.Major())+len(g.Minor()))
			assert.NotEmpty(t, g.Major())
			assert.NotEmpty(t, g.Minor())

			for i, line := range all {
				assert.Greater(t, len(line), 5, "line %d", i)
				assert.True(t, inClosedDomain(line[0]), "line %d start %v", i, line[0])
				assert.True(t, inClosedDomain(line[len(line)-1]), "line %d end %v", i, line[len(line)-1])

				simple := g.Simplified()[i]
				assert.Equal(t, line[0], simple[0])
				assert.Equal(t, line[len(line)-1], simple[len(simple)-1])
			}

			var majorPoints, minorPoints int
			for _, line := range g.Major() {
				majorPoints += len(line)
			}
			for _, line := range g.Minor() {
				minorPoints += len(line)
			}
			assert.Equal(t, majorPoints, g.Grid(true).Len())
			assert.Equal(t, minorPoints, g.Grid(false).Len())

			// generation ends when no direction can be seeded
			assert.False(t, g.Step())
		})
	}
}

func TestCreateAllDeterministic(t *testing.T) {
	a := newTestGenerator(t, uniformField(0.7), Options{Rand: rand.New(rand.NewSource(99))})
	b := newTestGenerator(t, uniformField(0.7), Options{Rand: rand.New(rand.NewSource(99))})
	a.CreateAll()
	b.CreateAll()
	assert.Equal(t, a.All(), b.All())
}

func TestStepMatchesCreateAll(t *testing.T) {
	a := newTestGenerator(t, uniformField(0.2), Options{Rand: rand.New(rand.NewSource(3))})
	a.CreateAll()

	b := newTestGenerator(t, uniformField(0.2), Options{Rand: rand.New(rand.NewSource(3))})
	b.Start()
	steps := 0
	for b.Step() {
		steps++
	}
	assert.Equal(t, a.All(), b.All())
	assert.Greater(t, steps, len(b.All())-1)
}

func TestParallelMajorLinesKeepSeparation(t *testing.T) {
	g := newTestGenerator(t, uniformField(0), Options{})
	g.CreateAll()

	// horizontal major lines never come closer than dtest
	major := g.Major()
	require.Greater(t, len(major), 1)
	for i, line := range major {
		for _, p := range line {
			assert.InDelta(t, line[0].Y, p.Y, 1e-9, "line %d is not horizontal", i)
		}
	}
	for i := range major {
		for j := i + 1; j < len(major); j++ {
			assert.GreaterOrEqual(t, math.Abs(major[i][0].Y-major[j][0].Y), testParams().Dtest)
		}
	}
}

func TestIntegrateStreamlineClosesCircle(t *testing.T) {
	g := newTestGenerator(t, radialField(), Options{})
	line := g.integrateStreamline(r2.Vec{X: 150, Y: 100}, true)

	require.Greater(t, len(line), 5)
	assert.Equal(t, line[0], line[len(line)-1])
	assert.True(t, isClosed(line))

	// the loop stays roughly on its radius
	for _, p := range line {
		r := r2.Norm(r2.Sub(p, r2.Vec{X: 100, Y: 100}))
		assert.InDelta(t, 50, r, 5)
	}
}

func TestIntegrateStreamlineStopsAtBorder(t *testing.T) {
	g := newTestGenerator(t, uniformField(0), Options{})
	line := g.integrateStreamline(r2.Vec{X: 100.5, Y: 50}, true)

	require.Greater(t, len(line), 5)
	assert.Equal(t, r2.Vec{X: 0, Y: 50}, line[0])
	assert.Equal(t, r2.Vec{X: 200, Y: 50}, line[len(line)-1])
	assert.False(t, isClosed(line))
}

func TestIntegrateStreamlineStopsAtExistingLine(t *testing.T) {
	g := newTestGenerator(t, uniformField(0), Options{})

	// samples of the other direction do not block tracing
	for y := 0.0; y < 200; y++ {
		g.Grid(false).AddSample(r2.Vec{X: 100, Y: y})
	}
	line := g.integrateStreamline(r2.Vec{X: 130, Y: 100}, true)
	require.NotEmpty(t, line)
	assert.Equal(t, 0.0, line[0].X)

	g.Grid(true).AddPolyline([]r2.Vec{{X: 60, Y: 100}})
	line = g.integrateStreamline(r2.Vec{X: 130, Y: 100}, true)
	// the start is rejected within dtest of the sample at x=60
	assert.InDelta(t, 70, line[0].X, 1)
}

func TestDegenerateFieldStopsBranch(t *testing.T) {
	// zero field everywhere
	integ := stubIntegrator(func(r2.Vec, bool) r2.Vec { return r2.Vec{} })
	g, err := NewGenerator(integ, r2.Vec{}, testDims, testParams(), Options{})
	require.NoError(t, err)

	line := g.integrateStreamline(r2.Vec{X: 50, Y: 50}, true)
	assert.LessOrEqual(t, len(line), 5)
}

func TestShortTracesExhaustDirection(t *testing.T) {
	integ := stubIntegrator(func(r2.Vec, bool) r2.Vec { return r2.Vec{} })
	p := testParams()
	g, err := NewGenerator(integ, r2.Vec{}, testDims, p, Options{})
	require.NoError(t, err)

	g.Start()
	steps := 0
	for g.Step() {
		steps++
		require.LessOrEqual(t, steps, 2*p.SeedTries, "generation did not terminate")
	}
	assert.Empty(t, g.All())
	assert.True(t, g.majorDone)
	assert.True(t, g.minorDone)
}

func TestVanishingSmoothFieldTerminates(t *testing.T) {
	// weights underflow to zero away from the centre, leaving most of the
	// domain without orientation
	f := tensor.NewField(true)
	f.AddRadial(r2.Vec{X: 100, Y: 100}, 10, 50)
	g := newTestGenerator(t, f, Options{})

	g.Start()
	steps := 0
	for g.Step() {
		steps++
		require.Less(t, steps, 100000, "generation did not terminate")
	}
	for _, line := range g.All() {
		assert.Greater(t, len(line), 5)
	}
}

func TestRejectedCountResetsOnAcceptedLine(t *testing.T) {
	g := newTestGenerator(t, uniformField(0), Options{})
	g.Start()
	g.rejectedMajor = g.params.SeedTries - 1

	require.True(t, g.createStreamline(true))
	require.Len(t, g.All(), 1)
	assert.Zero(t, g.rejectedMajor)
}

func TestTurned(t *testing.T) {
	seed := r2.Vec{}
	orig := r2.Vec{X: 1, Y: 0}

	tests := []struct {
		name string
		p    r2.Vec
		dir  r2.Vec
		want bool
	}{
		{"same direction", r2.Vec{X: 5, Y: 0}, r2.Vec{X: 1, Y: 0}, false},
		{"perpendicular", r2.Vec{X: 5, Y: 5}, r2.Vec{X: 0, Y: 1}, false},
		{"reversed heading back across", r2.Vec{X: 5, Y: 5}, r2.Vec{X: -1, Y: -1}, true},
		{"reversed heading away", r2.Vec{X: 5, Y: 5}, r2.Vec{X: -1, Y: 1}, false},
		{"reversed below, heading up", r2.Vec{X: 5, Y: -5}, r2.Vec{X: -1, Y: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, turned(seed, orig, tt.p, tt.dir))
		})
	}
}

func TestSeedFromCandidates(t *testing.T) {
	g := newTestGenerator(t, uniformField(0), Options{SeedAtEndpoints: true})
	a, b := r2.Vec{X: 10, Y: 10}, r2.Vec{X: 150, Y: 150}
	g.pushCandidate(true, a)
	g.pushCandidate(true, b)

	seed, ok := g.seed(true)
	require.True(t, ok)
	assert.Equal(t, b, seed)

	// a is now too close to an existing major sample and is skipped
	g.Grid(true).AddSample(r2.Vec{X: 12, Y: 10})
	seed, ok = g.seed(true)
	require.True(t, ok)
	assert.NotEqual(t, a, seed)
	assert.Empty(t, g.candidatesMajor)
}

func TestSeedExhaustion(t *testing.T) {
	p := testParams()
	p.Dsep = 1000
	p.Dtest = 10
	g, err := NewGenerator(integrator.NewEuler(uniformField(0), 1), r2.Vec{}, testDims, p, Options{})
	require.NoError(t, err)

	_, ok := g.seed(true)
	require.True(t, ok)

	g.Grid(true).AddSample(r2.Vec{X: 100, Y: 100})
	_, ok = g.seed(true)
	assert.False(t, ok)
	_, ok = g.seed(false)
	assert.True(t, ok)
}

func TestPointsBetween(t *testing.T) {
	g := newTestGenerator(t, uniformField(0), Options{})
	got := g.pointsBetween(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 5.5, Y: 0})
	require.Len(t, got, 5)
	assert.InDelta(t, 1.1, got[0].X, 1e-12)
	assert.Equal(t, r2.Vec{X: 5.5, Y: 0}, got[4])

	assert.Empty(t, g.pointsBetween(r2.Vec{}, r2.Vec{X: 0.5}))
}

func TestPointsBetweenStopsAtDegenerateField(t *testing.T) {
	integ := stubIntegrator(func(p r2.Vec, _ bool) r2.Vec {
		if p.X > 2.5 {
			return r2.Vec{}
		}
		return r2.Vec{X: 1}
	})
	g, err := NewGenerator(integ, r2.Vec{}, testDims, testParams(), Options{})
	require.NoError(t, err)

	got := g.pointsBetween(r2.Vec{}, r2.Vec{X: 5})
	assert.Equal(t, []r2.Vec{{X: 1}, {X: 2}}, got)
}

func TestBestNextPoint(t *testing.T) {
	g := newTestGenerator(t, uniformField(0), Options{})
	point, prev := r2.Vec{X: 50, Y: 50}, r2.Vec{X: 46, Y: 50}

	behind := r2.Vec{X: 40, Y: 50}
	offAngle := r2.Vec{X: 55, Y: 60}
	ahead := r2.Vec{X: 70, Y: 50.5}
	further := r2.Vec{X: 80, Y: 50}
	g.Grid(false).AddPolyline([]r2.Vec{behind, offAngle, further})
	g.Grid(true).AddPolyline([]r2.Vec{point, prev, ahead})

	got, ok := g.bestNextPoint(point, prev)
	require.True(t, ok)
	assert.InDelta(t, ahead.X+0.04, got.X, 1e-12)
	assert.InDelta(t, ahead.Y, got.Y, 1e-12)

	// an immediate neighbour wins regardless of angle
	near := r2.Vec{X: 50.5, Y: 51}
	g.Grid(true).AddSample(near)
	got, ok = g.bestNextPoint(point, prev)
	require.True(t, ok)
	assert.InDelta(t, near.X+0.04, got.X, 1e-12)

	_, ok = g.bestNextPoint(r2.Vec{X: 150, Y: 150}, r2.Vec{X: 149, Y: 150})
	assert.False(t, ok)
}

func TestJoinDanglingExtendsToNearbyLine(t *testing.T) {
	g := newTestGenerator(t, uniformField(0), Options{})

	// a horizontal line ending short of a vertical one
	var line []r2.Vec
	for x := 20.0; x <= 90; x++ {
		line = append(line, r2.Vec{X: x, Y: 100})
	}
	var cross []r2.Vec
	for y := 50.0; y <= 150; y++ {
		cross = append(cross, r2.Vec{X: 100, Y: y})
	}
	g.lines = [][]r2.Vec{line, cross}
	g.lineMajor = []bool{true, false}
	g.Grid(true).AddPolyline(line)
	g.Grid(false).AddPolyline(cross)

	g.JoinDangling()

	joined := g.All()[0]
	end := joined[len(joined)-1]
	assert.InDelta(t, 100.04, end.X, 1e-9)
	assert.InDelta(t, 100, end.Y, 1e-9)
	assert.Equal(t, r2.Vec{X: 20, Y: 100}, joined[0])
	assert.Len(t, g.Simplified(), 2)
	assert.Equal(t, len(joined), g.Grid(true).Len())
}

func TestJoinDanglingSkipsCircles(t *testing.T) {
	g := newTestGenerator(t, radialField(), Options{})
	line := g.integrateStreamline(r2.Vec{X: 150, Y: 100}, true)
	require.True(t, isClosed(line))
	g.lines = [][]r2.Vec{line}
	g.lineMajor = []bool{true}

	g.JoinDangling()
	assert.Equal(t, line, g.All()[0])
}

func TestClearAndShareGrids(t *testing.T) {
	a := newTestGenerator(t, uniformField(0), Options{})
	a.CreateAll()
	require.NotEmpty(t, a.All())

	b := newTestGenerator(t, uniformField(0), Options{})
	b.AddExistingStreamlines(a)
	assert.Equal(t, a.Grid(true).Len(), b.Grid(true).Len())

	c := newTestGenerator(t, uniformField(0), Options{})
	c.ShareGrids(a)
	assert.Same(t, a.Grid(false), c.Grid(false))

	a.Clear()
	assert.Empty(t, a.All())
	assert.Equal(t, 0, a.Grid(true).Len())
}

type stubIntegrator func(p r2.Vec, major bool) r2.Vec

func (s stubIntegrator) Integrate(p r2.Vec, major bool) r2.Vec { return s(p, major) }
