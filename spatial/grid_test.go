package spatial

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestNewGridSize(t *testing.T) {
	tests := []struct {
		dims       r2.Vec
		dsep       float64
		cols, rows int
	}{
		{r2.Vec{X: 100, Y: 100}, 10, 10, 10},
		{r2.Vec{X: 101, Y: 99}, 10, 11, 10},
		{r2.Vec{X: 1452, Y: 1279}, 100, 15, 13},
		{r2.Vec{X: 5, Y: 5}, 100, 1, 1},
	}
	for _, tt := range tests {
		g := NewGrid(r2.Vec{}, tt.dims, tt.dsep)
		cols, rows := g.Size()
		assert.Equal(t, tt.cols, cols, "dims %v", tt.dims)
		assert.Equal(t, tt.rows, rows, "dims %v", tt.dims)
	}
}

func TestCellCoords(t *testing.T) {
	g := NewGrid(r2.Vec{X: 100, Y: 200}, r2.Vec{X: 50, Y: 50}, 10)

	tests := []struct {
		name     string
		p        r2.Vec
		col, row int
	}{
		{"origin", r2.Vec{X: 100, Y: 200}, 0, 0},
		{"interior", r2.Vec{X: 125, Y: 239}, 2, 3},
		{"last cell", r2.Vec{X: 149.9, Y: 249.9}, 4, 4},
		{"far edge is outside", r2.Vec{X: 150, Y: 210}, 0, 0},
		{"negative", r2.Vec{X: 90, Y: 230}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, row := g.CellCoords(tt.p)
			assert.Equal(t, tt.col, col)
			assert.Equal(t, tt.row, row)
		})
	}
}

func TestIsValidSample(t *testing.T) {
	g := NewGrid(r2.Vec{}, r2.Vec{X: 100, Y: 100}, 10)
	g.AddSample(r2.Vec{X: 50, Y: 50})

	assert.False(t, g.IsValidSample(r2.Vec{X: 50, Y: 50}, 100), "duplicate")
	assert.False(t, g.IsValidSample(r2.Vec{X: 55, Y: 55}, 100))
	assert.True(t, g.IsValidSample(r2.Vec{X: 60, Y: 50}, 100), "exactly dsep away")
	assert.True(t, g.IsValidSample(r2.Vec{X: 80, Y: 80}, 100))
	assert.True(t, g.IsValidSample(r2.Vec{X: 55, Y: 55}, 25))
}

func TestIsValidSampleMatchesBruteForce(t *testing.T) {
	const (
		dsep = 7.0
		size = 200.0
	)
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 20; trial++ {
		g := NewGrid(r2.Vec{X: -50, Y: 30}, r2.Vec{X: size, Y: size}, dsep)
		var inserted []r2.Vec

		for i := 0; i < 300; i++ {
			p := r2.Vec{X: -50 + rng.Float64()*size, Y: 30 + rng.Float64()*size}

			want := true
			for _, q := range inserted {
				if r2.Norm2(r2.Sub(p, q)) < dsep*dsep {
					want = false
					break
				}
			}
			require.Equal(t, want, g.IsValidSample(p, dsep*dsep), "trial %d point %v", trial, p)

			g.AddSample(p)
			inserted = append(inserted, p)
		}
		assert.Equal(t, len(inserted), g.Len())
	}
}

func TestNearbyPoints(t *testing.T) {
	g := NewGrid(r2.Vec{}, r2.Vec{X: 100, Y: 100}, 10)
	near := r2.Vec{X: 52, Y: 58}
	diag := r2.Vec{X: 41, Y: 41}
	far := r2.Vec{X: 75, Y: 55}
	g.AddPolyline([]r2.Vec{near, diag, far})

	// radius ceil(10/10 - 0.5) = 1 cell
	got := g.NearbyPoints(r2.Vec{X: 55, Y: 55}, 10)
	assert.ElementsMatch(t, []r2.Vec{near, diag}, got)

	// radius ceil(5/10 - 0.5) = 0 cells
	got = g.NearbyPoints(r2.Vec{X: 55, Y: 55}, 5)
	assert.ElementsMatch(t, []r2.Vec{near}, got)

	got = g.NearbyPoints(r2.Vec{X: 55, Y: 55}, 30)
	assert.ElementsMatch(t, []r2.Vec{near, diag, far}, got)
}

func TestAddAllAndClear(t *testing.T) {
	a := NewGrid(r2.Vec{}, r2.Vec{X: 100, Y: 100}, 10)
	b := NewGrid(r2.Vec{}, r2.Vec{X: 100, Y: 100}, 10)
	a.AddSample(r2.Vec{X: 1, Y: 1})
	b.AddPolyline([]r2.Vec{{X: 20, Y: 20}, {X: 90, Y: 5}})

	a.AddAll(b)
	assert.Equal(t, 3, a.Len())
	assert.ElementsMatch(t, []r2.Vec{{X: 1, Y: 1}, {X: 20, Y: 20}, {X: 90, Y: 5}}, a.Samples())
	assert.Equal(t, 2, b.Len())

	a.Clear()
	assert.Equal(t, 0, a.Len())
	assert.True(t, a.IsValidSample(r2.Vec{X: 1, Y: 1}, 100))
}

func TestOutOfDomainSamplesLandInFirstCell(t *testing.T) {
	g := NewGrid(r2.Vec{}, r2.Vec{X: 100, Y: 100}, 10)
	g.AddSample(r2.Vec{X: 500, Y: 500})
	assert.Equal(t, []r2.Vec{{X: 500, Y: 500}}, g.NearbyPoints(r2.Vec{X: 1, Y: 1}, 5))
}

func TestStoredSampleIsComparedByValue(t *testing.T) {
	g := NewGrid(r2.Vec{}, r2.Vec{X: 100, Y: 100}, 10)
	p := r2.Vec{X: 42, Y: 17}
	g.AddSample(p)

	// samples carry no identity, so the stored point itself rejects a re-query
	assert.False(t, g.IsValidSample(p, 1))
	assert.True(t, g.IsValidSample(r2.Vec{X: 44, Y: 17}, 1))
}
