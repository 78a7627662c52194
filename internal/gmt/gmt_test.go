package gmt

import (
	"math"
	"testing"

	"github.com/gruppe-adler/bathyfuse/internal/grid"
	"github.com/gruppe-adler/bathyfuse/internal/region"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func lattice(t *testing.T, r region.Region, spacing float64, fn func(x, y float64) float64) *grid.Grid {
	t.Helper()

	g, err := grid.NewFromRegion(r, spacing, 0, nil)
	require.NoError(t, err)
	for row, y := range g.Y {
		for col, x := range g.X {
			g.Set(col, row, fn(x, y))
		}
	}
	return g
}

func constant(v float64) func(x, y float64) float64 {
	return func(x, y float64) float64 { return v }
}

func TestMedian(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2.0, median([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, median([]float64{4, 1, 3, 2}))
	assert.Equal(t, 7.0, median([]float64{7}))
}

func TestBlockMedian(t *testing.T) {
	t.Parallel()

	r := region.New(0, 2, 0, 1)
	pc := grid.PointCloud{
		{X: 0.1, Y: 0.1, Z: 1},
		{X: 0.2, Y: 0, Z: 3},
		{X: 0, Y: 0.3, Z: 100}, // outlier
		{X: 2, Y: 1, Z: -4},
		{X: 5, Y: 5, Z: 8},    // outside
		{X: 0, Y: -0.2, Z: 8}, // outside
	}

	out, err := Default().BlockMedian(pc, 1, r)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, grid.Point{X: 0.1, Y: 0.1, Z: 3}, out[0])
	assert.Equal(t, grid.Point{X: 2, Y: 1, Z: -4}, out[1])
}

func TestBlockMedianErrors(t *testing.T) {
	t.Parallel()

	_, err := Default().BlockMedian(nil, 0, region.New(0, 1, 0, 1))
	assert.Error(t, err)

	_, err = Default().BlockMedian(nil, 1, region.New(1, 0, 0, 1))
	assert.ErrorIs(t, err, region.ErrInvalid)
}

func TestTrack(t *testing.T) {
	t.Parallel()

	g := lattice(t, region.New(0, 3, 0, 3), 1, func(x, y float64) float64 { return x + 10*y })
	nd := -32768.0
	g.NoData = &nd
	g.Set(3, 3, nd)

	pc := grid.PointCloud{
		{X: 0.5, Y: 0.5, Z: 1},
		{X: 2.5, Y: 2.5, Z: 2}, // touches nodata
		{X: 4, Y: 1, Z: 3},     // off grid
		{X: 1, Y: 2, Z: 4},
	}

	out, err := Default().Track(pc, g, grid.Linear)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.InDelta(t, 5.5, out[0].Sample, 1e-12)
	assert.Equal(t, 1.0, out[0].Z)
	assert.InDelta(t, 21, out[1].Sample, 1e-12)

	_, err = Default().Track(pc, nil, grid.Linear)
	assert.Error(t, err)
}

func TestNearNeighborConstantField(t *testing.T) {
	t.Parallel()

	src := lattice(t, region.New(0, 10, 0, 10), 1, constant(4))
	out, err := Default().NearNeighbor(src.AsPointCloud(), NearNeighborOptions{
		Region:       region.New(0, 10, 0, 10),
		Spacing:      0.5,
		SearchRadius: 2,
		MinSectors:   4,
		NoData:       9999,
	})
	require.NoError(t, err)

	c, r := out.Dims()
	assert.Equal(t, 21, c)
	assert.Equal(t, 21, r)
	require.NotNil(t, out.NoData)
	assert.Equal(t, 9999.0, *out.NoData)

	// interior nodes are fully supported
	assert.InDelta(t, 4, out.At(10, 10), 1e-12)
	assert.InDelta(t, 4, out.At(5, 0), 1e-12)

	// corners only see a single quadrant, whichever one it is
	assert.Equal(t, 9999.0, out.At(0, 0), "south west")
	assert.Equal(t, 9999.0, out.At(20, 0), "south east")
	assert.Equal(t, 9999.0, out.At(0, 20), "north west")
	assert.Equal(t, 9999.0, out.At(20, 20), "north east")
}

func TestNearNeighborPointOnNodeFillsNoSector(t *testing.T) {
	t.Parallel()

	// one point on the node, three spread over the western half
	pc := grid.PointCloud{
		{X: 0, Y: 0, Z: 8},
		{X: -1, Y: 0.5, Z: 8},
		{X: -1, Y: -0.5, Z: 8},
		{X: 0, Y: 1, Z: 8},
	}
	opts := NearNeighborOptions{
		Region:       region.New(0, 0, 0, 0),
		Spacing:      1,
		SearchRadius: 2,
		MinSectors:   4,
		NoData:       -1,
	}

	out, err := Default().NearNeighbor(pc, opts)
	require.NoError(t, err)
	assert.Equal(t, -1.0, out.At(0, 0))

	opts.MinSectors = 3
	out, err = Default().NearNeighbor(pc, opts)
	require.NoError(t, err)
	assert.InDelta(t, 8, out.At(0, 0), 1e-12)
}

func TestSector(t *testing.T) {
	t.Parallel()

	width := 2 * math.Pi / 8
	tests := []struct {
		dx, dy float64
		want   int
	}{
		{1, 0, 0},
		{1, 1, 1},
		{0, 1, 2},
		{-1, 0, 4},
		{-1, -0.5, 4},
		{0, -1, 6},
		{1, -1, 7},
		{1, -1e-3, 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sector(tt.dx, tt.dy, width, 8), "(%g, %g)", tt.dx, tt.dy)
	}
}

func TestNearNeighborSparseSupport(t *testing.T) {
	t.Parallel()

	// all points east of the node
	pc := grid.PointCloud{{X: 1, Y: 0, Z: 1}, {X: 1, Y: 0.5, Z: 1}, {X: 1, Y: -0.5, Z: 1}}
	opts := NearNeighborOptions{
		Region:       region.New(-1, 1, -1, 1),
		Spacing:      1,
		SearchRadius: 1.5,
		MinSectors:   4,
		NoData:       -1,
	}

	out, err := Default().NearNeighbor(pc, opts)
	require.NoError(t, err)
	assert.Equal(t, -1.0, out.At(1, 1))

	opts.MinSectors = 1
	out, err = Default().NearNeighbor(pc, opts)
	require.NoError(t, err)
	assert.Equal(t, 1.0, out.At(1, 1))
	assert.Equal(t, -1.0, out.At(0, 1), "points out of reach")
}

func TestNearNeighborWeights(t *testing.T) {
	t.Parallel()

	pc := grid.PointCloud{{X: 0, Y: 0, Z: 10}, {X: -2, Y: 0, Z: 0}}
	out, err := Default().NearNeighbor(pc, NearNeighborOptions{
		Region:       region.New(0, 0, 0, 0),
		Spacing:      1,
		SearchRadius: 2,
		MinSectors:   1,
		NoData:       math.NaN(),
	})
	require.NoError(t, err)

	// w(0) = 1, w(R) = 1/10
	assert.InDelta(t, 10/1.1, out.At(0, 0), 1e-12)
}

func TestNearNeighborErrors(t *testing.T) {
	t.Parallel()

	opts := NearNeighborOptions{Region: region.New(0, 1, 0, 1), Spacing: 1}
	_, err := Default().NearNeighbor(nil, opts)
	assert.Error(t, err)

	opts.SearchRadius = 1
	opts.MinSectors = 9
	_, err = Default().NearNeighbor(nil, opts)
	assert.Error(t, err)

	opts.MinSectors = 4
	opts.Region = region.New(1, 0, 0, 1)
	_, err = Default().NearNeighbor(nil, opts)
	assert.ErrorIs(t, err, region.ErrInvalid)
}

func TestBoxcar(t *testing.T) {
	t.Parallel()

	// step from 0 to 1 between x=2 and x=3
	g := lattice(t, region.New(0, 5, 0, 2), 1, func(x, y float64) float64 {
		if x >= 3 {
			return 1
		}
		return 0
	})

	out, err := Default().Boxcar(g, 2)
	require.NoError(t, err)

	// radius 1 around an interior node covers the node and its 4 neighbours
	assert.InDelta(t, 1.0/5, out.At(2, 1), 1e-12)
	assert.InDelta(t, 4.0/5, out.At(3, 1), 1e-12)
	assert.InDelta(t, 0, out.At(0, 1), 1e-12)
	assert.InDelta(t, 1, out.At(5, 1), 1e-12)
	// only existing nodes are counted at the edge
	assert.InDelta(t, 1.0/4, out.At(2, 0), 1e-12)

	// input untouched
	assert.Equal(t, 0.0, g.At(2, 1))
}

func TestBoxcarSkipsNodata(t *testing.T) {
	t.Parallel()

	nd := 9999.0
	g := lattice(t, region.New(0, 2, 0, 2), 1, constant(nd))
	g.NoData = &nd
	g.Set(1, 1, 6)

	out, err := Default().Boxcar(g, 2)
	require.NoError(t, err)
	assert.Equal(t, 6.0, out.At(1, 0))
	assert.Equal(t, 6.0, out.At(1, 1))
	assert.Equal(t, nd, out.At(0, 0))

	_, err = Default().Boxcar(g, 0)
	assert.Error(t, err)
}

func TestBoxcarKeepsLattice(t *testing.T) {
	t.Parallel()

	g := lattice(t, region.New(-1, 1, -1, 1), 0.5, constant(2))
	out, err := Default().Boxcar(g, 1.2)
	require.NoError(t, err)
	assert.True(t, out.SameLattice(g))
	assert.True(t, mat.EqualApprox(g.Values, out.Values, 1e-12))
}
