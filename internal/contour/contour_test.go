package contour

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gruppe-adler/bathyfuse/internal/grid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// fromRows builds a grid with spacing 1 from rows given south to north.
func fromRows(t *testing.T, noData *float64, rows ...[]float64) *grid.Grid {
	t.Helper()

	x := make([]float64, len(rows[0]))
	for i := range x {
		x[i] = float64(i)
	}
	y := make([]float64, len(rows))
	values := mat.NewDense(len(rows), len(x), nil)
	for i, row := range rows {
		y[i] = float64(i)
		values.SetRow(i, row)
	}

	g, err := grid.New(x, y, values, noData)
	require.NoError(t, err)
	return g
}

func TestLinesAroundPeak(t *testing.T) {
	t.Parallel()

	g := fromRows(t, nil,
		[]float64{0, 0, 0},
		[]float64{0, 10, 0},
		[]float64{0, 0, 0},
	)

	lines := Lines(g, 5)
	require.Len(t, lines, 1)
	assert.True(t, IsClosed(lines[0]))
	assert.Len(t, lines[0], 5)

	bound := lines[0].Bound()
	assert.Equal(t, orb.Bound{Min: orb.Point{0.5, 0.5}, Max: orb.Point{1.5, 1.5}}, bound)
}

func TestLinesAcrossSlope(t *testing.T) {
	t.Parallel()

	g := fromRows(t, nil,
		[]float64{0, 1, 2, 3},
		[]float64{0, 1, 2, 3},
		[]float64{0, 1, 2, 3},
	)

	lines := Lines(g, 1.5)
	require.Len(t, lines, 1)
	assert.False(t, IsClosed(lines[0]))
	require.Len(t, lines[0], 3)
	for _, p := range lines[0] {
		assert.Equal(t, 1.5, p.X())
	}
}

func TestLinesSkipNodata(t *testing.T) {
	t.Parallel()

	nd := 9999.0
	g := fromRows(t, &nd,
		[]float64{0, 0, 0},
		[]float64{0, 10, 0},
		[]float64{0, 0, nd},
	)

	lines := Lines(g, 5)
	require.Len(t, lines, 1)
	assert.False(t, IsClosed(lines[0]))
	assert.Len(t, lines[0], 4)
}

func TestLinesBelowEverything(t *testing.T) {
	t.Parallel()

	g := fromRows(t, nil, []float64{1, 2}, []float64{3, 4})
	assert.Empty(t, Lines(g, 0))
	assert.Empty(t, Lines(g, 10))
}

func TestIsClosed(t *testing.T) {
	t.Parallel()

	assert.False(t, IsClosed(orb.LineString{{0, 0}, {0, 0}}))
	assert.False(t, IsClosed(orb.LineString{{0, 0}, {1, 0}, {1, 1}, {0, 1}}))
	assert.True(t, IsClosed(orb.LineString{{0, 0}, {1, 0}, {1, 1}, {0, 0}}))
}

func TestSummits(t *testing.T) {
	t.Parallel()

	nd := -32768.0
	g := fromRows(t, &nd,
		[]float64{0, 0, 0, 0, 0, 0},
		[]float64{0, 7, 0, 0, 4, 0},
		[]float64{0, 0, 0, 0, 0, 0},
		[]float64{0, 9, 0, 5, 5, 0},
		[]float64{0, 0, 0, 0, 0, nd},
	)

	summits := Summits(g, 0)
	require.Len(t, summits.Features, 3)

	assert.Equal(t, orb.Point{1, 3}, summits.Features[0].Geometry)
	assert.Equal(t, 9.0, summits.Features[0].Properties.MustFloat64("elevation"))
	assert.Equal(t, "9", summits.Features[0].Properties.MustString("text"))
	assert.Equal(t, orb.Point{1, 1}, summits.Features[1].Geometry)
	assert.Equal(t, orb.Point{4, 1}, summits.Features[2].Geometry)

	assert.Len(t, Summits(g, 8).Features, 1)
}

func TestWriteGeoJSON(t *testing.T) {
	t.Parallel()

	g := fromRows(t, nil,
		[]float64{0, 0, 0},
		[]float64{0, 10, 0},
		[]float64{0, 0, 0},
	)

	fc := Features(Lines(g, 5), 5)
	fc.Features = append(fc.Features, Summits(g, 5).Features...)

	path := filepath.Join(t.TempDir(), "contours.geojson")
	require.NoError(t, WriteGeoJSON(path, fc))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	read, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	require.Len(t, read.Features, 2)

	assert.Equal(t, "LineString", read.Features[0].Geometry.GeoJSONType())
	assert.Equal(t, true, read.Features[0].Properties["closed"])
	assert.Equal(t, 5.0, read.Features[0].Properties.MustFloat64("elevation"))
	assert.Equal(t, "Point", read.Features[1].Geometry.GeoJSONType())
}
