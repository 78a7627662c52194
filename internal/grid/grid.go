// Package grid wraps a regular 2-D scalar field together with its bounding
// region and cell spacing.
//
// Values are stored in a gonum matrix with one row per y coordinate and one
// column per x coordinate. Row 0 is the southmost row, both coordinate axes are
// ascending and hold cell centres.
package grid

import (
	"errors"
	"fmt"
	"math"

	"github.com/gruppe-adler/bathyfuse/internal/dem"
	"github.com/gruppe-adler/bathyfuse/internal/region"
	"gonum.org/v1/gonum/mat"
)

// Grid is a 2-D scalar field on a regular lattice.
type Grid struct {
	X, Y    []float64
	Values  *mat.Dense
	Region  region.Region
	Spacing float64
	// NoData is the marker of cells without a measurement, nil if the
	// grid has none.
	NoData *float64

	points PointCloud
}

// New creates a grid from ascending coordinates and a len(y) x len(x) matrix.
func New(x, y []float64, values *mat.Dense, noData *float64) (*Grid, error) {
	if len(x) == 0 || len(y) == 0 {
		return nil, errors.New("grid needs at least one row and one column")
	}
	if values == nil {
		return nil, errors.New("grid has no values")
	}
	if r, c := values.Dims(); r != len(y) || c != len(x) {
		return nil, fmt.Errorf("grid values are %dx%d but axes are %dx%d", r, c, len(y), len(x))
	}
	if !ascending(x) || !ascending(y) {
		return nil, errors.New("grid axes must be strictly ascending")
	}

	var spacing float64
	switch {
	case len(x) > 1:
		spacing = x[1] - x[0]
	case len(y) > 1:
		spacing = y[1] - y[0]
	default:
		return nil, errors.New("grid spacing can't be determined from a single cell")
	}

	return &Grid{
		X:       x,
		Y:       y,
		Values:  values,
		Region:  region.New(x[0], x[len(x)-1], y[0], y[len(y)-1]),
		Spacing: spacing,
		NoData:  noData,
	}, nil
}

// NewFromRegion creates a grid whose nodes cover r with the given spacing,
// starting at the west and south bounds. All values are set to fill.
func NewFromRegion(r region.Region, spacing, fill float64, noData *float64) (*Grid, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("%w: %s", region.ErrInvalid, r)
	}
	if spacing <= 0 {
		return nil, fmt.Errorf("spacing must be greater than 0, got %g", spacing)
	}

	x := Nodes(r.West, r.East, spacing)
	y := Nodes(r.South, r.North, spacing)

	values := mat.NewDense(len(y), len(x), nil)
	if fill != 0 {
		fillDense(values, fill)
	}

	g := &Grid{
		X:       x,
		Y:       y,
		Values:  values,
		Region:  region.New(x[0], x[len(x)-1], y[0], y[len(y)-1]),
		Spacing: spacing,
		NoData:  noData,
	}
	return g, nil
}

// Nodes returns the node coordinates from start to (at most) end.
func Nodes(start, end, spacing float64) []float64 {
	n := int(math.Floor((end-start)/spacing+1e-6)) + 1
	if n < 1 {
		n = 1
	}

	axis := make([]float64, n)
	for i := range axis {
		axis[i] = start + float64(i)*spacing
	}
	return axis
}

// FromRaster builds a grid from a loaded raster.
func FromRaster(raster dem.Raster) (*Grid, error) {
	values := mat.NewDense(len(raster.Y), len(raster.X), nil)
	for r, row := range raster.Data {
		values.SetRow(r, row)
	}

	return New(raster.X, raster.Y, values, raster.NoData)
}

// Raster converts the grid back into the file format independent raster.
func (g *Grid) Raster() dem.Raster {
	raster := dem.Raster{
		X:    append([]float64(nil), g.X...),
		Y:    append([]float64(nil), g.Y...),
		Data: make([][]float64, len(g.Y)),
	}
	for r := range g.Y {
		raster.Data[r] = mat.Row(nil, r, g.Values)
	}
	if g.NoData != nil {
		nd := *g.NoData
		raster.NoData = &nd
	}
	return raster
}

// Dims returns the number of columns and rows.
func (g *Grid) Dims() (c, r int) {
	return len(g.X), len(g.Y)
}

// At returns the value of column c in row r.
func (g *Grid) At(c, r int) float64 {
	return g.Values.At(r, c)
}

// Set sets the value of column c in row r.
func (g *Grid) Set(c, r int, v float64) {
	g.Values.Set(r, c, v)
	g.points = nil
}

// IsNoData reports whether v is the grid's nodata marker. NaN is always
// treated as missing.
func (g *Grid) IsNoData(v float64) bool {
	if math.IsNaN(v) {
		return true
	}
	return g.NoData != nil && v == *g.NoData
}

// AllValuesAreNodata reports whether every cell holds the nodata marker.
// Grids without a marker always have data.
func AllValuesAreNodata(g *Grid) bool {
	if g.NoData == nil {
		return false
	}

	nd := *g.NoData
	raw := g.Values.RawMatrix()
	for r := 0; r < raw.Rows; r++ {
		for _, v := range raw.Data[r*raw.Stride : r*raw.Stride+raw.Cols] {
			if v == nd || (math.IsNaN(nd) && math.IsNaN(v)) {
				continue
			}
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := &Grid{
		X:       append([]float64(nil), g.X...),
		Y:       append([]float64(nil), g.Y...),
		Values:  mat.DenseCopyOf(g.Values),
		Region:  g.Region,
		Spacing: g.Spacing,
	}
	if g.NoData != nil {
		nd := *g.NoData
		c.NoData = &nd
	}
	return c
}

// Add adds the values of o element-wise. Both grids must share their lattice.
func (g *Grid) Add(o *Grid) error {
	if !g.SameLattice(o) {
		return fmt.Errorf("can't add grids on different lattices: %s (%g) and %s (%g)", g.Region, g.Spacing, o.Region, o.Spacing)
	}
	g.Values.Add(g.Values, o.Values)
	g.points = nil
	return nil
}

// SameLattice reports whether both grids have identical axes.
func (g *Grid) SameLattice(o *Grid) bool {
	return equalFloats(g.X, o.X) && equalFloats(g.Y, o.Y)
}

// replace swaps in the lattice and values of other, keeping the nodata marker.
func (g *Grid) replace(other *Grid) {
	g.X = other.X
	g.Y = other.Y
	g.Values = other.Values
	g.Region = other.Region
	g.Spacing = other.Spacing
	g.points = nil
}

func (g *Grid) noDataOrNaN() float64 {
	if g.NoData != nil {
		return *g.NoData
	}
	return math.NaN()
}

func fillDense(m *mat.Dense, v float64) {
	raw := m.RawMatrix()
	for r := 0; r < raw.Rows; r++ {
		row := raw.Data[r*raw.Stride : r*raw.Stride+raw.Cols]
		for i := range row {
			row[i] = v
		}
	}
}

func ascending(s []float64) bool {
	for i := 1; i < len(s); i++ {
		if !(s[i] > s[i-1]) {
			return false
		}
	}
	return true
}

func equalFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
