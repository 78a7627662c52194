package grid

import (
	"fmt"
	"math"

	"github.com/gruppe-adler/bathyfuse/internal/region"
	"gonum.org/v1/gonum/mat"
)

// Interpolation selects how values between nodes are evaluated.
type Interpolation int

const (
	// Linear is bilinear interpolation between the four surrounding nodes.
	Linear Interpolation = iota
	// Nearest picks the value of the closest node.
	Nearest
)

func (i Interpolation) String() string {
	if i == Nearest {
		return "nearest"
	}
	return "linear"
}

// relative tolerance used when snapping coordinates onto the lattice
const snapTolerance = 1e-6

// Interpolate evaluates the grid at (x, y). ok is false if the location lies
// outside the grid or one of the nodes used holds no data.
func (g *Grid) Interpolate(x, y float64, method Interpolation) (v float64, ok bool) {
	fx, okX := fractionalIndex(g.X, g.Spacing, x)
	fy, okY := fractionalIndex(g.Y, g.Spacing, y)
	if !okX || !okY {
		return 0, false
	}

	if method == Nearest {
		v = g.Values.At(int(math.Round(fy)), int(math.Round(fx)))
		return v, !g.IsNoData(v)
	}

	c0, tx := split(fx, len(g.X))
	r0, ty := split(fy, len(g.Y))
	c1, r1 := c0, r0
	if tx > 0 {
		c1 = c0 + 1
	}
	if ty > 0 {
		r1 = r0 + 1
	}

	z00 := g.Values.At(r0, c0)
	z10 := g.Values.At(r0, c1)
	z01 := g.Values.At(r1, c0)
	z11 := g.Values.At(r1, c1)
	for _, z := range [...]float64{z00, z10, z01, z11} {
		if g.IsNoData(z) {
			return 0, false
		}
	}

	v = z00*(1-tx)*(1-ty) + z10*tx*(1-ty) + z01*(1-tx)*ty + z11*tx*ty
	return v, true
}

// fractionalIndex returns the position of c on the axis in units of nodes.
func fractionalIndex(axis []float64, spacing, c float64) (float64, bool) {
	f := (c - axis[0]) / spacing
	last := float64(len(axis) - 1)

	switch {
	case f < -snapTolerance || f > last+snapTolerance:
		return 0, false
	case f < 0:
		f = 0
	case f > last:
		f = last
	}
	return f, true
}

// split turns a fractional index into the lower node and the weight of the upper one.
func split(f float64, n int) (int, float64) {
	i := int(math.Floor(f))
	if i >= n-1 {
		return n - 1, 0
	}
	t := f - float64(i)
	switch {
	case t < snapTolerance:
		t = 0
	case t > 1-snapTolerance:
		return i + 1, 0
	}
	return i, t
}

// Crop cuts the grid down to the nodes inside r. Nothing happens if r equals
// the current region. The stored region is recomputed from the kept nodes
// since they rarely line up exactly with r.
func (g *Grid) Crop(r region.Region) error {
	if r == g.Region {
		return nil
	}

	cropped, err := g.cut(r)
	if err != nil {
		return err
	}

	g.replace(cropped)
	return nil
}

func (g *Grid) cut(r region.Region) (*Grid, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("crop: %w: %s", region.ErrInvalid, r)
	}

	eps := g.Spacing * snapTolerance
	c0, c1 := indexRange(g.X, r.West-eps, r.East+eps)
	r0, r1 := indexRange(g.Y, r.South-eps, r.North+eps)
	if c0 > c1 || r0 > r1 {
		return nil, fmt.Errorf("crop: %w: %s doesn't contain any node of %s", region.ErrInvalid, r, g.Region)
	}

	values := mat.DenseCopyOf(g.Values.Slice(r0, r1+1, c0, c1+1))
	cropped := &Grid{
		X:       append([]float64(nil), g.X[c0:c1+1]...),
		Y:       append([]float64(nil), g.Y[r0:r1+1]...),
		Values:  values,
		Spacing: g.Spacing,
		NoData:  g.NoData,
	}
	cropped.Region = region.New(cropped.X[0], cropped.X[len(cropped.X)-1], cropped.Y[0], cropped.Y[len(cropped.Y)-1])

	return cropped, nil
}

// indexRange returns the first and last index of axis values within [lo, hi].
func indexRange(axis []float64, lo, hi float64) (int, int) {
	first, last := len(axis), -1
	for i, v := range axis {
		if v < lo || v > hi {
			continue
		}
		if i < first {
			first = i
		}
		last = i
	}
	return first, last
}

// Resample changes the grid spacing, interpolating bilinearly over the
// current region. Nothing happens if the spacing is already the requested one.
func (g *Grid) Resample(spacing float64) error {
	if spacing == g.Spacing {
		return nil
	}

	resampled, err := g.resample(g.Region, spacing)
	if err != nil {
		return err
	}

	g.replace(resampled)
	return nil
}

func (g *Grid) resample(r region.Region, spacing float64) (*Grid, error) {
	out, err := NewFromRegion(r, spacing, 0, g.NoData)
	if err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}

	missing := g.noDataOrNaN()
	for row, y := range out.Y {
		for col, x := range out.X {
			v, ok := g.Interpolate(x, y, Linear)
			if !ok {
				v = missing
			}
			out.Values.Set(row, col, v)
		}
	}

	return out, nil
}

// Axis of a derivative.
type Axis int

const (
	// AxisX differentiates along x (columns).
	AxisX Axis = iota
	// AxisY differentiates along y (rows).
	AxisY
)

// Differentiate returns the derivative along the axis. Interior nodes use
// central differences, edge nodes one sided differences. Nodes next to
// missing data get the nodata marker.
func (g *Grid) Differentiate(axis Axis) *Grid {
	out := g.Clone()
	c, r := g.Dims()
	missing := g.noDataOrNaN()

	for row := 0; row < r; row++ {
		for col := 0; col < c; col++ {
			var lo, hi [2]int // (col, row)
			var dist float64
			switch axis {
			case AxisX:
				lo, hi = [2]int{max(col-1, 0), row}, [2]int{min(col+1, c-1), row}
				dist = g.X[hi[0]] - g.X[lo[0]]
			case AxisY:
				lo, hi = [2]int{col, max(row-1, 0)}, [2]int{col, min(row+1, r-1)}
				dist = g.Y[hi[1]] - g.Y[lo[1]]
			}

			zlo, zhi := g.At(lo[0], lo[1]), g.At(hi[0], hi[1])
			if dist == 0 || g.IsNoData(zlo) || g.IsNoData(zhi) {
				out.Values.Set(row, col, missing)
				continue
			}
			out.Values.Set(row, col, (zhi-zlo)/dist)
		}
	}

	return out
}
