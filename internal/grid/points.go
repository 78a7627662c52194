package grid

import "math"

// Point is a single (x, y, z) sample.
type Point struct {
	X, Y, Z float64
}

// PointCloud is an ordered collection of samples.
type PointCloud []Point

// AsPointCloud flattens the grid row by row. Cells holding the nodata
// marker (or NaN) are left out.
func (g *Grid) AsPointCloud() PointCloud {
	c, r := g.Dims()
	pc := make(PointCloud, 0, c*r)

	for row := 0; row < r; row++ {
		for col := 0; col < c; col++ {
			z := g.Values.At(row, col)
			if g.IsNoData(z) {
				continue
			}
			pc = append(pc, Point{X: g.X[col], Y: g.Y[row], Z: z})
		}
	}

	return pc
}

// PointCloud returns the cached point cloud, computing it on first use.
func (g *Grid) PointCloud() PointCloud {
	if g.points == nil {
		g.points = g.AsPointCloud()
	}
	return g.points
}

// Filter returns a new cloud holding the points for which keep returns true.
func (pc PointCloud) Filter(keep func(Point) bool) PointCloud {
	out := make(PointCloud, 0, len(pc))
	for _, p := range pc {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// Map returns a new cloud with fn applied to every point.
func (pc PointCloud) Map(fn func(Point) Point) PointCloud {
	out := make(PointCloud, len(pc))
	for i, p := range pc {
		out[i] = fn(p)
	}
	return out
}

// Bounds returns the smallest region containing all points and false for an
// empty cloud.
func (pc PointCloud) Bounds() (west, east, south, north float64, ok bool) {
	if len(pc) == 0 {
		return 0, 0, 0, 0, false
	}

	west, south = math.Inf(1), math.Inf(1)
	east, north = math.Inf(-1), math.Inf(-1)
	for _, p := range pc {
		west = math.Min(west, p.X)
		east = math.Max(east, p.X)
		south = math.Min(south, p.Y)
		north = math.Max(north, p.Y)
	}
	return west, east, south, north, true
}
