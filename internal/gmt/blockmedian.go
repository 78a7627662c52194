package gmt

import (
	"fmt"
	"math"
	"slices"

	"github.com/gruppe-adler/bathyfuse/internal/grid"
	"github.com/gruppe-adler/bathyfuse/internal/region"
	"gonum.org/v1/gonum/stat"
)

// BlockMedian bins the points into cells of the given spacing centered on the
// nodes of r and returns one point per non-empty cell. x, y and z of that point
// are the medians of the points in the cell. Points outside r are ignored.
// The result is ordered row by row, south to north.
func (toolkit) BlockMedian(pc grid.PointCloud, spacing float64, r region.Region) (grid.PointCloud, error) {
	if spacing <= 0 {
		return nil, fmt.Errorf("blockmedian: spacing must be greater than 0, got %g", spacing)
	}
	if !r.IsValid() {
		return nil, fmt.Errorf("blockmedian: %w: %s", region.ErrInvalid, r)
	}

	nx := int(math.Round(r.Width()/spacing)) + 1
	eps := spacing * 1e-6
	outer := region.New(r.West-eps, r.East+eps, r.South-eps, r.North+eps)

	blocks := make(map[int][]grid.Point)
	for _, p := range pc {
		if !outer.Contains(p.X, p.Y) {
			continue
		}
		col := int(math.Round((p.X - r.West) / spacing))
		row := int(math.Round((p.Y - r.South) / spacing))
		idx := row*nx + col
		blocks[idx] = append(blocks[idx], p)
	}

	keys := make([]int, 0, len(blocks))
	for k := range blocks {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make(grid.PointCloud, 0, len(keys))
	xs, ys, zs := []float64{}, []float64{}, []float64{}
	for _, k := range keys {
		xs, ys, zs = xs[:0], ys[:0], zs[:0]
		for _, p := range blocks[k] {
			xs = append(xs, p.X)
			ys = append(ys, p.Y)
			zs = append(zs, p.Z)
		}
		out = append(out, grid.Point{X: median(xs), Y: median(ys), Z: median(zs)})
	}

	return out, nil
}

// median sorts s in place. Even sized sets average the two middle values.
func median(s []float64) float64 {
	slices.Sort(s)

	m := stat.Quantile(0.5, stat.Empirical, s, nil)
	if len(s)%2 == 0 {
		m = (m + s[len(s)/2]) / 2
	}
	return m
}
