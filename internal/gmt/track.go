package gmt

import (
	"errors"

	"github.com/gruppe-adler/bathyfuse/internal/grid"
)

// Track samples g at every point. Points outside the grid or next to missing
// data are left out.
func (toolkit) Track(pc grid.PointCloud, g *grid.Grid, method grid.Interpolation) ([]TrackPoint, error) {
	if g == nil {
		return nil, errors.New("grdtrack: no grid to sample")
	}

	out := make([]TrackPoint, 0, len(pc))
	for _, p := range pc {
		v, ok := g.Interpolate(p.X, p.Y, method)
		if !ok {
			continue
		}
		out = append(out, TrackPoint{Point: p, Sample: v})
	}

	return out, nil
}
