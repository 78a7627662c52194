package gmt

import (
	"fmt"
	"math"

	"github.com/gruppe-adler/bathyfuse/internal/grid"
)

// Boxcar filters g with a circular boxcar of the given full width, using
// Cartesian distances. Every node becomes the mean of all nodes holding data
// within width/2. Nodes without any such neighbor get the nodata marker.
func (toolkit) Boxcar(g *grid.Grid, width float64) (*grid.Grid, error) {
	if width <= 0 {
		return nil, fmt.Errorf("grdfilter: width must be greater than 0, got %g", width)
	}

	out := g.Clone()
	half := width / 2
	half2 := half * half
	reach := int(math.Floor(half/g.Spacing + 1e-9))

	missing := math.NaN()
	if g.NoData != nil {
		missing = *g.NoData
	}

	c, r := g.Dims()
	for row := 0; row < r; row++ {
		for col := 0; col < c; col++ {
			var sum float64
			var n int
			for rr := max(row-reach, 0); rr <= min(row+reach, r-1); rr++ {
				dy := g.Y[rr] - g.Y[row]
				for cc := max(col-reach, 0); cc <= min(col+reach, c-1); cc++ {
					dx := g.X[cc] - g.X[col]
					if dx*dx+dy*dy > half2*(1+1e-9) {
						continue
					}
					v := g.At(cc, rr)
					if g.IsNoData(v) {
						continue
					}
					sum += v
					n++
				}
			}

			if n == 0 {
				out.Set(col, row, missing)
				continue
			}
			out.Set(col, row, sum/float64(n))
		}
	}

	return out, nil
}
