// Package boundary clamps the edges of a grid so the contour at the clamp
// value is guaranteed to be closed.
package boundary

import (
	"github.com/gruppe-adler/bathyfuse/internal/grid"
	"gonum.org/v1/gonum/mat"
)

// Close sets every cell of the four outermost rows and columns to value where
// the tested cell exceeds value. Without offset the tested cell is the edge
// cell itself, with offset it is the neighbour one cell further inside.
// All tests read the values from before the call and cells without data are
// left alone, so the result doesn't depend on the order of the edges and
// closing twice changes nothing.
func Close(g *grid.Grid, value float64, offset bool) {
	before := mat.DenseCopyOf(g.Values)
	c, r := g.Dims()

	step := 0
	if offset {
		step = 1
	}

	clamp := func(col, row, testCol, testRow int) {
		if testCol < 0 || testCol >= c || testRow < 0 || testRow >= r {
			return
		}
		if g.IsNoData(before.At(row, col)) {
			return
		}

		test := before.At(testRow, testCol)
		if g.IsNoData(test) || test <= value {
			return
		}
		g.Set(col, row, value)
	}

	for col := 0; col < c; col++ {
		clamp(col, 0, col, step)       // south
		clamp(col, r-1, col, r-1-step) // north
	}
	for row := 0; row < r; row++ {
		clamp(0, row, step, row)       // west
		clamp(c-1, row, c-1-step, row) // east
	}
}
