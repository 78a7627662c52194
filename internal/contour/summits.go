package contour

import (
	"fmt"
	"math"
	"sort"

	"github.com/gruppe-adler/bathyfuse/internal/grid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Summits returns a point feature for every cell above minElevation that is
// higher than all of its eight neighbours, highest first. Edge cells and cells
// next to missing data are never summits.
func Summits(g *grid.Grid, minElevation float64) *geojson.FeatureCollection {
	summits := geojson.NewFeatureCollection()

	c, r := g.Dims()
	for row := 1; row < r-1; row++ {
		for col := 1; col < c-1; col++ {
			elevation := g.At(col, row)
			if g.IsNoData(elevation) || elevation <= minElevation {
				continue
			}

			if !isPeak(g, col, row, elevation) {
				continue
			}

			feature := geojson.NewFeature(orb.Point{g.X[col], g.Y[row]})
			feature.Properties["elevation"] = elevation
			feature.Properties["text"] = fmt.Sprintf("%.0f", math.Round(elevation))
			summits.Append(feature)
		}
	}

	sort.SliceStable(summits.Features, func(i, j int) bool {
		return summits.Features[i].Properties.MustFloat64("elevation") > summits.Features[j].Properties.MustFloat64("elevation")
	})

	return summits
}

// isPeak compares the cell with all direct neighbours. Neighbours with the
// same elevation count as higher, so plateaus don't produce summits.
func isPeak(g *grid.Grid, col, row int, elevation float64) bool {
	for compareRow := row - 1; compareRow <= row+1; compareRow++ {
		for compareCol := col - 1; compareCol <= col+1; compareCol++ {
			// we don't want to compare to the reference cell
			if compareRow == row && compareCol == col {
				continue
			}

			compareElev := g.At(compareCol, compareRow)
			if g.IsNoData(compareElev) || compareElev >= elevation {
				return false
			}
		}
	}
	return true
}
