package grid

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"
)

// paletteSize is the number of colors of the heat map palette
const paletteSize = 255

// Plot renders the grid as heat map. If canvas is not nil the plot is also
// drawn onto it, which is how multi-panel figures are composed.
func (g *Grid) Plot(canvas *draw.Canvas, title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	heat := plotter.NewHeatMap(heatGrid{g}, moreland.ExtendedBlackBody().Palette(paletteSize))
	heat.NaN = color.Transparent
	p.Add(heat)

	if canvas != nil {
		p.Draw(*canvas)
	}

	return p, nil
}

// heatGrid exposes a grid as plotter.GridXYZ, with missing values as NaN.
type heatGrid struct {
	g *Grid
}

func (h heatGrid) Dims() (c, r int) { return h.g.Dims() }
func (h heatGrid) X(c int) float64  { return h.g.X[c] }
func (h heatGrid) Y(r int) float64  { return h.g.Y[r] }

func (h heatGrid) Z(c, r int) float64 {
	v := h.g.At(c, r)
	if h.g.IsNoData(v) {
		return math.NaN()
	}
	return v
}

// Min and Max keep the heat map range finite for grids without any data.
func (h heatGrid) Min() float64 {
	lo, _ := h.g.MinMax()
	return lo
}

func (h heatGrid) Max() float64 {
	_, hi := h.g.MinMax()
	return hi
}

// MinMax returns the smallest and largest value holding data, (0, 0) if
// there is none.
func (g *Grid) MinMax() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	c, r := g.Dims()
	for row := 0; row < r; row++ {
		for col := 0; col < c; col++ {
			v := g.At(col, row)
			if g.IsNoData(v) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 0
	}
	return lo, hi
}
