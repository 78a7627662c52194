package terrainrgb

import (
	"image"
	"image/color"
	"math"

	"github.com/gruppe-adler/bathyfuse/internal/grid"
)

/*
	The Mapbox Terrain-RGB Tiles use the following equation to decode
	height values from rgb.

	height = -10000 + ((R * 256 * 256 + G * 256 + B) * 0.1)

	Replacing (R * 256 * 256 + G * 256 + B) with x and solving for x gives
	x = 10 * height + 100000

	(R * 256^2 + G * 256^1 + B * 256^0) is x written as a base 256 number, so
	the digits of x in base 256 are r, g and b.
*/

const (
	minHeight = -10000.0
	maxX      = 1<<24 - 1

	// MaxHeight is the highest height Terrain-RGB can represent.
	MaxHeight = minHeight + maxX*0.1
)

// HeightToRgb calculates rgb values from height. Heights outside of the
// representable range are clamped, depths below -10000m end up at -10000m.
func HeightToRgb(height float64) color.RGBA {
	x := int64(math.Round(10 * (height - minHeight)))
	x = min(max(x, 0), maxX)

	return color.RGBA{
		R: uint8(x >> 16),
		G: uint8(x >> 8),
		B: uint8(x),
		A: 255,
	}
}

// RgbToHeight calculates height from given rgb values
func RgbToHeight(c color.RGBA) float64 {
	x := int64(c.R)<<16 | int64(c.G)<<8 | int64(c.B)

	return minHeight + float64(x)*0.1
}

// Image encodes the grid as Terrain-RGB image with north up. Cells without
// data stay fully transparent.
func Image(g *grid.Grid) *image.RGBA {
	c, r := g.Dims()
	img := image.NewRGBA(image.Rect(0, 0, c, r))

	for row := 0; row < r; row++ {
		y := r - 1 - row
		for col := 0; col < c; col++ {
			v := g.At(col, row)
			if g.IsNoData(v) {
				continue
			}
			img.SetRGBA(col, y, HeightToRgb(v))
		}
	}

	return img
}
