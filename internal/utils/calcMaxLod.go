package utils

import (
	"image"
	"math"
)

// TileSize is the edge length of a tile in pixels.
const TileSize = 256

// CalcMaxLod calculates the LOD at which a tile is no larger than the image it
// is cut from, based on the longer side of the image.
func CalcMaxLod(bounds image.Rectangle) uint8 {
	w := float64(max(bounds.Dx(), bounds.Dy()))
	if w <= TileSize {
		return 0
	}

	tilesPerRowCol := math.Ceil(w / TileSize)

	return uint8(math.Ceil(math.Log2(tilesPerRowCol)))
}
