package utils

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"runtime"

	"github.com/nfnt/resize"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// BuildTileSet cuts img into 2^lod x 2^lod tiles of TileSize pixels and writes
// them to outputDirectory/<lod>/<col>/<row>.png. Tiles are encoded in parallel,
// at most one per CPU.
func BuildTileSet(ctx context.Context, lod uint8, img *image.RGBA, outputDirectory string) error {
	outputDirectory = filepath.Join(outputDirectory, fmt.Sprintf("%d", lod))

	tilesPerRowCol := 1 << lod

	// make col directories
	for col := 0; col < tilesPerRowCol; col++ {
		dirPath := filepath.Join(outputDirectory, fmt.Sprintf("%d", col))
		if err := os.MkdirAll(dirPath, os.ModePerm); err != nil {
			return err
		}
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	tileWidth := width / tilesPerRowCol
	tileHeight := height / tilesPerRowCol

	// remaining pixels
	widthRemainder := width % tilesPerRowCol
	heightRemainder := height % tilesPerRowCol

	sem := semaphore.NewWeighted(int64(runtime.NumCPU()))
	g, gctx := errgroup.WithContext(ctx)

	x := bounds.Min.X
	for col := 0; col < tilesPerRowCol; col++ {
		w := tileWidth
		// if we have any remaining pixels we'll distribute them to the first rows / cols
		if col < widthRemainder {
			w++
		}

		y := bounds.Min.Y
		for row := 0; row < tilesPerRowCol; row++ {
			h := tileHeight
			if row < heightRemainder {
				h++
			}

			p := image.Point{x, y}
			rect := image.Rectangle{p, p.Add(image.Point{w, h})}
			tilePath := filepath.Join(outputDirectory, fmt.Sprintf("%d", col), fmt.Sprintf("%d.png", row))

			if err := sem.Acquire(gctx, 1); err != nil {
				break
			}
			g.Go(func() error {
				defer sem.Release(1)
				return createTile(img, rect, tilePath)
			})

			y += h
		}
		x += w
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func createTile(img *image.RGBA, rect image.Rectangle, tilePath string) error {
	subImg := img.SubImage(rect)

	tile := resize.Resize(TileSize, TileSize, subImg, resize.MitchellNetravali)

	return SavePNG(tilePath, tile)
}

// SavePNG encodes img into a new file at path.
func SavePNG(path string, img image.Image) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := png.Encode(out, img); err != nil {
		out.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	return out.Close()
}
