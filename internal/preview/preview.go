// Package preview renders colored preview images of a grid at several sizes.
package preview

import (
	"fmt"
	"image"
	"math"
	"path/filepath"
	"runtime"

	"github.com/gruppe-adler/bathyfuse/internal/config"
	"github.com/gruppe-adler/bathyfuse/internal/grid"
	"github.com/gruppe-adler/bathyfuse/internal/notify"
	"github.com/gruppe-adler/bathyfuse/internal/utils"
	"github.com/gruppe-adler/bathyfuse/internal/validate"
	"github.com/nfnt/resize"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot/palette/moreland"
)

var sizes = []uint{128, 256, 512, 1024}

// Image colors the grid with north up, cells without data are transparent.
func Image(g *grid.Grid) (*image.RGBA, error) {
	cmap := moreland.ExtendedBlackBody()
	lo, hi := g.MinMax()
	if hi <= lo {
		hi = lo + 1
	}
	cmap.SetMin(lo)
	cmap.SetMax(hi)

	c, r := g.Dims()
	img := image.NewRGBA(image.Rect(0, 0, c, r))
	for row := 0; row < r; row++ {
		y := r - 1 - row
		for col := 0; col < c; col++ {
			v := g.At(col, row)
			if g.IsNoData(v) {
				continue
			}
			clr, err := cmap.At(v)
			if err != nil {
				return nil, fmt.Errorf("coloring %g: %w", v, err)
			}
			img.Set(col, y, clr)
		}
	}

	return img, nil
}

// Process writes preview.png at the grid's resolution and preview_<size>.png
// scaled to each of the preview heights.
func Process(cfg config.Export, log logrus.FieldLogger, n *notify.Notifier) error {
	if err := validate.Inputs(cfg.Input); err != nil {
		return err
	}
	if err := validate.OutputDirectory(cfg.Output); err != nil {
		return err
	}

	done := n.Step("Loading %s", cfg.Input)
	g, err := grid.Load(cfg.Input)
	if err != nil {
		return err
	}
	done("Loaded grid")

	done = n.Step("Coloring grid")
	previewImage, err := Image(g)
	if err != nil {
		return err
	}
	done("Colored grid")

	done = n.Step("Writing original preview image to output")
	if err := utils.SavePNG(filepath.Join(cfg.Output, "preview.png"), previewImage); err != nil {
		return err
	}
	done("Wrote original preview image")

	previewHeight := previewImage.Bounds().Dy()
	previewWidth := previewImage.Bounds().Dx()

	done = n.Step("Building %d scaled images", len(sizes))
	var eg errgroup.Group
	eg.SetLimit(runtime.NumCPU())
	for _, size := range sizes {
		eg.Go(func() error {
			factor := float64(size) / float64(previewHeight)
			w := max(uint(math.Round(float64(previewWidth)*factor)), 1)

			img := resize.Resize(w, size, previewImage, resize.MitchellNetravali)
			if err := utils.SavePNG(filepath.Join(cfg.Output, fmt.Sprintf("preview_%d.png", size)), img); err != nil {
				return err
			}

			log.WithFields(logrus.Fields{"width": w, "height": size}).Debug("wrote preview")
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	done("Built scaled images")

	return nil
}
