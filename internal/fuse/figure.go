package fuse

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gruppe-adler/bathyfuse/internal/dem"
	"github.com/gruppe-adler/bathyfuse/internal/grid"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const panelSize = 5 * vg.Inch

// FigurePath returns the path of the figure belonging to a fused grid.
func FigurePath(output string) string {
	ext := filepath.Ext(output)
	if strings.EqualFold(filepath.Ext(strings.TrimSuffix(output, ext)), ".asc") {
		ext = filepath.Ext(strings.TrimSuffix(output, ext)) + ext
	}
	return strings.TrimSuffix(output, ext) + ".png"
}

// WriteFigure writes a 2x2 PNG figure: the initial and the fused grid in the
// top row, the derivatives of the fused grid along x and y below.
func WriteFigure(path string, initial, fused *grid.Grid) error {
	panels := []struct {
		g     *grid.Grid
		title string
	}{
		{initial, "Initial"},
		{fused, "Fused"},
		{fused.Differentiate(grid.AxisX), "d/dx"},
		{fused.Differentiate(grid.AxisY), "d/dy"},
	}

	img := vgimg.New(2*panelSize, 2*panelSize)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: 2,
		Cols: 2,
		PadX: vg.Millimeter,
		PadY: vg.Millimeter,
	}

	for i, panel := range panels {
		canvas := tiles.At(dc, i%2, i/2)
		if _, err := panel.g.Plot(&canvas, panel.title); err != nil {
			return fmt.Errorf("plotting %s: %w", panel.title, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", dem.ErrIO, path, err)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("%w: write %s: %w", dem.ErrIO, path, err)
	}

	return f.Close()
}
