package boundary

import (
	"fmt"
	"image/color"

	"github.com/gruppe-adler/bathyfuse/internal/config"
	"github.com/gruppe-adler/bathyfuse/internal/contour"
	"github.com/gruppe-adler/bathyfuse/internal/fuse"
	"github.com/gruppe-adler/bathyfuse/internal/grid"
	"github.com/gruppe-adler/bathyfuse/internal/notify"
	"github.com/gruppe-adler/bathyfuse/internal/validate"
	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const plotSize = 8 * vg.Inch

// Process loads the input grid, closes its boundary and writes the result
// together with the optional contour and plot outputs.
func Process(cfg config.Boundary, log logrus.FieldLogger, n *notify.Notifier) error {
	if err := validate.Inputs(cfg.Input); err != nil {
		return err
	}
	if err := validate.Output(cfg.Output); err != nil {
		return err
	}

	done := n.Step("Loading %s", cfg.Input)
	g, err := grid.Load(cfg.Input)
	if err != nil {
		return err
	}
	if cfg.Region != nil {
		if err := g.Crop(*cfg.Region); err != nil {
			return fmt.Errorf("cropping %s: %w", cfg.Input, err)
		}
	}
	c, r := g.Dims()
	done("Loaded %dx%d grid", c, r)

	log.WithFields(logrus.Fields{
		"value":  cfg.Value,
		"offset": cfg.Offset,
	}).Debug("closing boundary")
	Close(g, cfg.Value, cfg.Offset)

	done = n.Step("Writing %s", cfg.Output)
	if err := g.Save(cfg.Output); err != nil {
		return err
	}
	done("Wrote closed grid")

	var lines []orb.LineString
	if cfg.Contours != "" || cfg.Plot {
		lines = contour.Lines(g, cfg.Value)
		closed := 0
		for _, l := range lines {
			if contour.IsClosed(l) {
				closed++
			}
		}
		log.WithField("lines", len(lines)).WithField("closed", closed).Debug("extracted contour")
	}

	if cfg.Contours != "" {
		done = n.Step("Writing contour to %s", cfg.Contours)
		fc := contour.Features(lines, cfg.Value)
		fc.Features = append(fc.Features, contour.Summits(g, cfg.Value).Features...)
		if err := contour.WriteGeoJSON(cfg.Contours, fc); err != nil {
			return err
		}
		done("Wrote %d features", len(fc.Features))
	}

	if cfg.Plot {
		path := fuse.FigurePath(cfg.Output)
		done = n.Step("Plotting %s", path)
		if err := WritePlot(path, g, lines); err != nil {
			return err
		}
		done("Wrote plot")
	}

	return nil
}

// WritePlot draws the grid with the contour lines on top. The axes are
// widened by a tenth of the grid extent on every side so the boundary stays
// visible.
func WritePlot(path string, g *grid.Grid, lines []orb.LineString) error {
	p, err := g.Plot(nil, "Closed boundary")
	if err != nil {
		return err
	}

	for _, l := range lines {
		xys := make(plotter.XYs, len(l))
		for i, pt := range l {
			xys[i].X, xys[i].Y = pt.X(), pt.Y()
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("plotting contour: %w", err)
		}
		line.Color = color.White
		p.Add(line)
	}

	padX := (g.X[len(g.X)-1] - g.X[0]) / 10
	padY := (g.Y[len(g.Y)-1] - g.Y[0]) / 10
	p.X.Min, p.X.Max = g.X[0]-padX, g.X[len(g.X)-1]+padX
	p.Y.Min, p.Y.Max = g.Y[0]-padY, g.Y[len(g.Y)-1]+padY

	if err := p.Save(plotSize, plotSize, path); err != nil {
		return fmt.Errorf("saving plot %s: %w", path, err)
	}
	return nil
}
