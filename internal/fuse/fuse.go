// Package fuse applies update grids one after another onto a base grid.
package fuse

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gruppe-adler/bathyfuse/internal/config"
	"github.com/gruppe-adler/bathyfuse/internal/dem"
	"github.com/gruppe-adler/bathyfuse/internal/grid"
	"github.com/gruppe-adler/bathyfuse/internal/notify"
	"github.com/gruppe-adler/bathyfuse/internal/region"
	"github.com/gruppe-adler/bathyfuse/internal/removerestore"
	"github.com/gruppe-adler/bathyfuse/internal/validate"
	"github.com/sirupsen/logrus"
)

// Fuser fuses updates into a base grid.
type Fuser struct {
	Engine *removerestore.Engine
	Log    logrus.FieldLogger
	Notify *notify.Notifier
}

// New returns a fuser using the in-process engine.
func New(log logrus.FieldLogger, n *notify.Notifier) *Fuser {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if n == nil {
		n = notify.New(nil)
	}
	return &Fuser{
		Engine: removerestore.New(log),
		Log:    log,
		Notify: n,
	}
}

// Summary lists which updates were applied and which were skipped.
type Summary struct {
	Applied []string
	Skipped []string
}

// LoadBase loads the base grid, crops it to roi if given and resamples it to
// spacing if it is greater than 0. Cropping comes first so the resample only
// covers the region of interest.
func LoadBase(path string, roi *region.Region, spacing float64) (*grid.Grid, error) {
	base, err := grid.Load(path)
	if err != nil {
		return nil, err
	}

	if roi != nil {
		if err := base.Crop(*roi); err != nil {
			return nil, fmt.Errorf("cropping %s: %w", path, err)
		}
	}

	if spacing > 0 {
		if err := base.Resample(spacing); err != nil {
			return nil, fmt.Errorf("resampling %s: %w", path, err)
		}
	}

	return base, nil
}

// ReadFilenames reads one path per line. Blank lines are ignored.
func ReadFilenames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", dem.ErrIO, path, err)
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", dem.ErrIO, path, err)
	}

	return names, nil
}

// Sources returns the updates in the order they are applied: the ones listed
// in the input file followed by the ones given directly.
func Sources(cfg config.Fusion) ([]string, error) {
	var sources []string
	if cfg.InputTxt != "" {
		names, err := ReadFilenames(cfg.InputTxt)
		if err != nil {
			return nil, err
		}
		sources = append(sources, names...)
	}
	sources = append(sources, cfg.Updates...)

	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: no update grids given", config.ErrMissingArgument)
	}
	return sources, nil
}

// Fuse applies all sources onto base in the given order. Each correction is
// measured against the base as corrected by all previous sources. Sources
// without overlap or data are skipped and leave base untouched.
func (f *Fuser) Fuse(base *grid.Grid, sources []string, opts removerestore.Options) (Summary, error) {
	var summary Summary
	n := f.Notify.Nested()

	for i, path := range sources {
		done := n.Step("Applying update %d/%d: %s", i+1, len(sources), filepath.Base(path))
		log := f.Log.WithField("update", path)

		update, err := grid.Load(path, grid.WithPointCloud())
		if err != nil {
			return summary, err
		}

		correction, err := f.Engine.DiffGrid(base, update, opts)
		if removerestore.IsSkip(err) {
			done("Skipped %s", filepath.Base(path))
			n.Warningf("Skipped %s: %v", filepath.Base(path), err)
			log.WithError(err).Debug("skipped update")
			summary.Skipped = append(summary.Skipped, path)
			continue
		}
		if err != nil {
			return summary, fmt.Errorf("%s: %w", path, err)
		}

		if err := base.Add(correction); err != nil {
			return summary, fmt.Errorf("%s: %w", path, err)
		}

		lo, hi := correction.MinMax()
		log.WithFields(logrus.Fields{"min": lo, "max": hi}).Debug("applied correction")
		summary.Applied = append(summary.Applied, path)
		done("Applied %s", filepath.Base(path))
	}

	return summary, nil
}

// Run executes a whole fusion job: it loads the base grid, applies all
// updates, saves the result and optionally the figure.
func (f *Fuser) Run(cfg config.Fusion) (Summary, error) {
	if err := cfg.Validate(); err != nil {
		return Summary{}, err
	}

	mode, err := removerestore.ParseThresholdMode(cfg.ThresholdMode)
	if err != nil {
		return Summary{}, err
	}
	opts := removerestore.Options{
		DiffThreshold: cfg.DiffThreshold,
		ThresholdMode: mode,
		WindowWidth:   cfg.WindowWidth,
	}

	sources, err := Sources(cfg)
	if err != nil {
		return Summary{}, err
	}

	// validate inputs and output before doing any work
	if err := validate.Inputs(append([]string{cfg.Base}, sources...)...); err != nil {
		return Summary{}, err
	}
	if err := validate.Output(cfg.Output); err != nil {
		return Summary{}, err
	}
	f.Notify.Successf("Validated %d input grids", len(sources)+1)

	done := f.Notify.Step("Loading base grid")
	base, err := LoadBase(cfg.Base, cfg.RegionOfInterest, cfg.Spacing)
	if err != nil {
		return Summary{}, err
	}
	done("Loaded base grid")
	f.Notify.Infof("Base grid covers %s with a spacing of %g", base.Region, base.Spacing)

	var initial *grid.Grid
	if cfg.Plot {
		initial = base.Clone()
	}

	done = f.Notify.Step("Fusing %d update grids", len(sources))
	summary, err := f.Fuse(base, sources, opts)
	if err != nil {
		return summary, err
	}
	done("Fused %d of %d update grids", len(summary.Applied), len(sources))

	done = f.Notify.Step("Saving fused grid")
	if err := base.Save(cfg.Output); err != nil {
		return summary, err
	}
	done("Saved fused grid to %s", cfg.Output)

	if cfg.Plot {
		done = f.Notify.Step("Plotting")
		figure := FigurePath(cfg.Output)
		if err := WriteFigure(figure, initial, base); err != nil {
			return summary, err
		}
		done("Plotted %s", figure)
	}

	return summary, nil
}
