// Package removerestore computes the correction that fuses an update grid into
// a base grid.
//
// The discrepancy between both grids is measured at block median samples of
// the update, gridded with a nearest neighbor search onto the base lattice and
// optionally tapered towards the edge of its support. Adding the returned
// correction to the base values restores the update's detail on top of the
// base.
package removerestore

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/gruppe-adler/bathyfuse/internal/gmt"
	"github.com/gruppe-adler/bathyfuse/internal/grid"
	"github.com/gruppe-adler/bathyfuse/internal/region"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

var (
	// ErrNoOverlap is returned if the update lies completely outside of the base.
	ErrNoOverlap = fmt.Errorf("%w: update doesn't overlap base", region.ErrInvalid)
	// ErrEmptyUpdate is returned if the update holds no data where it overlaps the base.
	ErrEmptyUpdate = errors.New("update has no data")
)

// IsSkip reports whether err only means that an update has nothing to contribute.
func IsSkip(err error) bool {
	return errors.Is(err, ErrNoOverlap) || errors.Is(err, ErrEmptyUpdate)
}

// ThresholdMode selects what happens to differences below the threshold.
type ThresholdMode int

const (
	// ThresholdZero keeps the point but sets its difference to 0.
	ThresholdZero ThresholdMode = iota
	// ThresholdDrop removes the point before gridding.
	ThresholdDrop
)

func (m ThresholdMode) String() string {
	if m == ThresholdDrop {
		return "drop"
	}
	return "zero"
}

// ParseThresholdMode parses "zero" or "drop".
func ParseThresholdMode(s string) (ThresholdMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "zero":
		return ThresholdZero, nil
	case "drop":
		return ThresholdDrop, nil
	}
	return ThresholdZero, fmt.Errorf("unknown threshold mode %q, expected zero or drop", s)
}

// Options tune DiffGrid.
type Options struct {
	// DiffThreshold is the smallest absolute difference treated as a change.
	DiffThreshold float64
	ThresholdMode ThresholdMode
	// WindowWidth is the width of the band over which the correction is
	// tapered to 0 at the edge of its support. 0 disables tapering.
	WindowWidth float64
}

const (
	sectors    = 8
	minSectors = 4
)

// Engine computes corrections. The zero value is not usable, use New.
type Engine struct {
	Tools gmt.Toolkit
	Log   logrus.FieldLogger
}

// New returns an engine backed by the in-process primitives.
func New(log logrus.FieldLogger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{Tools: gmt.Default(), Log: log}
}

// Overlap returns the region covered by both grids.
func Overlap(base, update *grid.Grid) (region.Region, error) {
	overlap := region.Intersect(update.Region, base.Region)
	if !overlap.IsValid() {
		return overlap, fmt.Errorf("%w: %s and %s", ErrNoOverlap, update.Region, base.Region)
	}
	return overlap, nil
}

// DiffGrid returns the correction that has to be added to base to include
// update. The correction lives on the lattice of base, has no nodata marker
// and is 0 wherever base holds no data. ErrNoOverlap and ErrEmptyUpdate mean
// the update has to be skipped, any other error is fatal.
func (e *Engine) DiffGrid(base, update *grid.Grid, opts Options) (*grid.Grid, error) {
	if opts.DiffThreshold < 0 {
		return nil, fmt.Errorf("diff threshold must not be negative, got %g", opts.DiffThreshold)
	}

	workingSpacing := math.Max(update.Spacing, base.Spacing)

	overlap, err := Overlap(base, update)
	if err != nil {
		return nil, err
	}
	if grid.AllValuesAreNodata(update) {
		return nil, ErrEmptyUpdate
	}

	log := e.Log.WithFields(logrus.Fields{
		"overlap": overlap.String(),
		"spacing": workingSpacing,
	})

	blocks, err := e.Tools.BlockMedian(update.PointCloud(), workingSpacing, overlap)
	if err != nil {
		return nil, fmt.Errorf("aggregating update: %w", err)
	}
	if len(blocks) == 0 {
		return nil, fmt.Errorf("%w: no samples inside %s", ErrEmptyUpdate, overlap)
	}
	log.WithField("points", len(blocks)).Debug("aggregated update")

	track, err := e.Tools.Track(blocks, base, grid.Linear)
	if err != nil {
		return nil, fmt.Errorf("sampling base: %w", err)
	}
	if len(track) == 0 {
		return nil, fmt.Errorf("%w: no samples on base data", ErrEmptyUpdate)
	}

	diff := thresholdDifferences(differences(track), opts.DiffThreshold, opts.ThresholdMode)
	log.WithFields(logrus.Fields{
		"sampled":   len(track),
		"kept":      len(diff),
		"threshold": opts.DiffThreshold,
		"mode":      opts.ThresholdMode,
	}).Debug("computed differences")

	noData := math.NaN()
	correction, err := e.Tools.NearNeighbor(diff, gmt.NearNeighborOptions{
		Region:       base.Region,
		Spacing:      base.Spacing,
		SearchRadius: 2 * workingSpacing,
		Sectors:      sectors,
		MinSectors:   minSectors,
		NoData:       noData,
	})
	if err != nil {
		return nil, fmt.Errorf("gridding differences: %w", err)
	}
	if err := alignTo(correction, base); err != nil {
		return nil, err
	}

	if opts.WindowWidth > 0 {
		ramp, err := e.edgeRamp(correction, opts.WindowWidth)
		if err != nil {
			return nil, err
		}
		zeroNoData(correction)
		correction.Values.MulElem(correction.Values, ramp.Values)
	} else {
		zeroNoData(correction)
	}

	maskBaseNoData(correction, base)
	correction.NoData = nil

	return correction, nil
}

// differences turns sampled points into update - base.
func differences(track []gmt.TrackPoint) grid.PointCloud {
	pc := make(grid.PointCloud, len(track))
	for i, t := range track {
		pc[i] = grid.Point{X: t.X, Y: t.Y, Z: t.Z - t.Sample}
	}
	return pc
}

// thresholdDifferences treats differences with an absolute value below
// threshold as no change. The input is never modified.
func thresholdDifferences(pc grid.PointCloud, threshold float64, mode ThresholdMode) grid.PointCloud {
	if threshold <= 0 {
		return pc
	}

	below := func(p grid.Point) bool { return math.Abs(p.Z) < threshold }

	if mode == ThresholdDrop {
		return pc.Filter(func(p grid.Point) bool { return !below(p) })
	}
	return pc.Map(func(p grid.Point) grid.Point {
		if below(p) {
			p.Z = 0
		}
		return p
	})
}

// alignTo puts g onto the exact axes of ref. Both need the same dimensions.
func alignTo(g, ref *grid.Grid) error {
	gc, gr := g.Dims()
	rc, rr := ref.Dims()
	if gc != rc || gr != rr {
		return fmt.Errorf("gridded differences are %dx%d, base is %dx%d", gc, gr, rc, rr)
	}

	g.X = append([]float64(nil), ref.X...)
	g.Y = append([]float64(nil), ref.Y...)
	g.Region = ref.Region
	g.Spacing = ref.Spacing
	return nil
}

// edgeRamp returns a grid going from 0 outside the support of g to 1 well
// inside of it, with a band of roughly width in between.
func (e *Engine) edgeRamp(g *grid.Grid, width float64) (*grid.Grid, error) {
	mask := g.Clone()
	mask.NoData = nil

	raw := mask.Values.RawMatrix()
	for r := 0; r < raw.Rows; r++ {
		row := raw.Data[r*raw.Stride : r*raw.Stride+raw.Cols]
		for i, v := range row {
			if g.IsNoData(v) {
				row[i] = 0
			} else {
				row[i] = 1
			}
		}
	}

	filtered, err := e.Tools.Boxcar(mask, 2*width)
	if err != nil {
		return nil, fmt.Errorf("filtering mask: %w", err)
	}

	raw = filtered.Values.RawMatrix()
	for r := 0; r < raw.Rows; r++ {
		row := raw.Data[r*raw.Stride : r*raw.Stride+raw.Cols]
		floats.AddConst(-0.5, row)
		floats.Scale(2, row)
		for i, v := range row {
			if v < 0 || math.IsNaN(v) {
				row[i] = 0
			}
		}
	}

	return filtered, nil
}

func zeroNoData(g *grid.Grid) {
	g.Values.Apply(func(_, _ int, v float64) float64 {
		if g.IsNoData(v) {
			return 0
		}
		return v
	}, g.Values)
}

// maskBaseNoData zeroes the correction where base holds no data, so adding it
// keeps the nodata marker of base intact.
func maskBaseNoData(correction, base *grid.Grid) {
	correction.Values.Apply(func(r, c int, v float64) float64 {
		if base.IsNoData(base.At(c, r)) {
			return 0
		}
		return v
	}, correction.Values)
}
