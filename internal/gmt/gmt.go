// Package gmt provides the numerical primitives the remove-restore workflow is
// built on: block median aggregation, sampling a grid along points, nearest
// neighbor gridding of scattered points and boxcar filtering.
//
// The names follow the Generic Mapping Tools modules they stand in for
// (blockmedian, grdtrack, nearneighbor, grdfilter). Everything runs in-process.
package gmt

import (
	"github.com/gruppe-adler/bathyfuse/internal/grid"
	"github.com/gruppe-adler/bathyfuse/internal/region"
)

// BlockAggregator reduces a point cloud to one representative point per cell.
type BlockAggregator interface {
	BlockMedian(pc grid.PointCloud, spacing float64, r region.Region) (grid.PointCloud, error)
}

// PointSampler evaluates a grid at the location of every point.
type PointSampler interface {
	Track(pc grid.PointCloud, g *grid.Grid, method grid.Interpolation) ([]TrackPoint, error)
}

// ScatterGridder grids scattered points onto a regular lattice.
type ScatterGridder interface {
	NearNeighbor(pc grid.PointCloud, opts NearNeighborOptions) (*grid.Grid, error)
}

// Smoother low-pass filters a grid.
type Smoother interface {
	Boxcar(g *grid.Grid, width float64) (*grid.Grid, error)
}

// Toolkit bundles all primitives.
type Toolkit interface {
	BlockAggregator
	PointSampler
	ScatterGridder
	Smoother
}

// TrackPoint is a point together with the grid value sampled at its location.
type TrackPoint struct {
	grid.Point
	Sample float64
}

// NearNeighborOptions configures NearNeighbor.
type NearNeighborOptions struct {
	Region  region.Region
	Spacing float64
	// SearchRadius limits the distance of points contributing to a node.
	SearchRadius float64
	// Sectors around each node, 8 if zero.
	Sectors int
	// MinSectors is the number of sectors that need at least one point for a
	// node to get a value.
	MinSectors int
	// NoData is assigned to nodes without enough support.
	NoData float64
}

type toolkit struct{}

// Default returns the in-process implementation of all primitives.
func Default() Toolkit {
	return toolkit{}
}
