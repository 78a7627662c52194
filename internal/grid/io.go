package grid

import (
	"fmt"

	"github.com/gruppe-adler/bathyfuse/internal/dem"
)

// LoadOption configures Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	pointCloud bool
}

// WithPointCloud converts the grid to a point cloud right after loading.
func WithPointCloud() LoadOption {
	return func(o *loadOptions) {
		o.pointCloud = true
	}
}

// Load reads the grid stored at path.
func Load(path string, opts ...LoadOption) (*Grid, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	raster, err := dem.Read(path)
	if err != nil {
		return nil, err
	}

	g, err := FromRaster(raster)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if o.pointCloud {
		g.points = g.AsPointCloud()
	}

	return g, nil
}

// Save writes the grid to path, the file format is picked by extension.
func (g *Grid) Save(path string) error {
	return dem.Write(path, g.Raster())
}
