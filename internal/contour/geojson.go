package contour

import (
	"fmt"
	"os"

	"github.com/gruppe-adler/bathyfuse/internal/dem"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Features wraps contour lines into line string features carrying their
// height and whether they are closed.
func Features(lines []orb.LineString, height float64) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, l := range lines {
		feature := geojson.NewFeature(l)
		feature.Properties["elevation"] = height
		feature.Properties["closed"] = IsClosed(l)
		fc.Append(feature)
	}
	return fc
}

// WriteGeoJSON writes the feature collection to path.
func WriteGeoJSON(path string, fc *geojson.FeatureCollection) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %w", dem.ErrIO, path, err)
	}
	return nil
}
