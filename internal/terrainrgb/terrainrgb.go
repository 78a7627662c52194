// Package terrainrgb exports a grid as Mapbox Terrain-RGB tile pyramid.
package terrainrgb

import (
	"context"

	"github.com/gruppe-adler/bathyfuse/internal/config"
	"github.com/gruppe-adler/bathyfuse/internal/grid"
	"github.com/gruppe-adler/bathyfuse/internal/notify"
	"github.com/gruppe-adler/bathyfuse/internal/tilejson"
	"github.com/gruppe-adler/bathyfuse/internal/utils"
	"github.com/gruppe-adler/bathyfuse/internal/validate"
	"github.com/sirupsen/logrus"
)

// Process encodes the input grid and writes all tiles up to the max LOD plus
// a tile.json into the output directory.
func Process(ctx context.Context, cfg config.Export, log logrus.FieldLogger, n *notify.Notifier) error {
	if err := validate.Inputs(cfg.Input); err != nil {
		return err
	}
	if err := validate.OutputDirectory(cfg.Output); err != nil {
		return err
	}

	// load grid
	done := n.Step("Loading %s", cfg.Input)
	g, err := grid.Load(cfg.Input)
	if err != nil {
		return err
	}
	done("Loaded grid")

	// calculating image
	done = n.Step("Calculating image from grid")
	img := Image(g)
	done("Calculated image")

	// calculate max LOD
	maxLod := utils.CalcMaxLod(img.Bounds())
	n.Infof("Calculated max lod: %d", maxLod)

	// build tiles
	done = n.Step("Building tiles")
	nested := n.Nested()
	for lod := uint8(0); lod <= maxLod; lod++ {
		lodDone := nested.Step("Building tiles for LOD %d", lod)
		if err := utils.BuildTileSet(ctx, lod, img, cfg.Output); err != nil {
			return err
		}
		log.WithField("lod", lod).Debug("wrote tile set")
		lodDone("Finished tiles for LOD %d", lod)
	}
	done("Built Terrain-RGB tiles")

	// write tile.json
	done = n.Step("Creating tile.json")
	tj := tilejson.New(cfg.Name+" Terrain-RGB", "Mapbox Terrain-RGB tiles of "+cfg.Name, maxLod, g.Region)
	tj.Encoding = "mapbox"
	if err := tilejson.Write(cfg.Output, tj); err != nil {
		return err
	}
	done("Created tile.json")

	return nil
}
