// Package tilejson writes the tile.json describing a tile pyramid.
package tilejson

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gruppe-adler/bathyfuse/internal/region"
)

// TileJSON is the subset of the TileJSON 2.2.0 format the raster pyramids use.
type TileJSON struct {
	TileJSON    string     `json:"tilejson"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Scheme      string     `json:"scheme"`
	Tiles       []string   `json:"tiles"`
	Minzoom     uint8      `json:"minzoom"`
	Maxzoom     uint8      `json:"maxzoom"`
	Bounds      [4]float64 `json:"bounds"`
	Encoding    string     `json:"encoding,omitempty"`
}

// New describes a pyramid of PNG tiles laid out as <lod>/<col>/<row>.png
// covering r.
func New(name, description string, maxLod uint8, r region.Region) TileJSON {
	return TileJSON{
		TileJSON:    "2.2.0",
		Name:        name,
		Description: description,
		Scheme:      "xyz",
		Tiles:       []string{"{z}/{x}/{y}.png"},
		Minzoom:     0,
		Maxzoom:     maxLod,
		Bounds:      [4]float64{r.West, r.South, r.East, r.North},
	}
}

// Write a tile.json into outputDirectory
func Write(outputDirectory string, obj TileJSON) error {
	bytes, err := json.MarshalIndent(obj, "", "    ")
	if err != nil {
		return err
	}

	p := filepath.Join(outputDirectory, "tile.json")
	if err := os.WriteFile(p, bytes, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", p, err)
	}

	return nil
}
