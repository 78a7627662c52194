package dem

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned for files whose type can't be determined from their extension.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrIO is returned when reading or writing the underlying file fails.
	ErrIO = errors.New("i/o error")
)

// Format of a raster file
type Format int

const (
	// NetCDF classic file (.nc)
	NetCDF Format = iota
	// GeoTIFF file (.tif, .tiff)
	GeoTIFF
	// EsriASCII grid (.asc, .asc.gz)
	EsriASCII
)

func (f Format) String() string {
	switch f {
	case NetCDF:
		return "netCDF"
	case GeoTIFF:
		return "GeoTIFF"
	case EsriASCII:
		return "ESRI ASCII"
	}
	return "unknown"
}

// Raster is the format independent result of loading a grid file.
//
// X and Y hold the cell centre coordinates in ascending order, Data is indexed
// as Data[row][col] where row 0 belongs to Y[0] (the southmost row).
type Raster struct {
	X, Y   []float64
	Data   [][]float64
	NoData *float64
}

// FormatOf determines the raster format from the file extension.
func FormatOf(path string) (Format, error) {
	name := strings.ToLower(filepath.Base(path))

	switch {
	case strings.HasSuffix(name, ".nc"):
		return NetCDF, nil
	case strings.HasSuffix(name, ".tif"), strings.HasSuffix(name, ".tiff"):
		return GeoTIFF, nil
	case strings.HasSuffix(name, ".asc"), strings.HasSuffix(name, ".asc.gz"):
		return EsriASCII, nil
	}

	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(name))
}

// Read loads the raster at path. The format is picked by file extension.
func Read(path string) (Raster, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Raster{}, err
	}

	var raster Raster
	switch format {
	case NetCDF:
		raster, err = readNetCDF(path)
	case GeoTIFF:
		raster, err = readGDAL(path)
	case EsriASCII:
		raster, err = readEsriASCII(path)
	}
	if err != nil {
		return Raster{}, err
	}

	if err := raster.check(); err != nil {
		return Raster{}, fmt.Errorf("%s: %w", path, err)
	}

	return raster, nil
}

// Write saves the raster to path. The format is picked by file extension.
func Write(path string, raster Raster) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	if err := raster.check(); err != nil {
		return err
	}

	switch format {
	case NetCDF:
		return writeNetCDF(path, raster)
	case GeoTIFF:
		return writeGeoTIFF(path, raster)
	case EsriASCII:
		return writeEsriASCII(path, raster)
	}

	return nil
}

func (r Raster) check() error {
	if len(r.X) == 0 || len(r.Y) == 0 {
		return errors.New("raster has no cells")
	}
	if len(r.Data) != len(r.Y) {
		return fmt.Errorf("raster has %d rows but %d y coordinates", len(r.Data), len(r.Y))
	}
	for i, row := range r.Data {
		if len(row) != len(r.X) {
			return fmt.Errorf("raster row %d has %d values but %d x coordinates", i, len(row), len(r.X))
		}
	}
	return nil
}

// ascending puts both axes (and the data) into ascending coordinate order.
func (r *Raster) ascending() {
	if len(r.Y) > 1 && r.Y[0] > r.Y[len(r.Y)-1] {
		reverse(r.Y)
		for i, j := 0, len(r.Data)-1; i < j; i, j = i+1, j-1 {
			r.Data[i], r.Data[j] = r.Data[j], r.Data[i]
		}
	}

	if len(r.X) > 1 && r.X[0] > r.X[len(r.X)-1] {
		reverse(r.X)
		for _, row := range r.Data {
			reverse(row)
		}
	}
}

func reverse(s []float64) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func ioErr(op, path string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrIO, op, path, err)
}
