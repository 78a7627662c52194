package dem

import (
	"fmt"
	"sync"

	"github.com/airbusgeo/godal"
)

var registerDrivers sync.Once

// readGDAL reads band 1 of any single raster GDAL can open, GeoTIFFs as
// well as netCDF-4 files.
func readGDAL(path string) (Raster, error) {
	registerDrivers.Do(godal.RegisterAll)

	ds, err := godal.Open(path)
	if err != nil {
		return Raster{}, ioErr("open", path, err)
	}
	defer ds.Close()

	structure := ds.Structure()
	nx, ny := structure.SizeX, structure.SizeY

	gt, err := ds.GeoTransform()
	if err != nil {
		return Raster{}, ioErr("read geotransform from", path, err)
	}
	if gt[2] != 0 || gt[4] != 0 {
		return Raster{}, fmt.Errorf("%s: rotated GeoTIFFs are not supported", path)
	}

	bands := ds.Bands()
	if len(bands) == 0 {
		return Raster{}, fmt.Errorf("%s: raster has no bands", path)
	}
	band := bands[0]

	buf := make([]float64, nx*ny)
	if err := band.Read(0, 0, buf, nx, ny); err != nil {
		return Raster{}, ioErr("read band from", path, err)
	}

	// geotransform origin is the outer corner of the first pixel
	raster := Raster{
		X:    make([]float64, nx),
		Y:    make([]float64, ny),
		Data: make([][]float64, ny),
	}
	for c := 0; c < nx; c++ {
		raster.X[c] = gt[0] + (float64(c)+0.5)*gt[1]
	}
	for r := 0; r < ny; r++ {
		raster.Y[r] = gt[3] + (float64(r)+0.5)*gt[5]
		raster.Data[r] = buf[r*nx : (r+1)*nx]
	}

	if nd, ok := band.NoData(); ok {
		raster.NoData = &nd
	}

	// files are stored north up, so this flips the rows
	raster.ascending()

	return raster, nil
}

func writeGeoTIFF(path string, raster Raster) error {
	return writeGDAL(godal.GTiff, path, raster)
}

func writeGDAL(driver godal.DriverName, path string, raster Raster, opts ...godal.DatasetCreateOption) error {
	registerDrivers.Do(godal.RegisterAll)

	nx, ny := len(raster.X), len(raster.Y)
	if nx < 2 || ny < 2 {
		return fmt.Errorf("%s rasters need at least two rows and columns", driver)
	}
	dx := raster.X[1] - raster.X[0]
	dy := raster.Y[1] - raster.Y[0]

	ds, err := godal.Create(driver, path, 1, godal.Float64, nx, ny, opts...)
	if err != nil {
		return ioErr("create", path, err)
	}

	err = fillGeoTIFF(ds, raster, dx, dy)
	if closeErr := ds.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return ioErr("write", path, err)
	}

	return nil
}

func fillGeoTIFF(ds *godal.Dataset, raster Raster, dx, dy float64) error {
	nx, ny := len(raster.X), len(raster.Y)

	north := raster.Y[ny-1] + dy/2
	west := raster.X[0] - dx/2
	if err := ds.SetGeoTransform([6]float64{west, dx, 0, north, 0, -dy}); err != nil {
		return err
	}

	band := ds.Bands()[0]
	if raster.NoData != nil {
		if err := band.SetNoData(*raster.NoData); err != nil {
			return err
		}
	}

	// north up: first buffer row is the last raster row
	buf := make([]float64, 0, nx*ny)
	for r := ny - 1; r >= 0; r-- {
		buf = append(buf, raster.Data[r]...)
	}

	return band.Write(0, 0, buf, nx, ny)
}
