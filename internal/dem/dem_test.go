package dem

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/airbusgeo/godal"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallGrid = `ncols 3
nrows 2
xllcorner 10.0
yllcorner 20.0
cellsize 0.5
NODATA_value -9999
1 2 3

4 5 -9999
`

func sampleRaster(noData float64) Raster {
	return Raster{
		X: []float64{-125, -124.5, -124, -123.5},
		Y: []float64{48, 48.5, 49},
		Data: [][]float64{
			{-10, -20, -30, noData},
			{-11, -21, -31, -41},
			{-12, noData, -32, -42},
		},
		NoData: &noData,
	}
}

func TestFormatOf(t *testing.T) {
	t.Parallel()

	tests := map[string]Format{
		"base.nc":             NetCDF,
		"dir/UPDATE.NC":       NetCDF,
		"survey.tif":          GeoTIFF,
		"survey.tiff":         GeoTIFF,
		"dem.asc":             EsriASCII,
		"/tmp/meh/dem.asc.gz": EsriASCII,
	}
	for path, want := range tests {
		got, err := FormatOf(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	for _, path := range []string{"points.xyz", "grid.grd", "noext"} {
		_, err := FormatOf(path)
		assert.ErrorIs(t, err, ErrUnsupportedFormat, path)
	}
}

func TestReadUnsupportedFormat(t *testing.T) {
	t.Parallel()

	_, err := Read("bathymetry.xyz")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Read(filepath.Join(t.TempDir(), "missing.nc"))
	assert.ErrorIs(t, err, ErrIO)
}

func TestParseEsriASCIIRaster(t *testing.T) {
	t.Parallel()

	esri, err := ParseEsriASCIIRaster(strings.NewReader(smallGrid))
	require.NoError(t, err)

	assert.Equal(t, uint(3), esri.Ncols)
	assert.Equal(t, uint(2), esri.Nrows)
	require.NotNil(t, esri.NoDataValue)
	assert.Equal(t, -9999.0, *esri.NoDataValue)

	raster := esri.Raster()
	assert.Equal(t, []float64{10.25, 10.75, 11.25}, raster.X)
	assert.Equal(t, []float64{20.25, 20.75}, raster.Y)
	// the file is stored north to south
	assert.Equal(t, [][]float64{{4, 5, -9999}, {1, 2, 3}}, raster.Data)
}

func TestParseEsriASCIIRasterErrors(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"missing header": "ncols 2\nnrows 1\ncellsize 1\n1 2\n",
		"short row":      "ncols 3\nnrows 1\nxllcenter 0\nyllcenter 0\ncellsize 1\n1 2\n",
		"bad cellsize":   "ncols 1\nnrows 1\nxllcenter 0\nyllcenter 0\ncellsize 0\n1\n",
		"missing rows":   "ncols 1\nnrows 3\nxllcenter 0\nyllcenter 0\ncellsize 1\n1\n",
		"no data":        "ncols 1\nnrows 0\nxllcenter 0\nyllcenter 0\ncellsize 1\n",
		"zero rows":      "ncols 1\nnrows 0\nxllcenter 0\nyllcenter 0\ncellsize 1\n1\n",
		"corner+center":  "ncols 1\nnrows 1\nxllcenter 0\nxllcorner 0\nyllcenter 0\ncellsize 1\n1\n",
		"header twice":   "ncols 1\nncols 1\nnrows 1\nxllcenter 0\nyllcenter 0\ncellsize 1\n1\n",
		"bad value":      "ncols 2\nnrows 1\nxllcenter 0\nyllcenter 0\ncellsize 1\n1 x\n",
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseEsriASCIIRaster(strings.NewReader(input))
			assert.Error(t, err)
		})
	}
}

func TestEsriASCIIRoundTrip(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"grid.asc", "grid.asc.gz"} {
		path := filepath.Join(t.TempDir(), name)
		want := sampleRaster(-32768)

		require.NoError(t, Write(path, want))
		got, err := Read(path)
		require.NoError(t, err)

		assert.Empty(t, cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)), name)
	}
}

func TestNetCDFRoundTrip(t *testing.T) {
	t.Parallel()

	for _, noData := range []float64{9999, -32768} {
		path := filepath.Join(t.TempDir(), "grid.nc")
		want := sampleRaster(noData)

		require.NoError(t, Write(path, want))
		got, err := Read(path)
		require.NoError(t, err)

		assert.Empty(t, cmp.Diff(want, got))
	}
}

func TestGeoTIFFMatchesNetCDF(t *testing.T) {
	dir := t.TempDir()
	want := sampleRaster(9999)

	tifPath := filepath.Join(dir, "small_sample.tif")
	ncPath := filepath.Join(dir, "small_sample.nc")
	require.NoError(t, Write(tifPath, want))
	require.NoError(t, Write(ncPath, want))

	fromTIF, err := Read(tifPath)
	require.NoError(t, err)
	fromNC, err := Read(ncPath)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(fromNC, fromTIF, cmpopts.EquateApprox(0, 1e-9)))
}

func TestNetCDF4IsReadThroughGDAL(t *testing.T) {
	t.Parallel()

	registerDrivers.Do(godal.RegisterAll)
	if _, ok := godal.RasterDriver("netCDF"); !ok {
		t.Skip("GDAL was built without the netCDF driver")
	}

	path := filepath.Join(t.TempDir(), "gebco.nc")
	want := sampleRaster(-32768)
	require.NoError(t, writeGDAL("netCDF", path, want, godal.CreationOption("FORMAT=NC4")))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)))
}

func TestReadCorruptNetCDF(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.nc")
	require.NoError(t, os.WriteFile(path, []byte("\x89HDF\r\n\x1a\nnot really"), 0o644))

	_, err := Read(path)
	assert.ErrorIs(t, err, ErrIO)
}

func TestAscendingFlipsDescendingAxes(t *testing.T) {
	t.Parallel()

	raster := Raster{
		X:    []float64{2, 1, 0},
		Y:    []float64{1, 0},
		Data: [][]float64{{1, 2, 3}, {4, 5, 6}},
	}
	raster.ascending()

	assert.Equal(t, []float64{0, 1, 2}, raster.X)
	assert.Equal(t, []float64{0, 1}, raster.Y)
	assert.Equal(t, [][]float64{{6, 5, 4}, {3, 2, 1}}, raster.Data)
}
