package dem

import (
	"errors"
	"fmt"
	"os"

	"github.com/ctessum/cdf"
)

// names under which the coordinate axes are found in netCDF files
var (
	xAxisNames = []string{"x", "lon", "longitude"}
	yAxisNames = []string{"y", "lat", "latitude"}
)

// attributes which may hold the nodata marker of a variable
var noDataAttributes = []string{"_FillValue", "missing_value", "nodata"}

func readNetCDF(path string) (Raster, error) {
	file, err := os.Open(path)
	if err != nil {
		return Raster{}, ioErr("open", path, err)
	}
	defer file.Close()

	nc, err := cdf.Open(file)
	if err != nil {
		// cdf only reads the classic format, netCDF-4 is left to GDAL
		raster, gdalErr := readGDAL(path)
		if gdalErr != nil {
			return Raster{}, ioErr("read", path, errors.Join(err, gdalErr))
		}
		return raster, nil
	}

	xName, yName, err := findAxes(nc.Header)
	if err != nil {
		return Raster{}, fmt.Errorf("%s: %w", path, err)
	}

	zName, transposed, err := findField(nc.Header, xName, yName)
	if err != nil {
		return Raster{}, fmt.Errorf("%s: %w", path, err)
	}

	xs, err := readVariable(nc, xName)
	if err != nil {
		return Raster{}, ioErr("read "+xName+" from", path, err)
	}
	ys, err := readVariable(nc, yName)
	if err != nil {
		return Raster{}, ioErr("read "+yName+" from", path, err)
	}
	zs, err := readVariable(nc, zName)
	if err != nil {
		return Raster{}, ioErr("read "+zName+" from", path, err)
	}

	nx, ny := len(xs), len(ys)
	if len(zs) != nx*ny {
		return Raster{}, fmt.Errorf("%s: variable %s has %d values, expected %d", path, zName, len(zs), nx*ny)
	}

	raster := Raster{X: xs, Y: ys, Data: make([][]float64, ny)}
	for r := 0; r < ny; r++ {
		row := make([]float64, nx)
		for c := 0; c < nx; c++ {
			if transposed {
				row[c] = zs[c*ny+r]
			} else {
				row[c] = zs[r*nx+c]
			}
		}
		raster.Data[r] = row
	}

	for _, attr := range noDataAttributes {
		if nd, ok := firstFloat(nc.Header.GetAttribute(zName, attr)); ok {
			raster.NoData = &nd
			break
		}
	}

	raster.ascending()

	return raster, nil
}

func findAxes(h *cdf.Header) (string, string, error) {
	vars := map[string]bool{}
	for _, v := range h.Variables() {
		vars[v] = true
	}

	pick := func(names []string) string {
		for _, n := range names {
			if vars[n] && len(h.Dimensions(n)) == 1 {
				return n
			}
		}
		return ""
	}

	xName, yName := pick(xAxisNames), pick(yAxisNames)
	if xName == "" || yName == "" {
		return "", "", errors.New("netCDF file has no x/y (or lon/lat) coordinate variables")
	}

	return xName, yName, nil
}

// findField returns the first two dimensional variable spanning the x and y axes.
// transposed is true when it is stored as (x, y) instead of (y, x).
func findField(h *cdf.Header, xName, yName string) (string, bool, error) {
	xDim, yDim := h.Dimensions(xName)[0], h.Dimensions(yName)[0]

	for _, v := range h.Variables() {
		dims := h.Dimensions(v)
		if len(dims) != 2 {
			continue
		}
		if dims[0] == yDim && dims[1] == xDim {
			return v, false, nil
		}
		if dims[0] == xDim && dims[1] == yDim {
			return v, true, nil
		}
	}

	return "", false, errors.New("netCDF file has no two dimensional field on its x/y axes")
}

func readVariable(nc *cdf.File, name string) ([]float64, error) {
	n := 1
	for _, l := range nc.Header.Lengths(name) {
		n *= l
	}

	r := nc.Reader(name, nil, nil)
	buf := r.Zero(n)
	if _, err := r.Read(buf); err != nil {
		return nil, err
	}

	values, ok := toFloats(buf)
	if !ok {
		return nil, fmt.Errorf("variable %s has unsupported type %T", name, buf)
	}

	return values, nil
}

func toFloats(buf interface{}) ([]float64, bool) {
	switch b := buf.(type) {
	case []float64:
		return b, true
	case []float32:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out, true
	case []int32:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out, true
	case []int16:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out, true
	case []int8:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out, true
	}
	return nil, false
}

func firstFloat(attr interface{}) (float64, bool) {
	if attr == nil {
		return 0, false
	}
	values, ok := toFloats(attr)
	if !ok || len(values) == 0 {
		return 0, false
	}
	return values[0], true
}

func writeNetCDF(path string, raster Raster) error {
	nx, ny := len(raster.X), len(raster.Y)

	h := cdf.NewHeader([]string{"y", "x"}, []int{ny, nx})
	h.AddAttribute("", "Conventions", "COARDS")
	h.AddAttribute("", "title", "bathyfuse grid")
	h.AddVariable("x", []string{"x"}, []float64{0})
	h.AddVariable("y", []string{"y"}, []float64{0})
	h.AddVariable("z", []string{"y", "x"}, []float64{0})
	h.AddAttribute("z", "long_name", "z")
	if raster.NoData != nil {
		h.AddAttribute("z", "_FillValue", []float64{*raster.NoData})
	}
	h.Define()

	file, err := os.Create(path)
	if err != nil {
		return ioErr("create", path, err)
	}

	err = writeNetCDFData(file, h, raster)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return ioErr("write", path, err)
	}

	return nil
}

func writeNetCDFData(file *os.File, h *cdf.Header, raster Raster) error {
	nc, err := cdf.Create(file, h) // writes the header to file
	if err != nil {
		return err
	}

	zs := make([]float64, 0, len(raster.X)*len(raster.Y))
	for _, row := range raster.Data {
		zs = append(zs, row...)
	}

	for _, v := range []struct {
		name   string
		values []float64
	}{{"x", raster.X}, {"y", raster.Y}, {"z", zs}} {
		end := nc.Header.Lengths(v.name)
		start := make([]int, len(end))
		if _, err := nc.Writer(v.name, start, end).Write(v.values); err != nil {
			return fmt.Errorf("writing variable %s: %w", v.name, err)
		}
	}

	return nil
}
