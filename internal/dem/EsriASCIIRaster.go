package dem

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// EsriASCIIRaster represents a ESRI ASCII Grid
type EsriASCIIRaster struct {
	Ncols, Nrows     uint
	Xcenter, Ycenter *float64
	Xcorner, Ycorner *float64
	CellSize         float64
	NoDataValue      *float64
	Data             [][]float64
}

// X returns the cell centre coordinate for the column at the index c.
func (raster EsriASCIIRaster) X(c uint) float64 {
	if raster.Xcenter != nil {
		return *raster.Xcenter + float64(c)*raster.CellSize
	}
	return *raster.Xcorner + (float64(c)+0.5)*raster.CellSize
}

// Y returns the cell centre coordinate for the row at the index r.
// Row 0 is the northmost row, as it is stored in the file.
func (raster EsriASCIIRaster) Y(r uint) float64 {
	var south float64
	if raster.Ycenter != nil {
		south = *raster.Ycenter
	} else {
		south = *raster.Ycorner + 0.5*raster.CellSize
	}
	return south + float64(raster.Nrows-1-r)*raster.CellSize
}

// Raster converts the ESRI grid into a Raster with ascending axes.
func (raster EsriASCIIRaster) Raster() Raster {
	out := Raster{
		X:    make([]float64, raster.Ncols),
		Y:    make([]float64, raster.Nrows),
		Data: make([][]float64, raster.Nrows),
	}

	for c := uint(0); c < raster.Ncols; c++ {
		out.X[c] = raster.X(c)
	}

	for r := uint(0); r < raster.Nrows; r++ {
		out.Y[r] = raster.Y(r)
		out.Data[r] = append([]float64(nil), raster.Data[r]...)
	}

	if raster.NoDataValue != nil {
		nd := *raster.NoDataValue
		out.NoData = &nd
	}

	out.ascending()

	return out
}

func readEsriASCII(path string) (Raster, error) {
	file, err := os.Open(path)
	if err != nil {
		return Raster{}, ioErr("open", path, err)
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return Raster{}, ioErr("decompress", path, err)
		}
		defer gz.Close()
		reader = gz
	}

	raster, err := ParseEsriASCIIRaster(reader)
	if err != nil {
		return Raster{}, fmt.Errorf("%s: %w", path, err)
	}

	return raster.Raster(), nil
}

// WriteEsriASCIIRaster writes the raster as ESRI ASCII grid. The spacing of the
// x axis is used as CELLSIZE.
func WriteEsriASCIIRaster(w io.Writer, raster Raster) error {
	if len(raster.X) < 2 {
		return fmt.Errorf("ESRI ASCII grids need at least two columns")
	}

	cellSize := raster.X[1] - raster.X[0]
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "NCOLS %d\n", len(raster.X))
	fmt.Fprintf(bw, "NROWS %d\n", len(raster.Y))
	fmt.Fprintf(bw, "XLLCENTER %s\n", formatFloat(raster.X[0]))
	fmt.Fprintf(bw, "YLLCENTER %s\n", formatFloat(raster.Y[0]))
	fmt.Fprintf(bw, "CELLSIZE %s\n", formatFloat(cellSize))
	if raster.NoData != nil {
		fmt.Fprintf(bw, "NODATA_VALUE %s\n", formatFloat(*raster.NoData))
	}

	// rows are written north to south
	for r := len(raster.Data) - 1; r >= 0; r-- {
		fields := make([]string, len(raster.Data[r]))
		for c, v := range raster.Data[r] {
			fields[c] = formatFloat(v)
		}
		if _, err := fmt.Fprintln(bw, strings.Join(fields, " ")); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func writeEsriASCII(path string, raster Raster) error {
	file, err := os.Create(path)
	if err != nil {
		return ioErr("create", path, err)
	}

	var w io.Writer = file
	var gz *gzip.Writer
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz = gzip.NewWriter(file)
		w = gz
	}

	err = WriteEsriASCIIRaster(w, raster)
	if err == nil && gz != nil {
		err = gz.Close()
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return ioErr("write", path, err)
	}

	return nil
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "nan"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
