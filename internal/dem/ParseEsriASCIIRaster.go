package dem

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

var esriHeaders = []string{"NCOLS", "NROWS", "XLLCENTER", "XLLCORNER", "YLLCENTER", "YLLCORNER", "CELLSIZE", "NODATA_VALUE"}

// ParseEsriASCIIRaster parses a ESRI ASCII grid from reader
func ParseEsriASCIIRaster(reader io.Reader) (EsriASCIIRaster, error) {
	var raster EsriASCIIRaster
	header := map[string]string{}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 64*1024*1024)

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		if raster.Data == nil {
			keyword := strings.ToUpper(fields[0])
			if slices.Contains(esriHeaders, keyword) {
				if len(fields) != 2 {
					return raster, fmt.Errorf("header %s must have exactly one value", fields[0])
				}
				if _, ok := header[keyword]; ok {
					return raster, fmt.Errorf("header %s is given twice", fields[0])
				}
				header[keyword] = fields[1]
				continue
			}

			// first data line
			if err := raster.applyHeader(header); err != nil {
				return raster, err
			}
			raster.Data = make([][]float64, 0, raster.Nrows)
		}

		row, err := parseDataLine(fields, raster.Ncols)
		if err != nil {
			return raster, fmt.Errorf("data row %d: %w", len(raster.Data)+1, err)
		}
		raster.Data = append(raster.Data, row)

		if uint(len(raster.Data)) == raster.Nrows {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		return raster, err
	}

	if len(raster.Data) == 0 {
		return raster, fmt.Errorf("DEM has no data rows")
	}
	if uint(len(raster.Data)) < raster.Nrows {
		return raster, fmt.Errorf("DEM has %d data rows but NROWS is %d", len(raster.Data), raster.Nrows)
	}

	return raster, nil
}

// applyHeader converts the collected header values. The lower left position
// is given either as center or as corner, per axis.
func (raster *EsriASCIIRaster) applyHeader(header map[string]string) error {
	for key, dst := range map[string]*uint{"NCOLS": &raster.Ncols, "NROWS": &raster.Nrows} {
		s, ok := header[key]
		if !ok {
			return fmt.Errorf("DEM is missing the %s header", key)
		}
		i, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if i == 0 {
			return fmt.Errorf("%s must be greater than 0", key)
		}
		*dst = uint(i)
	}

	s, ok := header["CELLSIZE"]
	if !ok {
		return fmt.Errorf("DEM is missing the CELLSIZE header")
	}
	cellSize, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("CELLSIZE: %w", err)
	}
	if cellSize <= 0 {
		return fmt.Errorf("CELLSIZE must be greater than 0")
	}
	raster.CellSize = cellSize

	optional := map[string]**float64{
		"XLLCENTER":    &raster.Xcenter,
		"XLLCORNER":    &raster.Xcorner,
		"YLLCENTER":    &raster.Ycenter,
		"YLLCORNER":    &raster.Ycorner,
		"NODATA_VALUE": &raster.NoDataValue,
	}
	for key, dst := range optional {
		s, ok := header[key]
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = &f
	}

	if (raster.Xcenter == nil) == (raster.Xcorner == nil) {
		return fmt.Errorf("DEM needs exactly one of XLLCENTER and XLLCORNER")
	}
	if (raster.Ycenter == nil) == (raster.Ycorner == nil) {
		return fmt.Errorf("DEM needs exactly one of YLLCENTER and YLLCORNER")
	}

	return nil
}

func parseDataLine(fields []string, cols uint) ([]float64, error) {
	if uint(len(fields)) < cols {
		return nil, fmt.Errorf("expected %d values, got %d", cols, len(fields))
	}

	row := make([]float64, cols)
	for i := range row {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, err
		}
		row[i] = f
	}

	return row, nil
}
