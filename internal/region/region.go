package region

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalid is returned for regions whose bounds cross.
var ErrInvalid = errors.New("invalid region")

// Region is an axis-aligned bounding box in the order west, east, south, north.
type Region struct {
	West, East, South, North float64
}

// New creates a region from its four bounds.
func New(west, east, south, north float64) Region {
	return Region{West: west, East: east, South: south, North: north}
}

// FromSlice creates a region from [xmin, xmax, ymin, ymax].
func FromSlice(bounds []float64) (Region, error) {
	if len(bounds) != 4 {
		return Region{}, fmt.Errorf("%w: expected 4 bounds, got %d", ErrInvalid, len(bounds))
	}

	r := New(bounds[0], bounds[1], bounds[2], bounds[3])
	if !r.IsValid() {
		return r, fmt.Errorf("%w: %s", ErrInvalid, r)
	}

	return r, nil
}

// Intersect returns the intersection of a and b. The result may be invalid if
// the regions do not overlap, so check IsValid before using it.
func Intersect(a, b Region) Region {
	return Region{
		West:  math.Max(a.West, b.West),
		East:  math.Min(a.East, b.East),
		South: math.Max(a.South, b.South),
		North: math.Min(a.North, b.North),
	}
}

// IsValid reports whether west <= east and south <= north.
func (r Region) IsValid() bool {
	return r.West <= r.East && r.South <= r.North
}

// Contains reports whether (x, y) lies inside r, bounds included.
func (r Region) Contains(x, y float64) bool {
	return x >= r.West && x <= r.East && y >= r.South && y <= r.North
}

// Equal reports whether both regions have exactly the same bounds.
func (r Region) Equal(o Region) bool {
	return r == o
}

// Width is the extent in x.
func (r Region) Width() float64 {
	return r.East - r.West
}

// Height is the extent in y.
func (r Region) Height() float64 {
	return r.North - r.South
}

// Slice returns the bounds as [west, east, south, north].
func (r Region) Slice() []float64 {
	return []float64{r.West, r.East, r.South, r.North}
}

// String returns the slash joined bounds, e.g. "-125/-122/48/49".
func (r Region) String() string {
	parts := make([]string, 0, 4)
	for _, v := range r.Slice() {
		parts = append(parts, strconv.FormatFloat(v, 'g', -1, 64))
	}
	return strings.Join(parts, "/")
}
