// Package contour extracts contour lines and summits from grids.
package contour

import (
	"github.com/gruppe-adler/bathyfuse/internal/grid"
	"github.com/paulmach/orb"
)

// Lines calculates the contour lines of g at the given height using marching
// squares. Cells touching missing data produce no lines. Segments sharing an
// end point are joined, so a contour surrounding an area comes back as a
// single closed line.
func Lines(g *grid.Grid, height float64) []orb.LineString {
	var b lineBuilder

	c, r := g.Dims()
	for col := 0; col < c-1; col++ {
		for row := 0; row < r-1; row++ {
			for _, segment := range cellLines(g, col, row, height) {
				b.add(segment)
			}
		}
	}

	return b.lines
}

// IsClosed reports whether the line ends where it starts.
func IsClosed(l orb.LineString) bool {
	return len(l) >= 4 && l[0].Equal(l[len(l)-1])
}

// cellLines returns the segments crossing the cell spanned by the nodes
// (col, row) and (col+1, row+1). Row indices grow northwards.
func cellLines(g *grid.Grid, col, row int, height float64) []orb.LineString {
	blHeight := g.At(col, row)
	brHeight := g.At(col+1, row)
	tlHeight := g.At(col, row+1)
	trHeight := g.At(col+1, row+1)

	for _, h := range [...]float64{blHeight, brHeight, tlHeight, trHeight} {
		if g.IsNoData(h) {
			return nil
		}
	}

	leftX := g.X[col]
	rightX := g.X[col+1]
	bottomY := g.Y[row]
	topY := g.Y[row+1]

	// find MS "case"
	index := 0
	if tlHeight > height {
		index |= 8
	}
	if trHeight > height {
		index |= 4
	}
	if brHeight > height {
		index |= 2
	}
	if blHeight > height {
		index |= 1
	}

	topEdgePoint := func() orb.Point {
		return orb.Point{interpolate(leftX, tlHeight, rightX, trHeight, height), topY}
	}
	leftEdgePoint := func() orb.Point {
		return orb.Point{leftX, interpolate(bottomY, blHeight, topY, tlHeight, height)}
	}
	bottomEdgePoint := func() orb.Point {
		return orb.Point{interpolate(leftX, blHeight, rightX, brHeight, height), bottomY}
	}
	rightEdgePoint := func() orb.Point {
		return orb.Point{rightX, interpolate(bottomY, brHeight, topY, trHeight, height)}
	}

	switch index {
	case 1, 14:
		return []orb.LineString{{bottomEdgePoint(), leftEdgePoint()}}
	case 2, 13:
		return []orb.LineString{{rightEdgePoint(), bottomEdgePoint()}}
	case 3, 12:
		return []orb.LineString{{rightEdgePoint(), leftEdgePoint()}}
	case 4, 11:
		return []orb.LineString{{topEdgePoint(), rightEdgePoint()}}
	case 5:
		// saddle
		return []orb.LineString{
			{leftEdgePoint(), topEdgePoint()},
			{bottomEdgePoint(), rightEdgePoint()},
		}
	case 6, 9:
		return []orb.LineString{{topEdgePoint(), bottomEdgePoint()}}
	case 7, 8:
		return []orb.LineString{{leftEdgePoint(), topEdgePoint()}}
	case 10:
		// saddle
		return []orb.LineString{
			{leftEdgePoint(), bottomEdgePoint()},
			{topEdgePoint(), rightEdgePoint()},
		}
	}

	// 0 and 15: cell is completely below or above
	return nil
}

func interpolate(c0, h0, c1, h1, height float64) float64 {
	return (c0*(h1-height) + c1*(height-h0)) / (h1 - h0)
}

// lineBuilder joins segments into lines.
type lineBuilder struct {
	lines []orb.LineString
}

func (b *lineBuilder) add(segment orb.LineString) {
	i := b.attach(segment, -1)
	if i < 0 {
		b.lines = append(b.lines, segment)
		return
	}

	// the extended line may now connect to another one
	if IsClosed(b.lines[i]) {
		return
	}
	if j := b.attach(b.lines[i], i); j >= 0 {
		b.lines = append(b.lines[:i], b.lines[i+1:]...)
	}
}

// attach joins l onto the first open line (except the one at skip) sharing
// an end point with it and returns the index of that line, -1 if none does.
func (b *lineBuilder) attach(l orb.LineString, skip int) int {
	for j, other := range b.lines {
		if j == skip || IsClosed(other) {
			continue
		}
		if joined, ok := join(other, l); ok {
			b.lines[j] = joined
			return j
		}
	}
	return -1
}

// join returns a new line made of a and b if they share an end point.
func join(a, b orb.LineString) (orb.LineString, bool) {
	switch {
	case a[len(a)-1].Equal(b[0]):
		return stitch(a, b), true
	case a[len(a)-1].Equal(b[len(b)-1]):
		return stitch(a, reversed(b)), true
	case a[0].Equal(b[len(b)-1]):
		return stitch(b, a), true
	case a[0].Equal(b[0]):
		return stitch(reversed(b), a), true
	}
	return nil, false
}

// stitch appends all points of l2 (except the first one, which equals the
// last point of l1) to a copy of l1.
func stitch(l1, l2 orb.LineString) orb.LineString {
	out := make(orb.LineString, 0, len(l1)+len(l2)-1)
	out = append(out, l1...)
	return append(out, l2[1:]...)
}

func reversed(l orb.LineString) orb.LineString {
	out := l.Clone()
	out.Reverse()
	return out
}
