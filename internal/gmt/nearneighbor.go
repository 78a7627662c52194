package gmt

import (
	"fmt"
	"math"

	"github.com/gruppe-adler/bathyfuse/internal/grid"
	"github.com/gruppe-adler/bathyfuse/internal/region"
)

const (
	defaultSectors = 8
	sectorEpsilon  = 1e-9
)

// NearNeighbor grids pc onto the lattice described by opts. The circle of
// SearchRadius around every node is split into sectors and only the nearest
// point of each sector is used. Nodes with fewer than MinSectors populated
// sectors get opts.NoData, all others the weighted mean
//
//	w(r) = 1 / (1 + 9 r² / R²)
//
// of the selected points. A point on the node itself has no direction, it
// joins the mean but never populates a sector.
func (toolkit) NearNeighbor(pc grid.PointCloud, opts NearNeighborOptions) (*grid.Grid, error) {
	if opts.SearchRadius <= 0 {
		return nil, fmt.Errorf("nearneighbor: search radius must be greater than 0, got %g", opts.SearchRadius)
	}
	sectors := opts.Sectors
	if sectors == 0 {
		sectors = defaultSectors
	}
	if opts.MinSectors > sectors {
		return nil, fmt.Errorf("nearneighbor: %d sectors can't satisfy a minimum of %d", sectors, opts.MinSectors)
	}

	nd := opts.NoData
	out, err := grid.NewFromRegion(opts.Region, opts.Spacing, nd, &nd)
	if err != nil {
		return nil, fmt.Errorf("nearneighbor: %w", err)
	}

	index := newBucketIndex(pc, opts.Region, opts.SearchRadius)
	radius2 := opts.SearchRadius * opts.SearchRadius
	sectorWidth := 2 * math.Pi / float64(sectors)

	nearest := make([]int, sectors)
	dist2 := make([]float64, sectors)

	for row, y := range out.Y {
		for col, x := range out.X {
			for s := range nearest {
				nearest[s] = -1
			}
			hit := -1

			index.visit(x, y, func(i int) {
				dx, dy := pc[i].X-x, pc[i].Y-y
				d2 := dx*dx + dy*dy
				if d2 > radius2 {
					return
				}
				if d2 == 0 {
					if hit < 0 {
						hit = i
					}
					return
				}

				s := sector(dx, dy, sectorWidth, sectors)

				if nearest[s] < 0 || d2 < dist2[s] {
					nearest[s] = i
					dist2[s] = d2
				}
			})

			populated := 0
			var sum, weights float64
			for s, i := range nearest {
				if i < 0 {
					continue
				}
				populated++
				w := 1 / (1 + 9*dist2[s]/radius2)
				sum += w * pc[i].Z
				weights += w
			}

			if hit >= 0 {
				sum += pc[hit].Z
				weights++
			}

			if populated < opts.MinSectors || weights == 0 {
				continue
			}
			out.Set(col, row, sum/weights)
		}
	}

	return out, nil
}

// sector returns the sector of the direction (dx, dy), counted
// counterclockwise from east. Directions on a sector border, like the axes,
// belong to the sector starting there.
func sector(dx, dy, sectorWidth float64, sectors int) int {
	angle := math.Atan2(dy, dx)
	if angle < 0 {
		angle += 2 * math.Pi
	}

	s := int(math.Floor(angle/sectorWidth + sectorEpsilon))
	return min(s, sectors-1)
}

// bucketIndex sorts points into square buckets with the size of the search
// radius, so only the 3x3 buckets around a node need to be looked at.
type bucketIndex struct {
	west, south, size float64
	buckets           map[[2]int][]int
}

func newBucketIndex(pc grid.PointCloud, r region.Region, size float64) *bucketIndex {
	b := &bucketIndex{west: r.West, south: r.South, size: size, buckets: map[[2]int][]int{}}
	for i, p := range pc {
		key := b.key(p.X, p.Y)
		b.buckets[key] = append(b.buckets[key], i)
	}
	return b
}

func (b *bucketIndex) key(x, y float64) [2]int {
	return [2]int{int(math.Floor((x - b.west) / b.size)), int(math.Floor((y - b.south) / b.size))}
}

func (b *bucketIndex) visit(x, y float64, fn func(i int)) {
	k := b.key(x, y)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for _, i := range b.buckets[[2]int{k[0] + dx, k[1] + dy}] {
				fn(i)
			}
		}
	}
}
