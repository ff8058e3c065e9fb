package aoi

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/gruppe-adler/relief-utils/internal/grid"
)

// cellRange returns the columns and rows of out touched by bound, clipped to
// the grid.
func cellRange(out *grid.Grid, b orb.Bound) (c0, r0, c1, r1 int) {
	c0, r1, _ = out.Cell(b.Min[0], b.Min[1])
	c1, r0, _ = out.Cell(b.Max[0], b.Max[1])
	return max(c0, 0), max(r0, 0), min(c1, out.Ncols-1), min(r1, out.Nrows-1)
}

func burnPolygon(out *grid.Grid, p orb.Polygon, value float64) {
	if len(p) == 0 {
		return
	}
	c0, r0, c1, r1 := cellRange(out, p.Bound())
	for r := r0; r <= r1; r++ {
		y := out.Y(r)
		for c := c0; c <= c1; c++ {
			if planar.PolygonContains(p, orb.Point{out.X(c), y}) {
				out.Set(c, r, value)
			}
		}
	}
}

func burnLine(out *grid.Grid, l orb.LineString, radius, value float64) {
	if len(l) == 1 {
		burnLine(out, orb.LineString{l[0], l[0]}, radius, value)
		return
	}
	for i := 1; i < len(l); i++ {
		a, b := l[i-1], l[i]
		seg := orb.Bound{Min: a, Max: a}.Extend(b).Pad(radius)
		c0, r0, c1, r1 := cellRange(out, seg)
		for r := r0; r <= r1; r++ {
			y := out.Y(r)
			for c := c0; c <= c1; c++ {
				if planar.DistanceFromSegment(a, b, orb.Point{out.X(c), y}) <= radius {
					out.Set(c, r, value)
				}
			}
		}
	}
}
