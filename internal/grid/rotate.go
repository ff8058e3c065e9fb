package grid

import (
	"math"

	"github.com/paulmach/orb"
)

// Rotate turns src clockwise by angle degrees about pivot and samples the
// result (nearest neighbour) onto the target shape. Target cells falling
// outside src are NoData.
func Rotate(src *Grid, target Shape, angle float64, pivot orb.Point) *Grid {
	out := New(target)
	theta := angle * math.Pi / 180
	sin, cos := math.Sincos(theta)

	for r := 0; r < target.Nrows; r++ {
		dy := target.Y(r) - pivot[1]
		for c := 0; c < target.Ncols; c++ {
			dx := target.X(c) - pivot[0]
			// a clockwise turn of the source means sampling it counter clockwise
			sx := pivot[0] + dx*cos - dy*sin
			sy := pivot[1] + dx*sin + dy*cos
			sc, sr, ok := src.Cell(sx, sy)
			if !ok {
				continue
			}
			out.Set(c, r, src.At(sc, sr))
		}
	}
	return out
}
