package texture

import (
	"fmt"
	"math"

	"github.com/gruppe-adler/relief-utils/internal/grid"
)

// Spacing converts a density in map units to a spacing in cells.
func Spacing(density, cellSize float64) float64 {
	return round2(density / cellSize)
}

// JitterSpacing returns the spacing of one cell after adding normal*randomness.
// It is 0 when the result is not positive, which means no point.
func JitterSpacing(normal, randomness, spacing float64) int {
	v := normal*randomness + spacing
	if !(v > 0) {
		return 0
	}
	return max(1, int(math.Floor(v)))
}

// PointField places points on the defined cells of area. A cell holds a point
// (value 1) when both its column and row index are multiples of its jittered
// spacing; every other cell is NoData. All grids must share one shape.
func PointField(area, xIndex, yIndex, normal *grid.Grid, randomness, density float64) (*grid.Grid, error) {
	if density <= 0 {
		return nil, fmt.Errorf("density must be positive, got %g", density)
	}
	for _, g := range []*grid.Grid{xIndex, yIndex, normal} {
		if !g.Shape.Equal(area.Shape) {
			return nil, &grid.ShapeMismatchError{Want: area.Shape, Got: g.Shape}
		}
	}

	area = liftArea(area)
	spacing := Spacing(density, area.CellSize)

	out := grid.New(area.Shape)
	for i, a := range area.Data {
		if grid.IsNoData(a) || grid.IsNoData(normal.Data[i]) {
			continue
		}
		j := JitterSpacing(normal.Data[i], randomness, spacing)
		if j == 0 {
			continue
		}
		x, y := int(xIndex.Data[i]), int(yIndex.Data[i])
		if x%j == 0 && y%j == 0 {
			out.Data[i] = 1
		}
	}
	return out, nil
}

// liftArea shifts an area whose minimum is below 1 so that every defined cell
// is at least 1.
func liftArea(area *grid.Grid) *grid.Grid {
	lo, _, ok := area.Stats()
	if !ok || lo >= 1 {
		return area
	}
	shift := 1 - lo
	return grid.Map(area, func(v float64) float64 { return v + shift })
}
