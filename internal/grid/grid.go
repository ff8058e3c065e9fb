// Package grid implements the raster substrate the relief pipeline is built
// on: rectangular float grids with a cell size, an extent and NoData cells,
// plus the primitives (masking, reclassification, priority merge, focal
// windows, distance transform, rotation, resampling, hillshade) that
// textures and the terrain model are composed from.
package grid

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// NoData marks a cell without a value. Compare with IsNoData, never with ==.
var NoData = math.NaN()

// IsNoData reports whether v is the NoData marker.
func IsNoData(v float64) bool {
	return math.IsNaN(v)
}

// Shape describes the geometry of a grid: size in cells, lower left corner
// and the (square) cell size in map units.
type Shape struct {
	Ncols, Nrows int
	Xmin, Ymin   float64
	CellSize     float64
}

// ShapeFromBound returns the smallest shape with the given cell size covering
// the bound. The lower left corner is kept.
func ShapeFromBound(b orb.Bound, cellSize float64) Shape {
	ncols := int(math.Ceil(round9((b.Max[0] - b.Min[0]) / cellSize)))
	nrows := int(math.Ceil(round9((b.Max[1] - b.Min[1]) / cellSize)))
	if ncols < 1 {
		ncols = 1
	}
	if nrows < 1 {
		nrows = 1
	}
	return Shape{Ncols: ncols, Nrows: nrows, Xmin: b.Min[0], Ymin: b.Min[1], CellSize: cellSize}
}

// round9 strips float noise so that exact multiples of the cell size do not
// produce an extra column.
func round9(v float64) float64 {
	return math.Round(v*1e9) / 1e9
}

// Len returns the number of cells.
func (s Shape) Len() int {
	return s.Ncols * s.Nrows
}

// X returns the x coordinate of the centre of column c.
func (s Shape) X(c int) float64 {
	return s.Xmin + (float64(c)+0.5)*s.CellSize
}

// Y returns the y coordinate of the centre of row r. Row 0 is the northern row.
func (s Shape) Y(r int) float64 {
	return s.Ymin + (float64(s.Nrows-r)-0.5)*s.CellSize
}

// Cell returns the column and row containing the point (x, y).
func (s Shape) Cell(x, y float64) (c, r int, ok bool) {
	fc := math.Floor((x - s.Xmin) / s.CellSize)
	fr := math.Floor((s.Ymin + float64(s.Nrows)*s.CellSize - y) / s.CellSize)
	c, r = int(fc), int(fr)
	if c < 0 || r < 0 || c >= s.Ncols || r >= s.Nrows {
		return c, r, false
	}
	return c, r, true
}

// Extent returns the outer bound of the grid.
func (s Shape) Extent() orb.Bound {
	return orb.Bound{
		Min: orb.Point{s.Xmin, s.Ymin},
		Max: orb.Point{s.Xmin + float64(s.Ncols)*s.CellSize, s.Ymin + float64(s.Nrows)*s.CellSize},
	}
}

// Center returns the centre point of the extent.
func (s Shape) Center() orb.Point {
	return s.Extent().Center()
}

// Equal reports whether both shapes describe the same cells.
func (s Shape) Equal(o Shape) bool {
	const eps = 1e-9
	return s.Ncols == o.Ncols && s.Nrows == o.Nrows &&
		math.Abs(s.Xmin-o.Xmin) < eps && math.Abs(s.Ymin-o.Ymin) < eps &&
		math.Abs(s.CellSize-o.CellSize) < eps
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%d@%g (%g, %g)", s.Ncols, s.Nrows, s.CellSize, s.Xmin, s.Ymin)
}

// Grid is a raster of float64 cells stored row major, northern row first.
type Grid struct {
	Shape
	Data []float64
}

// New returns a grid of the given shape with every cell set to NoData.
func New(s Shape) *Grid {
	return Fill(s, NoData)
}

// Fill returns a grid of the given shape with every cell set to v.
func Fill(s Shape, v float64) *Grid {
	data := make([]float64, s.Len())
	for i := range data {
		data[i] = v
	}
	return &Grid{Shape: s, Data: data}
}

// FromRows builds a grid from northern-row-first data.
func FromRows(s Shape, rows [][]float64) (*Grid, error) {
	if len(rows) != s.Nrows {
		return nil, fmt.Errorf("expected %d rows, got %d", s.Nrows, len(rows))
	}
	g := New(s)
	for r, row := range rows {
		if len(row) != s.Ncols {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", r, s.Ncols, len(row))
		}
		copy(g.Data[r*s.Ncols:], row)
	}
	return g, nil
}

// At returns the value at column c, row r.
func (g *Grid) At(c, r int) float64 {
	return g.Data[r*g.Ncols+c]
}

// Set stores v at column c, row r.
func (g *Grid) Set(c, r int, v float64) {
	g.Data[r*g.Ncols+c] = v
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	data := make([]float64, len(g.Data))
	copy(data, g.Data)
	return &Grid{Shape: g.Shape, Data: data}
}

// Defined returns the number of cells holding a value.
func (g *Grid) Defined() int {
	n := 0
	for _, v := range g.Data {
		if !IsNoData(v) {
			n++
		}
	}
	return n
}

// IsEmpty reports whether every cell is NoData.
func (g *Grid) IsEmpty() bool {
	for _, v := range g.Data {
		if !IsNoData(v) {
			return false
		}
	}
	return true
}

// ShapeMismatchError is returned by operations combining grids of
// different shapes.
type ShapeMismatchError struct {
	Want, Got Shape
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("grid shape mismatch: want %s, got %s", e.Want, e.Got)
}

func sameShape(a, b *Grid) error {
	if !a.Shape.Equal(b.Shape) {
		return &ShapeMismatchError{Want: a.Shape, Got: b.Shape}
	}
	return nil
}
