package dem

import (
	"math"

	"github.com/gruppe-adler/relief-utils/internal/grid"
)

// DefaultNoDataValue is written for NoData cells when a raster does not
// define its own NODATA_VALUE.
const DefaultNoDataValue = -9999.0

// EsriASCIIRaster represents a ESRI ASCII Grid
type EsriASCIIRaster struct {
	Ncols, Nrows     uint
	Xcenter, Ycenter *float64
	Xcorner, Ycorner *float64
	CellSize         float64
	// DX and DY are set instead of CellSize by grids with rectangular cells
	DX, DY      float64
	NoDataValue float64
	Data        [][]float64
}

// CellWidth returns the cell extent along the x axis.
func (raster EsriASCIIRaster) CellWidth() float64 {
	if raster.DX > 0 {
		return raster.DX
	}
	return raster.CellSize
}

// CellHeight returns the cell extent along the y axis.
func (raster EsriASCIIRaster) CellHeight() float64 {
	if raster.DY > 0 {
		return raster.DY
	}
	return raster.CellSize
}

// IsSquare reports whether the cells are squares.
func (raster EsriASCIIRaster) IsSquare() bool {
	return raster.CellWidth() == raster.CellHeight()
}

// Xmin returns the x coordinate of the left edge.
func (raster EsriASCIIRaster) Xmin() float64 {
	if raster.Xcorner != nil {
		return *raster.Xcorner
	}
	if raster.Xcenter != nil {
		return *raster.Xcenter - raster.CellWidth()/2
	}
	return 0
}

// Ymin returns the y coordinate of the bottom edge.
func (raster EsriASCIIRaster) Ymin() float64 {
	if raster.Ycorner != nil {
		return *raster.Ycorner
	}
	if raster.Ycenter != nil {
		return *raster.Ycenter - raster.CellHeight()/2
	}
	return 0
}

// Lattice exposes the raster at its native cell geometry. NODATA_VALUE cells
// read as NoData.
func (raster EsriASCIIRaster) Lattice() grid.Lattice {
	return grid.Lattice{
		Ncols: int(raster.Ncols), Nrows: int(raster.Nrows),
		Xmin: raster.Xmin(), Ymin: raster.Ymin(),
		DX: raster.CellWidth(), DY: raster.CellHeight(),
		At: func(c, r int) float64 {
			if v := raster.Data[r][c]; v != raster.NoDataValue {
				return v
			}
			return grid.NoData
		},
	}
}

// Grid converts the raster into a grid. NODATA_VALUE cells become NoData.
// Rectangular cells are sampled nearest neighbour onto squares of the
// smaller cell side.
func (raster EsriASCIIRaster) Grid() *grid.Grid {
	dx, dy := raster.CellWidth(), raster.CellHeight()
	if raster.IsSquare() {
		g := grid.New(grid.Shape{
			Ncols: int(raster.Ncols), Nrows: int(raster.Nrows),
			Xmin: raster.Xmin(), Ymin: raster.Ymin(), CellSize: dx,
		})
		for r, row := range raster.Data {
			for c, v := range row {
				if v != raster.NoDataValue {
					g.Set(c, r, v)
				}
			}
		}
		return g
	}

	cs := math.Min(dx, dy)
	width := float64(raster.Ncols) * dx
	height := float64(raster.Nrows) * dy
	g := grid.New(grid.Shape{
		Ncols: int(math.Round(width / cs)), Nrows: int(math.Round(height / cs)),
		Xmin: raster.Xmin(), Ymin: raster.Ymin(), CellSize: cs,
	})
	for r := 0; r < g.Nrows; r++ {
		sr := int((float64(r) + 0.5) * cs / dy)
		if sr >= int(raster.Nrows) {
			continue
		}
		for c := 0; c < g.Ncols; c++ {
			sc := int((float64(c) + 0.5) * cs / dx)
			if sc >= int(raster.Ncols) {
				continue
			}
			if v := raster.Data[sr][sc]; v != raster.NoDataValue {
				g.Set(c, r, v)
			}
		}
	}
	return g
}
