// Package terrain holds the elevation surface of a run. It adds texture
// bumps to the surface and derives the illumination used for compositing.
package terrain

import (
	"fmt"
	"math"

	"github.com/gruppe-adler/relief-utils/internal/dem"
	"github.com/gruppe-adler/relief-utils/internal/grid"
	"github.com/gruppe-adler/relief-utils/internal/texture"
)

// Terrain is an elevation grid at the run's cell size. Its extent is the
// extent of the whole run.
type Terrain struct {
	Elevation *grid.Grid
	Light     grid.HillshadeParams

	hillshade *grid.Grid
}

// Load reads an ESRI ASCII grid (.asc, .asc.gz) or a TIN (.tin.json) and
// brings it to cellSize. TINs are rasterized directly. Grids are resampled
// bilinearly when their cells differ from cellSize or are not square.
func Load(path string, cellSize float64, light grid.HillshadeParams) (*Terrain, error) {
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		return nil, fmt.Errorf("invalid cell size %g", cellSize)
	}

	var elevation *grid.Grid
	switch {
	case dem.IsTINPath(path):
		tin, err := dem.ReadTIN(path)
		if err != nil {
			return nil, err
		}
		elevation = tin.Rasterize(cellSize)
	case dem.IsRasterPath(path):
		raster, err := dem.Read(path)
		if err != nil {
			return nil, err
		}
		if !raster.IsSquare() {
			lattice := raster.Lattice()
			elevation = lattice.Bilinear(grid.ShapeFromBound(lattice.Extent(), cellSize))
			break
		}
		elevation = raster.Grid()
		if elevation.CellSize != cellSize {
			elevation = grid.Bilinear(elevation, grid.ShapeFromBound(elevation.Extent(), cellSize))
		}
	default:
		return nil, fmt.Errorf("%s: unsupported terrain format", path)
	}

	if elevation.IsEmpty() {
		return nil, fmt.Errorf("%s: terrain has no elevation values", path)
	}
	return New(elevation, light), nil
}

// New wraps an elevation grid.
func New(elevation *grid.Grid, light grid.HillshadeParams) *Terrain {
	return &Terrain{Elevation: elevation, Light: light}
}

// Shape is the processing extent and cell size.
func (t *Terrain) Shape() grid.Shape {
	return t.Elevation.Shape
}

// Bump merges the texture outputs by descending z-index. On overlap the
// highest z-index wins; equal z-indexes resolve to the earlier texture.
// Textures without output are skipped. It returns nil when no texture has
// output.
func Bump(textures []*texture.Texture) (*grid.Grid, error) {
	layers := make([]grid.Prioritized, 0, len(textures))
	for _, tex := range textures {
		if tex.Output == nil {
			continue
		}
		layers = append(layers, grid.Prioritized{Grid: tex.Output, Priority: tex.ZIndex})
	}
	if len(layers) == 0 {
		return nil, nil
	}
	return grid.MergeByPriority(layers)
}

// AddTextures returns the elevation plus the merged texture bump. Cells the
// bump does not cover keep their plain elevation.
func (t *Terrain) AddTextures(textures []*texture.Texture) (*grid.Grid, error) {
	bump, err := Bump(textures)
	if err != nil {
		return nil, err
	}
	if bump == nil {
		return t.Elevation.Clone(), nil
	}
	if !bump.Shape.Equal(t.Shape()) {
		return nil, &grid.ShapeMismatchError{Want: t.Shape(), Got: bump.Shape}
	}

	out := t.Elevation.Clone()
	for i, b := range bump.Data {
		if grid.IsNoData(b) || grid.IsNoData(out.Data[i]) {
			continue
		}
		out.Data[i] += b
	}
	return out, nil
}

// HillshadeToPercent shades the combined surface with the terrain's light
// and scales the result to 0..1. The 0..255 hillshade is kept and returned
// by Hillshade.
func (t *Terrain) HillshadeToPercent(combined *grid.Grid) (*grid.Grid, error) {
	if !combined.Shape.Equal(t.Shape()) {
		return nil, &grid.ShapeMismatchError{Want: t.Shape(), Got: combined.Shape}
	}
	t.hillshade = grid.Hillshade(combined, t.Light)
	return grid.Map(t.hillshade, func(v float64) float64 { return v / 255 }), nil
}

// Hillshade is the 0..255 hillshade of the last HillshadeToPercent call.
func (t *Terrain) Hillshade() *grid.Grid {
	return t.hillshade
}

// Release drops all grids.
func (t *Terrain) Release() {
	t.hillshade = nil
}
