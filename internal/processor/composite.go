package processor

import (
	"image"
	"image/color"
	"math"

	"github.com/gruppe-adler/relief-utils/internal/grid"
	"github.com/gruppe-adler/relief-utils/internal/texture"
)

// Landuse classifies every cell by the z-index of the texture occupying it.
// Overlaps resolve like the bump map: highest z-index first, then list
// order. Cells no texture covers are NoData.
func Landuse(shape grid.Shape, textures []*texture.Texture) (*grid.Grid, error) {
	layers := make([]grid.Prioritized, 0, len(textures))
	for _, tex := range textures {
		if tex.Output == nil || tex.Output.IsEmpty() {
			continue
		}
		tex.Landuse = grid.ReclassifyDefined(tex.Output, float64(tex.ZIndex))
		layers = append(layers, grid.Prioritized{Grid: tex.Landuse, Priority: tex.ZIndex})
	}
	if len(layers) == 0 {
		return grid.New(shape), nil
	}
	return grid.MergeByPriority(layers)
}

// ColorTables maps each z-index to the red, green and blue intensity of the
// first texture in list order carrying it.
func ColorTables(textures []*texture.Texture) [3]map[int]float64 {
	tables := [3]map[int]float64{{}, {}, {}}
	for _, tex := range textures {
		if _, ok := tables[0][tex.ZIndex]; ok {
			continue
		}
		tables[0][tex.ZIndex] = float64(tex.Color.R)
		tables[1][tex.ZIndex] = float64(tex.Color.G)
		tables[2][tex.ZIndex] = float64(tex.Color.B)
	}
	return tables
}

// Channels paints the land use with the texture colors and modulates them
// by the illumination percent. Cells without a color fall back to the
// 0..255 hillshade; cells without hillshade are 0.
func Channels(landuse, percent, hillshade *grid.Grid, textures []*texture.Texture) ([3]*grid.Grid, error) {
	var channels [3]*grid.Grid
	for i, table := range ColorTables(textures) {
		raw := grid.ReclassifyValues(landuse, table)
		scaled, err := grid.Combine(raw, percent, func(c, p float64) float64 { return c * p })
		if err != nil {
			return channels, err
		}
		out := grid.Truncate(scaled)
		if !hillshade.Shape.Equal(out.Shape) {
			return channels, &grid.ShapeMismatchError{Want: out.Shape, Got: hillshade.Shape}
		}
		for j, v := range out.Data {
			if grid.IsNoData(v) {
				out.Data[j] = fallback(hillshade.Data[j])
			}
		}
		channels[i] = out
	}
	return channels, nil
}

func fallback(hs float64) float64 {
	if grid.IsNoData(hs) {
		return 0
	}
	return hs
}

// Stack turns three channel grids into an opaque image, row 0 at the top.
func Stack(channels [3]*grid.Grid) *image.RGBA {
	s := channels[0].Shape
	img := image.NewRGBA(image.Rect(0, 0, s.Ncols, s.Nrows))
	for r := 0; r < s.Nrows; r++ {
		for c := 0; c < s.Ncols; c++ {
			img.SetRGBA(c, r, color.RGBA{
				R: toByte(channels[0].At(c, r)),
				G: toByte(channels[1].At(c, r)),
				B: toByte(channels[2].At(c, r)),
				A: 255,
			})
		}
	}
	return img
}

func toByte(v float64) uint8 {
	if grid.IsNoData(v) {
		return 0
	}
	return uint8(math.Max(0, math.Min(255, v)))
}
