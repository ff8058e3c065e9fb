package terrainrgb

import (
	"image"
	"image/color"

	"github.com/gruppe-adler/relief-utils/internal/grid"
)

// Encode turns an elevation grid into a Terrain-RGB image, one pixel per
// cell. NoData cells are fully transparent.
func Encode(g *grid.Grid) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.Ncols, g.Nrows))
	for r := 0; r < g.Nrows; r++ {
		for c := 0; c < g.Ncols; c++ {
			v := g.At(c, r)
			if grid.IsNoData(v) {
				continue
			}
			img.SetRGBA(c, r, HeightToRgb(v))
		}
	}
	return img
}

// Decode turns a Terrain-RGB image back into heights on shape. Transparent
// pixels become NoData.
func Decode(img image.Image, shape grid.Shape) *grid.Grid {
	g := grid.New(shape)
	b := img.Bounds()
	for r := 0; r < shape.Nrows && b.Min.Y+r < b.Max.Y; r++ {
		for c := 0; c < shape.Ncols && b.Min.X+c < b.Max.X; c++ {
			px := color.RGBAModel.Convert(img.At(b.Min.X+c, b.Min.Y+r)).(color.RGBA)
			if px.A == 0 {
				continue
			}
			g.Set(c, r, RgbToHeight(px))
		}
	}
	return g
}
