// Package terrainrgb encodes elevation grids as Mapbox Terrain-RGB images.
package terrainrgb

import (
	"image/color"
	"math"
)

/*
	Terrain-RGB decodes heights from rgb with

	height = -10000 + ((R * 256 * 256 + G * 256 + B) * 0.1)

	Writing x for (R * 256 * 256 + G * 256 + B) and solving for x gives
	x = 10 * height + 100000

	x written as a base 256 number has R, G and B as its digits 2, 1 and 0.
*/

// maxX is the largest encodable x.
var maxX = int64(math.Pow(256, 3) - 1)

// HeightToRgb encodes a height. Heights outside -10000..1667721.5 wrap.
func HeightToRgb(height float64) color.RGBA {
	x := int64(math.Round(10*height+100000)) % maxX

	b := uint8(x % 256)
	x = x / 256

	g := uint8(x % 256)
	x = x / 256

	r := uint8(x % 256)

	return color.RGBA{
		R: r,
		G: g,
		B: b,
		A: 255,
	}
}

// RgbToHeight decodes a height.
func RgbToHeight(c color.RGBA) float64 {
	x := int64(c.R)*256*256 + int64(c.G)*256 + int64(c.B)

	return -10000.0 + float64(x)*0.1
}
