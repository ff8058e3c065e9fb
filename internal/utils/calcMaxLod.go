package utils

import (
	"image"
	"math"
)

// CalcMaxLodFromImage calculates the LOD at which a tile shows the image at
// its native resolution, based on the larger image side
func CalcMaxLodFromImage(img image.Image) uint8 {
	b := img.Bounds()
	w := float64(max(b.Dx(), b.Dy()))

	tilesPerRowCol := math.Ceil(w / TileSize)

	return uint8(math.Ceil(math.Log2(tilesPerRowCol)))
}
