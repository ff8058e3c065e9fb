package utils

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"path"
	"runtime"

	"github.com/nfnt/resize"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/gruppe-adler/relief-utils/internal/imageio"
)

// TileSize is the edge length of a tile in pixels.
const TileSize = 256

var sem = semaphore.NewWeighted(int64(runtime.NumCPU()))

// BuildTileSet cuts img into the 2^lod x 2^lod tiles of given LOD and writes
// them as outputDirectory/<lod>/<col>/<row>.png
func BuildTileSet(ctx context.Context, lod uint8, img image.Image, outputDirectory string) error {
	outputDirectory = path.Join(outputDirectory, fmt.Sprintf("%d", lod))

	tilesPerRowCol := int(math.Pow(2, float64(lod)))

	// make col directories
	for col := 0; col < tilesPerRowCol; col++ {
		dirPath := path.Join(outputDirectory, fmt.Sprintf("%d", col))
		if err := os.MkdirAll(dirPath, os.ModePerm); err != nil {
			return err
		}
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	tileWidth := width / tilesPerRowCol
	tileHeight := height / tilesPerRowCol

	// remaining pixels
	widthRemainder := width % tilesPerRowCol
	heightRemainder := height % tilesPerRowCol

	g, ctx := errgroup.WithContext(ctx)
	x := bounds.Min.X
	for col := 0; col < tilesPerRowCol; col++ {
		w := tileWidth
		// remaining pixels go to the first cols / rows
		if col < widthRemainder {
			w++
		}
		y := bounds.Min.Y
		for row := 0; row < tilesPerRowCol; row++ {
			h := tileHeight
			if row < heightRemainder {
				h++
			}
			rect := image.Rect(x, y, x+w, y+h)
			tilePath := path.Join(outputDirectory, fmt.Sprintf("%d", col), fmt.Sprintf("%d.png", row))
			g.Go(func() error {
				return createTile(ctx, img, rect, tilePath)
			})
			y += h
		}
		x += w
	}

	return g.Wait()
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

func createTile(ctx context.Context, img image.Image, rect image.Rectangle, tilePath string) error {
	if err := sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer sem.Release(1)

	var sub image.Image = img
	if s, ok := img.(subImager); ok {
		sub = s.SubImage(rect)
	}

	tile := resize.Resize(TileSize, TileSize, sub, resize.MitchellNetravali)
	return imageio.Write(tilePath, tile)
}
