// Package imageio reads and writes the relief image. The format follows the
// file extension.
package imageio

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/gruppe-adler/relief-utils/internal/grid"
)

// Format is an image file format.
type Format int

// Supported formats.
const (
	PNG Format = iota
	JPEG
	TIFF
	BMP
)

// JPEGQuality is used for .jpg output.
const JPEGQuality = 95

var extensions = map[string]Format{
	".png":  PNG,
	".jpg":  JPEG,
	".jpeg": JPEG,
	".tif":  TIFF,
	".tiff": TIFF,
	".bmp":  BMP,
}

// FormatFromPath returns the format implied by the extension of path.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	f, ok := extensions[ext]
	if !ok {
		return 0, fmt.Errorf("unsupported image extension %q", ext)
	}
	return f, nil
}

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	case TIFF:
		return "tiff"
	case BMP:
		return "bmp"
	}
	return "Format(" + strconv.Itoa(int(f)) + ")"
}

// WorldFileExt is the extension of the world file accompanying the format.
func (f Format) WorldFileExt() string {
	switch f {
	case JPEG:
		return ".jgw"
	case TIFF:
		return ".tfw"
	case BMP:
		return ".bpw"
	}
	return ".pgw"
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case BMP:
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("unsupported format %s", f)
}

// Write encodes img to path in the format implied by its extension.
func Write(path string, img image.Image) (err error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()
	return Encode(out, img, f)
}

// Read decodes any supported image.
func Read(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	var img image.Image
	switch f {
	case PNG:
		img, err = png.Decode(file)
	case JPEG:
		img, err = jpeg.Decode(file)
	case TIFF:
		img, err = tiff.Decode(file)
	case BMP:
		img, err = bmp.Decode(file)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// WorldFilePath returns the world file path for an image path.
func WorldFilePath(imagePath string) (string, error) {
	f, err := FormatFromPath(imagePath)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + f.WorldFileExt(), nil
}

// WorldFile renders the six line world file georeferencing an image of shape.
// The last two lines hold the centre of the upper left pixel.
func WorldFile(shape grid.Shape) string {
	lines := []float64{
		shape.CellSize,
		0,
		0,
		-shape.CellSize,
		shape.X(0),
		shape.Y(0),
	}
	var sb strings.Builder
	for _, v := range lines {
		sb.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// WriteWorldFile writes the world file next to imagePath.
func WriteWorldFile(imagePath string, shape grid.Shape) error {
	path, err := WorldFilePath(imagePath)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(WorldFile(shape)), 0644)
}
