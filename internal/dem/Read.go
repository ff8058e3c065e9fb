package dem

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gruppe-adler/relief-utils/internal/grid"
)

// Read reads an ESRI ASCII grid from path. Files ending in .gz are
// decompressed on the fly.
func Read(path string) (EsriASCIIRaster, error) {
	file, err := os.Open(path)
	if err != nil {
		return EsriASCIIRaster{}, err
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return EsriASCIIRaster{}, fmt.Errorf("%s: %w", path, err)
		}
		defer gz.Close()
		reader = gz
	}

	raster, err := ParseEsriASCIIRaster(reader)
	if err != nil {
		return raster, fmt.Errorf("%s: %w", path, err)
	}

	return raster, nil
}

// ReadGrid reads an ESRI ASCII grid from path and converts it to a grid.
func ReadGrid(path string) (*grid.Grid, error) {
	raster, err := Read(path)
	if err != nil {
		return nil, err
	}
	return raster.Grid(), nil
}

// IsRasterPath reports whether path names an ESRI ASCII grid.
func IsRasterPath(path string) bool {
	p := strings.ToLower(path)
	return strings.HasSuffix(p, ".asc") || strings.HasSuffix(p, ".asc.gz")
}
