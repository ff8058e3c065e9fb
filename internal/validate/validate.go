// Package validate checks run configurations before any work starts.
package validate

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"

	"github.com/gruppe-adler/relief-utils/internal/aoi"
	"github.com/gruppe-adler/relief-utils/internal/config"
	"github.com/gruppe-adler/relief-utils/internal/dem"
	"github.com/gruppe-adler/relief-utils/internal/imageio"
	"github.com/gruppe-adler/relief-utils/internal/texture"
	"github.com/gruppe-adler/relief-utils/internal/utils"
)

// Run validates cfg and returns every problem found, combined.
func Run(cfg *config.Run) error {
	var err error

	// terrain
	switch {
	case cfg.Terrain == "":
		err = multierr.Append(err, fmt.Errorf("terrain is missing"))
	case !dem.IsRasterPath(cfg.Terrain) && !dem.IsTINPath(cfg.Terrain):
		err = multierr.Append(err, fmt.Errorf("%s is no .asc, .asc.gz or .tin.json file", cfg.Terrain))
	case !utils.IsFile(cfg.Terrain):
		err = multierr.Append(err, fmt.Errorf("%s does not exist or is no file", cfg.Terrain))
	}

	// output
	if cfg.Output == "" {
		err = multierr.Append(err, fmt.Errorf("output is missing"))
	} else {
		if _, e := imageio.FormatFromPath(cfg.Output); e != nil {
			err = multierr.Append(err, fmt.Errorf("output: %w", e))
		}
		if !utils.ParentExists(cfg.Output) {
			err = multierr.Append(err, fmt.Errorf("output directory %s doesn't exist", filepath.Dir(cfg.Output)))
		}
	}
	err = multierr.Append(err, optionalOutput("terrain_rgb", cfg.Outputs.TerrainRGB, ".png"))
	err = multierr.Append(err, optionalOutput("metadata", cfg.Outputs.Metadata, ".json"))

	err = multierr.Append(err, Hillshade(cfg.Hillshade))

	if !(cfg.CellSize > 0) {
		err = multierr.Append(err, fmt.Errorf("cell_size must be positive, got %g", cfg.CellSize))
	}
	if cfg.Workers < 1 {
		err = multierr.Append(err, fmt.Errorf("workers must be at least 1, got %d", cfg.Workers))
	}

	for i, tc := range cfg.Textures {
		if e := Texture(tc); e != nil {
			err = multierr.Append(err, fmt.Errorf("texture %d: %w", i, e))
		}
	}

	return err
}

// Warnings returns non fatal remarks about cfg.
func Warnings(cfg *config.Run) []string {
	var warnings []string
	if cfg.DefaultColor == nil {
		return warnings
	}
	for i, tc := range cfg.Textures {
		if tc.ZIndex == 0 {
			warnings = append(warnings, fmt.Sprintf("texture %d shares z-index 0 with the default color; its color also paints uncovered terrain", i))
		}
	}
	return warnings
}

func optionalOutput(name, path, ext string) error {
	if path == "" {
		return nil
	}
	if !strings.EqualFold(filepath.Ext(path), ext) {
		return fmt.Errorf("%s: %s must end in %s", name, path, ext)
	}
	if !utils.ParentExists(path) {
		return fmt.Errorf("%s: directory %s doesn't exist", name, filepath.Dir(path))
	}
	return nil
}

// Hillshade validates the light source.
func Hillshade(h config.HillshadeConfig) error {
	var err error
	if h.Azimuth < 0 || h.Azimuth > 360 {
		err = multierr.Append(err, fmt.Errorf("azimuth must be within [0, 360], got %g", h.Azimuth))
	}
	if h.Altitude < 0 || h.Altitude > 90 {
		err = multierr.Append(err, fmt.Errorf("altitude must be within [0, 90], got %g", h.Altitude))
	}
	if !(h.ZFactor > 0) {
		err = multierr.Append(err, fmt.Errorf("z_factor must be positive, got %g", h.ZFactor))
	}
	return err
}

// Texture validates one texture entry.
func Texture(tc config.TextureConfig) error {
	kind, err := texture.ParseKind(tc.Kind)
	if err != nil {
		return err
	}

	switch {
	case tc.Area == "":
		err = multierr.Append(err, fmt.Errorf("area is missing"))
	case !aoi.IsSupportedPath(tc.Area):
		err = multierr.Append(err, fmt.Errorf("%s is no supported area source", tc.Area))
	case !utils.IsFile(tc.Area):
		err = multierr.Append(err, fmt.Errorf("%s does not exist or is no file", tc.Area))
	}

	positive := func(name string, v float64) {
		if !(v > 0) {
			err = multierr.Append(err, fmt.Errorf("%s %s must be positive, got %g", kind, name, v))
		}
	}
	switch kind {
	case texture.Squares, texture.Cones, texture.Spheres:
		positive("density", tc.Density)
		positive("size", tc.Size)
		if tc.Randomness < 0 {
			err = multierr.Append(err, fmt.Errorf("%s randomness must not be negative, got %g", kind, tc.Randomness))
		}
	case texture.Plough:
		positive("interval", tc.Interval)
	case texture.Lines:
		positive("width", tc.Width)
		if dem.IsRasterPath(tc.Area) {
			err = multierr.Append(err, fmt.Errorf("lines need a polyline source, got grid %s", tc.Area))
		}
	case texture.Noise:
		if tc.Min > tc.Max {
			err = multierr.Append(err, fmt.Errorf("noise min %d is above max %d", tc.Min, tc.Max))
		}
	}
	return err
}
