// Package config handles the YAML run configuration of the relief command.
package config

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/gruppe-adler/relief-utils/internal/grid"
)

// Run holds everything one relief run needs.
type Run struct {
	// Terrain is an ESRI ASCII grid (.asc, .asc.gz) or a TIN (.tin.json).
	Terrain string `yaml:"terrain"`
	// Output is the relief image. Its extension selects the format.
	Output string `yaml:"output"`
	// CellSize is used when no texture asks for a cell size.
	CellSize float64 `yaml:"cell_size"`
	Seed     uint64  `yaml:"seed"`
	Workers  int     `yaml:"workers"`
	// Workspace defaults to <output dir>/<output name>.scratch.
	Workspace string `yaml:"workspace"`
	// DefaultColor paints terrain no texture covers. Without it such cells
	// show the plain hillshade.
	DefaultColor *Color          `yaml:"default_color"`
	Hillshade    HillshadeConfig `yaml:"hillshade"`
	Outputs      OutputsConfig   `yaml:"outputs"`
	Logging      LoggingConfig   `yaml:"logging"`
	Textures     []TextureConfig `yaml:"textures"`
}

// HillshadeConfig holds the light source.
type HillshadeConfig struct {
	Azimuth  float64 `yaml:"azimuth"`
	Altitude float64 `yaml:"altitude"`
	ZFactor  float64 `yaml:"z_factor"`
	Shadows  bool    `yaml:"shadows"`
}

// OutputsConfig holds optional extra outputs.
type OutputsConfig struct {
	WorldFile  bool   `yaml:"world_file"`
	TerrainRGB string `yaml:"terrain_rgb"`
	Metadata   string `yaml:"metadata"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// TextureConfig is one flat texture entry. Which parameters apply depends on
// Kind.
type TextureConfig struct {
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"`
	Area   string `yaml:"area"`
	ZIndex int    `yaml:"z_index"`
	Color  Color  `yaml:"color"`

	Randomness float64 `yaml:"randomness"`
	Density    float64 `yaml:"density"`
	Size       float64 `yaml:"size"`
	Height     float64 `yaml:"height"`
	Interval   float64 `yaml:"interval"`
	Angle      float64 `yaml:"angle"`
	Width      float64 `yaml:"width"`
	Min        int     `yaml:"min"`
	Max        int     `yaml:"max"`
	Value      float64 `yaml:"value"`
}

// Default returns a Run with the standard light and no textures.
func Default() *Run {
	return &Run{
		CellSize: 10,
		Seed:     1,
		Workers:  runtime.NumCPU(),
		Hillshade: HillshadeConfig{
			Azimuth:  315,
			Altitude: 45,
			ZFactor:  1,
		},
		Outputs: OutputsConfig{
			WorldFile: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Light converts the hillshade settings.
func (h HillshadeConfig) Light() grid.HillshadeParams {
	return grid.HillshadeParams{
		Azimuth:  h.Azimuth,
		Altitude: h.Altitude,
		ZFactor:  h.ZFactor,
		Shadows:  h.Shadows,
	}
}

// WorkspaceDir is the configured workspace or the default next to Output.
func (r *Run) WorkspaceDir() string {
	if r.Workspace != "" {
		return r.Workspace
	}
	base := filepath.Base(r.Output)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(r.Output), base+".scratch")
}

// resolve makes all relative paths relative to dir.
func (r *Run) resolve(dir string) {
	abs := func(p *string) {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
	abs(&r.Terrain)
	abs(&r.Output)
	abs(&r.Workspace)
	abs(&r.Outputs.TerrainRGB)
	abs(&r.Outputs.Metadata)
	abs(&r.Logging.File)
	for i := range r.Textures {
		abs(&r.Textures[i].Area)
	}
}
