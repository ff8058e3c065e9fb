package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gruppe-adler/relief-utils/internal/aoi"
	"github.com/gruppe-adler/relief-utils/internal/texture"
)

// Load reads a run configuration with priority defaults < file. Relative
// paths in the file are resolved against the file's directory.
func Load(path string) (*Run, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	cfg.resolve(dir)
	return cfg, nil
}

// SaveTo writes the configuration as YAML.
func (r *Run) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Descriptors opens the texture areas and converts the flat entries into
// texture descriptors, keeping their order.
func (r *Run) Descriptors() ([]texture.Descriptor, error) {
	descriptors := make([]texture.Descriptor, 0, len(r.Textures))
	for i, tc := range r.Textures {
		params, err := tc.Params()
		if err != nil {
			return nil, fmt.Errorf("texture %d: %w", i, err)
		}
		area, err := aoi.Open(tc.Area)
		if err != nil {
			return nil, fmt.Errorf("texture %d: %w", i, err)
		}
		descriptors = append(descriptors, texture.Descriptor{
			Name:   tc.Name,
			Area:   area,
			ZIndex: tc.ZIndex,
			Color:  texture.Color(tc.Color),
			Params: params,
		})
	}
	return descriptors, nil
}

// Params picks the parameters that apply to the entry's kind.
func (tc TextureConfig) Params() (texture.Params, error) {
	kind, err := texture.ParseKind(tc.Kind)
	if err != nil {
		return nil, err
	}
	switch kind {
	case texture.Squares:
		return texture.SquaresParams{Randomness: tc.Randomness, Density: tc.Density, Size: tc.Size, Height: tc.Height}, nil
	case texture.Cones:
		return texture.ConesParams{Randomness: tc.Randomness, Density: tc.Density, Size: tc.Size, Height: tc.Height}, nil
	case texture.Spheres:
		return texture.SpheresParams{Randomness: tc.Randomness, Density: tc.Density, Size: tc.Size}, nil
	case texture.Plough:
		return texture.PloughParams{Interval: tc.Interval, Angle: tc.Angle}, nil
	case texture.Lines:
		return texture.LinesParams{Width: tc.Width, Height: tc.Height}, nil
	case texture.Noise:
		return texture.NoiseParams{Min: tc.Min, Max: tc.Max}, nil
	default:
		return texture.NullParams{Value: tc.Value}, nil
	}
}
