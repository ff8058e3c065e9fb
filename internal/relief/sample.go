package relief

import "github.com/gruppe-adler/relief-utils/internal/config"

// Sample returns a starter configuration with one texture
// of every kind.
func Sample() *config.Run {
	cfg := config.Default()
	cfg.Terrain = "dem.asc"
	cfg.Output = "relief.png"
	cfg.Outputs.Metadata = "relief.meta.json"
	cfg.DefaultColor = &config.Color{R: 200, G: 190, B: 160}
	cfg.Textures = []config.TextureConfig{
		{Name: "fields", Kind: "plough", Area: "fields.geojson", ZIndex: 1, Color: config.Color{R: 170, G: 150, B: 90}, Interval: 5, Angle: 30},
		{Name: "forest", Kind: "spheres", Area: "forest.shp", ZIndex: 2, Color: config.Color{R: 60, G: 110, B: 50}, Randomness: 0.5, Density: 12, Size: 8},
		{Name: "bushes", Kind: "cones", Area: "bushes.geojson", ZIndex: 3, Color: config.Color{R: 90, G: 130, B: 60}, Randomness: 0.3, Density: 6, Size: 3, Height: 2},
		{Name: "houses", Kind: "squares", Area: "houses.geojson", ZIndex: 4, Color: config.Color{R: 150, G: 70, B: 60}, Randomness: 0, Density: 20, Size: 10, Height: 8},
		{Name: "roads", Kind: "lines", Area: "roads.geojson", ZIndex: 5, Color: config.Color{R: 120, G: 120, B: 120}, Width: 6, Height: -0.5},
		{Name: "meadow", Kind: "noise", Area: "meadow.geojson", ZIndex: 1, Color: config.Color{R: 140, G: 170, B: 90}, Min: 0, Max: 2},
		{Name: "water", Kind: "null", Area: "water.geojson", ZIndex: 6, Color: config.Color{R: 80, G: 120, B: 170}, Value: 0},
	}
	return cfg
}
