// Package metajson reads and writes the JSON sidecar describing a relief run.
package metajson

import (
	"encoding/json"
	"os"
)

// Light is the hillshade light source of the run.
type Light struct {
	Azimuth  float64 `json:"azimuth"`
	Altitude float64 `json:"altitude"`
	ZFactor  float64 `json:"zFactor"`
	Shadows  bool    `json:"shadows"`
}

// Texture describes one texture of the run.
type Texture struct {
	Name       string  `json:"name,omitempty"`
	Kind       string  `json:"kind"`
	ZIndex     int     `json:"zIndex"`
	Color      string  `json:"color"`
	CellSize   float64 `json:"cellSize,omitempty"`
	Degenerate bool    `json:"degenerate,omitempty"`
}

// MetaJSON is the structure of the run sidecar.
type MetaJSON struct {
	Image    string     `json:"image"`
	Terrain  string     `json:"terrain"`
	CellSize float64    `json:"cellSize"`
	Width    int        `json:"width"`
	Height   int        `json:"height"`
	Extent   [4]float64 `json:"extent"`
	Seed     uint64     `json:"seed"`
	Light    Light      `json:"light"`
	Textures []Texture  `json:"textures"`
}

// Read a sidecar from given path
func Read(metaJSONPath string) (MetaJSON, error) {
	var val MetaJSON

	data, err := os.ReadFile(metaJSONPath)
	if err != nil {
		return val, err
	}

	err = json.Unmarshal(data, &val)
	return val, err
}

// Write a sidecar to given path
func Write(metaJSONPath string, meta MetaJSON) error {
	data, err := json.MarshalIndent(meta, "", "    ")
	if err != nil {
		return err
	}

	return os.WriteFile(metaJSONPath, data, 0644)
}
