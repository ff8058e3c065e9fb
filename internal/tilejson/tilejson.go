// Package tilejson writes TileJSON descriptions of tile pyramids.
package tilejson

import (
	"encoding/json"
	"fmt"
	"os"
	"path"

	"github.com/gruppe-adler/relief-utils/internal/metajson"
)

// TileJSON holds the TileJSON 2.2.0 fields written for raster
// pyramids.
type TileJSON struct {
	TileJSON    string      `json:"tilejson"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Scheme      string      `json:"scheme"`
	Tiles       []string    `json:"tiles"`
	Minzoom     uint8       `json:"minzoom"`
	Maxzoom     uint8       `json:"maxzoom"`
	Bounds      *[4]float64 `json:"bounds,omitempty"`
}

// Write a tile.json into outputDirectory. meta may be nil when the image
// has no run sidecar.
func Write(outputDirectory string, maxLod uint8, layerName string, meta *metajson.MetaJSON) error {
	obj := TileJSON{
		TileJSON:    "2.2.0",
		Name:        fmt.Sprintf("%s Tiles", layerName),
		Description: fmt.Sprintf("%s tiles", layerName),
		Scheme:      "xyz",
		Tiles:       []string{"{z}/{x}/{y}.png"},
		Minzoom:     0,
		Maxzoom:     maxLod,
	}
	if meta != nil {
		obj.Description = fmt.Sprintf("%s tiles of %s at %g map units per pixel", layerName, meta.Image, meta.CellSize)
		bounds := meta.Extent
		obj.Bounds = &bounds
	}

	bytes, err := json.MarshalIndent(obj, "", "    ")
	if err != nil {
		return err
	}

	return os.WriteFile(path.Join(outputDirectory, "tile.json"), bytes, 0644)
}

// Read a tile.json from given directory
func Read(directory string) (TileJSON, error) {
	var obj TileJSON
	data, err := os.ReadFile(path.Join(directory, "tile.json"))
	if err != nil {
		return obj, err
	}
	err = json.Unmarshal(data, &obj)
	return obj, err
}
