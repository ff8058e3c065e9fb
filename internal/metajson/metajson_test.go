package metajson

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRead(t *testing.T) {
	meta := MetaJSON{
		Image:    "relief.png",
		CellSize: 2.5,
		Width:    40,
		Height:   20,
		Extent:   [4]float64{0, 0, 100, 50},
		Seed:     7,
		Light:    Light{Azimuth: 315, Altitude: 45, ZFactor: 1},
		Textures: []Texture{{Kind: "cones", ZIndex: 3, Color: "#0a141e", CellSize: 0.91}},
	}
	path := filepath.Join(t.TempDir(), "relief.json")
	require.NoError(t, Write(path, meta))

	back, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, meta, back)
}

func TestReadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	_, err := Read(path)
	assert.Error(t, err)

	_, err = Read(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
