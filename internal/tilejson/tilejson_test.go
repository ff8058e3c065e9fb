package tilejson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gruppe-adler/relief-utils/internal/metajson"
)

func TestWriteWithoutMeta(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Write(dir, 3, "Relief", nil))

	obj, err := Read(dir)
	require.NoError(t, err)
	assert.Equal(t, "2.2.0", obj.TileJSON)
	assert.Equal(t, "Relief Tiles", obj.Name)
	assert.Equal(t, uint8(3), obj.Maxzoom)
	assert.Nil(t, obj.Bounds)
}

func TestWriteWithMeta(t *testing.T) {
	dir := t.TempDir()
	meta := &metajson.MetaJSON{Image: "relief.png", CellSize: 2.5, Extent: [4]float64{1, 2, 3, 4}}
	require.NoError(t, Write(dir, 0, "Relief", meta))

	obj, err := Read(dir)
	require.NoError(t, err)
	require.NotNil(t, obj.Bounds)
	assert.Equal(t, [4]float64{1, 2, 3, 4}, *obj.Bounds)
	assert.Contains(t, obj.Description, "relief.png")
}
