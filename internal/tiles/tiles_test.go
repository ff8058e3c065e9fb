package tiles

import (
	"context"
	"image"
	"path/filepath"
	"testing"
	"time"

	"github.com/gruppe-adler/relief-utils/internal/metajson"
	"github.com/gruppe-adler/relief-utils/internal/tilejson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 300, 200))
	meta := &metajson.MetaJSON{Image: "relief.png", CellSize: 2, Extent: [4]float64{0, 0, 600, 400}}

	var lods []uint8
	err := Build(context.Background(), img, dir, "Relief", meta, func(lod uint8, _ time.Duration) {
		lods = append(lods, lod)
	})
	require.NoError(t, err)

	assert.Equal(t, []uint8{0, 1}, lods)
	assert.FileExists(t, filepath.Join(dir, "0", "0", "0.png"))
	assert.FileExists(t, filepath.Join(dir, "1", "1", "1.png"))

	tj, err := tilejson.Read(dir)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), tj.Maxzoom)
	require.NotNil(t, tj.Bounds)
	assert.Equal(t, [4]float64{0, 0, 600, 400}, *tj.Bounds)
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Build(ctx, image.NewRGBA(image.Rect(0, 0, 10, 10)), t.TempDir(), "Relief", nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
