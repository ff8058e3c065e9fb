package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/src-d/go-billy.v4/memfs"
	"gopkg.in/src-d/go-billy.v4/util"

	"github.com/gruppe-adler/relief-utils/internal/grid"
)

func TestSaveLoadGrid(t *testing.T) {
	fs := memfs.New()
	ws, err := Open(fs, "out/relief.scratch")
	require.NoError(t, err)

	g := grid.New(grid.Shape{Ncols: 2, Nrows: 2, Xmin: 10, Ymin: 20, CellSize: 0.5})
	g.Set(0, 0, 1.25)
	g.Set(1, 1, -3)
	require.NoError(t, ws.SaveGrid("bump", g))

	back, err := ws.LoadGrid("bump")
	require.NoError(t, err)
	assert.Equal(t, g.Shape, back.Shape)
	assert.Equal(t, 1.25, back.At(0, 0))
	assert.Equal(t, -3.0, back.At(1, 1))
	assert.True(t, grid.IsNoData(back.At(1, 0)))

	names, err := ws.Grids()
	require.NoError(t, err)
	assert.Equal(t, []string{"bump"}, names)
}

func TestOpenClearsLeftovers(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "scratch/stale.asc", []byte("old"), 0644))

	ws, err := Open(fs, "scratch")
	require.NoError(t, err)
	names, err := ws.Grids()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestCloseRemovesDirectory(t *testing.T) {
	fs := memfs.New()
	ws, err := Open(fs, "scratch")
	require.NoError(t, err)
	require.NoError(t, ws.SaveGrid("landuse", grid.Fill(grid.Shape{Ncols: 1, Nrows: 1, CellSize: 1}, 2)))

	require.NoError(t, ws.Close())
	_, err = fs.Stat("scratch")
	assert.Error(t, err)
}

func TestOpenRejectsRoot(t *testing.T) {
	for _, dir := range []string{"", ".", "/"} {
		_, err := Open(memfs.New(), dir)
		assert.Error(t, err, dir)
	}
}

func TestLoadMissingGrid(t *testing.T) {
	ws, err := Open(memfs.New(), "scratch")
	require.NoError(t, err)
	_, err = ws.LoadGrid("nope")
	assert.Error(t, err)
}
