package terrain

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gruppe-adler/relief-utils/internal/aoi"
	"github.com/gruppe-adler/relief-utils/internal/grid"
	"github.com/gruppe-adler/relief-utils/internal/texture"
)

var light = grid.HillshadeParams{Azimuth: 315, Altitude: 45, ZFactor: 1}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const flatDEM = `ncols 4
nrows 4
xllcorner 0
yllcorner 0
cellsize 2
100 100 100 100
100 100 100 100
100 100 100 100
100 100 100 100
`

func TestLoadKeepsMatchingGrid(t *testing.T) {
	terr, err := Load(writeFile(t, "flat.asc", flatDEM), 2, light)
	require.NoError(t, err)
	assert.Equal(t, grid.Shape{Ncols: 4, Nrows: 4, CellSize: 2}, terr.Shape())
}

func TestLoadResamples(t *testing.T) {
	terr, err := Load(writeFile(t, "flat.asc", flatDEM), 1, light)
	require.NoError(t, err)
	assert.Equal(t, grid.Shape{Ncols: 8, Nrows: 8, CellSize: 1}, terr.Shape())
	for _, v := range terr.Elevation.Data {
		assert.InDelta(t, 100, v, 1e-9)
	}
}

func TestLoadRectangularCellsResamplesOnce(t *testing.T) {
	src := "ncols 2\nnrows 1\nxllcorner 0\nyllcorner 0\ndx 2\ndy 1\nNODATA_value -9999\n1 2\n"
	terr, err := Load(writeFile(t, "rect.asc", src), 1, light)
	require.NoError(t, err)

	assert.Equal(t, grid.Shape{Ncols: 4, Nrows: 1, CellSize: 1}, terr.Shape())
	want := []float64{1, 1.25, 1.75, 2}
	for i, v := range terr.Elevation.Data {
		assert.InDelta(t, want[i], v, 1e-9)
	}
}

func TestLoadRectangularCellsKeepsNoData(t *testing.T) {
	src := "ncols 2\nnrows 2\nxllcorner 0\nyllcorner 0\ndx 2\ndy 1\nNODATA_value -9999\n1 -9999\n3 4\n"
	terr, err := Load(writeFile(t, "rect.asc", src), 1, light)
	require.NoError(t, err)

	assert.Equal(t, grid.Shape{Ncols: 4, Nrows: 2, CellSize: 1}, terr.Shape())
	assert.True(t, grid.IsNoData(terr.Elevation.At(3, 0)))
	assert.Equal(t, 1.0, terr.Elevation.At(0, 0))
}

func TestLoadTIN(t *testing.T) {
	src := `{"points": [[0,0,1],[4,0,1],[4,4,1],[0,4,1]], "triangles": [[0,1,2],[0,2,3]]}`
	terr, err := Load(writeFile(t, "plane.tin.json", src), 1, light)
	require.NoError(t, err)
	assert.Equal(t, 16, terr.Elevation.Defined())
	assert.InDelta(t, 1, terr.Elevation.At(2, 2), 1e-9)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeFile(t, "flat.asc", flatDEM), 0, light)
	assert.Error(t, err)
	_, err = Load(writeFile(t, "flat.asc", flatDEM), math.Inf(1), light)
	assert.Error(t, err)
	_, err = Load(writeFile(t, "terrain.xyz", "1 2 3"), 1, light)
	assert.Error(t, err)
	_, err = Load(filepath.Join(t.TempDir(), "missing.asc"), 1, light)
	assert.Error(t, err)
}

func withOutput(z int, out *grid.Grid) *texture.Texture {
	tex := texture.New(texture.Descriptor{ZIndex: z, Params: texture.NullParams{}}, 0)
	tex.Output = out
	return tex
}

func TestAddTexturesIsNoDataTransparent(t *testing.T) {
	s := grid.Shape{Ncols: 3, Nrows: 1, CellSize: 1}
	elevation, err := grid.FromRows(s, [][]float64{{10, 20, 30}})
	require.NoError(t, err)
	terr := New(elevation, light)

	bump := grid.New(s)
	bump.Set(1, 0, 5)
	combined, err := terr.AddTextures([]*texture.Texture{withOutput(1, bump)})
	require.NoError(t, err)

	assert.Equal(t, 10.0, combined.At(0, 0))
	assert.Equal(t, 25.0, combined.At(1, 0))
	assert.Equal(t, 30.0, combined.At(2, 0))
	assert.Equal(t, 20.0, elevation.At(1, 0), "elevation must not change")
}

func TestAddTexturesHighestZIndexWins(t *testing.T) {
	s := grid.Shape{Ncols: 2, Nrows: 1, CellSize: 1}
	terr := New(grid.Fill(s, 0), light)

	low := withOutput(1, grid.Fill(s, 1))
	high := grid.New(s)
	high.Set(0, 0, 7)
	combined, err := terr.AddTextures([]*texture.Texture{low, withOutput(5, high), {Descriptor: texture.Descriptor{ZIndex: 9}}})
	require.NoError(t, err)
	assert.Equal(t, 7.0, combined.At(0, 0))
	assert.Equal(t, 1.0, combined.At(1, 0))
}

func TestAddTexturesWithoutOutputs(t *testing.T) {
	s := grid.Shape{Ncols: 2, Nrows: 2, CellSize: 1}
	terr := New(grid.Fill(s, 3), light)
	combined, err := terr.AddTextures(nil)
	require.NoError(t, err)
	assert.Equal(t, terr.Elevation.Data, combined.Data)
	assert.NotSame(t, terr.Elevation, combined)

	_, err = terr.AddTextures([]*texture.Texture{withOutput(1, grid.Fill(grid.Shape{Ncols: 1, Nrows: 1, CellSize: 1}, 1))})
	var mismatch *grid.ShapeMismatchError
	assert.ErrorAs(t, err, &mismatch)
}

func TestHillshadeToPercentFlat(t *testing.T) {
	s := grid.Shape{Ncols: 5, Nrows: 5, CellSize: 1}
	terr := New(grid.Fill(s, 100), light)
	percent, err := terr.HillshadeToPercent(terr.Elevation)
	require.NoError(t, err)

	want := math.Round(255*math.Cos(math.Pi/4)) / 255
	for _, v := range percent.Data {
		assert.InDelta(t, want, v, 1e-12)
		assert.Greater(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
	assert.Equal(t, 180.0, terr.Hillshade().At(2, 2))
}

func TestBumpedSurfaceWithTexture(t *testing.T) {
	s := grid.Shape{Ncols: 10, Nrows: 10, CellSize: 1}
	terr := New(grid.Fill(s, 50), light)
	tex := texture.New(texture.Descriptor{
		Area:   aoi.FromGrid("all", grid.Fill(s, 1)),
		ZIndex: 1,
		Params: texture.SquaresParams{Density: 5, Size: 2, Height: 4},
	}, 0)
	_, err := texture.Generate(texture.NewContext(s, 1), tex)
	require.NoError(t, err)

	combined, err := terr.AddTextures([]*texture.Texture{tex})
	require.NoError(t, err)
	assert.Equal(t, 54.0, combined.At(0, 9))
	assert.Equal(t, 50.0, combined.At(2, 7))
}
