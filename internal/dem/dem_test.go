package dem

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gruppe-adler/relief-utils/internal/grid"
)

const sampleDEM = `ncols 3
nrows 2
xllcorner 100
yllcorner 200
cellsize 10
NODATA_value -1
1 2 3
4 -1 6
`

func TestParseEsriASCIIRaster(t *testing.T) {
	raster, err := ParseEsriASCIIRaster(strings.NewReader(sampleDEM))
	require.NoError(t, err)

	assert.Equal(t, uint(3), raster.Ncols)
	assert.Equal(t, uint(2), raster.Nrows)
	assert.Equal(t, 10.0, raster.CellSize)
	assert.Equal(t, -1.0, raster.NoDataValue)
	assert.True(t, raster.IsSquare())

	g := raster.Grid()
	assert.Equal(t, grid.Shape{Ncols: 3, Nrows: 2, Xmin: 100, Ymin: 200, CellSize: 10}, g.Shape)
	assert.Equal(t, 1.0, g.At(0, 0))
	assert.Equal(t, 6.0, g.At(2, 1))
	assert.True(t, grid.IsNoData(g.At(1, 1)))
}

func TestParseEsriASCIIRasterCenter(t *testing.T) {
	src := "ncols 1\nnrows 1\nxllcenter 5\nyllcenter 5\ncellsize 10\n7\n"
	raster, err := ParseEsriASCIIRaster(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 0.0, raster.Xmin())
	assert.Equal(t, 0.0, raster.Ymin())
}

func TestParseEsriASCIIRasterErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing yllcorner", "ncols 1\nnrows 1\nxllcorner 0\ncellsize 1\n1\n"},
		{"missing cellsize", "ncols 1\nnrows 1\nxllcorner 0\nyllcorner 0\n1\n"},
		{"negative cellsize", "ncols 1\nnrows 1\nxllcorner 0\nyllcorner 0\ncellsize -1\n1\n"},
		{"short row", "ncols 2\nnrows 1\nxllcorner 0\nyllcorner 0\ncellsize 1\n1\n"},
		{"missing rows", "ncols 1\nnrows 2\nxllcorner 0\nyllcorner 0\ncellsize 1\n1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEsriASCIIRaster(strings.NewReader(tt.src))
			assert.Error(t, err)
		})
	}
}

func TestRectangularCells(t *testing.T) {
	src := "ncols 2\nnrows 1\nxllcorner 0\nyllcorner 0\ndx 2\ndy 1\n1 2\n"
	raster, err := ParseEsriASCIIRaster(strings.NewReader(src))
	require.NoError(t, err)
	assert.False(t, raster.IsSquare())

	g := raster.Grid()
	assert.Equal(t, 1.0, g.CellSize)
	assert.Equal(t, 4, g.Ncols)
	assert.Equal(t, 1, g.Nrows)
	assert.Equal(t, []float64{1, 1, 2, 2}, g.Data)
}

func TestWriteReadRoundTrip(t *testing.T) {
	g := grid.New(grid.Shape{Ncols: 2, Nrows: 2, Xmin: -5, Ymin: 10, CellSize: 2.5})
	g.Data = []float64{1.25, grid.NoData, -3, 4}

	var buf bytes.Buffer
	require.NoError(t, WriteEsriASCIIRaster(&buf, g, DefaultNoDataValue))

	raster, err := ParseEsriASCIIRaster(&buf)
	require.NoError(t, err)
	back := raster.Grid()
	assert.Equal(t, g.Shape, back.Shape)
	assert.Equal(t, 1.25, back.At(0, 0))
	assert.True(t, grid.IsNoData(back.At(1, 0)))
	assert.Equal(t, 4.0, back.At(1, 1))
}

func TestReadGzipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dem.asc.gz")
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(sampleDEM))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	g, err := ReadGrid(path)
	require.NoError(t, err)
	assert.Equal(t, 3.0, g.At(2, 0))
	assert.True(t, IsRasterPath(path))
}

func TestTINRasterize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "surface.tin.json")
	src := `{"points": [[0,0,0],[10,0,10],[10,10,20],[0,10,10]], "triangles": [[0,1,2],[0,2,3]]}`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	require.True(t, IsTINPath(path))

	tin, err := ReadTIN(path)
	require.NoError(t, err)

	g := tin.Rasterize(1)
	assert.Equal(t, 10, g.Ncols)
	assert.Equal(t, 10, g.Nrows)
	assert.Equal(t, 100, g.Defined())
	// z = x + y on both triangles
	assert.InDelta(t, 0.5+9.5, g.At(0, 0), 1e-9)
	assert.InDelta(t, 9.5+0.5, g.At(9, 9), 1e-9)
}

func TestReadTINRejectsBadIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.tin.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"points": [[0,0,0]], "triangles": [[0,1,2]]}`), 0o644))
	_, err := ReadTIN(path)
	assert.Error(t, err)
}
