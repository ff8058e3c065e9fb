package processor

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/src-d/go-billy.v4/memfs"

	"github.com/gruppe-adler/relief-utils/internal/aoi"
	"github.com/gruppe-adler/relief-utils/internal/grid"
	"github.com/gruppe-adler/relief-utils/internal/imageio"
	"github.com/gruppe-adler/relief-utils/internal/metajson"
	"github.com/gruppe-adler/relief-utils/internal/texture"
)

var light = grid.HillshadeParams{Azimuth: 315, Altitude: 45, ZFactor: 1}

// flatDEM writes a 20x20 grid of elevation 100 with cell size 5.
func flatDEM(t *testing.T) string {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("ncols 20\nnrows 20\nxllcorner 0\nyllcorner 0\ncellsize 5\nNODATA_value -9999\n")
	row := strings.TrimSpace(strings.Repeat("100 ", 20))
	for i := 0; i < 20; i++ {
		sb.WriteString(row + "\n")
	}
	path := filepath.Join(t.TempDir(), "flat.asc")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0644))
	return path
}

func square(x0, y0, x1, y1 float64) orb.Polygon {
	return orb.Polygon{orb.Ring{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}, {x0, y0}}}
}

type recorder struct {
	statuses []Status
}

func (r *recorder) Report(s Status) { r.statuses = append(r.statuses, s) }

func (r *recorder) kinds(k StatusKind) []Status {
	var out []Status
	for _, s := range r.statuses {
		if s.Kind == k {
			out = append(out, s)
		}
	}
	return out
}

func baseOptions(t *testing.T, rec Reporter) Options {
	return Options{
		Terrain:      flatDEM(t),
		Output:       filepath.Join(t.TempDir(), "relief.png"),
		CellSize:     5,
		Light:        light,
		Seed:         1,
		Workers:      2,
		Filesystem:   memfs.New(),
		WorkspaceDir: "scratch",
		WorldFile:    true,
		Reporter:     rec,
	}
}

func fieldSquares() texture.Descriptor {
	return texture.Descriptor{
		Name:   "fields",
		Area:   aoi.FromGeometry("fields", square(0, 0, 100, 100)),
		ZIndex: 2,
		Color:  texture.Color{R: 10, G: 20, B: 30},
		Params: texture.SquaresParams{Randomness: 0, Density: 20, Size: 10, Height: 5},
	}
}

func rgb(t *testing.T, path string, c, r int) color.RGBA {
	t.Helper()
	img, err := imageio.Read(path)
	require.NoError(t, err)
	return color.RGBAModel.Convert(img.At(c, r)).(color.RGBA)
}

func TestFlatSquaresRun(t *testing.T) {
	rec := &recorder{}
	opts := baseOptions(t, rec)
	opts.Textures = []texture.Descriptor{fieldSquares()}
	opts.Metadata = filepath.Join(filepath.Dir(opts.Output), "relief.json")

	p := New(opts)
	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, CleanedUp, p.Stage())
	assert.Equal(t, 5.0, p.CellSize())
	assert.Equal(t, grid.Shape{Ncols: 20, Nrows: 20, CellSize: 5}, p.Shape())

	// untouched ground is plain hillshade of a flat surface
	assert.Equal(t, color.RGBA{180, 180, 180, 255}, rgb(t, opts.Output, 18, 0))

	// the north-west cell of the square around the point at (20, 20)
	tinted := rgb(t, opts.Output, 3, 14)
	assert.LessOrEqual(t, tinted.R, uint8(10))
	assert.LessOrEqual(t, tinted.G, uint8(20))
	assert.LessOrEqual(t, tinted.B, uint8(30))
	assert.Greater(t, tinted.B, tinted.R)

	_, err := os.Stat(filepath.Join(filepath.Dir(opts.Output), "relief.pgw"))
	assert.NoError(t, err)
	_, err = opts.Filesystem.Stat("scratch")
	assert.True(t, os.IsNotExist(err))

	meta, err := metajson.Read(opts.Metadata)
	require.NoError(t, err)
	assert.Equal(t, 20, meta.Width)
	assert.Equal(t, [4]float64{0, 0, 100, 100}, meta.Extent)
	require.Len(t, meta.Textures, 1)
	assert.Equal(t, "squares", meta.Textures[0].Kind)
	assert.Equal(t, "#0a141e", meta.Textures[0].Color)

	var stages []Stage
	for _, s := range rec.kinds(Info) {
		stages = append(stages, s.Stage)
	}
	assert.Equal(t, []Stage{Init, TexturesBuilt, Bumped, Shaded, Classified, Composited, CleanedUp}, stages)
	assert.Empty(t, rec.kinds(Error))
}

func TestRunIsIdempotent(t *testing.T) {
	run := func() []byte {
		opts := baseOptions(t, nil)
		d := fieldSquares()
		d.Params = texture.SquaresParams{Randomness: 0.8, Density: 15, Size: 10, Height: 5}
		cones := texture.Descriptor{
			Area:   aoi.FromGeometry("hills", square(40, 40, 100, 100)),
			ZIndex: 3,
			Color:  texture.Color{R: 90, G: 60, B: 30},
			Params: texture.ConesParams{Randomness: 0.5, Density: 12, Size: 10, Height: 3},
		}
		opts.Textures = []texture.Descriptor{d, cones}
		require.NoError(t, New(opts).Run(context.Background()))
		data, err := os.ReadFile(opts.Output)
		require.NoError(t, err)
		return data
	}
	assert.Equal(t, run(), run())
}

func TestDefaultColor(t *testing.T) {
	opts := baseOptions(t, nil)
	opts.DefaultColor = &texture.Color{R: 100, G: 50, B: 0}
	require.NoError(t, New(opts).Run(context.Background()))

	assert.Equal(t, color.RGBA{70, 35, 0, 255}, rgb(t, opts.Output, 0, 0))
	assert.Equal(t, color.RGBA{70, 35, 0, 255}, rgb(t, opts.Output, 19, 19))
}

func TestWithoutTexturesShowsHillshade(t *testing.T) {
	opts := baseOptions(t, nil)
	opts.CellSize = 10
	p := New(opts)
	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, 10.0, p.CellSize())
	assert.Equal(t, 100, p.Image().Bounds().Dx()*p.Image().Bounds().Dy())
	assert.Equal(t, color.RGBA{180, 180, 180, 255}, rgb(t, opts.Output, 5, 5))
}

func TestDegenerateTextureIsNotFatal(t *testing.T) {
	rec := &recorder{}
	opts := baseOptions(t, rec)
	outside := texture.Descriptor{
		Area:   aoi.FromGeometry("elsewhere", square(500, 500, 600, 600)),
		ZIndex: 1,
		Params: texture.SpheresParams{Density: 10, Size: 10},
	}
	opts.Textures = []texture.Descriptor{outside, fieldSquares()}

	p := New(opts)
	require.NoError(t, p.Run(context.Background()))

	warnings := rec.kinds(Warning)
	require.Len(t, warnings, 1)
	assert.Equal(t, TexturesBuilt, warnings[0].Stage)

	var degenerate *DegenerateGeometryError
	require.Len(t, p.Failures(), 1)
	assert.ErrorAs(t, p.Failures()[0], &degenerate)
	assert.ErrorIs(t, p.Failures()[0], texture.ErrDegenerate)
}

func TestMissingTerrainAborts(t *testing.T) {
	rec := &recorder{}
	opts := baseOptions(t, rec)
	opts.Terrain = filepath.Join(t.TempDir(), "missing.asc")

	p := New(opts)
	err := p.Run(context.Background())
	var resource *ResourceError
	require.ErrorAs(t, err, &resource)
	assert.Equal(t, "load terrain", resource.Op)
	assert.Equal(t, CleanedUp, p.Stage())

	require.Len(t, rec.kinds(Error), 1)
	assert.Equal(t, Init, rec.kinds(Error)[0].Stage)
	last := rec.statuses[len(rec.statuses)-1]
	assert.Equal(t, CleanedUp, last.Stage)
	_, statErr := os.Stat(opts.Output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestTextureFailureAbortsAndCleansUp(t *testing.T) {
	rec := &recorder{}
	opts := baseOptions(t, rec)
	opts.Textures = []texture.Descriptor{{
		Area:   aoi.FromGeometry("not a line", square(0, 0, 50, 50)),
		ZIndex: 1,
		Params: texture.LinesParams{Width: 5, Height: 1},
	}}

	err := New(opts).Run(context.Background())
	var compositing *CompositingError
	require.ErrorAs(t, err, &compositing)
	assert.True(t, strings.HasPrefix(compositing.Op, "generate lines"))

	_, statErr := opts.Filesystem.Stat("scratch")
	assert.True(t, os.IsNotExist(statErr))
	require.NotEmpty(t, rec.kinds(Error))
	for _, s := range rec.kinds(Error) {
		assert.Equal(t, TexturesBuilt, s.Stage)
	}
}

func TestLastThreeFailuresAreReported(t *testing.T) {
	rec := &recorder{}
	opts := baseOptions(t, rec)
	for i := 0; i < 3; i++ {
		opts.Textures = append(opts.Textures, texture.Descriptor{
			Name:   fmt.Sprint("empty", i),
			Area:   aoi.FromGeometry("elsewhere", square(500, 500, 600, 600)),
			Params: texture.ConesParams{Density: 10, Size: 10, Height: 1},
		})
	}
	opts.Textures = append(opts.Textures, texture.Descriptor{
		Area:   aoi.FromGeometry("polygon", square(0, 0, 50, 50)),
		Params: texture.LinesParams{Width: 5, Height: 1},
	})

	p := New(opts)
	require.Error(t, p.Run(context.Background()))

	errs := rec.kinds(Error)
	require.Len(t, errs, 3)
	assert.Contains(t, errs[0].Message, "empty1")
	assert.Contains(t, errs[1].Message, "empty2")
	assert.Contains(t, errs[2].Message, "generate lines")
}

func TestNoWorkerCapacity(t *testing.T) {
	held, err := capacity.acquire(capacity.size)
	require.NoError(t, err)
	defer capacity.release(held)

	rec := &recorder{}
	opts := baseOptions(t, rec)
	opts.Textures = []texture.Descriptor{fieldSquares()}
	p := New(opts)
	require.NoError(t, p.Run(context.Background()))

	var env *EnvironmentError
	require.NotEmpty(t, p.Failures())
	assert.ErrorAs(t, p.Failures()[0], &env)
	assert.Equal(t, Warning, rec.statuses[0].Kind)
}

func TestWorkersAreReleased(t *testing.T) {
	opts := baseOptions(t, nil)
	opts.Workers = capacity.size
	require.NoError(t, New(opts).Run(context.Background()))

	n, err := capacity.acquire(capacity.size)
	require.NoError(t, err)
	capacity.release(n)
}

func TestCancelledContext(t *testing.T) {
	opts := baseOptions(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := New(opts).Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestStageNames(t *testing.T) {
	assert.Equal(t, "textures built", TexturesBuilt.String())
	assert.Equal(t, "cleaned up", CleanedUp.String())
	assert.Equal(t, "warning", Warning.String())
}
