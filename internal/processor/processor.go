// Package processor runs the relief pipeline: it resolves the cell size,
// generates the textures, bumps and shades the terrain, classifies land use
// and composites the final image.
package processor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"path/filepath"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	billy "gopkg.in/src-d/go-billy.v4"
	"gopkg.in/src-d/go-billy.v4/osfs"

	"github.com/gruppe-adler/relief-utils/internal/aoi"
	"github.com/gruppe-adler/relief-utils/internal/grid"
	"github.com/gruppe-adler/relief-utils/internal/imageio"
	"github.com/gruppe-adler/relief-utils/internal/metajson"
	"github.com/gruppe-adler/relief-utils/internal/terrain"
	"github.com/gruppe-adler/relief-utils/internal/terrainrgb"
	"github.com/gruppe-adler/relief-utils/internal/texture"
	"github.com/gruppe-adler/relief-utils/internal/workspace"
)

// failuresReported is how many recorded errors an aborted run reports.
const failuresReported = 3

// Options configure a run.
type Options struct {
	// Terrain is an ESRI ASCII grid or a TIN file.
	Terrain string
	// Output is the image path. Its extension selects the format.
	Output string
	// CellSize is used when no texture prefers a cell size.
	CellSize float64
	Light    grid.HillshadeParams
	// DefaultColor paints terrain no texture covers. Nil leaves such cells
	// plain hillshade.
	DefaultColor *texture.Color
	Seed         uint64
	Workers      int
	// Filesystem holds WorkspaceDir. When nil WorkspaceDir is a path on the
	// local disk.
	Filesystem   billy.Filesystem
	WorkspaceDir string

	WorldFile  bool
	TerrainRGB string
	Metadata   string

	Textures []texture.Descriptor

	Logger   *zap.Logger
	Reporter Reporter
}

// Processor executes one run. It is not safe for concurrent use.
type Processor struct {
	opts Options
	log  *zap.Logger

	stage    Stage
	cellSize float64
	workers  int
	acquired int

	textures []*texture.Texture
	terrain  *terrain.Terrain
	ws       *workspace.Workspace

	shape    grid.Shape
	combined *grid.Grid
	percent  *grid.Grid
	landuse  *grid.Grid
	image    *image.RGBA

	failures []error
	skipped  map[int]bool
}

// New prepares a run.
func New(opts Options) *Processor {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{opts: opts, log: log, skipped: map[int]bool{}}
}

// Stage is the last stage the run completed.
func (p *Processor) Stage() Stage {
	return p.stage
}

// CellSize is the resolved cell size.
func (p *Processor) CellSize() float64 {
	return p.cellSize
}

// Shape is the processing extent and cell size.
func (p *Processor) Shape() grid.Shape {
	return p.shape
}

// Image is the composited relief once the run succeeded.
func (p *Processor) Image() *image.RGBA {
	return p.image
}

// Failures returns every error recorded during the run, fatal or not.
func (p *Processor) Failures() []error {
	return append([]error(nil), p.failures...)
}

type step struct {
	stage Stage
	run   func(ctx context.Context) (string, error)
}

// Run executes the pipeline. Cleanup happens on every path; its errors are
// combined with the run error.
func (p *Processor) Run(ctx context.Context) (err error) {
	start := time.Now()
	failedAt := Init
	p.acquireWorkers()
	defer func() {
		if err != nil {
			p.reportFailures(failedAt)
		}
		err = multierr.Append(err, p.cleanup(start))
	}()

	steps := []step{
		{Init, p.init},
		{TexturesBuilt, p.buildTextures},
		{Bumped, p.bump},
		{Shaded, p.shade},
		{Classified, p.classify},
		{Composited, p.composite},
	}
	for _, s := range steps {
		failedAt = s.stage
		if err := ctx.Err(); err != nil {
			p.failures = append(p.failures, err)
			return err
		}
		timer := time.Now()
		msg, err := s.run(ctx)
		if err != nil {
			p.failures = append(p.failures, err)
			return err
		}
		p.stage = s.stage
		p.report(Status{Kind: Info, Stage: s.stage, Message: msg, Elapsed: time.Since(timer)})
	}
	return nil
}

func (p *Processor) acquireWorkers() {
	n, err := capacity.acquire(p.opts.Workers)
	if err != nil {
		p.workers = 1
		p.warn(Init, &EnvironmentError{Requested: p.opts.Workers, Err: err})
		return
	}
	p.workers, p.acquired = n, n
}

func (p *Processor) init(context.Context) (string, error) {
	p.textures = make([]*texture.Texture, len(p.opts.Textures))
	for i, d := range p.opts.Textures {
		p.textures[i] = texture.New(d, i)
	}
	p.cellSize = texture.ResolveCellSize(p.textures, p.opts.CellSize)
	p.log.Debug("resolved cell size", zap.Float64("cellSize", p.cellSize), zap.Int("textures", len(p.textures)))

	terr, err := terrain.Load(p.opts.Terrain, p.cellSize, p.opts.Light)
	if err != nil {
		return "", &ResourceError{Op: "load terrain", Err: err}
	}
	p.terrain = terr
	p.shape = terr.Shape()

	if p.opts.DefaultColor != nil {
		p.textures = append(p.textures, defaultTexture(terr, *p.opts.DefaultColor, len(p.textures)))
	}

	fs, dir, err := p.workspaceLocation()
	if err != nil {
		return "", &ResourceError{Op: "prepare workspace", Err: err}
	}
	ws, err := workspace.Open(fs, dir)
	if err != nil {
		return "", &ResourceError{Op: "prepare workspace", Err: err}
	}
	p.ws = ws

	return fmt.Sprintf("Resolved cell size %g for %d textures, terrain %s", p.cellSize, len(p.opts.Textures), p.shape), nil
}

func (p *Processor) workspaceLocation() (billy.Filesystem, string, error) {
	if p.opts.WorkspaceDir == "" {
		return nil, "", errors.New("no workspace directory")
	}
	if p.opts.Filesystem != nil {
		return p.opts.Filesystem, p.opts.WorkspaceDir, nil
	}
	abs, err := filepath.Abs(p.opts.WorkspaceDir)
	if err != nil {
		return nil, "", err
	}
	return osfs.New(filepath.Dir(abs)), filepath.Base(abs), nil
}

// defaultTexture covers every terrain cell with a zero bump in color c. It
// comes after all real textures so they win z-index ties.
func defaultTexture(terr *terrain.Terrain, c texture.Color, index int) *texture.Texture {
	area := aoi.FromGrid("terrain", grid.ReclassifyDefined(terr.Elevation, 0))
	return texture.New(texture.Descriptor{
		Name:   "default color",
		Area:   area,
		Color:  c,
		Params: texture.NullParams{Value: 0},
	}, index)
}

func (p *Processor) buildTextures(ctx context.Context) (string, error) {
	shared := texture.NewContext(p.shape, p.opts.Seed)
	degenerate := make([]error, len(p.textures))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, tex := range p.textures {
		g.Go(func() error {
			timer := time.Now()
			_, err := texture.Generate(shared, tex)
			switch {
			case errors.Is(err, texture.ErrDegenerate):
				degenerate[i] = err
			case err != nil:
				return &CompositingError{Op: "generate " + tex.String(), Err: err}
			}
			p.log.Debug("generated texture", zap.Stringer("texture", tex), zap.Duration("elapsed", time.Since(timer)))
			return nil
		})
	}
	err := g.Wait()

	for i, e := range degenerate {
		if e == nil {
			continue
		}
		p.skipped[i] = true
		p.warn(TexturesBuilt, &DegenerateGeometryError{Texture: p.textures[i].String(), Err: e})
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Built %d textures with %d workers", len(p.textures), p.workers), nil
}

func (p *Processor) bump(context.Context) (string, error) {
	combined, err := p.terrain.AddTextures(p.textures)
	if err != nil {
		return "", &CompositingError{Op: "merge bump map", Err: err}
	}
	p.combined = combined
	if err := p.save("bump", combined); err != nil {
		return "", err
	}
	return "Added texture bumps to terrain", nil
}

func (p *Processor) shade(context.Context) (string, error) {
	percent, err := p.terrain.HillshadeToPercent(p.combined)
	if err != nil {
		return "", &CompositingError{Op: "hillshade", Err: err}
	}
	p.percent = percent
	if err := p.save("hillshade", p.terrain.Hillshade()); err != nil {
		return "", err
	}
	return fmt.Sprintf("Shaded relief from azimuth %g altitude %g", p.opts.Light.Azimuth, p.opts.Light.Altitude), nil
}

func (p *Processor) classify(context.Context) (string, error) {
	landuse, err := Landuse(p.shape, p.textures)
	if err != nil {
		return "", &CompositingError{Op: "merge land use", Err: err}
	}
	p.landuse = landuse
	if err := p.save("landuse", landuse); err != nil {
		return "", err
	}
	return fmt.Sprintf("Classified %d of %d cells", landuse.Defined(), landuse.Len()), nil
}

func (p *Processor) composite(context.Context) (string, error) {
	channels, err := Channels(p.landuse, p.percent, p.terrain.Hillshade(), p.textures)
	if err != nil {
		return "", &CompositingError{Op: "composite colors", Err: err}
	}
	p.image = Stack(channels)

	if err := imageio.Write(p.opts.Output, p.image); err != nil {
		return "", &ResourceError{Op: "write image", Err: err}
	}
	if p.opts.WorldFile {
		if err := imageio.WriteWorldFile(p.opts.Output, p.shape); err != nil {
			return "", &ResourceError{Op: "write world file", Err: err}
		}
	}
	if p.opts.TerrainRGB != "" {
		if err := imageio.Write(p.opts.TerrainRGB, terrainrgb.Encode(p.combined)); err != nil {
			return "", &ResourceError{Op: "write terrain rgb", Err: err}
		}
	}
	if p.opts.Metadata != "" {
		if err := metajson.Write(p.opts.Metadata, p.metadata()); err != nil {
			return "", &ResourceError{Op: "write metadata", Err: err}
		}
	}
	b := p.image.Bounds()
	return fmt.Sprintf("Wrote %dx%d image to %s", b.Dx(), b.Dy(), p.opts.Output), nil
}

func (p *Processor) metadata() metajson.MetaJSON {
	ext := p.shape.Extent()
	meta := metajson.MetaJSON{
		Image:    filepath.Base(p.opts.Output),
		Terrain:  p.opts.Terrain,
		CellSize: p.cellSize,
		Width:    p.shape.Ncols,
		Height:   p.shape.Nrows,
		Extent:   [4]float64{ext.Min[0], ext.Min[1], ext.Max[0], ext.Max[1]},
		Seed:     p.opts.Seed,
		Light: metajson.Light{
			Azimuth:  p.opts.Light.Azimuth,
			Altitude: p.opts.Light.Altitude,
			ZFactor:  p.opts.Light.ZFactor,
			Shadows:  p.opts.Light.Shadows,
		},
	}
	for i, tex := range p.textures {
		entry := metajson.Texture{
			Name:       tex.Name,
			Kind:       tex.Kind().String(),
			ZIndex:     tex.ZIndex,
			Color:      tex.Color.String(),
			Degenerate: p.skipped[i],
		}
		if cs := tex.CellSize(); !math.IsInf(cs, 1) {
			entry.CellSize = cs
		}
		meta.Textures = append(meta.Textures, entry)
	}
	return meta
}

func (p *Processor) save(name string, g *grid.Grid) error {
	if err := p.ws.SaveGrid(name, g); err != nil {
		return &ResourceError{Op: "save " + name, Err: err}
	}
	return nil
}

func (p *Processor) cleanup(start time.Time) error {
	var err error
	if p.ws != nil {
		if e := p.ws.Close(); e != nil {
			err = &ResourceError{Op: "remove workspace", Err: e}
		}
		p.ws = nil
	}
	for _, tex := range p.textures {
		tex.Release()
	}
	if p.terrain != nil {
		p.terrain.Release()
	}
	p.combined, p.percent, p.landuse = nil, nil, nil

	capacity.release(p.acquired)
	p.acquired = 0

	p.stage = CleanedUp
	if err != nil {
		p.failures = append(p.failures, err)
		p.report(Status{Kind: Error, Stage: CleanedUp, Message: err.Error()})
	}
	p.report(Status{Kind: Info, Stage: CleanedUp, Message: "Cleaned up", Elapsed: time.Since(start)})
	return err
}

func (p *Processor) warn(stage Stage, err error) {
	p.failures = append(p.failures, err)
	p.report(Status{Kind: Warning, Stage: stage, Message: err.Error()})
}

// reportFailures reports the most recent failures against the stage the run
// failed to reach.
func (p *Processor) reportFailures(stage Stage) {
	last := p.failures[max(0, len(p.failures)-failuresReported):]
	for _, err := range last {
		p.report(Status{Kind: Error, Stage: stage, Message: err.Error()})
	}
}

func (p *Processor) report(s Status) {
	fields := []zap.Field{zap.Stringer("stage", s.Stage), zap.Duration("elapsed", s.Elapsed)}
	switch s.Kind {
	case Error:
		p.log.Error(s.Message, fields...)
	case Warning:
		p.log.Warn(s.Message, fields...)
	default:
		p.log.Info(s.Message, fields...)
	}
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(s)
	}
}
