// Package texture turns areas of interest into relief patterns: squares,
// cones, spheres, plough furrows, buffered lines, noise and constant fills.
package texture

import (
	"errors"
	"fmt"

	"github.com/gruppe-adler/relief-utils/internal/aoi"
	"github.com/gruppe-adler/relief-utils/internal/grid"
)

// ErrDegenerate is returned together with an all NoData grid when a texture
// produced no pattern cells, e.g. because its area is empty or too small for
// a single point.
var ErrDegenerate = errors.New("texture produced no cells")

// Color is an 8 bit RGB triple.
type Color struct {
	R, G, B uint8
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Descriptor is the immutable definition of one texture.
type Descriptor struct {
	Name   string
	Area   *aoi.Source
	ZIndex int
	Color  Color
	Params Params
}

// Kind returns the kind of the descriptor's params.
func (d Descriptor) Kind() Kind {
	return d.Params.Kind()
}

// Texture is a descriptor plus everything derived from it during a run.
type Texture struct {
	Descriptor
	// Index is the position in the run's texture list. It selects the random
	// stream of noise textures.
	Index int

	// Output is the generated value grid.
	Output *grid.Grid
	// Landuse holds the texture index on every cell the texture occupies.
	Landuse *grid.Grid

	area *grid.Grid
}

// New creates a texture for d at list position index.
func New(d Descriptor, index int) *Texture {
	return &Texture{Descriptor: d, Index: index}
}

// CellSize is the cell size the texture prefers, or NoPreference.
func (t *Texture) CellSize() float64 {
	return t.Params.CellSize()
}

// Area returns the area of interest rasterized onto shape with value 1 on
// vector features. The result is cached per shape.
func (t *Texture) Area(shape grid.Shape) *grid.Grid {
	if t.area != nil && t.area.Shape.Equal(shape) {
		return t.area
	}
	t.area = t.Descriptor.Area.Rasterize(shape, 1)
	return t.area
}

// Release drops the cached grids.
func (t *Texture) Release() {
	t.area = nil
	t.Output = nil
	t.Landuse = nil
}

// String identifies the texture in status messages.
func (t *Texture) String() string {
	if t.Name != "" {
		return fmt.Sprintf("%s #%d (%s)", t.Kind(), t.Index, t.Name)
	}
	return fmt.Sprintf("%s #%d", t.Kind(), t.Index)
}

// Context holds what all textures of one run share.
type Context struct {
	Shape  grid.Shape
	XIndex *grid.Grid
	YIndex *grid.Grid
	Normal *grid.Grid
	Seed   uint64
}

// NewContext builds the shared index and normal grids for shape.
func NewContext(shape grid.Shape, seed uint64) Context {
	return Context{
		Shape:  shape,
		XIndex: grid.ColumnIndex(shape),
		YIndex: grid.RowIndex(shape),
		Normal: grid.Normal(shape, seed),
		Seed:   seed,
	}
}

// CellSize of the working grid.
func (ctx Context) CellSize() float64 {
	return ctx.Shape.CellSize
}

// ResolveCellSize returns the smallest preferred cell size of textures, or
// fallback when none has a preference.
func ResolveCellSize(textures []*Texture, fallback float64) float64 {
	cs := NoPreference
	for _, t := range textures {
		if v := t.CellSize(); v < cs {
			cs = v
		}
	}
	if cs == NoPreference {
		return fallback
	}
	return cs
}
