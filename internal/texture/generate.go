package texture

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/gruppe-adler/relief-utils/internal/grid"
)

// ploughRandomness is the jitter applied to furrow points.
const ploughRandomness = 0.4

// Generate renders t onto ctx.Shape. When the result holds no defined cell
// the all NoData grid is returned together with ErrDegenerate.
func Generate(ctx Context, t *Texture) (*grid.Grid, error) {
	var (
		out *grid.Grid
		err error
	)
	switch p := t.Params.(type) {
	case SquaresParams:
		out, err = squares(ctx, t, p)
	case ConesParams:
		out, err = cones(ctx, t, p)
	case SpheresParams:
		out, err = spheres(ctx, t, p)
	case PloughParams:
		out, err = plough(ctx, t, p)
	case LinesParams:
		out, err = lines(ctx, t, p)
	case NoiseParams:
		out, err = noise(ctx, t, p)
	case NullParams:
		out = null(ctx, t, p)
	default:
		return nil, fmt.Errorf("unsupported texture params %T", t.Params)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t, err)
	}
	t.Output = out
	if out.IsEmpty() {
		return out, ErrDegenerate
	}
	return out, nil
}

func points(ctx Context, t *Texture, randomness, density float64) (*grid.Grid, error) {
	return PointField(t.Area(ctx.Shape), ctx.XIndex, ctx.YIndex, ctx.Normal, randomness, density)
}

func squares(ctx Context, t *Texture, p SquaresParams) (*grid.Grid, error) {
	pts, err := points(ctx, t, p.Randomness, p.Density)
	if err != nil {
		return nil, err
	}
	r := p.Size / 2
	w := max(1, int(math.Round(2*r/ctx.CellSize())))
	mean := grid.FocalMean(pts, w)
	return grid.Map(mean, func(v float64) float64 { return v * p.Height }), nil
}

func cones(ctx Context, t *Texture, p ConesParams) (*grid.Grid, error) {
	pts, err := points(ctx, t, p.Randomness, p.Density)
	if err != nil {
		return nil, err
	}
	dist := grid.EuclideanDistance(pts, p.Size/2)
	_, maxDist, ok := dist.Stats()
	if !ok {
		return dist, nil
	}
	if maxDist == 0 {
		return grid.Map(dist, func(float64) float64 { return p.Height }), nil
	}
	scale := maxDist / p.Height
	return grid.Map(dist, func(d float64) float64 { return (maxDist - d) / scale }), nil
}

func spheres(ctx Context, t *Texture, p SpheresParams) (*grid.Grid, error) {
	pts, err := points(ctx, t, p.Randomness, p.Density)
	if err != nil {
		return nil, err
	}
	return sphereProfile(pts, p.Size/2), nil
}

// sphereProfile raises a hemisphere of radius r on every defined cell of pts
// and rescales the observed heights to [0, 2r].
func sphereProfile(pts *grid.Grid, r float64) *grid.Grid {
	dist := grid.EuclideanDistance(pts, r)
	h := grid.Map(dist, func(d float64) float64 {
		return math.Sqrt(math.Max(0, r*r-d*d))
	})
	lo, hi, ok := h.Stats()
	if !ok {
		return h
	}
	if hi == lo {
		return grid.Map(h, func(float64) float64 { return 2 * r })
	}
	scale := 2 * r / (hi - lo)
	return grid.Map(h, func(v float64) float64 { return (v - lo) * scale })
}

func plough(ctx Context, t *Texture, p PloughParams) (*grid.Grid, error) {
	if p.Interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %g", p.Interval)
	}
	area := t.Area(ctx.Shape)
	r := 1.25 * p.Interval

	helper := rotationShape(ctx.Shape)
	xIndex := grid.ColumnIndex(helper)
	normal := grid.Normal(helper, ctx.Seed^uint64(t.Index+1)*0xbf58476d1ce4e5b9)
	// the x index on both axes turns the lattice into lines of points
	pts, err := PointField(grid.Fill(helper, 1), xIndex, xIndex, normal, ploughRandomness, p.Interval)
	if err != nil {
		return nil, err
	}

	rotated := grid.Rotate(pts, ctx.Shape, p.Angle, ctx.Shape.Center())
	cropped, err := grid.Mask(rotated, area)
	if err != nil {
		return nil, err
	}
	profile := grid.Map(sphereProfile(cropped, r), func(v float64) float64 { return -v / (2 * r) })
	return grid.Mask(profile, area)
}

// rotationShape returns a grid aligned with s that is centred on it and at
// least as wide and tall as the diagonal of s, so any rotation of it about
// the centre still covers s.
func rotationShape(s grid.Shape) grid.Shape {
	ext := s.Extent()
	diag := math.Hypot(ext.Max[0]-ext.Min[0], ext.Max[1]-ext.Min[1])
	n := int(math.Ceil(diag / s.CellSize))
	padX := max(0, (n-s.Ncols+1)/2)
	padY := max(0, (n-s.Nrows+1)/2)
	return grid.Shape{
		Ncols:    s.Ncols + 2*padX,
		Nrows:    s.Nrows + 2*padY,
		Xmin:     s.Xmin - float64(padX)*s.CellSize,
		Ymin:     s.Ymin - float64(padY)*s.CellSize,
		CellSize: s.CellSize,
	}
}

func lines(ctx Context, t *Texture, p LinesParams) (*grid.Grid, error) {
	return t.Descriptor.Area.Buffer(ctx.Shape, p.Width/2, p.Height)
}

// noiseStream separates noise streams from other uses of the run seed.
const noiseStream = 0x6e6f697365

func noise(ctx Context, t *Texture, p NoiseParams) (*grid.Grid, error) {
	if p.Max < p.Min {
		return nil, fmt.Errorf("noise max %d is below min %d", p.Max, p.Min)
	}
	rng := rand.New(rand.NewPCG(ctx.Seed, noiseStream+uint64(t.Index)))
	n := p.Max - p.Min + 1
	values := grid.New(ctx.Shape)
	for i := range values.Data {
		values.Data[i] = float64(p.Min + rng.IntN(n))
	}
	return grid.Mask(values, t.Area(ctx.Shape))
}

func null(ctx Context, t *Texture, p NullParams) *grid.Grid {
	return grid.ReclassifyDefined(t.Area(ctx.Shape), p.Value)
}
