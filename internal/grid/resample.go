package grid

import (
	"math"

	"github.com/paulmach/orb"
)

// Nearest samples src onto the target shape using the value of the source
// cell containing each target cell centre.
func Nearest(src *Grid, target Shape) *Grid {
	if src.Shape.Equal(target) {
		return src.Clone()
	}
	out := New(target)
	for r := 0; r < target.Nrows; r++ {
		y := target.Y(r)
		for c := 0; c < target.Ncols; c++ {
			sc, sr, ok := src.Cell(target.X(c), y)
			if !ok {
				continue
			}
			out.Set(c, r, src.At(sc, sr))
		}
	}
	return out
}

// Bilinear samples src onto the target shape by bilinear interpolation
// between the four surrounding source cell centres. Where one of them is
// NoData the nearest source value is used instead.
func Bilinear(src *Grid, target Shape) *Grid {
	if src.Shape.Equal(target) {
		return src.Clone()
	}
	return Lattice{
		Ncols: src.Ncols, Nrows: src.Nrows,
		Xmin: src.Xmin, Ymin: src.Ymin,
		DX: src.CellSize, DY: src.CellSize,
		At: src.At,
	}.Bilinear(target)
}

// Lattice holds values at the centres of a regular lattice whose cells may
// be rectangular. Row 0 is the northernmost.
type Lattice struct {
	Ncols, Nrows int
	Xmin, Ymin   float64
	DX, DY       float64
	At           func(c, r int) float64
}

// Extent returns the outer bound of the lattice.
func (l Lattice) Extent() orb.Bound {
	return orb.Bound{
		Min: orb.Point{l.Xmin, l.Ymin},
		Max: orb.Point{l.Xmin + float64(l.Ncols)*l.DX, l.Ymin + float64(l.Nrows)*l.DY},
	}
}

// Bilinear samples the lattice onto the target shape the way the Bilinear
// function does for grids.
func (l Lattice) Bilinear(target Shape) *Grid {
	out := New(target)
	top := l.Ymin + float64(l.Nrows)*l.DY
	for r := 0; r < target.Nrows; r++ {
		y := target.Y(r)
		fr := (top-y)/l.DY - 0.5
		sr := int(math.Floor((top - y) / l.DY))
		if sr < 0 || sr >= l.Nrows {
			continue
		}
		for c := 0; c < target.Ncols; c++ {
			x := target.X(c)
			sc := int(math.Floor((x - l.Xmin) / l.DX))
			if sc < 0 || sc >= l.Ncols {
				continue
			}
			fc := (x-l.Xmin)/l.DX - 0.5

			c0 := clamp(int(math.Floor(fc)), 0, l.Ncols-1)
			r0 := clamp(int(math.Floor(fr)), 0, l.Nrows-1)
			c1 := clamp(c0+1, 0, l.Ncols-1)
			r1 := clamp(r0+1, 0, l.Nrows-1)
			tx := math.Max(0, math.Min(1, fc-float64(c0)))
			ty := math.Max(0, math.Min(1, fr-float64(r0)))

			v00, v10 := l.At(c0, r0), l.At(c1, r0)
			v01, v11 := l.At(c0, r1), l.At(c1, r1)
			if IsNoData(v00) || IsNoData(v10) || IsNoData(v01) || IsNoData(v11) {
				out.Set(c, r, l.At(sc, sr))
				continue
			}
			upper := v00*(1-tx) + v10*tx
			lower := v01*(1-tx) + v11*tx
			out.Set(c, r, upper*(1-ty)+lower*ty)
		}
	}
	return out
}
