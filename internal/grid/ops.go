package grid

import (
	"errors"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrNothingToMerge is returned by MergeByPriority when there are no layers.
var ErrNothingToMerge = errors.New("no grids to merge")

// Stats returns the minimum and maximum of the defined cells. ok is false
// when the grid holds no value at all.
func (g *Grid) Stats() (min, max float64, ok bool) {
	values := make([]float64, 0, len(g.Data))
	for _, v := range g.Data {
		if !IsNoData(v) {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return 0, 0, false
	}
	return floats.Min(values), floats.Max(values), true
}

// Map applies f to every defined cell. NoData stays NoData.
func Map(g *Grid, f func(v float64) float64) *Grid {
	out := New(g.Shape)
	for i, v := range g.Data {
		if IsNoData(v) {
			continue
		}
		out.Data[i] = f(v)
	}
	return out
}

// Combine applies f cell by cell to two grids of the same shape. A cell is
// NoData when either input is NoData there.
func Combine(a, b *Grid, f func(x, y float64) float64) (*Grid, error) {
	if err := sameShape(a, b); err != nil {
		return nil, err
	}
	out := New(a.Shape)
	for i := range a.Data {
		x, y := a.Data[i], b.Data[i]
		if IsNoData(x) || IsNoData(y) {
			continue
		}
		out.Data[i] = f(x, y)
	}
	return out, nil
}

// Mask keeps the values of g where mask is defined and non zero.
func Mask(g, mask *Grid) (*Grid, error) {
	if err := sameShape(g, mask); err != nil {
		return nil, err
	}
	out := New(g.Shape)
	for i, m := range mask.Data {
		if IsNoData(m) || m == 0 {
			continue
		}
		out.Data[i] = g.Data[i]
	}
	return out, nil
}

// Truncate drops the fractional part of every defined cell.
func Truncate(g *Grid) *Grid {
	return Map(g, math.Trunc)
}

// Remap maps the closed interval [From, To] to Value.
type Remap struct {
	From, To float64
	Value    float64
}

// Reclassify maps every defined cell through the first matching range.
// Cells matching no range become NoData.
func Reclassify(g *Grid, ranges ...Remap) *Grid {
	out := New(g.Shape)
	for i, v := range g.Data {
		if IsNoData(v) {
			continue
		}
		for _, rm := range ranges {
			if v >= rm.From && v <= rm.To {
				out.Data[i] = rm.Value
				break
			}
		}
	}
	return out
}

// ReclassifyDefined maps every defined cell to value.
func ReclassifyDefined(g *Grid, value float64) *Grid {
	min, max, ok := g.Stats()
	if !ok {
		return New(g.Shape)
	}
	return Reclassify(g, Remap{From: min, To: max, Value: value})
}

// ReclassifyValues maps integer cell values through table. Cells whose
// value is missing from the table become NoData.
func ReclassifyValues(g *Grid, table map[int]float64) *Grid {
	out := New(g.Shape)
	for i, v := range g.Data {
		if IsNoData(v) {
			continue
		}
		if mapped, ok := table[int(math.Round(v))]; ok {
			out.Data[i] = mapped
		}
	}
	return out
}

// Prioritized is a grid taking part in MergeByPriority.
type Prioritized struct {
	Grid     *Grid
	Priority int
}

// MergeByPriority mosaics the layers so that on overlapping cells the value
// of the highest priority layer wins. Layers with equal priority keep their
// input order: the earlier one wins.
func MergeByPriority(layers []Prioritized) (*Grid, error) {
	if len(layers) == 0 {
		return nil, ErrNothingToMerge
	}
	ordered := make([]Prioritized, len(layers))
	copy(ordered, layers)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})

	out := New(ordered[0].Grid.Shape)
	for _, l := range ordered {
		if err := sameShape(out, l.Grid); err != nil {
			return nil, err
		}
		for i, v := range l.Grid.Data {
			if IsNoData(v) || !IsNoData(out.Data[i]) {
				continue
			}
			out.Data[i] = v
		}
	}
	return out, nil
}

// ColumnIndex returns a grid counting columns from west to east, starting at 0.
func ColumnIndex(s Shape) *Grid {
	g := New(s)
	for r := 0; r < s.Nrows; r++ {
		for c := 0; c < s.Ncols; c++ {
			g.Set(c, r, float64(c))
		}
	}
	return g
}

// RowIndex returns a grid counting rows from south to north, starting at 0.
func RowIndex(s Shape) *Grid {
	g := New(s)
	for r := 0; r < s.Nrows; r++ {
		for c := 0; c < s.Ncols; c++ {
			g.Set(c, r, float64(s.Nrows-1-r))
		}
	}
	return g
}

// Normal returns a grid of independent standard normal values. The same seed
// always yields the same grid.
func Normal(s Shape, seed uint64) *Grid {
	dist := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}
	g := New(s)
	for i := range g.Data {
		g.Data[i] = dist.Rand()
	}
	return g
}

// FocalMean replaces each cell with the mean of the defined cells in a
// size x size window around it. The window spans offsets -(size-1)/2 to
// size/2 on both axes. Cells whose window holds no value stay NoData.
func FocalMean(g *Grid, size int) *Grid {
	if size < 1 {
		size = 1
	}
	lo := -(size - 1) / 2
	hi := size / 2

	// summed area tables over value and count, padded by one row and column
	w := g.Ncols + 1
	sum := make([]float64, w*(g.Nrows+1))
	cnt := make([]float64, w*(g.Nrows+1))
	for r := 0; r < g.Nrows; r++ {
		for c := 0; c < g.Ncols; c++ {
			v := g.At(c, r)
			s, n := 0.0, 0.0
			if !IsNoData(v) {
				s, n = v, 1
			}
			i := (r+1)*w + c + 1
			sum[i] = s + sum[i-1] + sum[i-w] - sum[i-w-1]
			cnt[i] = n + cnt[i-1] + cnt[i-w] - cnt[i-w-1]
		}
	}
	area := func(t []float64, c0, r0, c1, r1 int) float64 {
		return t[(r1+1)*w+c1+1] - t[r0*w+c1+1] - t[(r1+1)*w+c0] + t[r0*w+c0]
	}

	out := New(g.Shape)
	for r := 0; r < g.Nrows; r++ {
		r0, r1 := clamp(r+lo, 0, g.Nrows-1), clamp(r+hi, 0, g.Nrows-1)
		for c := 0; c < g.Ncols; c++ {
			c0, c1 := clamp(c+lo, 0, g.Ncols-1), clamp(c+hi, 0, g.Ncols-1)
			n := area(cnt, c0, r0, c1, r1)
			if n == 0 {
				continue
			}
			out.Set(c, r, area(sum, c0, r0, c1, r1)/n)
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
