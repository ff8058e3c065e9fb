package grid

import "math"

// edtInf stands in for "no source" in the squared distance transform; it has
// to stay finite so the parabola intersections remain well defined.
const edtInf = 1e20

// EuclideanDistance returns, for every cell, the straight line distance in
// map units to the nearest defined cell of src. Cells farther than maxDist
// become NoData; maxDist <= 0 disables the limit. When src has no defined
// cell the result is entirely NoData.
func EuclideanDistance(src *Grid, maxDist float64) *Grid {
	out := New(src.Shape)
	if src.IsEmpty() {
		return out
	}

	ncols, nrows := src.Ncols, src.Nrows
	sq := make([]float64, src.Len())
	for i, v := range src.Data {
		if IsNoData(v) {
			sq[i] = edtInf
		}
	}

	n := ncols
	if nrows > n {
		n = nrows
	}
	f := make([]float64, n)
	d := make([]float64, n)
	v := make([]int, n)
	z := make([]float64, n+1)

	// columns
	for c := 0; c < ncols; c++ {
		for r := 0; r < nrows; r++ {
			f[r] = sq[r*ncols+c]
		}
		edt1d(f[:nrows], d[:nrows], v, z)
		for r := 0; r < nrows; r++ {
			sq[r*ncols+c] = d[r]
		}
	}
	// rows
	for r := 0; r < nrows; r++ {
		copy(f[:ncols], sq[r*ncols:(r+1)*ncols])
		edt1d(f[:ncols], d[:ncols], v, z)
		copy(sq[r*ncols:], d[:ncols])
	}

	for i, s := range sq {
		if s >= edtInf {
			continue
		}
		dist := math.Sqrt(s) * src.CellSize
		if maxDist > 0 && dist > maxDist {
			continue
		}
		out.Data[i] = dist
	}
	return out
}

// edt1d is the one dimensional squared distance transform of Felzenszwalb and
// Huttenlocher: d[q] = min_p (q-p)^2 + f[p].
func edt1d(f, d []float64, v []int, z []float64) {
	n := len(f)
	if n == 0 {
		return
	}
	k := 0
	v[0] = 0
	z[0] = math.Inf(-1)
	z[1] = math.Inf(1)
	for q := 1; q < n; q++ {
		fq := f[q] + float64(q*q)
		s := (fq - (f[v[k]] + float64(v[k]*v[k]))) / float64(2*q-2*v[k])
		for s <= z[k] {
			k--
			s = (fq - (f[v[k]] + float64(v[k]*v[k]))) / float64(2*q-2*v[k])
		}
		k++
		v[k] = q
		z[k] = s
		z[k+1] = math.Inf(1)
	}
	k = 0
	for q := 0; q < n; q++ {
		for z[k+1] < float64(q) {
			k++
		}
		dq := float64(q - v[k])
		d[q] = dq*dq + f[v[k]]
	}
}
