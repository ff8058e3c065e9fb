package dem

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/paulmach/orb"

	"github.com/gruppe-adler/relief-utils/internal/grid"
)

// TIN is a triangulated irregular network: mass points and the triangles
// connecting them.
type TIN struct {
	Points    [][3]float64 `json:"points"`
	Triangles [][3]int     `json:"triangles"`
}

// IsTINPath reports whether path names a TIN file.
func IsTINPath(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".tin.json")
}

// ReadTIN loads a TIN from a JSON file.
func ReadTIN(path string) (*TIN, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tin TIN
	if err := json.Unmarshal(data, &tin); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := tin.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &tin, nil
}

func (tin *TIN) validate() error {
	if len(tin.Triangles) == 0 {
		return fmt.Errorf("TIN has no triangles")
	}
	for i, t := range tin.Triangles {
		for _, idx := range t {
			if idx < 0 || idx >= len(tin.Points) {
				return fmt.Errorf("triangle %d references missing point %d", i, idx)
			}
		}
	}
	return nil
}

// Bound returns the planar bound of all points.
func (tin *TIN) Bound() orb.Bound {
	b := orb.Bound{Min: orb.Point{math.Inf(1), math.Inf(1)}, Max: orb.Point{math.Inf(-1), math.Inf(-1)}}
	for _, p := range tin.Points {
		b = b.Extend(orb.Point{p[0], p[1]})
	}
	return b
}

// Rasterize interpolates the TIN linearly onto a grid with the given cell
// size covering its bound. Cells outside every triangle are NoData.
func (tin *TIN) Rasterize(cellSize float64) *grid.Grid {
	g := grid.New(grid.ShapeFromBound(tin.Bound(), cellSize))

	for _, t := range tin.Triangles {
		a, b, c := tin.Points[t[0]], tin.Points[t[1]], tin.Points[t[2]]
		det := (b[1]-c[1])*(a[0]-c[0]) + (c[0]-b[0])*(a[1]-c[1])
		if det == 0 {
			continue
		}

		tb := orb.Bound{Min: orb.Point{a[0], a[1]}, Max: orb.Point{a[0], a[1]}}.
			Extend(orb.Point{b[0], b[1]}).
			Extend(orb.Point{c[0], c[1]})
		c0, r1, _ := g.Cell(tb.Min[0], tb.Min[1])
		c1, r0, _ := g.Cell(tb.Max[0], tb.Max[1])

		for r := max(r0, 0); r <= min(r1, g.Nrows-1); r++ {
			y := g.Y(r)
			for col := max(c0, 0); col <= min(c1, g.Ncols-1); col++ {
				x := g.X(col)
				l1 := ((b[1]-c[1])*(x-c[0]) + (c[0]-b[0])*(y-c[1])) / det
				l2 := ((c[1]-a[1])*(x-c[0]) + (a[0]-c[0])*(y-c[1])) / det
				l3 := 1 - l1 - l2
				const eps = -1e-9
				if l1 < eps || l2 < eps || l3 < eps {
					continue
				}
				g.Set(col, r, l1*a[2]+l2*b[2]+l3*c[2])
			}
		}
	}

	return g
}
