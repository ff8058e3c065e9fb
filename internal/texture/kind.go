package texture

import (
	"fmt"
	"math"
	"strings"
)

// Kind names a texture generator.
type Kind int

// Texture kinds.
const (
	Squares Kind = iota
	Cones
	Spheres
	Plough
	Lines
	Noise
	Null
)

var kindNames = [...]string{"squares", "cones", "spheres", "plough", "lines", "noise", "null"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind parses a kind name, case insensitive.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown texture kind %q", s)
}

// NoPreference is the cell size reported by textures that work at any
// resolution. It is larger than every real cell size.
var NoPreference = math.Inf(1)

// Params holds the kind specific parameters of a texture. The set of
// implementations is closed.
type Params interface {
	Kind() Kind
	// CellSize returns the cell size the texture needs to render its pattern
	// or NoPreference.
	CellSize() float64
	sealed()
}

// SquaresParams describe a field of flat topped squares.
type SquaresParams struct {
	Randomness float64
	Density    float64
	Size       float64
	Height     float64
}

// ConesParams describe a field of cones.
type ConesParams struct {
	Randomness float64
	Density    float64
	Size       float64
	Height     float64
}

// SpheresParams describe a field of hemispheres.
type SpheresParams struct {
	Randomness float64
	Density    float64
	Size       float64
}

// PloughParams describe parallel furrows Interval map units apart, turned
// Angle degrees clockwise from the y axis.
type PloughParams struct {
	Interval float64
	Angle    float64
}

// LinesParams describe buffered polylines.
type LinesParams struct {
	Width  float64
	Height float64
}

// NoiseParams describe uniform random integers in [Min, Max].
type NoiseParams struct {
	Min int
	Max int
}

// NullParams fill the area with a constant.
type NullParams struct {
	Value float64
}

func (SquaresParams) Kind() Kind { return Squares }
func (ConesParams) Kind() Kind   { return Cones }
func (SpheresParams) Kind() Kind { return Spheres }
func (PloughParams) Kind() Kind  { return Plough }
func (LinesParams) Kind() Kind   { return Lines }
func (NoiseParams) Kind() Kind   { return Noise }
func (NullParams) Kind() Kind    { return Null }

func (p SquaresParams) CellSize() float64 { return p.Size / 2 }
func (p ConesParams) CellSize() float64   { return round2(p.Size / 11) }
func (p SpheresParams) CellSize() float64 { return round2(p.Size / 11) }
func (p PloughParams) CellSize() float64  { return round2(p.Interval * 2.5 / 11) }
func (p LinesParams) CellSize() float64   { return round2(p.Width / 2) }
func (NoiseParams) CellSize() float64     { return NoPreference }
func (NullParams) CellSize() float64      { return NoPreference }

func (SquaresParams) sealed() {}
func (ConesParams) sealed()   {}
func (SpheresParams) sealed() {}
func (PloughParams) sealed()  {}
func (LinesParams) sealed()   {}
func (NoiseParams) sealed()   {}
func (NullParams) sealed()    {}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
