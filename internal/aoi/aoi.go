// Package aoi loads the areas of interest textures apply to and turns them
// into grids on the working extent.
package aoi

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"

	"github.com/gruppe-adler/relief-utils/internal/dem"
	"github.com/gruppe-adler/relief-utils/internal/grid"
)

// Source is an area of interest backed either by vector features or by a
// grid.
type Source struct {
	Path     string
	features []orb.Geometry
	raster   *grid.Grid
}

// FromGeometry wraps in-memory vector features.
func FromGeometry(name string, geometries ...orb.Geometry) *Source {
	s := &Source{Path: name}
	for _, g := range geometries {
		s.features = append(s.features, flatten(g)...)
	}
	return s
}

// FromGrid wraps an in-memory grid.
func FromGrid(name string, g *grid.Grid) *Source {
	return &Source{Path: name, raster: g}
}

// Open loads the source at path. Supported are GeoJSON (.geojson,
// .geojson.gz, .json), ESRI shapefiles (.shp) and ESRI ASCII grids (.asc,
// .asc.gz).
func Open(path string) (*Source, error) {
	p := strings.ToLower(path)
	switch {
	case dem.IsRasterPath(p):
		g, err := dem.ReadGrid(path)
		if err != nil {
			return nil, err
		}
		return FromGrid(path, g), nil
	case strings.HasSuffix(p, ".shp"):
		geometries, err := readShapefile(path)
		if err != nil {
			return nil, err
		}
		return FromGeometry(path, geometries...), nil
	case strings.HasSuffix(p, ".geojson"), strings.HasSuffix(p, ".geojson.gz"), strings.HasSuffix(p, ".json"):
		geometries, err := readGeoJSON(path)
		if err != nil {
			return nil, err
		}
		return FromGeometry(path, geometries...), nil
	}
	return nil, fmt.Errorf("%s: unsupported area of interest format", path)
}

// IsSupportedPath reports whether Open understands the file extension.
func IsSupportedPath(path string) bool {
	p := strings.ToLower(path)
	return dem.IsRasterPath(p) || strings.HasSuffix(p, ".shp") ||
		strings.HasSuffix(p, ".geojson") || strings.HasSuffix(p, ".geojson.gz") ||
		strings.HasSuffix(p, ".json")
}

// IsVector reports whether the source holds vector features.
func (s *Source) IsVector() bool {
	return s.raster == nil
}

// IsPolyline reports whether the source consists of line features only.
func (s *Source) IsPolyline() bool {
	if !s.IsVector() || len(s.features) == 0 {
		return false
	}
	for _, f := range s.features {
		if _, ok := f.(orb.LineString); !ok {
			return false
		}
	}
	return true
}

// Bound returns the extent of the source.
func (s *Source) Bound() orb.Bound {
	if s.raster != nil {
		return s.raster.Extent()
	}
	if len(s.features) == 0 {
		return orb.Bound{}
	}
	b := s.features[0].Bound()
	for _, f := range s.features[1:] {
		b = b.Union(f.Bound())
	}
	return b
}

// Rasterize converts the source into a grid of the given shape. Vector
// features are burned in with value: polygons cover the cells whose centre
// they contain, lines the cells they cross and points the cell they fall
// in. Grid sources keep their own values and are sampled nearest neighbour.
func (s *Source) Rasterize(shape grid.Shape, value float64) *grid.Grid {
	if s.raster != nil {
		return grid.Nearest(s.raster, shape)
	}

	out := grid.New(shape)
	for _, f := range s.features {
		switch g := f.(type) {
		case orb.Polygon:
			burnPolygon(out, g, value)
		case orb.LineString:
			burnLine(out, g, shape.CellSize/2, value)
		case orb.Point:
			if c, r, ok := shape.Cell(g[0], g[1]); ok {
				out.Set(c, r, value)
			}
		}
	}
	return out
}

// Buffer burns value into every cell whose centre lies within radius of a
// line feature, giving round caps and joins.
func (s *Source) Buffer(shape grid.Shape, radius, value float64) (*grid.Grid, error) {
	if !s.IsPolyline() {
		return nil, fmt.Errorf("%s: buffering needs a polyline source", s.Path)
	}
	out := grid.New(shape)
	for _, f := range s.features {
		burnLine(out, f.(orb.LineString), radius, value)
	}
	return out, nil
}

// flatten splits multi geometries and collections into polygons, line
// strings and points.
func flatten(g orb.Geometry) []orb.Geometry {
	switch g := g.(type) {
	case orb.Point, orb.LineString, orb.Polygon:
		return []orb.Geometry{g}
	case orb.MultiPoint:
		out := make([]orb.Geometry, len(g))
		for i, p := range g {
			out[i] = p
		}
		return out
	case orb.MultiLineString:
		out := make([]orb.Geometry, len(g))
		for i, l := range g {
			out[i] = l
		}
		return out
	case orb.Ring:
		return []orb.Geometry{orb.Polygon{g}}
	case orb.MultiPolygon:
		out := make([]orb.Geometry, len(g))
		for i, p := range g {
			out[i] = p
		}
		return out
	case orb.Bound:
		return []orb.Geometry{g.ToPolygon()}
	case orb.Collection:
		var out []orb.Geometry
		for _, c := range g {
			out = append(out, flatten(c)...)
		}
		return out
	}
	return nil
}
