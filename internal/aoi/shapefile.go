package aoi

import (
	"fmt"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// readShapefile reads every shape of an ESRI shapefile.
func readShapefile(path string) ([]orb.Geometry, error) {
	decoder, err := shp.NewDecoder(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer decoder.Close()

	var geometries []orb.Geometry
	for {
		g, _, more := decoder.DecodeRowFields()
		if !more {
			break
		}
		if o := toOrb(g); o != nil {
			geometries = append(geometries, o)
		}
	}
	if err := decoder.Error(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return geometries, nil
}

func toOrb(g geom.Geom) orb.Geometry {
	switch g := any(g).(type) {
	case geom.Point:
		return orb.Point{g.X, g.Y}
	case geom.MultiPoint:
		mp := make(orb.MultiPoint, len(g))
		for i, p := range g {
			mp[i] = orb.Point{p.X, p.Y}
		}
		return mp
	case geom.LineString:
		return toLineString(g)
	case geom.MultiLineString:
		ml := make(orb.MultiLineString, len(g))
		for i, l := range g {
			ml[i] = toLineString(l)
		}
		return ml
	case geom.Polygon:
		mp := toPolygons(g)
		switch len(mp) {
		case 0:
			return nil
		case 1:
			return mp[0]
		}
		return mp
	case geom.MultiPolygon:
		var mp orb.MultiPolygon
		for _, p := range g {
			mp = append(mp, toPolygons(p)...)
		}
		if len(mp) == 0 {
			return nil
		}
		return mp
	}
	return nil
}

func toLineString(l geom.LineString) orb.LineString {
	ls := make(orb.LineString, len(l))
	for i, p := range l {
		ls[i] = orb.Point{p.X, p.Y}
	}
	return ls
}

// toPolygons splits the parts of a shapefile polygon record into polygons.
// A record lists all its outer rings (islands) and holes together, outer
// rings and holes wound in opposite directions. A hole joins the polygon
// whose outer ring contains it.
func toPolygons(p geom.Polygon) orb.MultiPolygon {
	var (
		mp    orb.MultiPolygon
		outer orb.Orientation
	)
rings:
	for _, path := range p {
		ring := toRing(path)
		if len(ring) < 4 {
			continue
		}
		o := ring.Orientation()
		if len(mp) == 0 {
			outer = o
		} else if o != outer {
			for i := len(mp) - 1; i >= 0; i-- {
				if planar.RingContains(mp[i][0], ring[0]) {
					mp[i] = append(mp[i], ring)
					continue rings
				}
			}
		}
		mp = append(mp, orb.Polygon{ring})
	}
	return mp
}

func toRing(path geom.Path) orb.Ring {
	ring := make(orb.Ring, len(path))
	for i, pt := range path {
		ring[i] = orb.Point{pt.X, pt.Y}
	}
	if len(ring) > 0 && !ring[0].Equal(ring[len(ring)-1]) {
		ring = append(ring, ring[0])
	}
	return ring
}
