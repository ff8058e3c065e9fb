package grid

import "math"

// HillshadeParams describe the light source of a hillshade.
type HillshadeParams struct {
	// Azimuth is the compass direction of the light in degrees, clockwise from north.
	Azimuth float64
	// Altitude is the angle of the light above the horizon in degrees.
	Altitude float64
	// ZFactor converts elevation units to map units.
	ZFactor float64
	// Shadows turns on cast shadows.
	Shadows bool
}

// Hillshade derives the illumination (0-255, integer valued) of every
// defined cell of dem using the 3x3 Horn gradient. Missing neighbours are
// replaced by the centre cell.
func Hillshade(dem *Grid, p HillshadeParams) *Grid {
	zf := p.ZFactor
	if zf == 0 {
		zf = 1
	}
	zenith := (90 - p.Altitude) * math.Pi / 180
	azimuth := 360 - p.Azimuth + 90
	if azimuth >= 360 {
		azimuth -= 360
	}
	azimuth = azimuth * math.Pi / 180
	cosZen, sinZen := math.Cos(zenith), math.Sin(zenith)

	out := New(dem.Shape)
	cs := dem.CellSize
	for r := 0; r < dem.Nrows; r++ {
		for c := 0; c < dem.Ncols; c++ {
			e := dem.At(c, r)
			if IsNoData(e) {
				continue
			}
			n := func(dc, dr int) float64 {
				cc, rr := c+dc, r+dr
				if cc < 0 || rr < 0 || cc >= dem.Ncols || rr >= dem.Nrows {
					return e
				}
				v := dem.At(cc, rr)
				if IsNoData(v) {
					return e
				}
				return v
			}
			a, b, cc := n(-1, -1), n(0, -1), n(1, -1)
			d, f := n(-1, 0), n(1, 0)
			g, h, i := n(-1, 1), n(0, 1), n(1, 1)

			dzdx := ((cc + 2*f + i) - (a + 2*d + g)) / (8 * cs)
			dzdy := ((g + 2*h + i) - (a + 2*b + cc)) / (8 * cs)
			slope := math.Atan(zf * math.Hypot(dzdx, dzdy))

			var aspect float64
			switch {
			case dzdx != 0:
				aspect = math.Atan2(dzdy, -dzdx)
				if aspect < 0 {
					aspect += 2 * math.Pi
				}
			case dzdy > 0:
				aspect = math.Pi / 2
			case dzdy < 0:
				aspect = 2*math.Pi - math.Pi/2
			}

			hs := 255 * (cosZen*math.Cos(slope) + sinZen*math.Sin(slope)*math.Cos(azimuth-aspect))
			if hs < 0 {
				hs = 0
			}
			out.Set(c, r, math.Round(hs))
		}
	}

	if p.Shadows {
		castShadows(dem, out, p, zf)
	}
	return out
}

// castShadows zeroes every cell from which the light source is hidden by
// higher terrain along the azimuth.
func castShadows(dem, hs *Grid, p HillshadeParams, zf float64) {
	_, maxElev, ok := dem.Stats()
	if !ok {
		return
	}
	tanAlt := math.Tan(p.Altitude * math.Pi / 180)
	sinAz, cosAz := math.Sincos(p.Azimuth * math.Pi / 180)
	cs := dem.CellSize

	for r := 0; r < dem.Nrows; r++ {
		for c := 0; c < dem.Ncols; c++ {
			z0 := dem.At(c, r)
			if IsNoData(z0) {
				continue
			}
			x, y := dem.X(c), dem.Y(r)
			for t := cs; ; t += cs {
				rise := t * tanAlt
				if rise > zf*(maxElev-z0) {
					break
				}
				sc, sr, ok := dem.Cell(x+t*sinAz, y+t*cosAz)
				if !ok {
					break
				}
				z := dem.At(sc, sr)
				if !IsNoData(z) && zf*(z-z0) > rise {
					hs.Set(c, r, 0)
					break
				}
			}
		}
	}
}
