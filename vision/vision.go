// Package vision computes the ground coverage cone of a watchtower camera
// for map overlay. Everything here is a pure transform over the inputs: no
// I/O, no stored state, safe to call from any goroutine.
package vision

import (
	"errors"
	"fmt"
	"math"

	"go-firewatch/types"
)

// ErrInvalidGeometryInput flags non-finite or out-of-domain numeric input.
// The only inputs silently adjusted are the azimuth (modulo 360) and the
// opening angle floor at one degree; everything else fails fast.
var ErrInvalidGeometryInput = errors.New("invalid geometry input")

const earthRadiusKM = 6371.0

// NarrowFromBBox sharpens a camera's nominal pointing direction and opening
// angle using one detected bounding box. The box is in percent units (see
// types.ParseBBoxes). The horizontal center of the box shifts the azimuth
// within the field of view; the box width scales the opening angle down.
//
// The new opening angle is truncated and then incremented by one degree on
// purpose: a box whose width rounds to zero must still produce a one-degree
// cone rather than a degenerate line. Truncate-then-add-one is the
// compatibility behavior, not a rounding bug.
func NarrowFromBBox(azimuth, openingAngle float64, box types.BBox) (float64, int) {
	xc := (box.X0 + box.Width/2) / 100

	newAzimuth := normalizeAzimuth(azimuth - openingAngle*(0.5-xc))
	newOpeningAngle := int(math.Floor(openingAngle*box.Width/100)) + 1

	return newAzimuth, newOpeningAngle
}

// BuildVisionPolygon computes the visible-area cone of a camera at
// (siteLat, siteLon) pointing at azimuth with the given opening angle,
// reaching distKm out. When bboxes is non-empty the first box narrows the
// azimuth and opening angle for the whole call; an empty slice behaves
// exactly like nil.
//
// The cone is built by stepping the opening angle down one degree at a
// time and projecting a boundary point on each side, so the polygon always
// has 1 + 2*steps vertices: the site itself, the left boundary from widest
// to narrowest, then the right boundary reversed. That exact ordering keeps
// the fan shape closed and non-self-intersecting on the map; do not reorder.
func BuildVisionPolygon(siteLat, siteLon, azimuth, openingAngle, distKm float64, bboxes []types.BBox) (types.VisionPolygon, error) {
	if err := checkInputs(siteLat, siteLon, azimuth, openingAngle, distKm); err != nil {
		return types.VisionPolygon{}, err
	}

	resolved := normalizeAzimuth(azimuth)
	opening := openingAngle
	if len(bboxes) > 0 {
		var narrowed int
		resolved, narrowed = NarrowFromBBox(azimuth, openingAngle, bboxes[0])
		opening = float64(narrowed)
	}

	// Unit-degree steps. Fractional leftovers are dropped, matching the
	// narrowed integer opening; anything below one degree becomes one.
	steps := int(opening)
	if steps < 1 {
		steps = 1
	}

	points1 := make([]types.LatLon, 0, steps)
	points2 := make([]types.LatLon, 0, steps)
	for i := steps; i >= 1; i-- {
		azimuth1 := normalizeAzimuth(resolved - float64(i)/2)
		azimuth2 := normalizeAzimuth(resolved + float64(i)/2)

		points1 = append(points1, destinationPoint(siteLat, siteLon, distKm, azimuth1))
		points2 = append(points2, destinationPoint(siteLat, siteLon, distKm, azimuth2))
	}

	points := make([]types.LatLon, 0, 1+2*steps)
	points = append(points, types.LatLon{Lat: siteLat, Lon: siteLon})
	points = append(points, points1...)
	for i := len(points2) - 1; i >= 0; i-- {
		points = append(points, points2[i])
	}

	return types.VisionPolygon{Points: points, Azimuth: resolved}, nil
}

func checkInputs(siteLat, siteLon, azimuth, openingAngle, distKm float64) error {
	for _, v := range []float64{siteLat, siteLon, azimuth, openingAngle, distKm} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value", ErrInvalidGeometryInput)
		}
	}
	if siteLat < -90 || siteLat > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidGeometryInput, siteLat)
	}
	if siteLon < -180 || siteLon > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidGeometryInput, siteLon)
	}
	if openingAngle <= 0 {
		return fmt.Errorf("%w: opening angle %v must be positive", ErrInvalidGeometryInput, openingAngle)
	}
	if distKm <= 0 {
		return fmt.Errorf("%w: distance %v must be positive", ErrInvalidGeometryInput, distKm)
	}
	return nil
}

// destinationPoint projects (lat, lon) outward by distKm along the given
// compass bearing on a spherical earth (direct geodesic problem). Close
// enough to the ellipsoid at watchtower ranges to stay visually consistent
// with the map tiles.
func destinationPoint(lat, lon, distKm, bearing float64) types.LatLon {
	delta := distKm / earthRadiusKM
	theta := bearing * math.Pi / 180
	phi1 := lat * math.Pi / 180
	lambda1 := lon * math.Pi / 180

	sinPhi2 := math.Sin(phi1)*math.Cos(delta) + math.Cos(phi1)*math.Sin(delta)*math.Cos(theta)
	phi2 := math.Asin(sinPhi2)
	lambda2 := lambda1 + math.Atan2(
		math.Sin(theta)*math.Sin(delta)*math.Cos(phi1),
		math.Cos(delta)-math.Sin(phi1)*sinPhi2,
	)

	destLon := lambda2 * 180 / math.Pi
	// wrap to [-180, 180]
	destLon = math.Mod(destLon+540, 360) - 180

	return types.LatLon{Lat: phi2 * 180 / math.Pi, Lon: destLon}
}

func normalizeAzimuth(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}
