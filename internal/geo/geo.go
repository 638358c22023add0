// Package geo implements great-circle geometry on the quarter-Earth sphere.
// All latitudes and longitudes are degrees, distances kilometers, bearings
// degrees clockwise from north.
package geo

import (
	"fmt"
	"math"
	"sort"
)

// EarthRadiusKm is the mean sphere radius used for every calculation.
// The world is a bounded "quarter-Earth", but kilometer values round-trip
// only if one radius is held fixed everywhere; this is it.
const EarthRadiusKm = 6371.0088

// World bounds. Latitude is clipped hard at ±40; longitude keeps the full
// range and wraps at the dateline.
const (
	MinLat = -40.0
	MaxLat = 40.0
	MinLon = -180.0
	MaxLon = 180.0
)

// Point is a position on the sphere in degrees.
type Point struct {
	Lat float64
	Lon float64
}

func (p Point) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", p.Lat, p.Lon)
}

// DomainError reports a coordinate outside the numeric lat/lon domain.
// This is a programming or data error, never expected in normal operation.
type DomainError struct {
	Point Point
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("coordinate %s outside ±90/±180 domain", e.Point)
}

func checkDomain(points ...Point) error {
	for _, p := range points {
		if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) ||
			p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
			return &DomainError{Point: p}
		}
	}
	return nil
}

// Clamp clips a point to world bounds. Latitude is clipped to ±40,
// longitude to ±180. Call sites apply this after projection; the toolkit
// operations themselves never clamp.
func Clamp(p Point) Point {
	return Point{
		Lat: math.Max(MinLat, math.Min(MaxLat, p.Lat)),
		Lon: math.Max(MinLon, math.Min(MaxLon, p.Lon)),
	}
}

// InWorldBounds reports whether p lies inside the world's bounds.
func InWorldBounds(p Point) bool {
	return p.Lat >= MinLat && p.Lat <= MaxLat && p.Lon >= MinLon && p.Lon <= MaxLon
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }
func deg(rad float64) float64 { return rad * 180 / math.Pi }

// normalizeLon wraps a longitude into [-180, 180).
func normalizeLon(lon float64) float64 {
	lon = math.Mod(lon+540, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

// Distance returns the great-circle distance between a and b in kilometers
// (haversine on the fixed-radius sphere).
func Distance(a, b Point) (float64, error) {
	if err := checkDomain(a, b); err != nil {
		return 0, err
	}

	lat1, lat2 := rad(a.Lat), rad(b.Lat)
	dLat := rad(b.Lat - a.Lat)
	dLon := rad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h))), nil
}

// Bearing returns the initial bearing from a to b in degrees [0, 360).
func Bearing(a, b Point) (float64, error) {
	if err := checkDomain(a, b); err != nil {
		return 0, err
	}

	lat1, lat2 := rad(a.Lat), rad(b.Lat)
	dLon := rad(b.Lon - a.Lon)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	return math.Mod(deg(math.Atan2(y, x))+360, 360), nil
}

// Project returns the destination point starting at origin and travelling
// distanceKm along the given bearing. Exact inverse of Distance/Bearing on
// the same sphere radius.
func Project(origin Point, bearingDeg, distanceKm float64) (Point, error) {
	if err := checkDomain(origin); err != nil {
		return Point{}, err
	}

	lat1 := rad(origin.Lat)
	lon1 := rad(origin.Lon)
	brng := rad(bearingDeg)
	d := distanceKm / EarthRadiusKm

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(d) +
		math.Cos(lat1)*math.Sin(d)*math.Cos(brng))
	lon2 := lon1 + math.Atan2(
		math.Sin(brng)*math.Sin(d)*math.Cos(lat1),
		math.Cos(d)-math.Sin(lat1)*math.Sin(lat2),
	)

	return Point{Lat: deg(lat2), Lon: normalizeLon(deg(lon2))}, nil
}

// Midpoint returns the point halfway along the great-circle arc from a to b.
func Midpoint(a, b Point) (Point, error) {
	if err := checkDomain(a, b); err != nil {
		return Point{}, err
	}

	lat1, lat2 := rad(a.Lat), rad(b.Lat)
	lon1 := rad(a.Lon)
	dLon := rad(b.Lon - a.Lon)

	bx := math.Cos(lat2) * math.Cos(dLon)
	by := math.Cos(lat2) * math.Sin(dLon)

	lat3 := math.Atan2(
		math.Sin(lat1)+math.Sin(lat2),
		math.Sqrt((math.Cos(lat1)+bx)*(math.Cos(lat1)+bx)+by*by),
	)
	lon3 := lon1 + math.Atan2(by, math.Cos(lat1)+bx)

	return Point{Lat: deg(lat3), Lon: normalizeLon(deg(lon3))}, nil
}

// Centroid returns the spherical centroid of one or more points and the
// mean great-circle distance from the centroid to each input.
func Centroid(points []Point) (Point, float64, error) {
	if len(points) == 0 {
		return Point{}, 0, fmt.Errorf("centroid of zero points")
	}
	if err := checkDomain(points...); err != nil {
		return Point{}, 0, err
	}

	// Average the unit vectors, convert back.
	var x, y, z float64
	for _, p := range points {
		lat, lon := rad(p.Lat), rad(p.Lon)
		x += math.Cos(lat) * math.Cos(lon)
		y += math.Cos(lat) * math.Sin(lon)
		z += math.Sin(lat)
	}
	n := float64(len(points))
	x, y, z = x/n, y/n, z/n

	hyp := math.Sqrt(x*x + y*y)
	center := Point{Lat: deg(math.Atan2(z, hyp)), Lon: normalizeLon(deg(math.Atan2(y, x)))}

	var total float64
	for _, p := range points {
		d, err := Distance(center, p)
		if err != nil {
			return Point{}, 0, err
		}
		total += d
	}

	return center, total / n, nil
}

// Neighbor is a candidate found by WithinRadius, with its distance and
// bearing from the search center.
type Neighbor struct {
	Name       string
	Point      Point
	DistanceKm float64
	BearingDeg float64
}

// Candidate names a point for radius searches.
type Candidate struct {
	Name  string
	Point Point
}

// WithinRadius returns every candidate within radiusKm of center, sorted
// ascending by distance.
func WithinRadius(center Point, radiusKm float64, candidates []Candidate) ([]Neighbor, error) {
	if err := checkDomain(center); err != nil {
		return nil, err
	}

	var found []Neighbor
	for _, c := range candidates {
		d, err := Distance(center, c.Point)
		if err != nil {
			return nil, err
		}
		if d > radiusKm {
			continue
		}
		b, err := Bearing(center, c.Point)
		if err != nil {
			return nil, err
		}
		found = append(found, Neighbor{Name: c.Name, Point: c.Point, DistanceKm: d, BearingDeg: b})
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].DistanceKm < found[j].DistanceKm
	})
	return found, nil
}
