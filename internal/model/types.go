// Package model defines the shared world-mapping data types.
package model

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Location is a named place in a world. A location with a blank
// RelativePosition is an anchor; one that already carries a coordinate
// when a run starts is fixed and never rewritten.
type Location struct {
	ID               int64     `db:"id"`
	WorldID          string    `db:"world_id"`
	Name             string    `db:"name"`
	RelativePosition string    `db:"relative_position"`
	Latitude         *float64  `db:"latitude"`
	Longitude        *float64  `db:"longitude"`
	PositionSource   string    `db:"position_source"`
	CreatedAt        time.Time `db:"created_at"`
}

// Coordinate provenance tags.
const (
	SourceFixed     = "fixed"     // present before the run, untouched
	SourceAnchor    = "anchor"    // Fibonacci spiral slot
	SourceProjected = "projected" // single reference + bearing + distance
	SourceMidpoint  = "midpoint"  // between two references
	SourceOracle    = "oracle"    // multi-constraint planner proposal
	SourceOrigin    = "origin"    // unresolvable reference, low confidence
)

// HasCoordinate reports whether the location carries a resolved position.
func (l *Location) HasCoordinate() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// IsAnchor reports whether the location has no positional constraint.
func (l *Location) IsAnchor() bool {
	return strings.TrimSpace(l.RelativePosition) == ""
}

// World is the container a mapping run operates on.
type World struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// PositionParse is the structured form of a relative-position string,
// produced by the language parser. Direction "toward" means "in the
// direction of SecondReference"; qualifier "halfway" means midpoint.
type PositionParse struct {
	Reference             string   `json:"reference_location_name"`
	SecondReference       string   `json:"second_reference_name"`
	Direction             string   `json:"direction"`
	DistanceQualifier     string   `json:"distance_qualifier"`
	AdditionalConstraints []string `json:"additional_constraints"`
}

// Sentinel parse tokens.
const (
	DirectionToward   = "toward"
	QualifierHalfway  = "halfway"
	DefaultDistanceKm = 50.0
)

// distanceQualifiers maps qualitative distance buckets to representative
// kilometer values. Kept in step with the parser prompt.
var distanceQualifiers = map[string]float64{
	"very close":        5,
	"close":             15,
	"nearby":            25,
	"moderate distance": 50,
	"moderate":          50,
	"far":               150,
	"very far":          300,
	"across the world":  1500,
}

// literalDistance matches literal qualifiers like "78km" or "78 km".
var literalDistance = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*km$`)

// DistanceForQualifier maps a qualifier to kilometers. Literal values
// ("78km") pass through. Unknown qualifiers fall back to a moderate
// distance; "halfway" has no distance and also falls back when a caller
// asks anyway.
func DistanceForQualifier(q string) float64 {
	q = strings.ToLower(strings.TrimSpace(q))
	if km, ok := distanceQualifiers[q]; ok {
		return km
	}
	if m := literalDistance.FindStringSubmatch(q); m != nil {
		if km, err := strconv.ParseFloat(m[1], 64); err == nil {
			return km
		}
	}
	return DefaultDistanceKm
}

// directionBearings maps cardinal and intercardinal directions to degrees
// clockwise from north.
var directionBearings = map[string]float64{
	"north": 0, "n": 0,
	"northeast": 45, "ne": 45,
	"east": 90, "e": 90,
	"southeast": 135, "se": 135,
	"south": 180, "s": 180,
	"southwest": 225, "sw": 225,
	"west": 270, "w": 270,
	"northwest": 315, "nw": 315,
}

// BearingForDirection maps a direction token to a bearing. The second
// return is false for unknown tokens and for the "toward" sentinel.
func BearingForDirection(dir string) (float64, bool) {
	b, ok := directionBearings[strings.ToLower(strings.TrimSpace(dir))]
	return b, ok
}

var cardinals = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// CardinalName renders a bearing as its nearest compass point.
func CardinalName(bearingDeg float64) string {
	idx := int(math.Mod(bearingDeg+22.5, 360)/45) % 8
	if idx < 0 {
		idx += 8
	}
	return cardinals[idx]
}

// CoordinateUpdate carries one location's newly resolved coordinate into
// the store's atomic per-run commit.
type CoordinateUpdate struct {
	LocationID int64
	Latitude   float64
	Longitude  float64
	Source     string
}

// Summary reports the outcome of one coordinate-assignment run.
type Summary struct {
	TotalLocations           int `json:"total_locations"`
	LocationsWithCoordinates int `json:"locations_with_coordinates"`
	AnchorLocations          int `json:"anchor_locations"`
	RelativeLocations        int `json:"relative_locations"`
}

// Unresolved is the number of locations the run could not place.
func (s Summary) Unresolved() int {
	return s.TotalLocations - s.LocationsWithCoordinates
}
