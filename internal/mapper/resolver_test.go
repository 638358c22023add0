package mapper

import (
	"context"
	"math"
	"testing"

	"github.com/grimechristopher/llm-adventure/internal/geo"
	"github.com/grimechristopher/llm-adventure/internal/llm"
	"github.com/grimechristopher/llm-adventure/internal/model"
)

func TestResolveFiftyKmNorthOfCapital(t *testing.T) {
	s := &fakeStore{locations: []*model.Location{
		{ID: 1, Name: "Capital"},
		{ID: 2, Name: "Mill", RelativePosition: "50km north of Capital"},
	}}
	parser := &fakeParser{parses: map[string]model.PositionParse{
		"50km north of Capital": {Reference: "Capital", Direction: "north", DistanceQualifier: "50km"},
	}}
	m := newTestMapper(s, parser, nil)

	if _, err := m.AssignCoordinates(context.Background(), "w1"); err != nil {
		t.Fatal(err)
	}

	lat, lon := coord(s.locations[1])
	if math.Abs(lat-0.45) > 0.01 {
		t.Errorf("Mill latitude = %f, want ≈0.45", lat)
	}
	if math.Abs(lon) > 1e-9 {
		t.Errorf("Mill longitude = %f, want 0", lon)
	}
	if s.locations[1].PositionSource != model.SourceProjected {
		t.Errorf("source = %q, want projected", s.locations[1].PositionSource)
	}
}

func TestResolveBetweenTwoAnchors(t *testing.T) {
	s := &fakeStore{locations: []*model.Location{
		{ID: 1, Name: "A"},
		{ID: 2, Name: "B"},
		{ID: 3, Name: "C", RelativePosition: "between A and B"},
	}}
	parser := &fakeParser{parses: map[string]model.PositionParse{
		"between A and B": {
			Reference:         "A",
			SecondReference:   "B",
			Direction:         model.DirectionToward,
			DistanceQualifier: model.QualifierHalfway,
		},
	}}
	m := newTestMapper(s, parser, nil)

	if _, err := m.AssignCoordinates(context.Background(), "w1"); err != nil {
		t.Fatal(err)
	}

	a := geo.Point{Lat: *s.locations[0].Latitude, Lon: *s.locations[0].Longitude}
	b := geo.Point{Lat: *s.locations[1].Latitude, Lon: *s.locations[1].Longitude}
	c := geo.Point{Lat: *s.locations[2].Latitude, Lon: *s.locations[2].Longitude}

	da, err := geo.Distance(a, c)
	if err != nil {
		t.Fatal(err)
	}
	db, err := geo.Distance(b, c)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(da-db) > 1e-6 {
		t.Errorf("C not equidistant: %f vs %f km", da, db)
	}

	if s.locations[2].PositionSource != model.SourceMidpoint {
		t.Errorf("source = %q, want midpoint", s.locations[2].PositionSource)
	}
}

func TestResolveUnknownReferenceFallsBackToOrigin(t *testing.T) {
	s := &fakeStore{locations: []*model.Location{
		{ID: 1, Name: "Capital"},
		{ID: 2, Name: "Lost", RelativePosition: "nearby Atlantis"},
	}}
	parser := &fakeParser{parses: map[string]model.PositionParse{
		"nearby Atlantis": {Reference: "Atlantis", Direction: "north", DistanceQualifier: "nearby"},
	}}
	m := newTestMapper(s, parser, nil)

	summary, err := m.AssignCoordinates(context.Background(), "w1")
	if err != nil {
		t.Fatalf("unknown reference must not fail the run: %v", err)
	}

	// Anchored at the origin: 25 km north of (0,0).
	lat, lon := coord(s.locations[1])
	if math.Abs(lat-0.225) > 0.01 || math.Abs(lon) > 1e-9 {
		t.Errorf("Lost at (%f, %f), want ≈(0.225, 0)", lat, lon)
	}
	if s.locations[1].PositionSource != model.SourceOrigin {
		t.Errorf("source = %q, want origin (low confidence)", s.locations[1].PositionSource)
	}
	if summary.LocationsWithCoordinates != 2 {
		t.Errorf("placed = %d, want 2", summary.LocationsWithCoordinates)
	}
}

func TestResolveTowardSecondReference(t *testing.T) {
	s := &fakeStore{locations: []*model.Location{
		{ID: 1, Name: "A"},
		{ID: 2, Name: "B"},
		{ID: 3, Name: "C", RelativePosition: "close to A, toward B"},
	}}
	parser := &fakeParser{parses: map[string]model.PositionParse{
		"close to A, toward B": {
			Reference:         "A",
			SecondReference:   "B",
			Direction:         model.DirectionToward,
			DistanceQualifier: "close",
		},
	}}
	m := newTestMapper(s, parser, nil)

	if _, err := m.AssignCoordinates(context.Background(), "w1"); err != nil {
		t.Fatal(err)
	}

	a := geo.Point{Lat: *s.locations[0].Latitude, Lon: *s.locations[0].Longitude}
	b := geo.Point{Lat: *s.locations[1].Latitude, Lon: *s.locations[1].Longitude}
	c := geo.Point{Lat: *s.locations[2].Latitude, Lon: *s.locations[2].Longitude}

	// C sits 15 km from A on the bearing toward B.
	dac, err := geo.Distance(a, c)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(dac-15) > 1e-5 {
		t.Errorf("distance A→C = %f, want 15", dac)
	}

	bearingAB, err := geo.Bearing(a, b)
	if err != nil {
		t.Fatal(err)
	}
	bearingAC, err := geo.Bearing(a, c)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(bearingAB-bearingAC) > 1e-6 {
		t.Errorf("bearing A→C = %f, want %f (toward B)", bearingAC, bearingAB)
	}
}

func TestResolveCompoundDelegatesToOracle(t *testing.T) {
	oracle := &fakeOracle{res: &llm.Resolution{
		Lat:        12.5,
		Lon:        34.7,
		Reasoning:  "midpoint nudged toward the coast",
		Confidence: "high",
	}}
	s := &fakeStore{locations: []*model.Location{
		{ID: 1, Name: "Millbrook"},
		{ID: 2, Name: "Ashford"},
		{ID: 3, Name: "Seaholm", RelativePosition: "between Millbrook and Ashford, near the coast"},
	}}
	parser := &fakeParser{parses: map[string]model.PositionParse{
		"between Millbrook and Ashford, near the coast": {
			Reference:             "Millbrook",
			SecondReference:       "Ashford",
			Direction:             model.DirectionToward,
			DistanceQualifier:     model.QualifierHalfway,
			AdditionalConstraints: []string{"coastal"},
		},
	}}
	m := newTestMapper(s, parser, oracle)

	if _, err := m.AssignCoordinates(context.Background(), "w1"); err != nil {
		t.Fatal(err)
	}

	if oracle.calls != 1 {
		t.Fatalf("oracle called %d times, want 1", oracle.calls)
	}
	if oracle.lastReq.LocationName != "Seaholm" {
		t.Errorf("request for %q, want Seaholm", oracle.lastReq.LocationName)
	}
	if len(oracle.lastReq.Snapshot) != 2 {
		t.Errorf("snapshot has %d locations, want the 2 placed anchors", len(oracle.lastReq.Snapshot))
	}

	lat, lon := coord(s.locations[2])
	if lat != 12.5 || lon != 34.7 {
		t.Errorf("Seaholm at (%f, %f), want oracle proposal", lat, lon)
	}
	if s.locations[2].PositionSource != model.SourceOracle {
		t.Errorf("source = %q, want oracle", s.locations[2].PositionSource)
	}
}

func TestResolveOracleProposalClampedToWorldBounds(t *testing.T) {
	oracle := &fakeOracle{res: &llm.Resolution{
		Lat:        67.0, // inside numeric domain, outside the ±40 world band
		Lon:        10.0,
		Reasoning:  "overshot",
		Confidence: "medium",
	}}
	s := &fakeStore{locations: []*model.Location{
		{ID: 1, Name: "Capital"},
		{ID: 2, Name: "Farhold", RelativePosition: "far north, near the ice"},
	}}
	parser := &fakeParser{parses: map[string]model.PositionParse{
		"far north, near the ice": {
			Direction:             "north",
			DistanceQualifier:     "very far",
			AdditionalConstraints: []string{"near the ice"},
		},
	}}
	m := newTestMapper(s, parser, oracle)

	if _, err := m.AssignCoordinates(context.Background(), "w1"); err != nil {
		t.Fatal(err)
	}

	lat, _ := coord(s.locations[1])
	if lat != 40 {
		t.Errorf("latitude = %f, want clamped to 40", lat)
	}
}

func TestResolveOracleContractErrorIsIsolated(t *testing.T) {
	oracle := &fakeOracle{err: &llm.ContractError{Location: "Seaholm", Reason: "no JSON object found"}}
	s := &fakeStore{locations: []*model.Location{
		{ID: 1, Name: "Capital"},
		{ID: 2, Name: "Seaholm", RelativePosition: "coastal, far from Capital"},
		{ID: 3, Name: "Mill", RelativePosition: "nearby Capital"},
	}}
	parser := &fakeParser{parses: map[string]model.PositionParse{
		"coastal, far from Capital": {
			Reference:             "Capital",
			Direction:             "west",
			DistanceQualifier:     "far",
			AdditionalConstraints: []string{"coastal"},
		},
		"nearby Capital": {Reference: "Capital", Direction: "east", DistanceQualifier: "nearby"},
	}}
	m := newTestMapper(s, parser, oracle)

	summary, err := m.AssignCoordinates(context.Background(), "w1")
	if err != nil {
		t.Fatalf("contract violation must not fail the run: %v", err)
	}

	if s.locations[1].HasCoordinate() {
		t.Error("location with contract violation should stay unplaced")
	}
	if !s.locations[2].HasCoordinate() {
		t.Error("later locations must still resolve")
	}
	if summary.Unresolved() != 1 {
		t.Errorf("unresolved = %d, want 1", summary.Unresolved())
	}
}

func TestNeedsOracle(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		parse model.PositionParse
		want  bool
	}{
		{
			"simple projection",
			"far north of Capital",
			model.PositionParse{Reference: "Capital", Direction: "north", DistanceQualifier: "far"},
			false,
		},
		{
			"plain between",
			"between A and B",
			model.PositionParse{Reference: "A", SecondReference: "B", Direction: model.DirectionToward, DistanceQualifier: model.QualifierHalfway},
			false,
		},
		{
			"auxiliary constraints",
			"between A and B, near the coast",
			model.PositionParse{Reference: "A", SecondReference: "B", Direction: model.DirectionToward, DistanceQualifier: model.QualifierHalfway, AdditionalConstraints: []string{"coastal"}},
			true,
		},
		{
			"equidistant relation",
			"equidistant from A, B and C",
			model.PositionParse{Reference: "A", Direction: "north", DistanceQualifier: "moderate distance"},
			true,
		},
		{
			"two references with cardinal direction",
			"north of A and west of B",
			model.PositionParse{Reference: "A", SecondReference: "B", Direction: "north", DistanceQualifier: "moderate distance"},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := needsOracle(tt.text, tt.parse); got != tt.want {
				t.Errorf("needsOracle(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
