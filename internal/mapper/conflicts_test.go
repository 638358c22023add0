package mapper

import (
	"testing"

	"github.com/grimechristopher/llm-adventure/internal/entropy"
	"github.com/grimechristopher/llm-adventure/internal/geo"
	"github.com/grimechristopher/llm-adventure/internal/model"
)

func placed(id int64, name string, lat, lon float64, source string) *model.Location {
	return &model.Location{
		ID:             id,
		Name:           name,
		Latitude:       &lat,
		Longitude:      &lon,
		PositionSource: source,
	}
}

func pointOf(loc *model.Location) geo.Point {
	return geo.Point{Lat: *loc.Latitude, Lon: *loc.Longitude}
}

func TestResolveConflictsSeparatesClosePair(t *testing.T) {
	m := New(nil, nil, nil, nil, entropy.NewSeededSource(7), DefaultConfig())

	// ~2 km apart: well under the 5 km separation floor.
	a := placed(1, "A", 10, 20, model.SourceAnchor)
	b := placed(2, "B", 10.018, 20, model.SourceProjected)
	locations := []*model.Location{a, b}

	repaired := m.resolveConflicts(locations, nil)
	if repaired != 1 {
		t.Fatalf("repaired = %d, want 1", repaired)
	}

	dist, err := geo.Distance(pointOf(a), pointOf(b))
	if err != nil {
		t.Fatal(err)
	}
	if dist < m.cfg.MinSeparationKm {
		t.Errorf("pair still %f km apart, want ≥ %f", dist, m.cfg.MinSeparationKm)
	}

	// The first member stays put; only the second moved.
	if *a.Latitude != 10 || *a.Longitude != 20 {
		t.Error("first member of the pair should not move")
	}
	if b.PositionSource != model.SourceProjected {
		t.Errorf("nudge changed the source to %q", b.PositionSource)
	}
}

func TestResolveConflictsMovesUnfixedMember(t *testing.T) {
	m := New(nil, nil, nil, nil, entropy.NewSeededSource(7), DefaultConfig())

	a := placed(1, "A", 10, 20, model.SourceProjected)
	b := placed(2, "B", 10.018, 20, model.SourceFixed)
	locations := []*model.Location{a, b}
	fixed := map[int64]bool{2: true}

	if repaired := m.resolveConflicts(locations, fixed); repaired != 1 {
		t.Fatalf("repaired = %d, want 1", repaired)
	}

	if *b.Latitude != 10.018 || *b.Longitude != 20 {
		t.Error("fixed location moved")
	}
	if *a.Latitude == 10.0 && *a.Longitude == 20.0 {
		t.Error("movable member did not move")
	}
}

func TestResolveConflictsBothFixedLeftInPlace(t *testing.T) {
	m := New(nil, nil, nil, nil, entropy.NewSeededSource(7), DefaultConfig())

	a := placed(1, "A", 10, 20, model.SourceFixed)
	b := placed(2, "B", 10.018, 20, model.SourceFixed)
	locations := []*model.Location{a, b}
	fixed := map[int64]bool{1: true, 2: true}

	if repaired := m.resolveConflicts(locations, fixed); repaired != 0 {
		t.Errorf("repaired = %d, want 0", repaired)
	}
	if *a.Latitude != 10 || *b.Latitude != 10.018 {
		t.Error("fixed pair moved")
	}
}

func TestResolveConflictsSkipsUnplaced(t *testing.T) {
	m := New(nil, nil, nil, nil, entropy.NewSeededSource(7), DefaultConfig())

	a := placed(1, "A", 10, 20, model.SourceAnchor)
	ghost := &model.Location{ID: 2, Name: "Ghost"}
	locations := []*model.Location{a, ghost}

	if repaired := m.resolveConflicts(locations, nil); repaired != 0 {
		t.Errorf("repaired = %d, want 0", repaired)
	}
	if ghost.HasCoordinate() {
		t.Error("unplaced location gained a coordinate")
	}
}

func TestResolveConflictsWellSeparatedUntouched(t *testing.T) {
	m := New(nil, nil, nil, nil, entropy.NewSeededSource(7), DefaultConfig())

	a := placed(1, "A", 0, 0, model.SourceAnchor)
	b := placed(2, "B", 10, 10, model.SourceAnchor)
	c := placed(3, "C", -20, 30, model.SourceAnchor)
	locations := []*model.Location{a, b, c}

	if repaired := m.resolveConflicts(locations, nil); repaired != 0 {
		t.Errorf("repaired = %d, want 0", repaired)
	}
	if *a.Latitude != 0 || *b.Latitude != 10 || *c.Latitude != -20 {
		t.Error("well separated locations moved")
	}
}

func TestNudgeStaysInWorldBounds(t *testing.T) {
	m := New(nil, nil, nil, nil, entropy.NewSeededSource(7), DefaultConfig())

	// Repeated nudges from the band's edge must never escape it.
	loc := placed(1, "Edge", 39.99, 179.99, model.SourceProjected)
	for i := 0; i < 50; i++ {
		m.nudge(loc)
		if !geo.InWorldBounds(pointOf(loc)) {
			t.Fatalf("nudge %d left world bounds: %v", i, pointOf(loc))
		}
	}
}
