package mapper

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/grimechristopher/llm-adventure/internal/geo"
	"github.com/grimechristopher/llm-adventure/internal/llm"
	"github.com/grimechristopher/llm-adventure/internal/model"
)

// resolveRelatives places each relative location in creation order. Every
// location sees the coordinates resolved before it; a failure isolates to
// that one location and the pass continues.
func (m *Mapper) resolveRelatives(ctx context.Context, worldID string, relatives []*model.Location, all []*model.Location) {
	if len(relatives) == 0 {
		return
	}

	slog.Info("resolving relative positions", "count", len(relatives))

	for _, loc := range relatives {
		if ctx.Err() != nil {
			slog.Warn("resolution interrupted", "remaining", loc.Name)
			return
		}
		if err := m.resolveOne(ctx, worldID, loc, all); err != nil {
			slog.Error("failed to resolve relative position",
				"name", loc.Name,
				"relative_position", loc.RelativePosition,
				"error", err,
			)
		}
	}
}

func (m *Mapper) resolveOne(ctx context.Context, worldID string, loc *model.Location, all []*model.Location) error {
	if m.parser == nil {
		return errors.New("no position parser configured")
	}

	parse, err := m.parser.Parse(ctx, loc.RelativePosition)
	if err != nil {
		return err
	}

	if needsOracle(loc.RelativePosition, parse) {
		return m.resolveWithOracle(ctx, worldID, loc, all)
	}

	point, source, err := m.resolveGeometric(parse, all)
	if err != nil {
		return err
	}

	assign(loc, geo.Clamp(point), source)
	slog.Debug("relative location positioned",
		"name", loc.Name,
		"relative_to", parse.Reference,
		"latitude", *loc.Latitude,
		"longitude", *loc.Longitude,
		"source", source,
	)
	return nil
}

// needsOracle routes compound constraints to the planner: auxiliary
// free-text constraints, equidistance relations, or mixed multi-reference
// phrasing the geometric paths cannot express.
func needsOracle(text string, parse model.PositionParse) bool {
	if len(parse.AdditionalConstraints) > 0 {
		return true
	}
	if strings.Contains(strings.ToLower(text), "equidistant") {
		return true
	}
	// Two references with a directional qualifier other than the plain
	// between/toward forms.
	if parse.SecondReference != "" && parse.Direction != model.DirectionToward {
		return true
	}
	return false
}

// resolveGeometric handles the deterministic cases: projection from a
// single reference, midpoint between two, and bearing-toward a second
// reference. An unresolvable reference name degrades to the world origin
// with a low-confidence tag rather than failing the location.
func (m *Mapper) resolveGeometric(parse model.PositionParse, all []*model.Location) (geo.Point, string, error) {
	origin := geo.Point{}
	source := model.SourceProjected

	ref := origin
	if parse.Reference != "" {
		refLoc, err := findReference(all, parse.Reference)
		var unresolved *UnresolvedReferenceError
		if errors.As(err, &unresolved) {
			slog.Warn("reference not found, anchoring at origin (low confidence)",
				"reference", parse.Reference)
			source = model.SourceOrigin
		} else if err != nil {
			return geo.Point{}, "", err
		} else {
			ref = geo.Point{Lat: *refLoc.Latitude, Lon: *refLoc.Longitude}
		}
	} else {
		// No reference at all: placed relative to the origin.
		source = model.SourceOrigin
		slog.Warn("constraint names no reference, anchoring at origin (low confidence)")
	}

	// Between A and B: midpoint on the connecting arc.
	if parse.DistanceQualifier == model.QualifierHalfway && parse.SecondReference != "" {
		secondLoc, err := findReference(all, parse.SecondReference)
		var unresolved *UnresolvedReferenceError
		if errors.As(err, &unresolved) {
			slog.Warn("second reference not found, projecting from first instead",
				"reference", parse.SecondReference)
		} else if err != nil {
			return geo.Point{}, "", err
		} else {
			second := geo.Point{Lat: *secondLoc.Latitude, Lon: *secondLoc.Longitude}
			mid, err := geo.Midpoint(ref, second)
			if err != nil {
				return geo.Point{}, "", err
			}
			if source != model.SourceOrigin {
				source = model.SourceMidpoint
			}
			return mid, source, nil
		}
	}

	bearing := directionBearing(parse, all, ref)
	distance := model.DistanceForQualifier(parse.DistanceQualifier)

	p, err := geo.Project(ref, bearing, distance)
	if err != nil {
		return geo.Point{}, "", err
	}
	return p, source, nil
}

// directionBearing maps the parse's direction to degrees. The "toward"
// sentinel computes the bearing to the second reference; unknown tokens
// fall back to due north.
func directionBearing(parse model.PositionParse, all []*model.Location, from geo.Point) float64 {
	if parse.Direction == model.DirectionToward && parse.SecondReference != "" {
		if target, err := findReference(all, parse.SecondReference); err == nil {
			to := geo.Point{Lat: *target.Latitude, Lon: *target.Longitude}
			if b, err := geo.Bearing(from, to); err == nil {
				return b
			}
		}
	}
	if b, ok := model.BearingForDirection(parse.Direction); ok {
		return b
	}
	return 0
}

// resolveWithOracle delegates a compound constraint to the planner and
// re-validates the proposal against the engine's own bounds.
func (m *Mapper) resolveWithOracle(ctx context.Context, worldID string, loc *model.Location, all []*model.Location) error {
	if m.oracle == nil {
		return errors.New("compound constraint but no oracle configured")
	}

	req := llm.PlanRequest{
		LocationName:   loc.Name,
		ConstraintText: loc.RelativePosition,
		WorldID:        worldID,
		Snapshot:       m.snapshot(all),
	}

	res, err := m.oracle.Resolve(ctx, req)
	if err != nil {
		// Contract violations and transport failures isolate to this
		// location; the run continues.
		return err
	}

	if res.Confidence == "low" {
		slog.Warn("oracle reported low confidence",
			"name", loc.Name,
			"notes", res.Notes,
		)
	}
	for _, check := range res.Unsatisfied() {
		slog.Warn("oracle constraint unsatisfied",
			"name", loc.Name,
			"constraint", check.Constraint,
			"details", check.Details,
		)
	}

	proposal := geo.Point{Lat: res.Lat, Lon: res.Lon}
	if !geo.InWorldBounds(proposal) {
		slog.Warn("oracle proposal outside world bounds, clamping",
			"name", loc.Name,
			"proposed_lat", res.Lat,
			"proposed_lon", res.Lon,
		)
	}

	assign(loc, geo.Clamp(proposal), model.SourceOracle)
	slog.Debug("oracle location positioned",
		"name", loc.Name,
		"latitude", *loc.Latitude,
		"longitude", *loc.Longitude,
		"confidence", res.Confidence,
	)
	return nil
}

// snapshot collects every placed location as planner context, with a
// terrain hint when a field is configured. The slice is built fresh per
// call: a location mid-resolution never leaks into another's snapshot.
func (m *Mapper) snapshot(all []*model.Location) []llm.SnapshotLocation {
	var snap []llm.SnapshotLocation
	for _, loc := range all {
		if !loc.HasCoordinate() {
			continue
		}
		s := llm.SnapshotLocation{
			Name: loc.Name,
			Lat:  *loc.Latitude,
			Lon:  *loc.Longitude,
		}
		if m.terrain != nil {
			s.Terrain = m.terrain.HintAt(geo.Point{Lat: s.Lat, Lon: s.Lon})
		}
		snap = append(snap, s)
	}
	return snap
}
