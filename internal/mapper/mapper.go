// Package mapper assigns coordinates to every location of a world:
// anchors spread on a Fibonacci spiral, relative locations resolved
// against the growing reference set, conflicts repaired, and the result
// committed in one transaction.
package mapper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/grimechristopher/llm-adventure/internal/entropy"
	"github.com/grimechristopher/llm-adventure/internal/geo"
	"github.com/grimechristopher/llm-adventure/internal/llm"
	"github.com/grimechristopher/llm-adventure/internal/model"
)

// LocationStore is the slice of persistence the mapper needs.
type LocationStore interface {
	LocationsForWorld(ctx context.Context, worldID string) ([]*model.Location, error)
	CommitCoordinates(ctx context.Context, worldID string, updates []model.CoordinateUpdate) error
}

// PositionParser turns relative-position text into its structured parse.
// The engine does no text parsing itself.
type PositionParser interface {
	Parse(ctx context.Context, text string) (model.PositionParse, error)
}

// ConstraintOracle resolves compound constraints the geometric paths
// cannot express. Its output is re-validated before use.
type ConstraintOracle interface {
	Resolve(ctx context.Context, req llm.PlanRequest) (*llm.Resolution, error)
}

// TerrainHinter annotates snapshot points with a coarse terrain class.
type TerrainHinter interface {
	HintAt(p geo.Point) string
}

// Config tunes one mapper instance.
type Config struct {
	Spread           SpreadMode
	MinSeparationKm  float64
	ConflictOffsetKm float64
}

// DefaultConfig returns the built-in mapping constants.
func DefaultConfig() Config {
	return Config{
		Spread:           SpreadCompressed,
		MinSeparationKm:  5,
		ConflictOffsetKm: 10,
	}
}

// Mapper runs coordinate assignment for one world at a time. Instances
// hold no cross-run state; distinct worlds may run concurrently on
// distinct Mappers.
type Mapper struct {
	store    LocationStore
	parser   PositionParser
	oracle   ConstraintOracle
	terrain  TerrainHinter
	bearings entropy.BearingSource
	cfg      Config
}

// New creates a Mapper. Parser, oracle and terrain may be nil; affected
// locations then resolve as isolated failures rather than aborting runs.
func New(store LocationStore, parser PositionParser, oracle ConstraintOracle, terrain TerrainHinter, bearings entropy.BearingSource, cfg Config) *Mapper {
	if bearings == nil {
		bearings = entropy.CryptoSource{}
	}
	if cfg.MinSeparationKm <= 0 {
		cfg.MinSeparationKm = 5
	}
	if cfg.ConflictOffsetKm <= 0 {
		cfg.ConflictOffsetKm = 10
	}
	return &Mapper{
		store:    store,
		parser:   parser,
		oracle:   oracle,
		terrain:  terrain,
		bearings: bearings,
		cfg:      cfg,
	}
}

// AssignCoordinates runs the four phases for one world and commits the
// result atomically. Individual locations may fail to resolve without
// failing the run; only an unreadable world is fatal.
func (m *Mapper) AssignCoordinates(ctx context.Context, worldID string) (model.Summary, error) {
	slog.Info("starting coordinate assignment", "world", worldID)

	locations, err := m.store.LocationsForWorld(ctx, worldID)
	if err != nil {
		return model.Summary{}, err
	}

	if len(locations) == 0 {
		slog.Warn("no locations found for world", "world", worldID)
		return model.Summary{}, nil
	}

	// Phase 1: partition. Locations that arrive with a coordinate are
	// fixed: excluded from distribution and resolution, still usable as
	// references.
	fixed := make(map[int64]bool)
	var anchors, relatives []*model.Location
	for _, loc := range locations {
		switch {
		case loc.HasCoordinate():
			fixed[loc.ID] = true
		case loc.IsAnchor():
			anchors = append(anchors, loc)
		default:
			relatives = append(relatives, loc)
		}
	}

	// A world with no anchor and no fixed point has nothing to hang on:
	// promote the first location in creation order, constraint text
	// retained but unused for placement.
	if len(anchors) == 0 && len(fixed) == 0 {
		first := relatives[0]
		slog.Info("no anchor locations found, promoting first location", "name", first.Name)
		anchors = []*model.Location{first}
		relatives = relatives[1:]
	}

	slog.Info("identified location types",
		"anchors", len(anchors),
		"relatives", len(relatives),
		"fixed", len(fixed),
	)

	// Phase 2: anchor distribution.
	m.distributeAnchors(anchors)

	// Phase 3: relative resolution, creation order.
	m.resolveRelatives(ctx, worldID, relatives, locations)

	// Phase 4: conflict repair.
	repaired := m.resolveConflicts(locations, fixed)
	if repaired > 0 {
		slog.Info("conflicts repaired", "count", repaired)
	}

	if err := ctx.Err(); err != nil {
		return model.Summary{}, fmt.Errorf("run cancelled before commit: %w", err)
	}

	var updates []model.CoordinateUpdate
	for _, loc := range locations {
		if fixed[loc.ID] || !loc.HasCoordinate() {
			continue
		}
		updates = append(updates, model.CoordinateUpdate{
			LocationID: loc.ID,
			Latitude:   *loc.Latitude,
			Longitude:  *loc.Longitude,
			Source:     loc.PositionSource,
		})
	}
	if err := m.store.CommitCoordinates(ctx, worldID, updates); err != nil {
		return model.Summary{}, fmt.Errorf("commit coordinates: %w", err)
	}

	summary := model.Summary{
		TotalLocations:    len(locations),
		AnchorLocations:   len(anchors),
		RelativeLocations: len(relatives),
	}
	for _, loc := range locations {
		if loc.HasCoordinate() {
			summary.LocationsWithCoordinates++
		}
	}

	slog.Info("coordinate assignment complete",
		"world", worldID,
		"total", summary.TotalLocations,
		"assigned", summary.LocationsWithCoordinates,
		"unresolved", summary.Unresolved(),
	)
	return summary, nil
}

// assign stores a working coordinate on the location. Commit happens once
// at the end of the run.
func assign(loc *model.Location, p geo.Point, source string) {
	lat, lon := p.Lat, p.Lon
	loc.Latitude = &lat
	loc.Longitude = &lon
	loc.PositionSource = source
}

// findReference resolves a location name against the set of placed
// locations, case-insensitively.
func findReference(locations []*model.Location, name string) (*model.Location, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, loc := range locations {
		if strings.ToLower(loc.Name) == want && loc.HasCoordinate() {
			return loc, nil
		}
	}
	return nil, &UnresolvedReferenceError{Name: name}
}

// UnresolvedReferenceError reports a constraint naming a location that is
// not placed in the world. Recovered locally by anchoring at the origin.
type UnresolvedReferenceError struct {
	Name string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("reference location %q not found or unplaced", e.Name)
}
