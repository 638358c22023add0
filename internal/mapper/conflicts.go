package mapper

import (
	"log/slog"

	"github.com/grimechristopher/llm-adventure/internal/geo"
	"github.com/grimechristopher/llm-adventure/internal/model"
)

// resolveConflicts runs one pairwise scan over all placed locations and
// pushes the second member of any too-close pair outward along a random
// bearing. Single pass: a repaired point is not re-checked within the
// run, so a 3+-way cluster can end the pass still partially in conflict.
// Conflicts are rare by construction; the aim is "no two locations
// coincide", not perfect packing.
func (m *Mapper) resolveConflicts(locations []*model.Location, fixed map[int64]bool) int {
	slog.Info("checking for coordinate conflicts", "min_separation_km", m.cfg.MinSeparationKm)

	repaired := 0
	for i, a := range locations {
		if !a.HasCoordinate() {
			continue
		}
		for _, b := range locations[i+1:] {
			if !b.HasCoordinate() {
				continue
			}

			pa := geo.Point{Lat: *a.Latitude, Lon: *a.Longitude}
			pb := geo.Point{Lat: *b.Latitude, Lon: *b.Longitude}
			dist, err := geo.Distance(pa, pb)
			if err != nil {
				slog.Error("conflict scan distance failed", "a", a.Name, "b", b.Name, "error", err)
				continue
			}
			if dist >= m.cfg.MinSeparationKm {
				continue
			}

			slog.Warn("conflict detected",
				"loc1", a.Name,
				"loc2", b.Name,
				"distance_km", dist,
			)

			// The movable member gets pushed; fixed locations never move.
			mover := b
			if fixed[b.ID] {
				if fixed[a.ID] {
					slog.Warn("both locations fixed, conflict left in place", "loc1", a.Name, "loc2", b.Name)
					continue
				}
				mover = a
			}
			m.nudge(mover)
			repaired++
		}
	}

	return repaired
}

// nudge moves a location by the configured offset along a random bearing,
// clamped back into world bounds.
func (m *Mapper) nudge(loc *model.Location) {
	from := geo.Point{Lat: *loc.Latitude, Lon: *loc.Longitude}
	bearing := m.bearings.Bearing()

	moved, err := geo.Project(from, bearing, m.cfg.ConflictOffsetKm)
	if err != nil {
		slog.Error("conflict offset projection failed", "name", loc.Name, "error", err)
		return
	}

	moved = geo.Clamp(moved)
	assign(loc, moved, loc.PositionSource)
	slog.Debug("location adjusted",
		"name", loc.Name,
		"offset_km", m.cfg.ConflictOffsetKm,
		"new_lat", moved.Lat,
		"new_lon", moved.Lon,
	)
}
