// Package store provides SQLite-backed persistence for worlds and their
// locations. Coordinate writes for a mapping run land in one transaction:
// readers see the whole run or none of it.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/grimechristopher/llm-adventure/internal/model"
)

// WorldLoadError reports that a world's locations could not be read at
// all. This is the only store failure that aborts a mapping run.
type WorldLoadError struct {
	WorldID string
	Err     error
}

func (e *WorldLoadError) Error() string {
	return fmt.Sprintf("load world %s: %v", e.WorldID, e.Err)
}

func (e *WorldLoadError) Unwrap() error { return e.Err }

// Store wraps a SQLite connection for world persistence.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database under the given data directory.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	path := filepath.Join(dataDir, "worlds.db")
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS worlds (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS locations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		world_id TEXT NOT NULL REFERENCES worlds(id),
		name TEXT NOT NULL,
		relative_position TEXT NOT NULL DEFAULT '',
		latitude REAL,
		longitude REAL,
		position_source TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		UNIQUE(world_id, name)
	);

	CREATE INDEX IF NOT EXISTS idx_locations_world ON locations(world_id);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// CreateWorld inserts a new world and returns it.
func (s *Store) CreateWorld(ctx context.Context, name, description string) (*model.World, error) {
	w := &model.World{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO worlds (id, name, description, created_at) VALUES (?, ?, ?, ?)`,
		w.ID, w.Name, w.Description, w.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert world %q: %w", name, err)
	}
	return w, nil
}

// WorldByName looks a world up by its unique name.
func (s *Store) WorldByName(ctx context.Context, name string) (*model.World, error) {
	var w model.World
	err := s.conn.GetContext(ctx, &w, `SELECT * FROM worlds WHERE name = ?`, name)
	if err != nil {
		return nil, fmt.Errorf("world %q: %w", name, err)
	}
	return &w, nil
}

// Worlds returns all worlds, oldest first.
func (s *Store) Worlds(ctx context.Context) ([]model.World, error) {
	var worlds []model.World
	err := s.conn.SelectContext(ctx, &worlds, `SELECT * FROM worlds ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list worlds: %w", err)
	}
	return worlds, nil
}

// CreateLocation inserts a location. An empty relativePosition makes it
// an anchor; latitude/longitude may be pre-set for fixed locations.
func (s *Store) CreateLocation(ctx context.Context, loc *model.Location) error {
	if loc.CreatedAt.IsZero() {
		loc.CreatedAt = time.Now().UTC()
	}
	res, err := s.conn.ExecContext(ctx,
		`INSERT INTO locations
		 (world_id, name, relative_position, latitude, longitude, position_source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		loc.WorldID, loc.Name, loc.RelativePosition,
		loc.Latitude, loc.Longitude, loc.PositionSource, loc.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert location %q: %w", loc.Name, err)
	}
	loc.ID, err = res.LastInsertId()
	return err
}

// LocationsForWorld returns every location of a world in creation order.
// Resolution order depends on this ordering being stable.
func (s *Store) LocationsForWorld(ctx context.Context, worldID string) ([]*model.Location, error) {
	var locs []*model.Location
	err := s.conn.SelectContext(ctx, &locs,
		`SELECT * FROM locations WHERE world_id = ? ORDER BY id`, worldID)
	if err != nil {
		return nil, &WorldLoadError{WorldID: worldID, Err: err}
	}
	return locs, nil
}

// CommitCoordinates writes a run's coordinates in a single transaction.
// Fixed locations are never part of the update set; callers exclude them.
func (s *Store) CommitCoordinates(ctx context.Context, worldID string, updates []model.CoordinateUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin commit for world %s: %w", worldID, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx,
		`UPDATE locations SET latitude = ?, longitude = ?, position_source = ?
		 WHERE id = ? AND world_id = ?`)
	if err != nil {
		return fmt.Errorf("prepare coordinate update: %w", err)
	}
	defer stmt.Close()

	for _, u := range updates {
		if _, err := stmt.ExecContext(ctx, u.Latitude, u.Longitude, u.Source, u.LocationID, worldID); err != nil {
			return fmt.Errorf("update location %d: %w", u.LocationID, err)
		}
	}

	return tx.Commit()
}
