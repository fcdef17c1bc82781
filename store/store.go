// Package store persists itinerary snapshots to a local SQLite database so
// recent trips survive process restarts. Every save is a new immutable
// snapshot; refinement history is recoverable by listing snapshots for a
// destination.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	// SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/voyagerhq/voyager/travel/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS trip_snapshot (
	id TEXT PRIMARY KEY,
	destination TEXT NOT NULL,
	title TEXT NOT NULL,
	payload TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_trip_snapshot_created ON trip_snapshot (created_at DESC);
`

// Snapshot is one saved itinerary revision.
type Snapshot struct {
	ID          string
	Destination string
	Title       string
	CreatedAt   time.Time
}

// Store is a SQLite-backed snapshot store. Safe for use from one process;
// concurrent writers are serialized by the single-connection pool.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the snapshot database under dataDir.
func Open(dataDir string) (*Store, error) {
	dsn := filepath.Join(dataDir, "voyager.db")
	// modernc.org/sqlite wants each pragma prefixed with `_pragma=`.
	db, err := sql.Open("sqlite", dsn+"?_pragma=foreign_keys(0)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrapf(err, "open snapshot db %s", dsn)
	}

	// A single connection is optimal for SQLite with WAL.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "migrate snapshot db")
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save persists a new snapshot of the itinerary and returns its record.
func (s *Store) Save(ctx context.Context, itinerary *model.Itinerary) (*Snapshot, error) {
	payload, err := json.Marshal(itinerary)
	if err != nil {
		return nil, errors.Wrap(err, "marshal itinerary")
	}

	snap := &Snapshot{
		ID:          uuid.NewString(),
		Destination: itinerary.Destination,
		Title:       itinerary.Title,
		CreatedAt:   time.Now().UTC(),
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO trip_snapshot (id, destination, title, payload, created_at) VALUES (?, ?, ?, ?, ?)",
		snap.ID, snap.Destination, snap.Title, string(payload), snap.CreatedAt.Unix(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "insert snapshot")
	}
	return snap, nil
}

// ListRecent returns the most recent snapshots, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, destination, title, created_at FROM trip_snapshot ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, errors.Wrap(err, "list snapshots")
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		var createdAt int64
		if err := rows.Scan(&snap.ID, &snap.Destination, &snap.Title, &createdAt); err != nil {
			return nil, errors.Wrap(err, "scan snapshot")
		}
		snap.CreatedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Get loads a snapshot and its itinerary by id.
func (s *Store) Get(ctx context.Context, id string) (*Snapshot, *model.Itinerary, error) {
	var snap Snapshot
	var payload string
	var createdAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id, destination, title, payload, created_at FROM trip_snapshot WHERE id = ?", id).
		Scan(&snap.ID, &snap.Destination, &snap.Title, &payload, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil, errors.Errorf("snapshot %s not found", id)
	}
	if err != nil {
		return nil, nil, errors.Wrap(err, "get snapshot")
	}
	snap.CreatedAt = time.Unix(createdAt, 0).UTC()

	var itinerary model.Itinerary
	if err := json.Unmarshal([]byte(payload), &itinerary); err != nil {
		return nil, nil, errors.Wrap(err, "decode snapshot payload")
	}
	return &snap, &itinerary, nil
}
