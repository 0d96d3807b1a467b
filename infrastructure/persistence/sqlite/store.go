// Package sqlite persists dataset snapshots in a single SQLite table.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/YuDongZhang/InterviewQuestion/domain/core/aggregates"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
	"github.com/YuDongZhang/InterviewQuestion/infrastructure/persistence/codec"
	pkgerrors "github.com/YuDongZhang/InterviewQuestion/pkg/errors"
)

// Store keeps one row per dataset holding the encoded snapshot.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the database at path. An empty path opens a
// private in-memory database.
func NewStore(path string) (*Store, error) {
	dsn := path
	if path == "" {
		dsn = "file::memory:"
	} else if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps the in-memory database alive and
	// serializes writers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS snapshots (
		dataset TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		updated_at TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create snapshots table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the database file path, empty for in-memory databases.
func (s *Store) Path() string { return s.path }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Load(ctx context.Context, dataset valueobjects.DatasetName) (aggregates.Snapshot, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM snapshots WHERE dataset = ?`, string(dataset)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return aggregates.Snapshot{}, pkgerrors.NewNotFoundError("snapshot " + string(dataset))
	}
	if err != nil {
		return aggregates.Snapshot{}, pkgerrors.NewPersistenceError("load", err)
	}
	snap, err := codec.Decode(payload)
	if err != nil {
		return aggregates.Snapshot{}, pkgerrors.NewPersistenceError("load", err)
	}
	return snap, nil
}

func (s *Store) Save(ctx context.Context, dataset valueobjects.DatasetName, snap aggregates.Snapshot) error {
	data, err := codec.Encode(snap)
	if err != nil {
		return pkgerrors.NewPersistenceError("save", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots(dataset, payload, updated_at) VALUES(?, ?, ?)
		 ON CONFLICT(dataset) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		string(dataset), data, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return pkgerrors.NewPersistenceError("save", err)
	}
	return nil
}

// UpdatedAt reports when a dataset was last written.
func (s *Store) UpdatedAt(ctx context.Context, dataset valueobjects.DatasetName) (time.Time, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT updated_at FROM snapshots WHERE dataset = ?`, string(dataset)).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, pkgerrors.NewNotFoundError("snapshot " + string(dataset))
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, raw)
}
