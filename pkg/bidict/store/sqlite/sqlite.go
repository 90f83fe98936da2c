// Package sqlite implements store.Store on a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nordtext/bidict/pkg/bidict/aggregate"
	"github.com/nordtext/bidict/pkg/bidict/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database with WAL mode enabled and initializes
// the schema.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	direction TEXT NOT NULL,
	articles INTEGER NOT NULL,
	started_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS entries (
	run_id TEXT NOT NULL,
	source TEXT NOT NULL,
	target TEXT NOT NULL,
	freq INTEGER NOT NULL,
	pos INTEGER NOT NULL,
	PRIMARY KEY(run_id, source, target),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_entries_run_source ON entries(run_id, source);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun inserts or replaces a run record.
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, direction, articles, started_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			direction = excluded.direction,
			articles = excluded.articles,
			started_at = excluded.started_at`,
		r.ID, r.Direction, r.Articles, r.StartedAt.UTC().Format(time.RFC3339Nano))
	return err
}

// GetRun returns a run by ID.
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, bool, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, direction, articles, started_at FROM runs WHERE id = ?", id)
	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return store.Run{}, false, nil
	}
	if err != nil {
		return store.Run{}, false, err
	}
	return r, true, nil
}

// ListRuns returns all runs in start order (ULIDs sort chronologically).
func (s *sqliteStore) ListRuns(ctx context.Context) ([]store.Run, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, direction, articles, started_at FROM runs ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (store.Run, error) {
	var r store.Run
	var started string
	if err := row.Scan(&r.ID, &r.Direction, &r.Articles, &started); err != nil {
		return store.Run{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, started)
	if err != nil {
		return store.Run{}, err
	}
	r.StartedAt = ts
	return r, nil
}

// SaveEntries replaces a run's dictionary in one transaction.
func (s *sqliteStore) SaveEntries(ctx context.Context, runID string, entries []aggregate.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM entries WHERE run_id = ?", runID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO entries (run_id, source, target, freq, pos) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		for pos, tr := range e.Targets {
			if _, err := stmt.ExecContext(ctx, runID, e.Source, tr.Target, tr.Freq, pos); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// GetEntries returns a run's dictionary sorted by source token, targets
// in rank order.
func (s *sqliteStore) GetEntries(ctx context.Context, runID string) ([]aggregate.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source, target, freq FROM entries
		WHERE run_id = ?
		ORDER BY source, pos`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []aggregate.Entry
	for rows.Next() {
		var source, target string
		var freq int64
		if err := rows.Scan(&source, &target, &freq); err != nil {
			return nil, err
		}
		if len(out) == 0 || out[len(out)-1].Source != source {
			out = append(out, aggregate.Entry{Source: source})
		}
		last := &out[len(out)-1]
		last.Targets = append(last.Targets, aggregate.Translation{Target: target, Freq: freq})
	}
	return out, rows.Err()
}

// GetEntry returns one source token's entry.
func (s *sqliteStore) GetEntry(ctx context.Context, runID, source string) (aggregate.Entry, bool, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT target, freq FROM entries
		WHERE run_id = ? AND source = ?
		ORDER BY pos`, runID, source)
	if err != nil {
		return aggregate.Entry{}, false, err
	}
	defer rows.Close()

	entry := aggregate.Entry{Source: source}
	for rows.Next() {
		var target string
		var freq int64
		if err := rows.Scan(&target, &freq); err != nil {
			return aggregate.Entry{}, false, err
		}
		entry.Targets = append(entry.Targets, aggregate.Translation{Target: target, Freq: freq})
	}
	if err := rows.Err(); err != nil {
		return aggregate.Entry{}, false, err
	}
	if len(entry.Targets) == 0 {
		return aggregate.Entry{}, false, nil
	}
	return entry, true, nil
}
