// Package store archives scoring runs in a SQLite database so past runs can
// be listed and compared. The archive is optional: the text output file is
// always the primary sink.
package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store provides durable storage for run metadata.
type Store struct {
	db *sql.DB
}

// Run is one archived scoring run.
type Run struct {
	ID        string
	Engine    string
	Limit     string
	Threads   int
	StartedAt time.Time
	Finished  bool
	Positions int
}

// Open creates or opens the archive at path and applies the schema. Safe to
// call against an existing archive.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to archive: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY between the insert and the finish update.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the archive.
func (s *Store) Close() error {
	return s.db.Close()
}

// BeginRun records a new run and returns its id. Ids are UUIDv7, so sorting
// by id also sorts by start time.
func (s *Store) BeginRun(engine, limit string, threads int) (string, error) {
	id := uuid.Must(uuid.NewV7()).String()
	_, err := s.db.Exec(
		`INSERT INTO runs (id, engine, search_limit, threads, started_at) VALUES (?, ?, ?, ?, ?)`,
		id, engine, limit, threads, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	return id, nil
}

// FinishRun marks a run complete with its final position count.
func (s *Store) FinishRun(id string, positions int) error {
	res, err := s.db.Exec(
		`UPDATE runs SET finished_at = ?, positions = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), positions, id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run: no run with id %s", id)
	}
	return nil
}

// ListRuns returns every archived run, newest first.
func (s *Store) ListRuns() ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, engine, search_limit, threads, started_at, finished_at, positions
		 FROM runs ORDER BY started_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r        Run
			started  string
			finished sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Engine, &r.Limit, &r.Threads, &started, &finished, &r.Positions); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if r.StartedAt, err = time.Parse(time.RFC3339, started); err != nil {
			return nil, fmt.Errorf("parse run timestamp: %w", err)
		}
		r.Finished = finished.Valid
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}
