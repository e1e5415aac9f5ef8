// Copyright Climdyn Research, 2026. All rights reserved.

// Package catalog persists conversion outcomes in a SQLite database so long
// campaigns can be inspected and resumed across sessions.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Entry records the outcome of one file conversion.
type Entry struct {
	Output      string
	Source      string
	Variable    string
	Records     int
	Outcome     string // converted, skipped or failed
	Detail      string // error text for failures
	CompletedAt time.Time
}

// Store manages the conversion catalog database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the catalog database at path, creating the schema
// if it does not exist.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating catalog schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversions (
			output TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			variable TEXT NOT NULL,
			records INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			detail TEXT,
			completed_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_outcome ON conversions(outcome)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_variable ON conversions(variable)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record upserts one entry, keyed by the output path: rerunning a batch
// replaces the previous outcome for each file.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.CompletedAt.IsZero() {
		e.CompletedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversions (output, source, variable, records, outcome, detail, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(output) DO UPDATE SET
			source=excluded.source, variable=excluded.variable,
			records=excluded.records, outcome=excluded.outcome,
			detail=excluded.detail, completed_at=excluded.completed_at`,
		e.Output, e.Source, e.Variable, e.Records, e.Outcome, e.Detail,
		e.CompletedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording conversion %s: %w", e.Output, err)
	}
	return nil
}

// List returns all entries, most recent first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT output, source, variable, records, outcome, detail, completed_at
		 FROM conversions ORDER BY completed_at DESC, output`)
	if err != nil {
		return nil, fmt.Errorf("listing conversions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var completed string
		if err := rows.Scan(&e.Output, &e.Source, &e.Variable, &e.Records,
			&e.Outcome, &e.Detail, &completed); err != nil {
			return nil, fmt.Errorf("scanning conversion row: %w", err)
		}
		e.CompletedAt, err = time.Parse(time.RFC3339, completed)
		if err != nil {
			return nil, fmt.Errorf("parsing completion time %q: %w", completed, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Summary returns the number of entries per outcome.
func (s *Store) Summary(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT outcome, count(*) FROM conversions GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("summarizing conversions: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scanning summary row: %w", err)
		}
		counts[outcome] = n
	}
	return counts, rows.Err()
}
