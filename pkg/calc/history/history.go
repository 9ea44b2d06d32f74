// Package history records evaluations in a local SQLite database.
//
// History is a convenience, not a dependency of computation: callers treat
// open or write failures as warnings and keep going.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// SQLite driver
	_ "modernc.org/sqlite"
)

// Store wraps the history database connection.
type Store struct {
	db   *sql.DB
	path string
}

// schema defines the history table.
const schema = `
CREATE TABLE IF NOT EXISTS evaluations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_at TIMESTAMP NOT NULL,
	selector TEXT NOT NULL,
	operand TEXT NOT NULL,
	argument TEXT,
	result TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_evaluations_recorded_at ON evaluations(recorded_at);
`

// Entry is one recorded evaluation. Argument is empty for unary selectors.
type Entry struct {
	ID       int64
	When     time.Time
	Selector string
	Operand  string
	Argument string
	Result   string
}

// DefaultPath returns the history database location used when the config
// does not name one.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "cplx", "history.db"), nil
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Record appends one evaluation. A zero When is stamped with the current time.
func (s *Store) Record(e Entry) error {
	when := e.When
	if when.IsZero() {
		when = time.Now()
	}

	var argument any
	if e.Argument != "" {
		argument = e.Argument
	}

	_, err := s.db.Exec(
		`INSERT INTO evaluations (recorded_at, selector, operand, argument, result) VALUES (?, ?, ?, ?, ?)`,
		when.UTC(), e.Selector, e.Operand, argument, e.Result,
	)
	if err != nil {
		return fmt.Errorf("recording evaluation: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT id, recorded_at, selector, operand, COALESCE(argument, ''), result
		 FROM evaluations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.When, &e.Selector, &e.Operand, &e.Argument, &e.Result); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
