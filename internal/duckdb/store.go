// Package duckdb keeps a history of diff results in DuckDB.
// Results are keyed by the fingerprints of both input files, so an
// unchanged pair of files can be answered from the history.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection for the comparison history.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database path, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// ensureSchema creates tables if they don't exist and adds columns that
// older history files lack.
func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS comparisons (
			first_path VARCHAR,
			first_size BIGINT,
			first_modtime TIMESTAMP,
			second_path VARCHAR,
			second_size BIGINT,
			second_modtime TIMESTAMP,
			normalize_chrom BOOLEAN DEFAULT false,
			total BIGINT,
			symmetric_difference BIGINT,
			ratio DOUBLE,
			created_at TIMESTAMP
		)`,
		`ALTER TABLE comparisons ADD COLUMN IF NOT EXISTS normalize_chrom BOOLEAN DEFAULT false`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
