package duckdb

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ComparisonRecord is one stored diff result.
type ComparisonRecord struct {
	First               FileFingerprint
	Second              FileFingerprint
	NormalizeChrom      bool // records were keyed without a "chr" prefix
	Total               int
	SymmetricDifference int
	Ratio               float64
	CreatedAt           time.Time
}

const comparisonColumns = `first_path, first_size, first_modtime,
		second_path, second_size, second_modtime, normalize_chrom,
		total, symmetric_difference, ratio, created_at`

// RecordComparison appends a diff result. A zero CreatedAt is set to now.
func (s *Store) RecordComparison(r ComparisonRecord) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	_, err := s.db.Exec(`INSERT INTO comparisons (`+comparisonColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.First.Path, r.First.Size, r.First.ModTime.UTC(),
		r.Second.Path, r.Second.Size, r.Second.ModTime.UTC(), r.NormalizeChrom,
		r.Total, r.SymmetricDifference, r.Ratio, r.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert comparison: %w", err)
	}
	return nil
}

// LookupComparison returns the latest stored result for the two files, in
// either order, computed with the same chromosome keying, or nil if there
// is none. The distance is symmetric, so a swapped pair is a hit.
func (s *Store) LookupComparison(first, second FileFingerprint, normalizeChrom bool) (*ComparisonRecord, error) {
	row := s.db.QueryRow(`SELECT `+comparisonColumns+`
		FROM comparisons
		WHERE ((first_path=? AND first_size=? AND first_modtime=?
			AND second_path=? AND second_size=? AND second_modtime=?)
		OR (first_path=? AND first_size=? AND first_modtime=?
			AND second_path=? AND second_size=? AND second_modtime=?))
		AND normalize_chrom=?
		ORDER BY created_at DESC
		LIMIT 1`,
		first.Path, first.Size, first.ModTime.UTC(),
		second.Path, second.Size, second.ModTime.UTC(),
		second.Path, second.Size, second.ModTime.UTC(),
		first.Path, first.Size, first.ModTime.UTC(),
		normalizeChrom,
	)

	r, err := scanComparison(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup comparison: %w", err)
	}
	return r, nil
}

// RecentComparisons returns up to limit results, newest first.
// A non-positive limit returns nothing.
func (s *Store) RecentComparisons(limit int) ([]ComparisonRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.Query(fmt.Sprintf(`SELECT `+comparisonColumns+`
		FROM comparisons
		ORDER BY created_at DESC
		LIMIT %d`, limit))
	if err != nil {
		return nil, fmt.Errorf("query comparisons: %w", err)
	}
	defer rows.Close()

	var records []ComparisonRecord
	for rows.Next() {
		r, err := scanComparison(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comparison: %w", err)
		}
		records = append(records, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comparisons: %w", err)
	}
	return records, nil
}

// ClearComparisons removes all stored results.
func (s *Store) ClearComparisons() error {
	_, err := s.db.Exec("DELETE FROM comparisons")
	return err
}

// scanComparison scans one row selected with comparisonColumns.
func scanComparison(row interface{ Scan(dest ...any) error }) (*ComparisonRecord, error) {
	var r ComparisonRecord
	if err := row.Scan(
		&r.First.Path, &r.First.Size, &r.First.ModTime,
		&r.Second.Path, &r.Second.Size, &r.Second.ModTime, &r.NormalizeChrom,
		&r.Total, &r.SymmetricDifference, &r.Ratio, &r.CreatedAt,
	); err != nil {
		return nil, err
	}
	r.First.ModTime = r.First.ModTime.UTC()
	r.Second.ModTime = r.Second.ModTime.UTC()
	r.CreatedAt = r.CreatedAt.UTC()
	return &r, nil
}
