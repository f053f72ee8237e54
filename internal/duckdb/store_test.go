package duckdb

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func fingerprint(path string, size int64) FileFingerprint {
	return FileFingerprint{
		Path:    path,
		Size:    size,
		ModTime: time.Date(2024, 3, 1, 12, 30, 0, 123456000, time.UTC),
	}
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
	assert.Equal(t, "", s.Path())
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.duckdb")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.RecordComparison(ComparisonRecord{
		First: fingerprint("/a.vcf", 1), Second: fingerprint("/b.vcf", 2), Total: 1,
	}))
	require.NoError(t, s.Close())

	// Reopening keeps the stored rows.
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	recent, err := s.RecentComparisons(10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestRecordAndLookupComparison(t *testing.T) {
	s := openInMemory(t)

	a := fingerprint("/data/a.vcf", 1000)
	b := fingerprint("/data/b.vcf", 2000)

	require.NoError(t, s.RecordComparison(ComparisonRecord{
		First: a, Second: b, Total: 4, SymmetricDifference: 1, Ratio: 0.25,
	}))

	r, err := s.LookupComparison(a, b, false)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, 4, r.Total)
	assert.Equal(t, 1, r.SymmetricDifference)
	assert.Equal(t, 0.25, r.Ratio)
	assert.Equal(t, a.Path, r.First.Path)
	assert.Equal(t, a.Size, r.First.Size)
	assert.True(t, a.ModTime.Equal(r.First.ModTime), "modtime %v != %v", a.ModTime, r.First.ModTime)
	assert.Equal(t, b.Path, r.Second.Path)
	assert.False(t, r.CreatedAt.IsZero())

	// Swapped inputs give the same distance.
	r, err = s.LookupComparison(b, a, false)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, 4, r.Total)
}

func TestLookupComparison_Miss(t *testing.T) {
	s := openInMemory(t)

	a := fingerprint("/data/a.vcf", 1000)
	b := fingerprint("/data/b.vcf", 2000)
	require.NoError(t, s.RecordComparison(ComparisonRecord{First: a, Second: b, Total: 2}))

	// A changed file size invalidates the entry.
	changed := fingerprint("/data/b.vcf", 2001)
	r, err := s.LookupComparison(a, changed, false)
	require.NoError(t, err)
	assert.Nil(t, r)

	// So does a changed modification time.
	touched := b
	touched.ModTime = touched.ModTime.Add(time.Second)
	r, err = s.LookupComparison(a, touched, false)
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestLookupComparison_NormalizeChrom(t *testing.T) {
	s := openInMemory(t)

	a := fingerprint("/data/a.vcf", 1)
	b := fingerprint("/data/b.vcf", 2)
	require.NoError(t, s.RecordComparison(ComparisonRecord{First: a, Second: b, Total: 2}))

	// A result keyed by raw chromosome names does not answer a normalized run.
	r, err := s.LookupComparison(a, b, true)
	require.NoError(t, err)
	assert.Nil(t, r)

	require.NoError(t, s.RecordComparison(ComparisonRecord{
		First: a, Second: b, NormalizeChrom: true, Total: 4, SymmetricDifference: 2, Ratio: 0.5,
	}))

	r, err = s.LookupComparison(b, a, true)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.True(t, r.NormalizeChrom)
	assert.Equal(t, 4, r.Total)

	r, err = s.LookupComparison(a, b, false)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.False(t, r.NormalizeChrom)
	assert.Equal(t, 2, r.Total)
}

func TestOpen_AddsMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.duckdb")

	// A history file written before chromosome keying was recorded.
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.DB().Exec("DROP TABLE comparisons")
	require.NoError(t, err)
	_, err = s.DB().Exec(`CREATE TABLE comparisons (
		first_path VARCHAR, first_size BIGINT, first_modtime TIMESTAMP,
		second_path VARCHAR, second_size BIGINT, second_modtime TIMESTAMP,
		total BIGINT, symmetric_difference BIGINT, ratio DOUBLE, created_at TIMESTAMP
	)`)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	a := fingerprint("/a.vcf", 1)
	b := fingerprint("/b.vcf", 2)
	require.NoError(t, s.RecordComparison(ComparisonRecord{First: a, Second: b, NormalizeChrom: true, Total: 3}))
	r, err := s.LookupComparison(a, b, true)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, 3, r.Total)
}

func TestLookupComparison_Latest(t *testing.T) {
	s := openInMemory(t)

	a := fingerprint("/data/a.vcf", 1)
	b := fingerprint("/data/b.vcf", 2)
	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.RecordComparison(ComparisonRecord{First: a, Second: b, Total: 1, CreatedAt: old}))
	require.NoError(t, s.RecordComparison(ComparisonRecord{First: a, Second: b, Total: 9, CreatedAt: old.Add(time.Hour)}))

	r, err := s.LookupComparison(a, b, false)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, 9, r.Total)
}

func TestRecentComparisons(t *testing.T) {
	s := openInMemory(t)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 5 {
		require.NoError(t, s.RecordComparison(ComparisonRecord{
			First:     fingerprint("/a.vcf", int64(i)),
			Second:    fingerprint("/b.vcf", int64(i)),
			Total:     i + 1,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	recent, err := s.RecentComparisons(3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, 5, recent[0].Total)
	assert.Equal(t, 4, recent[1].Total)
	assert.Equal(t, 3, recent[2].Total)
}

func TestClearComparisons(t *testing.T) {
	s := openInMemory(t)

	a := fingerprint("/a.vcf", 1)
	b := fingerprint("/b.vcf", 2)
	require.NoError(t, s.RecordComparison(ComparisonRecord{First: a, Second: b, Total: 1}))
	require.NoError(t, s.ClearComparisons())

	r, err := s.LookupComparison(a, b, false)
	require.NoError(t, err)
	assert.Nil(t, r)

	recent, err := s.RecentComparisons(10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestStatFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.vcf")
	require.NoError(t, os.WriteFile(path, []byte("##fileformat=VCFv4.2\n"), 0644))

	fp, err := StatFile(path)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(fp.Path))
	assert.Equal(t, int64(21), fp.Size)
	assert.Equal(t, time.UTC, fp.ModTime.Location())
	assert.Equal(t, fp.ModTime, fp.ModTime.Truncate(time.Microsecond))

	_, err = StatFile(dir)
	assert.Error(t, err)

	_, err = StatFile(filepath.Join(dir, "missing.vcf"))
	assert.True(t, os.IsNotExist(err))
}
