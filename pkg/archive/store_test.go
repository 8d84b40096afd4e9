package archive

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newRecord(i int, target string) *Record {
	return &Record{
		ID:         fmt.Sprintf("rec-%02d", i),
		Document:   fmt.Sprintf("doc-%d", i%3),
		File:       "queries/q.yaml",
		Target:     target,
		Translated: fmt.Sprintf("g.V(%d)", i),
		Parameters: []string{"x"},
		QueryHash:  "abc",
		Duration:   time.Duration(i) * time.Millisecond,
		CreatedAt:  base.Add(time.Duration(i) * time.Hour),
	}
}

// stores returns every backend under test. The cgo driver is skipped when the
// binary was built without cgo.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	out := map[string]Store{"memory": NewMemoryStore()}

	for _, driver := range []string{DriverModernc, DriverCGO} {
		s, err := NewSQLiteStore(&SQLiteConfig{
			Driver:  driver,
			Path:    filepath.Join(t.TempDir(), driver+".db"),
			WALMode: true,
		})
		if err != nil {
			if driver == DriverCGO && strings.Contains(err.Error(), "cgo") {
				t.Logf("skipping %s: %v", driver, err)
				continue
			}
			t.Fatalf("NewSQLiteStore(%s) error = %v", driver, err)
		}
		out[driver] = s
	}
	for _, s := range out {
		t.Cleanup(func() { s.Close() })
	}
	return out
}

func seed(t *testing.T, s Store, n int) {
	t.Helper()
	targets := []string{"python", "java"}
	for i := 0; i < n; i++ {
		require.NoError(t, s.Save(context.Background(), newRecord(i, targets[i%2])))
	}
}

func TestStore_SaveGet(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			rec := newRecord(1, "python")
			require.NoError(t, s.Save(ctx, rec))

			got, err := s.Get(ctx, rec.ID)
			require.NoError(t, err)
			assert.Equal(t, rec.Document, got.Document)
			assert.Equal(t, rec.File, got.File)
			assert.Equal(t, rec.Translated, got.Translated)
			assert.Equal(t, rec.Parameters, got.Parameters)
			assert.Equal(t, rec.Duration, got.Duration)
			assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
			assert.False(t, got.Failed())

			_, err = s.Get(ctx, "missing")
			assert.True(t, errors.Is(err, ErrNotFound))

			assert.Error(t, s.Save(ctx, &Record{Target: "java"}))
		})
	}
}

func TestStore_Query(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			seed(t, s, 10)
			failed := newRecord(20, "go")
			failed.Translated = ""
			failed.Error = "Go does not support range literals"
			require.NoError(t, s.Save(ctx, failed))

			all, err := s.Query(ctx, nil)
			require.NoError(t, err)
			require.Len(t, all, 11)
			assert.Equal(t, "rec-20", all[0].ID, "newest first")
			assert.Equal(t, "rec-00", all[10].ID)

			java, err := s.Query(ctx, &Query{Target: "java"})
			require.NoError(t, err)
			assert.Len(t, java, 5)

			since := base.Add(5 * time.Hour)
			until := base.Add(7 * time.Hour)
			window, err := s.Query(ctx, &Query{Since: &since, Until: &until})
			require.NoError(t, err)
			assert.Len(t, window, 3)

			page, err := s.Query(ctx, &Query{Limit: 2, Offset: 1})
			require.NoError(t, err)
			require.Len(t, page, 2)
			assert.Equal(t, "rec-09", page[0].ID)

			fails, err := s.Query(ctx, &Query{FailedOnly: true})
			require.NoError(t, err)
			require.Len(t, fails, 1)
			assert.True(t, fails[0].Failed())

			n, err := s.Count(ctx, &Query{Document: "doc-0"})
			require.NoError(t, err)
			assert.Equal(t, int64(4), n)

			n, err = s.Count(ctx, &Query{Limit: 1})
			require.NoError(t, err)
			assert.Equal(t, int64(11), n)
		})
	}
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			seed(t, s, 10)

			deleted, err := s.DeleteOlderThan(ctx, base.Add(3*time.Hour))
			require.NoError(t, err)
			assert.Equal(t, int64(3), deleted)

			deleted, err = s.DeleteOldest(ctx, 2)
			require.NoError(t, err)
			assert.Equal(t, int64(2), deleted)

			rest, err := s.Query(ctx, nil)
			require.NoError(t, err)
			require.Len(t, rest, 5)
			assert.Equal(t, "rec-05", rest[len(rest)-1].ID)

			deleted, err = s.DeleteOldest(ctx, 100)
			require.NoError(t, err)
			assert.Equal(t, int64(5), deleted)

			deleted, err = s.DeleteOldest(ctx, 0)
			require.NoError(t, err)
			assert.Zero(t, deleted)
		})
	}
}

func TestNewSQLiteStore_Errors(t *testing.T) {
	_, err := NewSQLiteStore(&SQLiteConfig{Driver: "postgres", Path: "x.db"})
	var serr *StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "open", serr.Operation)

	_, err = NewSQLiteStore(&SQLiteConfig{Driver: DriverModernc})
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	s, err := Open(Options{Driver: DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(Options{Driver: DriverModernc, Path: ":memory:"})
	require.NoError(t, err)
	defer s.Close()
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Save(context.Background(), newRecord(1, "java")))
	n, err := s.Count(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
