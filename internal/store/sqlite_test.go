package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, s.Close())
	})
	return s
}

func TestGetValueMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetValue(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPutValueReplaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutValue(ctx, "k", []byte(`["a"]`)))
	require.NoError(t, s.PutValue(ctx, "k", []byte(`["a","b"]`)))

	got, err := s.GetValue(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`, string(got))
}

func TestReopenKeepsValuesAndSkipsMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.PutValue(ctx, "k", []byte("v")))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetValue(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))

	var versions int
	require.NoError(t, s.db.Get(&versions, "SELECT COUNT(*) FROM schema_version"))
	assert.Equal(t, len(migrations), versions)
}
