package readstate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/venuedesk/internal/testutil"
)

func TestOpenEmpty(t *testing.T) {
	s := Open(context.Background(), NewMemory())
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.IsRead("event-today-1"))
}

func TestMarkReadWritesThrough(t *testing.T) {
	ctx := context.Background()
	p := NewMemory()
	s := Open(ctx, p)

	require.NoError(t, s.MarkRead(ctx, "event-today-1"))
	assert.True(t, s.IsRead("event-today-1"))
	assert.JSONEq(t, `["event-today-1"]`, string(p.Raw()))

	// A new Set over the same persister sees the acknowledgment.
	reopened := Open(ctx, p)
	assert.True(t, reopened.IsRead("event-today-1"))
}

func TestMarkReadIdempotent(t *testing.T) {
	ctx := context.Background()
	p := NewMemory()
	s := Open(ctx, p)

	require.NoError(t, s.MarkRead(ctx, "a"))
	p.FailSaves(errors.New("disk full"))

	// Already present: no write, so the failing persister is not touched.
	require.NoError(t, s.MarkRead(ctx, "a"))
	assert.Equal(t, 1, s.Len())
}

func TestMarkAllReadUnion(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryWithData([]byte(`["a"]`))
	s := Open(ctx, p)

	require.NoError(t, s.MarkAllRead(ctx, []string{"b", "a", "c", ""}))
	assert.Equal(t, []string{"a", "b", "c"}, s.IDs())
	assert.JSONEq(t, `["a","b","c"]`, string(p.Raw()))
}

func TestFailedSaveRollsBack(t *testing.T) {
	ctx := context.Background()
	p := NewMemory()
	s := Open(ctx, p)
	p.FailSaves(errors.New("disk full"))

	err := s.MarkAllRead(ctx, []string{"x", "y"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.False(t, s.IsRead("x"))
	assert.Equal(t, 0, s.Len())
}

func TestCorruptStateDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryWithData([]byte(`{not json`))

	s := Open(ctx, p)
	assert.Equal(t, 0, s.Len())

	// The next mutation overwrites the corrupt value.
	require.NoError(t, s.MarkRead(ctx, "a"))
	assert.JSONEq(t, `["a"]`, string(p.Raw()))
}

func TestKVPersisterOnSQLite(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewTestStore(t)

	s := Open(ctx, NewKV(st))
	require.NoError(t, s.MarkAllRead(ctx, []string{"new-booking-1", "contract-signed-2"}))

	raw, err := st.GetValue(ctx, Key)
	require.NoError(t, err)
	assert.JSONEq(t, `["contract-signed-2","new-booking-1"]`, string(raw))

	reopened := Open(ctx, NewKV(st))
	assert.True(t, reopened.IsRead("new-booking-1"))
	assert.True(t, reopened.IsRead("contract-signed-2"))
}

func TestKVPersisterCorruptValue(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewTestStore(t)
	require.NoError(t, st.PutValue(ctx, Key, []byte(`"oops"`)))

	ids, err := NewKV(st).Load(ctx)
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.Nil(t, ids)

	assert.Equal(t, 0, Open(ctx, NewKV(st)).Len())
}
