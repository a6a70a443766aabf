package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/venuedesk/internal/model"
	"github.com/nhle/venuedesk/internal/readstate"
	"github.com/nhle/venuedesk/internal/server"
	"github.com/nhle/venuedesk/internal/synth"
	vsync "github.com/nhle/venuedesk/internal/sync"
	"github.com/nhle/venuedesk/internal/testutil"
)

func setupTestServer(t *testing.T) (*server.Server, *vsync.Poller, *readstate.Memory) {
	t.Helper()

	persist := readstate.NewMemory()
	p, err := vsync.New(vsync.Config{
		Backend:   testutil.ReferenceBackend(),
		ReadState: readstate.Open(context.Background(), persist),
		Windows:   synth.DefaultWindows(),
		Clock:     testclock.NewClock(testutil.RefNow),
	})
	require.NoError(t, err)
	t.Cleanup(p.Stop)

	gin.SetMode(gin.TestMode)
	return server.New(p), p, persist
}

func do(t *testing.T, s *server.Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req, err := http.NewRequest(method, path, nil)
	require.NoError(t, err)
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeSnapshot(t *testing.T, w *httptest.ResponseRecorder) model.Snapshot {
	t.Helper()
	var snap model.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	return snap
}

func TestHealthz(t *testing.T) {
	s, _, _ := setupTestServer(t)

	w := do(t, s, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestGetNotificationsBeforeFirstPass(t *testing.T) {
	s, _, _ := setupTestServer(t)

	w := do(t, s, http.MethodGet, "/api/notifications")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"notifications":[]`)
	assert.Contains(t, w.Body.String(), `"unreadCount":0`)
}

func TestRefreshReturnsSnapshot(t *testing.T) {
	s, _, _ := setupTestServer(t)

	w := do(t, s, http.MethodPost, "/api/notifications/refresh")
	require.Equal(t, http.StatusOK, w.Code)

	snap := decodeSnapshot(t, w)
	require.Len(t, snap.Notifications, len(testutil.ReferenceOrder))
	for i, n := range snap.Notifications {
		assert.Equal(t, testutil.ReferenceOrder[i], n.ID)
	}
	assert.Equal(t, 7, snap.UnreadCount)
	assert.False(t, snap.Loading)

	w = do(t, s, http.MethodGet, "/api/notifications")
	assert.Equal(t, snap, decodeSnapshot(t, w))
}

func TestMarkRead(t *testing.T) {
	s, p, persist := setupTestServer(t)
	p.Refresh(context.Background())

	w := do(t, s, http.MethodPost, "/api/notifications/new-booking-b1/read")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 6, p.Snapshot().UnreadCount)
	assert.JSONEq(t, `["new-booking-b1"]`, string(persist.Raw()))
}

func TestMarkAllRead(t *testing.T) {
	s, p, _ := setupTestServer(t)
	p.Refresh(context.Background())

	w := do(t, s, http.MethodPost, "/api/notifications/read-all")
	assert.Equal(t, http.StatusNoContent, w.Code)

	snap := decodeSnapshot(t, do(t, s, http.MethodGet, "/api/notifications"))
	assert.Zero(t, snap.UnreadCount)
}

func TestMarkReadSaveFailure(t *testing.T) {
	s, p, persist := setupTestServer(t)
	p.Refresh(context.Background())
	persist.FailSaves(errors.New("disk full"))

	w := do(t, s, http.MethodPost, "/api/notifications/event-today-e1/read")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 7, p.Snapshot().UnreadCount)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	s, _, _ := setupTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
