package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/venuedesk/internal/credential"
	"github.com/nhle/venuedesk/internal/model"
)

func testConfig(t *testing.T, baseURL string) *model.AppConfig {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cfg, err := model.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	cfg.Backend.BaseURL = baseURL
	cfg.ReadState.Driver = model.ReadStateMemory
	return cfg
}

func TestSessionRunsPassAgainstREST(t *testing.T) {
	t.Setenv(credential.TokenEnv, "tok")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path == "/api/invoices" {
			w.Write([]byte(`[{"id": 3, "invoice_number": "INV-3", "status": "overdue", "due_date": "2024-06-01", "total_amount": 1234.5}]`)) //nolint:errcheck
			return
		}
		w.Write([]byte(`[]`)) //nolint:errcheck
	}))
	defer srv.Close()

	s, err := newSession(context.Background(), testConfig(t, srv.URL+"/api"))
	require.NoError(t, err)
	defer s.Close()

	snap := s.poller.Refresh(context.Background())
	require.Len(t, snap.Notifications, 1)
	assert.Equal(t, "invoice-overdue-3", snap.Notifications[0].ID)
	assert.Equal(t, "Invoice #INV-3 for $1,234.50 is overdue", snap.Notifications[0].Message)
}

func TestSessionWithSQLiteReadState(t *testing.T) {
	t.Setenv(credential.TokenEnv, "tok")

	created := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bookings" {
			fmt.Fprintf(w, `[{"id": 9, "createdAt": %q, "totalPrice": 100}]`, created)
			return
		}
		w.Write([]byte(`[]`)) //nolint:errcheck
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	cfg.ReadState.Driver = model.ReadStateSQLite
	cfg.ReadState.Path = filepath.Join(t.TempDir(), "nested", "state.db")

	s, err := newSession(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, s.poller.MarkAsRead(context.Background(), "new-booking-9"))
	s.Close()

	// A new session reads the acknowledgement back from disk.
	s, err = newSession(context.Background(), cfg)
	require.NoError(t, err)
	defer s.Close()

	snap := s.poller.Refresh(context.Background())
	require.Len(t, snap.Notifications, 1)
	assert.Equal(t, "new-booking-9", snap.Notifications[0].ID)
	assert.True(t, snap.Notifications[0].Read)
	assert.Zero(t, snap.UnreadCount)
}

func TestNewPersisterRejectsUnknownDriver(t *testing.T) {
	_, _, err := newPersister(context.Background(), model.ReadStateConfig{Driver: "redis"})
	assert.Error(t, err)
}

func TestNewBackendSelectsAdapter(t *testing.T) {
	t.Setenv(credential.TokenEnv, "tok")
	cfg := testConfig(t, "https://abc.supabase.co")

	cfg.Backend.Kind = model.BackendSupabase
	b, err := newBackend(cfg)
	require.NoError(t, err)
	assert.Equal(t, "supabase", b.Name())

	cfg.Backend.Kind = "ftp"
	_, err = newBackend(cfg)
	assert.Error(t, err)
}
