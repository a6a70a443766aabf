package supabase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/venuedesk/internal/model"
	"github.com/nhle/venuedesk/internal/source"
)

func newTestServer(t *testing.T, table, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/"+table {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("apikey") != "anon" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("select") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(body)) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestListContractsMapsColumns(t *testing.T) {
	srv := newTestServer(t, "contracts", `[{
		"id": 3, "contract_number": "C-3", "title": "Wedding",
		"status": "signed", "signed_date": "2024-06-09T10:00:00+00:00",
		"created_at": "2024-06-01T08:00:00+00:00"
	}]`)

	contracts, err := NewAdapter(srv.URL, "anon", "").ListContracts(context.Background())
	require.NoError(t, err)
	require.Len(t, contracts, 1)

	c := contracts[0]
	assert.Equal(t, model.ID("3"), c.ID)
	assert.Equal(t, "C-3", c.ContractNumber)
	assert.Equal(t, model.ContractStatusSigned, c.Status)
	assert.False(t, c.SignedDate.IsZero())
}

func TestListBookingsEmbedsEvent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("select"), "event:events(id,name)")
		assert.Equal(t, "Bearer user-jwt", r.Header.Get("Authorization"))
		w.Write([]byte(`[{
			"id": "b1", "created_at": "2024-06-09T12:00:00Z",
			"total_price": "1200.00", "total_amount_paid": 1200,
			"payment_status": "paid", "event": {"id": 9, "name": "Gala"}
		}]`)) //nolint:errcheck
	}))
	defer srv.Close()

	bookings, err := NewAdapter(srv.URL, "anon", "user-jwt").ListBookings(context.Background())
	require.NoError(t, err)
	require.Len(t, bookings, 1)

	b := bookings[0]
	assert.Equal(t, model.Amount(1200), b.TotalPrice)
	assert.Equal(t, model.PaymentStatusPaid, b.PaymentStatus)
	require.NotNil(t, b.Event)
	assert.Equal(t, model.ID("9"), b.Event.ID)
}

func TestListEventsOptionalStartTime(t *testing.T) {
	srv := newTestServer(t, "events", `[
		{"id": 1, "name": "A", "date": "2024-06-10", "start_time": "19:30"},
		{"id": 2, "name": "B", "date": "2024-06-11", "start_time": null}
	]`)

	events, err := NewAdapter(srv.URL, "anon", "").ListEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "19:30", events[0].StartTime)
	assert.Equal(t, "", events[1].StartTime)
}

func TestPostgrestErrorIsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code": "42P01", "message": "relation \"public.invoices\" does not exist"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	_, err := NewAdapter(srv.URL, "anon", "").ListInvoices(context.Background())
	require.Error(t, err)
	assert.True(t, source.IsStatus(err, http.StatusNotFound))
	assert.Contains(t, err.Error(), "42P01")
}

func TestUnauthorizedIsAuthError(t *testing.T) {
	srv := newTestServer(t, "intake_forms", `[]`)

	_, err := NewAdapter(srv.URL, "wrong", "").ListIntakeForms(context.Background())
	require.Error(t, err)
	assert.True(t, source.IsAuthError(err))
}

func TestClientHasNoFixedTimeout(t *testing.T) {
	c := NewClient("https://abc.supabase.co", "anon", "")
	assert.Zero(t, c.httpClient.Timeout)
}
