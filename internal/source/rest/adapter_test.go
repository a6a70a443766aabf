package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/venuedesk/internal/model"
	"github.com/nhle/venuedesk/internal/source"
)

func TestListEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/events" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`[{"id": 1, "name": "Gala", "date": "2024-06-10", "startTime": "18:00"}]`)) //nolint:errcheck
	}))
	defer srv.Close()

	a := NewAdapter(srv.URL+"/api/", "test-token")
	events, err := a.ListEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, model.ID("1"), events[0].ID)
	assert.Equal(t, "Gala", events[0].Name)
	assert.Equal(t, "18:00", events[0].StartTime)
	assert.True(t, events[0].Date.DateOnly)
}

func TestListBookingsAndInvoices(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/bookings", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[{"id": "b1", "createdAt": "2024-06-09T12:00:00Z", "totalPrice": 500, "totalAmountPaid": 0, "paymentStatus": "pending"}]`)) //nolint:errcheck
	})
	mux.HandleFunc("/invoices", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[{"id": 7, "invoice_number": "INV-7", "status": "sent", "due_date": "2024-06-01", "total_amount": "99.95"}]`)) //nolint:errcheck
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a := NewAdapter(srv.URL, "")

	bookings, err := a.ListBookings(context.Background())
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, model.Amount(500), bookings[0].TotalPrice)
	assert.Nil(t, bookings[0].Event)

	invoices, err := a.ListInvoices(context.Background())
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, "INV-7", invoices[0].InvoiceNumber)
	assert.Equal(t, model.Amount(99.95), invoices[0].TotalAmount)
}

func TestUnauthorizedIsAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewAdapter(srv.URL, "bad").ListContracts(context.Background())
	require.Error(t, err)
	assert.True(t, source.IsAuthError(err), "err = %v", err)
}

func TestServerErrorIsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewAdapter(srv.URL, "").ListIntakeForms(context.Background())
	require.Error(t, err)
	assert.True(t, source.IsStatus(err, http.StatusBadGateway), "err = %v", err)
}

func TestMalformedPayloadIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"not": "an array"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	_, err := NewAdapter(srv.URL, "").ListEvents(context.Background())
	assert.Error(t, err)
}

func TestRateLimitedIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewAdapter(srv.URL, "").ListEvents(context.Background())
	require.Error(t, err)
	assert.True(t, source.IsStatus(err, http.StatusTooManyRequests))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRequestBoundedByContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewAdapter(srv.URL, "").ListEvents(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestClientHasNoFixedTimeout(t *testing.T) {
	c := NewClient("http://localhost", "")
	assert.Zero(t, c.httpClient.Timeout)
}
