package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBookingFromMixedPayload(t *testing.T) {
	payload := `{
		"id": 42,
		"createdAt": "2024-06-09T10:00:00Z",
		"totalPrice": "1250.50",
		"totalAmountPaid": 300,
		"paymentStatus": "paid",
		"event": {"id": "e-1", "name": "Gala"}
	}`

	var b Booking
	require.NoError(t, json.Unmarshal([]byte(payload), &b))

	assert.Equal(t, ID("42"), b.ID)
	assert.Equal(t, Amount(1250.50), b.TotalPrice)
	assert.Equal(t, Amount(300), b.TotalAmountPaid)
	assert.False(t, b.CreatedAt.DateOnly)
	assert.True(t, b.CreatedAt.Equal(time.Date(2024, 6, 9, 10, 0, 0, 0, time.UTC)))
	require.NotNil(t, b.Event)
	assert.Equal(t, "Gala", b.Event.Name)
}

func TestDecodeTimestampFormats(t *testing.T) {
	tests := []struct {
		in       string
		dateOnly bool
		want     time.Time
	}{
		{"2024-06-10", true, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)},
		{"2024-06-10T09:30:00Z", false, time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)},
		{"2024-06-10T09:30:00.123+00:00", false, time.Date(2024, 6, 10, 9, 30, 0, 123000000, time.UTC)},
		{"2024-06-10 09:30:00+00", false, time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)},
		{"2024-06-10T09:30:00", false, time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			ts, err := ParseTimestamp(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.dateOnly, ts.DateOnly)
			assert.True(t, ts.Equal(tt.want), "got %s, want %s", ts.Time, tt.want)
		})
	}
}

func TestDecodeRejectsMalformedPayload(t *testing.T) {
	var inv Invoice
	err := json.Unmarshal([]byte(`{"id": 1, "due_date": "next tuesday"}`), &inv)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"id": 1, "total_amount": "12,00"}`), &inv)
	assert.Error(t, err)
}

func TestTimestampNullIsZero(t *testing.T) {
	var c Contract
	require.NoError(t, json.Unmarshal([]byte(`{"id": "c1", "signedDate": null}`), &c))
	assert.True(t, c.SignedDate.IsZero())
}

func TestTimestampDayDateOnlyIgnoresZone(t *testing.T) {
	loc := time.FixedZone("UTC-7", -7*3600)
	got := Date(2024, 6, 10).Day(loc)
	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, loc), got)

	// A full timestamp is converted before taking the day.
	got = At(time.Date(2024, 6, 10, 3, 0, 0, 0, time.UTC)).Day(loc)
	assert.Equal(t, time.Date(2024, 6, 9, 0, 0, 0, 0, loc), got)
}
