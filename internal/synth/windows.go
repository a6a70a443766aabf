// Package synth turns backend records into notification drafts. Every rule
// is a pure function of its input records, a reference time and a Windows
// value; nothing here reads the clock or performs I/O.
package synth

import (
	"time"

	"github.com/nhle/venuedesk/internal/model"
)

// Windows holds the recency windows and limits applied by the rules.
type Windows struct {
	// UpcomingDays is how many calendar days ahead an event counts as upcoming.
	UpcomingDays int

	NewClient      time.Duration
	ContractSigned time.Duration
	NewBooking     time.Duration

	// PaymentReceivedCap limits payment-received drafts per pass to the first
	// N qualifying bookings in backend order. Zero or negative means no cap.
	PaymentReceivedCap int
}

// DefaultWindows returns the production windows.
func DefaultWindows() Windows {
	return Windows{
		UpcomingDays:       7,
		NewClient:          24 * time.Hour,
		ContractSigned:     48 * time.Hour,
		NewBooking:         48 * time.Hour,
		PaymentReceivedCap: 3,
	}
}

// WindowsFromConfig converts the configured hours and days.
func WindowsFromConfig(c model.WindowsConfig) Windows {
	return Windows{
		UpcomingDays:       c.UpcomingDays,
		NewClient:          time.Duration(c.NewClientHours) * time.Hour,
		ContractSigned:     time.Duration(c.ContractSignedHours) * time.Hour,
		NewBooking:         time.Duration(c.NewBookingHours) * time.Hour,
		PaymentReceivedCap: c.PaymentReceivedCap,
	}
}

// startOfDay returns midnight of t's calendar day in t's location.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween returns the whole number of calendar days from a to b. Both
// must be midnights; the difference is computed on civil dates so DST
// transitions do not skew it.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua) / (24 * time.Hour))
}

// within reports whether ts lies in (now-window, now]. Future timestamps
// are not recent.
func within(ts model.Timestamp, now time.Time, window time.Duration) bool {
	if ts.IsZero() || ts.Time.After(now) {
		return false
	}
	return ts.Time.After(now.Add(-window))
}
