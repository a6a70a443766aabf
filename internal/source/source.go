package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/venuedesk/internal/model"
)

// Kind identifies one backend collection feeding the notification rules.
type Kind string

const (
	KindEvents      Kind = "events"
	KindIntakeForms Kind = "intake-forms"
	KindInvoices    Kind = "invoices"
	KindContracts   Kind = "contracts"
	KindBookings    Kind = "bookings"
)

// Kinds lists every source in the order a pass concatenates them.
var Kinds = []Kind{
	KindEvents,
	KindIntakeForms,
	KindInvoices,
	KindContracts,
	KindBookings,
}

// AuthError indicates that authentication has failed or expired for the
// backend. It is returned by clients when a 401 response is received.
type AuthError struct {
	Backend string
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%s): %s", e.Backend, e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// StatusError is returned for any other non-2xx response.
type StatusError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d on %s %s: %s", e.StatusCode, e.Method, e.Path, e.Body)
}

// IsStatus reports whether err carries the given HTTP status code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == code
	}
	return false
}

// Backend defines the read-only contract every booking backend integration
// must implement. Each method performs exactly one network call.
type Backend interface {
	// Name returns the backend identifier used in logs.
	Name() string

	// ListEvents returns all events.
	ListEvents(ctx context.Context) ([]model.Event, error)

	// ListIntakeForms returns all client intake forms.
	ListIntakeForms(ctx context.Context) ([]model.IntakeForm, error)

	// ListInvoices returns all invoices.
	ListInvoices(ctx context.Context) ([]model.Invoice, error)

	// ListContracts returns all contracts.
	ListContracts(ctx context.Context) ([]model.Contract, error)

	// ListBookings returns all bookings.
	ListBookings(ctx context.Context) ([]model.Booking, error)
}
