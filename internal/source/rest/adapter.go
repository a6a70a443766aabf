package rest

import (
	"context"
	"fmt"

	"github.com/nhle/venuedesk/internal/model"
	"github.com/nhle/venuedesk/internal/source"
)

// Adapter implements source.Backend against the booking REST API:
// GET /events, /intake-forms, /invoices, /contracts and /bookings.
type Adapter struct {
	client *Client
}

var _ source.Backend = (*Adapter)(nil)

// NewAdapter creates a REST backend adapter.
func NewAdapter(baseURL, token string) *Adapter {
	return &Adapter{client: NewClient(baseURL, token)}
}

// Name returns "rest".
func (a *Adapter) Name() string { return "rest" }

// ListEvents fetches GET /events.
func (a *Adapter) ListEvents(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	if err := a.client.Get(ctx, "/"+string(source.KindEvents), &events); err != nil {
		return nil, fmt.Errorf("rest.ListEvents: %w", err)
	}
	return events, nil
}

// ListIntakeForms fetches GET /intake-forms.
func (a *Adapter) ListIntakeForms(ctx context.Context) ([]model.IntakeForm, error) {
	var forms []model.IntakeForm
	if err := a.client.Get(ctx, "/"+string(source.KindIntakeForms), &forms); err != nil {
		return nil, fmt.Errorf("rest.ListIntakeForms: %w", err)
	}
	return forms, nil
}

// ListInvoices fetches GET /invoices.
func (a *Adapter) ListInvoices(ctx context.Context) ([]model.Invoice, error) {
	var invoices []model.Invoice
	if err := a.client.Get(ctx, "/"+string(source.KindInvoices), &invoices); err != nil {
		return nil, fmt.Errorf("rest.ListInvoices: %w", err)
	}
	return invoices, nil
}

// ListContracts fetches GET /contracts.
func (a *Adapter) ListContracts(ctx context.Context) ([]model.Contract, error) {
	var contracts []model.Contract
	if err := a.client.Get(ctx, "/"+string(source.KindContracts), &contracts); err != nil {
		return nil, fmt.Errorf("rest.ListContracts: %w", err)
	}
	return contracts, nil
}

// ListBookings fetches GET /bookings.
func (a *Adapter) ListBookings(ctx context.Context) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := a.client.Get(ctx, "/"+string(source.KindBookings), &bookings); err != nil {
		return nil, fmt.Errorf("rest.ListBookings: %w", err)
	}
	return bookings, nil
}
