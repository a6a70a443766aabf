package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/nhle/venuedesk/internal/model"
	"github.com/nhle/venuedesk/internal/source"
)

// RefNow is the reference instant the fixtures in ReferenceBackend are
// written against.
var RefNow = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

// ReferenceOrder lists the notification IDs a pass over ReferenceBackend at
// RefNow produces, newest first.
var ReferenceOrder = []string{
	"event-today-e1",
	"event-upcoming-e2",
	"invoice-overdue-i1",
	"payment-received-b1",
	"new-client-f1",
	"contract-signed-c1",
	"new-booking-b1",
}

// Backend is an in-memory source.Backend. Records are returned as set;
// errors, hangs and a shared gate can be injected per kind.
type Backend struct {
	Events      []model.Event
	IntakeForms []model.IntakeForm
	Invoices    []model.Invoice
	Contracts   []model.Contract
	Bookings    []model.Booking

	mu    sync.Mutex
	errs  map[source.Kind]error
	hangs map[source.Kind]bool
	calls map[source.Kind]int
	gate  chan struct{}
}

// NewBackend returns an empty Backend.
func NewBackend() *Backend {
	return &Backend{
		errs:  make(map[source.Kind]error),
		hangs: make(map[source.Kind]bool),
		calls: make(map[source.Kind]int),
	}
}

// ReferenceBackend returns a Backend holding one qualifying record of every
// kind relative to RefNow.
func ReferenceBackend() *Backend {
	b := NewBackend()
	b.Events = []model.Event{
		{ID: "e1", Name: "Gala", Date: model.Date(2024, time.June, 10), StartTime: "18:00"},
		{ID: "e2", Name: "Brunch", Date: model.Date(2024, time.June, 13)},
		{ID: "e3", Name: "Retreat", Date: model.Date(2024, time.July, 1)},
	}
	b.IntakeForms = []model.IntakeForm{
		{ID: "f1", ContactName: "Ana", EventType: "Wedding", Status: "new",
			CreatedAt: model.At(RefNow.Add(-2 * time.Hour))},
		{ID: "f2", ContactName: "Bo", EventType: "Party", Status: "contacted",
			CreatedAt: model.At(RefNow.Add(-time.Hour))},
	}
	b.Invoices = []model.Invoice{
		{ID: "i1", InvoiceNumber: "INV-1", Status: "overdue",
			DueDate: model.Date(2024, time.June, 1), TotalAmount: 1234.5},
		{ID: "i2", InvoiceNumber: "INV-2", Status: "paid",
			DueDate: model.Date(2024, time.June, 1), TotalAmount: 10},
	}
	b.Contracts = []model.Contract{
		{ID: "c1", ContractNumber: "C-1", Title: "Wedding", Status: "signed",
			SignedDate: model.At(RefNow.Add(-21 * time.Hour)), CreatedAt: model.At(RefNow.AddDate(0, 0, -5))},
	}
	b.Bookings = []model.Booking{
		{ID: "b1", CreatedAt: model.At(RefNow.Add(-24 * time.Hour)), TotalPrice: 2500,
			TotalAmountPaid: 50, PaymentStatus: "paid", Event: &model.BookingEvent{ID: "e1", Name: "Gala"}},
	}
	return b
}

// SetError makes every fetch of kind fail with err. A nil err clears it.
func (b *Backend) SetError(kind source.Kind, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		delete(b.errs, kind)
		return
	}
	b.errs[kind] = err
}

// Hang makes fetches of kind block until their context is done.
func (b *Backend) Hang(kind source.Kind) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hangs[kind] = true
}

// Gate makes every subsequent fetch wait until the returned function is
// called.
func (b *Backend) Gate() (release func()) {
	ch := make(chan struct{})
	b.mu.Lock()
	b.gate = ch
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			if b.gate == ch {
				b.gate = nil
			}
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Calls returns how many times kind has been fetched.
func (b *Backend) Calls(kind source.Kind) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[kind]
}

func (b *Backend) enter(ctx context.Context, kind source.Kind) error {
	b.mu.Lock()
	b.calls[kind]++
	gate := b.gate
	hang := b.hangs[kind]
	err := b.errs[kind]
	b.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if hang {
		<-ctx.Done()
		return ctx.Err()
	}
	return err
}

func (b *Backend) Name() string { return "memory" }

func (b *Backend) ListEvents(ctx context.Context) ([]model.Event, error) {
	if err := b.enter(ctx, source.KindEvents); err != nil {
		return nil, err
	}
	return append([]model.Event(nil), b.Events...), nil
}

func (b *Backend) ListIntakeForms(ctx context.Context) ([]model.IntakeForm, error) {
	if err := b.enter(ctx, source.KindIntakeForms); err != nil {
		return nil, err
	}
	return append([]model.IntakeForm(nil), b.IntakeForms...), nil
}

func (b *Backend) ListInvoices(ctx context.Context) ([]model.Invoice, error) {
	if err := b.enter(ctx, source.KindInvoices); err != nil {
		return nil, err
	}
	return append([]model.Invoice(nil), b.Invoices...), nil
}

func (b *Backend) ListContracts(ctx context.Context) ([]model.Contract, error) {
	if err := b.enter(ctx, source.KindContracts); err != nil {
		return nil, err
	}
	return append([]model.Contract(nil), b.Contracts...), nil
}

func (b *Backend) ListBookings(ctx context.Context) ([]model.Booking, error) {
	if err := b.enter(ctx, source.KindBookings); err != nil {
		return nil, err
	}
	return append([]model.Booking(nil), b.Bookings...), nil
}

var _ source.Backend = (*Backend)(nil)
