package supabase

import (
	"context"
	"fmt"

	"github.com/nhle/venuedesk/internal/model"
	"github.com/nhle/venuedesk/internal/source"
)

// Table names in the Supabase schema.
const (
	tableEvents      = "events"
	tableIntakeForms = "intake_forms"
	tableInvoices    = "invoices"
	tableContracts   = "contracts"
	tableBookings    = "bookings"
)

// Adapter implements source.Backend against a Supabase project.
type Adapter struct {
	client *Client
}

var _ source.Backend = (*Adapter)(nil)

// NewAdapter creates a Supabase backend adapter.
func NewAdapter(projectURL, anonKey, accessToken string) *Adapter {
	return &Adapter{client: NewClient(projectURL, anonKey, accessToken)}
}

// Name returns "supabase".
func (a *Adapter) Name() string { return "supabase" }

// selectRows reads table and maps each row onto its model record.
func selectRows[R any, M any](
	ctx context.Context,
	c *Client,
	table, columns string,
	conv func(R) M,
) ([]M, error) {
	var rows []R
	if err := c.Select(ctx, table, columns, &rows); err != nil {
		return nil, err
	}
	out := make([]M, len(rows))
	for i, r := range rows {
		out[i] = conv(r)
	}
	return out, nil
}

// ListEvents reads the events table.
func (a *Adapter) ListEvents(ctx context.Context) ([]model.Event, error) {
	events, err := selectRows(ctx, a.client, tableEvents, "id,name,date,start_time", eventRow.toModel)
	if err != nil {
		return nil, fmt.Errorf("supabase.ListEvents: %w", err)
	}
	return events, nil
}

// ListIntakeForms reads the intake_forms table.
func (a *Adapter) ListIntakeForms(ctx context.Context) ([]model.IntakeForm, error) {
	forms, err := selectRows(ctx, a.client, tableIntakeForms,
		"id,contact_name,event_type,status,created_at", intakeFormRow.toModel)
	if err != nil {
		return nil, fmt.Errorf("supabase.ListIntakeForms: %w", err)
	}
	return forms, nil
}

// ListInvoices reads the invoices table.
func (a *Adapter) ListInvoices(ctx context.Context) ([]model.Invoice, error) {
	invoices, err := selectRows(ctx, a.client, tableInvoices,
		"id,invoice_number,status,due_date,total_amount", invoiceRow.toModel)
	if err != nil {
		return nil, fmt.Errorf("supabase.ListInvoices: %w", err)
	}
	return invoices, nil
}

// ListContracts reads the contracts table.
func (a *Adapter) ListContracts(ctx context.Context) ([]model.Contract, error) {
	contracts, err := selectRows(ctx, a.client, tableContracts,
		"id,contract_number,title,status,signed_date,created_at", contractRow.toModel)
	if err != nil {
		return nil, fmt.Errorf("supabase.ListContracts: %w", err)
	}
	return contracts, nil
}

// ListBookings reads the bookings table with the booked event embedded.
func (a *Adapter) ListBookings(ctx context.Context) ([]model.Booking, error) {
	bookings, err := selectRows(ctx, a.client, tableBookings,
		"id,created_at,total_price,total_amount_paid,payment_status,event:events(id,name)",
		bookingRow.toModel)
	if err != nil {
		return nil, fmt.Errorf("supabase.ListBookings: %w", err)
	}
	return bookings, nil
}
