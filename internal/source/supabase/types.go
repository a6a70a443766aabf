package supabase

import "github.com/nhle/venuedesk/internal/model"

// Row shapes as stored in the Supabase tables. Column names are snake_case
// throughout, unlike the REST API which mixes conventions.

type eventRow struct {
	ID        model.ID        `json:"id"`
	Name      string          `json:"name"`
	Date      model.Timestamp `json:"date"`
	StartTime *string         `json:"start_time"`
}

type intakeFormRow struct {
	ID          model.ID        `json:"id"`
	ContactName string          `json:"contact_name"`
	EventType   string          `json:"event_type"`
	Status      string          `json:"status"`
	CreatedAt   model.Timestamp `json:"created_at"`
}

type invoiceRow struct {
	ID            model.ID        `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	Status        string          `json:"status"`
	DueDate       model.Timestamp `json:"due_date"`
	TotalAmount   model.Amount    `json:"total_amount"`
}

type contractRow struct {
	ID             model.ID        `json:"id"`
	ContractNumber string          `json:"contract_number"`
	Title          string          `json:"title"`
	Status         string          `json:"status"`
	SignedDate     model.Timestamp `json:"signed_date"`
	CreatedAt      model.Timestamp `json:"created_at"`
}

type bookingEventRow struct {
	ID   model.ID `json:"id"`
	Name string   `json:"name"`
}

type bookingRow struct {
	ID              model.ID         `json:"id"`
	CreatedAt       model.Timestamp  `json:"created_at"`
	TotalPrice      model.Amount     `json:"total_price"`
	TotalAmountPaid model.Amount     `json:"total_amount_paid"`
	PaymentStatus   string           `json:"payment_status"`
	Event           *bookingEventRow `json:"event"`
}

func (r eventRow) toModel() model.Event {
	e := model.Event{ID: r.ID, Name: r.Name, Date: r.Date}
	if r.StartTime != nil {
		e.StartTime = *r.StartTime
	}
	return e
}

func (r intakeFormRow) toModel() model.IntakeForm {
	return model.IntakeForm(r)
}

func (r invoiceRow) toModel() model.Invoice {
	return model.Invoice(r)
}

func (r contractRow) toModel() model.Contract {
	return model.Contract(r)
}

func (r bookingRow) toModel() model.Booking {
	b := model.Booking{
		ID:              r.ID,
		CreatedAt:       r.CreatedAt,
		TotalPrice:      r.TotalPrice,
		TotalAmountPaid: r.TotalAmountPaid,
		PaymentStatus:   r.PaymentStatus,
	}
	if r.Event != nil {
		b.Event = &model.BookingEvent{ID: r.Event.ID, Name: r.Event.Name}
	}
	return b
}
