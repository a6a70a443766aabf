package model

// Event is a scheduled event at the venue.
type Event struct {
	ID        ID        `json:"id"`
	Name      string    `json:"name"`
	Date      Timestamp `json:"date"`
	StartTime string    `json:"startTime,omitempty"`
}

// Intake form statuses.
const (
	IntakeStatusNew = "new"
)

// IntakeForm is an inquiry submitted by a prospective client.
type IntakeForm struct {
	ID          ID        `json:"id"`
	ContactName string    `json:"contact_name"`
	EventType   string    `json:"event_type"`
	Status      string    `json:"status"`
	CreatedAt   Timestamp `json:"created_at"`
}

// Invoice statuses.
const (
	InvoiceStatusSent    = "sent"
	InvoiceStatusOverdue = "overdue"
)

// Invoice is a bill issued to a client.
type Invoice struct {
	ID            ID        `json:"id"`
	InvoiceNumber string    `json:"invoice_number"`
	Status        string    `json:"status"`
	DueDate       Timestamp `json:"due_date"`
	TotalAmount   Amount    `json:"total_amount"`
}

// Contract statuses.
const (
	ContractStatusSigned = "signed"
)

// Contract is an agreement sent to a client for signature.
type Contract struct {
	ID             ID        `json:"id"`
	ContractNumber string    `json:"contractNumber"`
	Title          string    `json:"title"`
	Status         string    `json:"status"`
	SignedDate     Timestamp `json:"signedDate"`
	CreatedAt      Timestamp `json:"createdAt"`
}

// Booking payment statuses.
const (
	PaymentStatusPaid = "paid"
)

// BookingEvent is the event summary embedded in a booking.
type BookingEvent struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Booking is a reservation placed through the customer portal.
type Booking struct {
	ID              ID            `json:"id"`
	CreatedAt       Timestamp     `json:"createdAt"`
	TotalPrice      Amount        `json:"totalPrice"`
	TotalAmountPaid Amount        `json:"totalAmountPaid"`
	PaymentStatus   string        `json:"paymentStatus"`
	Event           *BookingEvent `json:"event,omitempty"`
}
