package model

import "time"

// NotificationType is the category of a synthesized notification.
type NotificationType string

const (
	NotificationEventToday      NotificationType = "event-today"
	NotificationEventUpcoming   NotificationType = "event-upcoming"
	NotificationNewClient       NotificationType = "new-client"
	NotificationInvoiceOverdue  NotificationType = "invoice-overdue"
	NotificationContractSigned  NotificationType = "contract-signed"
	NotificationNewBooking      NotificationType = "new-booking"
	NotificationPaymentReceived NotificationType = "payment-received"
)

// NotificationID returns the stable identifier for the fact that entity id
// produced a notification of type t. The same fact always maps to the same ID
// across passes.
func NotificationID(t NotificationType, entityID ID) string {
	return string(t) + "-" + string(entityID)
}

// Notification represents an alert surfaced to the user about activity on
// an event, client, invoice, contract or booking. Notifications are
// recomputed on every pass; only Read is carried over, by ID.
type Notification struct {
	// ID is "{type}-{sourceEntityId}".
	ID string `json:"id"`

	Type    NotificationType `json:"type"`
	Title   string           `json:"title"`
	Message string           `json:"message"`

	// Read is merged in from the local read-state, never from the backend.
	Read bool `json:"read"`

	// Link is the dashboard route of the originating entity.
	Link string `json:"link"`

	// CreatedAt orders notifications newest first. It is the entity's own
	// timestamp when one exists, otherwise the pass time.
	CreatedAt time.Time `json:"createdAt"`

	// DaysUntil is set on event-upcoming notifications.
	DaysUntil int `json:"daysUntil,omitempty"`

	// Weak back-references, for navigation only.
	EventID      string `json:"eventId,omitempty"`
	BookingID    string `json:"bookingId,omitempty"`
	InvoiceID    string `json:"invoiceId,omitempty"`
	ContractID   string `json:"contractId,omitempty"`
	IntakeFormID string `json:"intakeFormId,omitempty"`
}

// SourceStatus holds the outcome of the last fetch of one source.
type SourceStatus struct {
	Source    string    `json:"source"`
	OK        bool      `json:"ok"`
	Records   int       `json:"records"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Snapshot is the published result of the most recent pass.
type Snapshot struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unreadCount"`
	Loading       bool           `json:"loading"`
	PassID        string         `json:"passId,omitempty"`
	RefreshedAt   time.Time      `json:"refreshedAt"`
	Sources       []SourceStatus `json:"sources,omitempty"`
}

// CountUnread returns the number of notifications with Read unset.
func CountUnread(ns []Notification) int {
	n := 0
	for _, x := range ns {
		if !x.Read {
			n++
		}
	}
	return n
}
