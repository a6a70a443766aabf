package synth

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/nhle/venuedesk/internal/model"
)

// formatMoney renders an amount as "$1,234.50".
func formatMoney(a model.Amount) string {
	return "$" + humanize.FormatFloat("#,###.##", float64(a))
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func statusIs(status, want string) bool {
	return strings.EqualFold(strings.TrimSpace(status), want)
}

// Events emits event-today for events on now's calendar day and
// event-upcoming for events 1..UpcomingDays calendar days ahead. The two
// are mutually exclusive per event.
func Events(events []model.Event, now time.Time, w Windows) []model.Notification {
	today := startOfDay(now)

	var out []model.Notification
	for _, e := range events {
		if e.ID == "" || e.Date.IsZero() {
			continue
		}

		// Event days are midnights, so the calendar-day difference equals
		// the ceiling of the fractional difference from now.
		days := daysBetween(today, e.Date.Day(now.Location()))

		switch {
		case days == 0:
			msg := e.Name + " is today"
			if e.StartTime != "" {
				msg += " at " + e.StartTime
			}
			out = append(out, model.Notification{
				ID:        model.NotificationID(model.NotificationEventToday, e.ID),
				Type:      model.NotificationEventToday,
				Title:     "Event Today",
				Message:   msg,
				Link:      "/events/" + string(e.ID),
				CreatedAt: now,
				EventID:   string(e.ID),
			})

		case days > 0 && days <= w.UpcomingDays:
			out = append(out, model.Notification{
				ID:        model.NotificationID(model.NotificationEventUpcoming, e.ID),
				Type:      model.NotificationEventUpcoming,
				Title:     "Upcoming Event",
				Message:   fmt.Sprintf("%s is in %s", e.Name, plural(days, "day")),
				Link:      "/events/" + string(e.ID),
				CreatedAt: now,
				DaysUntil: days,
				EventID:   string(e.ID),
			})
		}
	}
	return out
}

// IntakeForms emits new-client for forms still in status "new" that were
// created within the NewClient window.
func IntakeForms(forms []model.IntakeForm, now time.Time, w Windows) []model.Notification {
	var out []model.Notification
	for _, f := range forms {
		if f.ID == "" || !statusIs(f.Status, model.IntakeStatusNew) {
			continue
		}
		if !within(f.CreatedAt, now, w.NewClient) {
			continue
		}

		msg := f.ContactName + " submitted an inquiry"
		if f.EventType != "" {
			msg += " for " + f.EventType
		}
		out = append(out, model.Notification{
			ID:           model.NotificationID(model.NotificationNewClient, f.ID),
			Type:         model.NotificationNewClient,
			Title:        "New Client Inquiry",
			Message:      msg,
			Link:         "/clients/" + string(f.ID),
			CreatedAt:    f.CreatedAt.Time,
			IntakeFormID: string(f.ID),
		})
	}
	return out
}

// Invoices emits invoice-overdue for invoices marked overdue, and for sent
// invoices whose due date is before today.
func Invoices(invoices []model.Invoice, now time.Time, w Windows) []model.Notification {
	today := startOfDay(now)

	var out []model.Notification
	for _, inv := range invoices {
		if inv.ID == "" {
			continue
		}

		overdue := statusIs(inv.Status, model.InvoiceStatusOverdue)
		if !overdue && statusIs(inv.Status, model.InvoiceStatusSent) && !inv.DueDate.IsZero() {
			overdue = inv.DueDate.Day(now.Location()).Before(today)
		}
		if !overdue {
			continue
		}

		number := inv.InvoiceNumber
		if number == "" {
			number = string(inv.ID)
		}
		out = append(out, model.Notification{
			ID:        model.NotificationID(model.NotificationInvoiceOverdue, inv.ID),
			Type:      model.NotificationInvoiceOverdue,
			Title:     "Invoice Overdue",
			Message:   fmt.Sprintf("Invoice #%s for %s is overdue", number, formatMoney(inv.TotalAmount)),
			Link:      "/invoices/" + string(inv.ID),
			CreatedAt: now,
			InvoiceID: string(inv.ID),
		})
	}
	return out
}

// Contracts emits contract-signed for contracts signed within the
// ContractSigned window.
func Contracts(contracts []model.Contract, now time.Time, w Windows) []model.Notification {
	var out []model.Notification
	for _, c := range contracts {
		if c.ID == "" || !statusIs(c.Status, model.ContractStatusSigned) {
			continue
		}
		if !within(c.SignedDate, now, w.ContractSigned) {
			continue
		}

		msg := c.Title + " was signed"
		if c.ContractNumber != "" {
			msg = fmt.Sprintf("%s (#%s) was signed", c.Title, c.ContractNumber)
		}
		out = append(out, model.Notification{
			ID:         model.NotificationID(model.NotificationContractSigned, c.ID),
			Type:       model.NotificationContractSigned,
			Title:      "Contract Signed",
			Message:    msg,
			Link:       "/contracts/" + string(c.ID),
			CreatedAt:  c.SignedDate.Time,
			ContractID: string(c.ID),
		})
	}
	return out
}

// Bookings emits new-booking for bookings created within the NewBooking
// window, and payment-received for paid bookings with a positive amount
// paid, limited to the first PaymentReceivedCap of those.
func Bookings(bookings []model.Booking, now time.Time, w Windows) []model.Notification {
	var out []model.Notification
	for _, b := range bookings {
		if b.ID == "" || !within(b.CreatedAt, now, w.NewBooking) {
			continue
		}
		n := model.Notification{
			ID:        model.NotificationID(model.NotificationNewBooking, b.ID),
			Type:      model.NotificationNewBooking,
			Title:     "New Booking",
			Message:   fmt.Sprintf("New booking for %s totaling %s", bookingSubject(b), formatMoney(b.TotalPrice)),
			Link:      "/bookings/" + string(b.ID),
			CreatedAt: b.CreatedAt.Time,
			BookingID: string(b.ID),
		}
		if b.Event != nil {
			n.EventID = string(b.Event.ID)
		}
		out = append(out, n)
	}

	paid := 0
	for _, b := range bookings {
		if w.PaymentReceivedCap > 0 && paid >= w.PaymentReceivedCap {
			break
		}
		if b.ID == "" || b.TotalAmountPaid <= 0 || !statusIs(b.PaymentStatus, model.PaymentStatusPaid) {
			continue
		}
		paid++
		n := model.Notification{
			ID:        model.NotificationID(model.NotificationPaymentReceived, b.ID),
			Type:      model.NotificationPaymentReceived,
			Title:     "Payment Received",
			Message:   fmt.Sprintf("Payment of %s received for %s", formatMoney(b.TotalAmountPaid), bookingSubject(b)),
			Link:      "/bookings/" + string(b.ID),
			CreatedAt: now,
			BookingID: string(b.ID),
		}
		if b.Event != nil {
			n.EventID = string(b.Event.ID)
		}
		out = append(out, n)
	}
	return out
}

func bookingSubject(b model.Booking) string {
	if b.Event != nil && b.Event.Name != "" {
		return b.Event.Name
	}
	return "booking #" + string(b.ID)
}
