package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/venuedesk/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for the panel title bar.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// ErrorStyle renders failures in the status bar.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorRed).
	Bold(true)

// PanelStyle wraps the help overlay.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// SelectedItemStyle highlights the focused notification.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// ListItemStyle is the base style for unfocused notifications.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// ReadItemStyle dims acknowledged notifications.
var ReadItemStyle = lipgloss.NewStyle().
	PaddingLeft(2).
	Foreground(ColorGray)

// MetaStyle is used for the message and age line under a title.
var MetaStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// UnreadMarkerStyle colors the dot shown next to unread notifications.
var UnreadMarkerStyle = lipgloss.NewStyle().
	Foreground(ColorBlue).
	Bold(true)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// TypeStyle returns a color-coded style for a notification type label.
func TypeStyle(t model.NotificationType) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch t {
	case model.NotificationEventToday:
		return base.Foreground(ColorOrange)
	case model.NotificationEventUpcoming:
		return base.Foreground(ColorBlue)
	case model.NotificationNewClient:
		return base.Foreground(ColorMagenta)
	case model.NotificationInvoiceOverdue:
		return base.Foreground(ColorRed)
	case model.NotificationContractSigned, model.NotificationPaymentReceived:
		return base.Foreground(ColorGreen)
	case model.NotificationNewBooking:
		return base.Foreground(ColorYellow)
	default:
		return base.Foreground(ColorGray)
	}
}

// TypeLabel returns the short label shown in front of a notification.
func TypeLabel(t model.NotificationType) string {
	switch t {
	case model.NotificationEventToday:
		return "today"
	case model.NotificationEventUpcoming:
		return "upcoming"
	case model.NotificationNewClient:
		return "client"
	case model.NotificationInvoiceOverdue:
		return "overdue"
	case model.NotificationContractSigned:
		return "signed"
	case model.NotificationNewBooking:
		return "booking"
	case model.NotificationPaymentReceived:
		return "payment"
	default:
		return string(t)
	}
}
