package panel

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/nhle/venuedesk/internal/model"
	"github.com/nhle/venuedesk/internal/theme"
)

// Item wraps a model.Notification so it can be used in a bubbles/list.
type Item struct {
	Notification model.Notification
}

// FilterValue returns the string used for fuzzy filtering.
func (i Item) FilterValue() string { return i.Notification.Title }

// Title returns the notification title.
func (i Item) Title() string { return i.Notification.Title }

// Description returns the notification message.
func (i Item) Description() string { return i.Notification.Message }

// Age renders how long ago the notification was created relative to now.
func Age(createdAt, now time.Time) string {
	if createdAt.IsZero() {
		return ""
	}
	if now.Sub(createdAt) < time.Minute && createdAt.Sub(now) < time.Minute {
		return "now"
	}
	return humanize.RelTime(createdAt, now, "ago", "from now")
}

// ItemDelegate renders one notification over two lines.
type ItemDelegate struct {
	// Now is the reference time for ages.
	Now func() time.Time
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 1 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a notification: marker, type label and title, then the
// message and its age.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(Item)
	if !ok {
		return
	}
	n := it.Notification

	marker := " "
	if !n.Read {
		marker = theme.UnreadMarkerStyle.Render("●")
	}
	label := theme.TypeStyle(n.Type).Render(theme.TypeLabel(n.Type))

	now := time.Now()
	if d.Now != nil {
		now = d.Now()
	}
	meta := n.Message
	if age := Age(n.CreatedAt, now); age != "" {
		meta += " · " + age
	}

	style := theme.ListItemStyle
	switch {
	case index == m.Index():
		style = theme.SelectedItemStyle
	case n.Read:
		style = theme.ReadItemStyle
	}

	title := style.Render(fmt.Sprintf("%s %s %s", marker, label, n.Title))
	line := style.Render("  " + theme.MetaStyle.Render(meta))
	fmt.Fprintf(w, "%s\n%s", title, line)
}
