// Package panel is the terminal notification dropdown: a live list of the
// poller's snapshot with keys to acknowledge and refresh.
package panel

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/venuedesk/internal/keys"
	"github.com/nhle/venuedesk/internal/model"
	"github.com/nhle/venuedesk/internal/theme"
)

// Notifier is the part of the poller the panel drives.
type Notifier interface {
	Subscribe(fn func(model.Snapshot)) (unsubscribe func())
	Refresh(ctx context.Context) model.Snapshot
	MarkAsRead(ctx context.Context, id string) error
	MarkAllAsRead(ctx context.Context) error
}

// SnapshotMsg carries a published snapshot into the update loop.
type SnapshotMsg struct {
	Snapshot model.Snapshot
}

// ErrMsg reports a failed acknowledgement.
type ErrMsg struct {
	Err error
}

// Model is the root Bubble Tea model of the panel.
type Model struct {
	notifier    Notifier
	updates     chan model.Snapshot
	unsubscribe func()

	list     list.Model
	keys     *keys.KeyMap
	help     help.Model
	snapshot model.Snapshot
	showHelp bool
	err      error
	now      func() time.Time
	width    int
	height   int
}

// New subscribes to n and returns the panel model. Call Close when the
// program exits.
func New(n Notifier, k *keys.KeyMap) Model {
	return NewWithClock(n, k, time.Now)
}

// NewWithClock is New with an explicit time source for ages.
func NewWithClock(n Notifier, k *keys.KeyMap, now func() time.Time) Model {
	const width, height = 80, 24

	l := list.New([]list.Item{}, ItemDelegate{Now: now}, width, height-2)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	// Latest snapshot wins; the subscriber never blocks the publisher.
	updates := make(chan model.Snapshot, 1)
	unsubscribe := n.Subscribe(func(s model.Snapshot) {
		for {
			select {
			case updates <- s:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})

	return Model{
		notifier:    n,
		updates:     updates,
		unsubscribe: unsubscribe,
		list:        l,
		keys:        k,
		help:        help.New(),
		now:         now,
		width:       width,
		height:      height,
	}
}

// Close unsubscribes from the notifier.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Init starts listening for snapshots.
func (m Model) Init() tea.Cmd {
	return m.waitForSnapshot()
}

func (m Model) waitForSnapshot() tea.Cmd {
	updates := m.updates
	return func() tea.Msg {
		return SnapshotMsg{Snapshot: <-updates}
	}
}

// Update handles messages for the panel.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case SnapshotMsg:
		m.applySnapshot(msg.Snapshot)
		return m, m.waitForSnapshot()

	case ErrMsg:
		m.err = msg.Err
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) applySnapshot(s model.Snapshot) {
	m.snapshot = s
	items := make([]list.Item, len(s.Notifications))
	for i, n := range s.Notifications {
		items[i] = Item{Notification: n}
	}
	idx := m.list.Index()
	m.list.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}
}

func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Back):
			m.showHelp = false
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.err = nil
		n := m.notifier
		return m, func() tea.Msg {
			n.Refresh(context.Background())
			return nil
		}

	case key.Matches(msg, m.keys.MarkRead):
		item, ok := m.list.SelectedItem().(Item)
		if !ok || item.Notification.Read {
			return m, nil
		}
		m.err = nil
		n, id := m.notifier, item.Notification.ID
		return m, func() tea.Msg {
			if err := n.MarkAsRead(context.Background(), id); err != nil {
				return ErrMsg{Err: err}
			}
			return nil
		}

	case key.Matches(msg, m.keys.MarkAllRead):
		if m.snapshot.UnreadCount == 0 {
			return m, nil
		}
		m.err = nil
		n := m.notifier
		return m, func() tea.Msg {
			if err := n.MarkAllAsRead(context.Background()); err != nil {
				return ErrMsg{Err: err}
			}
			return nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the header, the list or help overlay, and the status bar.
func (m Model) View() string {
	var content string
	switch {
	case m.showHelp:
		content = m.renderHelp()
	case len(m.snapshot.Notifications) == 0:
		content = m.renderEmptyState()
	default:
		content = m.list.View()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		renderBar(theme.HeaderStyle, m.width, "Notifications", m.headerStatus()),
		content,
		renderBar(theme.StatusBarStyle, m.width, m.statusLine(), ""),
	)
}

func (m Model) headerStatus() string {
	if m.snapshot.Loading {
		return "refreshing…"
	}
	if m.snapshot.UnreadCount == 0 {
		return "all caught up"
	}
	return fmt.Sprintf("%d unread", m.snapshot.UnreadCount)
}

func (m Model) statusLine() string {
	if m.err != nil {
		return theme.ErrorStyle.Render("error: " + m.err.Error())
	}
	if failed := m.failedSources(); failed > 0 {
		return fmt.Sprintf("%d source(s) unavailable · %s", failed, m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return m.help.ShortHelpView(m.keys.ShortHelp())
}

func (m Model) failedSources() int {
	n := 0
	for _, s := range m.snapshot.Sources {
		if !s.OK {
			n++
		}
	}
	return n
}

func (m Model) renderHelp() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render("Keyboard Shortcuts")

	h := m.help
	h.ShowAll = true
	h.Width = m.width - 4

	return theme.PanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, h.View(m.keys)))
}

func (m Model) renderEmptyState() string {
	msg := "No notifications."
	if m.snapshot.PassID == "" {
		msg = "Loading notifications…"
	}
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray).
		Render(msg)
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	m.list.SetSize(width, height-2)
}

// Snapshot returns the snapshot currently displayed.
func (m Model) Snapshot() model.Snapshot {
	return m.snapshot
}

// renderBar draws a full-width bar with left and right aligned text.
func renderBar(style lipgloss.Style, width int, left, right string) string {
	l := style.Render(left)
	r := ""
	if right != "" {
		r = style.Render(right)
	}

	gap := width - lipgloss.Width(l) - lipgloss.Width(r)
	if gap < 0 {
		gap = 0
	}
	filler := lipgloss.NewStyle().
		Width(gap).
		Background(style.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, l, filler, r)
}
