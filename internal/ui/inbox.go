package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/deckhand/internal/api"
)

const unreadMarker = "●"

// inboxLayout picks which optional columns fit the terminal width.
type inboxLayout struct {
	showMeta     bool // category and priority
	showReceived bool
}

func layoutFor(width int) inboxLayout {
	return inboxLayout{
		showMeta:     width >= LayoutCompactWidth,
		showReceived: width >= LayoutReceivedWidth,
	}
}

func notificationColumns(width int) []table.Column {
	l := layoutFor(width)
	fixed := 2
	cols := []table.Column{{Title: " ", Width: 1}}
	if l.showMeta {
		fixed += 10 + 8
	}
	if l.showReceived {
		fixed += 14
	}
	title := max(20, width-fixed-2*4)
	cols = append(cols, table.Column{Title: "Title", Width: title})
	if l.showMeta {
		cols = append(cols,
			table.Column{Title: "Category", Width: 10},
			table.Column{Title: "Priority", Width: 8},
		)
	}
	if l.showReceived {
		cols = append(cols, table.Column{Title: "Received", Width: 14})
	}
	return cols
}

func notificationRows(items []api.Notification, width int) []table.Row {
	l := layoutFor(width)
	rows := make([]table.Row, 0, len(items))
	for _, item := range items {
		marker := " "
		if !item.IsRead() {
			marker = unreadMarker
		}
		title := item.Title
		if msg := strings.TrimSpace(item.Message); msg != "" {
			title += " - " + msg
		}
		row := table.Row{marker, title}
		if l.showMeta {
			row = append(row, item.Category, item.Priority)
		}
		if l.showReceived {
			received := ""
			if ts := item.ParsedCreatedAt(); !ts.IsZero() {
				received = ts.Local().Format("Jan 02 15:04")
			}
			row = append(row, received)
		}
		rows = append(rows, row)
	}
	return rows
}

// renderHeader renders the logo, user, unread badge and current selections.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	parts := []string{styles.Logo.Render("deckhand")}

	if m.user != nil {
		parts = append(parts, styles.Text.Render(m.user.DisplayName()))
	} else {
		parts = append(parts, styles.MutedText.Render("signed out"))
	}
	if m.inbox.HasUnread() {
		parts = append(parts, styles.Badge.Render(fmt.Sprintf("%d unread", m.inbox.UnreadCount)))
	}
	if m.project != "" {
		parts = append(parts, styles.MutedText.Render("project:")+" "+styles.AccentText.Render(m.project))
	}
	if m.agent != "" {
		parts = append(parts, styles.MutedText.Render("agent:")+" "+styles.AccentText.Render(m.agent))
	}
	return styles.Header.Width(m.width).Render(strings.Join(parts, "  "))
}

// renderStatusLine renders paging, filter, progress and the last message.
func (m Model) renderStatusLine() string {
	styles := m.theme.Styles()
	inbox := m.inbox

	pages := max(inbox.Pages, 1)
	parts := []string{
		styles.MutedText.Render(fmt.Sprintf("page %d/%d", inbox.Page, pages)),
		styles.MutedText.Render(fmt.Sprintf("%d total", inbox.Total)),
	}
	if inbox.UnreadOnly {
		parts = append(parts, styles.WarningText.Render("unread only"))
	}
	if inbox.Loading || m.pending > 0 {
		parts = append(parts, m.spinner.View())
	}
	if inbox.Error != "" {
		parts = append(parts, styles.DangerText.Render(inbox.Error))
	}
	if m.status != "" {
		style := styles.SuccessText
		if m.statusErr {
			style = styles.DangerText
		}
		parts = append(parts, style.Render(m.status))
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(strings.Join(parts, "  "))
}

func (m Model) renderInbox() string {
	if len(m.inbox.Items) == 0 {
		styles := m.theme.Styles()
		msg := "No notifications"
		if m.inbox.UnreadOnly {
			msg = "No unread notifications"
		}
		return lipgloss.Place(m.width, max(3, m.height-chromeHeight), lipgloss.Center, lipgloss.Center,
			styles.FaintText.Render(msg))
	}
	return m.table.View()
}

func (m Model) renderFooter() string {
	return m.theme.Styles().Footer.Width(m.width).Render(m.help.View(m.keys))
}
