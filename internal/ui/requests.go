package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/usher/internal/overseerr"
)

// handleRequestsKey processes keyboard input for the requests view.
func (m Model) handleRequestsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.requests.State()

	if key.Matches(msg, m.keys.CycleFilter) {
		next := st.Filter.Next()
		m.selected = 0
		return m, m.run("change filter", func(ctx context.Context) error {
			return m.requests.ChangeFilter(ctx, next)
		})
	}

	count := 0
	if st.IsSuccess() {
		count = len(st.Data)
	}
	if count == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selected < count-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = count - 1
	case key.Matches(msg, m.keys.Approve):
		id := st.Data[m.selected].ID
		return m, m.run("approve", func(ctx context.Context) error { return m.requests.Approve(ctx, id) })
	case key.Matches(msg, m.keys.Deny):
		id := st.Data[m.selected].ID
		return m, m.run("deny", func(ctx context.Context) error { return m.requests.Deny(ctx, id) })
	}
	return m, nil
}

func (m *Model) clampSelection() {
	st := m.requests.State()
	n := 0
	if st.IsSuccess() {
		n = len(st.Data)
	}
	m.selected = min(m.selected, max(n-1, 0))
}

func (m Model) renderRequests() string {
	styles := m.theme.Styles()
	st := m.requests.State()

	var b strings.Builder
	b.WriteString(styles.MutedText.Render("Filter: "))
	b.WriteString(styles.AccentText.Bold(true).Render(string(st.Filter)))
	if st.Refreshing {
		b.WriteString(styles.FaintText.Render("  refreshing…"))
	}
	b.WriteString("\n\n")

	if out, done := renderPhase(m, st.View, "No "+string(st.Filter)+" requests."); done {
		b.WriteString(out)
		return indent(b.String())
	}

	visible := max(m.contentHeight()-4, 1)
	start := 0
	if m.selected >= visible {
		start = m.selected - visible + 1
	}
	end := min(len(st.Data), start+visible)

	for i := start; i < end; i++ {
		row := formatRequestRow(st.Data[i], max(m.width-18, 20))
		badge := styles.StatusStyle(st.Data[i].Status.String()).Render(padRight(st.Data[i].Status.String(), 8))
		if i == m.selected {
			b.WriteString(styles.Selected.Render("› " + row))
		} else {
			b.WriteString(styles.Text.Render("  " + row))
		}
		b.WriteString(" ")
		b.WriteString(badge)
		b.WriteString("\n")
	}
	return indent(b.String())
}

// formatRequestRow renders the id, title, type and requester columns.
func formatRequestRow(r overseerr.MediaRequest, width int) string {
	kind := string(r.Type)
	if r.Is4k {
		kind += " 4K"
	}
	by := ""
	if r.RequestedBy != nil {
		by = r.RequestedBy.DisplayName()
	}
	titleWidth := max(width-32, 10)
	row := fmt.Sprintf("#%-5d %s %-6s %-14s",
		r.ID,
		padRight(truncate(r.Title(), titleWidth), titleWidth),
		kind,
		truncate(by, 14),
	)
	return truncate(row, width)
}
