package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := newBgStyle(m.theme.Surface)
	surface := styles.WithBackground(m.theme.Surface)

	user := surface.MutedText.Render("signed out")
	if m.auth != nil {
		if u := m.auth.Session().CurrentUser(); u != nil {
			user = bg.render(u.DisplayName(), surface.SuccessText)
		}
	}

	left := bg.join([]string{
		bg.render("usher", surface.Logo),
		bg.render(truncate(m.serverURL, max(m.width/3, 12)), surface.MutedText),
		user,
	}, 2)
	right := bg.join([]string{
		bg.render(m.currentView.String(), surface.AccentText),
		bg.render(m.theme.Name, surface.FaintText),
	}, 2)

	return m.fillLine(left, right, bg)
}

// renderCommandBar lists the keys most useful in the current view.
func (m Model) renderCommandBar() string {
	bg := newBgStyle(m.theme.Background)
	styles := m.theme.Styles().WithBackground(m.theme.Background)

	var hints []string
	switch m.currentView {
	case ViewLogin:
		if m.focus >= 0 {
			hints = []string{"enter next/sign in", "esc leave form", "ctrl+p plex"}
		} else {
			hints = []string{"enter edit", "p plex", "esc cancel plex"}
		}
	case ViewHome:
		hints = []string{"r reload", "L logout"}
	case ViewRequests:
		hints = []string{"a approve", "d deny", "f filter", "r refresh"}
	case ViewLogs:
		hints = []string{"j/k scroll", "G follow", "r reload"}
	}
	hints = append(hints, "tab view", "? help")

	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		k, label, _ := strings.Cut(h, " ")
		parts = append(parts, bg.render(k, styles.AccentText)+bg.spaces(1)+bg.render(label, styles.MutedText))
	}
	return m.fillLine(bg.join(parts, 3), "", bg)
}

// fillLine places left and right on one row of the terminal width.
func (m Model) fillLine(left, right string, bg bgStyle) string {
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return bg.spaces(1) + left + bg.spaces(gap) + right + bg.spaces(1)
}
