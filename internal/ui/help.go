package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

type helpSection struct {
	title    string
	bindings []key.Binding
}

func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Logo.Render("usher"))
	b.WriteString(styles.MutedText.Render("  keyboard shortcuts"))
	b.WriteString("\n\n")

	for _, section := range m.keys.helpSections() {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")
		for _, binding := range section.bindings {
			h := binding.Help()
			b.WriteString("  ")
			b.WriteString(styles.Text.Render(padRight(h.Key, 8)))
			b.WriteString(styles.MutedText.Render(h.Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(styles.FaintText.Render("Press any key to close."))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		styles.Panel.Render(b.String()))
}
