package ui

import (
	"fmt"
	"strings"

	"github.com/five82/usher/internal/overseerr"
	"github.com/five82/usher/internal/state"
)

const homeListLimit = 10

// renderPhase renders the non-success phases shared by every screen. It
// reports false when v holds data the caller should render.
func renderPhase[T any](m Model, v state.View[T], empty string) (string, bool) {
	styles := m.theme.Styles()
	switch v.Phase {
	case state.PhaseIdle:
		return styles.MutedText.Render("Press r to load."), true
	case state.PhaseLoading:
		return styles.WarningText.Render("Loading…"), true
	case state.PhaseError:
		return styles.DangerText.Render(v.Message) + "\n" + styles.MutedText.Render("Press r to retry."), true
	case state.PhaseEmpty:
		return styles.MutedText.Render(empty), true
	}
	return "", false
}

func (m Model) renderHome() string {
	v := m.home.State()
	if out, done := renderPhase(m, v, "Nothing upcoming and nothing recently added."); done {
		return indent(out)
	}
	styles := m.theme.Styles()
	d := v.Data

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Welcome, " + d.User.DisplayName()))
	if d.User.IsAdmin() {
		b.WriteString(" " + styles.StatusStyle("approved").Render("admin"))
	}
	b.WriteString("\n\n")

	b.WriteString(styles.AccentText.Bold(true).Render(fmt.Sprintf("Upcoming movies (%d)", len(d.Upcoming))))
	b.WriteString("\n")
	for _, mv := range d.Upcoming[:min(len(d.Upcoming), homeListLimit)] {
		b.WriteString(formatMovie(mv, m.width-4))
		b.WriteString("\n")
	}
	if len(d.Upcoming) == 0 {
		b.WriteString(styles.MutedText.Render("none"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(styles.AccentText.Bold(true).Render(fmt.Sprintf("Recently added (%d)", len(d.Recent))))
	b.WriteString("\n")
	for _, media := range d.Recent[:min(len(d.Recent), homeListLimit)] {
		status := media.EffectiveStatus()
		b.WriteString(styles.StatusStyle(status.String()).Render(status.String()))
		b.WriteString(" ")
		b.WriteString(styles.Text.Render(formatMedia(media)))
		b.WriteString("\n")
	}
	if len(d.Recent) == 0 {
		b.WriteString(styles.MutedText.Render("none"))
		b.WriteString("\n")
	}
	return indent(b.String())
}

func formatMovie(mv overseerr.Movie, width int) string {
	title := mv.Title
	if year := mv.ReleaseYear(); year != "" {
		title += " (" + year + ")"
	}
	if mv.ReleaseDate != "" {
		title += "  " + mv.ReleaseDate
	}
	return truncate(title, width)
}

func formatMedia(media overseerr.Media) string {
	kind := string(media.MediaType)
	if kind == "" {
		kind = "media"
	}
	label := fmt.Sprintf("%s tmdb:%d", kind, media.TmdbID)
	if media.MediaAdded != "" {
		label += "  added " + yearMonthDay(media.MediaAdded)
	}
	return label
}

// yearMonthDay trims an RFC 3339 timestamp to its date.
func yearMonthDay(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return "\n" + strings.Join(lines, "\n")
}
