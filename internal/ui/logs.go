package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/usher/internal/logtail"
)

// LogTailLines bounds how much of the log file the log view reads.
const LogTailLines = 400

type logLinesMsg struct {
	lines []string
}

func readLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		raw, err := logtail.Read(path, LogTailLines)
		if err != nil {
			return logLinesMsg{lines: []string{"log unavailable: " + err.Error()}}
		}
		entries := logtail.Filter(logtail.ParseAll(raw), zerolog.DebugLevel)
		lines := make([]string, 0, len(entries))
		for _, e := range entries {
			lines = append(lines, e.Format())
		}
		return logLinesMsg{lines: lines}
	}
}

// handleLogsKey scrolls the log viewport. Scrolling up pauses following;
// G resumes it.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Bottom) {
		m.follow = true
		m.logViewport.GotoBottom()
		return m, readLogsCmd(m.logPath)
	}
	if key.Matches(msg, m.keys.Top) {
		m.follow = false
		m.logViewport.GotoTop()
		return m, nil
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	m.follow = m.logViewport.AtBottom()
	return m, cmd
}

func (m *Model) updateLogViewport() {
	if !m.ready {
		return
	}
	if len(m.logLines) == 0 {
		m.logViewport.SetContent(m.theme.Styles().MutedText.Render("No log entries yet: " + m.logPath))
		return
	}
	m.logViewport.SetContent(strings.Join(m.logLines, "\n"))
	if m.follow {
		m.logViewport.GotoBottom()
	}
}
