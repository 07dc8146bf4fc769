package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/tempo/internal/engine"
	"github.com/llehouerou/tempo/internal/keymap"
	"github.com/llehouerou/tempo/internal/ui/playerbar"
	"github.com/llehouerou/tempo/internal/ui/render"
	"github.com/llehouerou/tempo/internal/ui/styles"
)

const appTitle = "tempo"

// View renders the application UI.
func (m Model) View() string {
	if m.Width == 0 || m.Height == 0 {
		return ""
	}

	lines := []string{m.renderHeader()}

	bar := playerbar.Render(m.playerState(), m.Width)
	barHeight := 0
	if bar != "" {
		barHeight = lipgloss.Height(bar)
	}
	bodyHeight := max(m.Height-barHeight-2, 0)
	lines = append(lines, m.renderBody(bodyHeight)...)
	lines = append(lines, m.renderStatus())
	if bar != "" {
		lines = append(lines, bar)
	}

	return m.Popups.RenderOverlay(strings.Join(lines, "\n"))
}

func (m Model) playerState() playerbar.State {
	s := playerbar.NewState(m.last, m.tag, m.volume, m.now(), m.DisplayMode)
	s.MarkStart, s.MarkEnd, s.Loop = m.markStart, m.markEnd, m.loop
	return s
}

func (m Model) renderHeader() string {
	t := styles.T()
	title := lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Render(appTitle)
	hint := t.S().Subtle.Render(m.Keys.Hint(
		keymap.HintPair{Action: keymap.ActionHelp, Label: "help"},
		keymap.HintPair{Action: keymap.ActionOpen, Label: "open"},
		keymap.HintPair{Action: keymap.ActionRecent, Label: "recent"},
		keymap.HintPair{Action: keymap.ActionQuit, Label: "quit"},
	))
	return render.Row(title, hint, m.Width)
}

// renderBody fills the space above the player bar. Without a source it
// shows how to get started.
func (m Model) renderBody(height int) []string {
	body := make([]string, height)
	if height == 0 {
		return body
	}

	var msg string
	switch m.last.State {
	case engine.StateNone:
		msg = "Press o to open a file, or r for recently played"
	case engine.StateConnecting:
		msg = "Opening…"
	default:
		msg = m.sectionSummary()
	}
	if msg != "" {
		line := styles.T().S().Muted.Render(msg)
		body[height/2] = lipgloss.PlaceHorizontal(m.Width, lipgloss.Center, line)
	}
	return body
}

// sectionSummary describes the marks, e.g. "Section 0:12 → 0:34 (loop)".
func (m Model) sectionSummary() string {
	if m.markStart < 0 && m.markEnd < 0 {
		if m.loop {
			return "Looping"
		}
		return ""
	}
	start, end := "start", "end"
	if m.markStart >= 0 {
		start = render.Clock(m.markStart)
	}
	if m.markEnd >= 0 {
		end = render.Clock(m.markEnd)
	}
	s := "Section " + start + " → " + end
	if m.loop {
		s += " (loop)"
	}
	return s
}

func (m Model) renderStatus() string {
	if m.StatusLine == "" {
		return ""
	}
	line := render.Truncate(m.StatusLine, max(m.Width-1, 0))
	return styles.T().S().Subtle.Render(line)
}
