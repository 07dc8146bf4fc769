// Package openprompt provides the popup that asks for a source to play.
package openprompt

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/tempo/internal/ui"
	"github.com/llehouerou/tempo/internal/ui/popup"
	"github.com/llehouerou/tempo/internal/ui/styles"
)

var _ popup.Popup = (*Model)(nil)

const emptySourceHint = "enter a file path, URL or tone:<hz>"

func titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.T().Primary)
}

func hintStyle() lipgloss.Style {
	return styles.T().S().Subtle
}

func errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(styles.T().Error)
}

// Model is the open-source prompt.
type Model struct {
	ui.Base
	input   textinput.Model
	problem string
}

// New creates a prompt with an empty, focused input.
func New() Model {
	ti := textinput.New()
	ti.Placeholder = "path/to/file.mp3"
	ti.CharLimit = 1024
	ti.Focus()
	return Model{input: ti}
}

// Start prepares the prompt, prefilled with initial (usually the current
// source).
func (m *Model) Start(initial string, width, height int) {
	m.input.SetValue(initial)
	m.input.CursorEnd()
	m.input.Focus()
	m.problem = ""
	m.SetSize(width, height)
}

// SetSize implements popup.Popup.
func (m *Model) SetSize(width, height int) {
	m.Base.SetSize(width, height)
	m.input.Width = max(min(width-8, 70), 10)
}

// Value returns the text typed so far.
func (m *Model) Value() string {
	return m.input.Value()
}

// Init implements popup.Popup.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements popup.Popup.
func (m *Model) Update(msg tea.Msg) (popup.Popup, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, func() tea.Msg { return ActionMsg(Cancel{}) }
		case "enter":
			source := strings.TrimSpace(m.input.Value())
			if source == "" {
				m.problem = emptySourceHint
				return m, nil
			}
			m.problem = ""
			return m, func() tea.Msg { return ActionMsg(Open{Source: source}) }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements popup.Popup.
func (m *Model) View() string {
	if m.Width() == 0 || m.Height() == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(titleStyle().Render("Open"))
	sb.WriteString("\n\n")
	sb.WriteString(m.input.View())
	sb.WriteString("\n\n")
	if m.problem != "" {
		sb.WriteString(errorStyle().Render(m.problem))
		sb.WriteString("\n")
	}
	sb.WriteString(hintStyle().Render("Enter: open · Esc: cancel"))
	return sb.String()
}
