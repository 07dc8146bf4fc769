// Package helpbindings provides a scrollable popup listing the key bindings.
package helpbindings

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/tempo/internal/keymap"
	"github.com/llehouerou/tempo/internal/ui"
	"github.com/llehouerou/tempo/internal/ui/popup"
	"github.com/llehouerou/tempo/internal/ui/styles"
)

var _ popup.Popup = (*Model)(nil)

// categoryOrder is the display order of binding contexts.
var categoryOrder = []string{"global", "playback", "section", "recent"}

var categoryLabels = map[string]string{
	"global":   "Global",
	"playback": "Playback",
	"section":  "Section",
	"recent":   "Recently played",
}

// chrome is the height taken by the title, footer and border.
const chrome = 10

// Model holds the state for the help popup.
type Model struct {
	ui.Base
	// lines is the rendered content, built once per SetContexts.
	lines        []string
	contentWidth int
	scrollOffset int
}

// New creates a new help bindings model.
func New() Model {
	return Model{}
}

// SetContexts selects the binding contexts to list, in categoryOrder.
func (m *Model) SetContexts(contexts []string) {
	var bindings []keymap.Binding
	for _, ctx := range categoryOrder {
		if slices.Contains(contexts, ctx) {
			bindings = append(bindings, keymap.ByContext(ctx)...)
		}
	}
	m.lines = renderBindings(bindings)
	m.contentWidth = 0
	for _, l := range m.lines {
		m.contentWidth = max(m.contentWidth, lipgloss.Width(l))
	}
	m.scrollOffset = 0
}

// Init implements popup.Popup.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements popup.Popup.
func (m *Model) Update(msg tea.Msg) (popup.Popup, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "?", "esc", "q":
		return m, func() tea.Msg { return ActionMsg(Close{}) }
	case "j", "down":
		m.scrollTo(m.scrollOffset + 1)
	case "k", "up":
		m.scrollTo(m.scrollOffset - 1)
	case "pgdown":
		m.scrollTo(m.scrollOffset + m.visibleHeight())
	case "pgup":
		m.scrollTo(m.scrollOffset - m.visibleHeight())
	case "g", "home":
		m.scrollTo(0)
	case "G", "end":
		m.scrollTo(m.maxScroll())
	}
	return m, nil
}

func (m *Model) scrollTo(offset int) {
	m.scrollOffset = min(max(offset, 0), m.maxScroll())
}

// View implements popup.Popup. Lines are padded to the widest one so the
// popup keeps its size while scrolling.
func (m *Model) View() string {
	if m.Width() == 0 || m.Height() == 0 {
		return ""
	}

	start := min(m.scrollOffset, len(m.lines))
	end := min(start+m.visibleHeight(), len(m.lines))
	visible := make([]string, 0, end-start)
	for _, line := range m.lines[start:end] {
		if w := lipgloss.Width(line); w < m.contentWidth {
			line += strings.Repeat(" ", m.contentWidth-w)
		}
		visible = append(visible, line)
	}

	s := styles.T().S()
	var b strings.Builder
	b.WriteString(s.Title.Render("Help"))
	b.WriteString("\n\n")
	b.WriteString(strings.Join(visible, "\n"))
	b.WriteString("\n\n")
	b.WriteString(s.Subtle.Render(m.footer()))
	return b.String()
}

func (m Model) footer() string {
	if m.maxScroll() == 0 {
		return "?/esc close"
	}
	return "j/k scroll · ?/esc close"
}

func (m Model) visibleHeight() int {
	return max(m.Height()-chrome, 5)
}

func (m Model) maxScroll() int {
	return max(len(m.lines)-m.visibleHeight(), 0)
}

// renderBindings lays out one header per context followed by its keys,
// aligned on the widest key label.
func renderBindings(bindings []keymap.Binding) []string {
	t := styles.T()
	keyStyle := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	headerStyle := lipgloss.NewStyle().Foreground(t.Secondary).Bold(true)

	keyWidth := 0
	for _, b := range bindings {
		keyWidth = max(keyWidth, lipgloss.Width(keyLabel(b.Keys)))
	}

	var lines []string
	context := ""
	for _, b := range bindings {
		if b.Context != context {
			if context != "" {
				lines = append(lines, "")
			}
			label := categoryLabels[b.Context]
			if label == "" {
				label = b.Context
			}
			lines = append(lines,
				headerStyle.Render(label),
				t.S().Subtle.Render(strings.Repeat("─", keyWidth+15)),
			)
			context = b.Context
		}
		key := keyLabel(b.Keys)
		key += strings.Repeat(" ", keyWidth-lipgloss.Width(key))
		lines = append(lines, keyStyle.Render(key)+"  "+t.S().Base.Render(b.Description))
	}
	return lines
}

// keyLabel joins keys for display, naming the ones that render blank.
func keyLabel(keys []string) string {
	names := make([]string, len(keys))
	for i, k := range keys {
		if k == " " {
			k = "space"
		}
		names[i] = k
	}
	return strings.Join(names, ", ")
}
