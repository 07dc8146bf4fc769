// Package recent provides the recently played popup.
package recent

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/tempo/internal/keymap"
	"github.com/llehouerou/tempo/internal/state"
	"github.com/llehouerou/tempo/internal/ui"
	"github.com/llehouerou/tempo/internal/ui/cursor"
	"github.com/llehouerou/tempo/internal/ui/popup"
	"github.com/llehouerou/tempo/internal/ui/render"
	"github.com/llehouerou/tempo/internal/ui/styles"
)

var _ popup.Popup = (*Model)(nil)

// chrome is the rows taken by the title, footer and popup border.
const chrome = 8

const (
	progressWidth = 17 // "1:02:03 / 1:02:03"
	agoWidth      = 14
)

// Model lists recently played sources, newest first.
type Model struct {
	ui.Base
	items  []state.Recent
	cursor cursor.Cursor
	keys   *keymap.Resolver
	now    func() time.Time
}

// New creates an empty list.
func New() Model {
	return Model{
		cursor: cursor.New(1),
		keys:   keymap.NewResolver(keymap.ByContext("recent")),
		now:    time.Now,
	}
}

// SetItems replaces the list content and keeps the cursor in range.
func (m *Model) SetItems(items []state.Recent) {
	m.items = items
	m.cursor.ClampToBounds(len(items))
}

// Items returns the listed entries.
func (m *Model) Items() []state.Recent {
	return m.items
}

// Selected returns the entry under the cursor.
func (m *Model) Selected() (state.Recent, bool) {
	if len(m.items) == 0 {
		return state.Recent{}, false
	}
	return m.items[m.cursor.Pos()], true
}

// Init implements popup.Popup.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements popup.Popup.
func (m *Model) Update(msg tea.Msg) (popup.Popup, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "esc", "q", "r":
		return m, func() tea.Msg { return ActionMsg(Close{}) }
	case "g", "home":
		m.cursor.JumpStart()
		return m, nil
	case "G", "end":
		m.cursor.JumpEnd(len(m.items), m.listHeight())
		return m, nil
	}

	switch m.keys.Resolve(key.String()) { //nolint:exhaustive // only list actions
	case keymap.ActionMoveUp:
		m.cursor.Move(-1, len(m.items), m.listHeight())
	case keymap.ActionMoveDown:
		m.cursor.Move(1, len(m.items), m.listHeight())
	case keymap.ActionSelect:
		if r, ok := m.Selected(); ok {
			return m, func() tea.Msg {
				return ActionMsg(Resume{Source: r.Source, Position: r.Position})
			}
		}
	case keymap.ActionDelete:
		if r, ok := m.Selected(); ok {
			m.remove(m.cursor.Pos())
			return m, func() tea.Msg { return ActionMsg(Forget{Source: r.Source}) }
		}
	}
	return m, nil
}

func (m *Model) remove(i int) {
	m.items = append(m.items[:i:i], m.items[i+1:]...)
	m.cursor.ClampToBounds(len(m.items))
}

func (m *Model) listHeight() int {
	return max(m.Height()-chrome, 3)
}

// View implements popup.Popup.
func (m *Model) View() string {
	if m.Width() == 0 || m.Height() == 0 {
		return ""
	}

	t := styles.T()
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Recently played"))
	sb.WriteString("\n\n")

	if len(m.items) == 0 {
		sb.WriteString(t.S().Muted.Render("Nothing played yet"))
	} else {
		width := m.rowWidth()
		start, end := m.cursor.VisibleRange(len(m.items), m.listHeight())
		for i := start; i < end; i++ {
			sb.WriteString(m.renderRow(m.items[i], i == m.cursor.Pos(), width))
			if i < end-1 {
				sb.WriteString("\n")
			}
		}
	}

	sb.WriteString("\n\n")
	sb.WriteString(t.S().Subtle.Render("enter resume · d forget · esc close"))
	return sb.String()
}

func (m *Model) rowWidth() int {
	return max(min(m.Width()-8, 100), 40)
}

func (m *Model) renderRow(r state.Recent, selected bool, width int) string {
	t := styles.T()

	marker := "  "
	if selected {
		marker = "▸ "
	}

	name := r.Title
	if name == "" {
		name = r.Source
	}
	nameWidth := max(width-2-progressWidth-agoWidth-2, 8)
	name = render.Pad(render.Truncate(name, nameWidth), nameWidth)

	progress := fmt.Sprintf("%s / %s", render.Clock(r.Position), render.Clock(r.Duration))
	if r.Duration <= 0 {
		progress = render.Clock(r.Position)
	}
	progress = fmt.Sprintf("%*s", progressWidth, progress)

	ago := ""
	if !r.LastPlayedAt.IsZero() {
		ago = humanize.RelTime(r.LastPlayedAt, m.now(), "ago", "from now")
	}
	ago = fmt.Sprintf("%*s", agoWidth, render.Truncate(ago, agoWidth))

	line := marker + name + " " + t.S().Muted.Render(progress) + " " + t.S().Subtle.Render(ago)
	if selected {
		return t.S().Cursor.Render(line)
	}
	return line
}
