// Package styles holds the color palette and shared lipgloss styles.
package styles

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the palette every view draws from.
type Theme struct {
	Primary   lipgloss.Color // progress, keys
	Secondary lipgloss.Color // section marks, headers

	FgBase   lipgloss.Color
	FgMuted  lipgloss.Color
	FgSubtle lipgloss.Color
	BgCursor lipgloss.Color
	Border   lipgloss.Color

	Success lipgloss.Color // playing
	Warning lipgloss.Color // opening, buffering
	Error   lipgloss.Color

	once   sync.Once
	styles Styles
}

// Styles are built once from a Theme.
type Styles struct {
	Base    lipgloss.Style
	Muted   lipgloss.Style
	Subtle  lipgloss.Style
	Title   lipgloss.Style
	Cursor  lipgloss.Style // selected row
	Panel   lipgloss.Style // rounded border
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

var dark = Theme{
	Primary:   "#a78bfa",
	Secondary: "#f1a208",
	FgBase:    "#c0c0c0",
	FgMuted:   "#808080",
	FgSubtle:  "#585858",
	BgCursor:  "#303030",
	Border:    "#585858",
	Success:   "#42b883",
	Warning:   "#f1a208",
	Error:     "#ff5555",
}

// T returns the active theme.
func T() *Theme {
	return &dark
}

// S returns the theme's styles.
func (t *Theme) S() *Styles {
	t.once.Do(func() {
		fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
		t.styles = Styles{
			Base:    fg(t.FgBase),
			Muted:   fg(t.FgMuted),
			Subtle:  fg(t.FgSubtle),
			Title:   fg(t.FgBase).Bold(true),
			Cursor:  fg(t.FgBase).Background(t.BgCursor),
			Panel:   lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(t.Border),
			Success: fg(t.Success),
			Warning: fg(t.Warning),
			Error:   fg(t.Error),
		}
	})
	return &t.styles
}
