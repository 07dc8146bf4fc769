// Package playerbar renders the now-playing bar: title, state, progress with
// section marks, speed and volume.
package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/tempo/internal/engine"
	"github.com/llehouerou/tempo/internal/tags"
	"github.com/llehouerou/tempo/internal/ui/render"
	"github.com/llehouerou/tempo/internal/ui/styles"
)

// DisplayMode controls the player bar appearance.
type DisplayMode int

const (
	ModeCompact  DisplayMode = iota // Single-line view
	ModeExpanded                    // Metadata line above the progress line
)

// State holds everything needed to render the player bar.
type State struct {
	Status   engine.State
	Title    string
	Artist   string
	Album    string
	Position time.Duration
	Buffered time.Duration
	Duration time.Duration // negative when unknown
	Speed    float64
	Volume   float64

	// Section marks, negative when unset.
	MarkStart time.Duration
	MarkEnd   time.Duration
	Loop      bool

	DisplayMode DisplayMode
}

// NewState builds a State from the latest engine event, extrapolating the
// position to now while playing.
func NewState(ev engine.Event, tag tags.Tag, volume float64, now time.Time, mode DisplayMode) State {
	return State{
		Status:      ev.State,
		Title:       tag.Title,
		Artist:      tag.Artist,
		Album:       tag.Album,
		Position:    ev.PositionAt(now),
		Buffered:    ev.BufferedPosition,
		Duration:    ev.Duration,
		Speed:       ev.Speed,
		Volume:      volume,
		MarkStart:   -1,
		MarkEnd:     -1,
		DisplayMode: mode,
	}
}

// Height returns the total height of the player bar for the given mode.
func Height(mode DisplayMode) int {
	if mode == ModeExpanded {
		return 4 // 2 content rows + 2 border rows
	}
	return 3 // top border + content + bottom border
}

// Render returns the player bar string for the given width.
// Returns empty string when no source is loaded.
func Render(s State, width int) string {
	if s.Status == engine.StateNone {
		return ""
	}
	innerWidth := max(width-6, 0)

	var content string
	if s.DisplayMode == ModeExpanded {
		content = renderInfoLine(s, innerWidth) + "\n" + renderProgressLine(s, innerWidth)
	} else {
		content = renderCompact(s, innerWidth)
	}
	return barStyle().Padding(0, 2).Width(width - 2).Render(content)
}

func renderCompact(s State, innerWidth int) string {
	progress := renderProgressLine(s, innerWidth/2)
	title := titleStyle().Render(render.TruncateEllipsis(render.Sanitize(displayTitle(s)), max(innerWidth-lipgloss.Width(progress)-3, 5)))
	return render.Row(title, progress, innerWidth)
}

// renderInfoLine: Title   Artist · Album                         Buffering
func renderInfoLine(s State, innerWidth int) string {
	label := statusLabel(s)
	available := max(innerWidth-lipgloss.Width(label)-3, 5)

	title := render.Sanitize(s.Title)
	if title == "" {
		title = "Unknown"
	}

	var infoParts []string
	if s.Artist != "" {
		infoParts = append(infoParts, render.Sanitize(s.Artist))
	}
	if s.Album != "" {
		infoParts = append(infoParts, render.Sanitize(s.Album))
	}
	info := strings.Join(infoParts, " · ")

	left := titleStyle().Render(title)
	if info != "" {
		left += "   " + artistStyle().Render(info)
	}
	left = render.TruncateEllipsis(left, available)
	return render.Row(left, label, innerWidth)
}

// renderProgressLine: ▶  ━━━━───┃────  1:23 / 3:58  1.25×  80%
func renderProgressLine(s State, width int) string {
	status := statusSymbol(s.Status)
	timeStr := timeStyle().Render(render.Clock(s.Position) + " / " + render.Clock(s.Duration))
	extras := metaStyle().Render(fmt.Sprintf("%s  %3d%%", render.Speed(s.Speed), int(s.Volume*100+0.5)))
	if s.Loop {
		extras = markerStyle().Render("⟲") + " " + extras
	}

	fixed := lipgloss.Width(status) + 2 + 2 + lipgloss.Width(timeStr) + 2 + lipgloss.Width(extras)
	barWidth := width - fixed
	if barWidth < 5 || s.Duration <= 0 {
		return status + "  " + timeStr + "  " + extras
	}

	cells := barCells(s.Position, s.Buffered, s.Duration, s.MarkStart, s.MarkEnd, barWidth)
	return status + "  " + renderBar(cells) + "  " + timeStr + "  " + extras
}

func displayTitle(s State) string {
	title := s.Title
	if title == "" {
		title = "Unknown"
	}
	if s.Artist != "" {
		return s.Artist + " - " + title
	}
	return title
}

func statusSymbol(st engine.State) string {
	s := styles.T().S()
	switch st {
	case engine.StatePlaying:
		return s.Success.Render(playSymbol)
	case engine.StatePaused:
		return s.Base.Render(pauseSymbol)
	case engine.StateBuffering, engine.StateConnecting:
		return s.Warning.Render(waitSymbol)
	default:
		return s.Muted.Render(stopSymbol)
	}
}

// statusLabel names the states that need more than the symbol.
func statusLabel(s State) string {
	switch s.Status {
	case engine.StateBuffering:
		return bufferedStyle().Render("Buffering")
	case engine.StateConnecting:
		return bufferedStyle().Render("Opening")
	case engine.StateCompleted:
		return metaStyle().Render("Finished")
	case engine.StateStopped:
		return metaStyle().Render("Stopped")
	default:
		return ""
	}
}
