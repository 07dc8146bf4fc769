package playerbar

import (
	"strings"
	"time"

	"github.com/llehouerou/tempo/internal/ui/styles"
)

type cell int

const (
	cellEmpty cell = iota
	cellBuffered
	cellPlayed
	cellMarker
)

// barCells lays out a progress bar of width cells. Section marks at or
// after zero replace the cell they fall in.
func barCells(position, buffered, duration, markStart, markEnd time.Duration, width int) []cell {
	cells := make([]cell, max(width, 0))
	if width <= 0 || duration <= 0 {
		return cells
	}

	at := func(d time.Duration) int {
		d = min(max(d, 0), duration)
		return min(int(int64(width)*int64(d)/int64(duration)), width)
	}

	played := at(position)
	ahead := max(at(buffered), played)
	for i := range cells {
		switch {
		case i < played:
			cells[i] = cellPlayed
		case i < ahead:
			cells[i] = cellBuffered
		}
	}

	for _, mark := range []time.Duration{markStart, markEnd} {
		if mark < 0 {
			continue
		}
		cells[min(at(mark), width-1)] = cellMarker
	}
	return cells
}

// renderBar draws the cells: played part as a gradient, buffered part
// dimmed, section marks highlighted.
func renderBar(cells []cell) string {
	t := styles.T()
	var b strings.Builder
	for i := 0; i < len(cells); {
		j := i
		for j < len(cells) && cells[j] == cells[i] {
			j++
		}
		run := j - i
		switch cells[i] {
		case cellPlayed:
			b.WriteString(styles.GradientBar("━", i, j, len(cells), t.Primary, t.Secondary))
		case cellBuffered:
			b.WriteString(bufferedStyle().Render(strings.Repeat("─", run)))
		case cellMarker:
			b.WriteString(markerStyle().Render(strings.Repeat("┃", run)))
		default:
			b.WriteString(emptyStyle().Render(strings.Repeat("─", run)))
		}
		i = j
	}
	return b.String()
}
