package app

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tempo/internal/engine"
	"github.com/llehouerou/tempo/internal/mpris"
	"github.com/llehouerou/tempo/internal/stretch"
)

const (
	longSeek   = time.Minute
	volumeStep = 0.05
)

// togglePlay pauses a running source and plays anything else. Without a
// source it opens the prompt instead.
func (m *Model) togglePlay() tea.Cmd {
	switch m.last.State {
	case engine.StateNone:
		return m.Popups.ShowOpen(m.source)
	case engine.StateConnecting:
		return nil
	case engine.StatePlaying, engine.StateBuffering:
		return dispatchCmd(m.Player, engine.OpPause, nil)
	case engine.StateStopped, engine.StatePaused, engine.StateCompleted:
		return m.playCmd()
	}
	return nil
}

// playArgs turns the section marks into play options.
func (m Model) playArgs() map[string]any {
	args := map[string]any{}
	if m.markEnd >= 0 {
		args["until"] = m.markEnd
	}
	if m.loop {
		args["loop"] = true
		args["loopStart"] = max(m.markStart, 0)
	}
	return args
}

// playCmd starts playback bounded by the section. At or past the section
// end it starts over from the section start.
func (m *Model) playCmd() tea.Cmd {
	play := dispatchCmd(m.Player, engine.OpPlay, m.playArgs())
	if m.markEnd >= 0 && m.position() >= m.markEnd {
		return tea.Sequence(m.seekTo(max(m.markStart, 0)), play)
	}
	return play
}

// applyBound hands the current section to a playing engine. Paused or
// stopped playback picks it up on the next play.
func (m *Model) applyBound() tea.Cmd {
	if m.last.State != engine.StatePlaying {
		return nil
	}
	return dispatchCmd(m.Player, engine.OpPlay, m.playArgs())
}

func (m *Model) seekTo(pos time.Duration) tea.Cmd {
	pos = max(pos, 0)
	if d := m.last.Duration; d > 0 {
		pos = min(pos, d)
	}
	return dispatchCmd(m.Player, engine.OpSeek, map[string]any{"position": pos})
}

func (m *Model) seekBy(delta time.Duration) tea.Cmd {
	if !m.last.State.HasSource() {
		return nil
	}
	return m.seekTo(m.position() + delta)
}

func (m *Model) restart() tea.Cmd {
	if !m.last.State.HasSource() {
		return nil
	}
	return m.seekTo(max(m.markStart, 0))
}

func (m *Model) stop() tea.Cmd {
	if !m.last.State.HasSource() {
		return nil
	}
	return dispatchCmd(m.Player, engine.OpStop, nil)
}

// setSpeed rounds speed to hundredths and clamps it to the supported range.
func (m *Model) setSpeed(speed float64) tea.Cmd {
	speed = math.Round(speed*100) / 100
	speed = min(max(speed, stretch.MinSpeed), stretch.MaxSpeed)
	if speed == m.last.Speed {
		return nil
	}
	return dispatchCmd(m.Player, engine.OpSetSpeed, map[string]any{"speed": speed})
}

// changeVolume applies the new volume right away so repeated presses add
// up; a failed command restores the engine's value.
func (m *Model) changeVolume(delta float64) tea.Cmd {
	v := math.Round((m.volume+delta)*100) / 100
	v = min(max(v, 0), 1)
	if v == m.volume {
		return nil
	}
	m.volume = v
	return dispatchCmd(m.Player, engine.OpSetVolume, map[string]any{"volume": v})
}

// markStartHere starts the section at the current position. An end that
// is no longer after the start is dropped.
func (m *Model) markStartHere() tea.Cmd {
	if !m.last.State.HasSource() {
		return nil
	}
	pos := m.position()
	m.markStart = pos
	if m.markEnd >= 0 && m.markEnd <= pos {
		m.markEnd = noMark
	}
	return m.applyBound()
}

// markEndHere ends the section at the current position and replays it
// from its start.
func (m *Model) markEndHere() tea.Cmd {
	if !m.last.State.HasSource() {
		return nil
	}
	pos := m.position()
	start := max(m.markStart, 0)
	if pos <= start {
		m.StatusLine = "Section end must be after its start"
		return nil
	}
	m.markEnd = pos
	return tea.Sequence(
		m.seekTo(start),
		dispatchCmd(m.Player, engine.OpPlay, m.playArgs()),
	)
}

func (m *Model) toggleLoop() tea.Cmd {
	if !m.last.State.HasSource() {
		return nil
	}
	m.loop = !m.loop
	return m.applyBound()
}

func (m *Model) clearMarks() tea.Cmd {
	if m.markStart < 0 && m.markEnd < 0 && !m.loop {
		return nil
	}
	m.markStart, m.markEnd, m.loop = noMark, noMark, false
	return m.applyBound()
}

// resetSection forgets the marks of the previous source.
func (m *Model) resetSection() {
	m.markStart, m.markEnd, m.loop = noMark, noMark, false
}

// handleRemote applies a desktop transport request the way the matching
// key would, so section bounds stay in effect.
func (m *Model) handleRemote(r mpris.Request) tea.Cmd {
	if !m.last.State.HasSource() {
		return nil
	}
	switch r.Action {
	case mpris.ActionPlay:
		if m.last.State == engine.StatePlaying || m.last.State == engine.StateBuffering {
			return nil
		}
		return m.playCmd()
	case mpris.ActionPause:
		if m.last.State != engine.StatePlaying && m.last.State != engine.StateBuffering {
			return nil
		}
		return dispatchCmd(m.Player, engine.OpPause, nil)
	case mpris.ActionPlayPause:
		return m.togglePlay()
	case mpris.ActionStop:
		return m.stop()
	case mpris.ActionSeekBy:
		return m.seekBy(r.Offset)
	case mpris.ActionSeekTo:
		return m.seekTo(r.Offset)
	case mpris.ActionSetSpeed:
		return m.setSpeed(r.Value)
	case mpris.ActionSetVolume:
		return m.changeVolume(r.Value - m.volume)
	}
	return nil
}
