package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tempo/internal/keymap"
	"github.com/llehouerou/tempo/internal/ui/playerbar"
)

// keyResult is the outcome of one key handler.
type keyResult struct {
	handled bool
	cmd     tea.Cmd
}

var notHandled = keyResult{}

func handled(cmd tea.Cmd) keyResult {
	return keyResult{handled: true, cmd: cmd}
}

// chain runs handlers in order until one handles the key.
func chain(handlers ...func() keyResult) (bool, tea.Cmd) {
	for _, h := range handlers {
		if r := h(); r.handled {
			return true, r.cmd
		}
	}
	return false, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}
	if ok, cmd := m.Popups.HandleKey(msg); ok {
		return m, cmd
	}

	key := msg.String()
	_, cmd := chain(
		func() keyResult { return m.handleGlobalKeys(key) },
		func() keyResult { return m.handlePlaybackKeys(key) },
		func() keyResult { return m.handleSectionKeys(key) },
	)
	return m, cmd
}

// handleGlobalKeys handles quit, help, popups and the display toggle.
func (m *Model) handleGlobalKeys(key string) keyResult {
	switch m.Keys.Resolve(key) { //nolint:exhaustive // only handling global actions
	case keymap.ActionQuit:
		return handled(m.quit())
	case keymap.ActionHelp:
		return handled(m.Popups.ShowHelp([]string{"global", "playback", "section"}))
	case keymap.ActionOpen:
		return handled(m.Popups.ShowOpen(m.source))
	case keymap.ActionRecent:
		return handled(loadRecentCmd(m.StateMgr))
	case keymap.ActionToggleDisplay:
		if m.DisplayMode == playerbar.ModeExpanded {
			m.DisplayMode = playerbar.ModeCompact
		} else {
			m.DisplayMode = playerbar.ModeExpanded
		}
		return handled(nil)
	}
	return notHandled
}

// handlePlaybackKeys handles transport, speed and volume keys.
func (m *Model) handlePlaybackKeys(key string) keyResult {
	step := m.opts.SeekStep
	switch m.Keys.Resolve(key) { //nolint:exhaustive // only handling playback actions
	case keymap.ActionPlayPause:
		return handled(m.togglePlay())
	case keymap.ActionStop:
		return handled(m.stop())
	case keymap.ActionRestart:
		return handled(m.restart())
	case keymap.ActionSeekForward:
		return handled(m.seekBy(step))
	case keymap.ActionSeekBack:
		return handled(m.seekBy(-step))
	case keymap.ActionSeekForwardLong:
		return handled(m.seekBy(longSeek))
	case keymap.ActionSeekBackLong:
		return handled(m.seekBy(-longSeek))
	case keymap.ActionSpeedUp:
		return handled(m.setSpeed(m.last.Speed + m.opts.SpeedStep))
	case keymap.ActionSpeedDown:
		return handled(m.setSpeed(m.last.Speed - m.opts.SpeedStep))
	case keymap.ActionSpeedReset:
		return handled(m.setSpeed(1))
	case keymap.ActionVolumeUp:
		return handled(m.changeVolume(volumeStep))
	case keymap.ActionVolumeDown:
		return handled(m.changeVolume(-volumeStep))
	}
	return notHandled
}

// handleSectionKeys handles the section marks and looping.
func (m *Model) handleSectionKeys(key string) keyResult {
	switch m.Keys.Resolve(key) { //nolint:exhaustive // only handling section actions
	case keymap.ActionMarkStart:
		return handled(m.markStartHere())
	case keymap.ActionMarkEnd:
		return handled(m.markEndHere())
	case keymap.ActionToggleLoop:
		return handled(m.toggleLoop())
	case keymap.ActionClearMarks:
		return handled(m.clearMarks())
	}
	return notHandled
}

// quit saves the session and releases the engine. The program exits once
// ShutdownMsg arrives.
func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.saveSession()
	if m.sub != nil {
		m.sub.Close()
	}
	return shutdownCmd(m.Player)
}
