package app

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tempo/internal/app/popupctl"
	"github.com/llehouerou/tempo/internal/engine"
	"github.com/llehouerou/tempo/internal/errmsg"
	"github.com/llehouerou/tempo/internal/mpris"
	"github.com/llehouerou/tempo/internal/ui/action"
	"github.com/llehouerou/tempo/internal/ui/helpbindings"
	"github.com/llehouerou/tempo/internal/ui/openprompt"
	"github.com/llehouerou/tempo/internal/ui/recent"
)

// Update handles messages and returns updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.Popups.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		if m.quitting {
			return m, nil
		}
		return m, TickCmd()

	case EngineEventMsg:
		return m.handleEngineEvent(engine.Event(msg))

	case EngineClosedMsg:
		m.sub = nil
		return m, nil

	case CommandResultMsg:
		return m.handleCommandResult(msg)

	case SourceOpenedMsg:
		return m.handleSourceOpened(msg)

	case RecentLoadedMsg:
		if msg.Err != nil {
			m.Popups.ShowError(errmsg.Format(errmsg.OpRecentLoad, msg.Err))
			return m, nil
		}
		return m, m.Popups.ShowRecent(msg.Items)

	case ForgetResultMsg:
		if msg.Err != nil {
			m.Popups.ShowError(errmsg.FormatWith(errmsg.OpSourceForget, msg.Source, msg.Err))
		}
		return m, nil

	case action.Msg:
		return m.handleAction(msg)

	case RemoteMsg:
		if m.quitting {
			return m, nil
		}
		return m, m.handleRemote(mpris.Request(msg))

	case NotifiedMsg:
		m.notifyID = msg.ID
		return m, nil

	case StderrMsg:
		m.StatusLine = msg.Line
		return m, WatchStderr()

	case ShutdownMsg:
		if msg.Err != nil {
			m.log.Warn().Err(msg.Err).Msg(string(errmsg.OpShutdown))
		}
		if err := m.StateMgr.Close(); err != nil {
			m.log.Warn().Err(err).Msg(string(errmsg.OpSessionSave))
		}
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleEngineEvent(ev engine.Event) (tea.Model, tea.Cmd) {
	prev := m.last.State
	m.last = ev
	if ev.Err != nil {
		m.Popups.ShowError(formatEngineError(ev.Err))
	}
	if ev.State != prev {
		m.log.Debug().Stringer("from", prev).Stringer("to", ev.State).Msg("state")
		m.StatusLine = ""
	}
	m.saveSession()
	if m.quitting {
		return m, nil
	}
	return m, WatchEvents(m.sub)
}

func (m Model) handleCommandResult(msg CommandResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err == nil {
		return m, nil
	}
	if msg.Op == engine.OpSetVolume {
		m.volume = m.Player.Volume()
	}
	// A stop cancels pending play and pause requests.
	if engine.IsCode(msg.Err, engine.CodeAborted) {
		return m, nil
	}
	m.log.Warn().Err(msg.Err).Str("op", msg.Op).Msg("command failed")
	m.Popups.ShowError(errmsg.Format(errmsg.ForCommand(msg.Op), msg.Err))
	return m, nil
}

func (m Model) handleSourceOpened(msg SourceOpenedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.log.Warn().Err(msg.Err).Str("source", msg.Source).Str("op", msg.Op).Msg("open failed")
		m.Popups.ShowError(errmsg.FormatWith(errmsg.ForCommand(msg.Op), msg.Source, msg.Err))
		return m, nil
	}
	m.source = msg.Source
	m.tag = msg.Tag
	m.resetSection()
	m.log.Info().Str("source", msg.Source).Dur("start", msg.Start).Msg("source opened")
	m.saveSession()
	if !msg.Autoplay {
		return m, nil
	}
	return m, notifyCmd(m.opts.Notifier, msg.Tag, m.notifyID, m.log)
}

func (m Model) handleAction(msg action.Msg) (tea.Model, tea.Cmd) {
	switch a := msg.Action.(type) {
	case helpbindings.Close:
		m.Popups.Hide(popupctl.Help)

	case openprompt.Cancel:
		m.Popups.Hide(popupctl.Open)

	case openprompt.Open:
		m.Popups.Hide(popupctl.Open)
		source := m.resolve(a.Source)
		return m, m.openSource(source, m.resumePosition(source))

	case recent.Close:
		m.Popups.Hide(popupctl.Recent)

	case recent.Resume:
		m.Popups.Hide(popupctl.Recent)
		return m, m.openSource(a.Source, a.Position)

	case recent.Forget:
		return m, forgetCmd(m.StateMgr, a.Source)
	}
	return m, nil
}

// openSource saves the current position and opens source.
func (m *Model) openSource(source string, start time.Duration) tea.Cmd {
	m.saveSession()
	return openSourceCmd(m.Player, source, start, true)
}

// formatEngineError maps an engine failure to a user message.
func formatEngineError(err error) string {
	var pe *engine.PlaybackError
	if errors.As(err, &pe) {
		return errmsg.Format(errmsg.ForCommand(pe.Op), err)
	}
	return errmsg.Format(errmsg.OpPlaybackStart, err)
}
