package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/tempo/internal/app/popupctl"
	"github.com/llehouerou/tempo/internal/engine"
	"github.com/llehouerou/tempo/internal/keymap"
	"github.com/llehouerou/tempo/internal/notify"
	"github.com/llehouerou/tempo/internal/state"
	"github.com/llehouerou/tempo/internal/tags"
	"github.com/llehouerou/tempo/internal/ui/playerbar"
)

// noMark is the value of an unset section mark.
const noMark time.Duration = -1

// Options configures the model.
type Options struct {
	// Source is opened at startup. When empty, the last session is restored.
	Source string
	// Resume restores positions from history.
	Resume    bool
	SeekStep  time.Duration
	SpeedStep float64
	// Resolve turns typed sources into openable ones, e.g. relative paths
	// against the default folder. Nil keeps them as typed.
	Resolve func(string) string
	// Notifier announces sources as they start. Nil disables it.
	Notifier notify.Notifier
	Logger   zerolog.Logger
}

// Model is the root application model.
type Model struct {
	Player   Player
	StateMgr state.Interface
	Popups   *popupctl.Manager
	Keys     *keymap.Resolver

	opts Options
	log  zerolog.Logger
	sub  *engine.Subscription

	// last is the most recent engine event; the view extrapolates from it.
	last   engine.Event
	source string
	tag    tags.Tag
	volume float64

	markStart time.Duration
	markEnd   time.Duration
	loop      bool

	DisplayMode playerbar.DisplayMode
	StatusLine  string
	quitting    bool
	Width       int
	Height      int

	notifyID uint32
	now      func() time.Time
}

// New creates the model and subscribes to the player's events.
func New(p Player, st state.Interface, opts Options) Model {
	if opts.SeekStep <= 0 {
		opts.SeekStep = 5 * time.Second
	}
	if opts.SpeedStep <= 0 {
		opts.SpeedStep = 0.1
	}
	return Model{
		Player:      p,
		StateMgr:    st,
		Popups:      popupctl.New(),
		Keys:        keymap.NewResolver(keymap.ByContexts("global", "playback", "section")),
		opts:        opts,
		log:         opts.Logger.With().Str("component", "app").Logger(),
		sub:         p.Subscribe(),
		last:        p.Snapshot(),
		volume:      p.Volume(),
		markStart:   noMark,
		markEnd:     noMark,
		DisplayMode: playerbar.ModeExpanded,
		now:         time.Now,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		WatchEvents(m.sub),
		WatchStderr(),
		TickCmd(),
		m.startupCmd(),
	)
}

// startupCmd opens the requested source, or restores the last session.
func (m Model) startupCmd() tea.Cmd {
	if m.opts.Source != "" {
		source := m.resolve(m.opts.Source)
		return openSourceCmd(m.Player, source, m.resumePosition(source), true)
	}
	if !m.opts.Resume {
		return nil
	}
	sess, err := m.StateMgr.GetSession()
	if err != nil {
		m.log.Warn().Err(err).Msg("load session")
		return nil
	}
	if sess == nil || sess.Source == "" {
		return nil
	}
	return openSourceCmd(m.Player, sess.Source, sess.Position, false)
}

func (m Model) resolve(source string) string {
	if m.opts.Resolve == nil {
		return source
	}
	return m.opts.Resolve(source)
}

// resumePosition returns where source was left, or 0.
func (m Model) resumePosition(source string) time.Duration {
	if !m.opts.Resume {
		return 0
	}
	pos, err := m.StateMgr.ResumePosition(source)
	if err != nil {
		m.log.Warn().Err(err).Str("source", source).Msg("resume position")
		return 0
	}
	return pos
}

// Source returns the source currently loaded.
func (m Model) Source() string {
	return m.source
}

// Volume returns the output volume.
func (m Model) Volume() float64 {
	return m.volume
}

// Marks returns the section marks, noMark when unset, and whether the
// section loops.
func (m Model) Marks() (start, end time.Duration, loop bool) {
	return m.markStart, m.markEnd, m.loop
}

// position is the playback position extrapolated to now.
func (m Model) position() time.Duration {
	return m.last.PositionAt(m.now())
}
