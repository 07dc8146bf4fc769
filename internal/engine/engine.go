// Package engine plays one audio source at a time through a
// demux → decode → time-stretch → render pipeline.
//
// The Engine is a control surface: every operation validates the current
// State, returns a *Result that resolves exactly once, and emits Events in
// order to subscribers. A single monitor (mu + cond) guards all shared state;
// the pipeline worker is the only goroutine touching the decode and render
// handles while it runs.
package engine

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/tempo/internal/media"
	"github.com/llehouerou/tempo/internal/output"
	"github.com/llehouerou/tempo/internal/stretch"
)

// PlayOptions bound playback. Zero value plays to the end.
type PlayOptions struct {
	// Until pauses playback when the position reaches it.
	Until time.Duration
	// Loop jumps back to LoopStart instead of pausing at Until (or at the
	// end of the source when Until is zero).
	Loop      bool
	LoopStart time.Duration
}

// session holds the handles opened for one source.
type session struct {
	media     *media.Media
	renderer  output.Renderer
	stretcher *stretch.Stretcher
}

func (s *session) close() error {
	if s == nil {
		return nil
	}
	err := s.media.Close()
	if rerr := s.renderer.Close(); err == nil {
		err = rerr
	}
	return err
}

// Engine is a time-stretching audio player.
type Engine struct {
	opts Options
	log  zerolog.Logger

	mu   sync.Mutex
	cond *sync.Cond

	state    State
	disposed bool
	source   string
	sess     *session
	duration time.Duration

	position time.Duration
	buffered time.Duration
	speed    float64
	volume   float64
	bound    PlayOptions

	seeks        seekQueue
	seekInFlight bool
	seekTarget   time.Duration
	startAt      time.Duration

	pauseReq     bool
	stopReq      bool
	workerAlive  bool
	workerCancel context.CancelFunc
	workerDone   chan struct{}

	playWaiters  []*Result[struct{}]
	pauseWaiters []*Result[struct{}]
	stopWaiters  []*Result[struct{}]

	// Observer state.
	drift          bool
	observerCancel context.CancelFunc
	lastPos        time.Duration
	lastTime       time.Time
	lastBuffered   time.Duration

	events *dispatcher
}

// New creates an Engine in StateNone.
func New(opts Options) *Engine {
	opts = opts.withDefaults()
	e := &Engine{
		opts:     opts,
		log:      opts.Logger,
		duration: media.DurationUnknown,
		speed:    min(max(opts.Speed, stretch.MinSpeed), stretch.MaxSpeed),
		volume:   *opts.Volume,
		events:   newDispatcher(),
	}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// Subscribe returns a subscription receiving every event from now on.
func (e *Engine) Subscribe() *Subscription {
	return e.events.subscribe()
}

// Snapshot returns the current state as an Event.
func (e *Engine) Snapshot() Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.eventLocked(nil)
}

// State returns the current playback state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Position returns the current position, or the pending seek target.
func (e *Engine) Position() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.positionLocked()
}

// Duration returns the source duration, media.DurationUnknown if unknown.
func (e *Engine) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.duration
}

// Speed returns the current speed factor.
func (e *Engine) Speed() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.speed
}

// Volume returns the current volume in [0, 1].
func (e *Engine) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

// Source returns the current source, empty in StateNone.
func (e *Engine) Source() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.source
}

// checkLocked validates op against the allowed states.
func (e *Engine) checkLocked(op string, allowed ...State) error {
	if e.disposed {
		return &InvalidStateError{Op: op, State: e.state, Disposed: true}
	}
	if allowed != nil && !stateIn(e.state, allowed) {
		return &InvalidStateError{Op: op, State: e.state, Allowed: allowed}
	}
	return nil
}

// SetSource opens source and resolves with its duration. The previous
// source, if any, is replaced only once the new one opened successfully.
func (e *Engine) SetSource(source string) *Result[time.Duration] {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkLocked(OpSetSource, StateNone, StateStopped, StateCompleted); err != nil {
		return failedResult[time.Duration](err)
	}

	r := newResult[time.Duration]()
	prev, prevPos := e.state, e.position
	e.position = 0
	e.setStateLocked(StateConnecting)
	e.log.Debug().Str("source", source).Msg("opening source")

	go e.open(source, prev, prevPos, r)
	return r
}

func (e *Engine) open(source string, prev State, prevPos time.Duration, r *Result[time.Duration]) {
	m, err := e.opts.Opener.Open(context.Background(), source)
	var rend output.Renderer
	if err == nil {
		rend, err = e.opts.Renderer(m.Format)
		if err != nil {
			m.Close()
		}
	}

	e.mu.Lock()
	if err != nil {
		e.position = prevPos
		pe := &PlaybackError{Code: CodeSource, Op: OpSetSource, Err: err}
		e.log.Error().Err(err).Str("source", source).Msg("open failed")
		r.resolve(0, pe)
		e.setStateErrLocked(prev, pe)
		e.mu.Unlock()
		return
	}

	old := e.sess
	st := stretch.New(m.Format.SampleRate, m.Format.Channels)
	st.SetSpeed(e.speed)
	st.SetVolume(e.volume)
	e.sess = &session{media: m, renderer: rend, stretcher: st}
	e.source = source
	e.duration = m.Format.Duration
	e.position, e.buffered, e.startAt = 0, 0, 0
	e.setStateLocked(StateStopped)
	duration := e.duration
	e.mu.Unlock()

	if err := old.close(); err != nil {
		e.log.Warn().Err(err).Msg("closing previous source")
	}
	e.log.Info().
		Str("source", source).
		Int("rate", m.Format.SampleRate).
		Int("channels", m.Format.Channels).
		Dur("duration", duration).
		Msg("source ready")
	r.resolve(duration, nil)
}

// Play starts or resumes playback. A fresh start resolves once the worker
// is running; a resume resolves once playing is observable.
func (e *Engine) Play(opts PlayOptions) *Result[struct{}] {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkLocked(OpPlay, StateStopped, StateCompleted, StatePaused, StatePlaying, StateBuffering); err != nil {
		return failedResult[struct{}](err)
	}
	if opts.Until < 0 || opts.LoopStart < 0 || (opts.Loop && opts.Until > 0 && opts.LoopStart >= opts.Until) {
		return failedResult[struct{}](&PlaybackError{Code: CodeArgument, Op: OpPlay, Err: ErrBadArgument})
	}
	e.bound = opts

	switch e.state {
	case StatePlaying:
		// A pause the worker has not applied yet is cancelled.
		if e.pauseReq {
			e.cancelPauseLocked()
		}
		return resolvedResult(struct{}{})
	case StateBuffering:
		// Takes effect when the seek completes.
		e.cancelPauseLocked()
		return resolvedResult(struct{}{})
	case StatePaused:
		r := newResult[struct{}]()
		e.playWaiters = append(e.playWaiters, r)
		e.pauseReq = false
		e.cond.Broadcast()
		return r
	default:
		e.startWorkerLocked()
		return resolvedResult(struct{}{})
	}
}

// Pause pauses playback and resolves once paused is observable.
func (e *Engine) Pause() *Result[struct{}] {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkLocked(OpPause, StatePlaying, StateBuffering); err != nil {
		return failedResult[struct{}](err)
	}
	r := newResult[struct{}]()
	e.pauseWaiters = append(e.pauseWaiters, r)
	e.pauseReq = true
	e.cond.Broadcast()
	return r
}

// cancelPauseLocked drops a pending pause request. Its waiters fail with
// CodeAborted since the pause never becomes observable.
func (e *Engine) cancelPauseLocked() {
	e.pauseReq = false
	resolveAll(e.pauseWaiters, &PlaybackError{Code: CodeAborted, Op: OpPause})
	e.pauseWaiters = nil
	e.cond.Broadcast()
}

// Stop ends playback and resolves only after the worker has exited.
func (e *Engine) Stop() *Result[struct{}] {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkLocked(OpStop, StatePlaying, StatePaused, StateBuffering, StateCompleted, StateStopped); err != nil {
		return failedResult[struct{}](err)
	}

	if !e.workerAlive {
		if e.state == StateCompleted {
			e.position = 0
			e.setStateLocked(StateStopped)
		}
		return resolvedResult(struct{}{})
	}

	r := newResult[struct{}]()
	e.stopWaiters = append(e.stopWaiters, r)
	e.stopReq = true
	e.workerCancel()
	e.cond.Broadcast()
	return r
}

// Seek moves playback to pos. With a running pipeline it resolves once the
// seek was performed (or superseded by a later one); otherwise the position
// is recorded as the start position and the seek resolves immediately.
func (e *Engine) Seek(pos time.Duration) *Result[struct{}] {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkLocked(OpSeek, StateStopped, StatePlaying, StatePaused, StateBuffering, StateCompleted); err != nil {
		return failedResult[struct{}](err)
	}
	pos = max(pos, 0)
	if e.duration > 0 {
		pos = min(pos, e.duration)
	}

	if !e.workerAlive {
		e.startAt = pos
		e.position = pos
		e.buffered = pos
		e.setStateLocked(StateBuffering)
		e.setStateLocked(StateStopped)
		return resolvedResult(struct{}{})
	}

	r := newResult[struct{}]()
	e.seeks.push(pos, r)
	e.seekTarget = pos
	e.drift = false
	if e.state == StateBuffering {
		e.emitLocked(nil)
	} else {
		e.setStateLocked(StateBuffering)
	}
	e.cond.Broadcast()
	return r
}

// SetSpeed changes the tempo without changing the pitch. It is picked up
// by the pipeline on its next iteration. Speeds outside the supported range
// are clamped.
func (e *Engine) SetSpeed(speed float64) *Result[struct{}] {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkLocked(OpSetSpeed); err != nil {
		return failedResult[struct{}](err)
	}
	if math.IsNaN(speed) || speed <= 0 {
		return failedResult[struct{}](&PlaybackError{Code: CodeArgument, Op: OpSetSpeed, Err: ErrInvalidSpeed})
	}
	speed = min(max(speed, stretch.MinSpeed), stretch.MaxSpeed)
	if speed != e.speed {
		e.speed = speed
		// The new speed starts a new extrapolation baseline.
		e.emitLocked(nil)
	}
	return resolvedResult(struct{}{})
}

// SetVolume sets the output gain, clamped to [0, 1].
func (e *Engine) SetVolume(volume float64) *Result[struct{}] {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkLocked(OpSetVolume); err != nil {
		return failedResult[struct{}](err)
	}
	if math.IsNaN(volume) {
		return failedResult[struct{}](&PlaybackError{Code: CodeArgument, Op: OpSetVolume, Err: ErrBadArgument})
	}
	e.volume = min(max(volume, 0), 1)
	return resolvedResult(struct{}{})
}

// Dispose releases the source and ends the event stream. The engine cannot
// be used afterwards.
func (e *Engine) Dispose() *Result[struct{}] {
	e.mu.Lock()
	if err := e.checkLocked(OpDispose, StateNone, StateStopped, StateCompleted); err != nil {
		e.mu.Unlock()
		return failedResult[struct{}](err)
	}
	e.disposed = true
	e.state = StateNone
	done := e.workerDone
	sess := e.sess
	e.sess = nil
	e.mu.Unlock()

	r := newResult[struct{}]()
	go func() {
		// A worker that just completed may still be finishing its exit path.
		if done != nil {
			<-done
		}
		err := sess.close()
		if err != nil {
			e.log.Warn().Err(err).Msg("closing source")
		}

		e.mu.Lock()
		e.source = ""
		e.position, e.buffered = 0, 0
		e.duration = media.DurationUnknown
		e.stopObserverLocked()
		e.emitLocked(nil)
		e.mu.Unlock()

		e.events.close()
		e.log.Debug().Msg("disposed")
		r.resolve(struct{}{}, nil)
	}()
	return r
}

// startWorkerLocked spawns the pipeline worker for the current session.
func (e *Engine) startWorkerLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	start := e.startAt
	e.startAt = 0
	e.position = start
	e.buffered = start
	e.pauseReq, e.stopReq, e.drift = false, false, false
	e.workerAlive = true
	e.workerCancel = cancel
	e.workerDone = done
	e.setStateLocked(StatePlaying)

	w := newWorker(e, e.sess, start)
	go w.run(ctx, done)
}

// settleLocked records the outcome of a pause or resume applied by the
// worker and releases the matching waiters.
func (e *Engine) settleLocked(paused bool) {
	e.drift = false
	if paused {
		e.setStateLocked(StatePaused)
		resolveAll(e.pauseWaiters, nil)
		e.pauseWaiters = nil
		return
	}
	e.setStateLocked(StatePlaying)
	resolveAll(e.playWaiters, nil)
	e.playWaiters = nil
}

func (e *Engine) positionLocked() time.Duration {
	if e.state == StateNone || e.state == StateConnecting {
		return 0
	}
	if e.seekInFlight || e.seeks.len() > 0 {
		return e.seekTarget
	}
	return e.position
}

func (e *Engine) setStateLocked(s State) {
	e.setStateErrLocked(s, nil)
}

// setStateErrLocked transitions to s and emits an event. Error events are
// emitted even without a transition.
func (e *Engine) setStateErrLocked(s State, err error) {
	if s == e.state && err == nil {
		return
	}
	if s != e.state {
		e.log.Debug().Stringer("from", e.state).Stringer("to", s).Msg("state")
	}
	e.state = s
	if s == StatePlaying || s == StateBuffering {
		e.startObserverLocked()
	} else {
		e.stopObserverLocked()
	}
	e.emitLocked(err)
}

func (e *Engine) eventLocked(err error) Event {
	return Event{
		State:            e.state,
		Position:         e.positionLocked(),
		BufferedPosition: e.buffered,
		Duration:         e.duration,
		Speed:            e.speed,
		Time:             time.Now(),
		Err:              err,
	}
}

// emitLocked broadcasts the current state and resets the observer baseline.
func (e *Engine) emitLocked(err error) {
	ev := e.eventLocked(err)
	e.lastPos = e.position
	e.lastTime = ev.Time
	e.lastBuffered = e.buffered
	e.events.push(ev)
}
