package engine

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/llehouerou/tempo/internal/media"
)

// worker owns the session handles while it runs. Everything it shares with
// the control surface goes through the engine monitor.
type worker struct {
	e    *Engine
	sess *session
	m    *media.Media
	ch   int

	start time.Duration

	buf       []byte
	packet    media.Packet
	pending   bool // packet read but not yet accepted by the codec
	eosQueued bool
	idle      int
	parked    bool // renderer paused
}

// exitCause tells the exit path how the worker ended.
type exitCause int

const (
	exitStopped exitCause = iota
	exitCompleted
	exitFault
)

// errStopRequested unwinds the worker when Stop cancelled a blocking call.
var errStopRequested = errors.New("stop requested")

func newWorker(e *Engine, sess *session, start time.Duration) *worker {
	return &worker{
		e:     e,
		sess:  sess,
		m:     sess.media,
		ch:    sess.media.Format.Channels,
		start: start,
		buf:   make([]byte, sess.media.PacketSize),
	}
}

func (w *worker) run(ctx context.Context, done chan struct{}) {
	cause, err := w.loop(ctx)
	w.exit(cause, err, done)
}

func (w *worker) loop(ctx context.Context) (exitCause, error) {
	e := w.e
	if w.start > 0 {
		if _, err := w.m.Extractor.SeekTo(w.start); err != nil {
			return exitFault, &PlaybackError{Code: CodeSource, Op: OpSeek, Err: err}
		}
	}
	w.sess.renderer.Play()

	for {
		e.mu.Lock()
		for !e.stopReq && e.seeks.len() == 0 && e.pauseReq && w.parked {
			e.cond.Wait()
		}
		switch {
		case e.stopReq:
			e.mu.Unlock()
			return exitStopped, nil
		case e.seeks.len() > 0:
			reqs := e.seeks.take()
			e.seekInFlight = true
			e.mu.Unlock()
			if err := w.seek(reqs); err != nil {
				return exitFault, err
			}
			continue
		case e.pauseReq != w.parked:
			pause := e.pauseReq
			e.mu.Unlock()
			w.applyPause(pause)
			continue
		}
		speed, volume, bound := e.speed, e.volume, e.bound
		e.mu.Unlock()

		w.sess.stretcher.SetSpeed(speed)
		w.sess.stretcher.SetVolume(volume)

		cause, err := w.step(ctx, speed, bound)
		if errors.Is(err, errStopRequested) {
			return exitStopped, nil
		}
		if err != nil || cause != exitStopped {
			return cause, err
		}
	}
}

// seek performs the last queued target and completes every request.
func (w *worker) seek(reqs []seekRequest) error {
	e := w.e
	last := reqs[len(reqs)-1]
	for _, r := range reqs[:len(reqs)-1] {
		r.result.resolve(struct{}{}, nil)
	}

	w.m.Codec.Flush()
	w.sess.renderer.Flush()
	w.resetFeed()
	got, err := w.m.Extractor.SeekTo(last.target)
	w.sess.stretcher.Flush()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.seekInFlight = false
	if err != nil {
		pe := &PlaybackError{Code: CodeSource, Op: OpSeek, Err: err}
		last.result.resolve(struct{}{}, pe)
		return pe
	}
	e.position = got
	e.buffered = got
	e.log.Debug().Dur("target", last.target).Dur("position", got).Int("superseded", len(reqs)-1).Msg("seek")
	last.result.resolve(struct{}{}, nil)

	if e.seeks.len() == 0 && e.pauseReq == w.parked {
		e.settleLocked(w.parked)
	}
	return nil
}

func (w *worker) applyPause(pause bool) {
	if pause {
		w.sess.renderer.Pause()
	} else {
		w.sess.renderer.Play()
	}

	e := w.e
	e.mu.Lock()
	defer e.mu.Unlock()
	w.parked = pause
	if e.seeks.len() == 0 && !e.seekInFlight && e.pauseReq == pause {
		e.settleLocked(pause)
	}
}

func (w *worker) resetFeed() {
	w.pending = false
	w.eosQueued = false
	w.idle = 0
}

// step feeds at most one packet and renders at most one frame. It returns
// exitStopped with a nil error to keep going.
func (w *worker) step(ctx context.Context, speed float64, bound PlayOptions) (exitCause, error) {
	if err := w.feed(); err != nil {
		return exitFault, err
	}

	frame, err := w.m.Codec.DequeueOutput(w.e.opts.DequeueTimeout)
	if errors.Is(err, media.ErrTryAgain) {
		w.idle++
		if w.idle >= w.e.opts.StallThreshold {
			return exitFault, &PlaybackError{Code: CodeStall, Op: OpPlay, Err: ErrStalled}
		}
		return exitStopped, nil
	}
	if err != nil {
		return exitFault, &PlaybackError{Code: CodeSource, Op: OpPlay, Err: err}
	}
	w.idle = 0

	if frame.EOS {
		if err := w.write(ctx, w.sess.stretcher.Drain()); err != nil {
			return exitFault, err
		}
		if bound.Loop {
			return exitStopped, w.loopBack(bound.LoopStart)
		}
		if err := w.drainRenderer(ctx); err != nil {
			return exitFault, err
		}
		return exitCompleted, nil
	}

	format := w.m.Format
	samples := frame.Samples
	start := frame.PTS
	end := start + format.FrameDuration(len(samples)/w.ch)

	reached := bound.Until > 0 && end >= bound.Until
	if reached {
		at := max(bound.Until, start)
		keep := min(max(format.Frames(at-start), 0), len(samples)/w.ch)
		samples = samples[:keep*w.ch]
		end = at
	}

	if err := w.write(ctx, w.sess.stretcher.Process(samples)); err != nil {
		return exitFault, err
	}
	w.report(end, speed)

	if reached {
		if err := w.write(ctx, w.sess.stretcher.Drain()); err != nil {
			return exitFault, err
		}
		if bound.Loop {
			return exitStopped, w.loopBack(bound.LoopStart)
		}
		return exitStopped, w.pauseAt(ctx, end)
	}
	return exitStopped, nil
}

// feed reads one packet and queues it, keeping it for the next iteration
// when the codec input is full.
func (w *worker) feed() error {
	if w.eosQueued {
		return nil
	}
	if !w.pending {
		n, pts, err := w.m.Extractor.ReadPacket(w.buf)
		switch {
		case errors.Is(err, io.EOF):
			w.packet = media.Packet{EOS: true}
		case err != nil:
			return &PlaybackError{Code: CodeSource, Op: OpPlay, Err: err}
		default:
			w.packet = media.Packet{Data: w.buf[:n], PTS: pts}
		}
		w.pending = true
	}

	err := w.m.Codec.QueueInput(w.packet)
	if errors.Is(err, media.ErrTryAgain) {
		return nil
	}
	if err != nil {
		return &PlaybackError{Code: CodeSource, Op: OpPlay, Err: err}
	}
	w.pending = false
	w.eosQueued = w.packet.EOS
	return nil
}

func (w *worker) write(ctx context.Context, samples []float32) error {
	if len(samples) == 0 {
		return nil
	}
	if err := w.sess.renderer.Write(ctx, samples); err != nil {
		if ctx.Err() != nil {
			return errStopRequested
		}
		return &PlaybackError{Code: CodeRenderer, Op: OpPlay, Err: err}
	}
	return nil
}

func (w *worker) drainRenderer(ctx context.Context) error {
	if err := w.sess.renderer.Drain(ctx); err != nil {
		if ctx.Err() != nil {
			return errStopRequested
		}
		return &PlaybackError{Code: CodeRenderer, Op: OpPlay, Err: err}
	}
	return nil
}

// report publishes the position of the audio being heard: the end of the
// chunk just written, minus what is still queued in the stretcher and in
// the renderer. It never moves backwards.
func (w *worker) report(end time.Duration, speed float64) {
	pos := end - w.sess.stretcher.Latency() - time.Duration(float64(w.sess.renderer.Latency())*speed)

	e := w.e
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.seeks.len() > 0 {
		return
	}
	e.position = max(e.position, pos)
	e.buffered = max(e.buffered, end)
}

// loopBack restarts decoding at start without interrupting the renderer.
func (w *worker) loopBack(start time.Duration) error {
	w.m.Codec.Flush()
	w.resetFeed()
	got, err := w.m.Extractor.SeekTo(start)
	w.sess.stretcher.Flush()
	if err != nil {
		return &PlaybackError{Code: CodeSource, Op: OpPlay, Err: err}
	}

	e := w.e
	e.mu.Lock()
	defer e.mu.Unlock()
	e.position = got
	e.buffered = got
	e.log.Debug().Dur("position", got).Msg("loop")
	e.emitLocked(nil)
	return nil
}

// pauseAt lets the renderer play out to the bound, then parks there.
func (w *worker) pauseAt(ctx context.Context, at time.Duration) error {
	if err := w.drainRenderer(ctx); err != nil {
		return err
	}
	w.m.Codec.Flush()
	w.resetFeed()
	_, err := w.m.Extractor.SeekTo(at)
	w.sess.stretcher.Flush()
	if err != nil {
		return &PlaybackError{Code: CodeSource, Op: OpPlay, Err: err}
	}

	e := w.e
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.seeks.len() > 0 {
		// A seek issued while draining wins; the bound stays armed.
		return nil
	}
	e.position = at
	e.buffered = at
	e.bound = PlayOptions{}
	e.pauseReq = true
	e.log.Debug().Dur("position", at).Msg("reached play bound")
	return nil
}

// exit runs on every worker exit. It resets the control state, completes
// every pending request and publishes the final state. Stop waiters are
// released last, after done is closed, so a resolved Stop means the worker
// is gone.
func (w *worker) exit(cause exitCause, err error, done chan struct{}) {
	w.m.Codec.Flush()
	w.sess.renderer.Flush()
	w.sess.renderer.Pause()
	w.sess.stretcher.Flush()
	if _, rerr := w.m.Extractor.SeekTo(0); rerr != nil {
		w.e.log.Warn().Err(rerr).Msg("rewind after playback")
	}

	e := w.e
	e.mu.Lock()
	e.bound = PlayOptions{}
	e.seekInFlight = false
	e.pauseReq, e.stopReq, e.drift = false, false, false
	e.startAt = 0

	var waiterErr error
	if err != nil {
		waiterErr = err
	} else if cause == exitStopped {
		waiterErr = &PlaybackError{Code: CodeAborted, Op: OpStop}
	}
	e.seeks.resolveAll(err)
	resolveAll(e.playWaiters, waiterErr)
	resolveAll(e.pauseWaiters, waiterErr)
	e.playWaiters, e.pauseWaiters = nil, nil

	final := StateStopped
	switch {
	case err != nil:
		e.position, e.buffered = 0, 0
		e.log.Error().Err(err).Str("source", e.source).Msg("playback failed")
	case cause == exitCompleted:
		final = StateCompleted
		if e.duration > 0 {
			e.position = e.duration
		}
		e.buffered = e.position
	default:
		e.position, e.buffered = 0, 0
	}
	e.setStateErrLocked(final, err)

	e.workerAlive = false
	e.workerCancel()
	stops := e.stopWaiters
	e.stopWaiters = nil
	e.cond.Broadcast()
	e.mu.Unlock()

	close(done)
	resolveAll(stops, nil)
}
