package engine

import (
	"context"
	"time"
)

// The observer runs while the engine is playing or buffering. It watches the
// position the pipeline reports against the clock: a position lagging more
// than DriftTolerance behind the extrapolated one means the pipeline cannot
// keep up, which is reported as buffering until it catches up again. It also
// emits periodic position events while the buffered position moves.

func (e *Engine) startObserverLocked() {
	if e.observerCancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.observerCancel = cancel
	go e.observe(ctx)
}

func (e *Engine) stopObserverLocked() {
	if e.observerCancel == nil {
		return
	}
	e.observerCancel()
	e.observerCancel = nil
	e.drift = false
}

func (e *Engine) observe(ctx context.Context) {
	for {
		e.mu.Lock()
		interval := e.opts.PlayingInterval
		if e.state == StateBuffering {
			interval = e.opts.BufferingInterval
		}
		e.mu.Unlock()

		t := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}

		e.mu.Lock()
		if ctx.Err() == nil {
			e.observeLocked(time.Now())
		}
		e.mu.Unlock()
	}
}

func (e *Engine) observeLocked(now time.Time) {
	expected := e.lastPos + time.Duration(float64(now.Sub(e.lastTime))*e.speed)
	if e.duration > 0 {
		expected = min(expected, e.duration)
	}
	tolerance := e.opts.DriftTolerance

	switch e.state {
	case StatePlaying:
		if expected-e.position > tolerance {
			e.log.Debug().
				Dur("position", e.position).
				Dur("expected", expected).
				Msg("playback behind clock")
			e.drift = true
			e.setStateLocked(StateBuffering)
			return
		}
	case StateBuffering:
		if !e.drift || e.seekInFlight || e.seeks.len() > 0 {
			return
		}
		if e.position > e.lastPos && e.position >= expected-tolerance {
			e.drift = false
			e.setStateLocked(StatePlaying)
			return
		}
		e.lastPos = e.position
		e.lastTime = now
		return
	default:
		return
	}

	if e.buffered != e.lastBuffered {
		e.emitLocked(nil)
	}
}
