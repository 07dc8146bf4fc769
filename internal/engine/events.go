package engine

import (
	"fmt"
	"time"
)

// Event is broadcast on every state transition and periodically while
// playing or buffering. Events are delivered in the order they happened.
type Event struct {
	State State
	// Position is the playback position. While a seek is in flight it is
	// the seek target.
	Position time.Duration
	// BufferedPosition is the end of the audio handed to the renderer.
	BufferedPosition time.Duration
	// Duration is media.DurationUnknown until known.
	Duration time.Duration
	Speed    float64
	// Time is when Position was sampled.
	Time time.Time
	// Err is set on error events.
	Err error
}

// IsError returns true for error events.
func (e Event) IsError() bool { return e.Err != nil }

// PositionAt extrapolates the position to t from a playing event.
func (e Event) PositionAt(t time.Time) time.Duration {
	if e.State != StatePlaying || t.Before(e.Time) {
		return e.Position
	}
	p := e.Position + time.Duration(float64(t.Sub(e.Time))*e.Speed)
	if e.Duration > 0 {
		p = min(p, e.Duration)
	}
	return p
}

func (e Event) String() string {
	if e.Err != nil {
		return fmt.Sprintf("%s pos=%v err=%v", e.State, e.Position, e.Err)
	}
	return fmt.Sprintf("%s pos=%v buffered=%v speed=%.2f", e.State, e.Position, e.BufferedPosition, e.Speed)
}
