package output

import (
	"context"
	"sync"
	"time"

	"github.com/llehouerou/tempo/internal/media"
)

// Null is a Renderer that discards samples in real time: a Write returns
// after the duration of the samples it was given. It has no device buffer,
// so its latency is always zero.
type Null struct {
	format media.Format

	mu      sync.Mutex
	paused  bool
	closed  bool
	written int // frames
	resume  chan struct{}
}

// NewNull returns a paused Null renderer.
func NewNull(format media.Format) *Null {
	return &Null{format: format, paused: true, resume: make(chan struct{})}
}

func (n *Null) Write(ctx context.Context, samples []float32) error {
	for {
		n.mu.Lock()
		if n.closed {
			n.mu.Unlock()
			return ErrClosed
		}
		paused, resume := n.paused, n.resume
		n.mu.Unlock()
		if !paused {
			break
		}
		select {
		case <-resume:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	frames := len(samples) / n.format.Channels
	if d := n.format.FrameDuration(frames); d > 0 {
		t := time.NewTimer(d)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		}
	}

	n.mu.Lock()
	n.written += frames
	n.mu.Unlock()
	return nil
}

func (n *Null) Play() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.paused {
		n.paused = false
		close(n.resume)
	}
}

func (n *Null) Pause() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.paused {
		n.paused = true
		n.resume = make(chan struct{})
	}
}

func (n *Null) Flush() {}

func (n *Null) Drain(ctx context.Context) error {
	n.mu.Lock()
	closed := n.closed
	n.mu.Unlock()
	if closed {
		return ErrClosed
	}
	return ctx.Err()
}

func (n *Null) Latency() time.Duration { return 0 }

func (n *Null) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	if n.paused {
		n.paused = false
		close(n.resume)
	}
	return nil
}

// Written returns the number of frames rendered so far.
func (n *Null) Written() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.written
}
