package output

import (
	"context"
	"sync"
)

// ring is a bounded FIFO of interleaved samples shared between the pipeline
// (writer) and the device callback (reader). Reads never block: underruns and
// pauses produce silence.
type ring struct {
	mu     sync.Mutex
	buf    []float32
	r      int // read index
	n      int // queued samples
	paused bool
	closed bool

	// space is signalled whenever the reader consumed or the ring was reset.
	space chan struct{}
}

func newRing(samples int) *ring {
	return &ring{
		buf:   make([]float32, max(samples, 1)),
		space: make(chan struct{}, 1),
	}
}

func (b *ring) signal() {
	select {
	case b.space <- struct{}{}:
	default:
	}
}

func (b *ring) write(ctx context.Context, samples []float32) error {
	for len(samples) > 0 {
		b.mu.Lock()
		if b.closed {
			b.mu.Unlock()
			return ErrClosed
		}
		w := (b.r + b.n) % len(b.buf)
		free := len(b.buf) - b.n
		k := min(free, len(samples))
		for i := range k {
			b.buf[(w+i)%len(b.buf)] = samples[i]
		}
		b.n += k
		b.mu.Unlock()

		samples = samples[k:]
		if len(samples) == 0 {
			return nil
		}
		select {
		case <-b.space:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// read fills dst and returns how many samples came from the queue; the rest
// is zeroed.
func (b *ring) read(dst []float32) int {
	b.mu.Lock()
	k := 0
	if !b.paused && !b.closed {
		k = min(b.n, len(dst))
		for i := range k {
			dst[i] = b.buf[(b.r+i)%len(b.buf)]
		}
		b.r = (b.r + k) % len(b.buf)
		b.n -= k
	}
	b.mu.Unlock()

	clear(dst[k:])
	if k > 0 {
		b.signal()
	}
	return k
}

// drain waits until the reader consumed everything queued.
func (b *ring) drain(ctx context.Context) error {
	for {
		b.mu.Lock()
		n, closed := b.n, b.closed
		b.mu.Unlock()
		if closed {
			return ErrClosed
		}
		if n == 0 {
			return nil
		}
		select {
		case <-b.space:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (b *ring) flush() {
	b.mu.Lock()
	b.r, b.n = 0, 0
	b.mu.Unlock()
	b.signal()
}

func (b *ring) setPaused(paused bool) {
	b.mu.Lock()
	b.paused = paused
	b.mu.Unlock()
}

func (b *ring) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

func (b *ring) close() {
	b.mu.Lock()
	b.closed = true
	b.n = 0
	b.mu.Unlock()
	b.signal()
}

// buffered returns the number of queued samples.
func (b *ring) buffered() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.n
}
