// Package output renders stretched PCM to an audio device.
//
// A Renderer accepts interleaved float32 samples at the source rate. The
// speaker and oto backends buffer them in a ring that the device pulls from;
// the null backend paces writes against the clock and discards them.
package output

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/llehouerou/tempo/internal/media"
)

// Backend names accepted by New.
const (
	BackendSpeaker = "speaker"
	BackendOto     = "oto"
	BackendNull    = "null"
)

// DefaultBuffer is the amount of audio queued ahead of the device.
const DefaultBuffer = 200 * time.Millisecond

// ErrClosed is returned by Write and Drain after Close.
var ErrClosed = errors.New("output: closed")

// Renderer consumes PCM for one source. Write, Flush and Drain are called
// from a single goroutine; Play, Pause and Latency may be called from any.
type Renderer interface {
	// Write blocks until samples are queued or ctx is done.
	Write(ctx context.Context, samples []float32) error
	Play()
	Pause()
	// Flush discards everything queued and not yet heard.
	Flush()
	// Drain blocks until everything queued has been heard or ctx is done.
	Drain(ctx context.Context) error
	// Latency is the duration of audio queued but not yet heard.
	Latency() time.Duration
	Close() error
}

// Config selects and sizes a backend.
type Config struct {
	Backend string
	Buffer  time.Duration
}

// New opens a renderer for format using the configured backend.
func New(cfg Config, format media.Format) (Renderer, error) {
	if format.SampleRate <= 0 || format.Channels <= 0 {
		return nil, fmt.Errorf("output: invalid format %+v", format)
	}
	buffer := cfg.Buffer
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	switch cfg.Backend {
	case BackendSpeaker, "":
		return newSpeaker(format, buffer)
	case BackendOto:
		return newOto(format, buffer)
	case BackendNull:
		return NewNull(format), nil
	default:
		return nil, fmt.Errorf("output: unknown backend %q", cfg.Backend)
	}
}
