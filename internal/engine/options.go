package engine

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/tempo/internal/media"
	"github.com/llehouerou/tempo/internal/output"
)

// Defaults for Options.
const (
	DefaultDequeueTimeout    = 10 * time.Millisecond
	DefaultStallThreshold    = 200
	DefaultDriftTolerance    = 500 * time.Millisecond
	DefaultBufferingInterval = 200 * time.Millisecond
	DefaultPlayingInterval   = 500 * time.Millisecond
)

// RendererFunc opens a renderer for a source format.
type RendererFunc func(media.Format) (output.Renderer, error)

// Options configures an Engine. Zero fields take their defaults.
type Options struct {
	Opener   media.Opener
	Renderer RendererFunc
	Logger   zerolog.Logger

	// DequeueTimeout bounds each wait for decoder output.
	DequeueTimeout time.Duration
	// StallThreshold is the number of consecutive empty dequeues after
	// which the pipeline gives up with a stall error.
	StallThreshold int
	// DriftTolerance is how far the position may lag the clock before the
	// engine reports buffering.
	DriftTolerance time.Duration

	BufferingInterval time.Duration
	PlayingInterval   time.Duration

	// Speed is the initial speed; zero means 1.
	Speed float64
	// Volume is the initial volume, clamped to [0, 1]; nil means 1.
	Volume *float64
}

func (o Options) withDefaults() Options {
	if o.Opener == nil {
		o.Opener = media.NewRegistry(0, 0)
	}
	if o.Renderer == nil {
		o.Renderer = func(f media.Format) (output.Renderer, error) {
			return output.New(output.Config{}, f)
		}
	}
	if o.DequeueTimeout <= 0 {
		o.DequeueTimeout = DefaultDequeueTimeout
	}
	if o.StallThreshold <= 0 {
		o.StallThreshold = DefaultStallThreshold
	}
	if o.DriftTolerance <= 0 {
		o.DriftTolerance = DefaultDriftTolerance
	}
	if o.BufferingInterval <= 0 {
		o.BufferingInterval = DefaultBufferingInterval
	}
	if o.PlayingInterval <= 0 {
		o.PlayingInterval = DefaultPlayingInterval
	}
	if o.Speed <= 0 {
		o.Speed = 1
	}
	volume := 1.0
	if o.Volume != nil {
		volume = min(max(*o.Volume, 0), 1)
	}
	o.Volume = &volume
	return o
}
