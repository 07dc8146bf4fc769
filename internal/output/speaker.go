package output

import (
	"context"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/llehouerou/tempo/internal/media"
)

// speakerBuffer is the device-side buffer requested from speaker.Init.
const speakerBuffer = 100 * time.Millisecond

// The speaker can only be initialized once per process; later sources are
// resampled to the first source's rate.
var (
	speakerMu          sync.Mutex
	speakerInitialized bool
	speakerSampleRate  beep.SampleRate
)

func initSpeaker(rate beep.SampleRate) (beep.SampleRate, error) {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if !speakerInitialized {
		if err := speaker.Init(rate, rate.N(speakerBuffer)); err != nil {
			return 0, err
		}
		speakerSampleRate = rate
		speakerInitialized = true
	}
	return speakerSampleRate, nil
}

type speakerRenderer struct {
	ring   *ring
	format media.Format
	ctrl   *beep.Ctrl
}

func newSpeaker(format media.Format, buffer time.Duration) (*speakerRenderer, error) {
	rate := beep.SampleRate(format.SampleRate)
	deviceRate, err := initSpeaker(rate)
	if err != nil {
		return nil, err
	}

	r := newRing(format.Frames(buffer) * format.Channels)
	r.setPaused(true)
	s := &speakerRenderer{
		ring:   r,
		format: format,
		ctrl:   &beep.Ctrl{Streamer: deviceChain(r, rate, deviceRate, format.Channels), Paused: true},
	}
	speaker.Play(s.ctrl)
	return s, nil
}

func (s *speakerRenderer) Write(ctx context.Context, samples []float32) error {
	return s.ring.write(ctx, samples)
}

func (s *speakerRenderer) Play()  { s.setPaused(false) }
func (s *speakerRenderer) Pause() { s.setPaused(true) }

func (s *speakerRenderer) setPaused(paused bool) {
	speaker.Lock()
	s.ctrl.Paused = paused
	speaker.Unlock()
	s.ring.setPaused(paused)
}

func (s *speakerRenderer) Flush() { s.ring.flush() }

func (s *speakerRenderer) Drain(ctx context.Context) error {
	if err := s.ring.drain(ctx); err != nil {
		return err
	}
	// Let the device play out its own buffer.
	t := time.NewTimer(speakerBuffer)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *speakerRenderer) Latency() time.Duration {
	return ringLatency(s.ring, s.format.SampleRate, s.format.Channels) + speakerBuffer
}

func (s *speakerRenderer) Close() error {
	s.ring.close()
	// Unpause so the mixer pulls once more, sees the closed ring and drops it.
	speaker.Lock()
	s.ctrl.Paused = false
	speaker.Unlock()
	return nil
}
