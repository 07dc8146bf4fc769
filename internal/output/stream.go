package output

import (
	"time"

	"github.com/gopxl/beep/v2"
)

// ringStreamer exposes a ring as an endless beep.Streamer. Mono sources are
// duplicated to both channels. It ends once the ring is closed, which lets
// the speaker mixer drop it.
type ringStreamer struct {
	ring     *ring
	channels int
	tmp      []float32
}

func (s *ringStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.ring.isClosed() {
		return 0, false
	}
	need := len(samples) * s.channels
	if cap(s.tmp) < need {
		s.tmp = make([]float32, need)
	}
	s.tmp = s.tmp[:need]
	s.ring.read(s.tmp)

	for i := range samples {
		if s.channels == 1 {
			v := float64(s.tmp[i])
			samples[i] = [2]float64{v, v}
			continue
		}
		samples[i][0] = float64(s.tmp[i*s.channels])
		samples[i][1] = float64(s.tmp[i*s.channels+1])
	}
	return len(samples), true
}

func (s *ringStreamer) Err() error { return nil }

// deviceChain builds the streamer fed to a device running at deviceRate,
// resampling when the source rate differs.
func deviceChain(r *ring, sourceRate, deviceRate beep.SampleRate, channels int) beep.Streamer {
	var s beep.Streamer = &ringStreamer{ring: r, channels: channels}
	if sourceRate != deviceRate {
		s = beep.Resample(4, sourceRate, deviceRate, s)
	}
	return s
}

// ringLatency converts the samples queued in r to a duration.
func ringLatency(r *ring, rate, channels int) time.Duration {
	frames := r.buffered() / channels
	return time.Duration(frames) * time.Second / time.Duration(rate)
}
