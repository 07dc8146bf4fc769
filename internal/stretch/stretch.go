// Package stretch changes the tempo of interleaved PCM without changing its
// pitch, using waveform-similarity overlap-add (WSOLA).
//
// A Stretcher is stateful: it keeps the input it could not consume yet and
// the windowed tail of the last synthesis frame, so callers can push chunks
// of any size. Flush discards that state (after a seek); Drain emits it (at
// end of stream).
package stretch

import (
	"math"
	"time"
)

const (
	windowDuration = 0.020 // analysis/synthesis window, seconds
	searchDuration = 0.005 // similarity search range, seconds

	MinSpeed = 0.25
	MaxSpeed = 4.0
)

// Stretcher time-stretches interleaved float32 samples.
// It is not safe for concurrent use.
type Stretcher struct {
	sampleRate int
	channels   int

	speed  float64
	volume float64

	window int // N, frames
	hop    int // N/2, synthesis hop
	search int // S, frames

	hann []float32

	// Pending input: in[start:] is unconsumed.
	in    []float32
	start int

	tail     []float32 // windowed second half of the previous frame
	ref      []float32 // raw continuation of the previous frame, for similarity
	havePrev bool
	frac     float64 // fractional analysis hop carried between steps

	out []float32 // reused output buffer
}

// New creates a Stretcher for the given format at speed 1 and full volume.
func New(sampleRate, channels int) *Stretcher {
	if channels < 1 {
		channels = 1
	}
	window := int(float64(sampleRate) * windowDuration)
	window -= window % 2
	window = max(window, 16)
	hop := window / 2
	search := max(int(float64(sampleRate)*searchDuration), 1)

	hann := make([]float32, window)
	for i := range hann {
		hann[i] = float32(0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(window)))
	}

	return &Stretcher{
		sampleRate: sampleRate,
		channels:   channels,
		speed:      1,
		volume:     1,
		window:     window,
		hop:        hop,
		search:     search,
		hann:       hann,
		tail:       make([]float32, hop*channels),
		ref:        make([]float32, hop*channels),
	}
}

// SetSpeed sets the tempo factor, clamped to [MinSpeed, MaxSpeed].
func (s *Stretcher) SetSpeed(speed float64) {
	if math.IsNaN(speed) {
		return
	}
	s.speed = min(max(speed, MinSpeed), MaxSpeed)
}

// Speed returns the current tempo factor.
func (s *Stretcher) Speed() float64 { return s.speed }

// SetVolume sets the linear gain applied to the output, clamped to [0, 1].
func (s *Stretcher) SetVolume(volume float64) {
	if math.IsNaN(volume) {
		return
	}
	s.volume = min(max(volume, 0), 1)
}

// Channels returns the number of interleaved channels.
func (s *Stretcher) Channels() int { return s.channels }

// Pending returns the number of input frames accepted but not yet emitted.
func (s *Stretcher) Pending() int {
	return (len(s.in) - s.start) / s.channels
}

// Latency returns the source duration held back in the pending input.
func (s *Stretcher) Latency() time.Duration {
	if s.sampleRate <= 0 {
		return 0
	}
	return time.Duration(s.Pending()) * time.Second / time.Duration(s.sampleRate)
}

// Process consumes in and returns the stretched output produced so far.
// The returned slice is reused by the next call to Process, Drain or Flush.
func (s *Stretcher) Process(in []float32) []float32 {
	s.out = s.out[:0]

	if s.speed == 1 {
		if !s.havePrev && s.Pending() == 0 {
			s.out = append(s.out, in[:len(in)-len(in)%s.channels]...)
		} else {
			s.append(in)
			s.finish()
		}
		s.compact()
		s.applyVolume()
		return s.out
	}

	s.append(in)
	for {
		h := s.hopFloat()
		adv := max(int(h), 1)
		if s.Pending() < max(s.window+s.search, adv) {
			break
		}
		s.step()
		s.consume(adv)
		s.frac = h - float64(adv)
	}
	s.compact()
	s.applyVolume()
	return s.out
}

// Drain emits everything still buffered (tail cross-faded into the remaining
// input) and resets the Stretcher.
func (s *Stretcher) Drain() []float32 {
	s.out = s.out[:0]
	s.finish()
	s.compact()
	s.applyVolume()
	return s.out
}

// Flush discards all buffered state without emitting it.
func (s *Stretcher) Flush() {
	s.in = s.in[:0]
	s.start = 0
	s.havePrev = false
	s.frac = 0
	s.out = s.out[:0]
}

func (s *Stretcher) hopFloat() float64 {
	return float64(s.hop)*s.speed + s.frac
}

func (s *Stretcher) append(in []float32) {
	n := len(in) - len(in)%s.channels
	s.in = append(s.in, in[:n]...)
}

func (s *Stretcher) consume(frames int) {
	s.start += frames * s.channels
}

// compact moves pending input to the front of the buffer so it is reused.
func (s *Stretcher) compact() {
	if s.start == 0 {
		return
	}
	n := copy(s.in, s.in[s.start:])
	s.in = s.in[:n]
	s.start = 0
}

// step emits one synthesis hop from the best-matching analysis frame.
func (s *Stretcher) step() {
	ch := s.channels
	pending := s.in[s.start:]

	offset := 0
	if s.havePrev {
		offset = s.bestOffset(pending)
	}
	frame := pending[offset*ch : (offset+s.window)*ch]

	half := s.hop * ch
	if s.havePrev {
		for i := range half {
			w := s.hann[i/ch]
			s.out = append(s.out, s.tail[i]+frame[i]*w)
		}
	} else {
		s.out = append(s.out, frame[:half]...)
	}

	for i := range half {
		s.tail[i] = frame[half+i] * s.hann[s.hop+i/ch]
	}
	copy(s.ref, frame[half:])
	s.havePrev = true
}

// bestOffset returns the frame offset within [0, search] whose first half is
// most similar to the continuation of the previous frame.
func (s *Stretcher) bestOffset(pending []float32) int {
	ch := s.channels
	best := 0
	bestScore := math.Inf(-1)
	for k := 0; k <= s.search; k++ {
		seg := pending[k*ch : (k+s.hop)*ch]
		var dot, energy float64
		for i := 0; i < len(seg); i += ch {
			var a, b float64
			for c := range ch {
				a += float64(seg[i+c])
				b += float64(s.ref[i+c])
			}
			dot += a * b
			energy += a * a
		}
		score := dot
		if energy > 0 {
			score = dot / math.Sqrt(energy)
		}
		if score > bestScore {
			bestScore = score
			best = k
		}
	}
	return best
}

// finish cross-fades the stored tail into the pending input and emits the
// rest of the input untouched.
func (s *Stretcher) finish() {
	ch := s.channels
	pending := s.in[s.start:]

	if s.havePrev {
		half := s.hop * ch
		overlap := min(half, len(pending))
		for i := range overlap {
			s.out = append(s.out, s.tail[i]+pending[i]*s.hann[i/ch])
		}
		if overlap < half {
			s.out = append(s.out, s.tail[overlap:half]...)
		} else {
			s.out = append(s.out, pending[overlap:]...)
		}
	} else {
		s.out = append(s.out, pending...)
	}

	s.start = len(s.in)
	s.havePrev = false
	s.frac = 0
}

func (s *Stretcher) applyVolume() {
	if s.volume == 1 {
		return
	}
	g := float32(s.volume)
	for i := range s.out {
		s.out[i] *= g
	}
}
