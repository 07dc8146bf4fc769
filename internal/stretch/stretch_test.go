package stretch

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRate = 44100

func sine(freq float64, frames, channels int) []float32 {
	out := make([]float32, frames*channels)
	for i := range frames {
		v := float32(0.8 * math.Sin(2*math.Pi*freq*float64(i)/testRate))
		for c := range channels {
			out[i*channels+c] = v
		}
	}
	return out
}

// run pushes in through s in fixed-size chunks, then drains.
func run(s *Stretcher, in []float32, chunkFrames int) []float32 {
	var out []float32
	step := chunkFrames * s.Channels()
	for i := 0; i < len(in); i += step {
		end := min(i+step, len(in))
		out = append(out, s.Process(in[i:end])...)
	}
	return append(out, s.Drain()...)
}

func risingCrossings(samples []float32, channels int) int {
	n := 0
	for i := channels; i < len(samples); i += channels {
		if samples[i-channels] < 0 && samples[i] >= 0 {
			n++
		}
	}
	return n
}

func TestStretcher_UnitSpeedIsIdentityWithGain(t *testing.T) {
	s := New(testRate, 2)
	s.SetVolume(0.5)

	in := sine(440, 4096, 2)
	out := run(s, in, 1000)

	require.Len(t, out, len(in))
	for i := range in {
		assert.InDelta(t, in[i]*0.5, out[i], 1e-6, "sample %d", i)
	}
	assert.Zero(t, s.Pending())
}

func TestStretcher_OutputLengthFollowsSpeed(t *testing.T) {
	tests := []struct {
		name  string
		speed float64
	}{
		{"double", 2.0},
		{"one and a half", 1.5},
		{"half", 0.5},
		{"three quarters", 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(testRate, 2)
			s.SetSpeed(tt.speed)

			frames := 2 * testRate
			out := run(s, sine(220, frames, 2), 1152)

			got := len(out) / 2
			want := float64(frames) / tt.speed
			tol := float64(2 * (s.window + s.search))
			assert.InDelta(t, want, float64(got), tol)
		})
	}
}

func TestStretcher_PreservesPitch(t *testing.T) {
	for _, speed := range []float64{0.75, 1.5, 2.0} {
		s := New(testRate, 1)
		s.SetSpeed(speed)

		out := run(s, sine(440, 3*testRate, 1), 1024)

		// Skip the edges where the first frame and the drain are emitted.
		edge := testRate / 10
		body := out[edge : len(out)-edge]
		seconds := float64(len(body)) / testRate
		freq := float64(risingCrossings(body, 1)) / seconds

		assert.InDelta(t, 440, freq, 440*0.03, "speed %.2f", speed)
	}
}

func TestStretcher_FlushDiscardsPending(t *testing.T) {
	s := New(testRate, 2)
	s.SetSpeed(2)

	out := s.Process(sine(440, 500, 2))
	assert.Empty(t, out, "less than one window must be buffered")
	assert.Equal(t, 500, s.Pending())
	assert.Positive(t, s.Latency())

	s.Flush()
	assert.Zero(t, s.Pending())
	assert.Zero(t, s.Latency())

	s.SetSpeed(1)
	in := sine(440, 300, 2)
	out = s.Process(in)
	assert.Equal(t, in, out)
}

func TestStretcher_SpeedChangeMidStream(t *testing.T) {
	s := New(testRate, 2)
	s.SetSpeed(2)

	var first []float32
	src := sine(330, testRate, 2)
	for i := 0; i < len(src); i += 4096 {
		first = append(first, s.Process(src[i:min(i+4096, len(src))])...)
	}
	leftover := s.Pending()
	require.Positive(t, leftover)

	s.SetSpeed(1)
	in := sine(330, testRate, 2)
	second := s.Process(in)

	// Switching back to unit speed flushes the leftover through the cross-fade.
	assert.Len(t, second, (leftover+testRate)*2)
	assert.Zero(t, s.Pending())
	for _, v := range append(first, second...) {
		require.False(t, math.IsNaN(float64(v)))
		require.LessOrEqual(t, math.Abs(float64(v)), 1.0)
	}
}

func TestStretcher_SetSpeedClamps(t *testing.T) {
	s := New(testRate, 1)

	s.SetSpeed(100)
	assert.Equal(t, MaxSpeed, s.Speed())

	s.SetSpeed(0.01)
	assert.Equal(t, MinSpeed, s.Speed())

	s.SetSpeed(math.NaN())
	assert.Equal(t, MinSpeed, s.Speed())
}

func TestStretcher_DropsPartialFrames(t *testing.T) {
	s := New(testRate, 2)
	out := s.Process([]float32{0.1, 0.2, 0.3})
	assert.Equal(t, []float32{0.1, 0.2}, out)
}
