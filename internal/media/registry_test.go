package media

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_OpenTone(t *testing.T) {
	r := NewRegistry(256, 2)

	m, err := r.Open(context.Background(), "tone:440?duration=1s&rate=8000&channels=1")
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, 8000, m.Format.SampleRate)
	assert.Equal(t, 256*1*2, m.PacketSize)
	assert.NotNil(t, m.Codec)
}

func TestRegistry_Unsupported(t *testing.T) {
	r := NewRegistry(0, 0)

	_, err := r.Open(context.Background(), "/music/track.xyz")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.False(t, r.Supported("/music/track.xyz"))
	assert.True(t, r.Supported("/music/track.FLAC"))
	assert.True(t, r.Supported("file:///music/track.mp3"))
}

func TestRegistry_CancelledContext(t *testing.T) {
	r := NewRegistry(0, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Open(ctx, "tone:440")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRegistry_CustomScheme(t *testing.T) {
	r := NewRegistry(0, 0)
	want := errors.New("boom")
	r.RegisterScheme("fail", func(context.Context, string) (Extractor, error) {
		return nil, want
	})

	_, err := r.Open(context.Background(), "fail:anything")
	assert.ErrorIs(t, err, want)
}

func writeWAV(t *testing.T, frames int, rate beep.SampleRate) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	var i int
	src := beep.Take(frames, beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for j := range samples {
			v := float64((i+j)%100) / 200
			samples[j] = [2]float64{v, -v}
		}
		i += len(samples)
		return len(samples), true
	}))
	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	require.NoError(t, wav.Encode(f, src, format))
	require.NoError(t, f.Close())
	return path
}

func TestRegistry_OpenWAV(t *testing.T) {
	path := writeWAV(t, 8000, 8000)
	r := NewRegistry(100, 2)

	m, err := r.Open(context.Background(), path)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, 8000, m.Format.SampleRate)
	assert.Equal(t, 2, m.Format.Channels)
	assert.Equal(t, time.Second, m.Format.Duration)

	buf := make([]byte, m.PacketSize)
	var frames int
	for {
		n, _, err := m.Extractor.ReadPacket(buf)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		frames += n / 4
	}
	assert.Equal(t, 8000, frames)

	got, err := m.Extractor.SeekTo(500 * time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, got)

	n, pts, err := m.Extractor.ReadPacket(buf)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, pts)
	assert.Equal(t, len(buf), n)
}
