package output

import (
	"context"
	"encoding/binary"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/gopxl/beep/v2"

	"github.com/llehouerou/tempo/internal/media"
)

// oto allows one context per process; its rate is fixed by the first source.
var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoRate int
	otoErr  error
)

func initOto(rate int) (*oto.Context, int, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   rate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		otoCtx, ready, otoErr = oto.NewContext(op)
		if otoErr == nil {
			<-ready
			otoRate = rate
		}
	})
	return otoCtx, otoRate, otoErr
}

type otoRenderer struct {
	ring   *ring
	format media.Format
	player *oto.Player
}

func newOto(format media.Format, buffer time.Duration) (*otoRenderer, error) {
	ctx, deviceRate, err := initOto(format.SampleRate)
	if err != nil {
		return nil, err
	}

	r := newRing(format.Frames(buffer) * format.Channels)
	src := deviceChain(r, beep.SampleRate(format.SampleRate), beep.SampleRate(deviceRate), format.Channels)
	o := &otoRenderer{
		ring:   r,
		format: format,
		player: ctx.NewPlayer(&pcm16Reader{src: src}),
	}
	return o, nil
}

func (o *otoRenderer) Write(ctx context.Context, samples []float32) error {
	return o.ring.write(ctx, samples)
}

func (o *otoRenderer) Play()  { o.player.Play() }
func (o *otoRenderer) Pause() { o.player.Pause() }
func (o *otoRenderer) Flush() { o.ring.flush() }

func (o *otoRenderer) Drain(ctx context.Context) error {
	if err := o.ring.drain(ctx); err != nil {
		return err
	}
	for o.player.BufferedSize() > 0 {
		t := time.NewTimer(10 * time.Millisecond)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		}
	}
	return nil
}

func (o *otoRenderer) Latency() time.Duration {
	device := time.Duration(o.player.BufferedSize()/4) * time.Second / time.Duration(max(otoRate, 1))
	return ringLatency(o.ring, o.format.SampleRate, o.format.Channels) + device
}

func (o *otoRenderer) Close() error {
	o.ring.close()
	return o.player.Close()
}

// pcm16Reader encodes a stereo beep.Streamer as signed 16-bit little-endian
// bytes for oto.
type pcm16Reader struct {
	src     beep.Streamer
	samples [][2]float64
}

func (p *pcm16Reader) Read(b []byte) (int, error) {
	frames := len(b) / 4
	if frames == 0 {
		return 0, nil
	}
	if cap(p.samples) < frames {
		p.samples = make([][2]float64, frames)
	}
	p.samples = p.samples[:frames]

	n, _ := p.src.Stream(p.samples)
	if n == 0 {
		// Closed ring: keep the player fed with silence until it is closed.
		clear(b[:frames*4])
		return frames * 4, nil
	}
	for i := range n {
		for c := range 2 {
			v := min(max(p.samples[i][c], -1), 1)
			binary.LittleEndian.PutUint16(b[i*4+c*2:], uint16(int16(v*32767))) //nolint:gosec // audio samples
		}
	}
	return n * 4, nil
}
