package media

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/url"
	"strconv"
	"time"
)

// SchemeTone selects the synthetic sine source:
//
//	tone:440?duration=10s&rate=44100&channels=2&amp=0.5
//
// A frequency of 0 produces silence.
const SchemeTone = "tone"

type toneExtractor struct {
	freq     float64
	amp      float64
	format   Format
	total    int // frames
	position int // frames
}

func openTone(_ context.Context, source string) (Extractor, error) {
	u, err := url.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse tone source: %w", err)
	}

	freq := 440.0
	if u.Opaque != "" {
		freq, err = strconv.ParseFloat(u.Opaque, 64)
		if err != nil || freq < 0 {
			return nil, fmt.Errorf("tone frequency %q: %w", u.Opaque, ErrUnsupportedFormat)
		}
	}

	q := u.Query()
	duration := 10 * time.Second
	if v := q.Get("duration"); v != "" {
		if duration, err = time.ParseDuration(v); err != nil || duration <= 0 {
			return nil, fmt.Errorf("tone duration %q: %w", v, ErrUnsupportedFormat)
		}
	}
	rate, err := queryInt(q, "rate", 44100)
	if err != nil {
		return nil, err
	}
	channels, err := queryInt(q, "channels", 2)
	if err != nil {
		return nil, err
	}
	amp := 0.5
	if v := q.Get("amp"); v != "" {
		if amp, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("tone amp %q: %w", v, ErrUnsupportedFormat)
		}
	}

	format := Format{SampleRate: rate, Channels: channels}
	total := format.Frames(duration)
	format.Duration = format.FrameDuration(total)

	return &toneExtractor{
		freq:   freq,
		amp:    min(max(amp, 0), 1),
		format: format,
		total:  total,
	}, nil
}

func queryInt(q url.Values, key string, def int) (int, error) {
	v := q.Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("tone %s %q: %w", key, v, ErrUnsupportedFormat)
	}
	return n, nil
}

func (t *toneExtractor) Format() Format { return t.format }

func (t *toneExtractor) ReadPacket(buf []byte) (int, time.Duration, error) {
	ch := t.format.Channels
	frames := min(len(buf)/(2*ch), t.total-t.position)
	if frames <= 0 {
		return 0, 0, io.EOF
	}
	pts := t.format.FrameDuration(t.position)
	step := 2 * math.Pi * t.freq / float64(t.format.SampleRate)
	for i := range frames {
		v := t.amp * math.Sin(step*float64(t.position+i))
		for c := range ch {
			putSample16(buf[(i*ch+c)*2:], v)
		}
	}
	t.position += frames
	return frames * ch * 2, pts, nil
}

func (t *toneExtractor) SeekTo(pos time.Duration) (time.Duration, error) {
	t.position = min(max(t.format.Frames(pos), 0), t.total)
	return t.format.FrameDuration(t.position), nil
}

func (t *toneExtractor) Close() error { return nil }
