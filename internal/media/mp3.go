package media

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/llehouerou/go-mp3"
)

// mp3Extractor reads MP3 through llehouerou/go-mp3, which already yields
// interleaved stereo 16-bit little-endian PCM, so packets pass through the
// codec without another conversion step.
type mp3Extractor struct {
	decoder *mp3.Decoder
	closer  io.Closer
	format  Format
}

func openMP3(path string) (Extractor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mp3: %w", err)
	}

	sampleRate := decoder.SampleRate()
	if sampleRate == 0 {
		f.Close()
		return nil, errors.New("mp3: invalid sample rate")
	}

	format := Format{SampleRate: sampleRate, Channels: 2, Duration: DurationUnknown}
	if count := decoder.SampleCount(); count > 0 {
		format.Duration = format.FrameDuration(int(count))
	}

	return &mp3Extractor{decoder: decoder, closer: f, format: format}, nil
}

func (e *mp3Extractor) Format() Format { return e.format }

func (e *mp3Extractor) ReadPacket(buf []byte) (int, time.Duration, error) {
	pts := e.format.FrameDuration(int(e.decoder.SamplePosition()))
	n, err := io.ReadFull(e.decoder, buf[:len(buf)-len(buf)%4])
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = nil
	}
	if n == 0 && err == nil {
		err = io.EOF
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, 0, fmt.Errorf("mp3: %w", err)
	}
	if n > 0 {
		return n, pts, nil
	}
	return 0, 0, err
}

func (e *mp3Extractor) SeekTo(pos time.Duration) (time.Duration, error) {
	p := max(int64(e.format.Frames(pos)), 0)
	if count := e.decoder.SampleCount(); count > 0 {
		p = min(p, count)
	}
	if err := e.decoder.SeekToSample(p); err != nil {
		return 0, fmt.Errorf("mp3 seek: %w", err)
	}
	return e.format.FrameDuration(int(p)), nil
}

func (e *mp3Extractor) Close() error {
	return e.closer.Close()
}
