package media

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/wav"
)

type beepDecodeFunc func(io.Reader) (beep.StreamSeekCloser, beep.Format, error)

// beepExtractor adapts any beep.StreamSeekCloser decoder (FLAC, WAV) to the
// Extractor interface by re-encoding its float samples as 16-bit PCM.
type beepExtractor struct {
	streamer beep.StreamSeekCloser
	file     *os.File
	rate     beep.SampleRate
	format   Format
	samples  [][2]float64
}

func openFLAC(path string) (Extractor, error) {
	return openBeep(path, func(r io.Reader) (beep.StreamSeekCloser, beep.Format, error) {
		rs, ok := r.(io.ReadSeeker)
		if ok {
			// Some taggers prepend ID3v2 to FLAC files, which the decoder rejects.
			if err := skipID3v2(rs); err != nil {
				return nil, beep.Format{}, err
			}
		}
		return flac.Decode(r)
	})
}

func openWAV(path string) (Extractor, error) {
	return openBeep(path, wav.Decode)
}

func openBeep(path string, decode beepDecodeFunc) (Extractor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	streamer, bf, err := decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	format := Format{
		SampleRate: int(bf.SampleRate),
		Channels:   min(max(bf.NumChannels, 1), 2),
		Duration:   DurationUnknown,
	}
	if n := streamer.Len(); n > 0 {
		format.Duration = bf.SampleRate.D(n)
	}

	return &beepExtractor{
		streamer: streamer,
		file:     f,
		rate:     bf.SampleRate,
		format:   format,
	}, nil
}

func (e *beepExtractor) Format() Format { return e.format }

func (e *beepExtractor) ReadPacket(buf []byte) (int, time.Duration, error) {
	ch := e.format.Channels
	frames := len(buf) / (2 * ch)
	if cap(e.samples) < frames {
		e.samples = make([][2]float64, frames)
	}
	e.samples = e.samples[:frames]

	pts := e.rate.D(e.streamer.Position())
	n, ok := e.streamer.Stream(e.samples)
	if n == 0 && !ok {
		if err := e.streamer.Err(); err != nil {
			return 0, 0, err
		}
		return 0, 0, io.EOF
	}

	for i := range n {
		for c := range ch {
			putSample16(buf[(i*ch+c)*2:], e.samples[i][c])
		}
	}
	return n * ch * 2, pts, nil
}

func (e *beepExtractor) SeekTo(pos time.Duration) (time.Duration, error) {
	p := min(max(e.rate.N(pos), 0), e.streamer.Len())
	if err := e.streamer.Seek(p); err != nil {
		return 0, fmt.Errorf("seek: %w", err)
	}
	return e.rate.D(p), nil
}

func (e *beepExtractor) Close() error {
	err := e.streamer.Close()
	// The decoder may already have closed the file.
	_ = e.file.Close()
	return err
}

// skipID3v2 skips an ID3v2 tag if present at the beginning of the file.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil && n == 0 {
		return err
	}
	if n < 10 || string(header[0:3]) != "ID3" {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}

	// Size is a syncsafe integer: 7 bits per byte.
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
	_, err = r.Seek(10+size, io.SeekStart)
	return err
}
