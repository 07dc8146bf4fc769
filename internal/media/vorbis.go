package media

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jfreymuth/oggvorbis"
)

type vorbisExtractor struct {
	reader *oggvorbis.Reader
	file   *os.File
	format Format
	values []float32
}

func openVorbis(path string) (Extractor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := oggvorbis.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("vorbis: %w", err)
	}

	format := Format{
		SampleRate: r.SampleRate(),
		Channels:   r.Channels(),
		Duration:   DurationUnknown,
	}
	if n := r.Length(); n > 0 {
		format.Duration = format.FrameDuration(int(n))
	}
	return &vorbisExtractor{reader: r, file: f, format: format}, nil
}

func (e *vorbisExtractor) Format() Format { return e.format }

func (e *vorbisExtractor) ReadPacket(buf []byte) (int, time.Duration, error) {
	ch := e.format.Channels
	want := len(buf) / 2
	want -= want % ch
	if cap(e.values) < want {
		e.values = make([]float32, want)
	}
	e.values = e.values[:want]

	pts := e.format.FrameDuration(int(e.reader.Position()))
	n, err := e.reader.Read(e.values)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, 0, err
	}
	for i, v := range e.values[:n] {
		putSample16(buf[i*2:], float64(v))
	}
	return n * 2, pts, nil
}

func (e *vorbisExtractor) SeekTo(pos time.Duration) (time.Duration, error) {
	p := max(int64(e.format.Frames(pos)), 0)
	if n := e.reader.Length(); n > 0 {
		p = min(p, n)
	}
	if err := e.reader.SetPosition(p); err != nil {
		return 0, fmt.Errorf("vorbis seek: %w", err)
	}
	return e.format.FrameDuration(int(p)), nil
}

func (e *vorbisExtractor) Close() error {
	return e.file.Close()
}
