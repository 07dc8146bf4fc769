// Package media provides the demux/decode capability consumed by the playback
// pipeline: an Extractor that yields packets from a source, a Codec that turns
// packets into PCM frames, and an Opener that builds both from a source string.
package media

import (
	"context"
	"errors"
	"time"
)

// DurationUnknown is reported when the source length cannot be determined.
const DurationUnknown time.Duration = -1

var (
	// ErrTryAgain is returned by a Codec when its input queue is full or no
	// output is ready yet. It is transient.
	ErrTryAgain = errors.New("media: try again")

	// ErrUnsupportedFormat is returned by Open for unknown sources.
	ErrUnsupportedFormat = errors.New("media: unsupported format")

	// ErrClosed is returned when using a closed Extractor or Codec.
	ErrClosed = errors.New("media: closed")
)

// Format describes the decoded stream. It is fixed once the source is open.
type Format struct {
	SampleRate int
	Channels   int
	Duration   time.Duration
}

// FrameDuration converts a frame count to a duration.
func (f Format) FrameDuration(frames int) time.Duration {
	if f.SampleRate <= 0 {
		return 0
	}
	return time.Duration(frames) * time.Second / time.Duration(f.SampleRate)
}

// Frames converts a duration to a frame count.
func (f Format) Frames(d time.Duration) int {
	return int(d * time.Duration(f.SampleRate) / time.Second)
}

// Packet is one unit of compressed data handed to a Codec.
type Packet struct {
	Data []byte
	PTS  time.Duration
	EOS  bool
}

// Frame is one chunk of decoded, interleaved PCM in [-1, 1].
// Samples is only valid until the next DequeueOutput call.
type Frame struct {
	Samples []float32
	PTS     time.Duration
	EOS     bool
}

// Extractor reads packets from a container.
type Extractor interface {
	Format() Format
	// ReadPacket fills buf with the next packet and returns its size and
	// presentation time. It returns io.EOF at end of stream.
	ReadPacket(buf []byte) (n int, pts time.Duration, err error)
	// SeekTo moves to the packet containing pos and returns the position
	// actually reached.
	SeekTo(pos time.Duration) (time.Duration, error)
	Close() error
}

// Codec decodes packets. Both methods are called from a single goroutine.
type Codec interface {
	// QueueInput hands a packet to the decoder. The packet data is copied.
	// It returns ErrTryAgain when the input queue is full.
	QueueInput(p Packet) error
	// DequeueOutput returns the next decoded frame, waiting at most timeout.
	// It returns ErrTryAgain when nothing is ready.
	DequeueOutput(timeout time.Duration) (Frame, error)
	// Flush drops queued input and output.
	Flush()
	Close() error
}

// Media bundles the handles opened for one source.
type Media struct {
	Source    string
	Format    Format
	Extractor Extractor
	Codec     Codec
	// PacketSize is the buffer size the pipeline should use for ReadPacket.
	PacketSize int
}

// Close releases the codec and the extractor.
func (m *Media) Close() error {
	return errors.Join(m.Codec.Close(), m.Extractor.Close())
}

// Opener opens sources. Open may block on I/O; callers run it off their own
// goroutine.
type Opener interface {
	Open(ctx context.Context, source string) (*Media, error)
}
