package media

import (
	"encoding/binary"
	"time"
)

// PCMCodec decodes packets of interleaved signed 16-bit little-endian PCM.
//
// Input packets are copied into a fixed ring of slots whose buffers are
// reused, so steady-state decoding does not allocate. Decoding happens on
// DequeueOutput, on the caller's goroutine, which is why the timeout is never
// waited on.
type PCMCodec struct {
	channels int
	slots    []pcmSlot
	head     int
	count    int
	out      []float32
	closed   bool
}

type pcmSlot struct {
	data []byte
	pts  time.Duration
	eos  bool
}

// NewPCMCodec creates a codec with room for queueSize pending packets of
// packetSize bytes each.
func NewPCMCodec(channels, queueSize, packetSize int) *PCMCodec {
	queueSize = max(queueSize, 1)
	slots := make([]pcmSlot, queueSize)
	for i := range slots {
		slots[i].data = make([]byte, 0, packetSize)
	}
	return &PCMCodec{
		channels: max(channels, 1),
		slots:    slots,
		out:      make([]float32, 0, packetSize/2),
	}
}

// QueueInput implements Codec.
func (c *PCMCodec) QueueInput(p Packet) error {
	if c.closed {
		return ErrClosed
	}
	if c.count == len(c.slots) {
		return ErrTryAgain
	}
	slot := &c.slots[(c.head+c.count)%len(c.slots)]
	slot.data = append(slot.data[:0], p.Data...)
	slot.pts = p.PTS
	slot.eos = p.EOS
	c.count++
	return nil
}

// DequeueOutput implements Codec.
func (c *PCMCodec) DequeueOutput(_ time.Duration) (Frame, error) {
	if c.closed {
		return Frame{}, ErrClosed
	}
	if c.count == 0 {
		return Frame{}, ErrTryAgain
	}
	slot := &c.slots[c.head]
	c.head = (c.head + 1) % len(c.slots)
	c.count--

	if slot.eos {
		return Frame{PTS: slot.pts, EOS: true}, nil
	}

	n := len(slot.data) / 2
	n -= n % c.channels
	c.out = c.out[:0]
	for i := range n {
		v := int16(binary.LittleEndian.Uint16(slot.data[i*2:])) //nolint:gosec // audio samples
		c.out = append(c.out, float32(v)/32768.0)
	}
	return Frame{Samples: c.out, PTS: slot.pts}, nil
}

// Flush implements Codec.
func (c *PCMCodec) Flush() {
	c.head = 0
	c.count = 0
	c.out = c.out[:0]
}

// Close implements Codec.
func (c *PCMCodec) Close() error {
	c.closed = true
	c.slots = nil
	c.count = 0
	return nil
}

// putSample16 writes v, clamped to [-1, 1], as signed 16-bit little endian.
func putSample16(dst []byte, v float64) {
	v = min(max(v, -1), 1)
	binary.LittleEndian.PutUint16(dst, uint16(int16(v*32767))) //nolint:gosec // audio samples
}
