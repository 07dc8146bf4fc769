package media

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pcm16(vals ...int16) []byte {
	b := make([]byte, len(vals)*2)
	for i, v := range vals {
		binary.LittleEndian.PutUint16(b[i*2:], uint16(v))
	}
	return b
}

func TestPCMCodec_DecodesInOrder(t *testing.T) {
	c := NewPCMCodec(2, 2, 8)

	require.NoError(t, c.QueueInput(Packet{Data: pcm16(16384, -16384), PTS: time.Second}))
	require.NoError(t, c.QueueInput(Packet{Data: pcm16(0, 32767), PTS: 2 * time.Second}))

	f, err := c.DequeueOutput(0)
	require.NoError(t, err)
	assert.Equal(t, time.Second, f.PTS)
	assert.Equal(t, []float32{0.5, -0.5}, f.Samples)

	f, err = c.DequeueOutput(0)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, f.PTS)
	assert.InDelta(t, 1.0, f.Samples[1], 0.001)
}

func TestPCMCodec_FullQueueReturnsTryAgain(t *testing.T) {
	c := NewPCMCodec(1, 1, 4)

	require.NoError(t, c.QueueInput(Packet{Data: pcm16(1)}))
	assert.ErrorIs(t, c.QueueInput(Packet{Data: pcm16(2)}), ErrTryAgain)

	_, err := c.DequeueOutput(0)
	require.NoError(t, err)
	assert.NoError(t, c.QueueInput(Packet{Data: pcm16(2)}))
}

func TestPCMCodec_EmptyReturnsTryAgain(t *testing.T) {
	c := NewPCMCodec(1, 1, 4)
	_, err := c.DequeueOutput(10 * time.Millisecond)
	assert.ErrorIs(t, err, ErrTryAgain)
}

func TestPCMCodec_CopiesInput(t *testing.T) {
	c := NewPCMCodec(1, 1, 4)
	data := pcm16(16384)
	require.NoError(t, c.QueueInput(Packet{Data: data}))
	data[0], data[1] = 0, 0

	f, err := c.DequeueOutput(0)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5}, f.Samples)
}

func TestPCMCodec_EOS(t *testing.T) {
	c := NewPCMCodec(2, 2, 8)
	require.NoError(t, c.QueueInput(Packet{Data: pcm16(1, 1)}))
	require.NoError(t, c.QueueInput(Packet{EOS: true}))

	f, err := c.DequeueOutput(0)
	require.NoError(t, err)
	assert.False(t, f.EOS)

	f, err = c.DequeueOutput(0)
	require.NoError(t, err)
	assert.True(t, f.EOS)
	assert.Empty(t, f.Samples)
}

func TestPCMCodec_FlushDropsQueued(t *testing.T) {
	c := NewPCMCodec(1, 2, 4)
	require.NoError(t, c.QueueInput(Packet{Data: pcm16(1)}))
	require.NoError(t, c.QueueInput(Packet{Data: pcm16(2)}))

	c.Flush()

	_, err := c.DequeueOutput(0)
	assert.ErrorIs(t, err, ErrTryAgain)
	assert.NoError(t, c.QueueInput(Packet{Data: pcm16(3)}))
}

func TestPCMCodec_Closed(t *testing.T) {
	c := NewPCMCodec(1, 1, 4)
	require.NoError(t, c.Close())

	assert.ErrorIs(t, c.QueueInput(Packet{Data: pcm16(1)}), ErrClosed)
	_, err := c.DequeueOutput(0)
	assert.ErrorIs(t, err, ErrClosed)
}
