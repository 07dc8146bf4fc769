package engine

import (
	"context"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch_Sequence(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		e := newTestEngine(Options{})
		ctx := context.Background()

		v, err := e.Dispatch(Command{Name: OpSetSource, Args: map[string]any{"source": tone10s}}).Wait(ctx)
		require.NoError(t, err)
		assert.Equal(t, 10*time.Second, v)

		_, err = e.Dispatch(Command{Name: OpSeek, Args: map[string]any{"position": "1.5s"}}).Wait(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1500*time.Millisecond, e.Position())

		_, err = e.Dispatch(Command{Name: OpSetSpeed, Args: map[string]any{"speed": 1.5}}).Wait(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1.5, e.Speed())

		_, err = e.Dispatch(Command{Name: OpSetVolume, Args: map[string]any{"volume": 0.25}}).Wait(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0.25, e.Volume())

		_, err = e.Dispatch(Command{Name: OpPlay, Args: map[string]any{"until": 2.0}}).Wait(ctx)
		require.NoError(t, err)
		waitState(t, e, StatePaused)
		assert.Equal(t, 2*time.Second, e.Position())

		_, err = e.Dispatch(Command{Name: OpStop}).Wait(ctx)
		require.NoError(t, err)
		_, err = e.Dispatch(Command{Name: OpDispose}).Wait(ctx)
		require.NoError(t, err)
		assert.Equal(t, StateNone, e.State())
	})
}

func TestDispatch_Errors(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		e := newTestEngine(Options{})

		tests := []struct {
			name string
			cmd  Command
			want error
		}{
			{"unknown command", Command{Name: "rewind"}, ErrUnknownCommand},
			{"missing source", Command{Name: OpSetSource}, ErrBadArgument},
			{"source not a string", Command{Name: OpSetSource, Args: map[string]any{"source": 42}}, ErrBadArgument},
			{"bad position", Command{Name: OpSeek, Args: map[string]any{"position": "soon"}}, ErrBadArgument},
			{"bad speed type", Command{Name: OpSetSpeed, Args: map[string]any{"speed": "fast"}}, ErrBadArgument},
			{"bad loop type", Command{Name: OpPlay, Args: map[string]any{"loop": "yes"}}, ErrBadArgument},
		}
		for _, tt := range tests {
			err := e.Dispatch(tt.cmd).Err()
			assert.ErrorIs(t, err, tt.want, tt.name)
			assert.True(t, IsCode(err, CodeArgument), tt.name)
		}

		var ise *InvalidStateError
		require.ErrorAs(t, e.Dispatch(Command{Name: OpPause}).Err(), &ise)
		assert.Equal(t, OpPause, ise.Op)

		wait(t, e.Dispose())
	})
}

func TestDispatch_NumericArgs(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		e := newTestEngine(Options{})
		wait(t, e.SetSource(tone10s))

		tests := []struct {
			cmd   Command
			check func() bool
		}{
			{Command{Name: OpSetSpeed, Args: map[string]any{"speed": int32(2)}}, func() bool { return e.Speed() == 2 }},
			{Command{Name: OpSetSpeed, Args: map[string]any{"speed": float32(0.5)}}, func() bool { return e.Speed() == 0.5 }},
			{Command{Name: OpSetVolume, Args: map[string]any{"volume": uint8(0)}}, func() bool { return e.Volume() == 0 }},
			{Command{Name: OpSetVolume, Args: map[string]any{"volume": 1}}, func() bool { return e.Volume() == 1 }},
			{Command{Name: OpSeek, Args: map[string]any{"position": uint(3)}}, func() bool { return e.Position() == 3*time.Second }},
			{Command{Name: OpSeek, Args: map[string]any{"position": int16(1)}}, func() bool { return e.Position() == time.Second }},
			{Command{Name: OpSeek, Args: map[string]any{"position": 2.5}}, func() bool { return e.Position() == 2500*time.Millisecond }},
		}
		for _, tt := range tests {
			wait(t, e.Dispatch(tt.cmd))
			assert.True(t, tt.check(), "%s %v", tt.cmd.Name, tt.cmd.Args)
		}

		assert.ErrorIs(t, e.Dispatch(Command{Name: OpSetSpeed, Args: map[string]any{"speed": true}}).Err(), ErrBadArgument)
		wait(t, e.Dispose())
	})
}
