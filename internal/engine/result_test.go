package engine

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult_ResolvesOnce(t *testing.T) {
	r := newResult[int]()
	assert.True(t, r.resolve(1, nil))
	assert.False(t, r.resolve(2, errors.New("late")))

	v, err := r.Value()
	assert.Equal(t, 1, v)
	assert.NoError(t, err)
}

func TestResult_WaitHonoursContext(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		r := newResult[int]()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		_, err := r.Wait(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestResult_WaitReturnsValue(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		r := newResult[string]()
		go func() {
			time.Sleep(time.Second)
			r.resolve("done", nil)
		}()

		v, err := r.Wait(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "done", v)
	})
}

func TestAdapt_ForwardsOutcome(t *testing.T) {
	pending := newResult[time.Duration]()
	out := adapt(pending)
	select {
	case <-out.Done():
		t.Fatal("adapted result resolved early")
	default:
	}

	pending.resolve(3*time.Second, nil)
	v, err := out.Value()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, v)

	boom := errors.New("boom")
	failed := adapt(failedResult[struct{}](boom))
	assert.ErrorIs(t, failed.Err(), boom)
}
