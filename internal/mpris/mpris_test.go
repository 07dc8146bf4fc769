//go:build linux

package mpris

import (
	"testing"
	"time"

	"github.com/quarckster/go-mpris-server/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/tempo/internal/engine"
)

type fakePlayer struct {
	ev     engine.Event
	source string
	volume float64
}

func (f *fakePlayer) Snapshot() engine.Event { return f.ev }
func (f *fakePlayer) Source() string         { return f.source }
func (f *fakePlayer) Volume() float64        { return f.volume }

func newTestAdapter() (*playerAdapter, *fakePlayer, *[]Request) {
	fp := &fakePlayer{volume: 1, ev: engine.Event{Speed: 1}}
	var got []Request
	return newPlayerAdapter(fp, func(r Request) { got = append(got, r) }), fp, &got
}

func TestPlaybackStatus(t *testing.T) {
	tests := []struct {
		state engine.State
		want  types.PlaybackStatus
	}{
		{engine.StateNone, types.PlaybackStatusStopped},
		{engine.StateStopped, types.PlaybackStatusStopped},
		{engine.StateCompleted, types.PlaybackStatusStopped},
		{engine.StatePlaying, types.PlaybackStatusPlaying},
		{engine.StateBuffering, types.PlaybackStatusPlaying},
		{engine.StatePaused, types.PlaybackStatusPaused},
	}
	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, playbackStatus(tt.state))
		})
	}
}

func TestControls_AreForwarded(t *testing.T) {
	p, _, got := newTestAdapter()

	require.NoError(t, p.PlayPause())
	require.NoError(t, p.Seek(types.Microseconds(-5_000_000)))
	require.NoError(t, p.SetPosition("/x", types.Microseconds(90_000_000)))
	require.NoError(t, p.SetRate(1.5))
	require.NoError(t, p.SetVolume(2))

	assert.Equal(t, []Request{
		{Action: ActionPlayPause},
		{Action: ActionSeekBy, Offset: -5 * time.Second},
		{Action: ActionSeekTo, Offset: 90 * time.Second},
		{Action: ActionSetSpeed, Value: 1.5},
		{Action: ActionSetVolume, Value: 1},
	}, *got)
}

func TestSetRate_ZeroPauses(t *testing.T) {
	p, _, got := newTestAdapter()

	require.NoError(t, p.SetRate(0))

	assert.Equal(t, []Request{{Action: ActionPause}}, *got)
}

func TestRateRange(t *testing.T) {
	p, fp, _ := newTestAdapter()
	fp.ev.Speed = 0.75

	rate, _ := p.Rate()
	minRate, _ := p.MinimumRate()
	maxRate, _ := p.MaximumRate()

	assert.InDelta(t, 0.75, rate, 1e-9)
	assert.InDelta(t, 0.25, minRate, 1e-9)
	assert.InDelta(t, 4.0, maxRate, 1e-9)
}

func TestMetadata(t *testing.T) {
	p, fp, _ := newTestAdapter()

	meta, err := p.Metadata()
	require.NoError(t, err)
	assert.Empty(t, meta.Title, "no source")

	fp.source = "tone:220?duration=30s"
	fp.ev = engine.Event{State: engine.StateStopped, Duration: 30 * time.Second, Speed: 1}

	meta, err = p.Metadata()
	require.NoError(t, err)
	assert.Equal(t, "Tone 220 Hz", meta.Title)
	assert.Equal(t, types.Microseconds(30_000_000), meta.Length)
	assert.Empty(t, meta.ArtUrl)
	assert.Equal(t, trackID("tone:220?duration=30s"), string(meta.TrackId))
}

func TestCapabilities_FollowSource(t *testing.T) {
	p, fp, _ := newTestAdapter()

	canPlay, _ := p.CanPlay()
	assert.False(t, canPlay)

	fp.ev.State = engine.StatePaused
	canPlay, _ = p.CanPlay()
	canSeek, _ := p.CanSeek()
	assert.True(t, canPlay)
	assert.True(t, canSeek)
}

func TestPosition(t *testing.T) {
	p, fp, _ := newTestAdapter()
	fp.ev = engine.Event{State: engine.StatePaused, Position: 2 * time.Second, Speed: 1}

	pos, err := p.Position()

	require.NoError(t, err)
	assert.Equal(t, int64(2_000_000), pos)
}
