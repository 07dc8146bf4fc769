//go:build linux

package mpris

import (
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"
	"github.com/rs/zerolog"

	"github.com/llehouerou/tempo/internal/engine"
	"github.com/llehouerou/tempo/internal/stretch"
	"github.com/llehouerou/tempo/internal/tags"
)

const busName = "tempo"

// Adapter serves org.mpris.MediaPlayer2 for one engine.
type Adapter struct {
	server *server.Server
	log    zerolog.Logger
}

// New starts serving on the session bus. Listen errors (no session bus)
// are logged, not returned: the player works without it.
func New(p Player, h Handler, log zerolog.Logger) (*Adapter, error) {
	a := &Adapter{
		server: server.NewServer(busName, &rootAdapter{}, newPlayerAdapter(p, h)),
		log:    log.With().Str("component", "mpris").Logger(),
	}
	go func() {
		if err := a.server.Listen(); err != nil {
			a.log.Warn().Err(err).Msg("listen")
		}
	}()
	return a, nil
}

// Close releases the bus name.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error { return nil }
func (r *rootAdapter) Quit() error  { return nil }

func (r *rootAdapter) CanQuit() (bool, error)      { return false, nil }
func (r *rootAdapter) CanRaise() (bool, error)     { return false, nil }
func (r *rootAdapter) HasTrackList() (bool, error) { return false, nil }
func (r *rootAdapter) Identity() (string, error)   { return "Tempo", nil }

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file", "tone"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/wav", "audio/ogg"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	player Player
	handle Handler

	mu      sync.Mutex
	tagFor  string
	tag     tags.Tag
	artPath string
}

func newPlayerAdapter(p Player, h Handler) *playerAdapter {
	return &playerAdapter{player: p, handle: h}
}

// Sections and single sources only: there is nothing to skip to.
func (p *playerAdapter) Next() error     { return nil }
func (p *playerAdapter) Previous() error { return nil }

func (p *playerAdapter) Pause() error {
	p.handle(Request{Action: ActionPause})
	return nil
}

func (p *playerAdapter) PlayPause() error {
	p.handle(Request{Action: ActionPlayPause})
	return nil
}

func (p *playerAdapter) Stop() error {
	p.handle(Request{Action: ActionStop})
	return nil
}

func (p *playerAdapter) Play() error {
	p.handle(Request{Action: ActionPlay})
	return nil
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	p.handle(Request{Action: ActionSeekBy, Offset: time.Duration(offset) * time.Microsecond})
	return nil
}

func (p *playerAdapter) SetPosition(_ string, position types.Microseconds) error {
	p.handle(Request{Action: ActionSeekTo, Offset: time.Duration(position) * time.Microsecond})
	return nil
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	return playbackStatus(p.player.Snapshot().State), nil
}

func playbackStatus(s engine.State) types.PlaybackStatus {
	switch s {
	case engine.StatePlaying, engine.StateBuffering:
		return types.PlaybackStatusPlaying
	case engine.StatePaused:
		return types.PlaybackStatusPaused
	default:
		return types.PlaybackStatusStopped
	}
}

func (p *playerAdapter) Rate() (float64, error) {
	return p.player.Snapshot().Speed, nil
}

func (p *playerAdapter) SetRate(rate float64) error {
	// A rate of zero means pause.
	if rate == 0 {
		return p.Pause()
	}
	p.handle(Request{Action: ActionSetSpeed, Value: rate})
	return nil
}

func (p *playerAdapter) MinimumRate() (float64, error) { return stretch.MinSpeed, nil }
func (p *playerAdapter) MaximumRate() (float64, error) { return stretch.MaxSpeed, nil }

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	source := p.player.Source()
	if source == "" {
		return types.Metadata{}, nil
	}
	tag, art := p.lookup(source)

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(trackID(source)),
		Title:   tag.Title,
		Album:   tag.Album,
	}
	if tag.Artist != "" {
		meta.Artist = []string{tag.Artist}
	}
	if d := p.player.Snapshot().Duration; d > 0 {
		meta.Length = types.Microseconds(d.Microseconds())
	}
	if art != "" {
		meta.ArtUrl = "file://" + art
	}
	return meta, nil
}

// lookup reads the tags of source once.
func (p *playerAdapter) lookup(source string) (tags.Tag, string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tagFor != source {
		p.tagFor = source
		p.tag = tags.Lookup(source)
		p.artPath = tags.ArtPath(source)
	}
	return p.tag, p.artPath
}

func (p *playerAdapter) Volume() (float64, error) {
	return p.player.Volume(), nil
}

func (p *playerAdapter) SetVolume(v float64) error {
	p.handle(Request{Action: ActionSetVolume, Value: min(max(v, 0), 1)})
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	return p.player.Snapshot().PositionAt(time.Now()).Microseconds(), nil
}

func (p *playerAdapter) CanGoNext() (bool, error)     { return false, nil }
func (p *playerAdapter) CanGoPrevious() (bool, error) { return false, nil }

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.player.Snapshot().State.HasSource(), nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return p.player.Snapshot().State.HasSource(), nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return p.player.Snapshot().State.HasSource(), nil
}

func (p *playerAdapter) CanControl() (bool, error) { return true, nil }

func trackID(source string) string {
	h := fnv.New64a()
	h.Write([]byte(source))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
