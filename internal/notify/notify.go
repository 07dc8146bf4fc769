// Package notify provides desktop notifications via D-Bus.
package notify

import "github.com/llehouerou/tempo/internal/tags"

// Urgency represents notification priority levels as defined by freedesktop.org.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Notification contains data for a desktop notification.
type Notification struct {
	Title      string  // Summary text (required)
	Body       string  // Body text (optional, supports basic markup)
	Icon       string  // Path to image file or icon name (optional)
	Timeout    int32   // ms, -1 = server default, 0 = never expire
	ReplacesID uint32  // 0 = new notification, >0 = replace existing
	Urgency    Urgency // Low, Normal, Critical
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify sends a notification and returns its ID.
	// Returns 0 and nil error if notifications are disabled or unavailable.
	Notify(n Notification) (uint32, error)
	// Close closes a notification by ID.
	Close(id uint32) error
}

// Nop drops every notification. New returns it when no notification
// server is reachable.
type Nop struct{}

func (Nop) Notify(Notification) (uint32, error) { return 0, nil }

func (Nop) Close(uint32) error { return nil }

// nowPlayingTimeout keeps the notification short; the player bar already
// shows the same information.
const nowPlayingTimeout = 4000

// NowPlaying builds the notification sent when a source starts. replaces is
// the ID of the previous one, 0 for none.
func NowPlaying(t tags.Tag, replaces uint32) Notification {
	body := t.Artist
	if t.Album != "" {
		if body != "" {
			body += " - "
		}
		body += t.Album
	}
	return Notification{
		Title:      t.Title,
		Body:       body,
		Icon:       tags.ArtPath(t.Source),
		Timeout:    nowPlayingTimeout,
		ReplacesID: replaces,
		Urgency:    UrgencyLow,
	}
}
