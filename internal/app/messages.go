// Package app contains the terminal player: the root bubbletea model, its
// messages and the commands that drive the engine.
package app

import (
	"time"

	"github.com/llehouerou/tempo/internal/engine"
	"github.com/llehouerou/tempo/internal/mpris"
	"github.com/llehouerou/tempo/internal/state"
	"github.com/llehouerou/tempo/internal/tags"
)

// TickMsg refreshes the extrapolated position while playing.
type TickMsg time.Time

// EngineEventMsg carries one event from the engine subscription.
type EngineEventMsg engine.Event

// EngineClosedMsg is sent once the subscription is closed.
type EngineClosedMsg struct{}

// CommandResultMsg reports the outcome of a dispatched engine command.
type CommandResultMsg struct {
	Op    string
	Args  map[string]any
	Value any
	Err   error
}

// SourceOpenedMsg is sent when opening a source finished, successfully or
// not.
type SourceOpenedMsg struct {
	Source   string
	Tag      tags.Tag
	Duration time.Duration
	Start    time.Duration
	Autoplay bool
	Op       string // engine operation that failed
	Err      error
}

// RecentLoadedMsg carries the recently played list for the popup.
type RecentLoadedMsg struct {
	Items []state.Recent
	Err   error
}

// ForgetResultMsg reports the outcome of removing a source from history.
type ForgetResultMsg struct {
	Source string
	Err    error
}

// StderrMsg is a line written to stderr by the audio libraries.
type StderrMsg struct {
	Line string
}

// ShutdownMsg is sent when the engine was released on quit.
type ShutdownMsg struct {
	Err error
}

// RemoteMsg is a transport request from the desktop (media keys, applets).
type RemoteMsg mpris.Request

// NotifiedMsg carries the ID of the last desktop notification.
type NotifiedMsg struct {
	ID uint32
}
