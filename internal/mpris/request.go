// Package mpris exposes the player on the session bus so desktop media
// keys and applets can drive it.
package mpris

import (
	"time"

	"github.com/llehouerou/tempo/internal/engine"
)

// Action is a transport request received over D-Bus.
type Action int

const (
	ActionPlay Action = iota
	ActionPause
	ActionPlayPause
	ActionStop
	ActionSeekBy    // Offset is relative
	ActionSeekTo    // Offset is absolute
	ActionSetSpeed  // Value is the speed
	ActionSetVolume // Value is the volume
)

// Request is handed to the Handler. Requests are forwarded rather than
// executed so the front-end keeps its section bounds and marks consistent.
type Request struct {
	Action Action
	Offset time.Duration
	Value  float64
}

// Handler receives requests. It is called from the D-Bus goroutine.
type Handler func(Request)

// Player is the read side of the engine used to answer property queries.
type Player interface {
	Snapshot() engine.Event
	Source() string
	Volume() float64
}
