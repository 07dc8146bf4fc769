package app

import (
	"github.com/llehouerou/tempo/internal/engine"
)

// Player is the part of the engine the UI drives. Every change goes through
// Dispatch, so the UI uses the same Command surface as any other front-end.
type Player interface {
	Dispatch(cmd engine.Command) *engine.Result[any]
	Subscribe() *engine.Subscription
	Snapshot() engine.Event
	Source() string
	Volume() float64
}

var _ Player = (*engine.Engine)(nil)
