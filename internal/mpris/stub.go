//go:build !linux

package mpris

import "github.com/rs/zerolog"

// Adapter does nothing: there is no session bus to register on.
type Adapter struct{}

func New(Player, Handler, zerolog.Logger) (*Adapter, error) {
	return &Adapter{}, nil
}

func (*Adapter) Close() error { return nil }
