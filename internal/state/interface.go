package state

import "time"

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	SaveSession(s Session)
	GetSession() (*Session, error)
	ResumePosition(source string) (time.Duration, error)
	RecentSources(limit int) ([]Recent, error)
	ForgetSource(source string) error
	Flush() error
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
