package state

import (
	"slices"
	"sync"
	"time"
)

// Mock is a test double for Manager.
type Mock struct {
	mu      sync.Mutex
	session *Session
	recents []Recent
	saves   int
	closed  bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SaveSession(s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = &s
	m.saves++
	m.recents = slices.DeleteFunc(m.recents, func(r Recent) bool { return r.Source == s.Source })
	m.recents = slices.Insert(m.recents, 0, Recent{
		Source:       s.Source,
		Title:        s.Title,
		Duration:     s.Duration,
		Position:     s.Position,
		LastPlayedAt: time.Now(),
	})
}

func (m *Mock) GetSession() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, nil
}

func (m *Mock) ResumePosition(source string) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.recents {
		if r.Source == source {
			return r.Position, nil
		}
	}
	return 0, nil
}

func (m *Mock) RecentSources(limit int) ([]Recent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.recents[:min(limit, len(m.recents))]), nil
}

func (m *Mock) ForgetSource(source string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recents = slices.DeleteFunc(m.recents, func(r Recent) bool { return r.Source == source })
	return nil
}

func (m *Mock) Flush() error { return nil }

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) SetSession(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
}

func (m *Mock) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
