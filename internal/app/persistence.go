package app

import (
	"github.com/llehouerou/tempo/internal/engine"
	"github.com/llehouerou/tempo/internal/state"
)

// saveSession records the current source and position. Saves are
// debounced by the state manager, so this runs on every event.
func (m *Model) saveSession() {
	if m.source == "" || !m.last.State.HasSource() {
		return
	}
	pos := m.position()
	if m.last.State == engine.StateCompleted {
		pos = 0
	}
	m.StateMgr.SaveSession(state.Session{
		Source:   m.source,
		Title:    m.tag.Display(),
		Position: pos,
		Duration: m.last.Duration,
		Speed:    m.last.Speed,
		Volume:   m.volume,
	})
}
