// Package action defines the messages popups send back to the app.
package action

import tea "github.com/charmbracelet/bubbletea"

// Action is something a popup asks the app to do.
// ActionType names it in logs.
type Action interface {
	ActionType() string
}

// Msg wraps an Action with the name of the popup that produced it.
type Msg struct {
	Source string // "helpbindings", "openprompt", "recent"
	Action Action
}

var _ tea.Msg = Msg{}
