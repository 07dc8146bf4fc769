package recent

import (
	"time"

	"github.com/llehouerou/tempo/internal/ui/action"
)

// Resume asks the app to open Source and continue from Position.
type Resume struct {
	Source   string
	Position time.Duration
}

// ActionType implements action.Action.
func (a Resume) ActionType() string { return "recent.resume" }

// Forget asks the app to drop Source from history.
type Forget struct {
	Source string
}

// ActionType implements action.Action.
func (a Forget) ActionType() string { return "recent.forget" }

// Close signals the list should close.
type Close struct{}

// ActionType implements action.Action.
func (a Close) ActionType() string { return "recent.close" }

// ActionMsg creates an action.Msg for a recent list action.
func ActionMsg(a action.Action) action.Msg {
	return action.Msg{Source: "recent", Action: a}
}
