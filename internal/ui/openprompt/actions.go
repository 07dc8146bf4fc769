package openprompt

import (
	"github.com/llehouerou/tempo/internal/ui/action"
)

// Open asks the app to load Source.
type Open struct {
	Source string
}

// ActionType implements action.Action.
func (a Open) ActionType() string { return "openprompt.open" }

// Cancel closes the prompt without opening anything.
type Cancel struct{}

// ActionType implements action.Action.
func (a Cancel) ActionType() string { return "openprompt.cancel" }

// ActionMsg creates an action.Msg for an openprompt action.
func ActionMsg(a action.Action) action.Msg {
	return action.Msg{Source: "openprompt", Action: a}
}
