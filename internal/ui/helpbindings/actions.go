package helpbindings

import "github.com/llehouerou/tempo/internal/ui/action"

const source = "helpbindings"

// Close asks the owner to hide the popup.
type Close struct{}

func (Close) ActionType() string { return source + ".close" }

// ActionMsg wraps a helpbindings action.
func ActionMsg(a action.Action) action.Msg {
	return action.Msg{Source: source, Action: a}
}
