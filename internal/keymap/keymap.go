package keymap

// Binding describes a single key binding.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback", "section", "recent"
}

// Bindings contains all key bindings.
var Bindings = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
	{ActionHelp, []string{"?"}, "Show help", "global"},
	{ActionOpen, []string{"o"}, "Open source", "global"},
	{ActionRecent, []string{"r"}, "Recently played", "global"},
	{ActionToggleDisplay, []string{"v"}, "Compact/expanded player", "global"},

	// Playback
	{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
	{ActionStop, []string{"s"}, "Stop", "playback"},
	{ActionRestart, []string{"home"}, "Back to start", "playback"},
	{ActionSeekBack, []string{"left", "h"}, "Seek back", "playback"},
	{ActionSeekForward, []string{"right", "l"}, "Seek forward", "playback"},
	{ActionSeekBackLong, []string{"shift+left", "H"}, "Seek back 1 min", "playback"},
	{ActionSeekForwardLong, []string{"shift+right", "L"}, "Seek forward 1 min", "playback"},
	{ActionSpeedUp, []string{"+", "="}, "Faster", "playback"},
	{ActionSpeedDown, []string{"-"}, "Slower", "playback"},
	{ActionSpeedReset, []string{"0"}, "Normal speed", "playback"},
	{ActionVolumeUp, []string{"up"}, "Volume up", "playback"},
	{ActionVolumeDown, []string{"down"}, "Volume down", "playback"},

	// Section
	{ActionMarkStart, []string{"["}, "Section start here", "section"},
	{ActionMarkEnd, []string{"]"}, "Play to here, then pause", "section"},
	{ActionToggleLoop, []string{"a"}, "Loop section", "section"},
	{ActionClearMarks, []string{"esc"}, "Clear section", "section"},

	// Recent list
	{ActionMoveUp, []string{"k", "up"}, "Move up", "recent"},
	{ActionMoveDown, []string{"j", "down"}, "Move down", "recent"},
	{ActionSelect, []string{"enter"}, "Resume source", "recent"},
	{ActionDelete, []string{"d", "delete"}, "Forget source", "recent"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range Bindings {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}

// ByContexts returns the bindings of every listed context, in order.
func ByContexts(contexts ...string) []Binding {
	var result []Binding
	for _, c := range contexts {
		result = append(result, ByContext(c)...)
	}
	return result
}
