// Package keymap defines key bindings and action dispatch for the application.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit   Action = "quit"
	ActionHelp   Action = "help"
	ActionOpen   Action = "open"   // prompt for a source
	ActionRecent Action = "recent" // toggle recently played list

	ActionToggleDisplay Action = "toggle_display"

	// Playback actions
	ActionPlayPause       Action = "play_pause"
	ActionStop            Action = "stop"
	ActionRestart         Action = "restart"
	ActionSeekForward     Action = "seek_forward"
	ActionSeekBack        Action = "seek_back"
	ActionSeekForwardLong Action = "seek_forward_long"
	ActionSeekBackLong    Action = "seek_back_long"

	// Speed and volume
	ActionSpeedUp    Action = "speed_up"
	ActionSpeedDown  Action = "speed_down"
	ActionSpeedReset Action = "speed_reset"
	ActionVolumeUp   Action = "volume_up"
	ActionVolumeDown Action = "volume_down"

	// Section playback
	ActionMarkStart  Action = "mark_start"  // [ - section start at current position
	ActionMarkEnd    Action = "mark_end"    // ] - section end at current position
	ActionToggleLoop Action = "toggle_loop" // a - loop the section instead of stopping at its end
	ActionClearMarks Action = "clear_marks" // esc

	// Recent list actions
	ActionMoveUp   Action = "move_up"
	ActionMoveDown Action = "move_down"
	ActionSelect   Action = "select"
	ActionDelete   Action = "delete"
)
