// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Source operations
	OpSourceOpen   Op = "open source"
	OpSourceForget Op = "forget source"

	// Playback operations
	OpPlaybackStart Op = "start playback"
	OpPlaybackPause Op = "pause playback"
	OpPlaybackStop  Op = "stop playback"
	OpPlaybackSeek  Op = "seek"
	OpSpeedChange   Op = "change speed"
	OpVolumeChange  Op = "change volume"

	// Session persistence
	OpSessionLoad Op = "restore session"
	OpSessionSave Op = "save session"
	OpRecentLoad  Op = "load recent sources"

	// Initialization
	OpInitialize Op = "initialize application"
	OpShutdown   Op = "release player"
)

// commandOps maps player command names to the operation shown to the user.
var commandOps = map[string]Op{
	"setSource": OpSourceOpen,
	"play":      OpPlaybackStart,
	"pause":     OpPlaybackPause,
	"stop":      OpPlaybackStop,
	"seek":      OpPlaybackSeek,
	"setSpeed":  OpSpeedChange,
	"setVolume": OpVolumeChange,
	"dispose":   OpShutdown,
}

// ForCommand returns the operation for a player command name. Unknown names
// are shown as "run <name>".
func ForCommand(name string) Op {
	if op, ok := commandOps[name]; ok {
		return op
	}
	return Op("run " + name)
}

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
