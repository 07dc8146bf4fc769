//nolint:goconst // test cases intentionally repeat strings for readability
package errmsg

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpSourceOpen,
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with operation",
			op:       OpSourceOpen,
			err:      errors.New("file not found"),
			expected: "Failed to open source: file not found",
		},
		{
			name:     "seek operation",
			op:       OpPlaybackSeek,
			err:      errors.New("invalid state"),
			expected: "Failed to seek: invalid state",
		},
		{
			name:     "playback operation",
			op:       OpPlaybackStart,
			err:      errors.New("no audio device"),
			expected: "Failed to start playback: no audio device",
		},
		{
			name:     "session operation",
			op:       OpSessionLoad,
			err:      errors.New("database is locked"),
			expected: "Failed to restore session: database is locked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpSourceOpen,
			context:  "song.mp3",
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with context",
			op:       OpSourceOpen,
			context:  "song.mp3",
			err:      errors.New("unsupported format"),
			expected: "Failed to open source 'song.mp3': unsupported format",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpSourceOpen,
			context:  "",
			err:      errors.New("unsupported format"),
			expected: "Failed to open source: unsupported format",
		},
		{
			name:     "speed with value context",
			op:       OpSpeedChange,
			context:  "0",
			err:      errors.New("speed must be positive"),
			expected: "Failed to change speed '0': speed must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith(%q, %q, %v) = %q, want %q", tt.op, tt.context, tt.err, result, tt.expected)
			}
		})
	}
}

func TestForCommand(t *testing.T) {
	tests := []struct {
		name     string
		expected Op
	}{
		{name: "setSource", expected: OpSourceOpen},
		{name: "play", expected: OpPlaybackStart},
		{name: "pause", expected: OpPlaybackPause},
		{name: "stop", expected: OpPlaybackStop},
		{name: "seek", expected: OpPlaybackSeek},
		{name: "setSpeed", expected: OpSpeedChange},
		{name: "setVolume", expected: OpVolumeChange},
		{name: "dispose", expected: OpShutdown},
		{name: "rewind", expected: Op("run rewind")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ForCommand(tt.name); got != tt.expected {
				t.Errorf("ForCommand(%q) = %q, want %q", tt.name, got, tt.expected)
			}
		})
	}
}

func TestOpConstants(t *testing.T) {
	// Verify that Op constants are non-empty and produce valid messages
	ops := []Op{
		OpSourceOpen, OpSourceForget,
		OpPlaybackStart, OpPlaybackPause, OpPlaybackStop, OpPlaybackSeek,
		OpSpeedChange, OpVolumeChange,
		OpSessionLoad, OpSessionSave, OpRecentLoad,
		OpInitialize, OpShutdown,
	}

	testErr := errors.New("test error")

	for _, op := range ops {
		t.Run(string(op), func(t *testing.T) {
			if op == "" {
				t.Error("Op constant should not be empty")
			}

			expected := "Failed to " + string(op) + ": test error"
			if result := Format(op, testErr); result != expected {
				t.Errorf("Format = %q, want %q", result, expected)
			}
		})
	}
}
