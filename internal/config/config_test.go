//nolint:goconst // test cases intentionally repeat strings for readability
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
)

// chdirTemp moves into a fresh temp directory for the duration of the test.
func chdirTemp(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("could not get working directory: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("could not change to temp directory: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(originalWd)
	})
}

func writeConfig(t *testing.T, content string) {
	t.Helper()
	if err := os.WriteFile("config.toml", []byte(content), 0o600); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tilde expands to home",
			input:    "~/music",
			expected: filepath.Join(home, "music"),
		},
		{
			name:     "tilde with nested path",
			input:    "~/music/podcasts/episodes",
			expected: filepath.Join(home, "music", "podcasts", "episodes"),
		},
		{
			name:     "absolute path unchanged",
			input:    "/usr/local/music",
			expected: "/usr/local/music",
		},
		{
			name:     "relative path unchanged",
			input:    "music/albums",
			expected: "music/albums",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			expected: "",
		},
		{
			name:     "tilde only",
			input:    "~",
			expected: home,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			if result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()

	if len(paths) != 2 {
		t.Fatalf("getConfigPaths() returned %d paths, want 2", len(paths))
	}

	expectedFirst := filepath.Join(xdg.ConfigHome, "tempo", "config.toml")
	if paths[0] != expectedFirst {
		t.Errorf("first config path = %q, want %q", paths[0], expectedFirst)
	}

	// Last path should be local config.toml
	if paths[1] != "config.toml" {
		t.Errorf("last config path = %q, want %q", paths[1], "config.toml")
	}
}

func TestResumeEnabled(t *testing.T) {
	yes, no := true, false
	tests := []struct {
		name     string
		resume   *bool
		expected bool
	}{
		{name: "unset defaults to true", resume: nil, expected: true},
		{name: "explicit true", resume: &yes, expected: true},
		{name: "explicit false", resume: &no, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Resume: tt.resume}
			if got := cfg.ResumeEnabled(); got != tt.expected {
				t.Errorf("ResumeEnabled() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestResolveSource(t *testing.T) {
	tests := []struct {
		name     string
		folder   string
		source   string
		expected string
	}{
		{name: "no folder", folder: "", source: "song.mp3", expected: "song.mp3"},
		{name: "relative joined", folder: "/music", source: "a/song.mp3", expected: "/music/a/song.mp3"},
		{name: "absolute kept", folder: "/music", source: "/tmp/song.mp3", expected: "/tmp/song.mp3"},
		{name: "tone scheme kept", folder: "/music", source: "tone:440", expected: "tone:440"},
		{name: "file uri kept", folder: "/music", source: "file:///a.wav", expected: "file:///a.wav"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{DefaultFolder: tt.folder}
			if got := cfg.ResolveSource(tt.source); got != tt.expected {
				t.Errorf("ResolveSource(%q) = %q, want %q", tt.source, got, tt.expected)
			}
		})
	}
}

func TestGetEngineConfig_Defaults(t *testing.T) {
	cfg := Config{}
	ec := cfg.GetEngineConfig()

	if ec.PacketFrames != 1024 {
		t.Errorf("PacketFrames = %d, want 1024", ec.PacketFrames)
	}
	if ec.InputQueue != 4 {
		t.Errorf("InputQueue = %d, want 4", ec.InputQueue)
	}
	if ec.DequeueTimeout != 10*time.Millisecond {
		t.Errorf("DequeueTimeout = %v, want 10ms", ec.DequeueTimeout)
	}
	if ec.StallThreshold != 200 {
		t.Errorf("StallThreshold = %d, want 200", ec.StallThreshold)
	}
	if ec.DriftTolerance != 500*time.Millisecond {
		t.Errorf("DriftTolerance = %v, want 500ms", ec.DriftTolerance)
	}
	if ec.BufferingInterval != 200*time.Millisecond {
		t.Errorf("BufferingInterval = %v, want 200ms", ec.BufferingInterval)
	}
	if ec.PlayingInterval != 500*time.Millisecond {
		t.Errorf("PlayingInterval = %v, want 500ms", ec.PlayingInterval)
	}
	if ec.Speed != 1 {
		t.Errorf("Speed = %v, want 1", ec.Speed)
	}
	if ec.Volume == nil || *ec.Volume != 1 {
		t.Errorf("Volume = %v, want 1", ec.Volume)
	}
	if ec.SeekStep != 5*time.Second {
		t.Errorf("SeekStep = %v, want 5s", ec.SeekStep)
	}
	if ec.SpeedStep != 0.1 {
		t.Errorf("SpeedStep = %v, want 0.1", ec.SpeedStep)
	}
}

func TestGetEngineConfig_InvalidValues(t *testing.T) {
	vol := 1.5
	cfg := Config{
		Engine: EngineConfig{
			PacketFrames:   -1,
			StallThreshold: -5,
			Speed:          9,
			Volume:         &vol,
			SpeedStep:      2,
		},
	}
	ec := cfg.GetEngineConfig()

	if ec.PacketFrames != 1024 {
		t.Errorf("PacketFrames = %d, want 1024", ec.PacketFrames)
	}
	if ec.StallThreshold != 200 {
		t.Errorf("StallThreshold = %d, want 200", ec.StallThreshold)
	}
	if ec.Speed != 1 {
		t.Errorf("Speed = %v, want 1", ec.Speed)
	}
	if *ec.Volume != 1 {
		t.Errorf("Volume = %v, want 1", *ec.Volume)
	}
	if ec.SpeedStep != 0.1 {
		t.Errorf("SpeedStep = %v, want 0.1", ec.SpeedStep)
	}
}

func TestGetEngineConfig_BoundaryValues(t *testing.T) {
	tests := []struct {
		name  string
		speed float64
		want  float64
	}{
		{name: "min speed", speed: 0.25, want: 0.25},
		{name: "max speed", speed: 4, want: 4},
		{name: "below min", speed: 0.2, want: 1},
		{name: "zero means default", speed: 0, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Engine: EngineConfig{Speed: tt.speed}}
			if got := cfg.GetEngineConfig().Speed; got != tt.want {
				t.Errorf("Speed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetOutputConfig(t *testing.T) {
	tests := []struct {
		name    string
		output  OutputConfig
		backend string
		buffer  time.Duration
	}{
		{name: "defaults", output: OutputConfig{}, backend: "speaker", buffer: 200 * time.Millisecond},
		{name: "oto", output: OutputConfig{Backend: "oto"}, backend: "oto", buffer: 200 * time.Millisecond},
		{name: "null with buffer", output: OutputConfig{Backend: "null", Buffer: time.Second}, backend: "null", buffer: time.Second},
		{name: "unknown backend", output: OutputConfig{Backend: "alsa"}, backend: "speaker", buffer: 200 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Output: tt.output}
			got := cfg.GetOutputConfig()
			if got.Backend != tt.backend {
				t.Errorf("Backend = %q, want %q", got.Backend, tt.backend)
			}
			if got.Buffer != tt.buffer {
				t.Errorf("Buffer = %v, want %v", got.Buffer, tt.buffer)
			}
		})
	}
}

func TestGetLogConfig_Defaults(t *testing.T) {
	cfg := Config{}
	lc := cfg.GetLogConfig()
	if lc.Level != "info" {
		t.Errorf("Level = %q, want %q", lc.Level, "info")
	}
	expected := filepath.Join(xdg.StateHome, "tempo", "tempo.log")
	if lc.File != expected {
		t.Errorf("File = %q, want %q", lc.File, expected)
	}
}

func TestLoad_EmptyConfig(t *testing.T) {
	chdirTemp(t)
	writeConfig(t, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}
}

func TestLoad_BasicConfig(t *testing.T) {
	chdirTemp(t)
	writeConfig(t, `
default_folder = "~/podcasts"
resume = false
notifications = true

[output]
backend = " OTO "
buffer = "300ms"

[engine]
packet_frames = 512
dequeue_timeout = "20ms"
drift_tolerance = "1s"
speed = 1.5
volume = 0.25

[log]
level = "debug"
file = "~/tempo.log"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	home, _ := os.UserHomeDir()
	if cfg.DefaultFolder != filepath.Join(home, "podcasts") {
		t.Errorf("DefaultFolder = %q, want %q", cfg.DefaultFolder, filepath.Join(home, "podcasts"))
	}
	if cfg.ResumeEnabled() {
		t.Error("ResumeEnabled() = true, want false")
	}
	if !cfg.Notifications {
		t.Error("Notifications = false, want true")
	}

	out := cfg.GetOutputConfig()
	if out.Backend != "oto" {
		t.Errorf("Output.Backend = %q, want %q", out.Backend, "oto")
	}
	if out.Buffer != 300*time.Millisecond {
		t.Errorf("Output.Buffer = %v, want 300ms", out.Buffer)
	}

	ec := cfg.GetEngineConfig()
	if ec.PacketFrames != 512 {
		t.Errorf("PacketFrames = %d, want 512", ec.PacketFrames)
	}
	if ec.DequeueTimeout != 20*time.Millisecond {
		t.Errorf("DequeueTimeout = %v, want 20ms", ec.DequeueTimeout)
	}
	if ec.DriftTolerance != time.Second {
		t.Errorf("DriftTolerance = %v, want 1s", ec.DriftTolerance)
	}
	if ec.Speed != 1.5 {
		t.Errorf("Speed = %v, want 1.5", ec.Speed)
	}
	if *ec.Volume != 0.25 {
		t.Errorf("Volume = %v, want 0.25", *ec.Volume)
	}
	// Unset values still get defaults
	if ec.InputQueue != 4 {
		t.Errorf("InputQueue = %d, want 4", ec.InputQueue)
	}

	lc := cfg.GetLogConfig()
	if lc.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", lc.Level, "debug")
	}
	if lc.File != filepath.Join(home, "tempo.log") {
		t.Errorf("Log.File = %q, want %q", lc.File, filepath.Join(home, "tempo.log"))
	}
}

func TestLoad_ZeroVolumeKept(t *testing.T) {
	chdirTemp(t)
	writeConfig(t, `
[engine]
volume = 0.0
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if v := cfg.GetEngineConfig().Volume; v == nil || *v != 0 {
		t.Errorf("Volume = %v, want 0", v)
	}
}

func TestLoad_InvalidToml(t *testing.T) {
	chdirTemp(t)
	writeConfig(t, "invalid = [[[")

	if _, err := Load(); err == nil {
		t.Error("Load() expected error for invalid TOML, got nil")
	}
}
