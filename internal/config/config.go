package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "tempo"

type Config struct {
	DefaultFolder string `koanf:"default_folder"` // base for relative sources; empty means cwd
	Resume        *bool  `koanf:"resume"`         // reopen the last source at its position (default: true)
	Notifications bool   `koanf:"notifications"`  // desktop notification when a source starts (default: false)

	Output OutputConfig `koanf:"output"`
	Engine EngineConfig `koanf:"engine"`
	Log    LogConfig    `koanf:"log"`
}

// OutputConfig selects the audio backend.
type OutputConfig struct {
	Backend string        `koanf:"backend"` // "speaker", "oto" or "null" (default: "speaker")
	Buffer  time.Duration `koanf:"buffer"`  // audio queued ahead of the device (default: 200ms)
}

// EngineConfig tunes the playback pipeline.
type EngineConfig struct {
	PacketFrames      int           `koanf:"packet_frames"`      // frames read per packet (default: 1024)
	InputQueue        int           `koanf:"input_queue"`        // packets buffered before the decoder (default: 4)
	DequeueTimeout    time.Duration `koanf:"dequeue_timeout"`    // wait per decoder poll (default: 10ms)
	StallThreshold    int           `koanf:"stall_threshold"`    // empty polls before giving up (default: 200)
	DriftTolerance    time.Duration `koanf:"drift_tolerance"`    // lag before reporting buffering (default: 500ms)
	BufferingInterval time.Duration `koanf:"buffering_interval"` // observer cadence while buffering (default: 200ms)
	PlayingInterval   time.Duration `koanf:"playing_interval"`   // observer cadence while playing (default: 500ms)
	Speed             float64       `koanf:"speed"`              // initial speed, 0.25-4 (default: 1)
	Volume            *float64      `koanf:"volume"`             // initial volume, 0-1 (default: 1)
	SeekStep          time.Duration `koanf:"seek_step"`          // TUI seek increment (default: 5s)
	SpeedStep         float64       `koanf:"speed_step"`         // TUI speed increment (default: 0.1)
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `koanf:"level"` // zerolog level name (default: "info")
	File  string `koanf:"file"`  // default: $XDG_STATE_HOME/tempo/tempo.log
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.DefaultFolder != "" {
		cfg.DefaultFolder = expandPath(cfg.DefaultFolder)
	}
	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}
	cfg.Output.Backend = strings.ToLower(strings.TrimSpace(cfg.Output.Backend))

	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/tempo/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// ResumeEnabled returns whether the last session should be restored.
func (c *Config) ResumeEnabled() bool {
	return c.Resume == nil || *c.Resume
}

// ResolveSource turns a relative file source into a path under
// DefaultFolder. Scheme sources (tone:, file://) are returned unchanged.
func (c *Config) ResolveSource(source string) string {
	source = expandPath(source)
	if c.DefaultFolder == "" || filepath.IsAbs(source) || strings.Contains(source, ":") {
		return source
	}
	return filepath.Join(c.DefaultFolder, source)
}

// GetOutputConfig returns the output configuration with defaults applied.
func (c *Config) GetOutputConfig() OutputConfig {
	cfg := c.Output
	switch cfg.Backend {
	case "speaker", "oto", "null":
	default:
		cfg.Backend = "speaker"
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = 200 * time.Millisecond
	}
	return cfg
}

// GetEngineConfig returns the engine configuration with defaults applied.
func (c *Config) GetEngineConfig() EngineConfig {
	cfg := c.Engine

	if cfg.PacketFrames <= 0 {
		cfg.PacketFrames = 1024
	}
	if cfg.InputQueue <= 0 {
		cfg.InputQueue = 4
	}
	if cfg.DequeueTimeout <= 0 {
		cfg.DequeueTimeout = 10 * time.Millisecond
	}
	if cfg.StallThreshold <= 0 {
		cfg.StallThreshold = 200
	}
	if cfg.DriftTolerance <= 0 {
		cfg.DriftTolerance = 500 * time.Millisecond
	}
	if cfg.BufferingInterval <= 0 {
		cfg.BufferingInterval = 200 * time.Millisecond
	}
	if cfg.PlayingInterval <= 0 {
		cfg.PlayingInterval = 500 * time.Millisecond
	}
	if cfg.Speed < 0.25 || cfg.Speed > 4 {
		cfg.Speed = 1
	}
	if cfg.Volume == nil || *cfg.Volume < 0 || *cfg.Volume > 1 {
		v := 1.0
		cfg.Volume = &v
	}
	if cfg.SeekStep <= 0 {
		cfg.SeekStep = 5 * time.Second
	}
	if cfg.SpeedStep <= 0 || cfg.SpeedStep > 1 {
		cfg.SpeedStep = 0.1
	}

	return cfg
}

// GetLogConfig returns the log configuration with defaults applied.
func (c *Config) GetLogConfig() LogConfig {
	cfg := c.Log
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.File == "" {
		cfg.File = filepath.Join(xdg.StateHome, appName, appName+".log")
	}
	return cfg
}
