package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/tempo/internal/app"
	"github.com/llehouerou/tempo/internal/config"
	"github.com/llehouerou/tempo/internal/engine"
	"github.com/llehouerou/tempo/internal/media"
	"github.com/llehouerou/tempo/internal/mpris"
	"github.com/llehouerou/tempo/internal/notify"
	"github.com/llehouerou/tempo/internal/output"
	"github.com/llehouerou/tempo/internal/state"
	"github.com/llehouerou/tempo/internal/stderr"
)

// openLog opens the log file, creating its directory. Logs never go to the
// terminal while the TUI owns it.
func openLog(cfg config.LogConfig) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return zerolog.Nop(), nil, err
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	log := zerolog.New(f).Level(level).With().Timestamp().Logger()
	return log, f, nil
}

func newEngine(cfg *config.Config, sess *state.Session, log zerolog.Logger) *engine.Engine {
	ec := cfg.GetEngineConfig()
	oc := cfg.GetOutputConfig()

	speed, volume := ec.Speed, *ec.Volume
	if sess != nil {
		if sess.Speed > 0 {
			speed = sess.Speed
		}
		if sess.Volume >= 0 && sess.Volume <= 1 {
			volume = sess.Volume
		}
	}

	return engine.New(engine.Options{
		Opener: media.NewRegistry(ec.PacketFrames, ec.InputQueue),
		Renderer: func(f media.Format) (output.Renderer, error) {
			return output.New(output.Config{Backend: oc.Backend, Buffer: oc.Buffer}, f)
		},
		Logger:            log,
		DequeueTimeout:    ec.DequeueTimeout,
		StallThreshold:    ec.StallThreshold,
		DriftTolerance:    ec.DriftTolerance,
		BufferingInterval: ec.BufferingInterval,
		PlayingInterval:   ec.PlayingInterval,
		Speed:             speed,
		Volume:            &volume,
	})
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, logFile, err := openLog(cfg.GetLogConfig())
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()

	if err := stderr.Start(log); err != nil {
		log.Warn().Err(err).Msg("stderr capture unavailable")
	}
	defer stderr.Stop()

	stateMgr, err := state.Open()
	if err != nil {
		return fmt.Errorf("open state: %w", err)
	}

	sess, err := stateMgr.GetSession()
	if err != nil {
		log.Warn().Err(err).Msg("read session")
		sess = nil
	}

	var source string
	if len(os.Args) > 1 {
		source = os.Args[1]
	}

	var notifier notify.Notifier
	if cfg.Notifications {
		notifier, err = notify.New()
		if err != nil {
			log.Warn().Err(err).Msg("notifications unavailable")
			notifier = nil
		}
	}

	ec := cfg.GetEngineConfig()
	e := newEngine(cfg, sess, log)
	m := app.New(e, stateMgr, app.Options{
		Source:    source,
		Resume:    cfg.ResumeEnabled(),
		SeekStep:  ec.SeekStep,
		SpeedStep: ec.SpeedStep,
		Resolve:   cfg.ResolveSource,
		Notifier:  notifier,
		Logger:    log,
	})

	log.Info().Str("source", source).Msg("starting")
	p := tea.NewProgram(m, tea.WithAltScreen())

	remote, err := mpris.New(e, func(r mpris.Request) { p.Send(app.RemoteMsg(r)) }, log)
	if err != nil {
		log.Warn().Err(err).Msg("media keys unavailable")
	} else {
		defer remote.Close()
	}

	if _, err := p.Run(); err != nil {
		stateMgr.Close()
		return err
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		stderr.WriteOriginal(fmt.Sprintf("Error: %v\n", err))
		os.Exit(1)
	}
}
