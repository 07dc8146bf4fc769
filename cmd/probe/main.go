// Probe opens a source with the player's media stack and prints what it
// found. With -play it also runs the engine for a while and logs its events.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/llehouerou/tempo/internal/engine"
	"github.com/llehouerou/tempo/internal/media"
	"github.com/llehouerou/tempo/internal/output"
	"github.com/llehouerou/tempo/internal/ui/render"
)

func main() {
	play := flag.Duration("play", 0, "play this much of the source (0 to only probe)")
	speed := flag.Float64("speed", 1, "playback speed for -play")
	backend := flag.String("backend", output.BackendNull, "output backend for -play: null, speaker or oto")
	verbose := flag.Bool("v", false, "log engine debug output")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: probe [flags] <source>")
	}
	source := flag.Arg(0)

	reg := media.NewRegistry(0, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	m, err := reg.Open(ctx, source)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", source, err)
	}
	f := m.Format
	log.Printf("Source:   %s", source)
	log.Printf("Format:   %d Hz, %d channel(s)", f.SampleRate, f.Channels)
	log.Printf("Duration: %s", render.Clock(f.Duration))
	log.Printf("Packet:   %s", humanize.Bytes(uint64(m.PacketSize)))
	if !strings.Contains(source, ":") {
		if st, err := os.Stat(source); err == nil {
			log.Printf("Size:     %s", humanize.Bytes(uint64(st.Size())))
		}
	}
	if err := m.Close(); err != nil {
		log.Printf("Warning: close: %v", err)
	}

	if *play <= 0 {
		return
	}
	if err := playFor(source, *play, *speed, *backend, *verbose); err != nil {
		log.Fatalf("Playback failed: %v", err)
	}
}

// playFor plays source up to limit and logs every event until the engine
// parks at the limit or reaches the end.
func playFor(source string, limit time.Duration, speed float64, backend string, verbose bool) error {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).With().Timestamp().Logger()

	e := engine.New(engine.Options{
		Renderer: func(f media.Format) (output.Renderer, error) {
			return output.New(output.Config{Backend: backend}, f)
		},
		Logger: logger,
		Speed:  speed,
	})
	sub := e.Subscribe()

	ctx := context.Background()
	if _, err := e.SetSource(source).Wait(ctx); err != nil {
		return err
	}
	if _, err := e.Play(engine.PlayOptions{Until: limit}).Wait(ctx); err != nil {
		return err
	}

	started := time.Now()
	for ev := range sub.Events {
		log.Printf("%-9s %s / %s  %s", ev.State, render.Clock(ev.Position), render.Clock(ev.Duration), render.Speed(ev.Speed))
		if ev.Err != nil {
			return ev.Err
		}
		if ev.State == engine.StatePaused || ev.State == engine.StateCompleted {
			break
		}
	}
	log.Printf("Played %s in %s", render.Clock(e.Position()), time.Since(started).Round(time.Millisecond))

	if e.State().IsActive() {
		if _, err := e.Stop().Wait(ctx); err != nil {
			return err
		}
	}
	sub.Close()
	_, err := e.Dispose().Wait(ctx)
	return err
}
