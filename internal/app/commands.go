package app

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/tempo/internal/engine"
	"github.com/llehouerou/tempo/internal/notify"
	"github.com/llehouerou/tempo/internal/state"
	"github.com/llehouerou/tempo/internal/stderr"
	"github.com/llehouerou/tempo/internal/tags"
)

const (
	tickInterval   = 250 * time.Millisecond
	commandTimeout = 10 * time.Second
	recentLimit    = 50
)

// TickCmd returns a command that sends TickMsg after tickInterval.
func TickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// waitForChannel creates a command that waits for a value from a channel and converts it to a message.
// onResult receives the value and a boolean indicating if the channel is still open (false means channel closed).
func waitForChannel[T any](ch <-chan T, onResult func(T, bool) tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		result, ok := <-ch
		return onResult(result, ok)
	}
}

// WatchEvents waits for the next engine event.
func WatchEvents(sub *engine.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return waitForChannel(sub.Events, func(ev engine.Event, ok bool) tea.Msg {
		if !ok {
			return EngineClosedMsg{}
		}
		return EngineEventMsg(ev)
	})
}

// WatchStderr waits for stderr output from the audio libraries.
func WatchStderr() tea.Cmd {
	return waitForChannel(stderr.Messages, func(line string, ok bool) tea.Msg {
		if !ok {
			return nil
		}
		return StderrMsg{Line: line}
	})
}

func run(ctx context.Context, p Player, name string, args map[string]any) (any, error) {
	return p.Dispatch(engine.Command{Name: name, Args: args}).Wait(ctx)
}

// dispatchCmd sends one command and reports its outcome.
func dispatchCmd(p Player, name string, args map[string]any) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		v, err := run(ctx, p, name, args)
		return CommandResultMsg{Op: name, Args: args, Value: v, Err: err}
	}
}

// openSourceCmd stops whatever is playing, opens source and moves to start.
// Playback begins right away when autoplay is set.
func openSourceCmd(p Player, source string, start time.Duration, autoplay bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		msg := SourceOpenedMsg{Source: source, Tag: tags.Lookup(source), Start: start, Autoplay: autoplay}
		fail := func(op string, err error) tea.Msg {
			msg.Op, msg.Err = op, err
			return msg
		}

		if p.Snapshot().State.IsActive() {
			if _, err := run(ctx, p, engine.OpStop, nil); err != nil {
				return fail(engine.OpStop, err)
			}
		}

		v, err := run(ctx, p, engine.OpSetSource, map[string]any{"source": source})
		if err != nil {
			return fail(engine.OpSetSource, err)
		}
		msg.Duration, _ = v.(time.Duration)

		if start > 0 && (msg.Duration <= 0 || start < msg.Duration) {
			if _, err := run(ctx, p, engine.OpSeek, map[string]any{"position": start}); err != nil {
				return fail(engine.OpSeek, err)
			}
		} else {
			msg.Start = 0
		}

		if autoplay {
			if _, err := run(ctx, p, engine.OpPlay, nil); err != nil {
				return fail(engine.OpPlay, err)
			}
		}
		return msg
	}
}

// shutdownCmd stops playback and disposes the engine.
func shutdownCmd(p Player) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		var errs []error
		if p.Snapshot().State.IsActive() {
			if _, err := run(ctx, p, engine.OpStop, nil); err != nil {
				errs = append(errs, err)
			}
		}
		if _, err := run(ctx, p, engine.OpDispose, nil); err != nil {
			errs = append(errs, err)
		}
		return ShutdownMsg{Err: errors.Join(errs...)}
	}
}

// loadRecentCmd reads the recently played list.
func loadRecentCmd(st state.Interface) tea.Cmd {
	return func() tea.Msg {
		items, err := st.RecentSources(recentLimit)
		return RecentLoadedMsg{Items: items, Err: err}
	}
}

// forgetCmd removes source from history.
func forgetCmd(st state.Interface, source string) tea.Cmd {
	return func() tea.Msg {
		return ForgetResultMsg{Source: source, Err: st.ForgetSource(source)}
	}
}

// notifyCmd announces the source that just started. Failures are only
// logged: notifications are best effort.
func notifyCmd(n notify.Notifier, t tags.Tag, replaces uint32, log zerolog.Logger) tea.Cmd {
	if n == nil {
		return nil
	}
	return func() tea.Msg {
		id, err := n.Notify(notify.NowPlaying(t, replaces))
		if err != nil {
			log.Debug().Err(err).Msg("notify")
			return nil
		}
		return NotifiedMsg{ID: id}
	}
}
