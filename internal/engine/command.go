package engine

import (
	"fmt"
	"reflect"
	"time"
)

// Command is an inbound request addressed by name, as sent by a front-end
// that does not link against the typed API.
//
// Arguments by name:
//
//	setSource  source (string)
//	play       until, loopStart (duration), loop (bool); all optional
//	seek       position (duration)
//	setVolume  volume (float)
//	setSpeed   speed (float)
//
// Durations are time.Duration, a time.ParseDuration string, or a number of
// seconds. Floats may be any Go integer or floating-point type.
type Command struct {
	Name string
	Args map[string]any
}

// Dispatch runs cmd and returns its result with the value type erased.
func (e *Engine) Dispatch(cmd Command) *Result[any] {
	switch cmd.Name {
	case OpSetSource:
		src, err := stringArg(cmd, "source")
		if err != nil {
			return failedResult[any](err)
		}
		return adapt(e.SetSource(src))
	case OpPlay:
		var opts PlayOptions
		var err error
		if opts.Until, err = optionalDurationArg(cmd, "until"); err != nil {
			return failedResult[any](err)
		}
		if opts.LoopStart, err = optionalDurationArg(cmd, "loopStart"); err != nil {
			return failedResult[any](err)
		}
		if v, ok := cmd.Args["loop"]; ok {
			b, isBool := v.(bool)
			if !isBool {
				return failedResult[any](badArg(cmd, "loop", v))
			}
			opts.Loop = b
		}
		return adapt(e.Play(opts))
	case OpPause:
		return adapt(e.Pause())
	case OpStop:
		return adapt(e.Stop())
	case OpSeek:
		pos, err := durationArg(cmd, "position")
		if err != nil {
			return failedResult[any](err)
		}
		return adapt(e.Seek(pos))
	case OpSetVolume:
		v, err := floatArg(cmd, "volume")
		if err != nil {
			return failedResult[any](err)
		}
		return adapt(e.SetVolume(v))
	case OpSetSpeed:
		v, err := floatArg(cmd, "speed")
		if err != nil {
			return failedResult[any](err)
		}
		return adapt(e.SetSpeed(v))
	case OpDispose:
		return adapt(e.Dispose())
	default:
		return failedResult[any](&PlaybackError{
			Code: CodeArgument,
			Op:   cmd.Name,
			Err:  fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Name),
		})
	}
}

func badArg(cmd Command, name string, v any) error {
	return &PlaybackError{
		Code: CodeArgument,
		Op:   cmd.Name,
		Err:  fmt.Errorf("%w: %s=%v (%T)", ErrBadArgument, name, v, v),
	}
}

func missingArg(cmd Command, name string) error {
	return &PlaybackError{
		Code: CodeArgument,
		Op:   cmd.Name,
		Err:  fmt.Errorf("%w: missing %s", ErrBadArgument, name),
	}
}

func stringArg(cmd Command, name string) (string, error) {
	v, ok := cmd.Args[name]
	if !ok {
		return "", missingArg(cmd, name)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", badArg(cmd, name, v)
	}
	return s, nil
}

func floatArg(cmd Command, name string) (float64, error) {
	v, ok := cmd.Args[name]
	if !ok {
		return 0, missingArg(cmd, name)
	}
	f, ok := number(v)
	if !ok {
		return 0, badArg(cmd, name, v)
	}
	return f, nil
}

// number converts any integer or floating-point value to float64.
func number(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch {
	case rv.CanFloat():
		return rv.Float(), true
	case rv.CanInt():
		return float64(rv.Int()), true
	case rv.CanUint():
		return float64(rv.Uint()), true
	default:
		return 0, false
	}
}

func durationArg(cmd Command, name string) (time.Duration, error) {
	v, ok := cmd.Args[name]
	if !ok {
		return 0, missingArg(cmd, name)
	}
	switch d := v.(type) {
	case time.Duration:
		return d, nil
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return 0, badArg(cmd, name, v)
		}
		return parsed, nil
	default:
		secs, ok := number(v)
		if !ok {
			return 0, badArg(cmd, name, v)
		}
		return time.Duration(secs * float64(time.Second)), nil
	}
}

func optionalDurationArg(cmd Command, name string) (time.Duration, error) {
	if _, ok := cmd.Args[name]; !ok {
		return 0, nil
	}
	return durationArg(cmd, name)
}
