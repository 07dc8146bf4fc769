package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Operation names, shared by errors and Commands.
const (
	OpSetSource = "setSource"
	OpPlay      = "play"
	OpPause     = "pause"
	OpStop      = "stop"
	OpSeek      = "seek"
	OpSetVolume = "setVolume"
	OpSetSpeed  = "setSpeed"
	OpDispose   = "dispose"
)

var (
	// ErrStalled is wrapped by a stall PlaybackError.
	ErrStalled = errors.New("decoder produced no output")
	// ErrInvalidSpeed is returned by SetSpeed for non-positive or NaN speeds.
	ErrInvalidSpeed = errors.New("speed must be greater than zero")
	// ErrUnknownCommand is returned by Dispatch for unknown command names.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrBadArgument is returned by Dispatch and Play for malformed arguments.
	ErrBadArgument = errors.New("bad argument")
)

// InvalidStateError is returned when an operation is not allowed in the
// current state. The state is left untouched.
type InvalidStateError struct {
	Op       string
	State    State
	Allowed  []State
	Disposed bool
}

func (e *InvalidStateError) Error() string {
	if e.Disposed {
		return fmt.Sprintf("%s: engine disposed", e.Op)
	}
	names := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		names[i] = s.String()
	}
	return fmt.Sprintf("%s: not allowed in state %s (allowed: %s)", e.Op, e.State, strings.Join(names, ", "))
}

// ErrorCode classifies a PlaybackError.
type ErrorCode string

const (
	CodeSource   ErrorCode = "source"
	CodeStall    ErrorCode = "stall"
	CodeRenderer ErrorCode = "renderer"
	CodeAborted  ErrorCode = "aborted"
	CodeArgument ErrorCode = "argument"
)

// PlaybackError reports a failed operation or a pipeline fault.
type PlaybackError struct {
	Code ErrorCode
	Op   string
	Err  error
}

func (e *PlaybackError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s error", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Code, e.Err)
}

func (e *PlaybackError) Unwrap() error { return e.Err }

// IsCode reports whether err is a PlaybackError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var pe *PlaybackError
	return errors.As(err, &pe) && pe.Code == code
}
