//go:build !windows

// Package stderr captures output that audio backends and C libraries write
// directly to file descriptor 2, bypassing Go's os.Stderr. Captured lines go
// to the log and to Messages so they never corrupt the TUI layout.
package stderr

import (
	"errors"
	"os"
	"sync"
	"syscall"

	"github.com/rs/zerolog"
)

// capture is the active redirection. saved is a duplicate of the terminal's
// fd 2, 0 while nothing is captured.
var capture struct {
	sync.Mutex
	saved int
	r, w  *os.File
}

// Start points fd 2 at a pipe and logs every line written to it. Call it
// before opening the audio device. On error fd 2 is left untouched.
func Start(log zerolog.Logger) error {
	capture.Lock()
	defer capture.Unlock()
	if capture.saved != 0 {
		return nil
	}

	r, w, err := os.Pipe()
	if err != nil {
		return err
	}
	fd := int(os.Stderr.Fd())
	saved, err := syscall.Dup(fd)
	if err != nil {
		return errors.Join(err, r.Close(), w.Close())
	}
	if err := syscall.Dup2(int(w.Fd()), fd); err != nil {
		return errors.Join(err, syscall.Close(saved), r.Close(), w.Close())
	}

	capture.saved, capture.r, capture.w = saved, r, w
	go forward(r, log, Messages)
	return nil
}

// WriteOriginal writes to the terminal even while capture is active.
func WriteOriginal(msg string) {
	capture.Lock()
	saved := capture.saved
	capture.Unlock()
	if saved != 0 {
		_, _ = syscall.Write(saved, []byte(msg))
		return
	}
	_, _ = os.Stderr.WriteString(msg)
}

// Stop restores fd 2. Lines still in the pipe are dropped.
func Stop() {
	capture.Lock()
	defer capture.Unlock()
	if capture.saved == 0 {
		return
	}
	_ = syscall.Dup2(capture.saved, int(os.Stderr.Fd()))
	_ = syscall.Close(capture.saved)
	_ = capture.w.Close()
	_ = capture.r.Close()
	capture.saved, capture.r, capture.w = 0, nil, nil
}
