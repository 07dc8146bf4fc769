//go:build !linux

package notify

// New returns Nop: desktop notifications are only sent over the session bus.
func New() (Notifier, error) {
	return Nop{}, nil
}
