package engine

import "sync"

const eventBufferSize = 64

// Subscription receives engine events. Events is closed after the final
// StateNone event of Dispose, or after Close.
type Subscription struct {
	Events <-chan Event
	Done   <-chan struct{}

	eventsCh chan Event
	doneCh   chan struct{}
	once     sync.Once
}

func newSubscription() *Subscription {
	s := &Subscription{
		eventsCh: make(chan Event, eventBufferSize),
		doneCh:   make(chan struct{}),
	}
	s.Events = s.eventsCh
	s.Done = s.doneCh
	return s
}

// Close stops delivery. Pending events may still be drained from Events.
func (s *Subscription) Close() {
	s.once.Do(func() { close(s.doneCh) })
}

// send delivers e, blocking until there is room or the subscriber closed.
func (s *Subscription) send(e Event) bool {
	select {
	case s.eventsCh <- e:
		return true
	case <-s.doneCh:
		return false
	}
}
