package engine

import "sync"

// dispatcher delivers events to subscribers on its own goroutine so the
// engine never blocks on a slow subscriber. Events are pushed under the
// engine lock, which fixes their order.
type dispatcher struct {
	mu      sync.Mutex
	queue   []Event
	subs    []*Subscription
	closing bool
	notify  chan struct{}
	done    chan struct{}
}

func newDispatcher() *dispatcher {
	d := &dispatcher{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *dispatcher) subscribe() *Subscription {
	sub := newSubscription()
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closing {
		close(sub.eventsCh)
		return sub
	}
	d.subs = append(d.subs, sub)
	return sub
}

func (d *dispatcher) push(e Event) {
	d.mu.Lock()
	if !d.closing {
		d.queue = append(d.queue, e)
	}
	d.mu.Unlock()
	d.wake()
}

// close delivers what is queued, then closes every subscription.
func (d *dispatcher) close() {
	d.mu.Lock()
	d.closing = true
	d.mu.Unlock()
	d.wake()
}

func (d *dispatcher) wake() {
	select {
	case d.notify <- struct{}{}:
	default:
	}
}

func (d *dispatcher) run() {
	defer close(d.done)
	var batch []Event
	for range d.notify {
		d.mu.Lock()
		batch = append(batch[:0], d.queue...)
		d.queue = d.queue[:0]
		subs := append([]*Subscription(nil), d.subs...)
		closing := d.closing
		d.mu.Unlock()

		for _, sub := range subs {
			for _, e := range batch {
				if !sub.send(e) {
					d.remove(sub)
					break
				}
			}
		}

		if closing {
			d.mu.Lock()
			if len(d.queue) > 0 {
				d.mu.Unlock()
				d.wake()
				continue
			}
			subs = d.subs
			d.subs = nil
			d.mu.Unlock()
			for _, sub := range subs {
				close(sub.eventsCh)
			}
			return
		}
	}
}

func (d *dispatcher) remove(sub *Subscription) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, s := range d.subs {
		if s == sub {
			d.subs = append(d.subs[:i], d.subs[i+1:]...)
			close(sub.eventsCh)
			return
		}
	}
}
