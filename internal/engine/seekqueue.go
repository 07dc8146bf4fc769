package engine

import "time"

type seekRequest struct {
	target time.Duration
	result *Result[struct{}]
}

// seekQueue holds seek requests in arrival order. Only the last target of a
// batch is performed; earlier ones are superseded.
type seekQueue struct {
	items []seekRequest
}

func (q *seekQueue) push(target time.Duration, r *Result[struct{}]) {
	q.items = append(q.items, seekRequest{target: target, result: r})
}

func (q *seekQueue) len() int { return len(q.items) }

// take removes and returns every queued request.
func (q *seekQueue) take() []seekRequest {
	items := q.items
	q.items = nil
	return items
}

// resolveAll completes every queued request and empties the queue.
func (q *seekQueue) resolveAll(err error) {
	for _, it := range q.take() {
		it.result.resolve(struct{}{}, err)
	}
}
