package comm

import (
	"context"
	"sync"
)

// LineQueue is an unbounded FIFO of protocol lines, safe for any
// number of producers and exactly one consumer. The wake channel
// carries at most one token, which is enough for a single consumer.
type LineQueue struct {
	mu     sync.Mutex
	items  []string
	wake   chan struct{}
	closed bool
}

func NewLineQueue() *LineQueue {
	return &LineQueue{wake: make(chan struct{}, 1)}
}

// Push appends one line. Lines pushed after Close are dropped.
func (q *LineQueue) Push(line string) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.items = append(q.items, line)
	q.mu.Unlock()
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// TryPop pops the head without blocking.
func (q *LineQueue) TryPop() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return "", false
	}
	head := q.items[0]
	q.items = q.items[1:]
	return head, true
}

// Pop blocks until a line is available, the queue is closed and
// drained, or ctx is done. Remaining lines are still delivered after
// Close.
func (q *LineQueue) Pop(ctx context.Context) (string, bool) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			head := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return head, true
		}
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return "", false
		}
		select {
		case <-q.wake:
		case <-ctx.Done():
			return "", false
		}
	}
}

func (q *LineQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Clear drops all queued lines.
func (q *LineQueue) Clear() {
	q.mu.Lock()
	q.items = q.items[:0]
	q.mu.Unlock()
}

// Close stops the queue; blocked Pops return once drained.
func (q *LineQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()
	close(q.wake)
}
