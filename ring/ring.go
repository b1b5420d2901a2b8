// Package ring provides a fixed-capacity circular queue with selectable
// overflow behavior. It backs bounded retention windows (candlestick
// history, CLI tail views) where the policy on overflow is the interesting
// decision: reject the newest, overwrite the oldest, or grow.
package ring

import (
	"errors"
	"fmt"
	"sync"
)

// ErrFull is returned by Push on a full queue with the Reject policy.
var ErrFull = errors.New("ring: queue full")

// Overflow selects what Push does when the queue is at capacity.
type Overflow int

const (
	// Reject refuses the new element and returns ErrFull.
	Reject Overflow = iota
	// Overwrite discards the oldest element to make room.
	Overwrite
	// Grow doubles the capacity.
	Grow
)

// Queue is a circular FIFO queue. Safe for concurrent use.
type Queue[T any] struct {
	mu     sync.Mutex
	buf    []T
	head   int
	size   int
	policy Overflow
}

// New creates a queue with the given initial capacity and overflow policy.
func New[T any](capacity int, policy Overflow) (*Queue[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("ring: capacity must be positive, got %d", capacity)
	}
	return &Queue[T]{buf: make([]T, capacity), policy: policy}, nil
}

// Push appends v. On overflow the configured policy decides: Reject
// returns ErrFull, Overwrite drops the oldest element, Grow doubles
// capacity.
func (q *Queue[T]) Push(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.size == len(q.buf) {
		switch q.policy {
		case Reject:
			return ErrFull
		case Overwrite:
			q.buf[q.head] = v
			q.head = (q.head + 1) % len(q.buf)
			return nil
		case Grow:
			q.growLocked()
		}
	}
	q.buf[(q.head+q.size)%len(q.buf)] = v
	q.size++
	return nil
}

// Pop removes and returns the oldest element.
func (q *Queue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if q.size == 0 {
		return zero, false
	}
	v := q.buf[q.head]
	q.buf[q.head] = zero
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return v, true
}

// Peek returns the oldest element without removing it.
func (q *Queue[T]) Peek() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if q.size == 0 {
		return zero, false
	}
	return q.buf[q.head], true
}

// Len returns the number of queued elements.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// Cap returns the current capacity.
func (q *Queue[T]) Cap() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buf)
}

// Snapshot returns the queued elements oldest-first. The returned slice is
// a copy; mutating it does not affect the queue.
func (q *Queue[T]) Snapshot() []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]T, q.size)
	for i := 0; i < q.size; i++ {
		out[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	return out
}

// growLocked doubles the buffer, compacting elements to the front.
// Caller holds q.mu.
func (q *Queue[T]) growLocked() {
	next := make([]T, len(q.buf)*2)
	for i := 0; i < q.size; i++ {
		next[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	q.buf = next
	q.head = 0
}
