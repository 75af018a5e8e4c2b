package synth

import (
	"errors"
	"sync/atomic"
)

var (
	// ErrQueueFull is returned when a push finds no free slot. Expected under
	// load; the caller drops the item or retries later.
	ErrQueueFull = errors.New("synth: queue full")

	// ErrBufferTooBig is returned when a batch could never fit, regardless of
	// how much of the queue is drained.
	ErrBufferTooBig = errors.New("synth: buffer exceeds queue capacity")
)

// Ring is a lock-free single-producer/single-consumer queue. One goroutine
// may push, one may pop; neither side ever blocks. A Ring created with
// capacity c holds at most c-1 items.
//
// head and tail advance modulo len(items). The producer writes the payload
// before publishing tail, the consumer reads the payload before publishing
// head, so a slot is never reused while its payload is unread. Go's atomics
// are sequentially consistent, which covers the release/acquire pairs this
// scheme needs.
type Ring[T any] struct {
	items []T
	head  atomic.Uint32 // next slot to pop
	tail  atomic.Uint32 // next slot to fill
}

func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 2 {
		panic("synth: ring capacity must be at least 2")
	}
	return &Ring[T]{items: make([]T, capacity)}
}

// Push enqueues a single item, or fails with ErrQueueFull.
func (r *Ring[T]) Push(item T) error {
	size := uint32(len(r.items))
	tail := r.tail.Load()
	next := (tail + 1) % size
	if next == r.head.Load() {
		return ErrQueueFull
	}
	r.items[tail] = item
	r.tail.Store(next)
	return nil
}

// PushAll enqueues the whole batch or nothing. A batch that could never fit
// fails with ErrBufferTooBig; a batch that merely doesn't fit right now fails
// with ErrQueueFull.
func (r *Ring[T]) PushAll(items []T) error {
	size := uint32(len(r.items))
	if uint32(len(items)) >= size {
		return ErrBufferTooBig
	}
	tail := r.tail.Load()
	free := (r.head.Load() + size - tail - 1) % size
	if uint32(len(items)) > free {
		return ErrQueueFull
	}
	for _, item := range items {
		r.items[tail] = item
		tail = (tail + 1) % size
	}
	r.tail.Store(tail)
	return nil
}

// Pop dequeues a single item. The second return value is false when the
// queue is empty.
func (r *Ring[T]) Pop() (T, bool) {
	head := r.head.Load()
	if head == r.tail.Load() {
		var zero T
		return zero, false
	}
	item := r.items[head]
	r.head.Store((head + 1) % uint32(len(r.items)))
	return item, true
}

// PopAll dequeues up to len(out) items in one pass and returns the filled
// prefix of out.
func (r *Ring[T]) PopAll(out []T) []T {
	size := uint32(len(r.items))
	head := r.head.Load()
	tail := r.tail.Load()
	n := 0
	for head != tail && n < len(out) {
		out[n] = r.items[head]
		head = (head + 1) % size
		n++
	}
	if n > 0 {
		r.head.Store(head)
	}
	return out[:n]
}

// Len reports how many items are currently queued. Only advisory: the value
// is stale as soon as it is returned.
func (r *Ring[T]) Len() int {
	size := uint32(len(r.items))
	return int((r.tail.Load() + size - r.head.Load()) % size)
}
