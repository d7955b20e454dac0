package ring

import (
	"sync"
)

// Buffer is a fixed capacity FIFO that overwrites its oldest item when full.
type Buffer[T any] struct {
	mu    sync.Mutex
	items []T
	head  int
	tail  int
	size  int
	count int
}

func NewBuffer[T any](capacity int) *Buffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer[T]{
		items: make([]T, capacity),
		size:  capacity,
	}
}

func (rb *Buffer[T]) Push(item T) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if rb.count == rb.size {
		rb.head = (rb.head + 1) % rb.size
	} else {
		rb.count++
	}
	rb.items[rb.tail] = item
	rb.tail = (rb.tail + 1) % rb.size
}

// at returns the i-th item counted from the oldest. Callers hold mu.
func (rb *Buffer[T]) at(i int) T {
	return rb.items[(rb.head+i)%rb.size]
}

func (rb *Buffer[T]) Last() (T, bool) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if rb.count == 0 {
		var zero T
		return zero, false
	}
	return rb.at(rb.count - 1), true
}

// SetLast replaces the newest item. It is a no-op on an empty buffer.
func (rb *Buffer[T]) SetLast(item T) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if rb.count == 0 {
		return
	}
	rb.items[(rb.head+rb.count-1)%rb.size] = item
}

// Items returns a copy of the buffered items, oldest first.
func (rb *Buffer[T]) Items() []T {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	out := make([]T, rb.count)
	for i := range out {
		out[i] = rb.at(i)
	}
	return out
}
