package utils

import "sync"

const BATCH_SIZE = 50

// BatchBuffer collects items until the caller drains them, safe for use
// from the consumer loop and the flush ticker at once.
type BatchBuffer[T any] struct {
	mu     sync.Mutex
	buffer []T
}

func NewBatchBuffer[T any]() *BatchBuffer[T] {
	return &BatchBuffer[T]{buffer: make([]T, 0, BATCH_SIZE)}
}

func (b *BatchBuffer[T]) Add(item T) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buffer = append(b.buffer, item)
	return len(b.buffer)
}

// GetAndClear drains the buffer, returning nil when it is empty.
func (b *BatchBuffer[T]) GetAndClear() []T {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.buffer) == 0 {
		return nil
	}
	batch := b.buffer
	b.buffer = make([]T, 0, BATCH_SIZE)
	return batch
}

func (b *BatchBuffer[T]) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buffer)
}
