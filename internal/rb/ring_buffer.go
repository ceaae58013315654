// Package rb provides a lock-free spsc generic ring buffer.
//
// It decouples the simulation loop (single producer) from the trace drain
// goroutine (single consumer): the producer never blocks, the consumer can
// wait for data with a context.
package rb

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

var maxSpins = runtime.NumCPU() * 32

// ErrClosed is returned when the buffer is closed.
var ErrClosed = errors.New("ring buffer: buffer is closed")

// RingBuffer is a lock-free spsc generic ring buffer.
type RingBuffer[T any] struct {
	head atomic.Uint64

	_ cpu.CacheLinePad

	tail atomic.Uint64

	_ cpu.CacheLinePad

	capacity uint64
	capMask  uint64

	buffer []T

	_ cpu.CacheLinePad

	// isClosed states whether the buffer is closed.
	isClosed atomic.Bool

	// isEmpty states whether a consumer is waiting for data.
	isEmpty atomic.Bool

	notEmpty *sync.Cond
	mux      *sync.Mutex
}

// NewRingBuffer returns a new lock-free spsc generic ring buffer.
// The capacity is rounded up to the next power of two.
func NewRingBuffer[T any](capacity uint64) *RingBuffer[T] {
	mux := &sync.Mutex{}

	parsedCapacity := roundToPowerOf2(capacity)

	return &RingBuffer[T]{
		capacity: parsedCapacity,
		capMask:  parsedCapacity - 1,

		buffer: make([]T, parsedCapacity),

		mux:      mux,
		notEmpty: sync.NewCond(mux),
	}
}

func roundToPowerOf2(capacity uint64) uint64 {
	if capacity == 0 {
		return 1
	}

	rounded := uint64(1)
	for rounded < capacity {
		rounded <<= 1
	}

	return rounded
}

func (rb *RingBuffer[T]) push(item T) bool {
	head := rb.head.Load()
	tail := rb.tail.Load()

	// Check if buffer is full
	if head-tail >= rb.capacity {
		return false
	}

	// Add the item to the buffer
	rb.buffer[head&rb.capMask] = item

	// Increase head
	rb.head.Add(1)

	return true
}

func (rb *RingBuffer[T]) pop() (T, bool) {
	var zero T

	head := rb.head.Load()
	tail := rb.tail.Load()

	// Check if buffer is empty
	if head == tail {
		return zero, false
	}

	// Get the item
	item := rb.buffer[tail&rb.capMask]

	// Increase tail
	rb.tail.Add(1)

	return item, true
}

// TryWrite pushes an item without blocking.
// It returns false when the buffer is full or closed; the caller decides
// whether dropping the item is acceptable.
func (rb *RingBuffer[T]) TryWrite(item T) bool {
	if rb.isClosed.Load() {
		return false
	}

	if !rb.push(item) {
		return false
	}

	// Check if a consumer is waiting, if so wake it up
	if rb.isEmpty.CompareAndSwap(true, false) {
		rb.mux.Lock()
		rb.notEmpty.Broadcast()
		rb.mux.Unlock()
	}

	return true
}

func (rb *RingBuffer[T]) wait(ctx context.Context) error {
	done := make(chan struct{})

	go func() {
		defer close(done)
		rb.notEmpty.Wait()
	}()

	select {
	case <-done:
		return nil

	case <-ctx.Done():
		// Wake up the waiting goroutine
		rb.notEmpty.Broadcast()
		<-done
		return ctx.Err()
	}
}

// Read pops an item, blocking until one is available, the context is
// cancelled, or the buffer is closed and fully drained.
func (rb *RingBuffer[T]) Read(ctx context.Context) (T, error) {
	var item T
	var popOk bool

	for spin := 0; spin < maxSpins; spin++ {
		item, popOk = rb.pop()
		if popOk {
			return item, nil
		}

		// The buffer is empty, yield to other goroutines
		runtime.Gosched()
	}

	for {
		item, popOk = rb.pop()
		if popOk {
			return item, nil
		}

		// Buffer is empty, wait for data
		rb.mux.Lock()

		// Set buffer as empty
		rb.isEmpty.Store(true)

		// Check if buffer is closed; pending items were drained by the
		// pop attempts above
		if rb.isClosed.Load() {
			rb.mux.Unlock()
			return item, ErrClosed
		}

		// Wait for data, return an error if the context is cancelled
		if err := rb.wait(ctx); err != nil {
			rb.mux.Unlock()
			return item, err
		}

		rb.mux.Unlock()
	}
}

// Len returns the number of items in the buffer.
func (rb *RingBuffer[T]) Len() uint64 {
	tail := rb.tail.Load()
	head := rb.head.Load()

	if head < tail {
		return head + rb.capacity - tail
	}

	return head - tail
}

// Close closes the buffer.
// A blocked Read is woken up and keeps returning items until the buffer is
// drained.
func (rb *RingBuffer[T]) Close() {
	if !rb.isClosed.CompareAndSwap(false, true) {
		return
	}

	rb.mux.Lock()
	rb.notEmpty.Broadcast()
	rb.mux.Unlock()
}
