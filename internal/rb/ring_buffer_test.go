package rb

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_RingBuffer_SPSC(t *testing.T) {
	assert := assert.New(t)

	const (
		capacity = 128
		items    = 100_000
	)

	buffer := NewRingBuffer[int](capacity)

	wg := &sync.WaitGroup{}
	wg.Add(1)

	go func() {
		defer wg.Done()

		for val := 0; val < items; val++ {
			for !buffer.TryWrite(val) {
			}
		}
	}()

	ctx := context.Background()

	// A single producer and a single consumer must preserve ordering.
	for expected := 0; expected < items; expected++ {
		val, err := buffer.Read(ctx)
		assert.NoError(err)
		assert.Equal(expected, val)
	}

	wg.Wait()
}

func Test_RingBuffer_TryWriteFull(t *testing.T) {
	assert := assert.New(t)

	buffer := NewRingBuffer[int](4)

	for val := 0; val < 4; val++ {
		assert.True(buffer.TryWrite(val))
	}

	assert.False(buffer.TryWrite(4))
	assert.Equal(uint64(4), buffer.Len())
}

func Test_RingBuffer_CloseDrains(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	buffer := NewRingBuffer[int](8)

	for val := 0; val < 3; val++ {
		require.True(buffer.TryWrite(val))
	}

	buffer.Close()

	assert.False(buffer.TryWrite(99))

	ctx := context.Background()

	// Pending items are still readable after close.
	for expected := 0; expected < 3; expected++ {
		val, err := buffer.Read(ctx)
		assert.NoError(err)
		assert.Equal(expected, val)
	}

	_, err := buffer.Read(ctx)
	assert.ErrorIs(err, ErrClosed)
}

func Test_RingBuffer_ReadCancellation(t *testing.T) {
	assert := assert.New(t)

	buffer := NewRingBuffer[int](8)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := buffer.Read(ctx)
	assert.ErrorIs(err, context.DeadlineExceeded)
}

func Test_RingBuffer_CapacityRounding(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(uint64(1), roundToPowerOf2(0))
	assert.Equal(uint64(1), roundToPowerOf2(1))
	assert.Equal(uint64(8), roundToPowerOf2(5))
	assert.Equal(uint64(128), roundToPowerOf2(128))
	assert.Equal(uint64(256), roundToPowerOf2(129))
}
