package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Array(t *testing.T) {
	assert := assert.New(t)

	const depth = 16

	array := NewArray(depth)
	assert.Equal(uint64(depth), array.Depth())

	for i := uint64(0); i < depth; i++ {
		array.Write(i, i*0x11)
	}

	for i := uint64(0); i < depth; i++ {
		assert.Equal(i*0x11, array.Read(i))
	}

	// Indexes are truncated to the array depth.
	array.Write(depth+3, 0xAA)
	assert.Equal(uint64(0xAA), array.Read(3))
	assert.Equal(uint64(0xAA), array.Read(depth+3))
}
