package gray

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Encode(t *testing.T) {
	assert := assert.New(t)

	suite := []struct {
		bin      uint64
		expected uint64
	}{
		{0b00000, 0b00000},
		{0b00001, 0b00001},
		{0b00010, 0b00011},
		{0b00011, 0b00010},
		{0b00100, 0b00110},
		{0b00111, 0b00100},
		{0b01000, 0b01100},
		{0b01111, 0b01000},
		{0b10000, 0b11000},
		{0b11111, 0b10000},
	}

	for _, tCase := range suite {
		assert.Equal(tCase.expected, Encode(tCase.bin))
	}
}

func Test_DecodeIsInverse(t *testing.T) {
	assert := assert.New(t)

	for bin := uint64(0); bin < 1<<12; bin++ {
		assert.Equal(bin, Decode(Encode(bin)))
	}

	// Spot-check the top of the 64-bit range as well.
	for _, bin := range []uint64{1<<63 - 1, 1 << 63, 1<<64 - 1, 0xDEADBEEFCAFEBABE} {
		assert.Equal(bin, Decode(Encode(bin)))
	}
}

// Adjacent integers must map to codes differing in exactly one bit.
// This property is the entire reason Gray code is used across the
// domain boundary.
func Test_AdjacentCodesDifferInOneBit(t *testing.T) {
	assert := assert.New(t)

	for bin := uint64(0); bin < 1<<12; bin++ {
		diff := Encode(bin) ^ Encode(bin+1)
		assert.Equal(1, bits.OnesCount64(diff), "bin=%d", bin)
	}

	// Pointer wrap: modulo 2*depth arithmetic wraps the pointer from
	// 2*depth-1 back to 0, which also differs in a single bit.
	for _, depth := range []uint64{4, 8, 16, 32} {
		diff := Encode(2*depth-1) ^ Encode(0)
		assert.Equal(1, bits.OnesCount64(diff), "depth=%d", depth)
	}
}
