// Package gray provides reflected-binary (Gray) code conversions.
//
// Pointers cross the clock-domain boundary in Gray form only: consecutive
// pointer values differ in exactly one bit, so a synchronizer sampling a
// pointer mid-transition captures either the old or the new value, never a
// spurious third one.
package gray

// Encode converts a binary value to its Gray code.
func Encode(b uint64) uint64 {
	return b ^ (b >> 1)
}

// Decode converts a Gray code back to binary with a cumulative XOR scan.
// It is total over the full 64-bit width.
func Decode(g uint64) uint64 {
	b := g
	for shift := 1; shift < 64; shift <<= 1 {
		b ^= b >> shift
	}

	return b
}
