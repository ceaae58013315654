// Package mem provides the circular storage array shared by the two clock
// domains of the FIFO.
package mem

// Array is a power-of-two circular buffer of data words.
//
// Each slot is written by the write domain only and read by the read domain
// only. The slots are deliberately plain (non-atomic): cross-domain
// visibility of a written slot is ordered by the Gray pointer publication
// that follows every accepted write, so a reader that observes the advanced
// pointer also observes the slot contents.
type Array struct {
	slots []uint64

	idxMask uint64
}

// NewArray returns a new storage array with the given power-of-two depth.
func NewArray(depth uint64) *Array {
	return &Array{
		slots: make([]uint64, depth),

		idxMask: depth - 1,
	}
}

// Write deposits a word at the given slot index.
func (a *Array) Write(index, word uint64) {
	a.slots[index&a.idxMask] = word
}

// Read returns the word at the given slot index.
func (a *Array) Read(index uint64) uint64 {
	return a.slots[index&a.idxMask]
}

// Depth returns the number of slots.
func (a *Array) Depth() uint64 {
	return uint64(len(a.slots))
}
