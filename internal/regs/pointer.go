// Package regs models the per-domain registers of the synchronization core:
// the binary/Gray pointer pair each clock domain owns and the two-stage
// synchronizer that re-samples the foreign Gray pointer.
package regs

import (
	"sync/atomic"

	"github.com/FerroO2000/valico/internal/gray"
)

// Pointer is a domain-owned address pointer of width log2(depth)+1 bits.
//
// The extra bit tracks laps around the storage array and is never used as a
// storage index; arithmetic is modulo 2*depth. The Gray transform of the
// binary value is published atomically so the foreign domain can sample it
// at any instant and observe either the old or the new code, never a torn
// intermediate value. Only the owning domain may call Advance and Reset.
type Pointer struct {
	bin  uint64
	gray atomic.Uint64

	ptrMask uint64
	idxMask uint64
	lapBit  uint64
}

// NewPointer returns a zeroed pointer for a storage array of the given
// power-of-two depth.
func NewPointer(depth uint64) *Pointer {
	return &Pointer{
		ptrMask: 2*depth - 1,
		idxMask: depth - 1,
		lapBit:  depth,
	}
}

// Advance increments the pointer by exactly one step modulo 2*depth and
// republishes the Gray mirror. The slot write of an accepted operation must
// happen before Advance so the publication orders it for the foreign domain.
func (p *Pointer) Advance() {
	p.bin = (p.bin + 1) & p.ptrMask
	p.gray.Store(gray.Encode(p.bin))
}

// Reset clears the pointer and its Gray mirror. Driven by the owning
// domain's reset only.
func (p *Pointer) Reset() {
	p.bin = 0
	p.gray.Store(0)
}

// Bin returns the raw binary value, including the lap bit.
func (p *Pointer) Bin() uint64 {
	return p.bin
}

// Index returns the storage index (the low log2(depth) bits).
func (p *Pointer) Index() uint64 {
	return p.bin & p.idxMask
}

// Lap returns the wrap-tracking bit.
func (p *Pointer) Lap() bool {
	return p.bin&p.lapBit != 0
}

// Published returns the atomically published Gray mirror, to be wired as
// the source of the foreign domain's synchronizer.
func (p *Pointer) Published() *atomic.Uint64 {
	return &p.gray
}

// Equals reports whether the pointer equals the given binary value in both
// index and lap bits.
func (p *Pointer) Equals(bin uint64) bool {
	return p.bin == bin&p.ptrMask
}

// SameIndex reports whether the pointer and the given binary value share
// the same storage index.
func (p *Pointer) SameIndex(bin uint64) bool {
	return p.bin&p.idxMask == bin&p.idxMask
}

// SameLap reports whether the pointer and the given binary value are on the
// same lap.
func (p *Pointer) SameLap(bin uint64) bool {
	return p.bin&p.lapBit == bin&p.lapBit
}

// Distance returns the number of steps the pointer is ahead of the given
// binary value, modulo 2*depth.
func (p *Pointer) Distance(bin uint64) uint64 {
	return (p.bin - bin) & p.ptrMask
}

// Behind returns the number of steps the given binary value is ahead of the
// pointer, modulo 2*depth.
func (p *Pointer) Behind(bin uint64) uint64 {
	return (bin - p.bin) & p.ptrMask
}
