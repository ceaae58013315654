// Package trace provides waveform recording for FIFO simulations.
//
// The simulation loop pushes one sample per clock edge into a collector,
// which buffers them through a lock-free ring and drains them to the
// configured recorders without ever stalling the simulated hardware.
package trace

import "time"

// Domain identifies the clock domain a sample was taken in.
type Domain uint8

const (
	// DomainWrite marks a sample taken on a write clock edge.
	DomainWrite Domain = iota
	// DomainRead marks a sample taken on a read clock edge.
	DomainRead
)

func (d Domain) String() string {
	switch d {
	case DomainWrite:
		return "write"
	case DomainRead:
		return "read"
	default:
		return "unknown"
	}
}

// Sample is one per-edge observation of the FIFO's externally visible
// signals plus the pointer state of both domains.
type Sample struct {
	// Time is the simulated time of the clock edge.
	Time time.Duration
	// Domain is the clock domain the edge belongs to.
	Domain Domain
	// Cycle is the edge count of that domain's clock.
	Cycle uint64

	// Enable is the write or read enable driven at the edge.
	Enable bool
	// Accepted states whether the operation was accepted.
	Accepted bool
	// Data is the word written or the combinational read output.
	Data uint64

	// Full is the write domain's full flag after the edge.
	Full bool
	// Empty is the read domain's empty flag after the edge.
	Empty bool

	// WritePointer and ReadPointer are the raw binary pointers, lap bit
	// included, after the edge.
	WritePointer uint64
	ReadPointer  uint64
}
