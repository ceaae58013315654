package regs

import "sync/atomic"

// Synchronizer is the two-stage sampling chain that re-samples a foreign
// Gray pointer into the local clock domain.
//
// Both stages are owned by the receiving domain: they shift on its clock
// edges and clear on its reset only, independent of the foreign domain's
// reset state. Flag logic must use only the second, fully settled stage,
// which makes a pointer update observable no earlier than two receiving
// clock edges after it was published.
type Synchronizer struct {
	src *atomic.Uint64

	q1 uint64
	q2 uint64
}

// NewSynchronizer returns a synchronizer sampling the given foreign Gray
// publication.
func NewSynchronizer(src *atomic.Uint64) *Synchronizer {
	return &Synchronizer{src: src}
}

// Shift advances the chain by one receiving clock edge: the second stage
// takes the first stage's pre-edge value and the first stage takes a fresh
// sample of the foreign Gray pointer.
func (s *Synchronizer) Shift() {
	s.q2 = s.q1
	s.q1 = s.src.Load()
}

// Synced returns the settled second-stage sample, in Gray form.
func (s *Synchronizer) Synced() uint64 {
	return s.q2
}

// Reset clears both stages. Driven by the receiving domain's reset only.
func (s *Synchronizer) Reset() {
	s.q1 = 0
	s.q2 = 0
}
